package utils

import (
	"log"
	"time"
)

// TimeNowET returns the current time in the US equities trading timezone.
// Daily trade accounting is pinned to this zone so counter resets line up
// with the exchange calendar rather than the host timezone.
func TimeNowET() time.Time {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		log.Fatal("Failed to load location", err)
	}
	return time.Now().In(loc)
}

// SameTradingDate reports whether two instants fall on the same
// America/New_York calendar date.
func SameTradingDate(a, b time.Time) bool {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		log.Fatal("Failed to load location", err)
	}
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}
