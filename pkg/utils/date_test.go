package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSameTradingDate(t *testing.T) {
	et, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	morning := time.Date(2025, 3, 10, 9, 30, 0, 0, et)
	afternoon := time.Date(2025, 3, 10, 15, 55, 0, 0, et)
	nextDay := time.Date(2025, 3, 11, 0, 5, 0, 0, et)

	assert.True(t, SameTradingDate(morning, afternoon))
	assert.False(t, SameTradingDate(afternoon, nextDay))
}

func TestSameTradingDateAcrossZones(t *testing.T) {
	et, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 23:00 UTC on March 10 is still March 10 in New York; 03:00 UTC on
	// March 11 is the evening of March 10 in New York.
	lateUTC := time.Date(2025, 3, 11, 3, 0, 0, 0, time.UTC)
	eveningET := time.Date(2025, 3, 10, 22, 0, 0, 0, et)

	assert.True(t, SameTradingDate(lateUTC, eveningET))
}
