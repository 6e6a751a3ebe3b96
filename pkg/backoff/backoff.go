package backoff

import "time"

// Policy computes how long to wait before the next attempt. Attempts are
// counted from 1.
type Policy interface {
	Delay(attempt int) time.Duration
}

// Fixed waits the same interval regardless of attempt count.
type Fixed struct {
	Interval time.Duration
}

// Delay returns the fixed interval.
func (f Fixed) Delay(int) time.Duration { return f.Interval }

// Exponential doubles the base interval per attempt, capped at Max.
type Exponential struct {
	Base time.Duration
	Max  time.Duration
}

// Delay returns Base << (attempt-1), capped at Max.
func (e Exponential) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := e.Base
	for i := 1; i < attempt; i++ {
		d *= 2
		if e.Max > 0 && d >= e.Max {
			return e.Max
		}
	}
	if e.Max > 0 && d > e.Max {
		return e.Max
	}
	return d
}
