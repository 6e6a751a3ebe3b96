package repository

import "errors"

var (
	// ErrRateLimited signals the inference service rejected the request on
	// quota grounds. Callers cool down instead of treating it as a hard fault.
	ErrRateLimited = errors.New("inference service rate limited")

	// ErrMalformedResponse signals the inference output failed schema
	// validation. The symbol yields no decision for the cycle.
	ErrMalformedResponse = errors.New("malformed inference response")
)
