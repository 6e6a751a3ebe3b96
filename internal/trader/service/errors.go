package service

import "errors"

// ErrInsufficientData signals too little history to compute indicators. Any
// retrieval failure or empty series collapses into this condition; the caller
// skips the symbol for the cycle either way.
var ErrInsufficientData = errors.New("insufficient market data")

// ErrSizeTooSmall signals the computed share count rounded to zero.
var ErrSizeTooSmall = errors.New("position size too small")

// ErrDailyLimitReached signals the daily trade cap is exhausted. The cycle
// stops submitting orders until the next trading day.
var ErrDailyLimitReached = errors.New("daily trade limit reached")

// ErrBelowConfidence signals the decision's confidence is under the floor.
var ErrBelowConfidence = errors.New("confidence below minimum")

// ErrAlreadyHolding signals a BUY against a symbol with an open position.
var ErrAlreadyHolding = errors.New("position already held")

// ErrNoPosition signals a SELL against a symbol with no open position.
var ErrNoPosition = errors.New("no position to sell")
