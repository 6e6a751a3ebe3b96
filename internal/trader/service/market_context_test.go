package service

import (
	"context"
	"testing"

	"golang-ai-trader/internal/trader/dto"

	"github.com/stretchr/testify/assert"
)

func TestContextDegradesToNeutral(t *testing.T) {
	fundamentals := &fakeFundamentals{fail: assert.AnError}
	svc := NewMarketContextService(fundamentals, newTestLogger(t))

	mctx := svc.Context(context.Background(), "AAPL")

	assert.Equal(t, dto.NeutralMarketContext(), mctx)
}

func TestContextCachesFundamentals(t *testing.T) {
	fundamentals := &fakeFundamentals{contexts: map[string]dto.MarketContext{
		"AAPL": {Sector: "Technology", Industry: "Consumer Electronics", Beta: 1.2},
	}}
	svc := NewMarketContextService(fundamentals, newTestLogger(t))

	first := svc.Context(context.Background(), "AAPL")
	second := svc.Context(context.Background(), "AAPL")

	assert.Equal(t, "Technology", first.Sector)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, fundamentals.calls, "second lookup must hit the cache")
}

func TestContextFailureIsNotCached(t *testing.T) {
	fundamentals := &fakeFundamentals{fail: assert.AnError}
	svc := NewMarketContextService(fundamentals, newTestLogger(t))

	svc.Context(context.Background(), "AAPL")
	fundamentals.fail = nil
	fundamentals.contexts = map[string]dto.MarketContext{
		"AAPL": {Sector: "Technology", Industry: "Hardware", Beta: 1.1},
	}

	mctx := svc.Context(context.Background(), "AAPL")
	assert.Equal(t, "Technology", mctx.Sector)
}
