package service

import (
	"context"
	"time"

	"golang-ai-trader/internal/trader/dto"
	"golang-ai-trader/internal/trader/repository"
	"golang-ai-trader/pkg/logger"

	gocache "github.com/patrickmn/go-cache"
)

// MarketContextService produces the fundamental context for a symbol. It
// never fails: a broken or empty fundamentals feed degrades to the neutral
// context so the decision pipeline keeps moving.
type MarketContextService interface {
	Context(ctx context.Context, symbol string) dto.MarketContext
}

type marketContextService struct {
	fundamentals repository.FundamentalsRepository
	cache        *gocache.Cache
	log          *logger.Logger
}

// NewMarketContextService creates a new market-context provider with a one
// hour fundamentals cache.
func NewMarketContextService(fundamentals repository.FundamentalsRepository, log *logger.Logger) MarketContextService {
	return &marketContextService{
		fundamentals: fundamentals,
		cache:        gocache.New(time.Hour, 10*time.Minute),
		log:          log,
	}
}

func (s *marketContextService) Context(ctx context.Context, symbol string) dto.MarketContext {
	if cached, found := s.cache.Get(symbol); found {
		return cached.(dto.MarketContext)
	}

	mctx, err := s.fundamentals.GetFundamentals(ctx, symbol)
	if err != nil {
		s.log.Warn("No market context data, using defaults",
			logger.StringField("symbol", symbol),
			logger.ErrorField(err),
		)
		return dto.NeutralMarketContext()
	}

	s.cache.Set(symbol, mctx, gocache.DefaultExpiration)
	return mctx
}
