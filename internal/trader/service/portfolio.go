package service

import (
	"context"
	"strconv"

	"golang-ai-trader/internal/trader/dto"
	"golang-ai-trader/internal/trader/repository"
	"golang-ai-trader/pkg/logger"
	"golang-ai-trader/pkg/utils"
)

// PortfolioService builds a point-in-time portfolio snapshot from the
// brokerage account and position endpoints. The brokerage is the single
// source of truth; nothing here is cached or mutated.
type PortfolioService interface {
	Snapshot(ctx context.Context) (*dto.PortfolioState, error)
}

type portfolioService struct {
	log       *logger.Logger
	brokerage repository.BrokerageRepository
}

func NewPortfolioService(log *logger.Logger, brokerage repository.BrokerageRepository) PortfolioService {
	return &portfolioService{log: log, brokerage: brokerage}
}

func (s *portfolioService) Snapshot(ctx context.Context) (*dto.PortfolioState, error) {
	account, err := s.brokerage.GetAccount(ctx)
	if err != nil {
		return nil, err
	}
	positions, err := s.brokerage.ListPositions(ctx)
	if err != nil {
		return nil, err
	}

	totalValue, _ := strconv.ParseFloat(account.PortfolioValue, 64)
	cash, _ := strconv.ParseFloat(account.Cash, 64)

	var invested float64
	for _, pos := range positions {
		invested += pos.MarketValue
	}

	return &dto.PortfolioState{
		Timestamp:     utils.TimeNowET(),
		TotalValue:    totalValue,
		Cash:          cash,
		InvestedValue: invested,
		Positions:     positions,
		PositionCount: len(positions),
	}, nil
}
