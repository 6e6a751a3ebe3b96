package service

import (
	"math"

	"golang-ai-trader/internal/trader/config"
	"golang-ai-trader/internal/trader/dto"
	"golang-ai-trader/pkg/common"
	"golang-ai-trader/pkg/logger"
)

// PositionSizerService turns a BUY decision into a concrete share count. The
// requested fraction is scaled down for low confidence, elevated risk and an
// already-diversified book, then capped at the per-position maximum.
type PositionSizerService interface {
	Size(decision *dto.Decision, portfolio *dto.PortfolioState) (*dto.PositionSizing, error)
	SizeWithBudget(decision *dto.Decision, portfolio *dto.PortfolioState, maxValue float64) (*dto.PositionSizing, error)
}

type positionSizerService struct {
	cfg *config.Config
	log *logger.Logger
}

func NewPositionSizerService(cfg *config.Config, log *logger.Logger) PositionSizerService {
	return &positionSizerService{cfg: cfg, log: log}
}

func (s *positionSizerService) Size(decision *dto.Decision, portfolio *dto.PortfolioState) (*dto.PositionSizing, error) {
	return s.SizeWithBudget(decision, portfolio, 0)
}

// SizeWithBudget sizes a position with an optional absolute dollar ceiling on
// top of the percentage cap. maxValue <= 0 means no ceiling.
func (s *positionSizerService) SizeWithBudget(decision *dto.Decision, portfolio *dto.PortfolioState, maxValue float64) (*dto.PositionSizing, error) {
	pct := decision.PositionSize
	pct *= confidenceMultiplier(decision.Confidence)
	pct *= riskMultiplier(decision.RiskLevel)
	pct *= diversificationMultiplier(portfolio.PositionCount)

	if pct > s.cfg.Trading.MaxPositionSize {
		pct = s.cfg.Trading.MaxPositionSize
	}

	value := portfolio.TotalValue * pct
	if maxValue > 0 && value > maxValue {
		value = maxValue
	}

	shares := 0
	if decision.CurrentPrice > 0 {
		shares = int(math.Floor(value / decision.CurrentPrice))
	}
	if shares < 1 {
		s.log.Debug("Adjusted position too small to trade",
			logger.StringField("symbol", decision.Symbol),
			logger.Float64Field("position_value", value),
			logger.Float64Field("price", decision.CurrentPrice),
		)
		return nil, ErrSizeTooSmall
	}

	return &dto.PositionSizing{
		PositionSizePct: pct,
		PositionValue:   value,
		Shares:          shares,
	}, nil
}

// confidenceMultiplier maps confidence in [0,1] linearly onto [0.5, 1.0] so
// that even a maximally unsure decision keeps half its requested size.
func confidenceMultiplier(confidence float64) float64 {
	return 0.5 + 0.5*confidence
}

func riskMultiplier(riskLevel string) float64 {
	switch riskLevel {
	case common.RiskLow:
		return 1.0
	case common.RiskMedium:
		return 0.8
	case common.RiskHigh:
		return 0.6
	default:
		return 0.8
	}
}

// diversificationMultiplier shrinks new positions as the book grows, bottoming
// out at 0.5. An empty book takes no penalty.
func diversificationMultiplier(positionCount int) float64 {
	if positionCount <= 0 {
		return 1.0
	}
	return math.Max(0.5, 1.0-0.1*float64(positionCount))
}
