package service

import (
	"fmt"

	"golang-ai-trader/internal/trader/config"
	"golang-ai-trader/internal/trader/dto"
	"golang-ai-trader/pkg/logger"
)

// Portfolio risk thresholds. Breaching one produces an advisory warning, never
// a halt. Ratio thresholds are percentages.
const (
	minCashRatioPct   = 5.0
	maxConcentration  = 0.30
	maxPositionCount  = 20
	maxUnrealizedLoss = -10.0
)

// RiskManagerService derives portfolio-level metrics from the brokerage
// snapshot and evaluates them against the advisory limits.
type RiskManagerService interface {
	Metrics(portfolio *dto.PortfolioState) dto.PortfolioMetrics
	CheckRiskLimits(portfolio *dto.PortfolioState) dto.RiskReport
}

type riskManagerService struct {
	cfg *config.Config
	log *logger.Logger
}

func NewRiskManagerService(cfg *config.Config, log *logger.Logger) RiskManagerService {
	return &riskManagerService{cfg: cfg, log: log}
}

func (s *riskManagerService) Metrics(portfolio *dto.PortfolioState) dto.PortfolioMetrics {
	m := dto.PortfolioMetrics{
		TotalValue:    portfolio.TotalValue,
		Cash:          portfolio.Cash,
		InvestedValue: portfolio.InvestedValue,
		PositionCount: portfolio.PositionCount,
	}

	if s.cfg.Trading.InitialBalance > 0 {
		m.TotalReturnPct = (portfolio.TotalValue - s.cfg.Trading.InitialBalance) / s.cfg.Trading.InitialBalance * 100
	}

	sectors := make(map[string]struct{})
	var totalPositionValue float64
	for _, pos := range portfolio.Positions {
		m.TotalUnrealizedPL += pos.UnrealizedPL
		totalPositionValue += pos.MarketValue
		sectors[SectorFor(pos.Symbol)] = struct{}{}
	}
	if portfolio.InvestedValue > 0 {
		m.TotalUnrealizedPLPct = m.TotalUnrealizedPL / portfolio.InvestedValue * 100
	}

	// Herfindahl index over position weights within the invested book.
	if totalPositionValue > 0 {
		for _, pos := range portfolio.Positions {
			weight := pos.MarketValue / totalPositionValue
			m.ConcentrationIndex += weight * weight
		}
	}
	m.SectorDiversification = len(sectors)

	if portfolio.TotalValue > 0 {
		m.CashRatio = portfolio.Cash / portfolio.TotalValue * 100
		m.InvestedRatio = portfolio.InvestedValue / portfolio.TotalValue * 100
	}

	return m
}

// CheckRiskLimits evaluates every limit independently so a single breach does
// not mask the others.
func (s *riskManagerService) CheckRiskLimits(portfolio *dto.PortfolioState) dto.RiskReport {
	metrics := s.Metrics(portfolio)

	var warnings []string
	if metrics.CashRatio < minCashRatioPct {
		warnings = append(warnings, fmt.Sprintf("Low cash ratio: %.1f%%", metrics.CashRatio))
	}
	if metrics.ConcentrationIndex > maxConcentration {
		warnings = append(warnings, fmt.Sprintf("High concentration: %.2f", metrics.ConcentrationIndex))
	}
	if metrics.PositionCount > maxPositionCount {
		warnings = append(warnings, fmt.Sprintf("Too many positions: %d", metrics.PositionCount))
	}
	if metrics.TotalUnrealizedPLPct < maxUnrealizedLoss {
		warnings = append(warnings, fmt.Sprintf("High unrealized losses: %.2f%%", metrics.TotalUnrealizedPLPct))
	}

	report := dto.RiskReport{
		Status:   dto.RiskStatusOK,
		Warnings: warnings,
		Metrics:  metrics,
	}
	if len(warnings) > 0 {
		report.Status = dto.RiskStatusWarning
		s.log.Warn("Portfolio risk warnings",
			logger.IntField("count", len(warnings)),
			logger.Field("warnings", warnings),
		)
	}

	return report
}
