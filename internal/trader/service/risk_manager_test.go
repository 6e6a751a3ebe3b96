package service

import (
	"strings"
	"testing"

	"golang-ai-trader/internal/trader/config"
	"golang-ai-trader/internal/trader/dto"

	"github.com/stretchr/testify/assert"
)

func riskConfig() *config.Config {
	return &config.Config{
		Trading: config.Trading{InitialBalance: 100000},
	}
}

func TestCheckRiskLimitsLowCash(t *testing.T) {
	s := NewRiskManagerService(riskConfig(), newTestLogger(t))
	portfolio := &dto.PortfolioState{
		TotalValue:    100000,
		Cash:          3000,
		InvestedValue: 97000,
		PositionCount: 5,
		Positions: []dto.Position{
			{Symbol: "AAPL", MarketValue: 19400},
			{Symbol: "JPM", MarketValue: 19400},
			{Symbol: "XOM", MarketValue: 19400},
			{Symbol: "NKE", MarketValue: 19400},
			{Symbol: "CAT", MarketValue: 19400},
		},
	}

	report := s.CheckRiskLimits(portfolio)

	assert.Equal(t, dto.RiskStatusWarning, report.Status)
	assert.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0], "Low cash ratio")
	assert.InDelta(t, 3.0, report.Metrics.CashRatio, 1e-9)
}

func TestCheckRiskLimitsConcentration(t *testing.T) {
	s := NewRiskManagerService(riskConfig(), newTestLogger(t))
	portfolio := &dto.PortfolioState{
		TotalValue:    100000,
		Cash:          40000,
		InvestedValue: 60000,
		PositionCount: 1,
		Positions: []dto.Position{
			{Symbol: "TSLA", MarketValue: 60000},
		},
	}

	report := s.CheckRiskLimits(portfolio)

	// A single position is fully concentrated.
	assert.Equal(t, dto.RiskStatusWarning, report.Status)
	assert.InDelta(t, 1.0, report.Metrics.ConcentrationIndex, 1e-9)
	assert.Contains(t, report.Warnings[0], "High concentration")
}

func TestCheckRiskLimitsUnrealizedLosses(t *testing.T) {
	s := NewRiskManagerService(riskConfig(), newTestLogger(t))
	portfolio := &dto.PortfolioState{
		TotalValue:    88000,
		Cash:          38000,
		InvestedValue: 50000,
		PositionCount: 2,
		Positions: []dto.Position{
			{Symbol: "AAPL", MarketValue: 25000, UnrealizedPL: -4000},
			{Symbol: "XOM", MarketValue: 25000, UnrealizedPL: -2000},
		},
	}

	report := s.CheckRiskLimits(portfolio)

	assert.Equal(t, dto.RiskStatusWarning, report.Status)
	assert.InDelta(t, -12.0, report.Metrics.TotalUnrealizedPLPct, 1e-9)

	found := false
	for _, w := range report.Warnings {
		if strings.Contains(w, "unrealized losses") {
			found = true
		}
	}
	assert.True(t, found, "expected an unrealized loss warning, got %v", report.Warnings)
}

func TestCheckRiskLimitsHealthyPortfolio(t *testing.T) {
	s := NewRiskManagerService(riskConfig(), newTestLogger(t))
	portfolio := &dto.PortfolioState{
		TotalValue:    110000,
		Cash:          40000,
		InvestedValue: 70000,
		PositionCount: 4,
		Positions: []dto.Position{
			{Symbol: "AAPL", MarketValue: 18000, UnrealizedPL: 1200},
			{Symbol: "JPM", MarketValue: 17000, UnrealizedPL: 300},
			{Symbol: "XOM", MarketValue: 17500, UnrealizedPL: -150},
			{Symbol: "NKE", MarketValue: 17500, UnrealizedPL: 900},
		},
	}

	report := s.CheckRiskLimits(portfolio)

	assert.Equal(t, dto.RiskStatusOK, report.Status)
	assert.Empty(t, report.Warnings)
	assert.InDelta(t, 10.0, report.Metrics.TotalReturnPct, 1e-9)
	assert.Equal(t, 4, report.Metrics.SectorDiversification)
}

func TestMetricsSectorFallback(t *testing.T) {
	s := NewRiskManagerService(riskConfig(), newTestLogger(t))
	portfolio := &dto.PortfolioState{
		TotalValue:    100000,
		Cash:          50000,
		InvestedValue: 50000,
		PositionCount: 2,
		Positions: []dto.Position{
			{Symbol: "ZZZZ", MarketValue: 25000},
			{Symbol: "YYYY", MarketValue: 25000},
		},
	}

	metrics := s.Metrics(portfolio)

	// Unknown symbols collapse into one "Unknown" sector.
	assert.Equal(t, 1, metrics.SectorDiversification)
}
