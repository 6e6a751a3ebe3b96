package dto

import "time"

// Position is one open brokerage position as reported by the account API.
type Position struct {
	Symbol          string  `json:"symbol"`
	Qty             int     `json:"qty"`
	AvgEntryPrice   float64 `json:"avg_entry_price"`
	CurrentPrice    float64 `json:"current_price"`
	MarketValue     float64 `json:"market_value"`
	UnrealizedPL    float64 `json:"unrealized_pl"`
	UnrealizedPLPct float64 `json:"unrealized_plpc"`
	Side            string  `json:"side"`
}

// PortfolioState is a read-only snapshot of the account, fetched fresh from
// the brokerage at the start of each cycle. The brokerage remains the single
// source of truth; this struct is never mutated locally.
type PortfolioState struct {
	Timestamp     time.Time  `json:"timestamp"`
	TotalValue    float64    `json:"total_value"`
	Cash          float64    `json:"cash"`
	InvestedValue float64    `json:"invested_value"`
	Positions     []Position `json:"positions"`
	PositionCount int        `json:"position_count"`
}

// HasPosition reports whether an open position exists for the symbol and
// returns it when present.
func (p *PortfolioState) HasPosition(symbol string) (Position, bool) {
	for _, pos := range p.Positions {
		if pos.Symbol == symbol {
			return pos, true
		}
	}
	return Position{}, false
}

// PortfolioMetrics are derived per evaluation and never stored.
type PortfolioMetrics struct {
	TotalValue            float64 `json:"total_value"`
	Cash                  float64 `json:"cash"`
	InvestedValue         float64 `json:"invested_value"`
	TotalReturnPct        float64 `json:"total_return_pct"`
	TotalUnrealizedPL     float64 `json:"total_unrealized_pl"`
	TotalUnrealizedPLPct  float64 `json:"total_unrealized_pl_pct"`
	PositionCount         int     `json:"position_count"`
	ConcentrationIndex    float64 `json:"concentration_index"`
	SectorDiversification int     `json:"sector_diversification"`
	CashRatio             float64 `json:"cash_ratio"`
	InvestedRatio         float64 `json:"invested_ratio"`
}

// Risk report statuses.
const (
	RiskStatusOK      = "ok"
	RiskStatusWarning = "warning"
)

// RiskReport is the advisory output of a portfolio risk evaluation. Warnings
// never halt execution; they are surfaced to the notification boundary.
type RiskReport struct {
	Status   string           `json:"status"`
	Warnings []string         `json:"warnings"`
	Metrics  PortfolioMetrics `json:"metrics"`
}
