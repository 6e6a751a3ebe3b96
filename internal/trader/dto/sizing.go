package dto

// PositionSizing is the concrete order size derived from a Decision after the
// confidence, risk and diversification adjustments.
type PositionSizing struct {
	PositionSizePct float64 `json:"position_size_pct"`
	PositionValue   float64 `json:"position_value"`
	Shares          int     `json:"shares"`
}

// Opportunity is a discovery-pass candidate that produced a BUY decision at
// or above the confidence floor.
type Opportunity struct {
	Symbol       string            `json:"symbol"`
	Sector       string            `json:"sector"`
	CurrentPrice float64           `json:"current_price"`
	Confidence   float64           `json:"confidence"`
	Reasoning    string            `json:"reasoning"`
	Indicators   IndicatorSnapshot `json:"indicators"`
	Context      MarketContext     `json:"context"`
}
