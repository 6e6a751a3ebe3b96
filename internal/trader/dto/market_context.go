package dto

// MarketContext carries the fundamental attributes of a symbol. Always
// produced; missing upstream data degrades to NeutralMarketContext.
type MarketContext struct {
	Sector         string  `json:"sector"`
	Industry       string  `json:"industry"`
	MarketCap      float64 `json:"market_cap"`
	PERatio        float64 `json:"pe_ratio"`
	Beta           float64 `json:"beta"`
	DividendYield  float64 `json:"dividend_yield"`
	VolumeAvg      float64 `json:"volume_avg"`
	PriceToBook    float64 `json:"price_to_book"`
	DebtToEquity   float64 `json:"debt_to_equity"`
	CurrentRatio   float64 `json:"current_ratio"`
	ProfitMargins  float64 `json:"profit_margins"`
	RevenueGrowth  float64 `json:"revenue_growth"`
	EarningsGrowth float64 `json:"earnings_growth"`
}

// NeutralMarketContext returns the defaults used when the fundamentals feed
// has nothing for a symbol. An unavailable feed must never block the
// decision pipeline, so this is a plain constructor rather than an error path.
func NeutralMarketContext() MarketContext {
	return MarketContext{
		Sector:   "Unknown",
		Industry: "Unknown",
		Beta:     1.0,
	}
}
