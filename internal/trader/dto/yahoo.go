package dto

// YahooChartResponse mirrors the chart API envelope. Only the fields the
// indicator engine needs are declared.
type YahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// YahooQuoteSummaryResponse mirrors the quoteSummary API envelope for the
// summaryProfile, summaryDetail and financialData modules.
type YahooQuoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			SummaryProfile *struct {
				Sector   string `json:"sector"`
				Industry string `json:"industry"`
			} `json:"summaryProfile"`
			SummaryDetail *struct {
				MarketCap     YahooRawValue `json:"marketCap"`
				TrailingPE    YahooRawValue `json:"trailingPE"`
				Beta          YahooRawValue `json:"beta"`
				DividendYield YahooRawValue `json:"dividendYield"`
				AverageVolume YahooRawValue `json:"averageVolume"`
				PriceToBook   YahooRawValue `json:"priceToBook"`
			} `json:"summaryDetail"`
			FinancialData *struct {
				DebtToEquity   YahooRawValue `json:"debtToEquity"`
				CurrentRatio   YahooRawValue `json:"currentRatio"`
				ProfitMargins  YahooRawValue `json:"profitMargins"`
				RevenueGrowth  YahooRawValue `json:"revenueGrowth"`
				EarningsGrowth YahooRawValue `json:"earningsGrowth"`
			} `json:"financialData"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// YahooRawValue is the {raw, fmt} number wrapper used across quoteSummary.
type YahooRawValue struct {
	Raw float64 `json:"raw"`
	Fmt string  `json:"fmt"`
}
