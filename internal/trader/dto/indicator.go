package dto

import "time"

// OHLCV is a single market-data bar.
type OHLCV struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// GetStockDataParam selects the series to fetch from the market-data source.
type GetStockDataParam struct {
	Symbol   string
	Interval string
	Range    string
}

// IndicatorSnapshot is the fixed set of technical indicators computed for one
// symbol from its retained OHLCV window. Computed fresh per analysis call and
// never mutated afterwards.
type IndicatorSnapshot struct {
	Symbol         string  `json:"symbol"`
	CurrentPrice   float64 `json:"current_price"`
	PriceChange24h float64 `json:"price_change_24h"`
	VolumeCurrent  float64 `json:"volume_current"`
	VolumeAvg      float64 `json:"volume_avg"`
	RSI            float64 `json:"rsi"`
	MACD           float64 `json:"macd"`
	MACDSignal     float64 `json:"macd_signal"`
	BollingerUpper float64 `json:"bollinger_upper"`
	BollingerLower float64 `json:"bollinger_lower"`
	SMA20          float64 `json:"sma_20"`
	SMA50          float64 `json:"sma_50"`
	EMA12          float64 `json:"ema_12"`
	EMA26          float64 `json:"ema_26"`
	StochK         float64 `json:"stoch_k"`
	StochD         float64 `json:"stoch_d"`
	ATR            float64 `json:"atr"`
}
