package service

import (
	"context"
	"fmt"

	"golang-ai-trader/internal/trader/dto"
	"golang-ai-trader/internal/trader/repository"
	"golang-ai-trader/pkg/logger"

	"github.com/markcheno/go-talib"
)

const (
	defaultRange    = "60d"
	defaultInterval = "1h"

	// minPeriods is the minimum number of complete bars required before any
	// indicator is computed.
	minPeriods = 20
)

// IndicatorService converts raw OHLCV history into a fixed indicator snapshot
// per symbol.
type IndicatorService interface {
	Snapshot(ctx context.Context, symbol string) (*dto.IndicatorSnapshot, error)
}

type indicatorService struct {
	marketData repository.MarketDataRepository
	log        *logger.Logger
}

// NewIndicatorService creates a new indicator engine.
func NewIndicatorService(marketData repository.MarketDataRepository, log *logger.Logger) IndicatorService {
	return &indicatorService{
		marketData: marketData,
		log:        log,
	}
}

// Snapshot fetches the lookback window and computes the snapshot. Retrieval
// errors, empty series and short history all collapse into
// ErrInsufficientData so the caller treats them identically.
func (s *indicatorService) Snapshot(ctx context.Context, symbol string) (*dto.IndicatorSnapshot, error) {
	bars, err := s.marketData.GetOHLCV(ctx, dto.GetStockDataParam{
		Symbol:   symbol,
		Interval: defaultInterval,
		Range:    defaultRange,
	})
	if err != nil {
		s.log.Warn("Market data retrieval failed",
			logger.StringField("symbol", symbol),
			logger.ErrorField(err),
		)
		return nil, fmt.Errorf("%v: %w", err, ErrInsufficientData)
	}

	if len(bars) < minPeriods {
		return nil, fmt.Errorf("%s has %d complete bars, need %d: %w", symbol, len(bars), minPeriods, ErrInsufficientData)
	}

	n := len(bars)
	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	volumes := make([]float64, n)
	for i, bar := range bars {
		highs[i] = bar.High
		lows[i] = bar.Low
		closes[i] = bar.Close
		volumes[i] = bar.Volume
	}

	macd, macdSignal, _ := talib.Macd(closes, 12, 26, 9)
	bbUpper, _, bbLower := talib.BBands(closes, 20, 2.0, 2.0, 0)
	stochK, stochD := talib.StochF(highs, lows, closes, 14, 3, 0)

	snapshot := &dto.IndicatorSnapshot{
		Symbol:         symbol,
		CurrentPrice:   closes[n-1],
		PriceChange24h: priceChange24h(closes),
		VolumeCurrent:  volumes[n-1],
		VolumeAvg:      last(talib.Sma(volumes, 20)),
		RSI:            last(talib.Rsi(closes, 14)),
		MACD:           last(macd),
		MACDSignal:     last(macdSignal),
		BollingerUpper: last(bbUpper),
		BollingerLower: last(bbLower),
		SMA20:          last(talib.Sma(closes, 20)),
		SMA50:          smaIfEnough(closes, 50),
		EMA12:          last(talib.Ema(closes, 12)),
		EMA26:          last(talib.Ema(closes, 26)),
		StochK:         last(stochK),
		StochD:         last(stochD),
		ATR:            last(talib.Atr(highs, lows, closes, 14)),
	}

	return snapshot, nil
}

// priceChange24h is measured 24 hourly bars back; with a shorter window the
// change reads as zero rather than failing the snapshot.
func priceChange24h(closes []float64) float64 {
	n := len(closes)
	if n <= 24 {
		return 0
	}
	prev := closes[n-1-24]
	if prev == 0 {
		return 0
	}
	return (closes[n-1] - prev) / prev * 100
}

func smaIfEnough(closes []float64, period int) float64 {
	if len(closes) < period {
		return 0
	}
	return last(talib.Sma(closes, period))
}

func last(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	v := values[len(values)-1]
	if v != v { // NaN guard
		return 0
	}
	return v
}
