package service

import (
	"context"
	"fmt"
	"time"

	"golang-ai-trader/internal/entity"
	"golang-ai-trader/internal/trader/dto"
	"golang-ai-trader/internal/trader/repository"
)

// fakeBrokerage records submitted orders and serves canned account data.
type fakeBrokerage struct {
	orders    []dto.AlpacaOrderRequest
	failOrder error
	clock     dto.AlpacaClock
	account   dto.AlpacaAccount
	positions []dto.Position
}

func (f *fakeBrokerage) GetAccount(ctx context.Context) (*dto.AlpacaAccount, error) {
	account := f.account
	if account.PortfolioValue == "" {
		account = dto.AlpacaAccount{PortfolioValue: "100000", Cash: "50000"}
	}
	return &account, nil
}

func (f *fakeBrokerage) ListPositions(ctx context.Context) ([]dto.Position, error) {
	return f.positions, nil
}

func (f *fakeBrokerage) GetClock(ctx context.Context) (*dto.AlpacaClock, error) {
	clock := f.clock
	return &clock, nil
}

func (f *fakeBrokerage) SubmitMarketOrder(ctx context.Context, symbol string, qty int, side string) (*dto.AlpacaOrder, error) {
	if f.failOrder != nil {
		return nil, f.failOrder
	}
	f.orders = append(f.orders, dto.AlpacaOrderRequest{Symbol: symbol, Qty: fmt.Sprint(qty), Side: side})
	return &dto.AlpacaOrder{
		ID:     fmt.Sprintf("order-%d", len(f.orders)),
		Symbol: symbol,
		Status: "accepted",
	}, nil
}

// fakeTradeRepo is an in-memory trade log.
type fakeTradeRepo struct {
	records   []entity.TradeRecord
	failWrite error
}

func (f *fakeTradeRepo) Create(ctx context.Context, record *entity.TradeRecord) error {
	if f.failWrite != nil {
		return f.failWrite
	}
	f.records = append(f.records, *record)
	return nil
}

func (f *fakeTradeRepo) FindSince(ctx context.Context, since time.Time) ([]entity.TradeRecord, error) {
	var out []entity.TradeRecord
	for _, r := range f.records {
		if !r.Timestamp.Before(since) {
			out = append(out, r)
		}
	}
	return out, nil
}

// fakeDecisionRepo is an in-memory decision log.
type fakeDecisionRepo struct {
	decisions []entity.AIDecision
	failWrite error
}

func (f *fakeDecisionRepo) Create(ctx context.Context, decision *entity.AIDecision) error {
	if f.failWrite != nil {
		return f.failWrite
	}
	f.decisions = append(f.decisions, *decision)
	return nil
}

// fakeNotifier records outbound messages.
type fakeNotifier struct {
	messages []string
	failSend error
}

func (f *fakeNotifier) SendMessage(text string) error {
	if f.failSend != nil {
		return f.failSend
	}
	f.messages = append(f.messages, text)
	return nil
}

// fakePortfolio serves a fixed snapshot.
type fakePortfolio struct {
	state *dto.PortfolioState
	fail  error
}

func (f *fakePortfolio) Snapshot(ctx context.Context) (*dto.PortfolioState, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	state := *f.state
	return &state, nil
}

// fakeAIRepo returns scripted decisions keyed by symbol.
type fakeAIRepo struct {
	decisions map[string]*dto.Decision
	fail      error
	calls     int
}

func (f *fakeAIRepo) DecideTrade(ctx context.Context, ind dto.IndicatorSnapshot, mctx dto.MarketContext, summary repository.PortfolioSummary) (*dto.Decision, error) {
	f.calls++
	if f.fail != nil {
		return nil, f.fail
	}
	if d, ok := f.decisions[ind.Symbol]; ok {
		decision := *d
		return &decision, nil
	}
	return nil, repository.ErrMalformedResponse
}

// fakeMarketData serves a fixed bar series per symbol.
type fakeMarketData struct {
	bars map[string][]dto.OHLCV
	fail error
}

func (f *fakeMarketData) GetOHLCV(ctx context.Context, param dto.GetStockDataParam) ([]dto.OHLCV, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	return f.bars[param.Symbol], nil
}

// fakeFundamentals serves a fixed context or fails.
type fakeFundamentals struct {
	contexts map[string]dto.MarketContext
	fail     error
	calls    int
}

func (f *fakeFundamentals) GetFundamentals(ctx context.Context, symbol string) (dto.MarketContext, error) {
	f.calls++
	if f.fail != nil {
		return dto.MarketContext{}, f.fail
	}
	if mctx, ok := f.contexts[symbol]; ok {
		return mctx, nil
	}
	return dto.NeutralMarketContext(), nil
}
