package service

import (
	"context"
	"testing"
	"time"

	"golang-ai-trader/internal/trader/config"
	"golang-ai-trader/internal/trader/dto"
	"golang-ai-trader/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executorFixture(t *testing.T, cfg *config.Config, portfolio *dto.PortfolioState) (*tradeExecutorService, *fakeBrokerage, *fakeTradeRepo, *fakeNotifier) {
	t.Helper()
	log := newTestLogger(t)
	brokerage := &fakeBrokerage{}
	tradeRepo := &fakeTradeRepo{}
	notifier := &fakeNotifier{}
	sizer := NewPositionSizerService(cfg, log)
	portfolioSvc := &fakePortfolio{state: portfolio}
	marketData := &fakeMarketData{bars: map[string][]dto.OHLCV{}}

	exec := NewTradeExecutorService(cfg, log, sizer, brokerage, portfolioSvc, marketData, tradeRepo, nil, notifier).(*tradeExecutorService)
	return exec, brokerage, tradeRepo, notifier
}

func TestExecuteBuySubmitsAndRecords(t *testing.T) {
	cfg := sizerConfig()
	portfolio := &dto.PortfolioState{TotalValue: 100000, PositionCount: 0}
	exec, brokerage, tradeRepo, notifier := executorFixture(t, cfg, portfolio)

	decision := buyDecision(0.9, common.RiskLow)
	record, err := exec.Execute(context.Background(), decision, portfolio, ExecuteOptions{
		TradeType: common.TradeTypeAICycle,
		Sector:    "Technology",
	})
	require.NoError(t, err)
	require.NotNil(t, record)

	require.Len(t, brokerage.orders, 1)
	assert.Equal(t, "buy", brokerage.orders[0].Side)
	assert.Equal(t, common.ActionBuy, record.Action)
	assert.Equal(t, common.TradeTypeAICycle, record.TradeType)
	assert.Equal(t, "order-1", record.OrderID)
	assert.Equal(t, float64(record.Quantity)*decision.CurrentPrice, record.Total)

	require.Len(t, tradeRepo.records, 1)
	require.Len(t, notifier.messages, 1)
	assert.Contains(t, notifier.messages[0], "BUY AAPL")
	assert.Equal(t, 1, exec.TradesToday())
}

func TestExecuteHoldIsNoop(t *testing.T) {
	cfg := sizerConfig()
	portfolio := &dto.PortfolioState{TotalValue: 100000}
	exec, brokerage, _, _ := executorFixture(t, cfg, portfolio)

	decision := buyDecision(0.9, common.RiskLow)
	decision.Action = common.ActionHold

	record, err := exec.Execute(context.Background(), decision, portfolio, ExecuteOptions{TradeType: common.TradeTypeAICycle})
	require.NoError(t, err)
	assert.Nil(t, record)
	assert.Empty(t, brokerage.orders)
}

func TestExecuteRejectsLowConfidence(t *testing.T) {
	cfg := sizerConfig()
	portfolio := &dto.PortfolioState{TotalValue: 100000}
	exec, brokerage, _, _ := executorFixture(t, cfg, portfolio)

	_, err := exec.Execute(context.Background(), buyDecision(0.5, common.RiskLow), portfolio, ExecuteOptions{TradeType: common.TradeTypeAICycle})
	assert.ErrorIs(t, err, ErrBelowConfidence)
	assert.Empty(t, brokerage.orders)
}

func TestExecuteBuyWithExistingPositionSkips(t *testing.T) {
	cfg := sizerConfig()
	portfolio := &dto.PortfolioState{
		TotalValue:    100000,
		PositionCount: 1,
		Positions:     []dto.Position{{Symbol: "AAPL", Qty: 10}},
	}
	exec, brokerage, _, _ := executorFixture(t, cfg, portfolio)

	_, err := exec.Execute(context.Background(), buyDecision(0.9, common.RiskLow), portfolio, ExecuteOptions{TradeType: common.TradeTypeAICycle})
	assert.ErrorIs(t, err, ErrAlreadyHolding)
	assert.Empty(t, brokerage.orders)
}

func TestExecuteSellWithoutPositionSkips(t *testing.T) {
	cfg := sizerConfig()
	portfolio := &dto.PortfolioState{TotalValue: 100000}
	exec, brokerage, _, _ := executorFixture(t, cfg, portfolio)

	decision := buyDecision(0.9, common.RiskLow)
	decision.Action = common.ActionSell

	_, err := exec.Execute(context.Background(), decision, portfolio, ExecuteOptions{TradeType: common.TradeTypeAICycle})
	assert.ErrorIs(t, err, ErrNoPosition)
	assert.Empty(t, brokerage.orders)
}

func TestExecuteSellLiquidatesFullPosition(t *testing.T) {
	cfg := sizerConfig()
	portfolio := &dto.PortfolioState{
		TotalValue:    100000,
		PositionCount: 1,
		Positions:     []dto.Position{{Symbol: "AAPL", Qty: 42, CurrentPrice: 100}},
	}
	exec, brokerage, _, _ := executorFixture(t, cfg, portfolio)

	decision := buyDecision(0.9, common.RiskLow)
	decision.Action = common.ActionSell

	record, err := exec.Execute(context.Background(), decision, portfolio, ExecuteOptions{TradeType: common.TradeTypeAICycle})
	require.NoError(t, err)

	assert.Equal(t, 42, record.Quantity)
	require.Len(t, brokerage.orders, 1)
	assert.Equal(t, "sell", brokerage.orders[0].Side)
	assert.Equal(t, "42", brokerage.orders[0].Qty)
}

func TestExecuteDailyCap(t *testing.T) {
	cfg := sizerConfig()
	cfg.Trading.MaxDailyTrades = 1
	portfolio := &dto.PortfolioState{TotalValue: 100000}
	exec, brokerage, _, _ := executorFixture(t, cfg, portfolio)

	_, err := exec.Execute(context.Background(), buyDecision(0.9, common.RiskLow), portfolio, ExecuteOptions{TradeType: common.TradeTypeAICycle})
	require.NoError(t, err)

	decision := buyDecision(0.9, common.RiskLow)
	decision.Symbol = "MSFT"
	_, err = exec.Execute(context.Background(), decision, portfolio, ExecuteOptions{TradeType: common.TradeTypeAICycle})
	assert.ErrorIs(t, err, ErrDailyLimitReached)
	assert.Len(t, brokerage.orders, 1)
}

func TestExecuteFailedOrderDoesNotCount(t *testing.T) {
	cfg := sizerConfig()
	portfolio := &dto.PortfolioState{TotalValue: 100000}
	exec, brokerage, tradeRepo, _ := executorFixture(t, cfg, portfolio)
	brokerage.failOrder = assert.AnError

	_, err := exec.Execute(context.Background(), buyDecision(0.9, common.RiskLow), portfolio, ExecuteOptions{TradeType: common.TradeTypeAICycle})
	require.Error(t, err)
	assert.Equal(t, 0, exec.TradesToday())
	assert.Empty(t, tradeRepo.records)
}

func TestDailyCounterResetsOnNewTradingDate(t *testing.T) {
	cfg := sizerConfig()
	cfg.Trading.MaxDailyTrades = 1
	portfolio := &dto.PortfolioState{TotalValue: 100000}
	exec, _, _, _ := executorFixture(t, cfg, portfolio)

	et, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, et)
	exec.now = func() time.Time { return now }

	_, err = exec.Execute(context.Background(), buyDecision(0.9, common.RiskLow), portfolio, ExecuteOptions{TradeType: common.TradeTypeAICycle})
	require.NoError(t, err)
	assert.Equal(t, 1, exec.TradesToday())

	// Same date, cap binds.
	decision := buyDecision(0.9, common.RiskLow)
	decision.Symbol = "MSFT"
	_, err = exec.Execute(context.Background(), decision, portfolio, ExecuteOptions{TradeType: common.TradeTypeAICycle})
	assert.ErrorIs(t, err, ErrDailyLimitReached)

	// Next trading date, counter rolls over.
	now = now.AddDate(0, 0, 1)
	assert.Equal(t, 0, exec.TradesToday())
	_, err = exec.Execute(context.Background(), decision, portfolio, ExecuteOptions{TradeType: common.TradeTypeAICycle})
	require.NoError(t, err)
}

func TestExecutePersistFailureStillReturnsRecord(t *testing.T) {
	cfg := sizerConfig()
	portfolio := &dto.PortfolioState{TotalValue: 100000}
	exec, _, tradeRepo, _ := executorFixture(t, cfg, portfolio)
	tradeRepo.failWrite = assert.AnError

	record, err := exec.Execute(context.Background(), buyDecision(0.9, common.RiskLow), portfolio, ExecuteOptions{TradeType: common.TradeTypeAICycle})
	require.NoError(t, err)
	assert.NotNil(t, record)
	assert.Equal(t, 1, exec.TradesToday())
}

func TestExecuteManualSellCapsAtHeldQuantity(t *testing.T) {
	cfg := sizerConfig()
	portfolio := &dto.PortfolioState{
		TotalValue:    100000,
		PositionCount: 1,
		Positions:     []dto.Position{{Symbol: "AAPL", Qty: 5, CurrentPrice: 180}},
	}
	exec, brokerage, _, _ := executorFixture(t, cfg, portfolio)

	record, err := exec.ExecuteManual(context.Background(), "AAPL", "sell", 50)
	require.NoError(t, err)

	assert.Equal(t, 5, record.Quantity)
	assert.Equal(t, common.TradeTypeManual, record.TradeType)
	require.Len(t, brokerage.orders, 1)
	assert.Equal(t, "5", brokerage.orders[0].Qty)
}

func TestExecuteManualBuyRecordsQuotedPrice(t *testing.T) {
	cfg := sizerConfig()
	portfolio := &dto.PortfolioState{TotalValue: 100000}
	exec, brokerage, tradeRepo, notifier := executorFixture(t, cfg, portfolio)
	exec.marketData = &fakeMarketData{bars: map[string][]dto.OHLCV{
		"AAPL": {{Close: 181.20}, {Close: 184.55}},
	}}

	record, err := exec.ExecuteManual(context.Background(), "AAPL", "buy", 5)
	require.NoError(t, err)

	assert.Equal(t, 184.55, record.Price)
	assert.InDelta(t, 922.75, record.Total, 1e-9)
	assert.Equal(t, common.TradeTypeManual, record.TradeType)
	require.Len(t, brokerage.orders, 1)
	assert.Equal(t, "buy", brokerage.orders[0].Side)

	require.Len(t, tradeRepo.records, 1)
	assert.Equal(t, 184.55, tradeRepo.records[0].Price)
	require.Len(t, notifier.messages, 1)
	assert.Contains(t, notifier.messages[0], "$184.55")
}

func TestExecuteManualBuyQuoteFailureAborts(t *testing.T) {
	cfg := sizerConfig()
	portfolio := &dto.PortfolioState{TotalValue: 100000}
	exec, brokerage, _, _ := executorFixture(t, cfg, portfolio)
	exec.marketData = &fakeMarketData{fail: assert.AnError}

	_, err := exec.ExecuteManual(context.Background(), "AAPL", "buy", 5)
	require.Error(t, err)
	assert.Empty(t, brokerage.orders)
	assert.Equal(t, 0, exec.TradesToday())
}

func TestTradesSinceFiltersJournal(t *testing.T) {
	cfg := sizerConfig()
	portfolio := &dto.PortfolioState{TotalValue: 100000}
	exec, _, _, _ := executorFixture(t, cfg, portfolio)

	et, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, et)
	exec.now = func() time.Time { return now }

	_, err = exec.Execute(context.Background(), buyDecision(0.9, common.RiskLow), portfolio, ExecuteOptions{TradeType: common.TradeTypeAICycle})
	require.NoError(t, err)

	assert.Len(t, exec.TradesSince(now.Add(-time.Hour)), 1)
	assert.Empty(t, exec.TradesSince(now.Add(time.Hour)))
}
