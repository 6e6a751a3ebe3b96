package service

import (
	"context"
	"testing"
	"time"

	"golang-ai-trader/internal/trader/dto"
	"golang-ai-trader/internal/trader/repository"
	"golang-ai-trader/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decisionFixture(t *testing.T, aiRepo *fakeAIRepo) (*decisionService, *fakeDecisionRepo) {
	t.Helper()
	cfg := sizerConfig()
	cfg.Gemini.RateLimitCooldown = 60 * time.Second
	decisionRepo := &fakeDecisionRepo{}
	svc := NewDecisionService(cfg, newTestLogger(t), aiRepo, decisionRepo).(*decisionService)
	return svc, decisionRepo
}

func snapshotFor(symbol string, price float64) dto.IndicatorSnapshot {
	return dto.IndicatorSnapshot{Symbol: symbol, CurrentPrice: price}
}

func TestDecideStampsAndPersists(t *testing.T) {
	aiRepo := &fakeAIRepo{decisions: map[string]*dto.Decision{
		"AAPL": {
			Action:       common.ActionBuy,
			Confidence:   0.85,
			PositionSize: 0.08,
			RiskLevel:    common.RiskLow,
			TimeHorizon:  common.HorizonMedium,
			Reasoning:    "momentum",
		},
	}}
	svc, decisionRepo := decisionFixture(t, aiRepo)

	et, _ := time.LoadLocation("America/New_York")
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, et)
	svc.now = func() time.Time { return now }

	decision, err := svc.Decide(context.Background(), snapshotFor("AAPL", 187.5), dto.NeutralMarketContext(), &dto.PortfolioState{TotalValue: 120000})
	require.NoError(t, err)

	assert.Equal(t, "AAPL", decision.Symbol)
	assert.Equal(t, 187.5, decision.CurrentPrice)
	assert.Equal(t, now, decision.Timestamp)

	require.Len(t, decisionRepo.decisions, 1)
	assert.Equal(t, "AAPL", decisionRepo.decisions[0].Symbol)
	assert.Equal(t, common.ActionBuy, decisionRepo.decisions[0].Action)
	assert.NotEmpty(t, decisionRepo.decisions[0].Data)
}

func TestDecideRateLimitTriggersCooldown(t *testing.T) {
	aiRepo := &fakeAIRepo{fail: repository.ErrRateLimited}
	svc, _ := decisionFixture(t, aiRepo)

	et, _ := time.LoadLocation("America/New_York")
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, et)
	svc.now = func() time.Time { return now }

	_, err := svc.Decide(context.Background(), snapshotFor("AAPL", 100), dto.NeutralMarketContext(), nil)
	assert.ErrorIs(t, err, repository.ErrRateLimited)
	assert.Equal(t, 1, aiRepo.calls)

	// While cooling down, no call reaches the inference service.
	now = now.Add(30 * time.Second)
	_, err = svc.Decide(context.Background(), snapshotFor("MSFT", 100), dto.NeutralMarketContext(), nil)
	assert.ErrorIs(t, err, repository.ErrRateLimited)
	assert.Equal(t, 1, aiRepo.calls)

	// After the cooldown the engine calls again.
	now = now.Add(31 * time.Second)
	aiRepo.fail = nil
	aiRepo.decisions = map[string]*dto.Decision{"MSFT": {
		Action:      common.ActionHold,
		Confidence:  0.6,
		RiskLevel:   common.RiskMedium,
		TimeHorizon: common.HorizonShort,
	}}
	_, err = svc.Decide(context.Background(), snapshotFor("MSFT", 100), dto.NeutralMarketContext(), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, aiRepo.calls)
}

func TestDecideMalformedResponsePassesThrough(t *testing.T) {
	aiRepo := &fakeAIRepo{fail: repository.ErrMalformedResponse}
	svc, decisionRepo := decisionFixture(t, aiRepo)

	_, err := svc.Decide(context.Background(), snapshotFor("AAPL", 100), dto.NeutralMarketContext(), nil)
	assert.ErrorIs(t, err, repository.ErrMalformedResponse)
	assert.Empty(t, decisionRepo.decisions)

	// Malformed responses do not start a cooldown.
	aiRepo.fail = nil
	aiRepo.decisions = map[string]*dto.Decision{"AAPL": {
		Action:      common.ActionHold,
		Confidence:  0.5,
		RiskLevel:   common.RiskMedium,
		TimeHorizon: common.HorizonShort,
	}}
	_, err = svc.Decide(context.Background(), snapshotFor("AAPL", 100), dto.NeutralMarketContext(), nil)
	require.NoError(t, err)
}

func TestDecidePersistFailureIsNonFatal(t *testing.T) {
	aiRepo := &fakeAIRepo{decisions: map[string]*dto.Decision{"AAPL": {
		Action:      common.ActionHold,
		Confidence:  0.5,
		RiskLevel:   common.RiskMedium,
		TimeHorizon: common.HorizonShort,
	}}}
	svc, decisionRepo := decisionFixture(t, aiRepo)
	decisionRepo.failWrite = assert.AnError

	decision, err := svc.Decide(context.Background(), snapshotFor("AAPL", 100), dto.NeutralMarketContext(), nil)
	require.NoError(t, err)
	assert.NotNil(t, decision)
}
