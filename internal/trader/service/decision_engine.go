package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"golang-ai-trader/internal/entity"
	"golang-ai-trader/internal/trader/config"
	"golang-ai-trader/internal/trader/dto"
	"golang-ai-trader/internal/trader/repository"
	"golang-ai-trader/pkg/backoff"
	"golang-ai-trader/pkg/logger"
	"golang-ai-trader/pkg/utils"
)

// DecisionService synthesizes a validated trading recommendation for one
// symbol from its indicator snapshot, market context and the portfolio
// summary.
type DecisionService interface {
	Decide(ctx context.Context, ind dto.IndicatorSnapshot, mctx dto.MarketContext, portfolio *dto.PortfolioState) (*dto.Decision, error)
}

type decisionService struct {
	cfg          *config.Config
	log          *logger.Logger
	aiRepo       repository.AIRepository
	decisionRepo repository.AIDecisionRepository
	cooldown     backoff.Policy

	now           func() time.Time
	cooldownUntil time.Time
	rateLimitHits int
}

// NewDecisionService creates a new decision engine. A quota signal from the
// inference service puts the whole engine into cooldown: no symbol is
// analyzed until it expires.
func NewDecisionService(cfg *config.Config, log *logger.Logger, aiRepo repository.AIRepository, decisionRepo repository.AIDecisionRepository) DecisionService {
	return &decisionService{
		cfg:          cfg,
		log:          log,
		aiRepo:       aiRepo,
		decisionRepo: decisionRepo,
		cooldown:     backoff.Fixed{Interval: cfg.Gemini.RateLimitCooldown},
		now:          utils.TimeNowET,
	}
}

func (s *decisionService) Decide(ctx context.Context, ind dto.IndicatorSnapshot, mctx dto.MarketContext, portfolio *dto.PortfolioState) (*dto.Decision, error) {
	now := s.now()
	if now.Before(s.cooldownUntil) {
		s.log.Warn("Decision engine cooling down after rate limit",
			logger.StringField("symbol", ind.Symbol),
			logger.StringField("until", s.cooldownUntil.Format(time.RFC3339)),
		)
		return nil, repository.ErrRateLimited
	}

	summary := repository.PortfolioSummary{
		TotalValue:      s.cfg.Trading.InitialBalance,
		RiskTolerance:   s.cfg.Trading.RiskTolerance,
		MaxPositionSize: s.cfg.Trading.MaxPositionSize,
	}
	if portfolio != nil {
		summary.TotalValue = portfolio.TotalValue
	}

	decision, err := s.aiRepo.DecideTrade(ctx, ind, mctx, summary)
	if err != nil {
		if errors.Is(err, repository.ErrRateLimited) {
			s.rateLimitHits++
			s.cooldownUntil = now.Add(s.cooldown.Delay(s.rateLimitHits))
			s.log.Warn("Rate limit hit, entering cooldown",
				logger.StringField("symbol", ind.Symbol),
				logger.IntField("hits", s.rateLimitHits),
			)
		}
		return nil, err
	}
	s.rateLimitHits = 0

	decision.Symbol = ind.Symbol
	decision.CurrentPrice = ind.CurrentPrice
	decision.Timestamp = now

	s.log.Info("AI decision",
		logger.StringField("symbol", decision.Symbol),
		logger.StringField("action", decision.Action),
		logger.Float64Field("confidence", decision.Confidence),
	)

	s.persist(ctx, decision)

	return decision, nil
}

// persist appends the decision to the log. A write failure is not allowed to
// cost the cycle a decision.
func (s *decisionService) persist(ctx context.Context, decision *dto.Decision) {
	data, err := json.Marshal(decision)
	if err != nil {
		s.log.Error("Failed to marshal decision for persistence", logger.ErrorField(err))
		return
	}

	err = s.decisionRepo.Create(ctx, &entity.AIDecision{
		Symbol:       decision.Symbol,
		Action:       decision.Action,
		Confidence:   decision.Confidence,
		PositionSize: decision.PositionSize,
		RiskLevel:    decision.RiskLevel,
		TimeHorizon:  decision.TimeHorizon,
		StopLoss:     decision.StopLoss,
		TakeProfit:   decision.TakeProfit,
		CurrentPrice: decision.CurrentPrice,
		Reasoning:    decision.Reasoning,
		Data:         data,
	})
	if err != nil {
		s.log.Error("Failed to persist AI decision",
			logger.ErrorField(err),
			logger.StringField("symbol", decision.Symbol),
		)
	}
}
