package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"golang-ai-trader/internal/trader/config"
	"golang-ai-trader/internal/trader/dto"
	"golang-ai-trader/internal/trader/repository"
	"golang-ai-trader/pkg/common"
	"golang-ai-trader/pkg/logger"
	"golang-ai-trader/pkg/telegram"
)

const loopRetryDelay = 5 * time.Minute

// BotService drives the trading loop: during market hours it runs an analysis
// cycle over the watchlist every cycle interval, interleaves periodic
// discovery passes and evaluates portfolio risk after each cycle.
type BotService interface {
	Run(ctx context.Context) error
	RunCycle(ctx context.Context) error
	Watchlist() []string
}

type botService struct {
	cfg        *config.Config
	log        *logger.Logger
	indicators IndicatorService
	contexts   MarketContextService
	decisions  DecisionService
	executor   TradeExecutorService
	risk       RiskManagerService
	portfolio  PortfolioService
	brokerage  repository.BrokerageRepository
	notifier   telegram.Notifier

	watchlist  []string
	cycleCount int
}

// NewBotService assembles the cycle controller. The watchlist starts from
// configuration and grows as discovery trades are admitted.
func NewBotService(
	cfg *config.Config,
	log *logger.Logger,
	indicators IndicatorService,
	contexts MarketContextService,
	decisions DecisionService,
	executor TradeExecutorService,
	risk RiskManagerService,
	portfolio PortfolioService,
	brokerage repository.BrokerageRepository,
	notifier telegram.Notifier,
) BotService {
	watchlist := make([]string, len(cfg.Trading.Watchlist))
	copy(watchlist, cfg.Trading.Watchlist)

	return &botService{
		cfg:        cfg,
		log:        log,
		indicators: indicators,
		contexts:   contexts,
		decisions:  decisions,
		executor:   executor,
		risk:       risk,
		portfolio:  portfolio,
		brokerage:  brokerage,
		notifier:   notifier,
		watchlist:  watchlist,
	}
}

// Run blocks until the context is canceled. While the market is open it runs
// one cycle per interval; while closed it sleeps in bounded steps until the
// next open.
func (s *botService) Run(ctx context.Context) error {
	s.log.Info("Trading bot started",
		logger.IntField("watchlist_size", len(s.watchlist)),
		logger.Field("cycle_interval", s.cfg.Trading.CycleInterval),
	)
	if err := s.notifier.SendMessage("🤖 AI trading bot is now running"); err != nil {
		s.log.Error("Failed to send startup notification", logger.ErrorField(err))
	}

	// Initial cycle regardless of market state.
	if err := s.RunCycle(ctx); err != nil && !errors.Is(err, context.Canceled) {
		s.log.Error("Initial cycle failed", logger.ErrorField(err))
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		clock, err := s.brokerage.GetClock(ctx)
		if err != nil {
			s.log.Error("Failed to fetch market clock", logger.ErrorField(err))
			if err := sleepCtx(ctx, loopRetryDelay); err != nil {
				return err
			}
			continue
		}

		if clock.IsOpen {
			s.log.Info("Market is open, running analysis cycle")
			if err := s.RunCycle(ctx); err != nil {
				if errors.Is(err, context.Canceled) {
					return err
				}
				s.log.Error("Analysis cycle failed", logger.ErrorField(err))
			}
			if err := sleepCtx(ctx, s.cfg.Trading.CycleInterval); err != nil {
				return err
			}
			continue
		}

		sleep := closedMarketSleep(time.Until(clock.NextOpen))
		s.log.Info("Market is closed",
			logger.StringField("next_open", clock.NextOpen.Format(time.RFC3339)),
			logger.Field("sleep", sleep),
		)
		if err := sleepCtx(ctx, sleep); err != nil {
			return err
		}
	}
}

// RunCycle analyzes every watchlist symbol, runs a discovery pass on its
// schedule and finishes with a portfolio risk evaluation. A single symbol
// failure never aborts the cycle.
func (s *botService) RunCycle(ctx context.Context) error {
	s.cycleCount++
	s.log.Info("Analysis cycle started", logger.IntField("cycle", s.cycleCount))

	portfolio, err := s.portfolio.Snapshot(ctx)
	if err != nil {
		s.notifyError("portfolio snapshot", err)
		return err
	}

	capReached := false
	for _, symbol := range s.watchlist {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.analyzeAndTrade(ctx, symbol, portfolio, capReached); errors.Is(err, ErrDailyLimitReached) {
			s.log.Warn("Daily trade limit reached, suppressing orders for the rest of the cycle")
			capReached = true
		}
		if err := sleepCtx(ctx, s.cfg.Trading.SymbolDelay); err != nil {
			return err
		}
	}

	if s.cfg.Discovery.Enabled && s.cycleCount%s.cfg.Discovery.IntervalCycles == 0 {
		opportunities, err := s.discoverOpportunities(ctx, portfolio)
		if err != nil {
			return err
		}
		if err := s.executeDiscoveryTrades(ctx, opportunities, portfolio); err != nil {
			return err
		}
	}

	s.evaluateRisk(ctx)

	s.log.Info("Analysis cycle complete",
		logger.IntField("cycle", s.cycleCount),
		logger.IntField("daily_trades", s.executor.TradesToday()),
	)
	return nil
}

func (s *botService) Watchlist() []string {
	out := make([]string, len(s.watchlist))
	copy(out, s.watchlist)
	return out
}

// analyzeAndTrade runs the full pipeline for one symbol. Every error except
// the daily cap is absorbed here. With suppressOrders set the symbol is still
// analyzed and its decision persisted, but no order reaches the executor.
func (s *botService) analyzeAndTrade(ctx context.Context, symbol string, portfolio *dto.PortfolioState, suppressOrders bool) error {
	snapshot, err := s.indicators.Snapshot(ctx, symbol)
	if err != nil {
		s.log.Warn("Skipping symbol, indicators unavailable",
			logger.StringField("symbol", symbol),
			logger.ErrorField(err),
		)
		return nil
	}

	mctx := s.contexts.Context(ctx, symbol)

	decision, err := s.decisions.Decide(ctx, *snapshot, mctx, portfolio)
	if err != nil {
		s.log.Warn("Skipping symbol, no decision",
			logger.StringField("symbol", symbol),
			logger.ErrorField(err),
		)
		return nil
	}

	if suppressOrders {
		s.log.Debug("Daily limit active, decision recorded without order",
			logger.StringField("symbol", symbol),
			logger.StringField("action", decision.Action),
		)
		return nil
	}

	_, err = s.executor.Execute(ctx, decision, portfolio, ExecuteOptions{
		TradeType: common.TradeTypeAICycle,
		Sector:    SectorFor(symbol),
	})
	if err != nil {
		if errors.Is(err, ErrDailyLimitReached) {
			return err
		}
		s.log.Debug("No trade for symbol",
			logger.StringField("symbol", symbol),
			logger.ErrorField(err),
		)
	}
	return nil
}

// discoverOpportunities scans the sector catalogue for symbols not already
// held or watched, within the configured price band, and keeps the strongest
// BUY signals.
func (s *botService) discoverOpportunities(ctx context.Context, portfolio *dto.PortfolioState) ([]dto.Opportunity, error) {
	s.log.Info("Discovery pass started", logger.IntField("cycle", s.cycleCount))

	sectors := make([]string, 0, len(discoverySectors))
	for sector := range discoverySectors {
		sectors = append(sectors, sector)
	}
	sort.Strings(sectors)

	var opportunities []dto.Opportunity
	for _, sector := range sectors {
		for _, symbol := range discoverySectors[sector] {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if s.onWatchlist(symbol) {
				continue
			}
			if _, held := portfolio.HasPosition(symbol); held {
				continue
			}

			snapshot, err := s.indicators.Snapshot(ctx, symbol)
			if err != nil {
				continue
			}
			price := snapshot.CurrentPrice
			if price < s.cfg.Discovery.PriceMin || price > s.cfg.Discovery.PriceMax {
				continue
			}

			mctx := s.contexts.Context(ctx, symbol)
			decision, err := s.decisions.Decide(ctx, *snapshot, mctx, portfolio)
			if err != nil {
				continue
			}
			if decision.Action == common.ActionBuy && decision.Confidence >= s.cfg.Trading.MinConfidence {
				s.log.Info("Discovery candidate",
					logger.StringField("symbol", symbol),
					logger.StringField("sector", sector),
					logger.Float64Field("confidence", decision.Confidence),
				)
				opportunities = append(opportunities, dto.Opportunity{
					Symbol:       symbol,
					Sector:       sector,
					CurrentPrice: price,
					Confidence:   decision.Confidence,
					Reasoning:    decision.Reasoning,
					Indicators:   *snapshot,
					Context:      mctx,
				})
			}

			if err := sleepCtx(ctx, s.cfg.Discovery.ScanDelay); err != nil {
				return nil, err
			}
		}
	}

	sort.Slice(opportunities, func(i, j int) bool {
		return opportunities[i].Confidence > opportunities[j].Confidence
	})
	if len(opportunities) > s.cfg.Discovery.MaxNewPositions {
		opportunities = opportunities[:s.cfg.Discovery.MaxNewPositions]
	}

	s.log.Info("Discovery pass complete", logger.IntField("opportunities", len(opportunities)))
	return opportunities, nil
}

// executeDiscoveryTrades buys the ranked opportunities under the flat
// per-trade budget and admits filled symbols to the watchlist.
func (s *botService) executeDiscoveryTrades(ctx context.Context, opportunities []dto.Opportunity, portfolio *dto.PortfolioState) error {
	for _, opp := range opportunities {
		if err := ctx.Err(); err != nil {
			return err
		}

		decision := &dto.Decision{
			Symbol:       opp.Symbol,
			Action:       common.ActionBuy,
			Confidence:   opp.Confidence,
			Reasoning:    opp.Reasoning,
			PositionSize: s.cfg.Trading.MaxPositionSize,
			RiskLevel:    common.RiskMedium,
			TimeHorizon:  common.HorizonMedium,
			CurrentPrice: opp.CurrentPrice,
		}

		record, err := s.executor.Execute(ctx, decision, portfolio, ExecuteOptions{
			TradeType: common.TradeTypeDiscovery,
			Sector:    opp.Sector,
			BudgetCap: s.cfg.Discovery.BudgetPerTrade,
		})
		if err != nil {
			if errors.Is(err, ErrDailyLimitReached) {
				s.log.Warn("Daily trade limit reached during discovery")
				return nil
			}
			s.log.Warn("Discovery trade not executed",
				logger.StringField("symbol", opp.Symbol),
				logger.ErrorField(err),
			)
			continue
		}
		if record != nil && !s.onWatchlist(opp.Symbol) {
			s.watchlist = append(s.watchlist, opp.Symbol)
			s.log.Info("Symbol admitted to watchlist", logger.StringField("symbol", opp.Symbol))
		}
	}
	return nil
}

// evaluateRisk re-snapshots the portfolio after the cycle's trades and
// surfaces any advisory warnings.
func (s *botService) evaluateRisk(ctx context.Context) {
	portfolio, err := s.portfolio.Snapshot(ctx)
	if err != nil {
		s.log.Error("Failed to snapshot portfolio for risk evaluation", logger.ErrorField(err))
		return
	}

	report := s.risk.CheckRiskLimits(portfolio)
	if report.Status != dto.RiskStatusWarning {
		return
	}
	if err := s.notifier.SendMessage(telegram.FormatRiskWarnings(report.Warnings)); err != nil {
		s.log.Error("Failed to send risk warnings", logger.ErrorField(err))
	}
}

func (s *botService) onWatchlist(symbol string) bool {
	for _, w := range s.watchlist {
		if w == symbol {
			return true
		}
	}
	return false
}

func (s *botService) notifyError(operation string, err error) {
	s.log.Error("Operation failed", logger.StringField("operation", operation), logger.ErrorField(err))
	if sendErr := s.notifier.SendMessage(telegram.FormatErrorAlert(operation, err)); sendErr != nil {
		s.log.Error("Failed to send error notification", logger.ErrorField(sendErr))
	}
}

// closedMarketSleep bounds the closed-market wait to [5m, 1h], aiming for
// half the remaining time to open so late clock drift gets re-checked.
func closedMarketSleep(untilOpen time.Duration) time.Duration {
	sleep := untilOpen / 2
	if sleep > time.Hour {
		sleep = time.Hour
	}
	if sleep < 5*time.Minute {
		sleep = 5 * time.Minute
	}
	return sleep
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
