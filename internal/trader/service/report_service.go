package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang-ai-trader/internal/entity"
	"golang-ai-trader/internal/trader/config"
	"golang-ai-trader/internal/trader/repository"
	"golang-ai-trader/pkg/common"
	"golang-ai-trader/pkg/logger"
	"golang-ai-trader/pkg/telegram"
	"golang-ai-trader/pkg/utils"

	"github.com/robfig/cron/v3"
)

// Report schedules, Eastern time. Daily fires after the close on weekdays,
// weekly after Friday's close.
const (
	dailyReportSpec  = "10 16 * * 1-5"
	weeklyReportSpec = "30 16 * * 5"
)

// ReportService produces the daily and weekly trading summaries and delivers
// them over the notifier on a market-close schedule.
type ReportService interface {
	Start(ctx context.Context) error
	Stop()
	DailySummary(ctx context.Context) (string, error)
	WeeklyReport(ctx context.Context) (string, error)
}

type reportService struct {
	cfg       *config.Config
	log       *logger.Logger
	tradeRepo repository.TradeRecordRepository
	portfolio PortfolioService
	risk      RiskManagerService
	notifier  telegram.Notifier
	cron      *cron.Cron
}

// NewReportService creates the reporting scheduler.
func NewReportService(
	cfg *config.Config,
	log *logger.Logger,
	tradeRepo repository.TradeRecordRepository,
	portfolio PortfolioService,
	risk RiskManagerService,
	notifier telegram.Notifier,
) ReportService {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		loc = time.UTC
	}
	return &reportService{
		cfg:       cfg,
		log:       log,
		tradeRepo: tradeRepo,
		portfolio: portfolio,
		risk:      risk,
		notifier:  notifier,
		cron:      cron.New(cron.WithLocation(loc)),
	}
}

// Start registers the report jobs and starts the scheduler.
func (s *reportService) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(dailyReportSpec, func() { s.deliver(ctx, "daily report", s.DailySummary) }); err != nil {
		return fmt.Errorf("failed to schedule daily report: %w", err)
	}
	if _, err := s.cron.AddFunc(weeklyReportSpec, func() { s.deliver(ctx, "weekly report", s.WeeklyReport) }); err != nil {
		return fmt.Errorf("failed to schedule weekly report: %w", err)
	}
	s.cron.Start()
	s.log.Info("Report scheduler started",
		logger.StringField("daily", dailyReportSpec),
		logger.StringField("weekly", weeklyReportSpec),
	)
	return nil
}

func (s *reportService) Stop() {
	s.cron.Stop()
}

func (s *reportService) deliver(ctx context.Context, name string, build func(context.Context) (string, error)) {
	text, err := build(ctx)
	if err != nil {
		s.log.Error("Failed to build report", logger.StringField("report", name), logger.ErrorField(err))
		return
	}
	if err := s.notifier.SendMessage(text); err != nil {
		s.log.Error("Failed to send report", logger.StringField("report", name), logger.ErrorField(err))
	}
}

// DailySummary summarizes today's trades and the current portfolio state.
func (s *reportService) DailySummary(ctx context.Context) (string, error) {
	now := utils.TimeNowET()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	trades, err := s.tradeRepo.FindSince(ctx, start)
	if err != nil {
		return "", fmt.Errorf("failed to load trades: %w", err)
	}

	summary := telegram.DailySummary{Date: now.Format("2006-01-02")}
	for _, t := range trades {
		summary.TradeCount++
		summary.TotalVolume += t.Total
		switch t.Action {
		case common.ActionBuy:
			summary.BuyCount++
		case common.ActionSell:
			summary.SellCount++
		}
	}
	for _, t := range topByTotal(trades, 3) {
		summary.TopTrades = append(summary.TopTrades, telegram.TradeAlert{
			Symbol:   t.Symbol,
			Action:   t.Action,
			Quantity: t.Quantity,
			Price:    t.Price,
		})
	}

	if portfolio, err := s.portfolio.Snapshot(ctx); err == nil {
		metrics := s.risk.Metrics(portfolio)
		summary.PortfolioValue = metrics.TotalValue
		summary.TotalReturnPct = metrics.TotalReturnPct
	} else {
		s.log.Error("Failed to snapshot portfolio for daily report", logger.ErrorField(err))
	}

	return telegram.FormatDailySummary(summary), nil
}

// WeeklyReport aggregates the last seven days of trades per symbol.
func (s *reportService) WeeklyReport(ctx context.Context) (string, error) {
	now := utils.TimeNowET()
	start := now.AddDate(0, 0, -7)

	trades, err := s.tradeRepo.FindSince(ctx, start)
	if err != nil {
		return "", fmt.Errorf("failed to load trades: %w", err)
	}

	type symbolStats struct {
		trades int
		volume float64
	}
	bySymbol := make(map[string]*symbolStats)
	var totalVolume float64
	discoveryCount := 0
	for _, t := range trades {
		stats, ok := bySymbol[t.Symbol]
		if !ok {
			stats = &symbolStats{}
			bySymbol[t.Symbol] = stats
		}
		stats.trades++
		stats.volume += t.Total
		totalVolume += t.Total
		if t.TradeType == common.TradeTypeDiscovery {
			discoveryCount++
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📅 *Weekly Trading Report — week of %s*\n\n", start.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("🔄 Trades: %d across %d symbols\n", len(trades), len(bySymbol)))
	sb.WriteString(fmt.Sprintf("💵 Volume: $%.2f\n", totalVolume))
	sb.WriteString(fmt.Sprintf("🔍 Discovery trades: %d\n", discoveryCount))

	if portfolio, err := s.portfolio.Snapshot(ctx); err == nil {
		metrics := s.risk.Metrics(portfolio)
		sb.WriteString(fmt.Sprintf("💼 Portfolio: $%.2f (%+.2f%%)\n", metrics.TotalValue, metrics.TotalReturnPct))
		sb.WriteString(fmt.Sprintf("📊 Positions: %d across %d sectors\n", metrics.PositionCount, metrics.SectorDiversification))
	} else {
		s.log.Error("Failed to snapshot portfolio for weekly report", logger.ErrorField(err))
	}

	return strings.TrimRight(sb.String(), "\n"), nil
}

func topByTotal(trades []entity.TradeRecord, n int) []entity.TradeRecord {
	sorted := make([]entity.TradeRecord, len(trades))
	copy(sorted, trades)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Total > sorted[j].Total })
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
