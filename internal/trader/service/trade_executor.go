package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang-ai-trader/internal/entity"
	"golang-ai-trader/internal/trader/config"
	"golang-ai-trader/internal/trader/dto"
	"golang-ai-trader/internal/trader/repository"
	"golang-ai-trader/pkg/common"
	"golang-ai-trader/pkg/logger"
	"golang-ai-trader/pkg/redis"
	"golang-ai-trader/pkg/telegram"
	"golang-ai-trader/pkg/utils"

	goredis "github.com/redis/go-redis/v9"
)

const tradeEventStreamMaxLen = 1000

// Manual buys have no held position to price from, so the latest close is
// fetched over a short window.
const (
	manualQuoteInterval = "1d"
	manualQuoteRange    = "5d"
)

// ExecuteOptions narrows how a decision is turned into an order.
type ExecuteOptions struct {
	TradeType string
	Sector    string
	// BudgetCap is an absolute dollar ceiling on the position value in
	// addition to the percentage cap. Zero means no ceiling.
	BudgetCap float64
}

// TradeExecutorService turns validated decisions into brokerage orders. It
// owns the daily trade counter and the side-effect fan-out: trade log, event
// stream and notifications.
type TradeExecutorService interface {
	Execute(ctx context.Context, decision *dto.Decision, portfolio *dto.PortfolioState, opts ExecuteOptions) (*entity.TradeRecord, error)
	ExecuteManual(ctx context.Context, symbol, action string, qty int) (*entity.TradeRecord, error)
	TradesToday() int
	TradesSince(since time.Time) []entity.TradeRecord
}

type tradeExecutorService struct {
	cfg        *config.Config
	log        *logger.Logger
	sizer      PositionSizerService
	brokerage  repository.BrokerageRepository
	portfolio  PortfolioService
	marketData repository.MarketDataRepository
	tradeRepo  repository.TradeRecordRepository
	redis      *redis.Client
	notifier   telegram.Notifier

	now func() time.Time

	mu         sync.Mutex
	tradeDate  time.Time
	dailyCount int
	journal    []entity.TradeRecord
}

// NewTradeExecutorService creates the order execution boundary. The daily
// counter resets on the first trade attempt of a new Eastern-time calendar
// date.
func NewTradeExecutorService(
	cfg *config.Config,
	log *logger.Logger,
	sizer PositionSizerService,
	brokerage repository.BrokerageRepository,
	portfolio PortfolioService,
	marketData repository.MarketDataRepository,
	tradeRepo repository.TradeRecordRepository,
	redisClient *redis.Client,
	notifier telegram.Notifier,
) TradeExecutorService {
	return &tradeExecutorService{
		cfg:        cfg,
		log:        log,
		sizer:      sizer,
		brokerage:  brokerage,
		portfolio:  portfolio,
		marketData: marketData,
		tradeRepo:  tradeRepo,
		redis:      redisClient,
		notifier:   notifier,
		now:        utils.TimeNowET,
	}
}

// Execute applies the pre-trade guards in order, submits a market order and
// records the fan-out. The counter only advances after the brokerage confirms
// submission, so a failed order never consumes the daily budget.
func (s *tradeExecutorService) Execute(ctx context.Context, decision *dto.Decision, portfolio *dto.PortfolioState, opts ExecuteOptions) (*entity.TradeRecord, error) {
	if decision.Action == common.ActionHold {
		return nil, nil
	}
	if decision.Confidence < s.cfg.Trading.MinConfidence {
		s.log.Debug("Skipping trade below confidence floor",
			logger.StringField("symbol", decision.Symbol),
			logger.Float64Field("confidence", decision.Confidence),
		)
		return nil, ErrBelowConfidence
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rollTradeDateLocked()
	if s.dailyCount >= s.cfg.Trading.MaxDailyTrades {
		return nil, ErrDailyLimitReached
	}

	var qty int
	var sizing *dto.PositionSizing
	switch decision.Action {
	case common.ActionBuy:
		if _, held := portfolio.HasPosition(decision.Symbol); held {
			s.log.Debug("Skipping buy, position already held", logger.StringField("symbol", decision.Symbol))
			return nil, ErrAlreadyHolding
		}
		var err error
		sizing, err = s.sizer.SizeWithBudget(decision, portfolio, opts.BudgetCap)
		if err != nil {
			return nil, err
		}
		qty = sizing.Shares
	case common.ActionSell:
		pos, held := portfolio.HasPosition(decision.Symbol)
		if !held || pos.Qty < 1 {
			s.log.Debug("Skipping sell, no position held", logger.StringField("symbol", decision.Symbol))
			return nil, ErrNoPosition
		}
		qty = pos.Qty
	default:
		return nil, fmt.Errorf("unsupported action %q", decision.Action)
	}

	order, err := s.brokerage.SubmitMarketOrder(ctx, decision.Symbol, qty, strings.ToLower(decision.Action))
	if err != nil {
		return nil, fmt.Errorf("failed to execute %s for %s: %w", decision.Action, decision.Symbol, err)
	}
	s.dailyCount++

	record := entity.TradeRecord{
		Timestamp:    s.now(),
		Symbol:       decision.Symbol,
		Action:       decision.Action,
		Quantity:     qty,
		Price:        decision.CurrentPrice,
		Total:        float64(qty) * decision.CurrentPrice,
		TradeType:    opts.TradeType,
		OrderID:      order.ID,
		OrderStatus:  order.Status,
		AIConfidence: decision.Confidence,
		Reasoning:    decision.Reasoning,
		Sector:       opts.Sector,
	}
	s.recordLocked(ctx, &record)

	return &record, nil
}

// ExecuteManual submits an operator-initiated order with an explicit share
// count, bypassing sizing but not the position guards or the daily cap.
func (s *tradeExecutorService) ExecuteManual(ctx context.Context, symbol, action string, qty int) (*entity.TradeRecord, error) {
	action = strings.ToUpper(action)
	if action != common.ActionBuy && action != common.ActionSell {
		return nil, fmt.Errorf("unsupported action %q", action)
	}
	if qty < 1 {
		return nil, ErrSizeTooSmall
	}

	portfolio, err := s.portfolio.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch portfolio: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rollTradeDateLocked()
	if s.dailyCount >= s.cfg.Trading.MaxDailyTrades {
		return nil, ErrDailyLimitReached
	}

	pos, held := portfolio.HasPosition(symbol)
	var price float64
	switch action {
	case common.ActionBuy:
		if held {
			return nil, ErrAlreadyHolding
		}
		price, err = s.latestClose(ctx, symbol)
		if err != nil {
			return nil, fmt.Errorf("failed to quote %s: %w", symbol, err)
		}
	case common.ActionSell:
		if !held {
			return nil, ErrNoPosition
		}
		if qty > pos.Qty {
			qty = pos.Qty
		}
		price = pos.CurrentPrice
	}

	order, err := s.brokerage.SubmitMarketOrder(ctx, symbol, qty, strings.ToLower(action))
	if err != nil {
		return nil, fmt.Errorf("failed to execute manual %s for %s: %w", action, symbol, err)
	}
	s.dailyCount++

	record := entity.TradeRecord{
		Timestamp:   s.now(),
		Symbol:      symbol,
		Action:      action,
		Quantity:    qty,
		Price:       price,
		Total:       float64(qty) * price,
		TradeType:   common.TradeTypeManual,
		OrderID:     order.ID,
		OrderStatus: order.Status,
	}
	s.recordLocked(ctx, &record)

	return &record, nil
}

// latestClose fetches the most recent daily close for a symbol the account
// does not hold yet.
func (s *tradeExecutorService) latestClose(ctx context.Context, symbol string) (float64, error) {
	bars, err := s.marketData.GetOHLCV(ctx, dto.GetStockDataParam{
		Symbol:   symbol,
		Interval: manualQuoteInterval,
		Range:    manualQuoteRange,
	})
	if err != nil {
		return 0, err
	}
	if len(bars) == 0 {
		return 0, fmt.Errorf("no recent bars for %s", symbol)
	}
	return bars[len(bars)-1].Close, nil
}

func (s *tradeExecutorService) TradesToday() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rollTradeDateLocked()
	return s.dailyCount
}

func (s *tradeExecutorService) TradesSince(since time.Time) []entity.TradeRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []entity.TradeRecord
	for _, record := range s.journal {
		if !record.Timestamp.Before(since) {
			out = append(out, record)
		}
	}
	return out
}

// rollTradeDateLocked resets the daily counter when the Eastern-time calendar
// date has advanced since the last trade attempt.
func (s *tradeExecutorService) rollTradeDateLocked() {
	now := s.now()
	if !utils.SameTradingDate(s.tradeDate, now) {
		s.tradeDate = now
		s.dailyCount = 0
	}
}

// recordLocked fans the confirmed trade out to the journal, the trade log,
// the event stream and the notifier. Only the order itself is load-bearing;
// each side effect failure is logged and swallowed.
func (s *tradeExecutorService) recordLocked(ctx context.Context, record *entity.TradeRecord) {
	s.journal = append(s.journal, *record)

	if err := s.tradeRepo.Create(ctx, record); err != nil {
		s.log.Error("Failed to persist trade record",
			logger.ErrorField(err),
			logger.StringField("symbol", record.Symbol),
		)
	}

	s.publishTradeEvent(ctx, record)

	alert := telegram.TradeAlert{
		Symbol:     record.Symbol,
		Action:     record.Action,
		Quantity:   record.Quantity,
		Price:      record.Price,
		Total:      record.Total,
		Confidence: record.AIConfidence,
		Reasoning:  record.Reasoning,
		TradeType:  record.TradeType,
		Timestamp:  record.Timestamp,
	}
	if err := s.notifier.SendMessage(telegram.FormatTradeAlert(alert)); err != nil {
		s.log.Error("Failed to send trade notification", logger.ErrorField(err))
	}
}

func (s *tradeExecutorService) publishTradeEvent(ctx context.Context, record *entity.TradeRecord) {
	if s.redis == nil {
		return
	}
	payload, err := json.Marshal(record)
	if err != nil {
		s.log.Error("Failed to marshal trade event", logger.ErrorField(err))
		return
	}
	err = s.redis.XAdd(ctx, &goredis.XAddArgs{
		Stream: common.RedisStreamTradeEvents,
		MaxLen: tradeEventStreamMaxLen,
		Approx: true,
		Values: map[string]interface{}{"data": payload},
	}).Err()
	if err != nil {
		s.log.Error("Failed to publish trade event", logger.ErrorField(err))
	}
}
