package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"golang-ai-trader/internal/trader/config"
	"golang-ai-trader/internal/trader/dto"
	"golang-ai-trader/pkg/logger"

	"github.com/go-resty/resty/v2"
)

// BrokerageRepository is the order/account/clock boundary. Every call is
// fallible; the pipeline skips rather than retries on failure.
type BrokerageRepository interface {
	GetAccount(ctx context.Context) (*dto.AlpacaAccount, error)
	ListPositions(ctx context.Context) ([]dto.Position, error)
	GetClock(ctx context.Context) (*dto.AlpacaClock, error)
	SubmitMarketOrder(ctx context.Context, symbol string, qty int, side string) (*dto.AlpacaOrder, error)
}

type alpacaRepository struct {
	client *resty.Client
	log    *logger.Logger
}

// NewAlpacaRepository creates a brokerage repository against the Alpaca
// trading API.
func NewAlpacaRepository(cfg *config.Config, log *logger.Logger) BrokerageRepository {
	client := resty.New()
	client.SetBaseURL(cfg.Alpaca.BaseURL)
	client.SetTimeout(30 * time.Second)
	client.SetHeader("APCA-API-KEY-ID", cfg.Alpaca.APIKey)
	client.SetHeader("APCA-API-SECRET-KEY", cfg.Alpaca.APISecret)

	return &alpacaRepository{
		client: client,
		log:    log,
	}
}

func (r *alpacaRepository) GetAccount(ctx context.Context) (*dto.AlpacaAccount, error) {
	var account dto.AlpacaAccount
	resp, err := r.client.R().
		SetContext(ctx).
		SetResult(&account).
		Get("/v2/account")
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("account query returned %d: %s", resp.StatusCode(), resp.String())
	}
	return &account, nil
}

func (r *alpacaRepository) ListPositions(ctx context.Context) ([]dto.Position, error) {
	var raw []dto.AlpacaPosition
	resp, err := r.client.R().
		SetContext(ctx).
		SetResult(&raw).
		Get("/v2/positions")
	if err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("position query returned %d: %s", resp.StatusCode(), resp.String())
	}

	positions := make([]dto.Position, 0, len(raw))
	for _, p := range raw {
		qty, _ := strconv.ParseFloat(p.Qty, 64)
		positions = append(positions, dto.Position{
			Symbol:          p.Symbol,
			Qty:             int(qty),
			AvgEntryPrice:   parseFloat(p.AvgEntryPrice),
			CurrentPrice:    parseFloat(p.CurrentPrice),
			MarketValue:     parseFloat(p.MarketValue),
			UnrealizedPL:    parseFloat(p.UnrealizedPL),
			UnrealizedPLPct: parseFloat(p.UnrealizedPLPC),
			Side:            p.Side,
		})
	}
	return positions, nil
}

func (r *alpacaRepository) GetClock(ctx context.Context) (*dto.AlpacaClock, error) {
	var clock dto.AlpacaClock
	resp, err := r.client.R().
		SetContext(ctx).
		SetResult(&clock).
		Get("/v2/clock")
	if err != nil {
		return nil, fmt.Errorf("failed to get market clock: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("clock query returned %d: %s", resp.StatusCode(), resp.String())
	}
	return &clock, nil
}

func (r *alpacaRepository) SubmitMarketOrder(ctx context.Context, symbol string, qty int, side string) (*dto.AlpacaOrder, error) {
	var order dto.AlpacaOrder
	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(dto.AlpacaOrderRequest{
			Symbol:      symbol,
			Qty:         strconv.Itoa(qty),
			Side:        side,
			Type:        "market",
			TimeInForce: "day",
		}).
		SetResult(&order).
		Post("/v2/orders")
	if err != nil {
		return nil, fmt.Errorf("failed to submit order: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("order submission returned %d: %s", resp.StatusCode(), resp.String())
	}

	r.log.Info("Order submitted",
		logger.StringField("symbol", symbol),
		logger.StringField("side", side),
		logger.IntField("qty", qty),
		logger.StringField("order_id", order.ID),
		logger.StringField("status", order.Status),
	)

	return &order, nil
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
