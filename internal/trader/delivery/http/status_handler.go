package http

import (
	"errors"
	"net/http"
	"time"

	"golang-ai-trader/internal/trader/repository"
	"golang-ai-trader/internal/trader/service"
	"golang-ai-trader/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ManualTradeRequest is the payload for an operator-initiated order.
type ManualTradeRequest struct {
	Symbol string `json:"symbol"`
	Action string `json:"action"`
	Qty    int    `json:"qty"`
}

// StatusHandler exposes the bot's runtime state over HTTP.
type StatusHandler struct {
	portfolio service.PortfolioService
	risk      service.RiskManagerService
	executor  service.TradeExecutorService
	bot       service.BotService
	tradeRepo repository.TradeRecordRepository
	logger    *logger.Logger
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(
	portfolio service.PortfolioService,
	risk service.RiskManagerService,
	executor service.TradeExecutorService,
	bot service.BotService,
	tradeRepo repository.TradeRecordRepository,
	logger *logger.Logger,
) *StatusHandler {
	return &StatusHandler{
		portfolio: portfolio,
		risk:      risk,
		executor:  executor,
		bot:       bot,
		tradeRepo: tradeRepo,
		logger:    logger,
	}
}

// RegisterRoutes registers the status routes to the Echo group.
func (h *StatusHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/health", h.Health)
	g.GET("/portfolio", h.Portfolio)
	g.GET("/trades", h.Trades)
	g.POST("/trades", h.ManualTrade)
}

// Health reports liveness and the current watchlist.
func (h *StatusHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":       "ok",
		"watchlist":    h.bot.Watchlist(),
		"trades_today": h.executor.TradesToday(),
	})
}

// Portfolio returns the live portfolio snapshot with risk metrics.
func (h *StatusHandler) Portfolio(c echo.Context) error {
	portfolio, err := h.portfolio.Snapshot(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to snapshot portfolio", logger.ErrorField(err))
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "Failed to fetch portfolio"})
	}

	report := h.risk.CheckRiskLimits(portfolio)
	return c.JSON(http.StatusOK, echo.Map{
		"portfolio": portfolio,
		"risk":      report,
	})
}

// Trades lists trade records since an optional RFC 3339 timestamp, defaulting
// to the last 24 hours.
func (h *StatusHandler) Trades(c echo.Context) error {
	since := time.Now().Add(-24 * time.Hour)
	if raw := c.QueryParam("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid since timestamp"})
		}
		since = parsed
	}

	trades, err := h.tradeRepo.FindSince(c.Request().Context(), since)
	if err != nil {
		h.logger.Error("Failed to list trades", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to list trades"})
	}
	return c.JSON(http.StatusOK, trades)
}

// ManualTrade submits an operator-initiated order.
func (h *StatusHandler) ManualTrade(c echo.Context) error {
	var req ManualTradeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}
	if req.Symbol == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "symbol is required"})
	}

	record, err := h.executor.ExecuteManual(c.Request().Context(), req.Symbol, req.Action, req.Qty)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDailyLimitReached),
			errors.Is(err, service.ErrAlreadyHolding),
			errors.Is(err, service.ErrNoPosition),
			errors.Is(err, service.ErrSizeTooSmall):
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		default:
			h.logger.Error("Manual trade failed", logger.ErrorField(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
	}
	return c.JSON(http.StatusCreated, record)
}
