package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang-ai-trader/internal/trader/config"
	"golang-ai-trader/internal/trader/dto"
	"golang-ai-trader/pkg/logger"

	"golang.org/x/time/rate"
)

// FundamentalsRepository returns the fundamental attribute bag for a symbol.
// Errors here never surface past the market-context service, which degrades
// to the neutral context.
type FundamentalsRepository interface {
	GetFundamentals(ctx context.Context, symbol string) (dto.MarketContext, error)
}

type yahooFundamentalsRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
}

// NewYahooFundamentalsRepository creates a fundamentals repository backed by
// the Yahoo Finance quoteSummary API.
func NewYahooFundamentalsRepository(cfg *config.Config, log *logger.Logger) FundamentalsRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.YahooFinance.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)
	return &yahooFundamentalsRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		requestLimiter: requestLimiter,
	}
}

func (r *yahooFundamentalsRepository) GetFundamentals(ctx context.Context, symbol string) (dto.MarketContext, error) {
	url := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=summaryProfile,summaryDetail,financialData",
		r.cfg.YahooFinance.BaseURL, symbol)

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return dto.MarketContext{}, err
	}

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return dto.MarketContext{}, fmt.Errorf("failed to create new http request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	req.Header.Set("Accept", "application/json, text/plain, */*")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return dto.MarketContext{}, fmt.Errorf("failed to send request to quoteSummary API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return dto.MarketContext{}, fmt.Errorf("received non-OK response from quoteSummary API: %d - %s", resp.StatusCode, string(body))
	}

	var response dto.YahooQuoteSummaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return dto.MarketContext{}, fmt.Errorf("failed to decode quoteSummary response: %w", err)
	}

	if response.QuoteSummary.Error != nil {
		return dto.MarketContext{}, fmt.Errorf("quoteSummary API error for %s: %s", symbol, response.QuoteSummary.Error.Description)
	}
	if len(response.QuoteSummary.Result) == 0 {
		return dto.MarketContext{}, fmt.Errorf("empty quoteSummary payload for %s", symbol)
	}

	result := response.QuoteSummary.Result[0]
	mctx := dto.NeutralMarketContext()

	if result.SummaryProfile != nil {
		if result.SummaryProfile.Sector != "" {
			mctx.Sector = result.SummaryProfile.Sector
		}
		if result.SummaryProfile.Industry != "" {
			mctx.Industry = result.SummaryProfile.Industry
		}
	}
	if result.SummaryDetail != nil {
		mctx.MarketCap = result.SummaryDetail.MarketCap.Raw
		mctx.PERatio = result.SummaryDetail.TrailingPE.Raw
		if result.SummaryDetail.Beta.Raw != 0 {
			mctx.Beta = result.SummaryDetail.Beta.Raw
		}
		mctx.DividendYield = result.SummaryDetail.DividendYield.Raw
		mctx.VolumeAvg = result.SummaryDetail.AverageVolume.Raw
		mctx.PriceToBook = result.SummaryDetail.PriceToBook.Raw
	}
	if result.FinancialData != nil {
		mctx.DebtToEquity = result.FinancialData.DebtToEquity.Raw
		mctx.CurrentRatio = result.FinancialData.CurrentRatio.Raw
		mctx.ProfitMargins = result.FinancialData.ProfitMargins.Raw
		mctx.RevenueGrowth = result.FinancialData.RevenueGrowth.Raw
		mctx.EarningsGrowth = result.FinancialData.EarningsGrowth.Raw
	}

	return mctx, nil
}
