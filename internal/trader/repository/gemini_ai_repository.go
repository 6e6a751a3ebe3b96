package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang-ai-trader/internal/trader/config"
	"golang-ai-trader/internal/trader/dto"
	"golang-ai-trader/pkg/logger"
	"golang-ai-trader/pkg/ratelimit"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// AIRepository produces a structured trading recommendation for one symbol.
type AIRepository interface {
	DecideTrade(ctx context.Context, ind dto.IndicatorSnapshot, mctx dto.MarketContext, summary PortfolioSummary) (*dto.Decision, error)
}

// geminiAIRepository implements AIRepository against the Google Gemini API.
type geminiAIRepository struct {
	client         *http.Client
	cfg            *config.Config
	logger         *logger.Logger
	tokenLimiter   *ratelimit.TokenLimiter
	requestLimiter *rate.Limiter
	genAiClient    *genai.Client
}

// NewGeminiAIRepository creates a new instance of geminiAIRepository.
func NewGeminiAIRepository(cfg *config.Config, log *logger.Logger, genAiClient *genai.Client) (AIRepository, error) {
	secondsPerRequest := time.Minute / time.Duration(cfg.Gemini.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)

	tokenLimiter := ratelimit.NewTokenLimiter(cfg.Gemini.MaxTokenPerMinute)

	return &geminiAIRepository{
		client: &http.Client{
			Timeout: 90 * time.Second,
		},
		cfg:            cfg,
		logger:         log,
		requestLimiter: requestLimiter,
		tokenLimiter:   tokenLimiter,
		genAiClient:    genAiClient,
	}, nil
}

// DecideTrade asks Gemini for a recommendation and validates the response
// against the Decision schema. The returned decision is not yet stamped with
// price/timestamp; the decision engine owns that.
func (r *geminiAIRepository) DecideTrade(ctx context.Context, ind dto.IndicatorSnapshot, mctx dto.MarketContext, summary PortfolioSummary) (*dto.Decision, error) {
	prompt := BuildTradeDecisionPrompt(ind, mctx, summary)

	geminiResp, err := r.executeGeminiAIRequest(ctx, prompt)
	if err != nil {
		return nil, err
	}

	decision, err := parseDecisionResponse(geminiResp)
	if err != nil {
		r.logger.Error("Failed to parse Gemini decision", logger.ErrorField(err), logger.StringField("symbol", ind.Symbol))
		return nil, err
	}

	return decision, nil
}

func (r *geminiAIRepository) executeGeminiAIRequest(ctx context.Context, prompt string) (*dto.GeminiAPIResponse, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, "user"),
	}
	geminiTokenResp, err := r.genAiClient.Models.CountTokens(ctx, r.cfg.Gemini.Model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count tokens: %w", err)
	}

	r.logger.Debug("Gemini token count",
		logger.IntField("total_tokens", int(geminiTokenResp.TotalTokens)),
		logger.IntField("remaining", r.tokenLimiter.GetRemaining()),
	)

	if err := r.tokenLimiter.Wait(ctx, int(geminiTokenResp.TotalTokens)); err != nil {
		return nil, fmt.Errorf("failed to wait for token limit: %w", err)
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	payload := dto.GeminiAPIRequest{
		Contents: []dto.Content{{Parts: []dto.Part{{Text: prompt}}}},
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		r.logger.Error("Failed to marshal payload", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	apiURL := fmt.Sprintf("%s/%s:generateContent?key=%s", r.cfg.Gemini.BaseURL, r.cfg.Gemini.Model, r.cfg.Gemini.APIKey)
	req, err := http.NewRequestWithContext(ctx, "POST", apiURL, bytes.NewBuffer(jsonPayload))
	if err != nil {
		r.logger.Error("Failed to create new http request", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to create new http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Error("Failed to send request to Gemini API", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to send request to Gemini API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		if isRateLimitResponse(resp.StatusCode, string(body)) {
			r.logger.Warn("Gemini API rate limited", logger.IntField("status_code", resp.StatusCode))
			return nil, fmt.Errorf("gemini quota exhausted: %w", ErrRateLimited)
		}
		r.logger.Error("Received non-OK response from Gemini API", logger.IntField("status_code", resp.StatusCode))
		return nil, fmt.Errorf("received non-OK response from Gemini API: %d - %s", resp.StatusCode, string(body))
	}

	var geminiResp dto.GeminiAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&geminiResp); err != nil {
		r.logger.Error("Failed to decode response body", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}

	return &geminiResp, nil
}

func isRateLimitResponse(statusCode int, body string) bool {
	if statusCode == http.StatusTooManyRequests {
		return true
	}
	lower := strings.ToLower(body)
	return strings.Contains(lower, "quota") || strings.Contains(lower, "resource_exhausted")
}

func parseDecisionResponse(resp *dto.GeminiAPIResponse) (*dto.Decision, error) {
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no content found in Gemini response: %w", ErrMalformedResponse)
	}

	rawJSON := resp.Candidates[0].Content.Parts[0].Text
	return parseDecisionText(rawJSON)
}

// parseDecisionText strips code fences and unmarshals the strict Decision
// schema, normalizing enum case before validation.
func parseDecisionText(rawJSON string) (*dto.Decision, error) {
	rawJSON = strings.TrimSpace(rawJSON)
	rawJSON = strings.Trim(rawJSON, "`json\n`")

	var decision dto.Decision
	if err := json.Unmarshal([]byte(rawJSON), &decision); err != nil {
		return nil, fmt.Errorf("failed to unmarshal decision from Gemini response: %v: %w", err, ErrMalformedResponse)
	}

	decision.Action = strings.ToUpper(decision.Action)
	decision.RiskLevel = strings.ToUpper(decision.RiskLevel)
	decision.TimeHorizon = strings.ToUpper(decision.TimeHorizon)

	if err := decision.Validate(); err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrMalformedResponse)
	}

	return &decision, nil
}
