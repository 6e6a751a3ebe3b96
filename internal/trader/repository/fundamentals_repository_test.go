package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang-ai-trader/internal/trader/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quoteSummaryPayload = `{
  "quoteSummary": {
    "result": [{
      "summaryProfile": {"sector": "Technology", "industry": "Consumer Electronics"},
      "summaryDetail": {
        "marketCap": {"raw": 2900000000000, "fmt": "2.9T"},
        "trailingPE": {"raw": 29.4, "fmt": "29.40"},
        "beta": {"raw": 1.25, "fmt": "1.25"},
        "dividendYield": {"raw": 0.0055, "fmt": "0.55%"},
        "averageVolume": {"raw": 58000000, "fmt": "58M"},
        "priceToBook": {"raw": 45.1, "fmt": "45.10"}
      },
      "financialData": {
        "debtToEquity": {"raw": 176.3, "fmt": "176.30"},
        "currentRatio": {"raw": 0.98, "fmt": "0.98"},
        "profitMargins": {"raw": 0.253, "fmt": "25.30%"},
        "revenueGrowth": {"raw": 0.021, "fmt": "2.10%"},
        "earningsGrowth": {"raw": 0.05, "fmt": "5.00%"}
      }
    }],
    "error": null
  }
}`

func TestGetFundamentalsParsesModules(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v10/finance/quoteSummary/AAPL", r.URL.Path)
		assert.Equal(t, "summaryProfile,summaryDetail,financialData", r.URL.Query().Get("modules"))
		fmt.Fprint(w, quoteSummaryPayload)
	}))
	defer server.Close()

	repo := NewYahooFundamentalsRepository(yahooConfig(server.URL), newTestLogger(t))

	mctx, err := repo.GetFundamentals(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, "Technology", mctx.Sector)
	assert.Equal(t, "Consumer Electronics", mctx.Industry)
	assert.Equal(t, 1.25, mctx.Beta)
	assert.Equal(t, 29.4, mctx.PERatio)
	assert.Equal(t, 176.3, mctx.DebtToEquity)
}

func TestGetFundamentalsMissingBetaKeepsNeutral(t *testing.T) {
	payload := `{
  "quoteSummary": {
    "result": [{
      "summaryProfile": {"sector": "Energy", "industry": "Oil & Gas"},
      "summaryDetail": {"beta": {"raw": 0}}
    }],
    "error": null
  }
}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, payload)
	}))
	defer server.Close()

	repo := NewYahooFundamentalsRepository(yahooConfig(server.URL), newTestLogger(t))

	mctx, err := repo.GetFundamentals(context.Background(), "XOM")
	require.NoError(t, err)

	assert.Equal(t, "Energy", mctx.Sector)
	assert.Equal(t, dto.NeutralMarketContext().Beta, mctx.Beta, "a zero beta falls back to the neutral default")
}

func TestGetFundamentalsEmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"quoteSummary":{"result":[],"error":null}}`)
	}))
	defer server.Close()

	repo := NewYahooFundamentalsRepository(yahooConfig(server.URL), newTestLogger(t))

	_, err := repo.GetFundamentals(context.Background(), "AAPL")
	assert.Error(t, err)
}
