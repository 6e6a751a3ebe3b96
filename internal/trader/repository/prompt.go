package repository

import (
	"fmt"

	"golang-ai-trader/internal/trader/dto"
)

// PortfolioSummary is the slice of portfolio state embedded in the prompt.
type PortfolioSummary struct {
	TotalValue      float64
	RiskTolerance   string
	MaxPositionSize float64
}

// BuildTradeDecisionPrompt renders the analysis prompt for one symbol. The
// response contract is strict JSON matching the Decision schema; anything
// else is rejected by validation downstream.
func BuildTradeDecisionPrompt(ind dto.IndicatorSnapshot, mctx dto.MarketContext, summary PortfolioSummary) string {
	return fmt.Sprintf(`You are an expert AI trading analyst. Analyze the following stock data and provide a trading recommendation.

STOCK: %s
CURRENT PRICE: $%.2f
24H CHANGE: %.2f%%

TECHNICAL INDICATORS:
- RSI: %.2f (Oversold < 30, Overbought > 70)
- MACD: %.4f | Signal: %.4f
- Bollinger Bands: Upper $%.2f | Lower $%.2f
- SMA 20: $%.2f | SMA 50: $%.2f
- EMA 12: $%.2f | EMA 26: $%.2f
- Stochastic: K=%.2f | D=%.2f
- ATR: $%.2f
- Volume: current %.0f | 20-period average %.0f

MARKET CONTEXT:
- Sector: %s
- Industry: %s
- P/E Ratio: %.2f
- Beta: %.2f
- Market Cap: $%.0f
- Dividend Yield: %.4f
- Price/Book: %.2f
- Debt/Equity: %.2f
- Profit Margins: %.4f

PORTFOLIO CONTEXT:
- Risk Tolerance: %s
- Max Position Size: %.0f%% of portfolio
- Current Portfolio Value: $%.2f

ANALYSIS REQUIREMENTS:
1. Analyze technical indicators for trend direction and momentum
2. Consider market context and sector performance
3. Assess risk-reward ratio based on current price levels
4. Factor in portfolio diversification and risk tolerance
5. Consider market volatility and ATR for position sizing

PROVIDE YOUR RESPONSE IN THIS EXACT JSON FORMAT:
{
    "action": "BUY|SELL|HOLD",
    "confidence": 0.0-1.0,
    "reasoning": "Detailed explanation of your decision",
    "position_size": 0.0-1.0,
    "stop_loss": price,
    "take_profit": price,
    "risk_level": "LOW|MEDIUM|HIGH",
    "time_horizon": "SHORT|MEDIUM|LONG"
}

Focus on risk management and provide clear reasoning for your decision. Answer with the JSON object only.
`,
		ind.Symbol,
		ind.CurrentPrice,
		ind.PriceChange24h,
		ind.RSI,
		ind.MACD, ind.MACDSignal,
		ind.BollingerUpper, ind.BollingerLower,
		ind.SMA20, ind.SMA50,
		ind.EMA12, ind.EMA26,
		ind.StochK, ind.StochD,
		ind.ATR,
		ind.VolumeCurrent, ind.VolumeAvg,
		mctx.Sector,
		mctx.Industry,
		mctx.PERatio,
		mctx.Beta,
		mctx.MarketCap,
		mctx.DividendYield,
		mctx.PriceToBook,
		mctx.DebtToEquity,
		mctx.ProfitMargins,
		summary.RiskTolerance,
		summary.MaxPositionSize*100,
		summary.TotalValue,
	)
}
