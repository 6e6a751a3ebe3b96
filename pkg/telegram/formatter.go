package telegram

import (
	"fmt"
	"strings"
	"time"
)

// TradeAlert carries the fields rendered into a trade notification.
type TradeAlert struct {
	Symbol     string
	Action     string
	Quantity   int
	Price      float64
	Total      float64
	Confidence float64
	Reasoning  string
	TradeType  string
	Timestamp  time.Time
}

// DailySummary carries the fields rendered into the end-of-day report.
type DailySummary struct {
	Date           string
	TradeCount     int
	BuyCount       int
	SellCount      int
	TotalVolume    float64
	PortfolioValue float64
	TotalReturnPct float64
	TopTrades      []TradeAlert
}

// FormatTradeAlert renders a trade notification in Markdown.
func FormatTradeAlert(a TradeAlert) string {
	var sb strings.Builder
	emoji := "🟢"
	if a.Action == "SELL" {
		emoji = "🔴"
	}
	sb.WriteString(fmt.Sprintf("%s *%s %s*\n", emoji, a.Action, a.Symbol))
	sb.WriteString(fmt.Sprintf("📊 Shares: %d @ $%.2f\n", a.Quantity, a.Price))
	sb.WriteString(fmt.Sprintf("💰 Total: $%.2f\n", a.Total))
	if a.Confidence > 0 {
		sb.WriteString(fmt.Sprintf("⭐ Confidence: %.2f\n", a.Confidence))
	}
	if a.Reasoning != "" {
		sb.WriteString(fmt.Sprintf("💡 %s\n", truncate(a.Reasoning, 200)))
	}
	sb.WriteString(fmt.Sprintf("🏷 Type: %s\n", a.TradeType))
	sb.WriteString(fmt.Sprintf("🕐 %s", a.Timestamp.Format("2006-01-02 15:04:05 MST")))
	return sb.String()
}

// FormatRiskWarnings renders portfolio risk warnings in Markdown.
func FormatRiskWarnings(warnings []string) string {
	var sb strings.Builder
	sb.WriteString("⚠️ *Portfolio Risk Warnings*\n")
	for _, w := range warnings {
		sb.WriteString(fmt.Sprintf("• %s\n", w))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatDailySummary renders the end-of-day trading report in Markdown.
func FormatDailySummary(s DailySummary) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📈 *Daily Trading Summary — %s*\n\n", s.Date))
	sb.WriteString(fmt.Sprintf("🔄 Trades: %d (%d buys, %d sells)\n", s.TradeCount, s.BuyCount, s.SellCount))
	sb.WriteString(fmt.Sprintf("💵 Volume: $%.2f\n", s.TotalVolume))
	sb.WriteString(fmt.Sprintf("💼 Portfolio: $%.2f\n", s.PortfolioValue))
	sb.WriteString(fmt.Sprintf("📊 Total return: %+.2f%%\n", s.TotalReturnPct))
	if len(s.TopTrades) > 0 {
		sb.WriteString("\n*Top trades:*\n")
		for _, t := range s.TopTrades {
			sb.WriteString(fmt.Sprintf("• %s %s x%d @ $%.2f\n", t.Action, t.Symbol, t.Quantity, t.Price))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatErrorAlert renders an operational error notification in Markdown.
func FormatErrorAlert(operation string, err error) string {
	return fmt.Sprintf("❌ *Error — %s*\n%s", operation, truncate(err.Error(), 300))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
