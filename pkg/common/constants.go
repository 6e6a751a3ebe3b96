package common

const (
	// RedisStreamTradeEvents receives one entry per executed trade for
	// external consumers (dashboards, downstream bookkeeping).
	RedisStreamTradeEvents = "trading.trade.events"

	// Trade types recorded on TradeRecord entries.
	TradeTypeAICycle   = "AI_TRADE"
	TradeTypeDiscovery = "AI_DISCOVERY_TRADE"
	TradeTypeManual    = "MANUAL_TRADE"

	// Decision actions.
	ActionBuy  = "BUY"
	ActionSell = "SELL"
	ActionHold = "HOLD"

	// Decision risk levels.
	RiskLow    = "LOW"
	RiskMedium = "MEDIUM"
	RiskHigh   = "HIGH"

	// Decision time horizons.
	HorizonShort  = "SHORT"
	HorizonMedium = "MEDIUM"
	HorizonLong   = "LONG"
)
