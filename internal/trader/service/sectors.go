package service

// discoverySectors is the catalogue of candidate symbols scanned during a
// discovery pass, grouped by sector.
var discoverySectors = map[string][]string{
	"Technology": {"NVDA", "AMD", "SNOW", "PLTR", "CRWD", "ZS", "NET", "OKTA"},
	"Healthcare": {"MRNA", "BNTX", "REGN", "VRTX", "ALNY", "IONS", "SGEN"},
	"Finance":    {"JPM", "BAC", "WFC", "GS", "MS", "BLK", "SCHW", "V", "MA"},
	"Consumer":   {"NKE", "SBUX", "HD", "LOW", "TGT", "COST", "TJX"},
	"Industrial": {"CAT", "DE", "BA", "LMT", "RTX", "GE", "MMM"},
	"Energy":     {"XOM", "CVX", "COP", "EOG", "SLB", "HAL"},
}

// watchlistSectors covers the default watchlist symbols, which are not part
// of the discovery catalogue.
var watchlistSectors = map[string]string{
	"AAPL":  "Technology",
	"MSFT":  "Technology",
	"GOOGL": "Technology",
	"AMZN":  "Consumer Discretionary",
	"TSLA":  "Consumer Discretionary",
	"CRM":   "Technology",
	"PLD":   "Real Estate",
	"AVGO":  "Technology",
}

var symbolSectors = buildSymbolSectors()

func buildSymbolSectors() map[string]string {
	index := make(map[string]string)
	for sector, symbols := range discoverySectors {
		for _, symbol := range symbols {
			index[symbol] = sector
		}
	}
	for symbol, sector := range watchlistSectors {
		index[symbol] = sector
	}
	return index
}

// SectorFor returns the sector for a known symbol, or "Unknown".
func SectorFor(symbol string) string {
	if sector, ok := symbolSectors[symbol]; ok {
		return sector
	}
	return "Unknown"
}
