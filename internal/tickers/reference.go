package tickers

// knownTickers is the built-in ticker reference set. Production deployments
// inject a full exchange listing; this covers the symbols that dominate
// retail chatter.
var knownTickers = []string{
	"AAPL", "MSFT", "GOOGL", "AMZN", "TSLA", "META", "NVDA", "AMD",
	"INTC", "NFLX", "GME", "AMC", "BB", "NOK", "PLTR", "SOFI", "HOOD",
	"COIN", "RIVN", "LCID", "NIO", "BABA", "DIS", "BA", "F", "T",
	"V", "JPM", "BAC", "WMT", "SPY", "QQQ", "VIX",
	"BTC", "ETH", "DOGE", "SOL", "ADA", "XRP",
}

// companyToTicker maps lowercase company names to their ticker. Matching is
// substring-based over the whole text.
var companyToTicker = map[string]string{
	"apple":      "AAPL",
	"microsoft":  "MSFT",
	"alphabet":   "GOOGL",
	"google":     "GOOGL",
	"amazon":     "AMZN",
	"tesla":      "TSLA",
	"facebook":   "META",
	"nvidia":     "NVDA",
	"netflix":    "NFLX",
	"gamestop":   "GME",
	"blackberry": "BB",
	"palantir":   "PLTR",
	"robinhood":  "HOOD",
	"coinbase":   "COIN",
	"alibaba":    "BABA",
	"disney":     "DIS",
	"boeing":     "BA",
	"walmart":    "WMT",
	"bitcoin":    "BTC",
	"ethereum":   "ETH",
	"dogecoin":   "DOGE",
	"solana":     "SOL",
}
