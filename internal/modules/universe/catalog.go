// Package universe resolves market selectors into the list of tickers a
// screening run will evaluate.
//
// The catalogs are static representative samples. Index membership churns
// a handful of names per year, which is immaterial for screening purposes;
// a dynamic membership feed can replace these lists without touching the
// resolver.
package universe

// SP500Tickers is a representative sample of S&P 500 constituents.
var SP500Tickers = []string{
	"AAPL", "MSFT", "GOOGL", "GOOG", "AMZN", "NVDA", "TSLA", "META", "TSM", "UNH",
	"XOM", "JNJ", "JPM", "V", "PG", "MA", "HD", "CVX", "ABBV", "PFE",
	"AVGO", "LLY", "KO", "COST", "PEP", "TMO", "WMT", "MRK", "DIS", "ABT",
	"BAC", "CRM", "NFLX", "ADBE", "AMD", "NKE", "LIN", "ORCL", "WFC", "ACN",
	"TXN", "PM", "RTX", "QCOM", "DHR", "NEE", "IBM", "SPGI", "T", "UNP",
	"LOW", "GS", "HON", "CAT", "MDT", "INTC", "UPS", "BLK", "INTU", "DE",
	"AXP", "AMAT", "CI", "SYK", "GILD", "TJX", "AMT", "BKNG", "MU", "ADP",
	"TMUS", "VRTX", "CVS", "LRCX", "REGN", "ZTS", "SLB", "PLD", "MO", "MMC",
	"FI", "TGT", "SO", "CL", "PYPL", "BSX", "BMY", "BDX", "ITW", "EL",
	"CSX", "CB", "DUK", "AON", "SHW", "APD", "NOC", "COP", "CME", "EQIX",
}

// Nasdaq100Tickers is a representative sample of NASDAQ-100 constituents.
var Nasdaq100Tickers = []string{
	"AAPL", "MSFT", "GOOGL", "GOOG", "AMZN", "NVDA", "TSLA", "META", "AVGO", "COST",
	"NFLX", "PEP", "ADBE", "CSCO", "TMUS", "CRM", "TXN", "QCOM", "CMCSA", "AMD",
	"INTC", "INTU", "AMGN", "HON", "AMAT", "BKNG", "ADP", "GILD", "MU", "ADI",
	"LRCX", "MELI", "MDLZ", "REGN", "ISRG", "PYPL", "KLAC", "SNPS", "CDNS", "MAR",
	"MRVL", "ORLY", "CSX", "FTNT", "ADSK", "NXPI", "WDAY", "ABNB", "CHTR", "MNST",
	"TEAM", "DXCM", "AEP", "EXC", "KDP", "FANG", "ROST", "VRSK", "KHC", "CCEP",
	"IDXX", "CTAS", "EA", "FAST", "ODFL", "BKR", "XEL", "AZN", "CTSH", "GEHC",
	"PCAR", "MRNA", "ON", "BIIB", "PAYX", "LULU", "DDOG", "WBD", "ANSS", "ZM",
	"SGEN", "CRWD", "DLTR", "CSGP", "WBA", "LCID", "SIRI", "ZS", "EBAY", "GFS",
}

// Dow30Tickers holds the Dow Jones Industrial Average constituents.
var Dow30Tickers = []string{
	"AAPL", "MSFT", "UNH", "GS", "HD", "AMGN", "MCD", "CAT", "CRM", "V",
	"BA", "AXP", "TRV", "JPM", "JNJ", "PG", "CVX", "NKE", "MRK", "WMT",
	"DIS", "IBM", "MMM", "KO", "HON", "CSCO", "INTC", "VZ", "WBA", "DOW",
}
