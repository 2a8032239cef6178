package market

// Listing names a tracked symbol.
type Listing struct {
	Symbol string
	Name   string
}

// Indices are the tracked market indices (1% alert granularity).
var Indices = []Listing{
	{Symbol: "^KS11", Name: "KOSPI"},
	{Symbol: "^IXIC", Name: "NASDAQ Composite"},
	{Symbol: "^GSPC", Name: "S&P 500"},
	{Symbol: "NQ=F", Name: "NASDAQ Futures"},
}

// Crypto are the tracked crypto assets (1% alert granularity, polled 24/7).
var Crypto = []Listing{
	{Symbol: "BTC-USD", Name: "Bitcoin"},
}

// Currencies feed the briefing only; they never trigger move alerts.
var Currencies = []Listing{
	{Symbol: "KRW=X", Name: "USD/KRW"},
}

// LargeCaps are S&P 100 constituents (5% alert granularity).
var LargeCaps = []Listing{
	{Symbol: "AAPL", Name: "Apple"},
	{Symbol: "MSFT", Name: "Microsoft"},
	{Symbol: "GOOGL", Name: "Alphabet"},
	{Symbol: "NVDA", Name: "NVIDIA"},
	{Symbol: "META", Name: "Meta"},
	{Symbol: "AVGO", Name: "Broadcom"},
	{Symbol: "CSCO", Name: "Cisco"},
	{Symbol: "ADBE", Name: "Adobe"},
	{Symbol: "CRM", Name: "Salesforce"},
	{Symbol: "ORCL", Name: "Oracle"},
	{Symbol: "ACN", Name: "Accenture"},
	{Symbol: "IBM", Name: "IBM"},
	{Symbol: "INTC", Name: "Intel"},
	{Symbol: "AMD", Name: "AMD"},
	{Symbol: "QCOM", Name: "Qualcomm"},
	{Symbol: "TXN", Name: "Texas Instruments"},
	{Symbol: "AMZN", Name: "Amazon"},
	{Symbol: "TSLA", Name: "Tesla"},
	{Symbol: "HD", Name: "Home Depot"},
	{Symbol: "MCD", Name: "McDonald's"},
	{Symbol: "NKE", Name: "Nike"},
	{Symbol: "SBUX", Name: "Starbucks"},
	{Symbol: "LOW", Name: "Lowe's"},
	{Symbol: "TGT", Name: "Target"},
	{Symbol: "COST", Name: "Costco"},
	{Symbol: "WMT", Name: "Walmart"},
	{Symbol: "PG", Name: "Procter & Gamble"},
	{Symbol: "KO", Name: "Coca-Cola"},
	{Symbol: "PEP", Name: "PepsiCo"},
	{Symbol: "MDLZ", Name: "Mondelez"},
	{Symbol: "CL", Name: "Colgate-Palmolive"},
	{Symbol: "KHC", Name: "Kraft Heinz"},
	{Symbol: "NFLX", Name: "Netflix"},
	{Symbol: "DIS", Name: "Disney"},
	{Symbol: "CMCSA", Name: "Comcast"},
	{Symbol: "CHTR", Name: "Charter"},
	{Symbol: "T", Name: "AT&T"},
	{Symbol: "VZ", Name: "Verizon"},
	{Symbol: "TMUS", Name: "T-Mobile"},
	{Symbol: "UNH", Name: "UnitedHealth"},
	{Symbol: "JNJ", Name: "Johnson & Johnson"},
	{Symbol: "LLY", Name: "Eli Lilly"},
	{Symbol: "MRK", Name: "Merck"},
	{Symbol: "ABBV", Name: "AbbVie"},
	{Symbol: "PFE", Name: "Pfizer"},
	{Symbol: "TMO", Name: "Thermo Fisher"},
	{Symbol: "ABT", Name: "Abbott"},
	{Symbol: "DHR", Name: "Danaher"},
	{Symbol: "BMY", Name: "Bristol-Myers Squibb"},
	{Symbol: "AMGN", Name: "Amgen"},
	{Symbol: "GILD", Name: "Gilead Sciences"},
	{Symbol: "MDT", Name: "Medtronic"},
	{Symbol: "CVS", Name: "CVS Health"},
	{Symbol: "BRK-B", Name: "Berkshire Hathaway"},
	{Symbol: "JPM", Name: "JPMorgan Chase"},
	{Symbol: "V", Name: "Visa"},
	{Symbol: "MA", Name: "Mastercard"},
	{Symbol: "BAC", Name: "Bank of America"},
	{Symbol: "WFC", Name: "Wells Fargo"},
	{Symbol: "GS", Name: "Goldman Sachs"},
	{Symbol: "MS", Name: "Morgan Stanley"},
	{Symbol: "C", Name: "Citigroup"},
	{Symbol: "SCHW", Name: "Charles Schwab"},
	{Symbol: "BLK", Name: "BlackRock"},
	{Symbol: "AXP", Name: "American Express"},
	{Symbol: "BK", Name: "Bank of New York"},
	{Symbol: "USB", Name: "U.S. Bancorp"},
	{Symbol: "COF", Name: "Capital One"},
	{Symbol: "MET", Name: "MetLife"},
	{Symbol: "AIG", Name: "AIG"},
	{Symbol: "SPG", Name: "Simon Property"},
	{Symbol: "BA", Name: "Boeing"},
	{Symbol: "HON", Name: "Honeywell"},
	{Symbol: "UNP", Name: "Union Pacific"},
	{Symbol: "RTX", Name: "Raytheon"},
	{Symbol: "CAT", Name: "Caterpillar"},
	{Symbol: "GE", Name: "GE Aerospace"},
	{Symbol: "LMT", Name: "Lockheed Martin"},
	{Symbol: "GD", Name: "General Dynamics"},
	{Symbol: "UPS", Name: "UPS"},
	{Symbol: "FDX", Name: "FedEx"},
	{Symbol: "EMR", Name: "Emerson Electric"},
	{Symbol: "MMM", Name: "3M"},
	{Symbol: "XOM", Name: "Exxon Mobil"},
	{Symbol: "CVX", Name: "Chevron"},
	{Symbol: "COP", Name: "ConocoPhillips"},
	{Symbol: "NEE", Name: "NextEra Energy"},
	{Symbol: "DUK", Name: "Duke Energy"},
	{Symbol: "SO", Name: "Southern Company"},
	{Symbol: "EXC", Name: "Exelon"},
	{Symbol: "LIN", Name: "Linde"},
	{Symbol: "DOW", Name: "Dow"},
	{Symbol: "AMT", Name: "American Tower"},
	{Symbol: "BKNG", Name: "Booking Holdings"},
	{Symbol: "GM", Name: "General Motors"},
	{Symbol: "F", Name: "Ford"},
	{Symbol: "PM", Name: "Philip Morris"},
	{Symbol: "MO", Name: "Altria"},
	{Symbol: "WBA", Name: "Walgreens"},
}

// LeveragedETFs are 3x bull funds (5% alert granularity, inverse funds
// excluded).
var LeveragedETFs = []Listing{
	{Symbol: "TQQQ", Name: "ProShares UltraPro QQQ"},
	{Symbol: "UPRO", Name: "ProShares UltraPro S&P 500"},
	{Symbol: "SOXL", Name: "Direxion Semiconductor Bull 3X"},
	{Symbol: "LABU", Name: "Direxion Biotech Bull 3X"},
	{Symbol: "TNA", Name: "Direxion Small Cap Bull 3X"},
	{Symbol: "FAS", Name: "Direxion Financial Bull 3X"},
	{Symbol: "TECL", Name: "Direxion Technology Bull 3X"},
	{Symbol: "FNGU", Name: "MicroSectors FANG+ 3X"},
}
