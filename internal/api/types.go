package api

// APIEvent represents an event from the gamma listing endpoint.
// Each event nests the markets it groups.
type APIEvent struct {
	ID      string      `json:"id"`
	Ticker  string      `json:"ticker"`
	Title   string      `json:"title"`
	Slug    string      `json:"slug"`
	Active  bool        `json:"active"`
	Closed  bool        `json:"closed"`
	Markets []APIMarket `json:"markets"`
}

// APIMarket represents a market from the gamma API, both nested in event
// listings and returned by the per-market detail endpoint.
type APIMarket struct {
	ID          string `json:"id"`
	Question    string `json:"question"`
	Description string `json:"description"`
	ConditionID string `json:"conditionId"`
	Slug        string `json:"slug"`

	Active bool `json:"active"`
	Closed bool `json:"closed"`

	// Group label when the market is one line of a multi-outcome event
	// (e.g. a candidate name).
	GroupItemTitle string `json:"groupItemTitle"`

	// Prices. OutcomePrices is a JSON array encoded as a string
	// (`"[\"0.45\", \"0.55\"]"`); BestBid/BestAsk are the fallback when it
	// is absent or unparseable.
	OutcomePricesRaw string  `json:"outcomePrices"`
	BestBid          float64 `json:"bestBid"`
	BestAsk          float64 `json:"bestAsk"`

	// Volume
	VolumeNum    float64 `json:"volumeNum"`
	Volume24hr   float64 `json:"volume24hr"`
	LiquidityNum float64 `json:"liquidityNum"`
}

// APITrade represents one transaction from the data host.
type APITrade struct {
	TransactionHash string  `json:"transactionHash"`
	ConditionID     string  `json:"conditionId"`
	Asset           string  `json:"asset"`
	Side            string  `json:"side"`
	Outcome         string  `json:"outcome"`
	Size            float64 `json:"size"`      // Share count, NOT dollars
	Price           float64 `json:"price"`     // Per-share price
	Timestamp       int64   `json:"timestamp"` // Unix seconds

	// Optional trader identity
	ProxyWallet string `json:"proxyWallet"`
	Name        string `json:"name"`
	Pseudonym   string `json:"pseudonym"`
}

// ListEventsOptions configures a ListEvents request.
type ListEventsOptions struct {
	TagSlug string
	Limit   int
	Offset  int
	Closed  bool
}
