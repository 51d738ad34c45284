package model

// Holding represents a user's position in a single ticker.
// Tickers are stored normalized to uppercase; shares and average price are
// required to be positive on entry.
type Holding struct {
	ID        string  `json:"id"`
	UserID    string  `json:"userId"`
	Ticker    string  `json:"ticker"`
	Shares    float64 `json:"shares"`
	AvgPrice  float64 `json:"avgPrice"`
	AssetType string  `json:"assetType"`
}

// PricedHolding is a holding joined with its live quote for one valuation
// cycle. It is derived data and never persisted.
//
// CurrentPrice is nil when the quote lookup failed; in that case
// CurrentValue, GainLoss and GainLossPct are zero as fallback presentation
// values, not real valuations.
type PricedHolding struct {
	Holding
	CurrentPrice *float64 `json:"currentPrice"`
	CurrentValue float64  `json:"currentValue"`
	CostBasis    float64  `json:"costBasis"`
	GainLoss     float64  `json:"gainLoss"`
	GainLossPct  float64  `json:"gainLossPct"`
	Sector       string   `json:"sector"`
}

// PortfolioTotals aggregates the current priced holding set.
// AllPricesCached is true only when the holding list is non-empty, at least
// one quote resolved, and every resolved quote was served from cache.
type PortfolioTotals struct {
	TotalInvested   float64 `json:"totalInvested"`
	TotalValue      float64 `json:"totalValue"`
	TotalGainLoss   float64 `json:"totalGainLoss"`
	AllPricesCached bool    `json:"allPricesCached"`
}

// Quote is the result of a live price/sector lookup for one ticker.
// Price is nil when the provider could not resolve the ticker; Cached marks
// whether the value was served from a local cache rather than the provider.
type Quote struct {
	Ticker    string   `json:"ticker"`
	Price     *float64 `json:"price"`
	Sector    string   `json:"sector"`
	AssetType string   `json:"assetType"`
	Cached    bool     `json:"cached"`
}
