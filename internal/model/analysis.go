package model

import "time"

// SectorSlice is one sector's share of the portfolio value.
type SectorSlice struct {
	Sector string  `json:"sector"`
	Value  float64 `json:"value"`
	Pct    float64 `json:"pct"`
}

// TopHolding is one of the largest positions by current value.
type TopHolding struct {
	Ticker string  `json:"ticker"`
	Value  float64 `json:"value"`
	Pct    float64 `json:"pct"`
}

// PortfolioMetrics contains the backend-computed portfolio statistics.
// The formulas live in the analysis service; consumers treat the values as
// opaque and pass them through unchanged.
type PortfolioMetrics struct {
	SectorAllocation     []SectorSlice `json:"sectorAllocation"`
	TopHoldings          []TopHolding  `json:"topHoldings"`
	ConcentrationTop3Pct float64       `json:"concentrationTop3Pct"`
	DiversificationScore float64       `json:"diversificationScore"`
}

// AnalysisRecord is the cached output of a full portfolio analysis.
// LastAnalysisAt and NextAvailableAt are declared by the analysis run that
// produced the record; callers never recompute the cooldown window.
type AnalysisRecord struct {
	Commentary      string           `json:"commentary"`
	Metrics         PortfolioMetrics `json:"metrics"`
	Holdings        []PricedHolding  `json:"holdings"`
	TotalValue      float64          `json:"totalValue"`
	LastAnalysisAt  *time.Time       `json:"lastAnalysisAt"`
	NextAvailableAt *time.Time       `json:"nextAvailableAt"`
}

// AnalysisStatus is an AnalysisRecord together with its derived display
// state: whether holdings changed since the record was produced, and how
// many seconds remain before another run is permitted.
type AnalysisStatus struct {
	Record                   *AnalysisRecord `json:"record"`
	Stale                    bool            `json:"stale"`
	CooldownRemainingSeconds int             `json:"cooldownRemainingSeconds"`
}
