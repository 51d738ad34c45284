package request

// CreateHoldingRequest carries a new lot to create or merge into an
// existing position for the same ticker.
type CreateHoldingRequest struct {
	Ticker string  `json:"ticker"`
	Shares float64 `json:"shares"`
	Price  float64 `json:"price"`
}

// UpdateHoldingRequest carries replacement values for an existing holding.
type UpdateHoldingRequest struct {
	Shares float64 `json:"shares"`
	Price  float64 `json:"price"`
}

// ImportHoldingsRequest carries a bulk holdings import. Row fields are raw
// strings so validation can report per-row errors instead of failing at
// decode time.
type ImportHoldingsRequest struct {
	Mode string            `json:"mode"`
	Rows []ImportRowRecord `json:"rows"`
}

// ImportRowRecord is one raw row of a bulk import.
type ImportRowRecord struct {
	Ticker string `json:"ticker"`
	Shares string `json:"shares"`
	Price  string `json:"price"`
}
