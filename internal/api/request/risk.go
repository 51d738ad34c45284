package request

// ClassifyRiskRequest carries the inputs for a stateless risk tolerance
// classification.
type ClassifyRiskRequest struct {
	Age               int     `json:"age"`
	Income            float64 `json:"income"`
	RetirementYears   int     `json:"retirementYears"`
	ObligationsAmount float64 `json:"obligationsAmount"`
}
