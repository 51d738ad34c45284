package request

// FetchTranscriptsRequest selects the earnings quarter to fetch coverage
// for, e.g. "2025Q2".
type FetchTranscriptsRequest struct {
	Quarter string `json:"quarter"`
}
