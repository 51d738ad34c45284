package model

import "time"

// TranscriptRecord is a fetched earnings-call transcript and its summary,
// keyed by (ticker, quarter).
type TranscriptRecord struct {
	Ticker     string    `json:"ticker"`
	Quarter    string    `json:"quarter"`
	Transcript string    `json:"-"`
	Summary    string    `json:"summary"`
	FetchedAt  time.Time `json:"fetchedAt"`
}

// TranscriptCoverage maps covered tickers to their transcript summaries for
// one quarter. PartialFailure is set when at least one selected ticker's
// lookup failed while others succeeded.
type TranscriptCoverage struct {
	Quarter        string            `json:"quarter"`
	Summaries      map[string]string `json:"summaries"`
	PartialFailure bool              `json:"partialFailure"`
}
