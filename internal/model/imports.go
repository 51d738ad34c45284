package model

// ImportMode selects the bulk upsert semantics: merge combines incoming rows
// with existing positions, replace supersedes the prior position set.
type ImportMode string

const (
	ImportModeMerge   ImportMode = "merge"
	ImportModeReplace ImportMode = "replace"
)

// ImportRow is one raw row of a bulk holdings import. Fields are kept as
// strings so that validation can report per-row parse errors instead of
// failing at decode time.
type ImportRow struct {
	Ticker string `json:"ticker"`
	Shares string `json:"shares"`
	Price  string `json:"price"`
}

// ImportResult reports a committed bulk import.
type ImportResult struct {
	Mode     ImportMode `json:"mode"`
	Imported int        `json:"imported"`
}
