package alphavantage

// apiEnvelope carries the throttle/notice fields Alpha Vantage attaches to
// any response body regardless of the requested function.
type apiEnvelope struct {
	Note        string `json:"Note"`
	Information string `json:"Information"`
	Error       string `json:"Error Message"`
}

// globalQuoteResponse is the raw GLOBAL_QUOTE response shape.
// Numeric fields arrive as strings and are parsed by the client.
type globalQuoteResponse struct {
	apiEnvelope
	GlobalQuote struct {
		Symbol        string `json:"01. symbol"`
		Price         string `json:"05. price"`
		Volume        string `json:"06. volume"`
		LatestDay     string `json:"07. latest trading day"`
		PreviousClose string `json:"08. previous close"`
		Change        string `json:"09. change"`
		ChangePct     string `json:"10. change percent"`
	} `json:"Global Quote"`
}

// overviewResponse is the subset of the OVERVIEW response the service needs.
type overviewResponse struct {
	apiEnvelope
	Symbol    string `json:"Symbol"`
	AssetType string `json:"AssetType"`
	Name      string `json:"Name"`
	Sector    string `json:"Sector"`
	Industry  string `json:"Industry"`
}

// transcriptResponse is the raw EARNINGS_CALL_TRANSCRIPT response shape.
// The transcript arrives as a list of per-speaker segments.
type transcriptResponse struct {
	apiEnvelope
	Symbol     string              `json:"symbol"`
	Quarter    string              `json:"quarter"`
	Transcript []TranscriptSegment `json:"transcript"`
}

// TranscriptSegment is one speaker turn of an earnings call.
type TranscriptSegment struct {
	Speaker   string `json:"speaker"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Sentiment string `json:"sentiment"`
}

// PriceQuote is a parsed GLOBAL_QUOTE result.
type PriceQuote struct {
	Ticker string
	Price  float64
}

// Overview is a parsed OVERVIEW result carrying classification metadata.
type Overview struct {
	Ticker    string
	Sector    string
	AssetType string
}

// Transcript is a parsed earnings-call transcript.
type Transcript struct {
	Ticker   string
	Quarter  string
	Segments []TranscriptSegment
}
