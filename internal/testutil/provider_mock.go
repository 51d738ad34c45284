package testutil

import (
	"context"
	"sync"

	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/alphavantage"
	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/apperrors"
)

// MockMarketProvider is a mock market data provider for testing.
// It returns predefined per-ticker data instead of making actual API calls.
// Services fan lookups out concurrently, so call counters are guarded.
type MockMarketProvider struct {
	mu sync.Mutex

	// Quotes maps tickers to the quote to return.
	Quotes map[string]alphavantage.PriceQuote
	// Overviews maps tickers to the overview to return.
	Overviews map[string]alphavantage.Overview
	// Errors maps tickers to an error to return instead of data.
	Errors map[string]error
	// Err, when set, is returned for every ticker.
	Err error
	// QuoteCalls tracks how many times GetQuote was called.
	QuoteCalls int
	// OverviewCalls tracks how many times GetOverview was called.
	OverviewCalls int
}

// NewMockMarketProvider creates a mock provider with no predefined data.
func NewMockMarketProvider() *MockMarketProvider {
	return &MockMarketProvider{
		Quotes:    make(map[string]alphavantage.PriceQuote),
		Overviews: make(map[string]alphavantage.Overview),
		Errors:    make(map[string]error),
	}
}

// WithQuote configures the mock to return a price for the given ticker.
func (m *MockMarketProvider) WithQuote(ticker string, price float64) *MockMarketProvider {
	m.Quotes[ticker] = alphavantage.PriceQuote{Ticker: ticker, Price: price}
	return m
}

// WithOverview configures the mock to return sector and asset type metadata
// for the given ticker.
func (m *MockMarketProvider) WithOverview(ticker, sector, assetType string) *MockMarketProvider {
	m.Overviews[ticker] = alphavantage.Overview{Ticker: ticker, Sector: sector, AssetType: assetType}
	return m
}

// WithTickerError configures the mock to fail lookups for the given ticker.
func (m *MockMarketProvider) WithTickerError(ticker string, err error) *MockMarketProvider {
	m.Errors[ticker] = err
	return m
}

// WithError configures the mock to fail every lookup.
func (m *MockMarketProvider) WithError(err error) *MockMarketProvider {
	m.Err = err
	return m
}

// GetQuote returns the configured quote for the ticker.
func (m *MockMarketProvider) GetQuote(_ context.Context, ticker string) (alphavantage.PriceQuote, error) {
	m.mu.Lock()
	m.QuoteCalls++
	m.mu.Unlock()
	if m.Err != nil {
		return alphavantage.PriceQuote{}, m.Err
	}
	if err, ok := m.Errors[ticker]; ok {
		return alphavantage.PriceQuote{}, err
	}
	if quote, ok := m.Quotes[ticker]; ok {
		return quote, nil
	}
	return alphavantage.PriceQuote{}, apperrors.ErrQuoteUnavailable
}

// GetOverview returns the configured overview for the ticker. Tickers with
// no configured overview resolve with unknown classification, mirroring the
// provider's behaviour for thinly covered symbols.
func (m *MockMarketProvider) GetOverview(_ context.Context, ticker string) (alphavantage.Overview, error) {
	m.mu.Lock()
	m.OverviewCalls++
	m.mu.Unlock()
	if m.Err != nil {
		return alphavantage.Overview{}, m.Err
	}
	if err, ok := m.Errors[ticker]; ok {
		return alphavantage.Overview{}, err
	}
	if overview, ok := m.Overviews[ticker]; ok {
		return overview, nil
	}
	return alphavantage.Overview{Ticker: ticker, Sector: "Unknown", AssetType: "Unknown"}, nil
}

// MockTranscriptProvider is a mock earnings transcript provider for testing.
// Coverage fetches call it concurrently, so the call counter is guarded.
type MockTranscriptProvider struct {
	mu sync.Mutex

	// Transcripts maps "TICKER|QUARTER" keys to the transcript to return.
	Transcripts map[string]alphavantage.Transcript
	// Errors maps "TICKER|QUARTER" keys to an error to return.
	Errors map[string]error
	// Calls tracks how many times GetTranscript was called.
	Calls int
}

// NewMockTranscriptProvider creates a mock transcript provider with no
// predefined data. Lookups for unconfigured keys return an empty transcript,
// matching the provider's behaviour for quarters without a call.
func NewMockTranscriptProvider() *MockTranscriptProvider {
	return &MockTranscriptProvider{
		Transcripts: make(map[string]alphavantage.Transcript),
		Errors:      make(map[string]error),
	}
}

// WithTranscript configures the mock to return a single-segment transcript
// with the given content.
func (m *MockTranscriptProvider) WithTranscript(ticker, quarter, content string) *MockTranscriptProvider {
	m.Transcripts[ticker+"|"+quarter] = alphavantage.Transcript{
		Ticker:  ticker,
		Quarter: quarter,
		Segments: []alphavantage.TranscriptSegment{
			{Speaker: "CEO", Title: "Chief Executive Officer", Content: content},
		},
	}
	return m
}

// WithTranscriptError configures the mock to fail lookups for the given
// ticker and quarter.
func (m *MockTranscriptProvider) WithTranscriptError(ticker, quarter string, err error) *MockTranscriptProvider {
	m.Errors[ticker+"|"+quarter] = err
	return m
}

// GetTranscript returns the configured transcript for the ticker and quarter.
func (m *MockTranscriptProvider) GetTranscript(_ context.Context, ticker, quarter string) (alphavantage.Transcript, error) {
	m.mu.Lock()
	m.Calls++
	m.mu.Unlock()
	key := ticker + "|" + quarter
	if err, ok := m.Errors[key]; ok {
		return alphavantage.Transcript{}, err
	}
	if transcript, ok := m.Transcripts[key]; ok {
		return transcript, nil
	}
	return alphavantage.Transcript{Ticker: ticker, Quarter: quarter}, nil
}
