// Package alphavantage provides a client for the Alpha Vantage API.
// It covers the three functions the engine consumes: GLOBAL_QUOTE for live
// prices, OVERVIEW for sector/asset-type metadata, and
// EARNINGS_CALL_TRANSCRIPT for earnings-call text.
package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/apperrors"
)

const (
	// DefaultBaseURL is the production Alpha Vantage endpoint.
	DefaultBaseURL = "https://www.alphavantage.co/query"

	// DefaultTimeout bounds every outbound request. A timed-out request is
	// treated like any other provider failure by callers.
	DefaultTimeout = 15 * time.Second

	// DefaultRequestsPerMinute matches the free-tier allowance with headroom.
	DefaultRequestsPerMinute = 60
)

// KeySource supplies the API key for outbound requests. The settings service
// implements this so a key stored through the API takes effect without a
// restart.
type KeySource interface {
	APIKey(ctx context.Context) (string, error)
}

// StaticKey is a KeySource returning a fixed key, used when the key comes
// from the environment.
type StaticKey string

// APIKey returns the fixed key.
func (k StaticKey) APIKey(_ context.Context) (string, error) {
	return string(k), nil
}

// Client calls the Alpha Vantage API with client-side request throttling.
type Client struct {
	baseURL    string
	keySource  KeySource
	httpClient *http.Client
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL, used by tests to point at a local server.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithRateLimit sets the outbound request budget in requests per minute.
func WithRateLimit(requestsPerMinute int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new Alpha Vantage client.
func NewClient(keySource KeySource, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		keySource:  keySource,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Every(time.Minute/DefaultRequestsPerMinute), 1),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// GetQuote fetches the latest price for a ticker via GLOBAL_QUOTE.
// Returns apperrors.ErrQuoteUnavailable when the response carries no price,
// which callers treat as a per-ticker failure rather than a batch failure.
func (c *Client) GetQuote(ctx context.Context, ticker string) (PriceQuote, error) {
	var res globalQuoteResponse
	params := url.Values{
		"function": {"GLOBAL_QUOTE"},
		"symbol":   {ticker},
	}
	if err := c.get(ctx, params, &res); err != nil {
		return PriceQuote{}, err
	}

	if res.GlobalQuote.Price == "" {
		return PriceQuote{}, fmt.Errorf("%w: no price for %s", apperrors.ErrQuoteUnavailable, ticker)
	}

	price, err := strconv.ParseFloat(res.GlobalQuote.Price, 64)
	if err != nil {
		return PriceQuote{}, fmt.Errorf("failed to parse price %q for %s: %w", res.GlobalQuote.Price, ticker, err)
	}

	return PriceQuote{Ticker: ticker, Price: price}, nil
}

// GetOverview fetches sector and asset-type metadata for a ticker.
// Missing fields come back as "Unknown" so callers can store them directly.
func (c *Client) GetOverview(ctx context.Context, ticker string) (Overview, error) {
	var res overviewResponse
	params := url.Values{
		"function": {"OVERVIEW"},
		"symbol":   {ticker},
	}
	if err := c.get(ctx, params, &res); err != nil {
		return Overview{}, err
	}

	overview := Overview{
		Ticker:    ticker,
		Sector:    res.Sector,
		AssetType: res.AssetType,
	}
	if overview.Sector == "" {
		overview.Sector = "Unknown"
	}
	if overview.AssetType == "" {
		overview.AssetType = "Unknown"
	}

	return overview, nil
}

// GetTranscript fetches the earnings-call transcript for a ticker and
// quarter (format "2024Q1"). An empty transcript list is not an error here;
// the transcript service decides whether to fall back to an earlier quarter.
func (c *Client) GetTranscript(ctx context.Context, ticker, quarter string) (Transcript, error) {
	var res transcriptResponse
	params := url.Values{
		"function": {"EARNINGS_CALL_TRANSCRIPT"},
		"symbol":   {ticker},
		"quarter":  {quarter},
	}
	if err := c.get(ctx, params, &res); err != nil {
		return Transcript{}, err
	}

	return Transcript{
		Ticker:   ticker,
		Quarter:  quarter,
		Segments: res.Transcript,
	}, nil
}

// get performs a throttled GET against the API and decodes the body into
// out. Alpha Vantage reports its own throttling inside a 200 response via
// the Note/Information fields, so those are checked after decoding.
func (c *Client) get(ctx context.Context, params url.Values, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}

	apiKey, err := c.keySource.APIKey(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve API key: %w", err)
	}
	if apiKey == "" {
		return fmt.Errorf("alpha vantage API key not configured")
	}
	params.Set("apikey", apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("alpha vantage returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return checkEnvelope(body)
}

// checkEnvelope surfaces throttle notices the API embeds in otherwise
// successful responses.
func checkEnvelope(body []byte) error {
	var env apiEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil
	}
	if env.Note != "" {
		return fmt.Errorf("%w: %s", apperrors.ErrProviderThrottled, env.Note)
	}
	if env.Information != "" {
		return fmt.Errorf("%w: %s", apperrors.ErrProviderThrottled, env.Information)
	}
	if env.Error != "" {
		return fmt.Errorf("alpha vantage error: %s", env.Error)
	}
	return nil
}
