package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrUserNotFound indicates that a user with the given ID does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrHoldingNotFound indicates that a holding with the given ID does not exist.
	ErrHoldingNotFound = errors.New("holding not found")

	// ErrStockDataNotFound indicates no cached market data row exists for a ticker.
	ErrStockDataNotFound = errors.New("stock data not found")

	// ErrTranscriptNotFound indicates no transcript exists for a ticker/quarter
	// combination, including after quarter fallback.
	ErrTranscriptNotFound = errors.New("transcript not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrAnalysisRateLimited indicates a full analysis was requested before the
	// cooldown window declared by the previous run elapsed. The request is
	// rejected locally; no analysis work is performed.
	ErrAnalysisRateLimited = errors.New("analysis cooldown has not elapsed")

	// ErrInvalidTicker indicates a ticker failed remote validation during a
	// bulk import pre-flight. The whole import is aborted.
	ErrInvalidTicker = errors.New("invalid ticker")

	// ErrZeroTotalShares indicates a position merge would produce a position
	// with zero total shares. Shares are required to be positive on entry, so
	// this is a guarded invalid state rather than an expected input.
	ErrZeroTotalShares = errors.New("merged position would have zero shares")
)

// Collaborator failure errors represent upstream provider failures.
var (
	// ErrQuoteUnavailable indicates the market data provider could not return
	// a price for a ticker. Batch pricing absorbs this into a fallback quote.
	ErrQuoteUnavailable = errors.New("quote unavailable")

	// ErrProviderThrottled indicates the market data provider rejected a
	// request because its own rate limit was hit.
	ErrProviderThrottled = errors.New("provider request throttled")
)
