package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/apperrors"
	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/service"
	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/validation"
)

// respondJSON sends a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("Failed to encode JSON: %v", err)
		}
	}
}

// decodeJSON decodes a request body into dst. On failure it writes a 400
// response and returns false; the caller should return immediately.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		errorResponse := map[string]string{
			"error":  "invalid request body",
			"detail": err.Error(),
		}
		respondJSON(w, http.StatusBadRequest, errorResponse)
		return false
	}
	return true
}

// respondServiceError maps service and domain errors onto HTTP status codes
// and writes the response. message describes the failed operation.
func respondServiceError(w http.ResponseWriter, message string, err error) {
	var validationErr *validation.Error
	var importErr *service.ImportValidationError
	var tickerErr *service.InvalidTickerError
	var rateLimitErr *service.RateLimitedError

	switch {
	case errors.As(err, &validationErr):
		respondJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":  message,
			"fields": validationErr.Fields,
		})
	case errors.As(err, &importErr):
		respondJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":     message,
			"rowErrors": importErr.RowErrors,
		})
	case errors.As(err, &tickerErr):
		respondJSON(w, http.StatusConflict, map[string]string{
			"error":  message,
			"ticker": tickerErr.Ticker,
		})
	case errors.As(err, &rateLimitErr):
		respondJSON(w, http.StatusTooManyRequests, map[string]interface{}{
			"error":   message,
			"retryAt": rateLimitErr.RetryAt,
		})
	case errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrHoldingNotFound),
		errors.Is(err, apperrors.ErrTranscriptNotFound):
		respondJSON(w, http.StatusNotFound, map[string]string{
			"error":  message,
			"detail": err.Error(),
		})
	case errors.Is(err, apperrors.ErrInvalidTicker):
		respondJSON(w, http.StatusConflict, map[string]string{
			"error":  message,
			"detail": err.Error(),
		})
	case errors.Is(err, apperrors.ErrQuoteUnavailable),
		errors.Is(err, apperrors.ErrProviderThrottled):
		respondJSON(w, http.StatusBadGateway, map[string]string{
			"error":  message,
			"detail": err.Error(),
		})
	default:
		respondJSON(w, http.StatusInternalServerError, map[string]string{
			"error":  message,
			"detail": err.Error(),
		})
	}
}
