package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/apperrors"
	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/service"
)

// TickerHandler handles ticker validation HTTP requests.
type TickerHandler struct {
	tickerService *service.TickerService
}

// NewTickerHandler creates a new TickerHandler with the provided service dependency.
func NewTickerHandler(tickerService *service.TickerService) *TickerHandler {
	return &TickerHandler{
		tickerService: tickerService,
	}
}

// ValidateTickerResponse reports whether a ticker is recognized.
type ValidateTickerResponse struct {
	Ticker string `json:"ticker"`
	Valid  bool   `json:"valid"`
}

// Validate handles GET requests to check a ticker against the local symbol
// universe, falling back to a provider lookup for symbols outside it.
//
// Endpoint: GET /api/tickers/{ticker}/validate
// Response: 200 OK with the validity flag
func (h *TickerHandler) Validate(w http.ResponseWriter, r *http.Request) {
	ticker := service.NormalizeTicker(chi.URLParam(r, "ticker"))

	err := h.tickerService.Validate(r.Context(), ticker)
	if err != nil && !errors.Is(err, apperrors.ErrInvalidTicker) {
		respondServiceError(w, "failed to validate ticker", err)
		return
	}

	respondJSON(w, http.StatusOK, ValidateTickerResponse{
		Ticker: ticker,
		Valid:  err == nil,
	})
}
