package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/api/request"
	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/service"
	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/validation"
)

// TranscriptHandler handles earnings transcript coverage HTTP requests.
type TranscriptHandler struct {
	transcriptService *service.TranscriptService
	holdingService    *service.HoldingService
}

// NewTranscriptHandler creates a new TranscriptHandler with the provided service dependencies.
func NewTranscriptHandler(transcriptService *service.TranscriptService, holdingService *service.HoldingService) *TranscriptHandler {
	return &TranscriptHandler{
		transcriptService: transcriptService,
		holdingService:    holdingService,
	}
}

// FetchCoverage handles POST requests to fetch transcript summaries for the
// largest holdings covering 70% of portfolio value in the given quarter.
// Individual ticker failures do not fail the request; the payload flags a
// partial result instead.
//
// Endpoint: POST /api/users/{userID}/transcripts
// Response: 200 OK with the coverage map
// Error: 400 Bad Request on a malformed quarter
func (h *TranscriptHandler) FetchCoverage(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req request.FetchTranscriptsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := validation.ValidateFetchTranscripts(req); err != nil {
		respondServiceError(w, "validation failed", err)
		return
	}

	priced, _, err := h.holdingService.ListPriced(r.Context(), userID)
	if err != nil {
		respondServiceError(w, "failed to price holdings", err)
		return
	}

	coverage, err := h.transcriptService.FetchCoverage(r.Context(), userID, req.Quarter, priced)
	if err != nil {
		respondServiceError(w, "failed to fetch transcripts", err)
		return
	}

	respondJSON(w, http.StatusOK, coverage)
}

// GetCoverage handles GET requests for the cached transcript coverage.
//
// Endpoint: GET /api/users/{userID}/transcripts
// Response: 200 OK with the coverage map (null before any fetch)
func (h *TranscriptHandler) GetCoverage(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	coverage, err := h.transcriptService.GetCoverage(userID)
	if err != nil {
		respondServiceError(w, "failed to retrieve transcripts", err)
		return
	}

	respondJSON(w, http.StatusOK, coverage)
}
