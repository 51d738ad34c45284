package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/service"
)

// AnalysisHandler handles portfolio analysis HTTP requests.
type AnalysisHandler struct {
	analysisService *service.AnalysisService
}

// NewAnalysisHandler creates a new AnalysisHandler with the provided service dependency.
func NewAnalysisHandler(analysisService *service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{
		analysisService: analysisService,
	}
}

// RunAnalysis handles POST requests to run a full portfolio analysis:
// pricing, metrics, and commentary. A run before the declared cooldown
// window elapsed is rejected without any provider traffic.
//
// Endpoint: POST /api/users/{userID}/analysis
// Response: 200 OK with the analysis status
// Error: 429 Too Many Requests during cooldown, 404 when the user does not exist
func (h *AnalysisHandler) RunAnalysis(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	status, err := h.analysisService.RunAnalysis(r.Context(), userID, time.Now())
	if err != nil {
		respondServiceError(w, "failed to run analysis", err)
		return
	}

	respondJSON(w, http.StatusOK, status)
}

// GetAnalysis handles GET requests for the cached analysis record together
// with its staleness flag and remaining cooldown. Nothing is recomputed.
//
// Endpoint: GET /api/users/{userID}/analysis
// Response: 200 OK with the analysis status (record is null before any run)
// Error: 404 Not Found when the user does not exist
func (h *AnalysisHandler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	status, err := h.analysisService.GetAnalysis(userID, time.Now())
	if err != nil {
		respondServiceError(w, "failed to retrieve analysis", err)
		return
	}

	respondJSON(w, http.StatusOK, status)
}
