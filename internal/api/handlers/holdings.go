package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/api/request"
	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/model"
	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/service"
	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/validation"
)

// HoldingHandler handles holding-related HTTP requests, including the bulk
// import endpoint.
type HoldingHandler struct {
	holdingService *service.HoldingService
	importService  *service.ImportService
}

// NewHoldingHandler creates a new HoldingHandler with the provided service dependencies.
func NewHoldingHandler(holdingService *service.HoldingService, importService *service.ImportService) *HoldingHandler {
	return &HoldingHandler{
		holdingService: holdingService,
		importService:  importService,
	}
}

// PricedHoldingsResponse is the priced holding list together with its
// portfolio totals.
type PricedHoldingsResponse struct {
	Holdings []model.PricedHolding `json:"holdings"`
	Totals   model.PortfolioTotals `json:"totals"`
}

// ListHoldings handles GET requests for a user's holdings, priced with
// current quotes. Holdings whose quote lookup failed are included with a
// null current price.
//
// Endpoint: GET /api/users/{userID}/holdings
// Response: 200 OK with PricedHoldingsResponse
func (h *HoldingHandler) ListHoldings(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	priced, totals, err := h.holdingService.ListPriced(r.Context(), userID)
	if err != nil {
		respondServiceError(w, "failed to retrieve holdings", err)
		return
	}

	respondJSON(w, http.StatusOK, PricedHoldingsResponse{
		Holdings: priced,
		Totals:   totals,
	})
}

// CreateHolding handles POST requests to add a lot. A lot for an already
// held ticker is merged into the existing position at a weighted average
// price instead of creating a duplicate.
//
// Endpoint: POST /api/users/{userID}/holdings
// Response: 201 Created with the created or merged holding
// Error: 400 Bad Request on validation failure
func (h *HoldingHandler) CreateHolding(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req request.CreateHoldingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := validation.ValidateCreateHolding(req); err != nil {
		respondServiceError(w, "validation failed", err)
		return
	}

	holding, err := h.holdingService.AddOrMerge(r.Context(), userID, service.HoldingInput{
		Ticker:   req.Ticker,
		Shares:   req.Shares,
		AvgPrice: req.Price,
	})
	if err != nil {
		respondServiceError(w, "failed to add holding", err)
		return
	}

	respondJSON(w, http.StatusCreated, holding)
}

// UpdateHolding handles PUT requests to replace a holding's share count and
// average price.
//
// Endpoint: PUT /api/users/{userID}/holdings/{holdingID}
// Response: 200 OK with the updated holding
// Error: 400 Bad Request on validation failure, 404 when the holding does not exist
func (h *HoldingHandler) UpdateHolding(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	holdingID := chi.URLParam(r, "holdingID")

	if err := validation.ValidateUUID(holdingID); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"error":  "invalid holding ID format",
			"detail": err.Error(),
		})
		return
	}

	var req request.UpdateHoldingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := validation.ValidateUpdateHolding(req); err != nil {
		respondServiceError(w, "validation failed", err)
		return
	}

	holding, err := h.holdingService.Update(userID, holdingID, service.HoldingInput{
		Shares:   req.Shares,
		AvgPrice: req.Price,
	})
	if err != nil {
		respondServiceError(w, "failed to update holding", err)
		return
	}

	respondJSON(w, http.StatusOK, holding)
}

// DeleteHolding handles DELETE requests to remove a holding.
//
// Endpoint: DELETE /api/users/{userID}/holdings/{holdingID}
// Response: 204 No Content
// Error: 404 Not Found when the holding does not exist
func (h *HoldingHandler) DeleteHolding(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	holdingID := chi.URLParam(r, "holdingID")

	if err := validation.ValidateUUID(holdingID); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"error":  "invalid holding ID format",
			"detail": err.Error(),
		})
		return
	}

	if err := h.holdingService.Delete(userID, holdingID); err != nil {
		respondServiceError(w, "failed to delete holding", err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// ImportHoldings handles POST requests for a bulk holdings import.
// Validation errors are collected per row and returned together; an invalid
// ticker aborts the whole import before any mutation.
//
// Endpoint: POST /api/users/{userID}/holdings/import
// Response: 200 OK with the import result
// Error: 400 Bad Request with rowErrors, 409 Conflict on an invalid ticker
func (h *HoldingHandler) ImportHoldings(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req request.ImportHoldingsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := validation.ValidateImportHoldings(req); err != nil {
		respondServiceError(w, "validation failed", err)
		return
	}

	rows := make([]model.ImportRow, len(req.Rows))
	for i, row := range req.Rows {
		rows[i] = model.ImportRow{
			Ticker: row.Ticker,
			Shares: row.Shares,
			Price:  row.Price,
		}
	}

	result, err := h.importService.ImportRows(r.Context(), userID, rows, model.ImportMode(req.Mode))
	if err != nil {
		respondServiceError(w, "import failed", err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}
