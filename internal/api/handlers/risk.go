package handlers

import (
	"net/http"

	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/api/request"
	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/service"
	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/validation"
)

// RiskHandler handles the stateless risk classification endpoint.
type RiskHandler struct{}

// NewRiskHandler creates a new RiskHandler.
func NewRiskHandler() *RiskHandler {
	return &RiskHandler{}
}

// ClassifyRiskResponse carries the classifier output.
type ClassifyRiskResponse struct {
	RiskTolerance string `json:"riskTolerance"`
}

// Classify handles POST requests to classify a risk tolerance from profile
// inputs. Nothing is stored; the same inputs always produce the same
// category.
//
// Endpoint: POST /api/risk/classify
// Response: 200 OK with ClassifyRiskResponse
// Error: 400 Bad Request on validation failure
func (h *RiskHandler) Classify(w http.ResponseWriter, r *http.Request) {
	var req request.ClassifyRiskRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := validation.ValidateClassifyRisk(req); err != nil {
		respondServiceError(w, "validation failed", err)
		return
	}

	tolerance := service.ClassifyRiskTolerance(req.Age, req.Income, req.RetirementYears, req.ObligationsAmount)

	respondJSON(w, http.StatusOK, ClassifyRiskResponse{RiskTolerance: tolerance})
}
