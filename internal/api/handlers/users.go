package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/api/request"
	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/service"
	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/validation"
)

// UserHandler handles user and risk profile HTTP requests.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the profile service.
type UserHandler struct {
	profileService *service.ProfileService
}

// NewUserHandler creates a new UserHandler with the provided service dependency.
func NewUserHandler(profileService *service.ProfileService) *UserHandler {
	return &UserHandler{
		profileService: profileService,
	}
}

// CreateUser handles POST requests to create a user with their risk profile.
//
// Endpoint: POST /api/users
// Response: 201 Created with the created user
// Error: 400 Bad Request on validation failure
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req request.CreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := validation.ValidateCreateUser(req); err != nil {
		respondServiceError(w, "validation failed", err)
		return
	}

	user, err := h.profileService.CreateUser(service.ProfileInput{
		Age:                req.Age,
		Income:             req.Income,
		RiskTolerance:      req.RiskTolerance,
		RiskAssessmentMode: req.RiskAssessmentMode,
		RetirementYears:    req.RetirementYears,
		ObligationsAmount:  req.ObligationsAmount,
	}, time.Now())
	if err != nil {
		respondServiceError(w, "failed to create user", err)
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

// GetProfile handles GET requests for a user's risk profile.
//
// Endpoint: GET /api/users/{userID}/profile
// Response: 200 OK with the user and profile fields
// Error: 404 Not Found when the user does not exist
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	user, err := h.profileService.GetUser(userID)
	if err != nil {
		respondServiceError(w, "failed to retrieve profile", err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// UpdateProfile handles PUT requests to replace a user's risk profile.
// In ai assessment mode the stored tolerance is reclassified from the
// submitted fields; in manual mode the submitted tolerance is kept.
//
// Endpoint: PUT /api/users/{userID}/profile
// Response: 200 OK with the updated user
// Error: 400 Bad Request on validation failure, 404 when the user does not exist
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req request.UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := validation.ValidateUpdateProfile(req); err != nil {
		respondServiceError(w, "validation failed", err)
		return
	}

	user, err := h.profileService.UpdateProfile(userID, service.ProfileInput{
		Age:                req.Age,
		Income:             req.Income,
		RiskTolerance:      req.RiskTolerance,
		RiskAssessmentMode: req.RiskAssessmentMode,
		RetirementYears:    req.RetirementYears,
		ObligationsAmount:  req.ObligationsAmount,
	})
	if err != nil {
		respondServiceError(w, "failed to update profile", err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}
