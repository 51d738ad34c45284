package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/api/request"
	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/service"
	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/validation"
)

// SettingsHandler handles provider settings HTTP requests.
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler with the provided service dependency.
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
	}
}

// UpdateProvider handles PUT requests to store a new market data provider
// API key. The key is encrypted at rest and takes effect on the next
// outbound provider request.
//
// Endpoint: PUT /api/settings/provider
// Response: 204 No Content
// Error: 400 Bad Request when the key is blank
func (h *SettingsHandler) UpdateProvider(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateProviderSettingsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.APIKey) == "" {
		respondServiceError(w, "validation failed", &validation.Error{
			Fields: map[string]string{"apiKey": "apiKey is required"},
		})
		return
	}

	if err := h.settingsService.SaveAPIKey(req.APIKey, time.Now()); err != nil {
		respondServiceError(w, "failed to store provider settings", err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
