// Package middleware provides HTTP middleware for request validation and processing.
package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/api/response"
	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/validation"
)

// ValidateUserIDMiddleware validates that the userID URL parameter is present
// and is a valid UUID. Returns 400 Bad Request if the user ID is missing or
// invalid, so handlers behind it never see a malformed ID.
//
// Example usage in router:
//
//	r.Route("/{userID}", func(r chi.Router) {
//	    r.Use(middleware.ValidateUserIDMiddleware)
//	    r.Get("/holdings", handler.ListHoldings)
//	})
func ValidateUserIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")

		if userID == "" {
			response.RespondError(w, http.StatusBadRequest, "valid user ID is required", "")
			return
		}

		if err := validation.ValidateUUID(userID); err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid user ID format", err.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}
