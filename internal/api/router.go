package api

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/api/handlers"
	custommiddleware "github.com/avandelft/Portfolio-Analyzer-Backend/internal/api/middleware"
	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/config"
	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/service"
)

// Services bundles the service dependencies the router wires into handlers.
type Services struct {
	Profile    *service.ProfileService
	Holdings   *service.HoldingService
	Imports    *service.ImportService
	Analysis   *service.AnalysisService
	Transcript *service.TranscriptService
	Tickers    *service.TickerService
	Settings   *service.SettingsService
}

// NewRouter creates and configures the HTTP router
func NewRouter(db *sql.DB, svcs Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(db)
			r.Get("/health", systemHandler.Health)
		})

		r.Route("/users", func(r chi.Router) {
			userHandler := handlers.NewUserHandler(svcs.Profile)
			r.Post("/", userHandler.CreateUser)

			r.Route("/{userID}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUserIDMiddleware)

				r.Get("/profile", userHandler.GetProfile)
				r.Put("/profile", userHandler.UpdateProfile)

				holdingHandler := handlers.NewHoldingHandler(svcs.Holdings, svcs.Imports)
				r.Route("/holdings", func(r chi.Router) {
					r.Get("/", holdingHandler.ListHoldings)
					r.Post("/", holdingHandler.CreateHolding)
					r.Post("/import", holdingHandler.ImportHoldings)
					r.Put("/{holdingID}", holdingHandler.UpdateHolding)
					r.Delete("/{holdingID}", holdingHandler.DeleteHolding)
				})

				analysisHandler := handlers.NewAnalysisHandler(svcs.Analysis)
				r.Post("/analysis", analysisHandler.RunAnalysis)
				r.Get("/analysis", analysisHandler.GetAnalysis)

				transcriptHandler := handlers.NewTranscriptHandler(svcs.Transcript, svcs.Holdings)
				r.Post("/transcripts", transcriptHandler.FetchCoverage)
				r.Get("/transcripts", transcriptHandler.GetCoverage)
			})
		})

		r.Route("/risk", func(r chi.Router) {
			riskHandler := handlers.NewRiskHandler()
			r.Post("/classify", riskHandler.Classify)
		})

		r.Route("/tickers", func(r chi.Router) {
			tickerHandler := handlers.NewTickerHandler(svcs.Tickers)
			r.Get("/{ticker}/validate", tickerHandler.Validate)
		})

		r.Route("/settings", func(r chi.Router) {
			settingsHandler := handlers.NewSettingsHandler(svcs.Settings)
			r.Put("/provider", settingsHandler.UpdateProvider)
		})
	})

	return r
}
