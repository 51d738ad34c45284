package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/alphavantage"
	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/api"
	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/config"
	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/database"
	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/gemini"
	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/repository"
	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Create repositories
	userRepo := repository.NewUserRepository(db)
	holdingRepo := repository.NewHoldingRepository(db)
	stockDataRepo := repository.NewStockDataRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	transcriptRepo := repository.NewTranscriptRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	// Create services
	settingsService, err := service.NewSettingsService(settingsRepo, cfg.MarketData.FernetSecret, cfg.MarketData.APIKey)
	if err != nil {
		log.Fatalf("Failed to create settings service: %v", err)
	}

	avClient := alphavantage.NewClient(
		settingsService,
		alphavantage.WithRateLimit(cfg.MarketData.RequestsPerMinute),
	)

	marketDataService := service.NewMarketDataService(avClient, stockDataRepo, cfg.MarketData.QuoteCacheTTL)
	pricingService := service.NewPricingService(marketDataService)
	profileService := service.NewProfileService(userRepo, profileRepo)

	commentaryProvider := commentaryProvider(cfg)
	analysisService := service.NewAnalysisService(
		userRepo,
		profileRepo,
		holdingRepo,
		pricingService,
		commentaryProvider,
		time.Duration(cfg.Analysis.CooldownSeconds)*time.Second,
	)

	holdingService := service.NewHoldingService(holdingRepo, marketDataService, pricingService, analysisService)
	tickerService := service.NewTickerService(marketDataService, cfg.MarketData.TickerUniversePath)
	importService := service.NewImportService(db, holdingRepo, tickerService, marketDataService, analysisService)
	transcriptService := service.NewTranscriptService(transcriptRepo, profileRepo, avClient, cfg.Analysis.TranscriptLookback)

	// Scheduled refresh keeps cached quotes warm so portfolio views stay
	// cache-served between provider calls.
	scheduler := cron.New()
	_, err = scheduler.AddFunc(cfg.MarketData.RefreshSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		marketDataService.RefreshAll(ctx)
	})
	if err != nil {
		log.Fatalf("Failed to schedule quote refresh: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Create router
	router := api.NewRouter(db, api.Services{
		Profile:    profileService,
		Holdings:   holdingService,
		Imports:    importService,
		Analysis:   analysisService,
		Transcript: transcriptService,
		Tickers:    tickerService,
		Settings:   settingsService,
	}, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// commentaryProvider selects the analysis commentary backend: Gemini when an
// API key is configured, the deterministic template builder otherwise.
func commentaryProvider(cfg *config.Config) service.CommentaryProvider {
	if cfg.Gemini.APIKey == "" {
		return &service.TemplateCommentaryProvider{}
	}

	client, err := gemini.NewClient(context.Background(), cfg.Gemini.APIKey, gemini.WithModel(cfg.Gemini.Model))
	if err != nil {
		log.Printf("Gemini client unavailable, using template commentary: %v", err)
		return &service.TemplateCommentaryProvider{}
	}

	log.Printf("Using Gemini commentary (%s)", cfg.Gemini.Model)
	return service.NewGeminiCommentaryProvider(client)
}
