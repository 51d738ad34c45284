package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/repository"
	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/service"
)

// DefaultQuoteCacheTTL is the cache freshness window used by test services.
const DefaultQuoteCacheTTL = 15 * time.Minute

// DefaultAnalysisCooldown is the analysis cooldown used by test services.
const DefaultAnalysisCooldown = time.Hour

func NewTestMarketDataService(t *testing.T, db *sql.DB, provider service.MarketDataProvider) *service.MarketDataService {
	t.Helper()

	stockDataRepo := repository.NewStockDataRepository(db)

	return service.NewMarketDataService(provider, stockDataRepo, DefaultQuoteCacheTTL)
}

func NewTestPricingService(t *testing.T, db *sql.DB, provider service.MarketDataProvider) *service.PricingService {
	t.Helper()

	return service.NewPricingService(NewTestMarketDataService(t, db, provider))
}

func NewTestProfileService(t *testing.T, db *sql.DB) *service.ProfileService {
	t.Helper()

	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)

	return service.NewProfileService(userRepo, profileRepo)
}

func NewTestAnalysisService(t *testing.T, db *sql.DB, provider service.MarketDataProvider, cooldown time.Duration) *service.AnalysisService {
	t.Helper()

	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	holdingRepo := repository.NewHoldingRepository(db)
	pricing := NewTestPricingService(t, db, provider)

	return service.NewAnalysisService(
		userRepo,
		profileRepo,
		holdingRepo,
		pricing,
		&service.TemplateCommentaryProvider{},
		cooldown,
	)
}

func NewTestHoldingService(t *testing.T, db *sql.DB, provider service.MarketDataProvider) *service.HoldingService {
	t.Helper()

	holdingRepo := repository.NewHoldingRepository(db)
	marketData := NewTestMarketDataService(t, db, provider)
	pricing := service.NewPricingService(marketData)
	analysis := NewTestAnalysisService(t, db, provider, DefaultAnalysisCooldown)

	return service.NewHoldingService(holdingRepo, marketData, pricing, analysis)
}

func NewTestTranscriptService(t *testing.T, db *sql.DB, provider service.TranscriptProvider, lookback int) *service.TranscriptService {
	t.Helper()

	transcriptRepo := repository.NewTranscriptRepository(db)
	profileRepo := repository.NewProfileRepository(db)

	return service.NewTranscriptService(transcriptRepo, profileRepo, provider, lookback)
}

// NewTestImportService wires an import service against the given market
// data provider. Ticker validation falls back to provider lookups because
// no local symbol universe file is configured.
func NewTestImportService(t *testing.T, db *sql.DB, provider service.MarketDataProvider) *service.ImportService {
	t.Helper()

	holdingRepo := repository.NewHoldingRepository(db)
	marketData := NewTestMarketDataService(t, db, provider)
	tickers := service.NewTickerService(marketData, "")
	analysis := NewTestAnalysisService(t, db, provider, DefaultAnalysisCooldown)

	return service.NewImportService(db, holdingRepo, tickers, marketData, analysis)
}
