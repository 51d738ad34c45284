package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/alphavantage"
	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/apperrors"
	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/model"
	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/repository"
)

// MarketDataProvider is the outbound provider boundary for quotes and
// instrument metadata. Implemented by the Alpha Vantage client and mocked in
// tests.
type MarketDataProvider interface {
	GetQuote(ctx context.Context, ticker string) (alphavantage.PriceQuote, error)
	GetOverview(ctx context.Context, ticker string) (alphavantage.Overview, error)
}

// MarketDataService serves per-ticker quotes through two cache layers: an
// in-process TTL cache for repeated lookups within a valuation cycle, and
// the stock_data table for cross-restart reuse. A quote answered by either
// layer is reported with Cached set so portfolio totals can tell fully
// cached valuations apart from fresh ones.
type MarketDataService struct {
	provider  MarketDataProvider
	stockRepo *repository.StockDataRepository
	hot       *gocache.Cache
	cacheTTL  time.Duration
}

// NewMarketDataService creates a new MarketDataService.
// cacheTTL bounds the age at which both cache layers still answer a quote.
func NewMarketDataService(provider MarketDataProvider, stockRepo *repository.StockDataRepository, cacheTTL time.Duration) *MarketDataService {
	return &MarketDataService{
		provider:  provider,
		stockRepo: stockRepo,
		hot:       gocache.New(cacheTTL, 2*cacheTTL),
		cacheTTL:  cacheTTL,
	}
}

// GetQuote resolves a live quote for a ticker, preferring the hot cache,
// then a fresh stock_data row, then the provider. Provider results are
// written back to both layers. The returned error is per-ticker; batch
// pricing converts it into a fallback quote rather than failing the batch.
func (s *MarketDataService) GetQuote(ctx context.Context, ticker string) (model.Quote, error) {
	if cached, found := s.hot.Get(ticker); found {
		quote := cached.(model.Quote)
		quote.Cached = true
		return quote, nil
	}

	record, err := s.stockRepo.Get(ticker)
	if err == nil && record.CurrentPrice != nil && s.isFresh(record.LastUpdated) {
		quote := quoteFromRecord(record)
		quote.Cached = true
		s.hot.Set(ticker, quote, gocache.DefaultExpiration)
		return quote, nil
	}
	if err != nil && !errors.Is(err, apperrors.ErrStockDataNotFound) {
		return model.Quote{}, err
	}

	priced, err := s.provider.GetQuote(ctx, ticker)
	if err != nil {
		return model.Quote{}, fmt.Errorf("failed to fetch quote for %s: %w", ticker, err)
	}

	sector := record.Sector
	assetType := record.AssetType
	if sector == "" || sector == "Unknown" || assetType == "" || assetType == "Unknown" {
		overview, overviewErr := s.provider.GetOverview(ctx, ticker)
		if overviewErr != nil {
			// Metadata is best-effort; the price is still usable.
			log.Printf("overview lookup failed for %s: %v", ticker, overviewErr)
		} else {
			sector = overview.Sector
			assetType = overview.AssetType
		}
	}
	if sector == "" {
		sector = "Unknown"
	}
	if assetType == "" {
		assetType = "Unknown"
	}

	now := time.Now().UTC()
	price := priced.Price
	if _, err := s.stockRepo.Save(model.StockData{
		Ticker:       ticker,
		CurrentPrice: &price,
		Sector:       sector,
		AssetType:    assetType,
		LastUpdated:  now,
	}); err != nil {
		return model.Quote{}, err
	}

	quote := model.Quote{
		Ticker:    ticker,
		Price:     &price,
		Sector:    sector,
		AssetType: assetType,
		Cached:    false,
	}
	s.hot.Set(ticker, quote, gocache.DefaultExpiration)
	return quote, nil
}

// ValidateTicker reports whether a ticker resolves to a real instrument.
// A cached priced row counts as valid; otherwise a provider round-trip
// decides. Returns apperrors.ErrInvalidTicker wrapped with the ticker when
// the provider cannot resolve it.
func (s *MarketDataService) ValidateTicker(ctx context.Context, ticker string) error {
	record, err := s.stockRepo.Get(ticker)
	if err == nil && record.CurrentPrice != nil {
		return nil
	}
	if err != nil && !errors.Is(err, apperrors.ErrStockDataNotFound) {
		return err
	}

	if _, err := s.GetQuote(ctx, ticker); err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrInvalidTicker, ticker)
	}
	return nil
}

// GetAssetType resolves the asset type for a ticker, fetching and caching
// overview metadata when the stored value is missing or Unknown.
func (s *MarketDataService) GetAssetType(ctx context.Context, ticker string) (string, error) {
	record, err := s.stockRepo.Get(ticker)
	if err == nil && record.AssetType != "" && record.AssetType != "Unknown" {
		return record.AssetType, nil
	}
	if err != nil && !errors.Is(err, apperrors.ErrStockDataNotFound) {
		return "", err
	}

	overview, err := s.provider.GetOverview(ctx, ticker)
	if err != nil {
		return "", fmt.Errorf("failed to fetch overview for %s: %w", ticker, err)
	}

	record.Ticker = ticker
	record.AssetType = overview.AssetType
	if record.Sector == "" || record.Sector == "Unknown" {
		record.Sector = overview.Sector
	}
	if _, err := s.stockRepo.Save(record); err != nil {
		return "", err
	}

	return overview.AssetType, nil
}

// RefreshAll re-fetches quotes for every cached ticker. Wired to the cron
// schedule; individual failures are logged and skipped so one bad ticker
// does not stall the sweep.
func (s *MarketDataService) RefreshAll(ctx context.Context) {
	tickers, err := s.stockRepo.ListTickers()
	if err != nil {
		log.Printf("quote refresh: failed to list tickers: %v", err)
		return
	}

	for _, ticker := range tickers {
		s.hot.Delete(ticker)
		if _, err := s.GetQuote(ctx, ticker); err != nil {
			log.Printf("quote refresh: %s: %v", ticker, err)
		}
	}
}

func (s *MarketDataService) isFresh(lastUpdated time.Time) bool {
	if lastUpdated.IsZero() {
		return false
	}
	return time.Since(lastUpdated) < s.cacheTTL
}

func quoteFromRecord(record model.StockData) model.Quote {
	sector := record.Sector
	if sector == "" {
		sector = "Unknown"
	}
	assetType := record.AssetType
	if assetType == "" {
		assetType = "Unknown"
	}
	return model.Quote{
		Ticker:    record.Ticker,
		Price:     record.CurrentPrice,
		Sector:    sector,
		AssetType: assetType,
	}
}
