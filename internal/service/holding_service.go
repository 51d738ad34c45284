package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/apperrors"
	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/model"
	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/repository"
)

// HoldingInput carries the fields for creating or editing a holding.
type HoldingInput struct {
	Ticker   string
	Shares   float64
	AvgPrice float64
}

// HoldingService handles holding CRUD and the merge of new lots into
// existing positions. Every successful mutation marks the cached analysis
// stale through the analysis service.
type HoldingService struct {
	holdingRepo *repository.HoldingRepository
	marketData  *MarketDataService
	pricing     *PricingService
	analysis    *AnalysisService
}

// NewHoldingService creates a new HoldingService with the provided dependencies.
func NewHoldingService(
	holdingRepo *repository.HoldingRepository,
	marketData *MarketDataService,
	pricing *PricingService,
	analysis *AnalysisService,
) *HoldingService {
	return &HoldingService{
		holdingRepo: holdingRepo,
		marketData:  marketData,
		pricing:     pricing,
		analysis:    analysis,
	}
}

// MergePosition combines a new lot into an existing position. The merged
// average price weights both lots by their share counts.
//
// The zero-share guard covers an invalid state rather than an expected
// input; shares are validated positive before any caller reaches this.
func MergePosition(existing model.Holding, addedShares, addedPrice float64) (model.Holding, error) {
	totalShares := existing.Shares + addedShares
	if totalShares == 0 {
		return model.Holding{}, apperrors.ErrZeroTotalShares
	}

	merged := existing
	merged.Shares = totalShares
	merged.AvgPrice = (existing.Shares*existing.AvgPrice + addedShares*addedPrice) / totalShares
	return merged, nil
}

// NormalizeTicker uppercases and trims a ticker for storage and lookups.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// List retrieves a user's holdings without pricing them.
func (s *HoldingService) List(userID string) ([]model.Holding, error) {
	return s.holdingRepo.ListByUser(userID)
}

// ListPriced retrieves a user's holdings joined with live quotes, plus the
// portfolio totals for the snapshot.
func (s *HoldingService) ListPriced(ctx context.Context, userID string) ([]model.PricedHolding, model.PortfolioTotals, error) {
	holdings, err := s.holdingRepo.ListByUser(userID)
	if err != nil {
		return nil, model.PortfolioTotals{}, err
	}
	return s.pricing.PriceHoldings(ctx, holdings)
}

// AddOrMerge creates a position for a ticker, or merges the lot into the
// user's existing position in that ticker instead of creating a duplicate.
func (s *HoldingService) AddOrMerge(ctx context.Context, userID string, input HoldingInput) (model.Holding, error) {
	ticker := NormalizeTicker(input.Ticker)

	existing, err := s.holdingRepo.GetByTicker(userID, ticker)
	if err == nil {
		merged, mergeErr := MergePosition(existing, input.Shares, input.AvgPrice)
		if mergeErr != nil {
			return model.Holding{}, mergeErr
		}
		updated, updateErr := s.holdingRepo.Update(merged)
		if updateErr != nil {
			return model.Holding{}, updateErr
		}
		s.markStale(userID)
		return updated, nil
	}
	if !errors.Is(err, apperrors.ErrHoldingNotFound) {
		return model.Holding{}, err
	}

	assetType, err := s.marketData.GetAssetType(ctx, ticker)
	if err != nil {
		// Asset type only feeds the coverage filter; a lookup failure must
		// not block adding the position.
		log.Printf("asset type lookup failed for %s: %v", ticker, err)
		assetType = ""
	}

	created, err := s.holdingRepo.Create(model.Holding{
		ID:        uuid.NewString(),
		UserID:    userID,
		Ticker:    ticker,
		Shares:    input.Shares,
		AvgPrice:  input.AvgPrice,
		AssetType: assetType,
	})
	if err != nil {
		return model.Holding{}, err
	}

	s.markStale(userID)
	return created, nil
}

// Update replaces a holding's fields.
func (s *HoldingService) Update(userID, holdingID string, input HoldingInput) (model.Holding, error) {
	existing, err := s.holdingRepo.GetByID(userID, holdingID)
	if err != nil {
		return model.Holding{}, err
	}

	if input.Ticker != "" {
		existing.Ticker = NormalizeTicker(input.Ticker)
	}
	existing.Shares = input.Shares
	existing.AvgPrice = input.AvgPrice

	updated, err := s.holdingRepo.Update(existing)
	if err != nil {
		return model.Holding{}, err
	}

	s.markStale(userID)
	return updated, nil
}

// Delete removes a holding.
func (s *HoldingService) Delete(userID, holdingID string) error {
	if err := s.holdingRepo.Delete(userID, holdingID); err != nil {
		return err
	}

	s.markStale(userID)
	return nil
}

// markStale flags the cached analysis after a successful mutation. A
// failure to record staleness is logged rather than surfaced; the mutation
// itself already committed.
func (s *HoldingService) markStale(userID string) {
	if err := s.analysis.MarkStale(userID, time.Now().UTC()); err != nil {
		log.Printf("failed to mark analysis stale for user %s: %v", userID, err)
	}
}
