package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/apperrors"
	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/model"
	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/repository"
)

// emptyPortfolioCommentary is returned for users with no holdings. An empty
// run produces no cached record and does not consume the cooldown.
const emptyPortfolioCommentary = "Add some holdings to see your portfolio analysis!"

// RateLimitedError is returned when a full analysis is requested before the
// previously declared cooldown window elapsed. The request is rejected
// locally; nothing is fetched or recomputed.
type RateLimitedError struct {
	RetryAt time.Time
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("%v, retry at %s", apperrors.ErrAnalysisRateLimited, e.RetryAt.Format(time.RFC3339))
}

// Unwrap allows errors.Is checks against apperrors.ErrAnalysisRateLimited.
func (e *RateLimitedError) Unwrap() error {
	return apperrors.ErrAnalysisRateLimited
}

// AnalysisService computes and caches the full portfolio analysis: priced
// holdings, portfolio metrics, and commentary. Recomputation is gated by a
// cooldown window declared when a record is produced; the cached record
// stays served (flagged stale after holding changes) until a new run is
// permitted and requested.
type AnalysisService struct {
	userRepo    *repository.UserRepository
	profileRepo *repository.ProfileRepository
	holdingRepo *repository.HoldingRepository
	pricing     *PricingService
	commentary  CommentaryProvider
	cooldown    time.Duration
}

// NewAnalysisService creates a new AnalysisService with the provided dependencies.
func NewAnalysisService(
	userRepo *repository.UserRepository,
	profileRepo *repository.ProfileRepository,
	holdingRepo *repository.HoldingRepository,
	pricing *PricingService,
	commentary CommentaryProvider,
	cooldown time.Duration,
) *AnalysisService {
	return &AnalysisService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		holdingRepo: holdingRepo,
		pricing:     pricing,
		commentary:  commentary,
		cooldown:    cooldown,
	}
}

// RunAnalysis performs a full analysis for a user, or rejects with a
// RateLimitedError if the cooldown from the previous run has not elapsed.
// now is passed explicitly so callers and tests share one clock reading per
// request.
func (s *AnalysisService) RunAnalysis(ctx context.Context, userID string, now time.Time) (model.AnalysisStatus, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return model.AnalysisStatus{}, err
	}

	profile, err := s.profileRepo.Get(userID)
	if err != nil {
		return model.AnalysisStatus{}, err
	}

	if remaining := cooldownRemaining(profile, now); remaining > 0 {
		return model.AnalysisStatus{}, &RateLimitedError{RetryAt: *profile.NextAnalysisAt}
	}

	holdings, err := s.holdingRepo.ListByUser(userID)
	if err != nil {
		return model.AnalysisStatus{}, err
	}

	if len(holdings) == 0 {
		record := model.AnalysisRecord{
			Commentary: emptyPortfolioCommentary,
			Metrics:    emptyMetrics(),
			Holdings:   []model.PricedHolding{},
		}
		return model.AnalysisStatus{Record: &record}, nil
	}

	priced, totals, err := s.pricing.PriceHoldings(ctx, holdings)
	if err != nil {
		return model.AnalysisStatus{}, err
	}

	metrics := computeMetrics(priced, totals.TotalValue)

	commentary, err := s.commentary.GenerateCommentary(ctx, CommentaryRequest{
		User:     user,
		Holdings: priced,
		Metrics:  metrics,
	})
	if err != nil {
		return model.AnalysisStatus{}, fmt.Errorf("failed to generate commentary: %w", err)
	}

	analyzedAt := now.UTC()
	nextAt := analyzedAt.Add(s.cooldown)

	if profile == nil {
		profile = &model.ProfileRecord{UserID: userID}
	}
	profile.PortfolioCommentary = &commentary
	profile.PortfolioMetrics = &metrics
	profile.PortfolioAnalyzedAt = &analyzedAt
	profile.NextAnalysisAt = &nextAt
	if err := s.profileRepo.Save(*profile); err != nil {
		return model.AnalysisStatus{}, err
	}

	record := model.AnalysisRecord{
		Commentary:      commentary,
		Metrics:         metrics,
		Holdings:        priced,
		TotalValue:      totals.TotalValue,
		LastAnalysisAt:  &analyzedAt,
		NextAvailableAt: &nextAt,
	}
	return model.AnalysisStatus{
		Record:                   &record,
		Stale:                    false,
		CooldownRemainingSeconds: remainingSeconds(nextAt, now),
	}, nil
}

// GetAnalysis returns the cached analysis record with its staleness and
// cooldown state. Loading a cached record does not count as a run and does
// not touch the cooldown, so a restarted session resumes where it left off.
func (s *AnalysisService) GetAnalysis(userID string, now time.Time) (model.AnalysisStatus, error) {
	profile, err := s.profileRepo.Get(userID)
	if err != nil {
		return model.AnalysisStatus{}, err
	}
	if profile == nil || profile.PortfolioCommentary == nil {
		return model.AnalysisStatus{}, nil
	}

	record := model.AnalysisRecord{
		Commentary:      *profile.PortfolioCommentary,
		LastAnalysisAt:  profile.PortfolioAnalyzedAt,
		NextAvailableAt: profile.NextAnalysisAt,
	}
	if profile.PortfolioMetrics != nil {
		record.Metrics = *profile.PortfolioMetrics
	}

	return model.AnalysisStatus{
		Record:                   &record,
		Stale:                    profile.Stale(),
		CooldownRemainingSeconds: cooldownRemaining(profile, now),
	}, nil
}

// MarkStale records that the user's holding set changed at t. The cached
// record and its cooldown are untouched; staleness is a display signal only.
func (s *AnalysisService) MarkStale(userID string, t time.Time) error {
	return s.profileRepo.TouchHoldingsChanged(userID, t)
}

// CooldownRemaining reports the seconds until the next analysis is
// permitted, floored at zero.
func (s *AnalysisService) CooldownRemaining(userID string, now time.Time) (int, error) {
	profile, err := s.profileRepo.Get(userID)
	if err != nil {
		return 0, err
	}
	return cooldownRemaining(profile, now), nil
}

func cooldownRemaining(profile *model.ProfileRecord, now time.Time) int {
	if profile == nil || profile.NextAnalysisAt == nil {
		return 0
	}
	return remainingSeconds(*profile.NextAnalysisAt, now)
}

func remainingSeconds(next time.Time, now time.Time) int {
	remaining := int(math.Floor(next.Sub(now).Seconds()))
	if remaining < 0 {
		return 0
	}
	return remaining
}

// computeMetrics derives the portfolio statistics from one priced snapshot:
// per-sector allocation, the five largest positions, the top-3 value
// concentration, and a diversification score of 100 minus that
// concentration, clamped to [0, 100].
func computeMetrics(priced []model.PricedHolding, totalValue float64) model.PortfolioMetrics {
	sectorTotals := map[string]float64{}
	for _, h := range priced {
		sector := h.Sector
		if sector == "" {
			sector = "Unknown"
		}
		sectorTotals[sector] += h.CurrentValue
	}

	allocation := make([]model.SectorSlice, 0, len(sectorTotals))
	for sector, value := range sectorTotals {
		slice := model.SectorSlice{Sector: sector, Value: value}
		if totalValue > 0 {
			slice.Pct = value / totalValue * 100
		}
		allocation = append(allocation, slice)
	}
	sort.Slice(allocation, func(i, j int) bool {
		if allocation[i].Value != allocation[j].Value {
			return allocation[i].Value > allocation[j].Value
		}
		return allocation[i].Sector < allocation[j].Sector
	})

	byValue := make([]model.PricedHolding, len(priced))
	copy(byValue, priced)
	sort.SliceStable(byValue, func(i, j int) bool {
		return byValue[i].CurrentValue > byValue[j].CurrentValue
	})

	topCount := 5
	if len(byValue) < topCount {
		topCount = len(byValue)
	}
	topHoldings := make([]model.TopHolding, topCount)
	for i := 0; i < topCount; i++ {
		topHoldings[i] = model.TopHolding{
			Ticker: byValue[i].Ticker,
			Value:  byValue[i].CurrentValue,
		}
		if totalValue > 0 {
			topHoldings[i].Pct = byValue[i].CurrentValue / totalValue * 100
		}
	}

	var top3 float64
	for i := 0; i < len(byValue) && i < 3; i++ {
		top3 += byValue[i].CurrentValue
	}
	var concentration float64
	if totalValue > 0 {
		concentration = top3 / totalValue * 100
	}

	score := 100 - concentration
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return model.PortfolioMetrics{
		SectorAllocation:     allocation,
		TopHoldings:          topHoldings,
		ConcentrationTop3Pct: concentration,
		DiversificationScore: score,
	}
}

func emptyMetrics() model.PortfolioMetrics {
	return model.PortfolioMetrics{
		SectorAllocation: []model.SectorSlice{},
		TopHoldings:      []model.TopHolding{},
	}
}
