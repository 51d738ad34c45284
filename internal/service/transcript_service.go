package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/alphavantage"
	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/apperrors"
	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/model"
	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/repository"
)

// coverageThreshold is the cumulative value share at which the coverage walk
// stops. A holding whose inclusion is evaluated once the running share has
// reached the threshold is excluded, so the selected set stays strictly
// below 70% before each admission.
const coverageThreshold = 0.70

// maxQuarterFallback caps how many earlier quarters a summary lookup may
// walk when the requested quarter has no transcript yet.
const maxQuarterFallback = 4

// excludedAssetTypes are fund-like instruments that have no earnings call of
// their own. Matched case-insensitively.
var excludedAssetTypes = map[string]bool{
	"ETF":         true,
	"MUTUAL FUND": true,
	"FUND":        true,
}

// TranscriptProvider is the outbound provider boundary for earnings-call
// transcripts. Implemented by the Alpha Vantage client and mocked in tests.
type TranscriptProvider interface {
	GetTranscript(ctx context.Context, ticker, quarter string) (alphavantage.Transcript, error)
}

// TranscriptService selects which holdings warrant earnings-call coverage
// and fetches, summarizes, and caches their transcripts.
type TranscriptService struct {
	transcriptRepo *repository.TranscriptRepository
	profileRepo    *repository.ProfileRepository
	provider       TranscriptProvider
	lookback       int
}

// NewTranscriptService creates a new TranscriptService.
// lookback is the number of earlier quarters a summary lookup may fall back
// to; it is clamped to [0, 4].
func NewTranscriptService(
	transcriptRepo *repository.TranscriptRepository,
	profileRepo *repository.ProfileRepository,
	provider TranscriptProvider,
	lookback int,
) *TranscriptService {
	if lookback < 0 {
		lookback = 0
	}
	if lookback > maxQuarterFallback {
		lookback = maxQuarterFallback
	}
	return &TranscriptService{
		transcriptRepo: transcriptRepo,
		profileRepo:    profileRepo,
		provider:       provider,
		lookback:       lookback,
	}
}

// SelectCoverage picks the tickers worth a transcript lookup: fund-like
// instruments are dropped, the rest are ordered by current value descending,
// and holdings are admitted while the already-admitted share of the filtered
// total stays under the threshold. The holding that would be evaluated at or
// past the threshold is excluded. A non-positive filtered total selects
// nothing.
func (s *TranscriptService) SelectCoverage(priced []model.PricedHolding) []string {
	eligible := make([]model.PricedHolding, 0, len(priced))
	for _, h := range priced {
		if excludedAssetTypes[strings.ToUpper(strings.TrimSpace(h.AssetType))] {
			continue
		}
		eligible = append(eligible, h)
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].CurrentValue > eligible[j].CurrentValue
	})

	var totalValue float64
	for _, h := range eligible {
		totalValue += h.CurrentValue
	}
	if totalValue <= 0 {
		return []string{}
	}

	selected := []string{}
	var running float64
	for _, h := range eligible {
		if running/totalValue >= coverageThreshold {
			break
		}
		selected = append(selected, h.Ticker)
		running += h.CurrentValue
	}

	return selected
}

// FetchCoverage fetches transcript summaries for the selected subset of a
// priced holding set, one concurrent request per ticker. Each request fails
// independently: the result map carries the successful subset and
// PartialFailure is set when at least one lookup failed. Any success is
// persisted to the user's quarter-scoped coverage cache for reuse.
func (s *TranscriptService) FetchCoverage(ctx context.Context, userID, quarter string, priced []model.PricedHolding) (model.TranscriptCoverage, error) {
	tickers := s.SelectCoverage(priced)

	summaries := make([]string, len(tickers))
	failures := make([]bool, len(tickers))

	g, gctx := errgroup.WithContext(ctx)
	for i, ticker := range tickers {
		g.Go(func() error {
			record, err := s.GetSummary(gctx, ticker, quarter)
			if err != nil {
				log.Printf("transcript lookup failed for %s %s: %v", ticker, quarter, err)
				failures[i] = true
				return nil
			}
			summaries[i] = record.Summary
			return nil
		})
	}
	// Per-ticker failures are recorded, never returned, so the batch always
	// settles in full.
	if err := g.Wait(); err != nil {
		return model.TranscriptCoverage{}, err
	}

	coverage := model.TranscriptCoverage{
		Quarter:   quarter,
		Summaries: map[string]string{},
	}
	for i, ticker := range tickers {
		if failures[i] {
			coverage.PartialFailure = true
			continue
		}
		coverage.Summaries[ticker] = summaries[i]
	}

	if len(coverage.Summaries) > 0 {
		if err := s.saveCoverage(userID, coverage); err != nil {
			return model.TranscriptCoverage{}, err
		}
	}

	return coverage, nil
}

// GetCoverage returns the user's cached coverage, if any.
func (s *TranscriptService) GetCoverage(userID string) (*model.TranscriptCoverage, error) {
	profile, err := s.profileRepo.Get(userID)
	if err != nil {
		return nil, err
	}
	if profile == nil || profile.Transcripts == nil || profile.TranscriptsQuarter == nil {
		return nil, nil
	}

	return &model.TranscriptCoverage{
		Quarter:   *profile.TranscriptsQuarter,
		Summaries: profile.Transcripts,
	}, nil
}

// GetSummary returns the transcript summary for a ticker and quarter,
// walking back through earlier quarters up to the configured lookback when
// the requested one has no usable transcript. Cached records short-circuit
// the provider.
func (s *TranscriptService) GetSummary(ctx context.Context, ticker, quarter string) (model.TranscriptRecord, error) {
	candidates := []string{quarter}
	current := quarter
	for i := 0; i < s.lookback; i++ {
		previous, err := previousQuarter(current)
		if err != nil {
			return model.TranscriptRecord{}, err
		}
		candidates = append(candidates, previous)
		current = previous
	}

	for _, candidate := range candidates {
		existing, err := s.transcriptRepo.Get(ticker, candidate)
		if err == nil && existing.Summary != "" {
			return existing, nil
		}
		if err != nil && !errors.Is(err, apperrors.ErrTranscriptNotFound) {
			return model.TranscriptRecord{}, err
		}

		transcript, err := s.provider.GetTranscript(ctx, ticker, candidate)
		if err != nil {
			return model.TranscriptRecord{}, err
		}

		text := flattenTranscript(transcript.Segments)
		if text == "" {
			continue
		}

		record := model.TranscriptRecord{
			Ticker:     ticker,
			Quarter:    candidate,
			Transcript: text,
			Summary:    SummarizeTranscript(text),
			FetchedAt:  time.Now().UTC(),
		}
		return s.transcriptRepo.Save(record)
	}

	return model.TranscriptRecord{}, fmt.Errorf("%w: %s %s", apperrors.ErrTranscriptNotFound, ticker, quarter)
}

// saveCoverage merges the coverage map into the user's profile cache.
func (s *TranscriptService) saveCoverage(userID string, coverage model.TranscriptCoverage) error {
	profile, err := s.profileRepo.Get(userID)
	if err != nil {
		return err
	}
	if profile == nil {
		profile = &model.ProfileRecord{UserID: userID}
	}

	quarter := coverage.Quarter
	profile.Transcripts = coverage.Summaries
	profile.TranscriptsQuarter = &quarter
	return s.profileRepo.Save(*profile)
}

// previousQuarter steps a quarter label such as "2024Q1" back by one.
func previousQuarter(quarter string) (string, error) {
	parts := strings.SplitN(quarter, "Q", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid quarter format: %q", quarter)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return "", fmt.Errorf("invalid quarter year: %q", quarter)
	}
	num, err := strconv.Atoi(parts[1])
	if err != nil || num < 1 || num > 4 {
		return "", fmt.Errorf("invalid quarter number: %q", quarter)
	}

	if num == 1 {
		return fmt.Sprintf("%dQ4", year-1), nil
	}
	return fmt.Sprintf("%dQ%d", year, num-1), nil
}
