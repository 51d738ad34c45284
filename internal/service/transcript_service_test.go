package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/apperrors"
	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/model"
	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/testutil"
)

func pricedHolding(ticker string, value float64, assetType string) model.PricedHolding {
	price := value
	return model.PricedHolding{
		Holding:      model.Holding{Ticker: ticker, Shares: 1, AvgPrice: value, AssetType: assetType},
		CurrentPrice: &price,
		CurrentValue: value,
		CostBasis:    value,
	}
}

// TestTranscriptService_SelectCoverage tests the coverage selection walk.
//
// WHY: Coverage admits holdings by descending value while the running share
// stays strictly under 70%, evaluated before each admission. The boundary
// case where the next holding lands exactly on the threshold decides who
// gets an API call, so it is pinned exactly.
func TestTranscriptService_SelectCoverage(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestTranscriptService(t, db, testutil.NewMockTranscriptProvider(), 1)

	t.Run("selects largest holdings to the threshold", func(t *testing.T) {
		// 400/300/300: after A and B the share is exactly 70%, C is excluded.
		priced := []model.PricedHolding{
			pricedHolding("AAAA", 400, "Common Stock"),
			pricedHolding("BBBB", 300, "Common Stock"),
			pricedHolding("CCCC", 300, "Common Stock"),
		}

		selected := svc.SelectCoverage(priced)

		if len(selected) != 2 || selected[0] != "AAAA" || selected[1] != "BBBB" {
			t.Errorf("Expected [AAAA BBBB], got %v", selected)
		}
	})

	t.Run("orders by value regardless of input order", func(t *testing.T) {
		priced := []model.PricedHolding{
			pricedHolding("CCCC", 300, "Common Stock"),
			pricedHolding("AAAA", 400, "Common Stock"),
			pricedHolding("BBBB", 300, "Common Stock"),
		}

		selected := svc.SelectCoverage(priced)

		if len(selected) != 2 || selected[0] != "AAAA" {
			t.Errorf("Expected AAAA selected first, got %v", selected)
		}
	})

	t.Run("excludes fund-like instruments case-insensitively", func(t *testing.T) {
		priced := []model.PricedHolding{
			pricedHolding("VTI", 5000, "etf"),
			pricedHolding("VFIAX", 2000, "Mutual Fund"),
			pricedHolding("AAPL", 400, "Common Stock"),
			pricedHolding("JNJ", 100, "Common Stock"),
		}

		selected := svc.SelectCoverage(priced)

		for _, ticker := range selected {
			if ticker == "VTI" || ticker == "VFIAX" {
				t.Errorf("Fund %s must not be selected for coverage", ticker)
			}
		}
		if len(selected) == 0 || selected[0] != "AAPL" {
			t.Errorf("Expected AAPL leading the filtered selection, got %v", selected)
		}
	})

	t.Run("single holding covers everything alone", func(t *testing.T) {
		selected := svc.SelectCoverage([]model.PricedHolding{
			pricedHolding("AAPL", 1000, "Common Stock"),
		})

		if len(selected) != 1 || selected[0] != "AAPL" {
			t.Errorf("Expected [AAPL], got %v", selected)
		}
	})

	t.Run("zero filtered value selects nothing", func(t *testing.T) {
		// Unresolved quotes leave zero values behind.
		priced := []model.PricedHolding{
			pricedHolding("AAAA", 0, "Common Stock"),
			pricedHolding("BBBB", 0, "Common Stock"),
		}

		if selected := svc.SelectCoverage(priced); len(selected) != 0 {
			t.Errorf("Expected empty selection, got %v", selected)
		}
	})

	t.Run("empty input selects nothing", func(t *testing.T) {
		if selected := svc.SelectCoverage(nil); len(selected) != 0 {
			t.Errorf("Expected empty selection, got %v", selected)
		}
	})
}

// TestTranscriptService_GetSummary tests transcript lookup and summarizing.
//
// WHY: A quarter without a call must fall back to earlier quarters up to
// the configured lookback, cached records must short-circuit the provider,
// and exhausting the candidates must surface a typed not-found.
func TestTranscriptService_GetSummary(t *testing.T) {
	transcriptText := strings.Join([]string{
		"Revenue grew 15 percent year over year to 2.3 billion dollars.",
		"Operating margin expanded to 28 percent on cost discipline.",
		"We expect continued growth in our cloud segment next quarter.",
		"Thank you all for joining us today.",
	}, " ")

	t.Run("fetches, summarizes, and caches", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		provider := testutil.NewMockTranscriptProvider().
			WithTranscript("AAPL", "2025Q2", transcriptText)
		svc := testutil.NewTestTranscriptService(t, db, provider, 1)

		// Execute
		record, err := svc.GetSummary(context.Background(), "AAPL", "2025Q2")

		// Assert
		if err != nil {
			t.Fatalf("GetSummary() returned unexpected error: %v", err)
		}
		if record.Quarter != "2025Q2" {
			t.Errorf("Expected quarter 2025Q2, got %q", record.Quarter)
		}
		if record.Summary == "" {
			t.Error("Expected non-empty summary")
		}

		// Second lookup is served from the cache.
		if _, err := svc.GetSummary(context.Background(), "AAPL", "2025Q2"); err != nil {
			t.Fatalf("Cached GetSummary() failed: %v", err)
		}
		if provider.Calls != 1 {
			t.Errorf("Expected 1 provider call, got %d", provider.Calls)
		}
	})

	t.Run("falls back to the previous quarter", func(t *testing.T) {
		// Setup: no call in 2025Q1, one in 2024Q4
		db := testutil.SetupTestDB(t)
		provider := testutil.NewMockTranscriptProvider().
			WithTranscript("AAPL", "2024Q4", transcriptText)
		svc := testutil.NewTestTranscriptService(t, db, provider, 1)

		// Execute
		record, err := svc.GetSummary(context.Background(), "AAPL", "2025Q1")

		// Assert
		if err != nil {
			t.Fatalf("GetSummary() returned unexpected error: %v", err)
		}
		if record.Quarter != "2024Q4" {
			t.Errorf("Expected fallback to 2024Q4, got %q", record.Quarter)
		}
	})

	t.Run("lookback zero does not fall back", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		provider := testutil.NewMockTranscriptProvider().
			WithTranscript("AAPL", "2024Q4", transcriptText)
		svc := testutil.NewTestTranscriptService(t, db, provider, 0)

		// Execute
		_, err := svc.GetSummary(context.Background(), "AAPL", "2025Q1")

		// Assert
		if !errors.Is(err, apperrors.ErrTranscriptNotFound) {
			t.Errorf("Expected ErrTranscriptNotFound, got %v", err)
		}
	})

	t.Run("exhausted candidates return not found", func(t *testing.T) {
		// Setup: provider has nothing at all
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTranscriptService(t, db, testutil.NewMockTranscriptProvider(), 2)

		// Execute
		_, err := svc.GetSummary(context.Background(), "AAPL", "2025Q2")

		// Assert
		if !errors.Is(err, apperrors.ErrTranscriptNotFound) {
			t.Errorf("Expected ErrTranscriptNotFound, got %v", err)
		}
	})
}

// TestTranscriptService_FetchCoverage tests the concurrent coverage fetch.
//
// WHY: Each selected ticker fails independently; a failed lookup must not
// drop the successful subset, and any success must land in the user's
// coverage cache.
func TestTranscriptService_FetchCoverage(t *testing.T) {
	transcriptText := "Revenue grew 15 percent to 2.3 billion dollars. Margin expanded on strong demand."

	t.Run("partial failure keeps the successful subset", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		provider := testutil.NewMockTranscriptProvider().
			WithTranscript("AAAA", "2025Q2", transcriptText).
			WithTranscriptError("BBBB", "2025Q2", errors.New("provider exploded"))
		svc := testutil.NewTestTranscriptService(t, db, provider, 0)
		user := testutil.CreateUser(t, db)

		priced := []model.PricedHolding{
			pricedHolding("AAAA", 400, "Common Stock"),
			pricedHolding("BBBB", 300, "Common Stock"),
			pricedHolding("CCCC", 300, "Common Stock"),
		}

		// Execute
		coverage, err := svc.FetchCoverage(context.Background(), user.ID, "2025Q2", priced)

		// Assert
		if err != nil {
			t.Fatalf("FetchCoverage() returned unexpected error: %v", err)
		}
		if !coverage.PartialFailure {
			t.Error("Expected partial failure to be flagged")
		}
		if _, ok := coverage.Summaries["AAAA"]; !ok {
			t.Error("Expected successful summary for AAAA")
		}
		if _, ok := coverage.Summaries["BBBB"]; ok {
			t.Error("Failed ticker must not appear in summaries")
		}
		if _, ok := coverage.Summaries["CCCC"]; ok {
			t.Error("Unselected ticker must not appear in summaries")
		}
	})

	t.Run("full success is cached for retrieval", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		provider := testutil.NewMockTranscriptProvider().
			WithTranscript("AAAA", "2025Q2", transcriptText).
			WithTranscript("BBBB", "2025Q2", transcriptText)
		svc := testutil.NewTestTranscriptService(t, db, provider, 0)
		user := testutil.CreateUser(t, db)

		priced := []model.PricedHolding{
			pricedHolding("AAAA", 400, "Common Stock"),
			pricedHolding("BBBB", 300, "Common Stock"),
			pricedHolding("CCCC", 300, "Common Stock"),
		}

		// Execute
		coverage, err := svc.FetchCoverage(context.Background(), user.ID, "2025Q2", priced)
		if err != nil {
			t.Fatalf("FetchCoverage() returned unexpected error: %v", err)
		}
		if coverage.PartialFailure {
			t.Error("Expected no partial failure")
		}

		// Assert: cached coverage round-trips
		cached, err := svc.GetCoverage(user.ID)
		if err != nil {
			t.Fatalf("GetCoverage() returned unexpected error: %v", err)
		}
		if cached == nil {
			t.Fatal("Expected cached coverage")
		}
		if cached.Quarter != "2025Q2" {
			t.Errorf("Expected quarter 2025Q2, got %q", cached.Quarter)
		}
		if len(cached.Summaries) != 2 {
			t.Errorf("Expected 2 cached summaries, got %d", len(cached.Summaries))
		}
	})

	t.Run("no cached coverage before any fetch", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTranscriptService(t, db, testutil.NewMockTranscriptProvider(), 0)
		user := testutil.CreateUser(t, db)

		// Execute
		cached, err := svc.GetCoverage(user.ID)

		// Assert
		if err != nil {
			t.Fatalf("GetCoverage() returned unexpected error: %v", err)
		}
		if cached != nil {
			t.Errorf("Expected nil coverage, got %+v", cached)
		}
	})
}
