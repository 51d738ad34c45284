package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/apperrors"
	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/model"
	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/repository"
	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/service"
	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/testutil"
)

// TestImportRows_CollectsAllRowErrors verifies that local validation walks
// every row before failing, reports 1-based row positions, skips fully blank
// padding rows, and aborts before any provider call or database mutation.
func TestImportRows_CollectsAllRowErrors(t *testing.T) {
	// Setup
	db := testutil.SetupTestDB(t)
	user := testutil.CreateUser(t, db)
	provider := testutil.NewMockMarketProvider()
	importService := testutil.NewTestImportService(t, db, provider)

	rows := []model.ImportRow{
		{Ticker: "AAAA", Shares: "10", Price: "100"},
		{Ticker: "", Shares: "", Price: ""},
		{Ticker: "BBBB", Shares: "abc", Price: "50"},
		{Ticker: "CCCC", Shares: "5", Price: "-1"},
		{Ticker: "", Shares: "3", Price: "20"},
	}

	// Execute
	_, err := importService.ImportRows(context.Background(), user.ID, rows, model.ImportModeMerge)

	// Assert
	var validationErr *service.ImportValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ImportValidationError, got %v", err)
	}

	expected := []string{
		"row 3: shares and price must be numeric",
		"row 4: shares and price must be positive",
		"row 5: ticker is required",
	}
	if len(validationErr.RowErrors) != len(expected) {
		t.Fatalf("expected %d row errors, got %d: %v", len(expected), len(validationErr.RowErrors), validationErr.RowErrors)
	}
	for i, want := range expected {
		if validationErr.RowErrors[i] != want {
			t.Errorf("row error %d: expected %q, got %q", i, want, validationErr.RowErrors[i])
		}
	}

	if provider.QuoteCalls != 0 {
		t.Errorf("expected no provider calls before validation passes, got %d", provider.QuoteCalls)
	}
	holdings, err := repository.NewHoldingRepository(db).ListByUser(user.ID)
	if err != nil {
		t.Fatalf("failed to list holdings: %v", err)
	}
	if len(holdings) != 0 {
		t.Errorf("expected no holdings after aborted import, got %d", len(holdings))
	}
}

// TestImportRows_InvalidTickerAborts verifies that the remote pre-flight
// stops the import at the first unresolvable ticker and that nothing is
// committed, not even the rows whose tickers passed.
func TestImportRows_InvalidTickerAborts(t *testing.T) {
	// Setup
	db := testutil.SetupTestDB(t)
	user := testutil.CreateUser(t, db)
	provider := testutil.NewMockMarketProvider().
		WithQuote("GOOD", 50)
	importService := testutil.NewTestImportService(t, db, provider)

	rows := []model.ImportRow{
		{Ticker: "GOOD", Shares: "10", Price: "100"},
		{Ticker: "BADX", Shares: "5", Price: "20"},
	}

	// Execute
	_, err := importService.ImportRows(context.Background(), user.ID, rows, model.ImportModeMerge)

	// Assert
	var tickerErr *service.InvalidTickerError
	if !errors.As(err, &tickerErr) {
		t.Fatalf("expected InvalidTickerError, got %v", err)
	}
	if tickerErr.Ticker != "BADX" {
		t.Errorf("expected failing ticker BADX, got %s", tickerErr.Ticker)
	}
	if !errors.Is(err, apperrors.ErrInvalidTicker) {
		t.Error("expected the error to unwrap to ErrInvalidTicker")
	}

	holdings, listErr := repository.NewHoldingRepository(db).ListByUser(user.ID)
	if listErr != nil {
		t.Fatalf("failed to list holdings: %v", listErr)
	}
	if len(holdings) != 0 {
		t.Errorf("expected no holdings after aborted import, got %d", len(holdings))
	}
}

// TestImportRows_MergeMode verifies that merge mode folds incoming rows into
// existing positions by weighted cost basis, creates positions for new
// tickers with their resolved asset type, and leaves untouched positions in
// place.
func TestImportRows_MergeMode(t *testing.T) {
	// Setup
	db := testutil.SetupTestDB(t)
	user := testutil.CreateUser(t, db)
	testutil.CreateHolding(t, db, user.ID, "AAAA", 10, 100)
	testutil.CreateHolding(t, db, user.ID, "KEEP", 3, 40)

	provider := testutil.NewMockMarketProvider().
		WithQuote("AAAA", 150).
		WithQuote("BBBB", 60).
		WithOverview("BBBB", "Healthcare", "Common Stock")
	importService := testutil.NewTestImportService(t, db, provider)

	rows := []model.ImportRow{
		{Ticker: "aaaa", Shares: "10", Price: "200"},
		{Ticker: "BBBB", Shares: "5", Price: "50"},
	}

	// Execute
	result, err := importService.ImportRows(context.Background(), user.ID, rows, model.ImportModeMerge)

	// Assert
	if err != nil {
		t.Fatalf("ImportRows failed: %v", err)
	}
	if result.Mode != model.ImportModeMerge {
		t.Errorf("expected mode merge, got %s", result.Mode)
	}
	if result.Imported != 2 {
		t.Errorf("expected 2 imported rows, got %d", result.Imported)
	}

	holdings, err := repository.NewHoldingRepository(db).ListByUser(user.ID)
	if err != nil {
		t.Fatalf("failed to list holdings: %v", err)
	}
	if len(holdings) != 3 {
		t.Fatalf("expected 3 holdings after merge, got %d", len(holdings))
	}

	byTicker := map[string]model.Holding{}
	for _, h := range holdings {
		byTicker[h.Ticker] = h
	}

	merged := byTicker["AAAA"]
	if merged.Shares != 20 {
		t.Errorf("expected 20 merged shares, got %f", merged.Shares)
	}
	if merged.AvgPrice != 150 {
		t.Errorf("expected weighted average price 150, got %f", merged.AvgPrice)
	}

	created := byTicker["BBBB"]
	if created.Shares != 5 || created.AvgPrice != 50 {
		t.Errorf("expected new position 5 shares at 50, got %f at %f", created.Shares, created.AvgPrice)
	}
	if created.AssetType != "Common Stock" {
		t.Errorf("expected resolved asset type Common Stock, got %q", created.AssetType)
	}

	if kept := byTicker["KEEP"]; kept.Shares != 3 || kept.AvgPrice != 40 {
		t.Errorf("expected untouched position to survive merge, got %f at %f", kept.Shares, kept.AvgPrice)
	}
}

// TestImportRows_ReplaceMode verifies that replace mode removes positions
// absent from the incoming set and that duplicate rows for one ticker fold
// into a single position.
func TestImportRows_ReplaceMode(t *testing.T) {
	// Setup
	db := testutil.SetupTestDB(t)
	user := testutil.CreateUser(t, db)
	testutil.CreateHolding(t, db, user.ID, "OLDA", 10, 100)
	testutil.CreateHolding(t, db, user.ID, "OLDB", 5, 50)

	provider := testutil.NewMockMarketProvider().
		WithQuote("CCCC", 120)
	importService := testutil.NewTestImportService(t, db, provider)

	rows := []model.ImportRow{
		{Ticker: "CCCC", Shares: "10", Price: "100"},
		{Ticker: "CCCC", Shares: "10", Price: "200"},
	}

	// Execute
	result, err := importService.ImportRows(context.Background(), user.ID, rows, model.ImportModeReplace)

	// Assert
	if err != nil {
		t.Fatalf("ImportRows failed: %v", err)
	}
	if result.Imported != 2 {
		t.Errorf("expected 2 imported rows, got %d", result.Imported)
	}

	holdings, err := repository.NewHoldingRepository(db).ListByUser(user.ID)
	if err != nil {
		t.Fatalf("failed to list holdings: %v", err)
	}
	if len(holdings) != 1 {
		t.Fatalf("expected the prior positions replaced by one, got %d", len(holdings))
	}
	if holdings[0].Ticker != "CCCC" {
		t.Errorf("expected ticker CCCC, got %s", holdings[0].Ticker)
	}
	if holdings[0].Shares != 20 || holdings[0].AvgPrice != 150 {
		t.Errorf("expected duplicate rows folded to 20 shares at 150, got %f at %f",
			holdings[0].Shares, holdings[0].AvgPrice)
	}
}

// TestImportRows_MarksAnalysisStale verifies that a committed import marks a
// previously cached analysis stale without consuming its cooldown.
func TestImportRows_MarksAnalysisStale(t *testing.T) {
	// Setup
	db := testutil.SetupTestDB(t)
	user := testutil.CreateUser(t, db)
	testutil.CreateHolding(t, db, user.ID, "AAAA", 10, 100)

	provider := testutil.NewMockMarketProvider().
		WithQuote("AAAA", 150).
		WithQuote("BBBB", 60)
	analysisService := testutil.NewTestAnalysisService(t, db, provider, testutil.DefaultAnalysisCooldown)
	importService := testutil.NewTestImportService(t, db, provider)

	start := time.Now().UTC()
	if _, err := analysisService.RunAnalysis(context.Background(), user.ID, start); err != nil {
		t.Fatalf("RunAnalysis failed: %v", err)
	}

	rows := []model.ImportRow{{Ticker: "BBBB", Shares: "5", Price: "50"}}

	// Execute
	if _, err := importService.ImportRows(context.Background(), user.ID, rows, model.ImportModeMerge); err != nil {
		t.Fatalf("ImportRows failed: %v", err)
	}

	// Assert
	status, err := analysisService.GetAnalysis(user.ID, start.Add(time.Minute))
	if err != nil {
		t.Fatalf("GetAnalysis failed: %v", err)
	}
	if !status.Stale {
		t.Error("expected cached analysis to be marked stale after import")
	}
}

// TestImportRows_EmptyBatch verifies that a batch of only blank rows commits
// nothing and reports zero imported rows.
func TestImportRows_EmptyBatch(t *testing.T) {
	// Setup
	db := testutil.SetupTestDB(t)
	user := testutil.CreateUser(t, db)
	provider := testutil.NewMockMarketProvider()
	importService := testutil.NewTestImportService(t, db, provider)

	rows := []model.ImportRow{{Ticker: "", Shares: "", Price: ""}}

	// Execute
	result, err := importService.ImportRows(context.Background(), user.ID, rows, model.ImportModeMerge)

	// Assert
	if err != nil {
		t.Fatalf("ImportRows failed: %v", err)
	}
	if result.Imported != 0 {
		t.Errorf("expected 0 imported rows, got %d", result.Imported)
	}
}
