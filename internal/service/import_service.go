package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/apperrors"
	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/model"
	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/repository"
)

// ImportValidationError carries the collected per-row validation failures of
// a bulk import. Validation runs through every row before reporting, so one
// bad row does not hide the rest.
type ImportValidationError struct {
	RowErrors []string
}

func (e *ImportValidationError) Error() string {
	return fmt.Sprintf("import validation failed: %s", strings.Join(e.RowErrors, "; "))
}

// InvalidTickerError names the ticker that failed the remote pre-flight.
type InvalidTickerError struct {
	Ticker string
}

func (e *InvalidTickerError) Error() string {
	return fmt.Sprintf("invalid ticker: %s", e.Ticker)
}

// Unwrap allows errors.Is checks against apperrors.ErrInvalidTicker.
func (e *InvalidTickerError) Unwrap() error {
	return apperrors.ErrInvalidTicker
}

// validatedRow is an import row after local validation and normalization.
type validatedRow struct {
	Ticker string
	Shares float64
	Price  float64
}

// ImportService reconciles a batch of holding rows into a user's position
// set: local row validation, remote ticker pre-flight, then one atomic
// merge or replace commit.
type ImportService struct {
	db          *sql.DB
	holdingRepo *repository.HoldingRepository
	tickers     *TickerService
	marketData  *MarketDataService
	analysis    *AnalysisService
}

// NewImportService creates a new ImportService with the provided dependencies.
func NewImportService(
	db *sql.DB,
	holdingRepo *repository.HoldingRepository,
	tickers *TickerService,
	marketData *MarketDataService,
	analysis *AnalysisService,
) *ImportService {
	return &ImportService{
		db:          db,
		holdingRepo: holdingRepo,
		tickers:     tickers,
		marketData:  marketData,
		analysis:    analysis,
	}
}

// ImportRows validates and commits a batch of holding rows.
//
// Rows whose three fields are all blank are skipped silently. Every other
// row must carry a ticker and parseable positive numbers; failures are
// collected per row and, if any exist, the whole import aborts before any
// network call with an ImportValidationError listing all of them.
//
// Tickers of the valid set are then deduplicated and validated remotely;
// the first invalid one aborts the import with an InvalidTickerError and no
// mutation is performed.
//
// The commit itself runs in a single transaction. Merge mode folds rows
// into existing positions by weighted cost basis; replace mode removes
// prior positions absent from the set. A committed import marks any cached
// analysis stale.
func (s *ImportService) ImportRows(ctx context.Context, userID string, rows []model.ImportRow, mode model.ImportMode) (model.ImportResult, error) {
	validated, rowErrors := validateRows(rows)
	if len(rowErrors) > 0 {
		return model.ImportResult{}, &ImportValidationError{RowErrors: rowErrors}
	}

	// Pre-flight runs once per distinct ticker; asset types are resolved
	// here too so the commit transaction stays free of network calls.
	assetTypes := map[string]string{}
	for _, row := range validated {
		if _, done := assetTypes[row.Ticker]; done {
			continue
		}
		if err := s.tickers.Validate(ctx, row.Ticker); err != nil {
			if errors.Is(err, apperrors.ErrInvalidTicker) {
				return model.ImportResult{}, &InvalidTickerError{Ticker: row.Ticker}
			}
			return model.ImportResult{}, err
		}

		assetType, err := s.marketData.GetAssetType(ctx, row.Ticker)
		if err != nil {
			log.Printf("asset type lookup failed for %s: %v", row.Ticker, err)
			assetType = ""
		}
		assetTypes[row.Ticker] = assetType
	}

	if err := s.commit(ctx, userID, validated, assetTypes, mode); err != nil {
		return model.ImportResult{}, err
	}

	if err := s.analysis.MarkStale(userID, time.Now().UTC()); err != nil {
		log.Printf("failed to mark analysis stale after import for user %s: %v", userID, err)
	}

	return model.ImportResult{Mode: mode, Imported: len(validated)}, nil
}

// commit applies the validated rows atomically.
func (s *ImportService) commit(ctx context.Context, userID string, rows []validatedRow, assetTypes map[string]string, mode model.ImportMode) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin import transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	repo := s.holdingRepo.WithTx(tx)

	if mode == model.ImportModeReplace {
		if err := repo.DeleteAllByUser(userID); err != nil {
			return err
		}
	}

	for _, row := range rows {
		existing, err := repo.GetByTicker(userID, row.Ticker)
		if err == nil {
			merged, mergeErr := MergePosition(existing, row.Shares, row.Price)
			if mergeErr != nil {
				return mergeErr
			}
			if _, err := repo.Update(merged); err != nil {
				return err
			}
			continue
		}
		if !errors.Is(err, apperrors.ErrHoldingNotFound) {
			return err
		}

		if _, err := repo.Create(model.Holding{
			ID:        uuid.NewString(),
			UserID:    userID,
			Ticker:    row.Ticker,
			Shares:    row.Shares,
			AvgPrice:  row.Price,
			AssetType: assetTypes[row.Ticker],
		}); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import transaction: %w", err)
	}

	return nil
}

// validateRows checks every row and returns the valid set alongside the
// collected error messages. Row numbers in messages are 1-based positions in
// the submitted batch.
func validateRows(rows []model.ImportRow) ([]validatedRow, []string) {
	validated := []validatedRow{}
	rowErrors := []string{}

	for i, row := range rows {
		ticker := NormalizeTicker(row.Ticker)
		sharesText := strings.TrimSpace(row.Shares)
		priceText := strings.TrimSpace(row.Price)

		// Fully blank rows are padding, not data.
		if ticker == "" && sharesText == "" && priceText == "" {
			continue
		}

		if ticker == "" {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: ticker is required", i+1))
			continue
		}

		shares, sharesErr := strconv.ParseFloat(sharesText, 64)
		price, priceErr := strconv.ParseFloat(priceText, 64)
		if sharesErr != nil || priceErr != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: shares and price must be numeric", i+1))
			continue
		}
		if shares <= 0 || price <= 0 {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: shares and price must be positive", i+1))
			continue
		}

		validated = append(validated, validatedRow{Ticker: ticker, Shares: shares, Price: price})
	}

	return validated, rowErrors
}
