package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/apperrors"
	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/model"
)

// HoldingRepository provides data access methods for the holdings table.
// It supports running inside an external transaction via WithTx, which the
// bulk import uses to make merge/replace atomic.
type HoldingRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewHoldingRepository creates a new HoldingRepository with the provided database connection.
func NewHoldingRepository(db *sql.DB) *HoldingRepository {
	return &HoldingRepository{db: db}
}

// WithTx returns a copy of the repository that executes against tx.
func (r *HoldingRepository) WithTx(tx *sql.Tx) *HoldingRepository {
	return &HoldingRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *HoldingRepository) getQuerier() interface {
	Query(query string, args ...any) (*sql.Rows, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	Exec(query string, args ...any) (sql.Result, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// ListByUser retrieves all holdings owned by a user, ordered by ticker.
// Returns an empty slice when the user holds nothing.
func (r *HoldingRepository) ListByUser(userID string) ([]model.Holding, error) {
	query := `
		SELECT id, user_id, ticker, shares, avg_price, COALESCE(asset_type, '')
		FROM holdings
		WHERE user_id = ?
		ORDER BY ticker
	`

	rows, err := r.getQuerier().Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query holdings: %w", err)
	}
	defer rows.Close()

	holdings := []model.Holding{}
	for rows.Next() {
		var h model.Holding
		if err := rows.Scan(&h.ID, &h.UserID, &h.Ticker, &h.Shares, &h.AvgPrice, &h.AssetType); err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}
		holdings = append(holdings, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate holdings: %w", err)
	}

	return holdings, nil
}

// GetByID retrieves a single holding owned by a user.
// Returns apperrors.ErrHoldingNotFound when no row exists.
func (r *HoldingRepository) GetByID(userID, holdingID string) (model.Holding, error) {
	query := `
		SELECT id, user_id, ticker, shares, avg_price, COALESCE(asset_type, '')
		FROM holdings
		WHERE id = ? AND user_id = ?
	`

	var h model.Holding
	err := r.getQuerier().QueryRow(query, holdingID, userID).Scan(
		&h.ID, &h.UserID, &h.Ticker, &h.Shares, &h.AvgPrice, &h.AssetType,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Holding{}, apperrors.ErrHoldingNotFound
	}
	if err != nil {
		return model.Holding{}, fmt.Errorf("failed to query holding: %w", err)
	}

	return h, nil
}

// GetByTicker retrieves a user's position in a ticker, if any.
// Returns apperrors.ErrHoldingNotFound when the user has no position.
func (r *HoldingRepository) GetByTicker(userID, ticker string) (model.Holding, error) {
	query := `
		SELECT id, user_id, ticker, shares, avg_price, COALESCE(asset_type, '')
		FROM holdings
		WHERE user_id = ? AND ticker = ?
	`

	var h model.Holding
	err := r.getQuerier().QueryRow(query, userID, ticker).Scan(
		&h.ID, &h.UserID, &h.Ticker, &h.Shares, &h.AvgPrice, &h.AssetType,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Holding{}, apperrors.ErrHoldingNotFound
	}
	if err != nil {
		return model.Holding{}, fmt.Errorf("failed to query holding by ticker: %w", err)
	}

	return h, nil
}

// Create inserts a new holding.
func (r *HoldingRepository) Create(h model.Holding) (model.Holding, error) {
	query := `
		INSERT INTO holdings (id, user_id, ticker, shares, avg_price, asset_type)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.getQuerier().Exec(query, h.ID, h.UserID, h.Ticker, h.Shares, h.AvgPrice, h.AssetType)
	if err != nil {
		return model.Holding{}, fmt.Errorf("failed to insert holding: %w", err)
	}

	return h, nil
}

// Update replaces a holding's mutable fields.
// Returns apperrors.ErrHoldingNotFound when no row was updated.
func (r *HoldingRepository) Update(h model.Holding) (model.Holding, error) {
	query := `
		UPDATE holdings
		SET ticker = ?, shares = ?, avg_price = ?, asset_type = ?
		WHERE id = ? AND user_id = ?
	`

	result, err := r.getQuerier().Exec(query, h.Ticker, h.Shares, h.AvgPrice, h.AssetType, h.ID, h.UserID)
	if err != nil {
		return model.Holding{}, fmt.Errorf("failed to update holding: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return model.Holding{}, fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return model.Holding{}, apperrors.ErrHoldingNotFound
	}

	return h, nil
}

// Delete removes a holding owned by a user.
// Returns apperrors.ErrHoldingNotFound when no row was deleted.
func (r *HoldingRepository) Delete(userID, holdingID string) error {
	result, err := r.getQuerier().Exec(`DELETE FROM holdings WHERE id = ? AND user_id = ?`, holdingID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete holding: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrHoldingNotFound
	}

	return nil
}

// DeleteAllByUser removes every holding owned by a user. Used by replace
// mode imports inside a transaction.
func (r *HoldingRepository) DeleteAllByUser(userID string) error {
	if _, err := r.getQuerier().Exec(`DELETE FROM holdings WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to delete holdings: %w", err)
	}
	return nil
}
