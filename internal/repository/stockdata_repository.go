package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/apperrors"
	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/model"
)

// StockDataRepository provides data access methods for the stock_data table,
// the persistent per-ticker market data cache.
type StockDataRepository struct {
	db *sql.DB
}

// NewStockDataRepository creates a new StockDataRepository with the provided database connection.
func NewStockDataRepository(db *sql.DB) *StockDataRepository {
	return &StockDataRepository{db: db}
}

// Get retrieves the cached market data row for a ticker.
// Returns apperrors.ErrStockDataNotFound when the ticker has never been cached.
func (r *StockDataRepository) Get(ticker string) (model.StockData, error) {
	query := `
		SELECT ticker, current_price, COALESCE(sector, ''), COALESCE(asset_type, ''), last_updated
		FROM stock_data
		WHERE ticker = ?
	`

	var s model.StockData
	var price sql.NullFloat64
	var lastUpdated sql.NullTime
	err := r.db.QueryRow(query, ticker).Scan(&s.Ticker, &price, &s.Sector, &s.AssetType, &lastUpdated)
	if errors.Is(err, sql.ErrNoRows) {
		return model.StockData{}, apperrors.ErrStockDataNotFound
	}
	if err != nil {
		return model.StockData{}, fmt.Errorf("failed to query stock data: %w", err)
	}

	s.CurrentPrice = floatPtr(price)
	if lastUpdated.Valid {
		s.LastUpdated = lastUpdated.Time.UTC()
	}

	return s, nil
}

// ListTickers returns every ticker with a cached row. Used by the scheduled
// refresh job to decide what to re-fetch.
func (r *StockDataRepository) ListTickers() ([]string, error) {
	rows, err := r.db.Query(`SELECT ticker FROM stock_data ORDER BY ticker`)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock data tickers: %w", err)
	}
	defer rows.Close()

	tickers := []string{}
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("failed to scan ticker: %w", err)
		}
		tickers = append(tickers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tickers: %w", err)
	}

	return tickers, nil
}

// Save upserts the cached market data row for a ticker.
func (r *StockDataRepository) Save(s model.StockData) (model.StockData, error) {
	query := `
		INSERT INTO stock_data (ticker, current_price, sector, asset_type, last_updated)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (ticker) DO UPDATE SET
			current_price = excluded.current_price,
			sector = excluded.sector,
			asset_type = excluded.asset_type,
			last_updated = excluded.last_updated
	`

	_, err := r.db.Exec(query, s.Ticker, nullFloat(s.CurrentPrice), s.Sector, s.AssetType, s.LastUpdated.UTC())
	if err != nil {
		return model.StockData{}, fmt.Errorf("failed to upsert stock data: %w", err)
	}

	return s, nil
}
