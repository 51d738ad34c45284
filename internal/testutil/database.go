package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite" // Test Package
)

// SetupTestDB creates an in-memory SQLite database for testing.
// The database is automatically cleaned up when the test completes.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    db := testutil.SetupTestDB(t)
//	    // db is ready to use with schema created
//	}
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// In-memory database (destroyed when connection closes)
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	// Configure SQLite for testing
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = MEMORY", // Faster for tests
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			t.Fatalf("Failed to set pragma: %v", err)
		}
	}

	// Create schema
	if err := createTestSchema(db); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	// Cleanup when test ends
	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// createTestSchema creates all database tables for testing.
// Schema is synchronized with the goose migrations.
func createTestSchema(db *sql.DB) error {
	schema := `
		-- Users table
		CREATE TABLE users (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			age INTEGER NOT NULL,
			income REAL NOT NULL,
			risk_tolerance VARCHAR(16) NOT NULL,
			risk_assessment_mode VARCHAR(8) NOT NULL DEFAULT 'manual',
			retirement_years INTEGER NOT NULL,
			obligations_amount REAL NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL
		);

		-- Holdings table
		CREATE TABLE holdings (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			user_id VARCHAR(36) NOT NULL REFERENCES users (id) ON DELETE CASCADE,
			ticker VARCHAR(10) NOT NULL,
			shares REAL NOT NULL,
			avg_price REAL NOT NULL,
			asset_type VARCHAR(20),
			UNIQUE (user_id, ticker)
		);

		CREATE INDEX idx_holdings_user_id ON holdings (user_id);

		-- Cached market data table
		CREATE TABLE stock_data (
			ticker VARCHAR(10) NOT NULL PRIMARY KEY,
			current_price REAL,
			sector VARCHAR(50),
			asset_type VARCHAR(20),
			last_updated TIMESTAMP
		);

		-- Analysis cache table
		CREATE TABLE user_profiles (
			user_id VARCHAR(36) NOT NULL PRIMARY KEY REFERENCES users (id) ON DELETE CASCADE,
			profile_commentary TEXT,
			portfolio_commentary TEXT,
			portfolio_metrics TEXT,
			portfolio_analyzed_at TIMESTAMP,
			next_analysis_at TIMESTAMP,
			transcripts TEXT,
			transcripts_quarter VARCHAR(8),
			holdings_changed_at TIMESTAMP
		);

		-- Earnings transcript cache table
		CREATE TABLE earnings_transcripts (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			ticker VARCHAR(10) NOT NULL,
			quarter VARCHAR(8) NOT NULL,
			transcript TEXT NOT NULL,
			summary TEXT,
			fetched_at TIMESTAMP NOT NULL,
			UNIQUE (ticker, quarter)
		);

		CREATE INDEX idx_earnings_transcripts_ticker ON earnings_transcripts (ticker);

		-- Provider settings table (singleton row)
		CREATE TABLE provider_settings (
			id INTEGER NOT NULL PRIMARY KEY CHECK (id = 1),
			encrypted_api_key TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL
		);
	`

	_, err := db.Exec(schema)
	return err
}
