package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/apperrors"
	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/model"
)

// TranscriptRepository provides data access methods for the
// earnings_transcripts table, the (ticker, quarter) keyed transcript cache.
type TranscriptRepository struct {
	db *sql.DB
}

// NewTranscriptRepository creates a new TranscriptRepository with the provided database connection.
func NewTranscriptRepository(db *sql.DB) *TranscriptRepository {
	return &TranscriptRepository{db: db}
}

// Get retrieves a cached transcript for a ticker and quarter.
// Returns apperrors.ErrTranscriptNotFound when nothing is cached.
func (r *TranscriptRepository) Get(ticker, quarter string) (model.TranscriptRecord, error) {
	query := `
		SELECT ticker, quarter, transcript, COALESCE(summary, ''), fetched_at
		FROM earnings_transcripts
		WHERE ticker = ? AND quarter = ?
	`

	var t model.TranscriptRecord
	err := r.db.QueryRow(query, ticker, quarter).Scan(&t.Ticker, &t.Quarter, &t.Transcript, &t.Summary, &t.FetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.TranscriptRecord{}, apperrors.ErrTranscriptNotFound
	}
	if err != nil {
		return model.TranscriptRecord{}, fmt.Errorf("failed to query transcript: %w", err)
	}

	return t, nil
}

// Save upserts a transcript record keyed by (ticker, quarter).
func (r *TranscriptRepository) Save(t model.TranscriptRecord) (model.TranscriptRecord, error) {
	query := `
		INSERT INTO earnings_transcripts (id, ticker, quarter, transcript, summary, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (ticker, quarter) DO UPDATE SET
			transcript = excluded.transcript,
			summary = excluded.summary,
			fetched_at = excluded.fetched_at
	`

	_, err := r.db.Exec(query, uuid.NewString(), t.Ticker, t.Quarter, t.Transcript, t.Summary, t.FetchedAt.UTC())
	if err != nil {
		return model.TranscriptRecord{}, fmt.Errorf("failed to upsert transcript: %w", err)
	}

	return t, nil
}
