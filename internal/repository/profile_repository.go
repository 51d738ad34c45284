package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/model"
)

// ProfileRepository provides data access methods for the user_profiles
// table, the per-user cache behind analysis commentary, metrics and
// transcript coverage. Rows are created lazily on first write.
type ProfileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new ProfileRepository with the provided database connection.
func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Get retrieves a user's profile cache row.
// Returns (nil, nil) when no row exists yet; a missing row is not an error
// because the row is only created once something is cached.
func (r *ProfileRepository) Get(userID string) (*model.ProfileRecord, error) {
	query := `
		SELECT user_id, profile_commentary, portfolio_commentary, portfolio_metrics,
		       portfolio_analyzed_at, next_analysis_at, transcripts, transcripts_quarter, holdings_changed_at
		FROM user_profiles
		WHERE user_id = ?
	`

	var p model.ProfileRecord
	var profileCommentary, portfolioCommentary, metricsJSON, transcriptsJSON, quarter sql.NullString
	var analyzedAt, nextAt, changedAt sql.NullTime

	err := r.db.QueryRow(query, userID).Scan(
		&p.UserID,
		&profileCommentary,
		&portfolioCommentary,
		&metricsJSON,
		&analyzedAt,
		&nextAt,
		&transcriptsJSON,
		&quarter,
		&changedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user profile: %w", err)
	}

	p.ProfileCommentary = stringPtr(profileCommentary)
	p.PortfolioCommentary = stringPtr(portfolioCommentary)
	p.TranscriptsQuarter = stringPtr(quarter)
	p.PortfolioAnalyzedAt = timePtr(analyzedAt)
	p.NextAnalysisAt = timePtr(nextAt)
	p.HoldingsChangedAt = timePtr(changedAt)

	if metricsJSON.Valid && metricsJSON.String != "" {
		var metrics model.PortfolioMetrics
		if err := json.Unmarshal([]byte(metricsJSON.String), &metrics); err != nil {
			return nil, fmt.Errorf("failed to decode cached metrics: %w", err)
		}
		p.PortfolioMetrics = &metrics
	}
	if transcriptsJSON.Valid && transcriptsJSON.String != "" {
		if err := json.Unmarshal([]byte(transcriptsJSON.String), &p.Transcripts); err != nil {
			return nil, fmt.Errorf("failed to decode cached transcripts: %w", err)
		}
	}

	return &p, nil
}

// Save upserts the full profile cache row.
func (r *ProfileRepository) Save(p model.ProfileRecord) error {
	var metricsJSON *string
	if p.PortfolioMetrics != nil {
		encoded, err := json.Marshal(p.PortfolioMetrics)
		if err != nil {
			return fmt.Errorf("failed to encode metrics: %w", err)
		}
		s := string(encoded)
		metricsJSON = &s
	}

	var transcriptsJSON *string
	if p.Transcripts != nil {
		encoded, err := json.Marshal(p.Transcripts)
		if err != nil {
			return fmt.Errorf("failed to encode transcripts: %w", err)
		}
		s := string(encoded)
		transcriptsJSON = &s
	}

	query := `
		INSERT INTO user_profiles (user_id, profile_commentary, portfolio_commentary, portfolio_metrics,
		                           portfolio_analyzed_at, next_analysis_at, transcripts, transcripts_quarter, holdings_changed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			profile_commentary = excluded.profile_commentary,
			portfolio_commentary = excluded.portfolio_commentary,
			portfolio_metrics = excluded.portfolio_metrics,
			portfolio_analyzed_at = excluded.portfolio_analyzed_at,
			next_analysis_at = excluded.next_analysis_at,
			transcripts = excluded.transcripts,
			transcripts_quarter = excluded.transcripts_quarter,
			holdings_changed_at = excluded.holdings_changed_at
	`

	_, err := r.db.Exec(query,
		p.UserID,
		nullString(p.ProfileCommentary),
		nullString(p.PortfolioCommentary),
		nullString(metricsJSON),
		nullTime(p.PortfolioAnalyzedAt),
		nullTime(p.NextAnalysisAt),
		nullString(transcriptsJSON),
		nullString(p.TranscriptsQuarter),
		nullTime(p.HoldingsChangedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert user profile: %w", err)
	}

	return nil
}

// TouchHoldingsChanged records that the user's holding set changed at t,
// creating the profile row if needed. Existing cached analysis data is left
// in place; staleness is derived by comparing timestamps.
func (r *ProfileRepository) TouchHoldingsChanged(userID string, t time.Time) error {
	query := `
		INSERT INTO user_profiles (user_id, holdings_changed_at)
		VALUES (?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			holdings_changed_at = excluded.holdings_changed_at
	`

	if _, err := r.db.Exec(query, userID, t.UTC()); err != nil {
		return fmt.Errorf("failed to touch holdings changed: %w", err)
	}

	return nil
}
