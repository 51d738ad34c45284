package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SettingsRepository provides data access methods for the provider_settings
// table. The API key is stored as a fernet token produced by the settings
// service; this layer only moves the opaque string.
type SettingsRepository struct {
	db *sql.DB
}

// NewSettingsRepository creates a new SettingsRepository with the provided database connection.
func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetEncryptedAPIKey retrieves the stored fernet token.
// Returns sql.ErrNoRows wrapped when no key has been stored.
func (r *SettingsRepository) GetEncryptedAPIKey() (string, time.Time, error) {
	var token string
	var updatedAt time.Time
	err := r.db.QueryRow(`SELECT encrypted_api_key, updated_at FROM provider_settings WHERE id = 1`).Scan(&token, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", time.Time{}, err
	}
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to query provider settings: %w", err)
	}

	return token, updatedAt.UTC(), nil
}

// SaveEncryptedAPIKey upserts the stored fernet token.
func (r *SettingsRepository) SaveEncryptedAPIKey(token string, updatedAt time.Time) error {
	query := `
		INSERT INTO provider_settings (id, encrypted_api_key, updated_at)
		VALUES (1, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			encrypted_api_key = excluded.encrypted_api_key,
			updated_at = excluded.updated_at
	`

	if _, err := r.db.Exec(query, token, updatedAt.UTC()); err != nil {
		return fmt.Errorf("failed to upsert provider settings: %w", err)
	}

	return nil
}
