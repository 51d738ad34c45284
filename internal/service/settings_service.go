package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fernet/fernet-go"

	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/repository"
)

// SettingsService manages the market data provider configuration. The API
// key is stored as a fernet token so the database never holds it in the
// clear; when no key has been stored, the environment-supplied key is used.
//
// It implements alphavantage.KeySource, so a key saved through the API takes
// effect on the next outbound request without a restart.
type SettingsService struct {
	settingsRepo *repository.SettingsRepository
	key          *fernet.Key
	envAPIKey    string
}

// NewSettingsService creates a new SettingsService. secret is the base64
// fernet key from configuration; envAPIKey is the environment fallback.
func NewSettingsService(settingsRepo *repository.SettingsRepository, secret, envAPIKey string) (*SettingsService, error) {
	var key *fernet.Key
	if secret != "" {
		decoded, err := fernet.DecodeKey(secret)
		if err != nil {
			return nil, fmt.Errorf("failed to decode settings fernet key: %w", err)
		}
		key = decoded
	}

	return &SettingsService{
		settingsRepo: settingsRepo,
		key:          key,
		envAPIKey:    envAPIKey,
	}, nil
}

// APIKey resolves the provider API key: the stored encrypted key when one
// exists, otherwise the environment fallback.
func (s *SettingsService) APIKey(_ context.Context) (string, error) {
	if s.key == nil {
		return s.envAPIKey, nil
	}

	token, _, err := s.settingsRepo.GetEncryptedAPIKey()
	if errors.Is(err, sql.ErrNoRows) {
		return s.envAPIKey, nil
	}
	if err != nil {
		return "", err
	}

	decrypted := fernet.VerifyAndDecrypt([]byte(token), 0, []*fernet.Key{s.key})
	if decrypted == nil {
		return "", fmt.Errorf("stored provider API key failed verification")
	}

	return string(decrypted), nil
}

// SaveAPIKey encrypts and stores a new provider API key.
func (s *SettingsService) SaveAPIKey(apiKey string, now time.Time) error {
	if s.key == nil {
		return fmt.Errorf("settings encryption key not configured")
	}

	token, err := fernet.EncryptAndSign([]byte(apiKey), s.key)
	if err != nil {
		return fmt.Errorf("failed to encrypt provider API key: %w", err)
	}

	return s.settingsRepo.SaveEncryptedAPIKey(string(token), now)
}
