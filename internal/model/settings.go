package model

import "time"

// ProviderSettings holds the market data provider configuration stored in
// the database. The API key is encrypted at rest; this struct carries the
// decrypted value in memory only.
type ProviderSettings struct {
	APIKey    string
	UpdatedAt time.Time
}
