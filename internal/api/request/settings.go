package request

// UpdateProviderSettingsRequest carries a new market data provider API key.
// The key is encrypted before it is stored.
type UpdateProviderSettingsRequest struct {
	APIKey string `json:"apiKey"`
}
