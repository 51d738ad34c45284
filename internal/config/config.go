package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	CORS       CORSConfig
	MarketData MarketDataConfig
	Analysis   AnalysisConfig
	Gemini     GeminiConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// MarketDataConfig holds market data provider configuration.
// APIKey is the fallback used when no encrypted key has been stored through
// the settings endpoint. TickerUniversePath optionally points to a newline
// separated symbol file used for offline ticker validation.
type MarketDataConfig struct {
	APIKey             string
	RequestsPerMinute  int
	QuoteCacheTTL      time.Duration
	RefreshSchedule    string
	TickerUniversePath string
	FernetSecret       string
}

// AnalysisConfig holds full-analysis configuration.
type AnalysisConfig struct {
	CooldownSeconds    int
	TranscriptLookback int
}

// GeminiConfig holds optional Gemini commentary configuration.
// When APIKey is empty the template commentary builder is used instead.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/portfolio_analyzer.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost",
			},
		},
		MarketData: MarketDataConfig{
			APIKey:             getEnv("ALPHA_VANTAGE_KEY", ""),
			RequestsPerMinute:  getEnvInt("ALPHA_VANTAGE_RPM", 60),
			QuoteCacheTTL:      time.Duration(getEnvInt("QUOTE_CACHE_TTL_SECONDS", 900)) * time.Second,
			RefreshSchedule:    getEnv("QUOTE_REFRESH_SCHEDULE", "@every 30m"),
			TickerUniversePath: getEnv("TICKER_UNIVERSE_PATH", ""),
			FernetSecret:       getEnv("SETTINGS_FERNET_KEY", ""),
		},
		Analysis: AnalysisConfig{
			CooldownSeconds:    getEnvInt("ANALYSIS_COOLDOWN_SECONDS", 3600),
			TranscriptLookback: getEnvInt("TRANSCRIPT_QUARTER_LOOKBACK", 1),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
			Model:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt gets an integer environment variable or returns a default value.
// Non-numeric values fall back to the default rather than failing startup.
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
