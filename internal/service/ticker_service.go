package service

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/apperrors"
)

// TickerService validates tickers against an optional local symbol universe
// file, falling back to a market data round-trip when no file is configured.
// The file is one uppercase symbol per line; lines that are not purely
// alphanumeric or longer than ten characters are ignored.
type TickerService struct {
	marketData   *MarketDataService
	universePath string

	mu       sync.Mutex
	universe map[string]bool
	mtime    int64
}

// NewTickerService creates a new TickerService. universePath may be empty,
// in which case every validation goes through the market data service.
func NewTickerService(marketData *MarketDataService, universePath string) *TickerService {
	return &TickerService{
		marketData:   marketData,
		universePath: universePath,
	}
}

// Validate reports whether a ticker is a known instrument.
// Returns apperrors.ErrInvalidTicker wrapped with the ticker when it is not.
func (s *TickerService) Validate(ctx context.Context, ticker string) error {
	ticker = NormalizeTicker(ticker)

	universe, err := s.loadUniverse()
	if err != nil {
		return err
	}
	if universe != nil {
		if !universe[ticker] {
			return fmt.Errorf("%w: %s", apperrors.ErrInvalidTicker, ticker)
		}
		return nil
	}

	return s.marketData.ValidateTicker(ctx, ticker)
}

// loadUniverse reads the universe file, reusing the previous load while the
// file's mtime is unchanged. Returns nil when no file is configured or the
// file does not exist.
func (s *TickerService) loadUniverse() (map[string]bool, error) {
	if s.universePath == "" {
		return nil, nil
	}

	info, err := os.Stat(s.universePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to stat ticker universe: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	mtime := info.ModTime().UnixNano()
	if s.universe != nil && s.mtime == mtime {
		return s.universe, nil
	}

	file, err := os.Open(s.universePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open ticker universe: %w", err)
	}
	defer file.Close()

	universe := map[string]bool{}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		symbol := strings.ToUpper(strings.TrimSpace(scanner.Text()))
		if symbol == "" || len(symbol) > 10 || !isAlphanumeric(symbol) {
			continue
		}
		universe[symbol] = true
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ticker universe: %w", err)
	}

	s.universe = universe
	s.mtime = mtime
	return universe, nil
}

func isAlphanumeric(s string) bool {
	for _, r := range s {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
