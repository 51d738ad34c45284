package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/model"
	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/service"
)

// scriptedQuotes implements the quote provider boundary with fixed
// per-ticker outcomes, so pricing behaviour can be asserted without any
// cache or provider layer in between. Lookups arrive concurrently, so call
// counting is guarded.
type scriptedQuotes struct {
	mu     sync.Mutex
	quotes map[string]model.Quote
	errs   map[string]error
	calls  map[string]int
}

func newScriptedQuotes() *scriptedQuotes {
	return &scriptedQuotes{
		quotes: make(map[string]model.Quote),
		errs:   make(map[string]error),
		calls:  make(map[string]int),
	}
}

func (s *scriptedQuotes) add(ticker string, price float64, sector string, cached bool) *scriptedQuotes {
	p := price
	s.quotes[ticker] = model.Quote{Ticker: ticker, Price: &p, Sector: sector, Cached: cached}
	return s
}

func (s *scriptedQuotes) fail(ticker string, err error) *scriptedQuotes {
	s.errs[ticker] = err
	return s
}

func (s *scriptedQuotes) GetQuote(_ context.Context, ticker string) (model.Quote, error) {
	s.mu.Lock()
	s.calls[ticker]++
	s.mu.Unlock()
	if err, ok := s.errs[ticker]; ok {
		return model.Quote{}, err
	}
	if quote, ok := s.quotes[ticker]; ok {
		return quote, nil
	}
	return model.Quote{}, errors.New("unscripted ticker " + ticker)
}

func holding(ticker string, shares, avgPrice float64) model.Holding {
	return model.Holding{ID: ticker + "-id", Ticker: ticker, Shares: shares, AvgPrice: avgPrice}
}

// TestPricingService_PriceHoldings tests batch valuation.
//
// WHY: Pricing joins concurrent quote results back onto holdings and sums
// totals. Value and gain/loss math feeds every downstream metric, so the
// formulas are pinned against hand-computed numbers.
func TestPricingService_PriceHoldings(t *testing.T) {
	t.Run("computes values and totals", func(t *testing.T) {
		// Setup
		quotes := newScriptedQuotes().
			add("AAPL", 200, "Technology", false).
			add("JNJ", 150, "Healthcare", false)
		svc := service.NewPricingService(quotes)

		holdings := []model.Holding{
			holding("AAPL", 10, 150), // cost 1500, value 2000
			holding("JNJ", 4, 200),   // cost 800, value 600
		}

		// Execute
		priced, totals, err := svc.PriceHoldings(context.Background(), holdings)

		// Assert
		if err != nil {
			t.Fatalf("PriceHoldings() returned unexpected error: %v", err)
		}
		if len(priced) != 2 {
			t.Fatalf("Expected 2 priced holdings, got %d", len(priced))
		}

		apple := priced[0]
		if apple.CurrentPrice == nil || *apple.CurrentPrice != 200 {
			t.Errorf("Expected AAPL price 200, got %v", apple.CurrentPrice)
		}
		if apple.CurrentValue != 2000 {
			t.Errorf("Expected AAPL value 2000, got %.2f", apple.CurrentValue)
		}
		if apple.GainLoss != 500 {
			t.Errorf("Expected AAPL gain 500, got %.2f", apple.GainLoss)
		}
		if diff := apple.GainLossPct - 33.333333; diff > 0.001 || diff < -0.001 {
			t.Errorf("Expected AAPL gain pct ~33.33, got %.4f", apple.GainLossPct)
		}
		if apple.Sector != "Technology" {
			t.Errorf("Expected AAPL sector Technology, got %q", apple.Sector)
		}

		if totals.TotalInvested != 2300 {
			t.Errorf("Expected total invested 2300, got %.2f", totals.TotalInvested)
		}
		if totals.TotalValue != 2600 {
			t.Errorf("Expected total value 2600, got %.2f", totals.TotalValue)
		}
		if totals.TotalGainLoss != 300 {
			t.Errorf("Expected total gain 300, got %.2f", totals.TotalGainLoss)
		}
	})

	t.Run("failed quote degrades to fallback without failing batch", func(t *testing.T) {
		// Setup
		quotes := newScriptedQuotes().
			add("AAPL", 200, "Technology", false).
			fail("BROKEN", errors.New("provider exploded"))
		svc := service.NewPricingService(quotes)

		holdings := []model.Holding{
			holding("AAPL", 10, 150),
			holding("BROKEN", 5, 40),
		}

		// Execute
		priced, totals, err := svc.PriceHoldings(context.Background(), holdings)

		// Assert
		if err != nil {
			t.Fatalf("PriceHoldings() returned unexpected error: %v", err)
		}

		broken := priced[1]
		if broken.CurrentPrice != nil {
			t.Errorf("Expected nil price for failed lookup, got %v", *broken.CurrentPrice)
		}
		if broken.CurrentValue != 0 || broken.GainLoss != 0 || broken.GainLossPct != 0 {
			t.Errorf("Expected zero presentation values, got value=%.2f gain=%.2f pct=%.2f",
				broken.CurrentValue, broken.GainLoss, broken.GainLossPct)
		}
		if broken.Sector != "Unknown" {
			t.Errorf("Expected fallback sector Unknown, got %q", broken.Sector)
		}

		// Cost basis still counts toward invested; failed value contributes zero.
		if totals.TotalInvested != 1700 {
			t.Errorf("Expected total invested 1700, got %.2f", totals.TotalInvested)
		}
		if totals.TotalValue != 2000 {
			t.Errorf("Expected total value 2000, got %.2f", totals.TotalValue)
		}
	})

	t.Run("duplicate tickers are fetched once", func(t *testing.T) {
		// Setup
		quotes := newScriptedQuotes().add("AAPL", 200, "Technology", false)
		svc := service.NewPricingService(quotes)

		holdings := []model.Holding{
			holding("AAPL", 10, 150),
			holding("AAPL", 5, 180),
		}

		// Execute
		priced, _, err := svc.PriceHoldings(context.Background(), holdings)

		// Assert
		if err != nil {
			t.Fatalf("PriceHoldings() returned unexpected error: %v", err)
		}
		if quotes.calls["AAPL"] != 1 {
			t.Errorf("Expected 1 quote call for duplicated ticker, got %d", quotes.calls["AAPL"])
		}
		if len(priced) != 2 {
			t.Errorf("Expected both holdings priced, got %d", len(priced))
		}
	})

	t.Run("empty holding list returns empty results", func(t *testing.T) {
		// Setup
		svc := service.NewPricingService(newScriptedQuotes())

		// Execute
		priced, totals, err := svc.PriceHoldings(context.Background(), nil)

		// Assert
		if err != nil {
			t.Fatalf("PriceHoldings() returned unexpected error: %v", err)
		}
		if len(priced) != 0 {
			t.Errorf("Expected no priced holdings, got %d", len(priced))
		}
		if totals.TotalValue != 0 || totals.TotalInvested != 0 {
			t.Errorf("Expected zero totals, got %+v", totals)
		}
	})
}

// TestPricingService_AllPricesCached tests the cached-valuation flag.
//
// WHY: The flag drives the "prices may be stale" hint. It must only be set
// when the portfolio is non-empty, something actually resolved, and every
// resolved quote came from cache; unresolvable tickers are excluded from
// the judgment.
func TestPricingService_AllPricesCached(t *testing.T) {
	tests := []struct {
		name     string
		quotes   func() *scriptedQuotes
		holdings []model.Holding
		expected bool
	}{
		{
			name: "all resolved from cache",
			quotes: func() *scriptedQuotes {
				return newScriptedQuotes().
					add("AAPL", 200, "Technology", true).
					add("JNJ", 150, "Healthcare", true)
			},
			holdings: []model.Holding{holding("AAPL", 1, 1), holding("JNJ", 1, 1)},
			expected: true,
		},
		{
			name: "one fresh quote clears the flag",
			quotes: func() *scriptedQuotes {
				return newScriptedQuotes().
					add("AAPL", 200, "Technology", true).
					add("JNJ", 150, "Healthcare", false)
			},
			holdings: []model.Holding{holding("AAPL", 1, 1), holding("JNJ", 1, 1)},
			expected: false,
		},
		{
			name: "unresolved ticker does not clear the flag",
			quotes: func() *scriptedQuotes {
				return newScriptedQuotes().
					add("AAPL", 200, "Technology", true).
					fail("BROKEN", errors.New("no quote"))
			},
			holdings: []model.Holding{holding("AAPL", 1, 1), holding("BROKEN", 1, 1)},
			expected: true,
		},
		{
			name: "nothing resolved means not cached",
			quotes: func() *scriptedQuotes {
				return newScriptedQuotes().fail("BROKEN", errors.New("no quote"))
			},
			holdings: []model.Holding{holding("BROKEN", 1, 1)},
			expected: false,
		},
		{
			name:     "empty holding list is not cached",
			quotes:   newScriptedQuotes,
			holdings: nil,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := service.NewPricingService(tt.quotes())

			_, totals, err := svc.PriceHoldings(context.Background(), tt.holdings)
			if err != nil {
				t.Fatalf("PriceHoldings() returned unexpected error: %v", err)
			}

			if totals.AllPricesCached != tt.expected {
				t.Errorf("AllPricesCached = %v, want %v", totals.AllPricesCached, tt.expected)
			}
		})
	}
}
