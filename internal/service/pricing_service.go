package service

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/model"
)

// QuoteProvider resolves a single live quote. Implemented by
// MarketDataService; narrowed to an interface so pricing can be tested with
// scripted per-ticker outcomes.
type QuoteProvider interface {
	GetQuote(ctx context.Context, ticker string) (model.Quote, error)
}

// tickerResult is the settled outcome of one per-ticker quote request.
// Failures are carried as data, never as errors, so one bad ticker cannot
// abort the batch or cancel sibling requests.
type tickerResult struct {
	quote    model.Quote
	resolved bool
}

// PricingService joins a holding set with live quotes into a priced
// portfolio snapshot.
type PricingService struct {
	quotes QuoteProvider
}

// NewPricingService creates a new PricingService.
func NewPricingService(quotes QuoteProvider) *PricingService {
	return &PricingService{quotes: quotes}
}

// PriceHoldings issues one concurrent quote request per distinct ticker,
// waits for every request to settle, and joins results back onto the
// holdings by ticker identity.
//
// A failed or price-less lookup degrades that holding to a fallback entry
// (nil price, zero value and gain/loss, sector "Unknown") instead of failing
// the batch; the zeros are presentation values, not real valuations, and the
// holding still appears in the totals with a zero contribution.
//
// Totals.AllPricesCached is true only when the holding list is non-empty,
// at least one quote resolved, and every resolved quote was served from
// cache. Unresolvable tickers are not examined for the cached flag.
func (s *PricingService) PriceHoldings(ctx context.Context, holdings []model.Holding) ([]model.PricedHolding, model.PortfolioTotals, error) {
	tickers := distinctTickers(holdings)

	results := make(map[string]tickerResult, len(tickers))
	order := make([]tickerResult, len(tickers))

	g, gctx := errgroup.WithContext(ctx)
	for i, ticker := range tickers {
		g.Go(func() error {
			quote, err := s.quotes.GetQuote(gctx, ticker)
			if err != nil || quote.Price == nil {
				if err != nil {
					log.Printf("quote lookup failed for %s: %v", ticker, err)
				}
				order[i] = tickerResult{quote: fallbackQuote(ticker)}
				return nil
			}
			order[i] = tickerResult{quote: quote, resolved: true}
			return nil
		})
	}
	// Workers never return errors; Wait is the join point for the batch.
	if err := g.Wait(); err != nil {
		return nil, model.PortfolioTotals{}, err
	}

	for i, ticker := range tickers {
		results[ticker] = order[i]
	}

	priced := make([]model.PricedHolding, len(holdings))
	totals := model.PortfolioTotals{}
	resolvedCount := 0
	allResolvedCached := true

	for i, holding := range holdings {
		result := results[holding.Ticker]
		priced[i] = priceHolding(holding, result.quote)

		totals.TotalInvested += priced[i].CostBasis
		totals.TotalValue += priced[i].CurrentValue
		totals.TotalGainLoss += priced[i].GainLoss
	}

	for _, ticker := range tickers {
		result := results[ticker]
		if result.resolved {
			resolvedCount++
			if !result.quote.Cached {
				allResolvedCached = false
			}
		}
	}
	totals.AllPricesCached = len(holdings) > 0 && resolvedCount > 0 && allResolvedCached

	return priced, totals, nil
}

// priceHolding computes the derived valuation fields for one holding.
func priceHolding(holding model.Holding, quote model.Quote) model.PricedHolding {
	priced := model.PricedHolding{
		Holding:   holding,
		CostBasis: holding.Shares * holding.AvgPrice,
		Sector:    quote.Sector,
	}
	if holding.AssetType == "" && quote.AssetType != "" {
		priced.AssetType = quote.AssetType
	}

	if quote.Price == nil {
		return priced
	}

	price := *quote.Price
	priced.CurrentPrice = &price
	priced.CurrentValue = holding.Shares * price
	priced.GainLoss = priced.CurrentValue - priced.CostBasis
	if priced.CostBasis > 0 {
		priced.GainLossPct = priced.GainLoss / priced.CostBasis * 100
	}

	return priced
}

// fallbackQuote is the synthetic result standing in for a failed or
// price-less lookup.
func fallbackQuote(ticker string) model.Quote {
	return model.Quote{
		Ticker: ticker,
		Price:  nil,
		Sector: "Unknown",
		Cached: false,
	}
}

// distinctTickers returns the unique tickers of a holding set in first-seen
// order.
func distinctTickers(holdings []model.Holding) []string {
	seen := make(map[string]bool, len(holdings))
	tickers := make([]string, 0, len(holdings))
	for _, h := range holdings {
		if !seen[h.Ticker] {
			seen[h.Ticker] = true
			tickers = append(tickers, h.Ticker)
		}
	}
	return tickers
}
