package pricing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

const marketPriceTTL = 1 * time.Hour

// MarketPriceFetcher retrieves the full type-level market price list.
type MarketPriceFetcher interface {
	FetchMarketPrices(ctx context.Context) (map[int64]decimal.Decimal, error)
}

// Service maintains the market price cache and item appraisals, and hands out
// immutable Tables to resolution passes.
type Service struct {
	fetcher MarketPriceFetcher

	mu         sync.RWMutex
	market     map[int64]decimal.Decimal
	appraisals map[int64]decimal.Decimal
	fetchedAt  time.Time
}

// NewService creates a price service backed by the given fetcher.
func NewService(fetcher MarketPriceFetcher) *Service {
	return &Service{
		fetcher:    fetcher,
		market:     make(map[int64]decimal.Decimal),
		appraisals: make(map[int64]decimal.Decimal),
	}
}

// Refresh re-fetches the market price list when the cached one is stale.
// A fetch failure keeps the previous list; stale prices beat no prices.
func (s *Service) Refresh(ctx context.Context) error {
	s.mu.RLock()
	fresh := time.Since(s.fetchedAt) < marketPriceTTL && len(s.market) > 0
	s.mu.RUnlock()
	if fresh {
		return nil
	}

	prices, err := s.fetcher.FetchMarketPrices(ctx)
	if err != nil {
		return fmt.Errorf("fetching market prices: %w", err)
	}

	s.mu.Lock()
	s.market = prices
	s.fetchedAt = time.Now()
	s.mu.Unlock()
	return nil
}

// SetAppraisal records an item-specific price for a uniquely-rolled item.
func (s *Service) SetAppraisal(itemID int64, price decimal.Decimal) {
	s.mu.Lock()
	s.appraisals[itemID] = price
	s.mu.Unlock()
}

// Snapshot returns an immutable price table for one resolution pass.
func (s *Service) Snapshot() Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return NewTable(s.market, s.appraisals)
}
