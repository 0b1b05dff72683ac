package inmemory

import (
	"context"
	"sync"

	"github.com/zerobond-network/zerobond-daemon/internal/core/domain"
)

// MarketRepositoryImpl represents an in memory storage for markets.
type MarketRepositoryImpl struct {
	markets map[string]*domain.Market

	lock *sync.RWMutex
}

// NewMarketRepositoryImpl returns a new empty MarketRepositoryImpl.
func NewMarketRepositoryImpl() *MarketRepositoryImpl {
	return &MarketRepositoryImpl{
		markets: map[string]*domain.Market{},
		lock:    &sync.RWMutex{},
	}
}

func (r *MarketRepositoryImpl) AddMarket(
	_ context.Context, market *domain.Market,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.markets[market.Key()]; ok {
		return domain.ErrMarketAlreadyExists
	}

	r.markets[market.Key()] = market.Clone()
	return nil
}

func (r *MarketRepositoryImpl) GetMarket(
	_ context.Context, underlying string, maturity int64,
) (*domain.Market, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return r.getMarket(domain.MarketKey(underlying, maturity))
}

func (r *MarketRepositoryImpl) GetAllMarkets(
	_ context.Context,
) ([]domain.Market, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	markets := make([]domain.Market, 0, len(r.markets))
	for _, mkt := range r.markets {
		markets = append(markets, *mkt.Clone())
	}
	return markets, nil
}

func (r *MarketRepositoryImpl) UpdateMarket(
	_ context.Context, underlying string, maturity int64,
	updateFn func(m *domain.Market) (*domain.Market, error),
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	currentMarket, err := r.getMarket(domain.MarketKey(underlying, maturity))
	if err != nil {
		return err
	}

	updatedMarket, err := updateFn(currentMarket)
	if err != nil {
		return err
	}

	r.markets[updatedMarket.Key()] = updatedMarket
	return nil
}

func (r *MarketRepositoryImpl) getMarket(key string) (*domain.Market, error) {
	currentMarket, ok := r.markets[key]
	if !ok {
		return nil, domain.ErrMarketNotFound
	}
	return currentMarket.Clone(), nil
}
