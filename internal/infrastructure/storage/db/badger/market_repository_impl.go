package dbbadger

import (
	"context"
	"fmt"

	"github.com/timshannon/badgerhold/v4"
	"github.com/zerobond-network/zerobond-daemon/internal/core/domain"
)

type marketRepositoryImpl struct {
	db *DbManager
}

func newMarketRepositoryImpl(db *DbManager) domain.MarketRepository {
	return marketRepositoryImpl{db: db}
}

func (m marketRepositoryImpl) AddMarket(
	_ context.Context, market *domain.Market,
) error {
	if err := m.db.MarketStore.Insert(market.Key(), market); err != nil {
		if err == badgerhold.ErrKeyExists {
			return domain.ErrMarketAlreadyExists
		}
		return err
	}
	return nil
}

func (m marketRepositoryImpl) GetMarket(
	_ context.Context, underlying string, maturity int64,
) (*domain.Market, error) {
	return m.getMarket(domain.MarketKey(underlying, maturity))
}

func (m marketRepositoryImpl) GetAllMarkets(
	_ context.Context,
) ([]domain.Market, error) {
	var markets []domain.Market
	if err := m.db.MarketStore.Find(&markets, nil); err != nil {
		return nil, err
	}
	return markets, nil
}

func (m marketRepositoryImpl) UpdateMarket(
	ctx context.Context, underlying string, maturity int64,
	updateFn func(m *domain.Market) (*domain.Market, error),
) error {
	key := domain.MarketKey(underlying, maturity)

	currentMarket, err := m.getMarket(key)
	if err != nil {
		return err
	}

	updatedMarket, err := updateFn(currentMarket)
	if err != nil {
		return err
	}

	if err := m.db.MarketStore.Update(key, updatedMarket); err != nil {
		return fmt.Errorf("trying to update market %s: %w", key, err)
	}
	return nil
}

func (m marketRepositoryImpl) getMarket(key string) (*domain.Market, error) {
	var market domain.Market
	if err := m.db.MarketStore.Get(key, &market); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrMarketNotFound
		}
		return nil, err
	}
	return &market, nil
}
