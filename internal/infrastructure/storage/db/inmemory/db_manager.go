package inmemory

import (
	"github.com/zerobond-network/zerobond-daemon/internal/core/domain"
)

// DbManager is the in memory implementation of the ports.RepoManager
// interface, meant for tests and ephemeral runs.
type DbManager struct {
	marketRepository *MarketRepositoryImpl
	ledgerRepository *LedgerRepositoryImpl
}

// NewDbManager returns an empty in memory DbManager.
func NewDbManager() *DbManager {
	return &DbManager{
		marketRepository: NewMarketRepositoryImpl(),
		ledgerRepository: NewLedgerRepositoryImpl(),
	}
}

func (d *DbManager) MarketRepository() domain.MarketRepository {
	return d.marketRepository
}

func (d *DbManager) LedgerRepository() domain.LedgerRepository {
	return d.ledgerRepository
}

func (d *DbManager) Close() {}
