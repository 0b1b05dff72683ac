package dbbadger

import (
	"context"
	"fmt"

	"github.com/timshannon/badgerhold/v4"
	"github.com/zerobond-network/zerobond-daemon/internal/core/domain"
)

const ledgerKey = "ledger"

type ledgerRepositoryImpl struct {
	db *DbManager
}

func newLedgerRepositoryImpl(db *DbManager) domain.LedgerRepository {
	return ledgerRepositoryImpl{db: db}
}

func (l ledgerRepositoryImpl) InitLedger(
	_ context.Context, admin string,
) error {
	ledger, err := domain.NewLedger(admin)
	if err != nil {
		return err
	}

	if err := l.db.LedgerStore.Insert(ledgerKey, ledger); err != nil {
		if err == badgerhold.ErrKeyExists {
			return nil
		}
		return err
	}
	return nil
}

func (l ledgerRepositoryImpl) GetLedger(
	_ context.Context,
) (*domain.Ledger, error) {
	return l.getLedger()
}

func (l ledgerRepositoryImpl) UpdateLedger(
	_ context.Context, updateFn func(l *domain.Ledger) (*domain.Ledger, error),
) error {
	currentLedger, err := l.getLedger()
	if err != nil {
		return err
	}

	updatedLedger, err := updateFn(currentLedger)
	if err != nil {
		return err
	}

	if err := l.db.LedgerStore.Update(ledgerKey, updatedLedger); err != nil {
		return fmt.Errorf("trying to update ledger: %w", err)
	}
	return nil
}

func (l ledgerRepositoryImpl) getLedger() (*domain.Ledger, error) {
	var ledger domain.Ledger
	if err := l.db.LedgerStore.Get(ledgerKey, &ledger); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("ledger is not initialized")
		}
		return nil, err
	}
	return &ledger, nil
}
