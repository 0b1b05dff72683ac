package inmemory

import (
	"context"
	"fmt"
	"sync"

	"github.com/zerobond-network/zerobond-daemon/internal/core/domain"
)

// LedgerRepositoryImpl represents an in memory storage for the ledger root
// record.
type LedgerRepositoryImpl struct {
	ledger *domain.Ledger

	lock *sync.RWMutex
}

// NewLedgerRepositoryImpl returns a new uninitialized LedgerRepositoryImpl.
func NewLedgerRepositoryImpl() *LedgerRepositoryImpl {
	return &LedgerRepositoryImpl{
		lock: &sync.RWMutex{},
	}
}

func (r *LedgerRepositoryImpl) InitLedger(
	_ context.Context, admin string,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.ledger != nil {
		return nil
	}

	ledger, err := domain.NewLedger(admin)
	if err != nil {
		return err
	}

	r.ledger = ledger
	return nil
}

func (r *LedgerRepositoryImpl) GetLedger(
	_ context.Context,
) (*domain.Ledger, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return r.getLedger()
}

func (r *LedgerRepositoryImpl) UpdateLedger(
	_ context.Context, updateFn func(l *domain.Ledger) (*domain.Ledger, error),
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	currentLedger, err := r.getLedger()
	if err != nil {
		return err
	}

	updatedLedger, err := updateFn(currentLedger)
	if err != nil {
		return err
	}

	r.ledger = updatedLedger
	return nil
}

func (r *LedgerRepositoryImpl) getLedger() (*domain.Ledger, error) {
	if r.ledger == nil {
		return nil, fmt.Errorf("ledger is not initialized")
	}

	ledger := *r.ledger
	return &ledger, nil
}
