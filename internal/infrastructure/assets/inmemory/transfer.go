package inmemoryassets

import (
	"context"
	"fmt"
	"math/big"
	"sync"
)

// ledgerAccount is the internal account holding all funds deposited into
// the ledger.
const ledgerAccount = "__ledger__"

// TransferService is an in memory asset transfer capability keeping
// per-(asset, account) balances. Both Pull and Push are atomic: either the
// full amount moves or nothing does.
type TransferService struct {
	lock     sync.Mutex
	balances map[string]map[string]*big.Int
}

func NewTransferService() *TransferService {
	return &TransferService{
		balances: map[string]map[string]*big.Int{},
	}
}

func (t *TransferService) Pull(
	_ context.Context, asset, from string, amount *big.Int,
) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.move(asset, from, ledgerAccount, amount)
}

func (t *TransferService) Push(
	_ context.Context, asset, to string, amount *big.Int,
) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.move(asset, ledgerAccount, to, amount)
}

// Fund credits an account with the given amount of asset, used to seed
// balances at startup and in tests.
func (t *TransferService) Fund(asset, account string, amount *big.Int) {
	t.lock.Lock()
	defer t.lock.Unlock()

	balance := t.balanceOf(asset, account)
	balance.Add(balance, amount)
}

// BalanceOf returns the current balance of an account for an asset.
func (t *TransferService) BalanceOf(asset, account string) *big.Int {
	t.lock.Lock()
	defer t.lock.Unlock()

	return new(big.Int).Set(t.balanceOf(asset, account))
}

// LedgerBalanceOf returns the funds of an asset held by the ledger.
func (t *TransferService) LedgerBalanceOf(asset string) *big.Int {
	return t.BalanceOf(asset, ledgerAccount)
}

// move must be called with the lock held.
func (t *TransferService) move(asset, from, to string, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return fmt.Errorf("transfer amount must be positive")
	}

	fromBalance := t.balanceOf(asset, from)
	if fromBalance.Cmp(amount) < 0 {
		return fmt.Errorf(
			"insufficient balance of %s for account %s", asset, from,
		)
	}

	toBalance := t.balanceOf(asset, to)
	fromBalance.Sub(fromBalance, amount)
	toBalance.Add(toBalance, amount)
	return nil
}

// balanceOf must be called with the lock held.
func (t *TransferService) balanceOf(asset, account string) *big.Int {
	accounts, ok := t.balances[asset]
	if !ok {
		accounts = map[string]*big.Int{}
		t.balances[asset] = accounts
	}
	balance, ok := accounts[account]
	if !ok {
		balance = new(big.Int)
		accounts[account] = balance
	}
	return balance
}
