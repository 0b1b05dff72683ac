package inmemorytoken

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/google/uuid"
	"github.com/zerobond-network/zerobond-daemon/internal/core/ports"
)

// Factory is an in memory bond token registry. Every market gets its own
// fungible token supporting mint and burn.
type Factory struct {
	lock   sync.RWMutex
	tokens map[string]*bondToken
}

func NewFactory() *Factory {
	return &Factory{
		tokens: map[string]*bondToken{},
	}
}

func (f *Factory) NewBondToken(
	_ context.Context, name, symbol string, decimals uint,
	maturity int64, underlying string,
) (ports.BondToken, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	token := &bondToken{
		handle:     uuid.New().String(),
		name:       name,
		symbol:     symbol,
		decimals:   decimals,
		maturity:   maturity,
		underlying: underlying,
		balances:   map[string]*big.Int{},
		supply:     new(big.Int),
	}
	f.tokens[token.handle] = token
	return token, nil
}

// RestoreBondToken re-registers a token under a handle persisted by a
// previous run, so markets stored durably keep a working token binding
// across restarts. Restoring an already known handle returns the existing
// token.
func (f *Factory) RestoreBondToken(
	_ context.Context, handle, name, symbol string, decimals uint,
	maturity int64, underlying string,
) (ports.BondToken, error) {
	if handle == "" {
		return nil, fmt.Errorf("bond token handle must not be null")
	}

	f.lock.Lock()
	defer f.lock.Unlock()

	if token, ok := f.tokens[handle]; ok {
		return token, nil
	}

	token := &bondToken{
		handle:     handle,
		name:       name,
		symbol:     symbol,
		decimals:   decimals,
		maturity:   maturity,
		underlying: underlying,
		balances:   map[string]*big.Int{},
		supply:     new(big.Int),
	}
	f.tokens[handle] = token
	return token, nil
}

func (f *Factory) GetBondToken(
	_ context.Context, handle string,
) (ports.BondToken, error) {
	f.lock.RLock()
	defer f.lock.RUnlock()

	token, ok := f.tokens[handle]
	if !ok {
		return nil, fmt.Errorf("bond token not found for handle %s", handle)
	}
	return token, nil
}

type bondToken struct {
	handle     string
	name       string
	symbol     string
	decimals   uint
	maturity   int64
	underlying string

	lock     sync.Mutex
	balances map[string]*big.Int
	supply   *big.Int
}

func (t *bondToken) Handle() string {
	return t.handle
}

func (t *bondToken) Mint(_ context.Context, to string, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return fmt.Errorf("mint amount must be positive")
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	balance := t.balanceOf(to)
	balance.Add(balance, amount)
	t.supply.Add(t.supply, amount)
	return nil
}

func (t *bondToken) Burn(_ context.Context, from string, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return fmt.Errorf("burn amount must be positive")
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	balance := t.balanceOf(from)
	if balance.Cmp(amount) < 0 {
		return fmt.Errorf(
			"insufficient %s balance for account %s", t.symbol, from,
		)
	}
	balance.Sub(balance, amount)
	t.supply.Sub(t.supply, amount)
	return nil
}

// BalanceOf returns the bond balance of an account.
func (t *bondToken) BalanceOf(account string) *big.Int {
	t.lock.Lock()
	defer t.lock.Unlock()

	return new(big.Int).Set(t.balanceOf(account))
}

// TotalSupply returns the outstanding amount of bonds.
func (t *bondToken) TotalSupply() *big.Int {
	t.lock.Lock()
	defer t.lock.Unlock()

	return new(big.Int).Set(t.supply)
}

// balanceOf must be called with the lock held.
func (t *bondToken) balanceOf(account string) *big.Int {
	balance, ok := t.balances[account]
	if !ok {
		balance = new(big.Int)
		t.balances[account] = balance
	}
	return balance
}
