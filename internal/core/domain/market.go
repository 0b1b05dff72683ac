package domain

import (
	"fmt"
	"math/big"

	"github.com/zerobond-network/zerobond-daemon/pkg/bondmath"
)

// Market defines the Market entity data structure holding the debt state of
// one (underlying, maturity) pair. Monetary quantities are big integers to
// match the precision of the settlement layer.
type Market struct {
	// Underlying is the identifier of the deposited asset.
	Underlying string
	// Maturity is the unix timestamp after which bonds become redeemable
	// and new issuance is disallowed.
	Maturity int64
	// Name of the market.
	Name string
	// Symbol of the market's bond token.
	Symbol string
	// Decimals is the display precision of the underlying asset. It does
	// not rescale the issuance formula.
	Decimals uint
	// MaxDebt is the upper bound on cumulative minted debt, fixed at
	// creation.
	MaxDebt *big.Int
	// Price is the 1e18-scaled amount of debt units issued per unit of
	// underlying deposited, fixed at creation.
	Price *big.Int
	// MintedDebt is the cumulative debt issued. Monotonically
	// non-decreasing.
	MintedDebt *big.Int
	// RepaidDebt is the cumulative underlying repaid into the market,
	// in debt-token units. Monotonically non-decreasing.
	RepaidDebt *big.Int
	// RedeemedDebt is the cumulative debt redeemed back to underlying.
	// Monotonically non-decreasing.
	RedeemedDebt *big.Int
	// BondHandle references the bond token created for this market.
	BondHandle string
}

// NewMarket returns a new market with all counters at zero.
func NewMarket(
	underlying string, maturity int64, maxDebt, price *big.Int,
	decimals uint, name, symbol string,
) (*Market, error) {
	if underlying == "" {
		return nil, ErrMarketInvalidUnderlying
	}
	if maturity <= 0 {
		return nil, ErrMarketInvalidMaturity
	}
	if !bondmath.IsValidAmount(maxDebt) {
		return nil, ErrMarketInvalidMaxDebt
	}
	if !bondmath.IsValidAmount(price) {
		return nil, ErrMarketInvalidPrice
	}
	if name == "" || symbol == "" {
		return nil, ErrMarketInvalidName
	}

	return &Market{
		Underlying:   underlying,
		Maturity:     maturity,
		Name:         name,
		Symbol:       symbol,
		Decimals:     decimals,
		MaxDebt:      new(big.Int).Set(maxDebt),
		Price:        new(big.Int).Set(price),
		MintedDebt:   new(big.Int),
		RepaidDebt:   new(big.Int),
		RedeemedDebt: new(big.Int),
	}, nil
}

// MarketKey returns the canonical storage key of an (underlying, maturity)
// pair.
func MarketKey(underlying string, maturity int64) string {
	return fmt.Sprintf("%s:%d", underlying, maturity)
}

// Key returns the market's canonical storage key.
func (m *Market) Key() string {
	return MarketKey(m.Underlying, m.Maturity)
}

// IsMintable returns whether new bonds can be issued at the given time.
// Minting closes strictly after maturity, the maturity instant itself is
// still mintable.
func (m *Market) IsMintable(now int64) bool {
	return now <= m.Maturity
}

// IsRedeemable returns whether bonds can be redeemed at the given time.
func (m *Market) IsRedeemable(now int64) bool {
	return now >= m.Maturity
}

// Mint converts the deposited amount of underlying to bond units at the
// market price and accounts them as minted debt. The minted debt never
// exceeds MaxDebt.
func (m *Market) Mint(amount *big.Int, now int64) (*big.Int, error) {
	if !bondmath.IsValidAmount(amount) {
		return nil, ErrAmountOutOfRange
	}
	if !m.IsMintable(now) {
		return nil, ErrMarketMatured
	}

	minted := bondmath.BondsForDeposit(amount, m.Price)
	newMinted := new(big.Int).Add(m.MintedDebt, minted)
	if newMinted.Cmp(m.MaxDebt) > 0 {
		return nil, ErrMarketMaxDebtExceeded
	}

	m.MintedDebt = newMinted
	return minted, nil
}

// Repay accounts the given amount of underlying as repaid debt. The repaid
// debt never exceeds the minted one.
func (m *Market) Repay(amount *big.Int) error {
	if !bondmath.IsValidAmount(amount) {
		return ErrAmountOutOfRange
	}

	newRepaid := new(big.Int).Add(m.RepaidDebt, amount)
	if newRepaid.Cmp(m.MintedDebt) > 0 {
		return ErrMarketRepayExceedsMinted
	}

	m.RepaidDebt = newRepaid
	return nil
}

// Redeem accounts the given amount of bond units as redeemed debt. The
// redeemed debt never exceeds the repaid one, enforcing first-come
// first-served claims on repaid funds.
func (m *Market) Redeem(amount *big.Int, now int64) error {
	if !bondmath.IsValidAmount(amount) {
		return ErrAmountOutOfRange
	}
	if !m.IsRedeemable(now) {
		return ErrMarketNotMatured
	}

	newRedeemed := new(big.Int).Add(m.RedeemedDebt, amount)
	if newRedeemed.Cmp(m.RepaidDebt) > 0 {
		return ErrMarketRedeemExceedsRepaid
	}

	m.RedeemedDebt = newRedeemed
	return nil
}

// Clone returns a deep copy of the market, detaching all big integer
// counters from the receiver.
func (m *Market) Clone() *Market {
	c := *m
	c.MaxDebt = new(big.Int).Set(m.MaxDebt)
	c.Price = new(big.Int).Set(m.Price)
	c.MintedDebt = new(big.Int).Set(m.MintedDebt)
	c.RepaidDebt = new(big.Int).Set(m.RepaidDebt)
	c.RedeemedDebt = new(big.Int).Set(m.RedeemedDebt)
	return &c
}
