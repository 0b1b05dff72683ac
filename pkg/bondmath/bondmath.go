package bondmath

import (
	"math/big"

	"github.com/shopspring/decimal"
)

var (
	// PriceScale is the fixed-point scale of a market price: a price of
	// 1e18 means one bond unit issued per unit of underlying deposited.
	PriceScale = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

	// conversionScale and precisionScale implement the issuance formula
	// bonds = amount * 1e26 / price / 1e8, accurate to 8 significant
	// digits. The two divisions must stay separate and in this order,
	// collapsing them changes the truncation of the result.
	conversionScale = new(big.Int).Exp(big.NewInt(10), big.NewInt(26), nil)
	precisionScale  = new(big.Int).Exp(big.NewInt(10), big.NewInt(8), nil)

	// MaxAmount bounds every amount handled by the ledger to the 256-bit
	// range of the settlement layer.
	MaxAmount = new(big.Int).Exp(big.NewInt(2), big.NewInt(256), nil)
)

// BondsForDeposit returns the amount of bond units issued for a deposit of
// the given amount of underlying at the given 1e18-scaled price.
func BondsForDeposit(amount, price *big.Int) *big.Int {
	z := new(big.Int).Mul(amount, conversionScale)
	z.Quo(z, price)
	return z.Quo(z, precisionScale)
}

// IsValidAmount reports whether the given amount is usable by the ledger:
// strictly positive and within the 256-bit range.
func IsValidAmount(amount *big.Int) bool {
	return amount != nil && amount.Sign() > 0 && amount.Cmp(MaxAmount) < 0
}

// PriceToDecimal renders a 1e18-scaled price as a human readable decimal,
// eg. 950000000000000000 -> 0.95.
func PriceToDecimal(price *big.Int) decimal.Decimal {
	return decimal.NewFromBigInt(price, -18)
}
