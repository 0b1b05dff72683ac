package ports

import (
	"context"
	"math/big"
)

// AssetTransfer is the capability moving units of an underlying fungible
// asset between an account and the ledger. Both methods are atomic, either
// the full amount moves or the operation fails without effects.
type AssetTransfer interface {
	// Pull moves the given amount of asset from the account into the
	// ledger.
	Pull(ctx context.Context, asset, from string, amount *big.Int) error
	// Push moves the given amount of asset from the ledger to the
	// account.
	Push(ctx context.Context, asset, to string, amount *big.Int) error
}

// BondToken is the per-market fungible token capability representing issued
// debt.
type BondToken interface {
	// Handle returns the opaque reference identifying the token.
	Handle() string
	Mint(ctx context.Context, to string, amount *big.Int) error
	Burn(ctx context.Context, from string, amount *big.Int) error
}

// BondTokenFactory creates and resolves bond tokens. A token is created
// exactly once per market at market-creation time.
type BondTokenFactory interface {
	NewBondToken(
		ctx context.Context, name, symbol string, decimals uint,
		maturity int64, underlying string,
	) (BondToken, error)
	GetBondToken(ctx context.Context, handle string) (BondToken, error)
}
