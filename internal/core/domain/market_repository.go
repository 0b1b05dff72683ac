package domain

import "context"

// MarketRepository is the abstraction for any kind of database intended to
// persist Markets.
type MarketRepository interface {
	// AddMarket adds a new market to the repository. It returns
	// ErrMarketAlreadyExists if one is already stored for the market's
	// (underlying, maturity) pair.
	AddMarket(ctx context.Context, market *Market) error
	// GetMarket returns the market with the given key pair, or
	// ErrMarketNotFound.
	GetMarket(
		ctx context.Context, underlying string, maturity int64,
	) (*Market, error)
	// GetAllMarkets returns all stored markets.
	GetAllMarkets(ctx context.Context) ([]Market, error)
	// UpdateMarket updates the state of a market. The closure function
	// lets the caller commit multiple changes to the market in a
	// transactional way.
	UpdateMarket(
		ctx context.Context, underlying string, maturity int64,
		updateFn func(m *Market) (*Market, error),
	) error
}

// LedgerRepository is the abstraction for persisting the ledger root record.
type LedgerRepository interface {
	// InitLedger stores the ledger with the given admin if none exists
	// yet. It is a no-op on an already initialized repository.
	InitLedger(ctx context.Context, admin string) error
	// GetLedger returns the ledger root record.
	GetLedger(ctx context.Context) (*Ledger, error)
	// UpdateLedger updates the ledger root record through the given
	// closure in a transactional way.
	UpdateLedger(
		ctx context.Context,
		updateFn func(l *Ledger) (*Ledger, error),
	) error
}
