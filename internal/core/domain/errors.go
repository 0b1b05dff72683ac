package domain

import "errors"

var (
	// ErrUnauthorized is thrown when a caller other than the current admin
	// attempts an admin-only operation.
	ErrUnauthorized = errors.New("operation is allowed only to the current admin")
	// ErrMarketAlreadyExists is thrown when creating a market for an
	// (underlying, maturity) pair already registered.
	ErrMarketAlreadyExists = errors.New("market already exists for the given underlying and maturity")
	// ErrMarketNotFound ...
	ErrMarketNotFound = errors.New("market not found for the given underlying and maturity")
	// ErrMarketMatured is thrown when minting on a market past its maturity.
	ErrMarketMatured = errors.New("market has matured, minting is closed")
	// ErrMarketNotMatured is thrown when redeeming before maturity.
	ErrMarketNotMatured = errors.New("market has not matured yet, redeeming is closed")
	// ErrMarketMaxDebtExceeded is thrown when a mint would push the minted
	// debt over the market's capacity.
	ErrMarketMaxDebtExceeded = errors.New("mint exceeds the market maximum debt")
	// ErrMarketRepayExceedsMinted is thrown when a repayment would exceed
	// the debt ever issued.
	ErrMarketRepayExceedsMinted = errors.New("repayment exceeds the minted debt")
	// ErrMarketRedeemExceedsRepaid is thrown when a redemption would exceed
	// the repaid, still unclaimed debt.
	ErrMarketRedeemExceedsRepaid = errors.New("redemption exceeds the repaid debt")
	// ErrAmountOutOfRange is thrown for amounts that are not strictly
	// positive or do not fit the 256-bit range.
	ErrAmountOutOfRange = errors.New("amount must be positive and within the 256-bit range")

	// ErrMarketInvalidUnderlying ...
	ErrMarketInvalidUnderlying = errors.New("underlying asset must not be null")
	// ErrMarketInvalidMaturity ...
	ErrMarketInvalidMaturity = errors.New("maturity must be a positive unix timestamp")
	// ErrMarketInvalidMaxDebt is thrown at creation for a null or
	// non-positive debt capacity. A market with zero capacity is not
	// representable.
	ErrMarketInvalidMaxDebt = errors.New("maximum debt must be a positive amount")
	// ErrMarketInvalidPrice ...
	ErrMarketInvalidPrice = errors.New("price must be a positive fixed-point amount")
	// ErrMarketInvalidName ...
	ErrMarketInvalidName = errors.New("market name and symbol must not be null")
	// ErrLedgerInvalidAdmin ...
	ErrLedgerInvalidAdmin = errors.New("admin identity must not be null")
)
