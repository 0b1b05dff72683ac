package application

import "errors"

var (
	// ErrTransferFailed is returned when the asset transfer capability
	// reports a failure, eg. insufficient balance of the payer.
	ErrTransferFailed = errors.New("asset transfer failed")
	// ErrBondTokenFailed is returned when the bond token capability
	// reports a failure on mint or burn.
	ErrBondTokenFailed = errors.New("bond token operation failed")
	// ErrMarketBusy is returned when an operation on a market is attempted
	// while another one on the same market is still in progress. Recursive
	// entry from an external capability callback fails the same way.
	ErrMarketBusy = errors.New("another operation on the market is in progress")
)
