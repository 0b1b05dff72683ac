package ports

import (
	"github.com/zerobond-network/zerobond-daemon/internal/core/domain"
)

// RepoManager aggregates all the repositories of the daemon in a single
// point of access.
type RepoManager interface {
	MarketRepository() domain.MarketRepository
	LedgerRepository() domain.LedgerRepository
	// Close gracefully closes the underlying storage.
	Close()
}
