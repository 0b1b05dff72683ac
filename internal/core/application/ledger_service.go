package application

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/zerobond-network/zerobond-daemon/internal/core/domain"
	"github.com/zerobond-network/zerobond-daemon/internal/core/ports"
)

// LedgerService defines the methods of the application layer for the market
// ledger.
type LedgerService interface {
	// CreateMarket registers a new market for an (underlying, maturity)
	// pair, instantiating its bond token. Admin only.
	CreateMarket(
		ctx context.Context, caller, underlying string, maturity int64,
		maxDebt, price *big.Int, decimals uint, name, symbol string,
	) (string, error)
	// MintBonds pulls the given amount of underlying from the caller and
	// mints the corresponding amount of bond tokens at the market price.
	MintBonds(
		ctx context.Context, caller, underlying string, maturity int64,
		amount *big.Int,
	) (*big.Int, error)
	// RepayDebt pulls the given amount of underlying from the caller into
	// the market, growing the redemption capacity.
	RepayDebt(
		ctx context.Context, caller, underlying string, maturity int64,
		amount *big.Int,
	) (*big.Int, error)
	// RedeemBonds burns the given amount of bond tokens from the caller
	// and pays out the same amount of underlying from the repaid funds.
	RedeemBonds(
		ctx context.Context, caller, underlying string, maturity int64,
		amount *big.Int,
	) (*big.Int, error)
	// TransferAdmin hands the admin role over to newAdmin. Admin only.
	TransferAdmin(ctx context.Context, caller, newAdmin string) (string, error)
	// GetAdmin returns the current admin identity.
	GetAdmin(ctx context.Context) (string, error)
	// GetMarketInfo returns the full state of a market.
	GetMarketInfo(
		ctx context.Context, underlying string, maturity int64,
	) (*MarketInfo, error)
	// ListMarkets returns the state of all registered markets.
	ListMarkets(ctx context.Context) ([]MarketInfo, error)
}

type ledgerService struct {
	repoManager ports.RepoManager
	assets      ports.AssetTransfer
	bondTokens  ports.BondTokenFactory
	pubsub      ports.SecurePubSub

	locks *marketLocker
	now   func() time.Time
}

// ServiceOption customizes the ledger service.
type ServiceOption func(*ledgerService)

// WithClock overrides the service time source.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *ledgerService) {
		s.now = now
	}
}

// NewLedgerService is the factory of the LedgerService. The pubsub service
// is optional, without it no notification is published.
func NewLedgerService(
	repoManager ports.RepoManager,
	assets ports.AssetTransfer,
	bondTokens ports.BondTokenFactory,
	pubsub ports.SecurePubSub,
	opts ...ServiceOption,
) LedgerService {
	svc := &ledgerService{
		repoManager: repoManager,
		assets:      assets,
		bondTokens:  bondTokens,
		pubsub:      pubsub,
		locks:       newMarketLocker(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (s *ledgerService) CreateMarket(
	ctx context.Context, caller, underlying string, maturity int64,
	maxDebt, price *big.Int, decimals uint, name, symbol string,
) (handle string, err error) {
	defer func() { countOperation("create_market", err) }()

	ledger, err := s.repoManager.LedgerRepository().GetLedger(ctx)
	if err != nil {
		return "", err
	}
	if !ledger.IsAdmin(caller) {
		return "", domain.ErrUnauthorized
	}

	market, err := domain.NewMarket(
		underlying, maturity, maxDebt, price, decimals, name, symbol,
	)
	if err != nil {
		return "", err
	}

	if _, err := s.repoManager.MarketRepository().GetMarket(
		ctx, underlying, maturity,
	); err == nil {
		return "", domain.ErrMarketAlreadyExists
	} else if err != domain.ErrMarketNotFound {
		return "", err
	}

	token, err := s.bondTokens.NewBondToken(
		ctx, name, symbol, decimals, maturity, underlying,
	)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrBondTokenFailed, err)
	}
	market.BondHandle = token.Handle()

	if err := s.repoManager.MarketRepository().AddMarket(ctx, market); err != nil {
		return "", err
	}

	publishMarketCreatedTopic(s.pubsub, market)
	log.Infof(
		"created market %s with max debt %s", market.Key(),
		market.MaxDebt,
	)

	return market.BondHandle, nil
}

func (s *ledgerService) MintBonds(
	ctx context.Context, caller, underlying string, maturity int64,
	amount *big.Int,
) (minted *big.Int, err error) {
	defer func() { countOperation("mint", err) }()

	key := domain.MarketKey(underlying, maturity)
	if !s.locks.tryLock(key) {
		return nil, ErrMarketBusy
	}
	defer s.locks.unlock(key)

	market, err := s.repoManager.MarketRepository().GetMarket(
		ctx, underlying, maturity,
	)
	if err != nil {
		return nil, err
	}

	// Capacity and maturity are validated before moving any funds, a
	// failure here leaves no effect to undo.
	now := s.now().Unix()
	minted, err = market.Clone().Mint(amount, now)
	if err != nil {
		return nil, err
	}

	if err := s.assets.Pull(ctx, underlying, caller, amount); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTransferFailed, err)
	}

	token, err := s.bondTokens.GetBondToken(ctx, market.BondHandle)
	if err == nil {
		err = token.Mint(ctx, caller, minted)
	}
	if err != nil {
		s.refund(ctx, underlying, caller, amount)
		return nil, fmt.Errorf("%w: %s", ErrBondTokenFailed, err)
	}

	var newMintedDebt *big.Int
	if err := s.repoManager.MarketRepository().UpdateMarket(
		ctx, underlying, maturity,
		func(m *domain.Market) (*domain.Market, error) {
			if _, err := m.Mint(amount, now); err != nil {
				return nil, err
			}
			newMintedDebt = new(big.Int).Set(m.MintedDebt)
			return m, nil
		},
	); err != nil {
		if burnErr := token.Burn(ctx, caller, minted); burnErr != nil {
			log.WithError(burnErr).Error(
				"failed to burn bonds while aborting mint",
			)
		}
		s.refund(ctx, underlying, caller, amount)
		return nil, err
	}

	publishBondMintedTopic(s.pubsub, market, minted, newMintedDebt)
	return minted, nil
}

func (s *ledgerService) RepayDebt(
	ctx context.Context, caller, underlying string, maturity int64,
	amount *big.Int,
) (repaid *big.Int, err error) {
	defer func() { countOperation("repay", err) }()

	key := domain.MarketKey(underlying, maturity)
	if !s.locks.tryLock(key) {
		return nil, ErrMarketBusy
	}
	defer s.locks.unlock(key)

	market, err := s.repoManager.MarketRepository().GetMarket(
		ctx, underlying, maturity,
	)
	if err != nil {
		return nil, err
	}

	if err := market.Clone().Repay(amount); err != nil {
		return nil, err
	}

	// Repayment funds the market: underlying moves from the repaying
	// caller into the ledger.
	if err := s.assets.Pull(ctx, underlying, caller, amount); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTransferFailed, err)
	}

	var newRepaidDebt *big.Int
	if err := s.repoManager.MarketRepository().UpdateMarket(
		ctx, underlying, maturity,
		func(m *domain.Market) (*domain.Market, error) {
			if err := m.Repay(amount); err != nil {
				return nil, err
			}
			newRepaidDebt = new(big.Int).Set(m.RepaidDebt)
			return m, nil
		},
	); err != nil {
		s.refund(ctx, underlying, caller, amount)
		return nil, err
	}

	publishBondRepaidTopic(s.pubsub, market, amount, newRepaidDebt)
	return amount, nil
}

func (s *ledgerService) RedeemBonds(
	ctx context.Context, caller, underlying string, maturity int64,
	amount *big.Int,
) (redeemed *big.Int, err error) {
	defer func() { countOperation("redeem", err) }()

	key := domain.MarketKey(underlying, maturity)
	if !s.locks.tryLock(key) {
		return nil, ErrMarketBusy
	}
	defer s.locks.unlock(key)

	market, err := s.repoManager.MarketRepository().GetMarket(
		ctx, underlying, maturity,
	)
	if err != nil {
		return nil, err
	}

	now := s.now().Unix()
	if err := market.Clone().Redeem(amount, now); err != nil {
		return nil, err
	}

	token, err := s.bondTokens.GetBondToken(ctx, market.BondHandle)
	if err == nil {
		err = token.Burn(ctx, caller, amount)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBondTokenFailed, err)
	}

	var newRedeemedDebt *big.Int
	if err := s.repoManager.MarketRepository().UpdateMarket(
		ctx, underlying, maturity,
		func(m *domain.Market) (*domain.Market, error) {
			if err := m.Redeem(amount, now); err != nil {
				return nil, err
			}
			newRedeemedDebt = new(big.Int).Set(m.RedeemedDebt)
			return m, nil
		},
	); err != nil {
		if mintErr := token.Mint(ctx, caller, amount); mintErr != nil {
			log.WithError(mintErr).Error(
				"failed to restore bonds while aborting redeem",
			)
		}
		return nil, err
	}

	if err := s.assets.Push(ctx, underlying, caller, amount); err != nil {
		// compensating rollback: undo the redeemed counter and restore
		// the burnt bonds so the failed payout leaves no net effect.
		if revertErr := s.repoManager.MarketRepository().UpdateMarket(
			ctx, underlying, maturity,
			func(m *domain.Market) (*domain.Market, error) {
				m.RedeemedDebt = new(big.Int).Sub(m.RedeemedDebt, amount)
				return m, nil
			},
		); revertErr != nil {
			log.WithError(revertErr).Error(
				"failed to revert redeemed debt while aborting redeem",
			)
		}
		if mintErr := token.Mint(ctx, caller, amount); mintErr != nil {
			log.WithError(mintErr).Error(
				"failed to restore bonds while aborting redeem",
			)
		}
		return nil, fmt.Errorf("%w: %s", ErrTransferFailed, err)
	}

	publishBondRedeemedTopic(s.pubsub, market, amount, newRedeemedDebt)
	return amount, nil
}

func (s *ledgerService) TransferAdmin(
	ctx context.Context, caller, newAdmin string,
) (admin string, err error) {
	defer func() { countOperation("transfer_admin", err) }()

	if err := s.repoManager.LedgerRepository().UpdateLedger(
		ctx, func(l *domain.Ledger) (*domain.Ledger, error) {
			if err := l.TransferAdmin(caller, newAdmin); err != nil {
				return nil, err
			}
			return l, nil
		},
	); err != nil {
		return "", err
	}

	log.Infof("admin role transferred to %s", newAdmin)
	return newAdmin, nil
}

func (s *ledgerService) GetAdmin(ctx context.Context) (string, error) {
	ledger, err := s.repoManager.LedgerRepository().GetLedger(ctx)
	if err != nil {
		return "", err
	}
	return ledger.Admin, nil
}

func (s *ledgerService) GetMarketInfo(
	ctx context.Context, underlying string, maturity int64,
) (*MarketInfo, error) {
	market, err := s.repoManager.MarketRepository().GetMarket(
		ctx, underlying, maturity,
	)
	if err != nil {
		return nil, err
	}

	info := marketInfoFromDomain(market)
	return &info, nil
}

func (s *ledgerService) ListMarkets(ctx context.Context) ([]MarketInfo, error) {
	markets, err := s.repoManager.MarketRepository().GetAllMarkets(ctx)
	if err != nil {
		return nil, err
	}

	infos := make([]MarketInfo, 0, len(markets))
	for i := range markets {
		infos = append(infos, marketInfoFromDomain(&markets[i]))
	}
	return infos, nil
}

// refund pushes back an amount pulled by an operation that later failed.
func (s *ledgerService) refund(
	ctx context.Context, asset, to string, amount *big.Int,
) {
	if err := s.assets.Push(ctx, asset, to, amount); err != nil {
		log.WithError(err).Errorf(
			"failed to refund %s of %s to %s", amount, asset, to,
		)
	}
}

// marketLocker serializes operations per market key. Lock acquisition does
// not block: a second entry on a busy key, including a reentrant callback
// from an external capability, is rejected.
type marketLocker struct {
	mtx   sync.Mutex
	locks map[string]*sync.Mutex
}

func newMarketLocker() *marketLocker {
	return &marketLocker{locks: map[string]*sync.Mutex{}}
}

func (l *marketLocker) tryLock(key string) bool {
	l.mtx.Lock()
	lock, ok := l.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[key] = lock
	}
	l.mtx.Unlock()

	return lock.TryLock()
}

func (l *marketLocker) unlock(key string) {
	l.mtx.Lock()
	lock, ok := l.locks[key]
	l.mtx.Unlock()
	if ok {
		lock.Unlock()
	}
}
