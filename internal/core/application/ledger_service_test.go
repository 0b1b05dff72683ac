package application_test

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zerobond-network/zerobond-daemon/internal/core/application"
	"github.com/zerobond-network/zerobond-daemon/internal/core/domain"
	inmemoryassets "github.com/zerobond-network/zerobond-daemon/internal/infrastructure/assets/inmemory"
	inmemorypubsub "github.com/zerobond-network/zerobond-daemon/internal/infrastructure/pubsub/inmemory"
	dbbadger "github.com/zerobond-network/zerobond-daemon/internal/infrastructure/storage/db/badger"
	"github.com/zerobond-network/zerobond-daemon/internal/infrastructure/storage/db/inmemory"
	inmemorytoken "github.com/zerobond-network/zerobond-daemon/internal/infrastructure/token/inmemory"
)

const (
	admin      = "issuer-1"
	lender     = "alice"
	underlying = "usd-token"
	maturity   = int64(1767225600)
)

var (
	ctx      = context.Background()
	maxDebt  = mustBig("1000000000000000000000") // 1000e18
	price    = mustBig("950000000000000000")     // 0.95
	parPrice = mustBig("1000000000000000000")
)

func mustBig(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("invalid big int literal " + s)
	}
	return v
}

// testStack bundles the service with the in memory infrastructure backing
// it, so tests can observe balances and published notifications.
type testStack struct {
	svc    application.LedgerService
	assets *inmemoryassets.TransferService
	tokens *inmemorytoken.Factory
	pubsub *inmemorypubsub.PubSubService
	now    *int64
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()

	repoManager := inmemory.NewDbManager()
	require.NoError(t, repoManager.LedgerRepository().InitLedger(ctx, admin))

	assets := inmemoryassets.NewTransferService()
	tokens := inmemorytoken.NewFactory()
	pubsub := inmemorypubsub.NewPubSubService()

	now := maturity - 1000
	stack := &testStack{
		assets: assets,
		tokens: tokens,
		pubsub: pubsub,
		now:    &now,
	}
	stack.svc = application.NewLedgerService(
		repoManager, assets, tokens, pubsub,
		application.WithClock(func() time.Time {
			return time.Unix(*stack.now, 0)
		}),
	)
	return stack
}

func (s *testStack) createMarket(t *testing.T) string {
	t.Helper()

	handle, err := s.svc.CreateMarket(
		ctx, admin, underlying, maturity, maxDebt, price, 18,
		"USD 2026", "zcbUSD26",
	)
	require.NoError(t, err)
	require.NotEmpty(t, handle)
	return handle
}

func TestCreateMarket(t *testing.T) {
	t.Parallel()

	stack := newTestStack(t)
	stack.createMarket(t)

	info, err := stack.svc.GetMarketInfo(ctx, underlying, maturity)
	require.NoError(t, err)
	require.Equal(t, maxDebt.String(), info.MaxDebt)
	require.Equal(t, price.String(), info.Price)
	require.Equal(t, "0.95", info.HumanPrice)
	require.Equal(t, "0", info.MintedDebt)
	require.NotEmpty(t, info.BondHandle)

	events := stack.pubsub.PublishedForTopic(application.MarketCreatedTopic)
	require.Len(t, events, 1)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(events[0]), &payload))
	require.Equal(t, underlying, payload["underlying"])
	require.Equal(t, maxDebt.String(), payload["max_debt"])

	// a market on the same underlying with a different maturity is
	// independent.
	_, err = stack.svc.CreateMarket(
		ctx, admin, underlying, maturity+86400, maxDebt, price, 18,
		"USD 2027", "zcbUSD27",
	)
	require.NoError(t, err)

	markets, err := stack.svc.ListMarkets(ctx)
	require.NoError(t, err)
	require.Len(t, markets, 2)
}

func TestFailingCreateMarket(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		caller        string
		maxDebt       *big.Int
		price         *big.Int
		expectedError error
	}{
		{
			name:          "not_admin",
			caller:        "mallory",
			maxDebt:       maxDebt,
			price:         price,
			expectedError: domain.ErrUnauthorized,
		},
		{
			name:          "zero_max_debt",
			caller:        admin,
			maxDebt:       big.NewInt(0),
			price:         price,
			expectedError: domain.ErrMarketInvalidMaxDebt,
		},
		{
			name:          "zero_price",
			caller:        admin,
			maxDebt:       maxDebt,
			price:         big.NewInt(0),
			expectedError: domain.ErrMarketInvalidPrice,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			stack := newTestStack(t)
			_, err := stack.svc.CreateMarket(
				ctx, tt.caller, underlying, maturity, tt.maxDebt, tt.price,
				18, "USD 2026", "zcbUSD26",
			)
			require.EqualError(t, err, tt.expectedError.Error())
		})
	}
}

func TestCreateDuplicateMarket(t *testing.T) {
	t.Parallel()

	stack := newTestStack(t)
	stack.createMarket(t)

	_, err := stack.svc.CreateMarket(
		ctx, admin, underlying, maturity, maxDebt, price, 18,
		"USD 2026", "zcbUSD26",
	)
	require.EqualError(t, err, domain.ErrMarketAlreadyExists.Error())
}

func TestMintBonds(t *testing.T) {
	t.Parallel()

	stack := newTestStack(t)
	handle := stack.createMarket(t)

	deposit := mustBig("100000000000000000000") // 100e18
	stack.assets.Fund(underlying, lender, deposit)

	minted, err := stack.svc.MintBonds(ctx, lender, underlying, maturity, deposit)
	require.NoError(t, err)
	require.Equal(t, "105263157894736842105", minted.String())

	// underlying moved from the lender into the ledger.
	require.Zero(t, stack.assets.BalanceOf(underlying, lender).Sign())
	require.Equal(t, deposit.String(), stack.assets.LedgerBalanceOf(underlying).String())

	// bonds were minted to the lender.
	token, err := stack.tokens.GetBondToken(ctx, handle)
	require.NoError(t, err)
	balance := token.(interface{ BalanceOf(string) *big.Int }).BalanceOf(lender)
	require.Equal(t, minted.String(), balance.String())

	info, err := stack.svc.GetMarketInfo(ctx, underlying, maturity)
	require.NoError(t, err)
	require.Equal(t, minted.String(), info.MintedDebt)

	events := stack.pubsub.PublishedForTopic(application.BondMintedTopic)
	require.Len(t, events, 1)
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(events[0]), &payload))
	require.Equal(t, minted.String(), payload["minted_debt"])
}

func TestFailingMintBonds(t *testing.T) {
	t.Parallel()

	t.Run("market_not_found", func(t *testing.T) {
		t.Parallel()

		stack := newTestStack(t)
		_, err := stack.svc.MintBonds(
			ctx, lender, underlying, maturity, big.NewInt(1000),
		)
		require.EqualError(t, err, domain.ErrMarketNotFound.Error())
	})

	t.Run("matured_market", func(t *testing.T) {
		t.Parallel()

		stack := newTestStack(t)
		stack.createMarket(t)
		*stack.now = maturity + 1

		_, err := stack.svc.MintBonds(
			ctx, lender, underlying, maturity, big.NewInt(1000),
		)
		require.EqualError(t, err, domain.ErrMarketMatured.Error())
	})

	t.Run("max_debt_exceeded_before_any_transfer", func(t *testing.T) {
		t.Parallel()

		stack := newTestStack(t)
		stack.createMarket(t)

		// 1000e18 at price 0.95 would mint over the 1000e18 capacity.
		deposit := mustBig("1000000000000000000000")
		stack.assets.Fund(underlying, lender, deposit)

		_, err := stack.svc.MintBonds(ctx, lender, underlying, maturity, deposit)
		require.EqualError(t, err, domain.ErrMarketMaxDebtExceeded.Error())

		// capacity is checked before moving funds: the lender keeps the
		// full balance and the minted debt is untouched.
		require.Equal(t, deposit.String(), stack.assets.BalanceOf(underlying, lender).String())
		info, err := stack.svc.GetMarketInfo(ctx, underlying, maturity)
		require.NoError(t, err)
		require.Equal(t, "0", info.MintedDebt)
	})

	t.Run("insufficient_balance", func(t *testing.T) {
		t.Parallel()

		stack := newTestStack(t)
		stack.createMarket(t)

		_, err := stack.svc.MintBonds(
			ctx, lender, underlying, maturity, big.NewInt(1000),
		)
		require.ErrorIs(t, err, application.ErrTransferFailed)
	})
}

func TestMintBondsRefundsOnTokenFailure(t *testing.T) {
	t.Parallel()

	repoManager := inmemory.NewDbManager()
	require.NoError(t, repoManager.LedgerRepository().InitLedger(ctx, admin))

	assets := inmemoryassets.NewTransferService()

	failingToken := &mockBondToken{}
	failingToken.On("Handle").Return("failing-handle")
	failingToken.On("Mint", mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("token backend down"))

	tokens := &mockBondTokenFactory{}
	tokens.On(
		"NewBondToken", mock.Anything, mock.Anything, mock.Anything,
		mock.Anything, mock.Anything, mock.Anything,
	).Return(failingToken, nil)
	tokens.On("GetBondToken", mock.Anything, "failing-handle").
		Return(failingToken, nil)

	svc := application.NewLedgerService(
		repoManager, assets, tokens, nil,
		application.WithClock(func() time.Time {
			return time.Unix(maturity-1000, 0)
		}),
	)

	_, err := svc.CreateMarket(
		ctx, admin, underlying, maturity, maxDebt, parPrice, 18,
		"USD 2026", "zcbUSD26",
	)
	require.NoError(t, err)

	deposit := big.NewInt(1000)
	assets.Fund(underlying, lender, deposit)

	_, err = svc.MintBonds(ctx, lender, underlying, maturity, deposit)
	require.ErrorIs(t, err, application.ErrBondTokenFailed)

	// the pulled deposit was refunded.
	require.Equal(t, deposit.String(), assets.BalanceOf(underlying, lender).String())

	info, err := svc.GetMarketInfo(ctx, underlying, maturity)
	require.NoError(t, err)
	require.Equal(t, "0", info.MintedDebt)
}

func TestRepayDebt(t *testing.T) {
	t.Parallel()

	stack := newTestStack(t)
	stack.createMarket(t)

	deposit := mustBig("100000000000000000000")
	stack.assets.Fund(underlying, lender, deposit)
	minted, err := stack.svc.MintBonds(ctx, lender, underlying, maturity, deposit)
	require.NoError(t, err)

	stack.assets.Fund(underlying, admin, minted)
	repaid, err := stack.svc.RepayDebt(ctx, admin, underlying, maturity, minted)
	require.NoError(t, err)
	require.Equal(t, minted.String(), repaid.String())

	info, err := stack.svc.GetMarketInfo(ctx, underlying, maturity)
	require.NoError(t, err)
	require.Equal(t, minted.String(), info.RepaidDebt)

	events := stack.pubsub.PublishedForTopic(application.BondRepaidTopic)
	require.Len(t, events, 1)

	// nothing is left to repay.
	stack.assets.Fund(underlying, admin, big.NewInt(1))
	_, err = stack.svc.RepayDebt(ctx, admin, underlying, maturity, big.NewInt(1))
	require.EqualError(t, err, domain.ErrMarketRepayExceedsMinted.Error())
}

func TestRedeemBonds(t *testing.T) {
	t.Parallel()

	stack := newTestStack(t)
	handle := stack.createMarket(t)

	deposit := mustBig("100000000000000000000")
	stack.assets.Fund(underlying, lender, deposit)
	minted, err := stack.svc.MintBonds(ctx, lender, underlying, maturity, deposit)
	require.NoError(t, err)

	repayAmount := mustBig("50000000000000000000")
	stack.assets.Fund(underlying, admin, repayAmount)
	_, err = stack.svc.RepayDebt(ctx, admin, underlying, maturity, repayAmount)
	require.NoError(t, err)

	// before maturity redeeming is closed.
	_, err = stack.svc.RedeemBonds(ctx, lender, underlying, maturity, repayAmount)
	require.EqualError(t, err, domain.ErrMarketNotMatured.Error())

	*stack.now = maturity + 1

	// redeeming over the repaid funds is rejected, first come first
	// served.
	tooMuch := new(big.Int).Add(repayAmount, big.NewInt(1))
	_, err = stack.svc.RedeemBonds(ctx, lender, underlying, maturity, tooMuch)
	require.EqualError(t, err, domain.ErrMarketRedeemExceedsRepaid.Error())

	redeemed, err := stack.svc.RedeemBonds(
		ctx, lender, underlying, maturity, repayAmount,
	)
	require.NoError(t, err)
	require.Equal(t, repayAmount.String(), redeemed.String())

	// the lender got the underlying back and the bonds were burnt.
	require.Equal(t, repayAmount.String(), stack.assets.BalanceOf(underlying, lender).String())
	token, err := stack.tokens.GetBondToken(ctx, handle)
	require.NoError(t, err)
	balance := token.(interface{ BalanceOf(string) *big.Int }).BalanceOf(lender)
	require.Equal(t, new(big.Int).Sub(minted, repayAmount).String(), balance.String())

	info, err := stack.svc.GetMarketInfo(ctx, underlying, maturity)
	require.NoError(t, err)
	require.Equal(t, info.RepaidDebt, info.RedeemedDebt)

	events := stack.pubsub.PublishedForTopic(application.BondRedeemedTopic)
	require.Len(t, events, 1)
}

func TestTransferAdmin(t *testing.T) {
	t.Parallel()

	stack := newTestStack(t)

	_, err := stack.svc.TransferAdmin(ctx, "mallory", "mallory")
	require.EqualError(t, err, domain.ErrUnauthorized.Error())

	newAdmin, err := stack.svc.TransferAdmin(ctx, admin, "issuer-2")
	require.NoError(t, err)
	require.Equal(t, "issuer-2", newAdmin)

	current, err := stack.svc.GetAdmin(ctx)
	require.NoError(t, err)
	require.Equal(t, "issuer-2", current)

	// the previous admin can no longer create markets, the new one can.
	_, err = stack.svc.CreateMarket(
		ctx, admin, underlying, maturity, maxDebt, price, 18,
		"USD 2026", "zcbUSD26",
	)
	require.EqualError(t, err, domain.ErrUnauthorized.Error())

	_, err = stack.svc.CreateMarket(
		ctx, "issuer-2", underlying, maturity, maxDebt, price, 18,
		"USD 2026", "zcbUSD26",
	)
	require.NoError(t, err)
}

func TestMintAfterStorageReopen(t *testing.T) {
	t.Parallel()

	dbDir := t.TempDir()
	clock := func() time.Time { return time.Unix(maturity-1000, 0) }

	repoManager, err := dbbadger.NewDbManager(dbDir, nil)
	require.NoError(t, err)
	require.NoError(t, repoManager.LedgerRepository().InitLedger(ctx, admin))

	svc := application.NewLedgerService(
		repoManager, inmemoryassets.NewTransferService(),
		inmemorytoken.NewFactory(), nil, application.WithClock(clock),
	)
	handle, err := svc.CreateMarket(
		ctx, admin, underlying, maturity, maxDebt, price, 18,
		"USD 2026", "zcbUSD26",
	)
	require.NoError(t, err)
	repoManager.Close()

	// restart: reopen the store with a fresh token registry and rebind
	// the bond token of every persisted market.
	reopened, err := dbbadger.NewDbManager(dbDir, nil)
	require.NoError(t, err)
	t.Cleanup(reopened.Close)

	tokens := inmemorytoken.NewFactory()
	markets, err := reopened.MarketRepository().GetAllMarkets(ctx)
	require.NoError(t, err)
	require.Len(t, markets, 1)
	for i := range markets {
		m := &markets[i]
		_, err := tokens.RestoreBondToken(
			ctx, m.BondHandle, m.Name, m.Symbol, m.Decimals, m.Maturity,
			m.Underlying,
		)
		require.NoError(t, err)
	}

	assets := inmemoryassets.NewTransferService()
	svc = application.NewLedgerService(
		reopened, assets, tokens, nil, application.WithClock(clock),
	)

	deposit := mustBig("100000000000000000000")
	assets.Fund(underlying, lender, deposit)

	minted, err := svc.MintBonds(ctx, lender, underlying, maturity, deposit)
	require.NoError(t, err)
	require.Equal(t, "105263157894736842105", minted.String())

	token, err := tokens.GetBondToken(ctx, handle)
	require.NoError(t, err)
	balance := token.(interface{ BalanceOf(string) *big.Int }).BalanceOf(lender)
	require.Equal(t, minted.String(), balance.String())
}

func TestRedeemBondsRevertsOnPayoutFailure(t *testing.T) {
	t.Parallel()

	repoManager := inmemory.NewDbManager()
	require.NoError(t, repoManager.LedgerRepository().InitLedger(ctx, admin))

	assets := &mockAssetTransfer{}
	assets.On(
		"Pull", mock.Anything, mock.Anything, mock.Anything, mock.Anything,
	).Return(nil)
	assets.On(
		"Push", mock.Anything, mock.Anything, mock.Anything, mock.Anything,
	).Return(errors.New("settlement down"))

	tokens := inmemorytoken.NewFactory()

	now := maturity - 1000
	svc := application.NewLedgerService(
		repoManager, assets, tokens, nil,
		application.WithClock(func() time.Time {
			return time.Unix(now, 0)
		}),
	)

	handle, err := svc.CreateMarket(
		ctx, admin, underlying, maturity, maxDebt, parPrice, 18,
		"USD 2026", "zcbUSD26",
	)
	require.NoError(t, err)

	amount := big.NewInt(1000)
	minted, err := svc.MintBonds(ctx, lender, underlying, maturity, amount)
	require.NoError(t, err)
	_, err = svc.RepayDebt(ctx, admin, underlying, maturity, amount)
	require.NoError(t, err)

	now = maturity + 1
	_, err = svc.RedeemBonds(ctx, lender, underlying, maturity, amount)
	require.ErrorIs(t, err, application.ErrTransferFailed)

	// the failed payout left no net effect: the redeemed counter was
	// reverted and the burnt bonds restored.
	info, err := svc.GetMarketInfo(ctx, underlying, maturity)
	require.NoError(t, err)
	require.Equal(t, "0", info.RedeemedDebt)

	token, err := tokens.GetBondToken(ctx, handle)
	require.NoError(t, err)
	balance := token.(interface{ BalanceOf(string) *big.Int }).BalanceOf(lender)
	require.Equal(t, minted.String(), balance.String())
}

func TestQueriesAreIdempotent(t *testing.T) {
	t.Parallel()

	stack := newTestStack(t)
	stack.createMarket(t)

	first, err := stack.svc.GetMarketInfo(ctx, underlying, maturity)
	require.NoError(t, err)
	second, err := stack.svc.GetMarketInfo(ctx, underlying, maturity)
	require.NoError(t, err)
	require.Equal(t, first, second)
}
