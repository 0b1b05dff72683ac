package application_test

import (
	"context"
	"math/big"

	"github.com/stretchr/testify/mock"
	"github.com/zerobond-network/zerobond-daemon/internal/core/ports"
)

// **** AssetTransfer ****

type mockAssetTransfer struct {
	mock.Mock
}

func (m *mockAssetTransfer) Pull(
	ctx context.Context, asset, from string, amount *big.Int,
) error {
	args := m.Called(ctx, asset, from, amount)
	return args.Error(0)
}

func (m *mockAssetTransfer) Push(
	ctx context.Context, asset, to string, amount *big.Int,
) error {
	args := m.Called(ctx, asset, to, amount)
	return args.Error(0)
}

// **** BondToken ****

type mockBondToken struct {
	mock.Mock
}

func (m *mockBondToken) Handle() string {
	args := m.Called()
	return args.String(0)
}

func (m *mockBondToken) Mint(
	ctx context.Context, to string, amount *big.Int,
) error {
	args := m.Called(ctx, to, amount)
	return args.Error(0)
}

func (m *mockBondToken) Burn(
	ctx context.Context, from string, amount *big.Int,
) error {
	args := m.Called(ctx, from, amount)
	return args.Error(0)
}

type mockBondTokenFactory struct {
	mock.Mock
}

func (m *mockBondTokenFactory) NewBondToken(
	ctx context.Context, name, symbol string, decimals uint,
	maturity int64, underlying string,
) (ports.BondToken, error) {
	args := m.Called(ctx, name, symbol, decimals, maturity, underlying)

	var res ports.BondToken
	if a := args.Get(0); a != nil {
		res = a.(ports.BondToken)
	}
	return res, args.Error(1)
}

func (m *mockBondTokenFactory) GetBondToken(
	ctx context.Context, handle string,
) (ports.BondToken, error) {
	args := m.Called(ctx, handle)

	var res ports.BondToken
	if a := args.Get(0); a != nil {
		res = a.(ports.BondToken)
	}
	return res, args.Error(1)
}
