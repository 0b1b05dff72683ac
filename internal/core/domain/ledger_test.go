package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zerobond-network/zerobond-daemon/internal/core/domain"
)

func TestNewLedger(t *testing.T) {
	t.Parallel()

	l, err := domain.NewLedger("issuer-1")
	require.NoError(t, err)
	require.True(t, l.IsAdmin("issuer-1"))
	require.False(t, l.IsAdmin("someone-else"))

	_, err = domain.NewLedger("")
	require.EqualError(t, err, domain.ErrLedgerInvalidAdmin.Error())
}

func TestTransferAdmin(t *testing.T) {
	t.Parallel()

	l, err := domain.NewLedger("issuer-1")
	require.NoError(t, err)

	err = l.TransferAdmin("issuer-1", "issuer-2")
	require.NoError(t, err)
	require.True(t, l.IsAdmin("issuer-2"))

	// the previous admin lost the role.
	err = l.TransferAdmin("issuer-1", "issuer-1")
	require.EqualError(t, err, domain.ErrUnauthorized.Error())
	require.True(t, l.IsAdmin("issuer-2"))
}
