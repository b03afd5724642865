package testing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/LeJamon/solcastd/internal/core/amount"
	"github.com/LeJamon/solcastd/internal/core/ledger/entry"
	"github.com/LeJamon/solcastd/internal/core/tx"
)

// RequireTxSuccess asserts that a transaction result indicates success.
func RequireTxSuccess(t *testing.T, result TxResult) {
	t.Helper()
	require.True(t, result.Success,
		"Expected transaction success, got %s: %s", result.Code, result.Message)
	require.Equal(t, tx.TesSUCCESS, result.Result)
}

// RequireTxFail asserts that a transaction failed with a specific result.
func RequireTxFail(t *testing.T, result TxResult, expected tx.Result) {
	t.Helper()
	require.False(t, result.Success,
		"Expected transaction failure with %s, but transaction succeeded", expected)
	require.Equal(t, expected, result.Result,
		"Expected failure %s, got %s: %s", expected, result.Code, result.Message)
}

// RequireBalance asserts that an account holds the expected amount of asset.
func RequireBalance(t *testing.T, env *TestEnv, acc *Account, asset entry.Asset, expected amount.Amount) {
	t.Helper()
	actual := env.Balance(acc, asset)
	require.Equal(t, expected, actual,
		"Account %s balance of %s mismatch: expected %d, got %d",
		acc.Name, asset, expected, actual)
}

// RequireEscrow asserts the escrow balance of a market.
func RequireEscrow(t *testing.T, env *TestEnv, marketID string, expected amount.Amount) {
	t.Helper()
	actual := env.Escrow(marketID)
	require.Equal(t, expected, actual,
		"Market %s escrow mismatch: expected %d, got %d", marketID, expected, actual)
}

// RequireMarketConsistent asserts the pool totals of a market agree with its
// shares, and that its escrow covers every stake not yet paid out.
func RequireMarketConsistent(t *testing.T, env *TestEnv, marketID string) {
	t.Helper()
	m := env.Market(marketID)
	require.NoError(t, m.Validate(), "market %s violates its invariants", marketID)

	if !m.Resolved {
		RequireEscrow(t, env, marketID, m.TotalValue)
	}
}
