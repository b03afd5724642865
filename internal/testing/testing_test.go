package testing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeJamon/solcastd/internal/core/ledger/entry"
	"github.com/LeJamon/solcastd/internal/core/tx"
	"github.com/LeJamon/solcastd/internal/storage"
)

func TestNewAccount(t *testing.T) {
	alice1 := NewAccount("alice")
	alice2 := NewAccount("alice")

	// Same name should produce same account
	assert.Equal(t, alice1.ID, alice2.ID)
	assert.Equal(t, alice1.Keys.PublicKey, alice2.Keys.PublicKey)

	bob := NewAccount("bob")
	assert.NotEqual(t, alice1.ID, bob.ID)
}

func TestNewAccountWithKeyType(t *testing.T) {
	aliceSecp := NewAccountWithKeyType("alice", KeyTypeSecp256k1)
	assert.True(t, aliceSecp.IsSecp256k1())
	assert.False(t, aliceSecp.IsEd25519())

	aliceEd := NewAccountWithKeyType("alice", KeyTypeEd25519)
	assert.True(t, aliceEd.IsEd25519())
	assert.False(t, aliceEd.IsSecp256k1())

	assert.NotEqual(t, aliceSecp.ID, aliceEd.ID)
}

func TestManualClock(t *testing.T) {
	clock := NewManualClock()
	start := clock.Now()
	assert.Equal(t, Epoch, start)

	clock.Advance(10 * time.Second)
	assert.Equal(t, start.Add(10*time.Second), clock.Now())

	target := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	clock.Set(target)
	assert.Equal(t, target, clock.Now())
}

func TestEnvBasics(t *testing.T) {
	env := NewTestEnv(t)
	alice := NewAccount("alice")

	env.Initialize()
	assert.Equal(t, env.Admin().ID, env.Registry().Admin)

	env.Fund(entry.NativeAsset, 500, alice)
	RequireBalance(t, env, alice, entry.NativeAsset, 500)

	env.CreateMarket("m1", "Yes", "No")
	assert.True(t, env.MarketExists("m1"))
	assert.False(t, env.MarketExists("m2"))

	RequireTxSuccess(t, env.Buy(alice, "m1", "Yes", 200))
	RequireMarketConsistent(t, env, "m1")
	RequireEscrow(t, env, "m1", 200)

	// the same transaction twice still hashes differently
	first := env.Buy(alice, "m1", "Yes", 1)
	second := env.Buy(alice, "m1", "Yes", 1)
	require.NotEqual(t, first.Hash, second.Hash)
}

func TestEnvPebbleBackend(t *testing.T) {
	env := NewTestEnv(t, WithBackend(storage.BackendPebble))
	env.Initialize()
	env.CreateMarket("m1", "Yes", "No")
	RequireTxFail(t, env.Resolve("m1", "Maybe"), tx.InvalidOption)
}
