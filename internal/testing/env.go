package testing

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/LeJamon/solcastd/internal/core/amount"
	"github.com/LeJamon/solcastd/internal/core/ledger"
	"github.com/LeJamon/solcastd/internal/core/ledger/entry"
	"github.com/LeJamon/solcastd/internal/core/ledger/keylet"
	"github.com/LeJamon/solcastd/internal/core/tx"
	"github.com/LeJamon/solcastd/internal/core/tx/market"
	"github.com/LeJamon/solcastd/internal/logging"
	"github.com/LeJamon/solcastd/internal/storage"
	"github.com/LeJamon/solcastd/internal/storage/database"
)

// TestEnv manages a test ledger environment for transaction testing.
// It provides a simplified interface for creating markets, funding accounts,
// submitting transactions, and verifying results.
type TestEnv struct {
	t      *testing.T
	db     database.DB
	store  *ledger.Store
	engine *tx.Engine
	clock  *ManualClock

	programID entry.Address
	admin     *Account

	mu     sync.Mutex
	nonces map[entry.Address]uint64
}

// EnvOption customizes a TestEnv.
type EnvOption func(*envConfig)

type envConfig struct {
	backend string
	store   ledger.StoreConfig
	opts    []tx.Option
	skipSig bool
}

// WithBackend runs the environment on the named storage backend in a
// temporary directory instead of memory.
func WithBackend(name string) EnvOption {
	return func(c *envConfig) { c.backend = name }
}

// WithStoreConfig overrides the ledger store configuration.
func WithStoreConfig(cfg ledger.StoreConfig) EnvOption {
	return func(c *envConfig) { c.store = cfg }
}

// WithEngineOptions passes extra options to the engine.
func WithEngineOptions(opts ...tx.Option) EnvOption {
	return func(c *envConfig) { c.opts = append(c.opts, opts...) }
}

// WithoutSignatures disables signature verification.
func WithoutSignatures() EnvOption {
	return func(c *envConfig) { c.skipSig = true }
}

// NewTestEnv creates a new test environment with an empty ledger. The
// registry does not exist until Initialize is called.
func NewTestEnv(t *testing.T, opts ...EnvOption) *TestEnv {
	t.Helper()

	cfg := envConfig{backend: storage.BackendMemory}
	for _, opt := range opts {
		opt(&cfg)
	}

	mgr, err := storage.OpenManager(cfg.backend, t.TempDir())
	if err != nil {
		t.Fatalf("Failed to open %s backend: %v", cfg.backend, err)
	}
	t.Cleanup(func() { _ = mgr.Close() })

	db, err := mgr.OpenDB("ledger")
	if err != nil {
		t.Fatalf("Failed to open ledger database: %v", err)
	}

	store, err := ledger.NewStore(db, cfg.store, logging.NewTestLogger())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	clock := NewManualClock()
	env := &TestEnv{
		t:         t,
		db:        db,
		store:     store,
		clock:     clock,
		programID: NewAccount("program").ID,
		admin:     NewAccount("admin"),
		nonces:    make(map[entry.Address]uint64),
	}
	engineOpts := append([]tx.Option{tx.WithClock(clock)}, cfg.opts...)
	env.engine = tx.NewEngine(store, tx.EngineConfig{
		ProgramID:                 env.programID,
		SkipSignatureVerification: cfg.skipSig,
	}, engineOpts...)
	return env
}

// Admin returns the account that Initialize makes registry admin.
func (e *TestEnv) Admin() *Account { return e.admin }

// ProgramID returns the id every market address is derived from.
func (e *TestEnv) ProgramID() entry.Address { return e.programID }

// Engine returns the transaction engine.
func (e *TestEnv) Engine() *tx.Engine { return e.engine }

// Store returns the ledger store.
func (e *TestEnv) Store() *ledger.Store { return e.store }

// Clock returns the environment clock.
func (e *TestEnv) Clock() *ManualClock { return e.clock }

// Submit signs t as signer and applies it. Each submission gets a fresh
// nonce so identical transactions have distinct hashes.
func (e *TestEnv) Submit(signer *Account, t tx.Transaction) TxResult {
	e.t.Helper()

	e.mu.Lock()
	e.nonces[signer.ID]++
	t.GetCommon().Nonce = e.nonces[signer.ID]
	e.mu.Unlock()

	if err := tx.Sign(t, signer.Keys); err != nil {
		e.t.Fatalf("Failed to sign %s: %v", t.TxType(), err)
	}
	return newTxResult(e.engine.Apply(context.Background(), t))
}

// Apply applies t exactly as given, without signing it or touching its nonce.
func (e *TestEnv) Apply(t tx.Transaction) TxResult {
	e.t.Helper()
	return newTxResult(e.engine.Apply(context.Background(), t))
}

// Initialize creates the registry with the environment admin.
func (e *TestEnv) Initialize() {
	e.t.Helper()
	e.mustSucceed(e.Submit(e.admin, market.NewInitialize(e.admin.ID)), "Initialize")
}

// CreateMarket creates a market paid in the native asset.
func (e *TestEnv) CreateMarket(id, optionA, optionB string) {
	e.t.Helper()
	e.mustSucceed(e.Submit(e.admin, market.NewCreateMarket(e.admin.ID, id, optionA, optionB, entry.NativeAsset)), "CreateMarket "+id)
}

// Fund credits amt of asset to each account.
func (e *TestEnv) Fund(asset entry.Asset, amt amount.Amount, accounts ...*Account) {
	e.t.Helper()
	for _, acc := range accounts {
		e.mustSucceed(e.Submit(e.admin, market.NewFund(e.admin.ID, acc.ID, asset, amt)), "Fund "+acc.Name)
	}
}

// Buy stakes amt on option for acc and returns the result.
func (e *TestEnv) Buy(acc *Account, marketID, option string, amt amount.Amount) TxResult {
	e.t.Helper()
	return e.Submit(acc, market.NewBuyShare(acc.ID, marketID, option, amt))
}

// Resolve resolves a market as the admin.
func (e *TestEnv) Resolve(marketID, winner string) TxResult {
	e.t.Helper()
	return e.Submit(e.admin, market.NewResolve(e.admin.ID, marketID, winner))
}

// Withdraw withdraws acc's winnings.
func (e *TestEnv) Withdraw(acc *Account, marketID string) TxResult {
	e.t.Helper()
	return e.Submit(acc, market.NewWithdraw(acc.ID, marketID))
}

// Balance returns acc's balance of asset.
func (e *TestEnv) Balance(acc *Account, asset entry.Asset) amount.Amount {
	e.t.Helper()
	return e.BalanceOf(acc.ID, asset)
}

// BalanceOf returns owner's balance of asset; absent balances are zero.
func (e *TestEnv) BalanceOf(owner entry.Address, asset entry.Asset) amount.Amount {
	e.t.Helper()
	var b entry.Balance
	err := e.store.ReadEntry(context.Background(), keylet.Balance(owner, asset), &b)
	if errors.Is(err, ledger.ErrEntryNotFound) {
		return 0
	}
	if err != nil {
		e.t.Fatalf("Failed to read balance: %v", err)
	}
	return b.Amount
}

// Market reads a market, failing the test when it does not exist.
func (e *TestEnv) Market(id string) *entry.Market {
	e.t.Helper()
	var m entry.Market
	if err := e.store.ReadEntry(context.Background(), keylet.Market(id), &m); err != nil {
		e.t.Fatalf("Failed to read market %q: %v", id, err)
	}
	return &m
}

// MarketExists reports whether a market record exists.
func (e *TestEnv) MarketExists(id string) bool {
	e.t.Helper()
	ok, err := e.store.Exists(context.Background(), keylet.Market(id))
	if err != nil {
		e.t.Fatalf("Failed to check market %q: %v", id, err)
	}
	return ok
}

// Registry reads the registry, failing the test when it does not exist.
func (e *TestEnv) Registry() *entry.Registry {
	e.t.Helper()
	var r entry.Registry
	if err := e.store.ReadEntry(context.Background(), keylet.Registry(), &r); err != nil {
		e.t.Fatalf("Failed to read registry: %v", err)
	}
	return &r
}

// Escrow returns the buy-token balance held by a market's authority.
func (e *TestEnv) Escrow(marketID string) amount.Amount {
	e.t.Helper()
	m := e.Market(marketID)
	return e.BalanceOf(m.Authority, m.BuyToken)
}

func (e *TestEnv) mustSucceed(r TxResult, what string) {
	e.t.Helper()
	if !r.Success {
		e.t.Fatalf("%s failed: %s: %s", what, r.Code, r.Message)
	}
}
