package tx

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeJamon/solcastd/internal/core/amount"
	"github.com/LeJamon/solcastd/internal/core/ledger"
	"github.com/LeJamon/solcastd/internal/core/ledger/entry"
	"github.com/LeJamon/solcastd/internal/core/ledger/keylet"
	"github.com/LeJamon/solcastd/internal/core/tx/mocks"
	"github.com/LeJamon/solcastd/internal/crypto"
	"github.com/LeJamon/solcastd/internal/storage/database/memory"
	"github.com/LeJamon/solcastd/internal/storage/relationaldb"
)

const (
	typeCredit       Type = 200
	typeUnregistered Type = 201
)

func init() {
	Register(typeCredit, func() Transaction {
		return &creditTx{BaseTx: *NewBaseTx(typeCredit, entry.Address{})}
	})
}

// creditTx mints Value native units to its signer, then returns Fail.
type creditTx struct {
	BaseTx
	Value amount.Amount `codec:"value"`
	Fail  Result        `codec:"fail"`
	// Stray is written without being declared in Keys.
	Stray entry.Address `codec:"stray"`
}

func (c *creditTx) TxType() Type { return typeCredit }

func (c *creditTx) Validate() error {
	if c.Value == 0 {
		return Errorf(TemBAD_AMOUNT, "value must be positive")
	}
	return nil
}

func (c *creditTx) Keys(*KeyContext) ([]keylet.Keylet, error) {
	return []keylet.Keylet{keylet.Balance(c.Account, entry.NativeAsset)}, nil
}

func (c *creditTx) Apply(ctx *ApplyContext) Result {
	if res := ctx.Mint(ctx.Account, entry.NativeAsset, c.Value); res != TesSUCCESS {
		return res
	}
	if !c.Stray.IsZero() {
		if res := ctx.Mint(c.Stray, entry.NativeAsset, c.Value); res != TesSUCCESS {
			return res
		}
	}
	return c.Fail
}

func (c *creditTx) MarketKey() string { return "credit" }

type unregisteredTx struct{ BaseTx }

func (u *unregisteredTx) TxType() Type                              { return typeUnregistered }
func (u *unregisteredTx) Validate() error                           { return nil }
func (u *unregisteredTx) Keys(*KeyContext) ([]keylet.Keylet, error) { return nil, nil }

type fixedClock struct{}

func (fixedClock) Now() time.Time { return time.Unix(1_700_000_000, 0).UTC() }

func newKeyPair(t *testing.T, seed string) *crypto.KeyPair {
	t.Helper()
	kp, err := crypto.GenerateKeyPair([]byte(seed), crypto.KeyTypeSecp256k1)
	require.NoError(t, err)
	return kp
}

func newTestEngine(t *testing.T, opts ...Option) (*Engine, *ledger.Store) {
	t.Helper()
	store, err := ledger.NewStore(memory.NewDB(), ledger.StoreConfig{}, nil)
	require.NoError(t, err)
	return NewEngine(store, EngineConfig{}, append([]Option{WithClock(fixedClock{})}, opts...)...), store
}

func signedCredit(t *testing.T, kp *crypto.KeyPair, value amount.Amount) *creditTx {
	t.Helper()
	c := &creditTx{BaseTx: *NewBaseTx(typeCredit, entry.Address{}), Value: value}
	require.NoError(t, Sign(c, kp))
	return c
}

func balance(t *testing.T, store *ledger.Store, owner entry.Address) amount.Amount {
	t.Helper()
	var b entry.Balance
	err := store.ReadEntry(context.Background(), keylet.Balance(owner, entry.NativeAsset), &b)
	if errors.Is(err, ledger.ErrEntryNotFound) {
		return 0
	}
	require.NoError(t, err)
	return b.Amount
}

func TestEngineApply(t *testing.T) {
	engine, store := newTestEngine(t)
	kp := newKeyPair(t, "alice")
	alice := entry.Address(kp.AccountID())

	c := signedCredit(t, kp, 40)
	res := engine.Apply(context.Background(), c)
	require.True(t, res.Applied, res.Message)
	assert.Equal(t, TesSUCCESS, res.Result)
	assert.NoError(t, res.Err())

	hash, err := Hash(c)
	require.NoError(t, err)
	assert.Equal(t, hash, res.Hash)
	assert.Equal(t, amount.Amount(40), balance(t, store, alice))
}

func TestEngineRejectsDuplicate(t *testing.T) {
	engine, store := newTestEngine(t)
	kp := newKeyPair(t, "alice")
	alice := entry.Address(kp.AccountID())

	c := signedCredit(t, kp, 40)
	first := engine.Apply(context.Background(), c)
	require.True(t, first.Applied, first.Message)

	again := engine.Apply(context.Background(), c)
	assert.False(t, again.Applied)
	assert.Equal(t, TefALREADY, again.Result)
	assert.Equal(t, first.Hash, again.Hash)
	assert.Equal(t, amount.Amount(40), balance(t, store, alice))

	var marker entry.AppliedTx
	require.NoError(t, store.ReadEntry(context.Background(), keylet.AppliedTx(first.Hash), &marker))
	assert.Equal(t, alice, marker.Account)
	assert.Equal(t, uint16(typeCredit), marker.TxType)
	assert.Equal(t, fixedClock{}.Now().Unix(), marker.AppliedAt)

	// a new nonce is a new transaction
	c.Nonce = 1
	require.NoError(t, Sign(c, kp))
	require.True(t, engine.Apply(context.Background(), c).Applied)
	assert.Equal(t, amount.Amount(80), balance(t, store, alice))
}

func TestEngineDiscardsFailedTransaction(t *testing.T) {
	engine, store := newTestEngine(t)
	kp := newKeyPair(t, "alice")

	c := &creditTx{BaseTx: *NewBaseTx(typeCredit, entry.Address{}), Value: 40, Fail: TecUNFUNDED}
	require.NoError(t, Sign(c, kp))

	res := engine.Apply(context.Background(), c)
	assert.False(t, res.Applied)
	assert.ErrorIs(t, res.Err(), TecUNFUNDED)
	assert.Zero(t, balance(t, store, entry.Address(kp.AccountID())))

	exists, err := store.Exists(context.Background(), keylet.AppliedTx(res.Hash))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestEngineRejectsUndeclaredWrite(t *testing.T) {
	engine, store := newTestEngine(t)
	kp := newKeyPair(t, "alice")
	bob := entry.Address(newKeyPair(t, "bob").AccountID())

	c := &creditTx{BaseTx: *NewBaseTx(typeCredit, entry.Address{}), Value: 5, Stray: bob}
	require.NoError(t, Sign(c, kp))

	res := engine.Apply(context.Background(), c)
	assert.Equal(t, TefINTERNAL, res.Result)
	assert.Zero(t, balance(t, store, bob))
	assert.Zero(t, balance(t, store, entry.Address(kp.AccountID())))
}

func TestEngineSignatureChecks(t *testing.T) {
	alice := newKeyPair(t, "alice")
	bob := newKeyPair(t, "bob")

	tests := []struct {
		name  string
		build func() Transaction
		want  Result
	}{
		{
			name: "Unsigned",
			build: func() Transaction {
				return &creditTx{BaseTx: *NewBaseTx(typeCredit, entry.Address(alice.AccountID())), Value: 1}
			},
			want: TemBAD_SIGNATURE,
		},
		{
			name: "Tampered",
			build: func() Transaction {
				c := signedCredit(t, alice, 1)
				c.Value = 1_000
				return c
			},
			want: TefBAD_SIGNATURE,
		},
		{
			name: "ForeignKey",
			build: func() Transaction {
				c := signedCredit(t, alice, 1)
				c.Account = entry.Address(bob.AccountID())
				return c
			},
			want: TefBAD_AUTH,
		},
		{
			name: "ValidateFails",
			build: func() Transaction {
				return signedCredit(t, alice, 0)
			},
			want: TemBAD_AMOUNT,
		},
		{
			name: "MissingAccount",
			build: func() Transaction {
				return &creditTx{BaseTx: *NewBaseTx(typeCredit, entry.Address{}), Value: 1}
			},
			want: TemMALFORMED,
		},
		{
			name: "Unregistered",
			build: func() Transaction {
				return &unregisteredTx{BaseTx: *NewBaseTx(typeUnregistered, entry.Address(alice.AccountID()))}
			},
			want: TemUNKNOWN,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, _ := newTestEngine(t)
			res := engine.Apply(context.Background(), tt.build())
			assert.Equal(t, tt.want, res.Result, res.Detail)
			assert.False(t, res.Applied)
		})
	}
}

func TestEngineSkipSignatureVerification(t *testing.T) {
	store, err := ledger.NewStore(memory.NewDB(), ledger.StoreConfig{}, nil)
	require.NoError(t, err)
	engine := NewEngine(store, EngineConfig{SkipSignatureVerification: true})

	alice := entry.Address(newKeyPair(t, "alice").AccountID())
	res := engine.Apply(context.Background(), &creditTx{BaseTx: *NewBaseTx(typeCredit, alice), Value: 3})
	require.True(t, res.Applied)
	assert.Equal(t, amount.Amount(3), balance(t, store, alice))
}

func TestEngineRecordsHistory(t *testing.T) {
	ctrl := gomock.NewController(t)
	history := mocks.NewMockHistoryRecorder(ctrl)
	engine, _ := newTestEngine(t, WithHistory(history))
	kp := newKeyPair(t, "alice")

	c := signedCredit(t, kp, 7)
	hash, err := Hash(c)
	require.NoError(t, err)

	history.EXPECT().SaveTransaction(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, info *relationaldb.TransactionInfo) error {
			assert.Equal(t, relationaldb.Hash(hash), info.Hash)
			assert.Equal(t, typeCredit.String(), info.TxType)
			assert.Equal(t, relationaldb.AccountID(kp.AccountID()), info.Account)
			assert.Equal(t, "credit", info.MarketID)
			assert.Equal(t, "tesSUCCESS", info.Result)
			assert.Equal(t, fixedClock{}.Now(), info.Timestamp)

			decoded, err := Decode(info.RawTxn)
			require.NoError(t, err)
			assert.Equal(t, amount.Amount(7), decoded.(*creditTx).Value)
			return nil
		}).Times(1)

	require.True(t, engine.Apply(context.Background(), c).Applied)

	// preflight failures never reach history
	engine.Apply(context.Background(), signedCredit(t, kp, 0))
}

func TestEngineHistoryFailureKeepsResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	history := mocks.NewMockHistoryRecorder(ctrl)
	engine, store := newTestEngine(t, WithHistory(history))
	kp := newKeyPair(t, "alice")

	history.EXPECT().SaveTransaction(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

	res := engine.Apply(context.Background(), signedCredit(t, kp, 9))
	assert.True(t, res.Applied)
	assert.Equal(t, amount.Amount(9), balance(t, store, entry.Address(kp.AccountID())))
}

func TestEngineMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := NewMetrics(reg)
	require.NoError(t, err)
	engine, _ := newTestEngine(t, WithMetrics(metrics))
	kp := newKeyPair(t, "alice")

	engine.Apply(context.Background(), signedCredit(t, kp, 1))
	engine.Apply(context.Background(), signedCredit(t, kp, 2))
	engine.Apply(context.Background(), signedCredit(t, kp, 0))

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.transactions.WithLabelValues(typeCredit.String(), "tesSUCCESS")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.transactions.WithLabelValues(typeCredit.String(), "temBAD_AMOUNT")))

	// registering twice reuses the collectors
	again, err := NewMetrics(reg)
	require.NoError(t, err)
	assert.Same(t, metrics.transactions, again.transactions)
}

func TestEncodeDecode(t *testing.T) {
	kp := newKeyPair(t, "alice")
	c := signedCredit(t, kp, 11)

	raw, err := Encode(c)
	require.NoError(t, err)
	decoded, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, c, decoded)
	assert.Equal(t, TesSUCCESS, VerifySignature(decoded))

	_, err = NewFromType(typeUnregistered)
	assert.ErrorIs(t, err, ErrUnknownTransactionType)
}

func TestMissingKeys(t *testing.T) {
	a := keylet.Market("a")
	b := keylet.Market("b")
	c := keylet.Market("c")

	assert.Empty(t, missingKeys([]keylet.Keylet{a, b}, []keylet.Keylet{b, a}))
	assert.Equal(t, []keylet.Keylet{c}, missingKeys([]keylet.Keylet{a, b}, []keylet.Keylet{a, c, c}))
}
