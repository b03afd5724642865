package tx

import (
	"context"
	"errors"
	"fmt"

	"github.com/LeJamon/solcastd/internal/core/ledger/entry"
	"github.com/LeJamon/solcastd/internal/core/ledger/keylet"
	"github.com/LeJamon/solcastd/internal/crypto"
	hashing "github.com/LeJamon/solcastd/internal/crypto/common"
	"github.com/LeJamon/solcastd/internal/protocol"
)

// Common errors
var (
	ErrMissingAccount = errors.New("missing account")
	ErrNotSigned      = errors.New("transaction is not signed")
)

// Transaction is the interface that all transaction types must implement
type Transaction interface {
	// TxType returns the transaction type
	TxType() Type

	// GetCommon returns the common transaction fields
	GetCommon() *BaseTx

	// Validate checks the transaction without reading ledger state.
	// A failure should carry its Result via Errorf or Result.Err.
	Validate() error

	// Keys returns every ledger key the transaction may write. The engine
	// holds their locks while the transaction applies.
	Keys(kc *KeyContext) ([]keylet.Keylet, error)
}

// Appliable is implemented by transaction types that can apply themselves to ledger state.
type Appliable interface {
	Apply(ctx *ApplyContext) Result
}

// ReadView is read-only access to committed ledger state.
type ReadView interface {
	ReadEntry(ctx context.Context, k keylet.Keylet, e entry.Entry) error
}

// KeyContext is what a transaction may consult to compute its write set.
// Only fields that never change after creation should be read from it.
type KeyContext struct {
	Ctx       context.Context
	View      ReadView
	ProgramID entry.Address
}

// BaseTx contains the fields shared by every transaction
type BaseTx struct {
	TransactionType Type          `codec:"transaction_type"`
	Account         entry.Address `codec:"account"`
	// Nonce makes otherwise identical submissions hash differently.
	Nonce         uint64 `codec:"nonce"`
	SigningPubKey []byte `codec:"signing_pub_key"`
	TxnSignature  []byte `codec:"txn_signature"`
}

// NewBaseTx creates a new BaseTx with the given type and account
func NewBaseTx(txType Type, account entry.Address) *BaseTx {
	return &BaseTx{TransactionType: txType, Account: account}
}

// GetCommon returns the common fields
func (b *BaseTx) GetCommon() *BaseTx {
	return b
}

// Validate checks the common fields
func (b *BaseTx) Validate() error {
	if b.Account.IsZero() {
		return Errorf(TemMALFORMED, "%v", ErrMissingAccount)
	}
	return nil
}

// SigningHash is the digest a signer signs: the encoded transaction without
// its signature, under the signing prefix.
func SigningHash(t Transaction) ([32]byte, error) {
	common := t.GetCommon()
	sig := common.TxnSignature
	common.TxnSignature = nil
	defer func() { common.TxnSignature = sig }()

	body, err := entry.Marshal(t)
	if err != nil {
		return [32]byte{}, fmt.Errorf("encode %s: %w", t.TxType(), err)
	}
	return hashing.Sha512Half(protocol.HashPrefixTxSign[:], body), nil
}

// Hash is the transaction id: the full signed encoding under the id prefix.
func Hash(t Transaction) ([32]byte, error) {
	body, err := entry.Marshal(t)
	if err != nil {
		return [32]byte{}, fmt.Errorf("encode %s: %w", t.TxType(), err)
	}
	return hashing.Sha512Half(protocol.HashPrefixTransactionID[:], body), nil
}

// Sign fills in the account, public key and signature of t from kp.
func Sign(t Transaction, kp *crypto.KeyPair) error {
	common := t.GetCommon()
	common.TransactionType = t.TxType()
	common.Account = entry.Address(kp.AccountID())
	common.SigningPubKey = kp.PublicKey

	digest, err := SigningHash(t)
	if err != nil {
		return err
	}
	sig, err := kp.Sign(digest[:])
	if err != nil {
		return fmt.Errorf("sign %s: %w", t.TxType(), err)
	}
	common.TxnSignature = sig
	return nil
}

// VerifySignature checks that t is signed by the key that controls its account.
func VerifySignature(t Transaction) Result {
	common := t.GetCommon()
	if len(common.SigningPubKey) == 0 || len(common.TxnSignature) == 0 {
		return TemBAD_SIGNATURE
	}
	if entry.Address(crypto.CalcAccountID(common.SigningPubKey)) != common.Account {
		return TefBAD_AUTH
	}
	digest, err := SigningHash(t)
	if err != nil {
		return TemMALFORMED
	}
	if !crypto.Verify(common.SigningPubKey, digest[:], common.TxnSignature) {
		return TefBAD_SIGNATURE
	}
	return TesSUCCESS
}
