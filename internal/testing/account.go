package testing

import (
	"crypto/sha512"

	"github.com/LeJamon/solcastd/internal/core/ledger/entry"
	"github.com/LeJamon/solcastd/internal/crypto"
)

// KeyType constants for account key derivation.
const (
	KeyTypeSecp256k1 = crypto.KeyTypeSecp256k1
	KeyTypeEd25519   = crypto.KeyTypeEd25519
)

// Account represents a test account with keypair and address information.
type Account struct {
	// Name is a human-readable identifier for the account (used for debugging).
	Name string

	// Seed is the seed bytes used to derive the keypair.
	Seed []byte

	// Keys signs transactions for the account.
	Keys *crypto.KeyPair

	// ID is the account address derived from the public key.
	ID entry.Address
}

// NewAccount creates a new test account with a deterministic keypair derived from the name.
// Using the same name will always produce the same account, making tests reproducible.
// By default, uses secp256k1 key derivation.
func NewAccount(name string) *Account {
	return NewAccountWithKeyType(name, KeyTypeSecp256k1)
}

// NewAccountWithKeyType creates a new test account with the specified key type.
func NewAccountWithKeyType(name string, keyType crypto.KeyType) *Account {
	hash := sha512.Sum512([]byte(name))
	seed := hash[:16]

	kp, err := crypto.GenerateKeyPair(seed, keyType)
	if err != nil {
		panic("failed to derive " + keyType.String() + " keypair for account " + name + ": " + err.Error())
	}
	return &Account{
		Name: name,
		Seed: seed,
		Keys: kp,
		ID:   entry.Address(kp.AccountID()),
	}
}

// Address returns the textual address of the account.
func (a *Account) Address() string {
	return a.ID.String()
}

// IsSecp256k1 returns true if the account uses secp256k1 keys.
func (a *Account) IsSecp256k1() bool {
	return a.Keys.Type == KeyTypeSecp256k1
}

// IsEd25519 returns true if the account uses ed25519 keys.
func (a *Account) IsEd25519() bool {
	return a.Keys.Type == KeyTypeEd25519
}

// String returns the account name for debugging.
func (a *Account) String() string {
	return a.Name
}
