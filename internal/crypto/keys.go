package crypto

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/LeJamon/solcastd/internal/crypto/algorithms/ed25519"
	"github.com/LeJamon/solcastd/internal/crypto/algorithms/secp256k1"
)

// ErrUnsupportedKeyType is returned when an unsupported key type is requested.
var ErrUnsupportedKeyType = errors.New("unsupported key type")

var (
	secpProvider = secp256k1.NewProvider()
	edProvider   = ed25519.NewProvider()
)

// KeyPair is a signing identity. PrivateKey is kept in the provider's hex
// form so it can be written to and read from key files unchanged.
type KeyPair struct {
	Type       KeyType
	PrivateKey string
	PublicKey  []byte
}

// GenerateKeyPair deterministically derives a keypair of the given type from seed.
func GenerateKeyPair(seed []byte, keyType KeyType) (*KeyPair, error) {
	var privHex, pubHex string
	var err error

	switch keyType {
	case KeyTypeSecp256k1:
		privHex, pubHex, err = secpProvider.GenerateKeypair(seed)
	case KeyTypeEd25519:
		privHex, pubHex, err = edProvider.GenerateKeypair(seed)
	default:
		return nil, ErrUnsupportedKeyType
	}
	if err != nil {
		return nil, fmt.Errorf("generate %s keypair: %w", keyType, err)
	}

	pub, err := hex.DecodeString(pubHex)
	if err != nil {
		return nil, err
	}
	return &KeyPair{Type: keyType, PrivateKey: privHex, PublicKey: pub}, nil
}

// AccountID returns the account ID controlled by this keypair.
func (kp *KeyPair) AccountID() [AccountIDSize]byte {
	return CalcAccountID(kp.PublicKey)
}

// Sign signs a transaction digest.
func (kp *KeyPair) Sign(digest []byte) ([]byte, error) {
	switch kp.Type {
	case KeyTypeSecp256k1:
		return secpProvider.Sign(digest, kp.PrivateKey)
	case KeyTypeEd25519:
		return edProvider.Sign(digest, kp.PrivateKey)
	default:
		return nil, ErrUnsupportedKeyType
	}
}

// Verify checks sig over digest, picking the algorithm from the public key prefix.
func Verify(pubKey, digest, sig []byte) bool {
	switch PublicKeyType(pubKey) {
	case KeyTypeSecp256k1:
		return secpProvider.Verify(digest, pubKey, sig)
	case KeyTypeEd25519:
		return edProvider.Verify(digest, pubKey, sig)
	default:
		return false
	}
}
