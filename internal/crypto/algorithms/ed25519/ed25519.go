package ed25519

import (
	"bytes"
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"strings"

	crypto "github.com/LeJamon/solcastd/internal/crypto/common"
)

// KeyPrefix marks a 33-byte public key as Ed25519.
const KeyPrefix byte = 0xED

var (
	ErrInvalidPrivateKey = errors.New("invalid private key format")
	ErrInvalidPublicKey  = errors.New("invalid public key format")
)

// Provider signs and verifies transaction digests with Ed25519 keys.
type Provider struct{}

func NewProvider() *Provider {
	return &Provider{}
}

// GenerateKeypair derives a keypair from seed. Both keys are returned as
// upper-case hex carrying the 0xED prefix.
func (p *Provider) GenerateKeypair(seed []byte) (string, string, error) {
	keyMaterial := crypto.Sha512Half(seed)
	pubKey, privKey, err := ed25519.GenerateKey(bytes.NewReader(keyMaterial[:]))
	if err != nil {
		return "", "", err
	}

	prefixedPub := append([]byte{KeyPrefix}, pubKey...)
	prefixedPriv := append([]byte{KeyPrefix}, privKey.Seed()...)

	return strings.ToUpper(hex.EncodeToString(prefixedPriv)), strings.ToUpper(hex.EncodeToString(prefixedPub)), nil
}

// Sign signs digest with a prefixed hex private key.
func (p *Provider) Sign(digest []byte, privateKeyHex string) ([]byte, error) {
	privBytes, err := hex.DecodeString(privateKeyHex)
	if err != nil || len(privBytes) != ed25519.SeedSize+1 || privBytes[0] != KeyPrefix {
		return nil, ErrInvalidPrivateKey
	}
	signingKey := ed25519.NewKeyFromSeed(privBytes[1:])
	return ed25519.Sign(signingKey, digest), nil
}

// Verify checks sig over digest against a 33-byte prefixed public key.
func (p *Provider) Verify(digest, publicKey, sig []byte) bool {
	if len(publicKey) != ed25519.PublicKeySize+1 || publicKey[0] != KeyPrefix {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(publicKey[1:]), digest, sig)
}
