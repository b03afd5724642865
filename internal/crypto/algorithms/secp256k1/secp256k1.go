package secp256k1

import (
	"encoding/hex"
	"errors"
	"strings"

	crypto "github.com/LeJamon/solcastd/internal/crypto/common"
	dsecp "github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

var (
	ErrInvalidPrivateKey = errors.New("invalid private key format")
	ErrInvalidSignature  = errors.New("invalid signature format")
)

// Provider signs and verifies transaction digests with secp256k1 keys.
// Public keys are 33-byte compressed points, signatures are DER encoded.
type Provider struct{}

func NewProvider() *Provider {
	return &Provider{}
}

// GenerateKeypair derives a keypair from seed and returns the private scalar
// and compressed public key as upper-case hex.
func (p *Provider) GenerateKeypair(seed []byte) (string, string, error) {
	keyMaterial := crypto.Sha512Half(seed)
	priv := dsecp.PrivKeyFromBytes(keyMaterial[:])
	if priv.Key.IsZero() {
		return "", "", ErrInvalidPrivateKey
	}
	pub := priv.PubKey().SerializeCompressed()

	return strings.ToUpper(hex.EncodeToString(priv.Serialize())), strings.ToUpper(hex.EncodeToString(pub)), nil
}

// Sign produces a DER signature of digest.
func (p *Provider) Sign(digest []byte, privateKeyHex string) ([]byte, error) {
	privBytes, err := hex.DecodeString(privateKeyHex)
	if err != nil || len(privBytes) != dsecp.PrivKeyBytesLen {
		return nil, ErrInvalidPrivateKey
	}
	priv := dsecp.PrivKeyFromBytes(privBytes)
	return ecdsa.Sign(priv, digest).Serialize(), nil
}

// Verify checks a DER signature over digest against a compressed public key.
func (p *Provider) Verify(digest, publicKey, sig []byte) bool {
	pub, err := dsecp.ParsePubKey(publicKey)
	if err != nil {
		return false
	}
	parsed, err := ecdsa.ParseDERSignature(sig)
	if err != nil {
		return false
	}
	return parsed.Verify(digest, pub)
}

// IsOnCurve reports whether x is the x-coordinate of a point on the curve,
// i.e. whether 0x02||x parses as a compressed public key.
func IsOnCurve(x [32]byte) bool {
	compressed := make([]byte, 0, dsecp.PubKeyBytesLenCompressed)
	compressed = append(compressed, dsecp.PubKeyFormatCompressedEven)
	compressed = append(compressed, x[:]...)
	_, err := dsecp.ParsePubKey(compressed)
	return err == nil
}
