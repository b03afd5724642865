package secp256k1

import (
	"encoding/hex"
	"testing"

	crypto "github.com/LeJamon/solcastd/internal/crypto/common"
	"github.com/stretchr/testify/require"
)

func TestGenerateKeypair(t *testing.T) {
	provider := NewProvider()

	privateKey, publicKey, err := provider.GenerateKeypair([]byte("test seed for secp256k1"))
	require.NoError(t, err)

	privBytes, err := hex.DecodeString(privateKey)
	require.NoError(t, err)
	require.Len(t, privBytes, 32)

	pubBytes, err := hex.DecodeString(publicKey)
	require.NoError(t, err)
	require.Len(t, pubBytes, 33)
	require.Contains(t, []byte{0x02, 0x03}, pubBytes[0])
}

func TestSignAndVerify(t *testing.T) {
	provider := NewProvider()
	privateKey, publicKeyHex, err := provider.GenerateKeypair([]byte("test seed for secp256k1"))
	require.NoError(t, err)
	publicKey, _ := hex.DecodeString(publicKeyHex)

	digest := crypto.Sha512Half([]byte("test message"))
	sig, err := provider.Sign(digest[:], privateKey)
	require.NoError(t, err)

	require.True(t, provider.Verify(digest[:], publicKey, sig))

	other := crypto.Sha512Half([]byte("wrong message"))
	require.False(t, provider.Verify(other[:], publicKey, sig))
	require.False(t, provider.Verify(digest[:], publicKey, []byte{0x30, 0x01}))
}

func TestIsOnCurve(t *testing.T) {
	// x-coordinate of the generator point
	gx, _ := hex.DecodeString("79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798")
	var x [32]byte
	copy(x[:], gx)
	require.True(t, IsOnCurve(x))

	// p itself is not a field element
	p, _ := hex.DecodeString("fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f")
	copy(x[:], p)
	require.False(t, IsOnCurve(x))
}
