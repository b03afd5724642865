package keylet

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeJamon/solcastd/internal/core/ledger/entry"
	"github.com/LeJamon/solcastd/internal/crypto/algorithms/secp256k1"
)

var testProgram = entry.Address{0x50, 0x72, 0x65, 0x64}

func TestKeyletsAreDistinct(t *testing.T) {
	owner := entry.Address{1}
	keys := map[[32]byte]string{}
	for name, k := range map[string]Keylet{
		"registry":       Registry(),
		"market m1":      Market("m1"),
		"market m2":      Market("m2"),
		"balance native": Balance(owner, entry.NativeAsset),
		"balance mint":   Balance(owner, entry.Asset{2}),
		"balance other":  Balance(entry.Address{2}, entry.NativeAsset),
		"applied tx":     AppliedTx([32]byte{1}),
		"applied other":  AppliedTx([32]byte{2}),
	} {
		prev, dup := keys[k.Key]
		require.False(t, dup, "%s collides with %s", name, prev)
		keys[k.Key] = name
	}

	assert.Equal(t, entry.TypeRegistry, Registry().Type)
	assert.Equal(t, entry.TypeMarket, Market("m1").Type)
	assert.Equal(t, entry.TypeBalance, Balance(owner, entry.NativeAsset).Type)
	assert.Equal(t, entry.TypeAppliedTx, AppliedTx([32]byte{1}).Type)
	assert.Equal(t, Market("m1"), Market("m1"))
}

func TestMarketAuthorityDeterministic(t *testing.T) {
	a, err := MarketAuthority(testProgram, "m1")
	require.NoError(t, err)
	b, err := MarketAuthority(testProgram, "m1")
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.False(t, a.Address.IsZero())

	other, err := MarketAuthority(testProgram, "m2")
	require.NoError(t, err)
	assert.NotEqual(t, a.Address, other.Address)

	otherProgram, err := MarketAuthority(entry.Address{0xff}, "m1")
	require.NoError(t, err)
	assert.NotEqual(t, a.Address, otherProgram.Address)
}

func TestMarketAuthorityIsOffCurve(t *testing.T) {
	for _, id := range []string{"m1", "m2", "btc-100k", "election-2024"} {
		d, err := MarketAuthority(testProgram, id)
		require.NoError(t, err)

		digest := programDigest(testProgram, d.Bump, [][]byte{[]byte(seedMarketAuthority), []byte(id)})
		assert.False(t, secp256k1.IsOnCurve(digest), "accepted digest must be off-curve")

		// every higher bump was rejected for being on-curve
		for bump := 255; bump > int(d.Bump); bump-- {
			digest := programDigest(testProgram, byte(bump), [][]byte{[]byte(seedMarketAuthority), []byte(id)})
			assert.True(t, secp256k1.IsOnCurve(digest))
		}

		addr, err := CreateProgramAddress(testProgram, d.Bump, []byte(seedMarketAuthority), []byte(id))
		require.NoError(t, err)
		assert.Equal(t, d.Address, addr)
	}
}

func TestOptionMints(t *testing.T) {
	a, err := OptionMint(testProgram, "m1", "A")
	require.NoError(t, err)
	b, err := OptionMint(testProgram, "m1", "B")
	require.NoError(t, err)
	auth, err := MarketAuthority(testProgram, "m1")
	require.NoError(t, err)

	assert.NotEqual(t, a.Address, b.Address)
	assert.NotEqual(t, a.Address, auth.Address)

	_, err = OptionMint(testProgram, "m1", "C")
	assert.ErrorIs(t, err, ErrInvalidOptSide)
}

func TestInvalidSeeds(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{name: "empty", id: ""},
		{name: "too long", id: strings.Repeat("x", MaxSeedLen+1)},
		{name: "invalid utf8", id: string([]byte{0xff, 0xfe})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MarketAuthority(testProgram, tt.id)
			assert.ErrorIs(t, err, ErrInvalidSeed)
			_, err = OptionMint(testProgram, tt.id, "A")
			assert.ErrorIs(t, err, ErrInvalidSeed)
		})
	}

	_, err := MarketAuthority(testProgram, strings.Repeat("x", MaxSeedLen))
	assert.NoError(t, err)
}
