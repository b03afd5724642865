package crypto

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalcAccountID(t *testing.T) {
	// Genesis key of the reference network: rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh
	pubKey, err := hex.DecodeString("0330E7FC9D56BB25D6893BA3F317AE5BCF33B3291BD63DB32654A313222F7FD020")
	require.NoError(t, err)

	accountID := CalcAccountID(pubKey)

	expectedID, err := hex.DecodeString("b5f762798a53d543a014caf8b297cff8f2f937e8")
	require.NoError(t, err)
	assert.Equal(t, expectedID, accountID[:])
}

func TestIsZeroAccountID(t *testing.T) {
	assert.True(t, IsZeroAccountID([AccountIDSize]byte{}))
	assert.False(t, IsZeroAccountID(CalcAccountID([]byte("x"))))
}
