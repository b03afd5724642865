package crypto

import (
	"crypto/sha256"

	"github.com/decred/dcrd/crypto/ripemd160"
)

// AccountIDSize is the size of an account ID in bytes.
const AccountIDSize = 20

// CalcAccountID computes the 160-bit account ID of a public key (or of any
// other byte string) as RIPEMD160(SHA256(data)).
//
// Program-derived addresses go through the same function, with an off-curve
// digest as input instead of a public key.
func CalcAccountID(data []byte) [AccountIDSize]byte {
	sha256Hash := sha256.Sum256(data)

	hasher := ripemd160.New()
	hasher.Write(sha256Hash[:])

	var result [AccountIDSize]byte
	copy(result[:], hasher.Sum(nil))
	return result
}

// IsZeroAccountID returns true if the account ID is all zeros.
func IsZeroAccountID(id [AccountIDSize]byte) bool {
	return id == [AccountIDSize]byte{}
}
