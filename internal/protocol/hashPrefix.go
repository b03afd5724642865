// Package protocol holds the domain-separation constants shared by hashing
// and signing.
package protocol

// makeHashPrefix combines three ASCII characters into a 4-byte prefix with the last byte set to zero.
func makeHashPrefix(a, b, c byte) [4]byte {
	return [4]byte{a, b, c, 0}
}

// Hash prefixes keep transaction ids and signing digests from ever colliding.
var (
	HashPrefixTransactionID = makeHashPrefix('T', 'X', 'N') // Transaction ID
	HashPrefixTxSign        = makeHashPrefix('S', 'T', 'X') // TX for signing
)
