// Package crypto provides the signing identities used to authorize
// transactions: key types, keypairs, signature dispatch and account IDs.
package crypto

import "strings"

// KeyType selects the signature algorithm of a keypair.
type KeyType int

const (
	KeyTypeUnknown KeyType = iota
	KeyTypeSecp256k1
	KeyTypeEd25519
)

// Compressed public keys are 33 bytes; the first byte tells the algorithm.
const (
	publicKeySize  = 33
	ed25519Prefix  = 0xED
	secpEvenPrefix = 0x02
	secpOddPrefix  = 0x03
)

var keyTypeNames = map[KeyType]string{
	KeyTypeSecp256k1: "secp256k1",
	KeyTypeEd25519:   "ed25519",
}

func (kt KeyType) String() string {
	if name, ok := keyTypeNames[kt]; ok {
		return name
	}
	return "unknown"
}

// ParseKeyType parses the names accepted in key files and on the command
// line. The empty name selects secp256k1.
func ParseKeyType(name string) KeyType {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return KeyTypeSecp256k1
	}
	for kt, n := range keyTypeNames {
		if n == name {
			return kt
		}
	}
	return KeyTypeUnknown
}

// PublicKeyType reports which algorithm produced pubKey.
func PublicKeyType(pubKey []byte) KeyType {
	if len(pubKey) != publicKeySize {
		return KeyTypeUnknown
	}
	switch pubKey[0] {
	case ed25519Prefix:
		return KeyTypeEd25519
	case secpEvenPrefix, secpOddPrefix:
		return KeyTypeSecp256k1
	}
	return KeyTypeUnknown
}
