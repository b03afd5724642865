package keylet

import (
	"encoding/binary"

	"github.com/LeJamon/solcastd/internal/core/ledger/entry"
	crypto "github.com/LeJamon/solcastd/internal/crypto/common"
)

// Space identifiers for keylet generation
const (
	spaceBalance        uint16 = 'b' // Per-owner asset balance
	spaceMarket         uint16 = 'm' // Prediction market
	spaceRegistry       uint16 = 'r' // Market registry (singleton)
	spaceProgramAddress uint16 = 'P' // Program-derived addresses
	spaceTransaction    uint16 = 't' // Applied transaction markers
)

// Keylet represents an addressable location in the ledger state.
// It combines a type identifier with a 256-bit key.
type Keylet struct {
	Type entry.Type
	Key  [32]byte
}

// indexHash computes a keylet key by hashing the space and provided data.
func indexHash(space uint16, data ...[]byte) [32]byte {
	spaceBytes := make([]byte, 2)
	binary.BigEndian.PutUint16(spaceBytes, space)

	inputs := make([][]byte, 0, len(data)+1)
	inputs = append(inputs, spaceBytes)
	inputs = append(inputs, data...)

	return crypto.Sha512Half(inputs...)
}

// Registry returns the keylet for the singleton market registry.
func Registry() Keylet {
	// Singleton - no additional data needed
	return Keylet{
		Type: entry.TypeRegistry,
		Key:  indexHash(spaceRegistry),
	}
}

// Market returns the keylet for the market with the given identifier.
func Market(marketID string) Keylet {
	return Keylet{
		Type: entry.TypeMarket,
		Key:  indexHash(spaceMarket, []byte(marketID)),
	}
}

// Balance returns the keylet for owner's balance of asset.
func Balance(owner entry.Address, asset entry.Asset) Keylet {
	return Keylet{
		Type: entry.TypeBalance,
		Key:  indexHash(spaceBalance, owner[:], asset[:]),
	}
}

// AppliedTx returns the keylet marking the transaction with the given hash as applied.
func AppliedTx(hash [32]byte) Keylet {
	return Keylet{
		Type: entry.TypeAppliedTx,
		Key:  indexHash(spaceTransaction, hash[:]),
	}
}
