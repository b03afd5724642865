package keylet

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/LeJamon/solcastd/internal/core/ledger/entry"
	"github.com/LeJamon/solcastd/internal/crypto"
	"github.com/LeJamon/solcastd/internal/crypto/algorithms/secp256k1"
)

// MaxSeedLen bounds every seed passed to the derivation.
const MaxSeedLen = 32

const (
	seedMarketAuthority = "market_authority"
	seedOptionMint      = "option_mint"
)

var (
	ErrInvalidSeed    = errors.New("invalid derivation seed")
	ErrNoViableBump   = errors.New("no off-curve bump found")
	ErrInvalidOptSide = errors.New("option side must be A or B")
)

// Derived is a program-derived address together with the bump that produced it.
type Derived struct {
	Address entry.Address
	Bump    uint8
}

// MarketAuthority derives the address that owns a market's escrow.
func MarketAuthority(programID entry.Address, marketID string) (Derived, error) {
	if err := ValidateMarketID(marketID); err != nil {
		return Derived{}, err
	}
	return FindProgramAddress(programID, []byte(seedMarketAuthority), []byte(marketID))
}

// OptionMint derives the receipt-token mint for one side ("A" or "B") of a market.
func OptionMint(programID entry.Address, marketID string, side string) (Derived, error) {
	if err := ValidateMarketID(marketID); err != nil {
		return Derived{}, err
	}
	if side != "A" && side != "B" {
		return Derived{}, ErrInvalidOptSide
	}
	return FindProgramAddress(programID, []byte(seedOptionMint), []byte(marketID), []byte(side))
}

// ValidateMarketID checks that id is usable as a derivation seed.
func ValidateMarketID(id string) error {
	switch {
	case id == "":
		return fmt.Errorf("%w: empty", ErrInvalidSeed)
	case len(id) > MaxSeedLen:
		return fmt.Errorf("%w: %d bytes exceeds %d", ErrInvalidSeed, len(id), MaxSeedLen)
	case !utf8.ValidString(id):
		return fmt.Errorf("%w: not valid UTF-8", ErrInvalidSeed)
	}
	return nil
}

// FindProgramAddress searches bumps from 255 down to 0 and returns the first
// candidate whose digest is not the x-coordinate of a secp256k1 point, so no
// private key can sign for it.
func FindProgramAddress(programID entry.Address, seeds ...[]byte) (Derived, error) {
	for _, s := range seeds {
		if len(s) == 0 || len(s) > MaxSeedLen {
			return Derived{}, ErrInvalidSeed
		}
	}

	for bump := 255; bump >= 0; bump-- {
		digest := programDigest(programID, byte(bump), seeds)
		if secp256k1.IsOnCurve(digest) {
			continue
		}
		return Derived{
			Address: entry.Address(crypto.CalcAccountID(digest[:])),
			Bump:    uint8(bump),
		}, nil
	}
	return Derived{}, ErrNoViableBump
}

// CreateProgramAddress recomputes the address for a known bump.
func CreateProgramAddress(programID entry.Address, bump uint8, seeds ...[]byte) (entry.Address, error) {
	digest := programDigest(programID, bump, seeds)
	if secp256k1.IsOnCurve(digest) {
		return entry.Address{}, ErrNoViableBump
	}
	return entry.Address(crypto.CalcAccountID(digest[:])), nil
}

func programDigest(programID entry.Address, bump byte, seeds [][]byte) [32]byte {
	parts := make([][]byte, 0, len(seeds)+2)
	parts = append(parts, seeds...)
	parts = append(parts, []byte{bump}, programID[:])
	return indexHash(spaceProgramAddress, parts...)
}
