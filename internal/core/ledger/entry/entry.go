// Package entry defines the records held in the ledger account store and
// their on-disk encoding.
package entry

import (
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
)

// Type represents a ledger entry type
type Type uint16

// All known ledger entry types
const (
	TypeBalance   Type = 0x0062 // Per-owner, per-asset fungible balance
	TypeMarket    Type = 0x006d // Prediction market
	TypeRegistry  Type = 0x0072 // Global market registry (singleton)
	TypeAppliedTx Type = 0x0074 // Marker for an applied transaction hash
)

// String returns the string representation of the Type
func (t Type) String() string {
	switch t {
	case TypeBalance:
		return "Balance"
	case TypeMarket:
		return "Market"
	case TypeRegistry:
		return "Registry"
	case TypeAppliedTx:
		return "AppliedTx"
	default:
		return fmt.Sprintf("Unknown(%#x)", uint16(t))
	}
}

// Entry defines the interface for all ledger entries
type Entry interface {
	Type() Type
	Validate() error
}

// AddressSize is the size of an account address in bytes.
const AddressSize = 20

var ErrInvalidAddress = errors.New("invalid address")

// Address identifies an account: either a key holder (RIPEMD160(SHA256(pubkey)))
// or a program-derived authority.
type Address [AddressSize]byte

// String renders the address in base58.
func (a Address) String() string {
	return base58.Encode(a[:])
}

func (a Address) IsZero() bool {
	return a == Address{}
}

// ParseAddress decodes a base58 address.
func ParseAddress(s string) (Address, error) {
	var a Address
	raw, err := base58.Decode(s)
	if err != nil || len(raw) != AddressSize {
		return a, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	copy(a[:], raw)
	return a, nil
}

// Asset identifies a fungible token by its mint address. The zero asset is
// the native unit.
type Asset Address

// NativeAsset is the ledger's native unit of account.
var NativeAsset Asset

func (a Asset) String() string {
	if a == NativeAsset {
		return "native"
	}
	return Address(a).String()
}

func (a Asset) IsNative() bool {
	return a == NativeAsset
}

// ParseAsset accepts "native" (or "") and base58 mint addresses.
func ParseAsset(s string) (Asset, error) {
	if s == "" || s == "native" {
		return NativeAsset, nil
	}
	addr, err := ParseAddress(s)
	if err != nil {
		return NativeAsset, err
	}
	return Asset(addr), nil
}
