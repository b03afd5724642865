package ledger

import "errors"

var (
	// ErrEntryNotFound is returned when a keylet has no record.
	ErrEntryNotFound = errors.New("ledger entry not found")

	// ErrEntryExists is returned when inserting over an existing record.
	ErrEntryExists = errors.New("ledger entry already exists")

	// ErrTableClosed is returned when using a state table after commit or discard.
	ErrTableClosed = errors.New("state table already committed or discarded")

	// ErrUndeclaredKey is returned when writing a key outside the declared write set.
	ErrUndeclaredKey = errors.New("write to undeclared ledger key")

	// ErrInvalidEntry wraps an entry that fails its own invariant checks.
	ErrInvalidEntry = errors.New("ledger entry violates invariants")
)
