// Package database defines the ordered key-value interface the ledger store
// persists records through. Backends live in the subpackages.
package database

import "context"

// DB is an ordered byte-keyed store. Values returned to the caller are
// copies the caller owns.
type DB interface {
	// Read returns ErrKeyNotFound for an absent key.
	Read(ctx context.Context, key []byte) ([]byte, error)
	Write(ctx context.Context, key, value []byte) error
	Delete(ctx context.Context, key []byte) error

	// Batch applies every operation or none of them. The ledger commits
	// each transaction as one batch.
	Batch(ctx context.Context, ops []BatchOperation) error

	// Iterator walks [start, end) in key order; a nil bound is open.
	Iterator(ctx context.Context, start, end []byte) (Iterator, error)
}

// Manager opens named databases under one data directory and owns them
// until Close.
type Manager interface {
	OpenDB(name string) (DB, error)
	CloseDB(name string) error
	Close() error
}

// Iterator yields entries until Next returns false; check Error afterwards.
type Iterator interface {
	Next() bool
	Key() []byte
	Value() []byte
	Error() error
	Close() error
}

// BatchOpType selects what a BatchOperation does.
type BatchOpType int

const (
	BatchPut BatchOpType = iota
	BatchDelete
)

// BatchOperation is one write of a batch. Value is ignored for deletes.
type BatchOperation struct {
	Type  BatchOpType
	Key   []byte
	Value []byte
}

// Put is shorthand for a BatchPut operation.
func Put(key, value []byte) BatchOperation {
	return BatchOperation{Type: BatchPut, Key: key, Value: value}
}

// Del is shorthand for a BatchDelete operation.
func Del(key []byte) BatchOperation {
	return BatchOperation{Type: BatchDelete, Key: key}
}
