package database

import "errors"

// Errors shared by every backend. Callers match them with errors.Is.
var (
	ErrKeyNotFound          = errors.New("key not found")
	ErrDBClosed             = errors.New("database is closed")
	ErrDBNotOpen            = errors.New("database not open")
	ErrBatchOperationFailed = errors.New("batch operation failed")
	ErrUnknownBackend       = errors.New("unknown storage backend")
)
