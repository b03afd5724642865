// Package storage selects and opens the key-value backend the ledger runs on.
package storage

import (
	"fmt"

	"github.com/LeJamon/solcastd/internal/storage/database"
	"github.com/LeJamon/solcastd/internal/storage/database/leveldb"
	"github.com/LeJamon/solcastd/internal/storage/database/memory"
	"github.com/LeJamon/solcastd/internal/storage/database/pebble"
)

// Supported backend names.
const (
	BackendPebble  = "pebble"
	BackendLevelDB = "leveldb"
	BackendMemory  = "memory"
)

// Backends lists every supported backend name.
var Backends = []string{BackendPebble, BackendLevelDB, BackendMemory}

// OpenManager returns a database manager for the named backend rooted at dir.
func OpenManager(backend, dir string) (database.Manager, error) {
	switch backend {
	case BackendPebble, "":
		return pebble.NewManager(dir), nil
	case BackendLevelDB:
		return leveldb.NewManager(dir), nil
	case BackendMemory:
		return memory.NewManager(), nil
	default:
		return nil, fmt.Errorf("%w: %q", database.ErrUnknownBackend, backend)
	}
}
