package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/LeJamon/solcastd/internal/storage/relationaldb"
	"github.com/LeJamon/solcastd/internal/storage/relationaldb/postgres"
	"github.com/LeJamon/solcastd/internal/storage/relationaldb/sqlite"
)

// OpenHistory creates and opens the history database described by cfg.
// The none driver yields a nil Database and no error.
func OpenHistory(ctx context.Context, cfg *relationaldb.Config) (relationaldb.Database, error) {
	var (
		db  relationaldb.Database
		err error
	)
	switch cfg.Driver {
	case relationaldb.DriverNone:
		return nil, nil
	case relationaldb.DriverSQLite:
		if err := ensureParentDir(cfg.DSN); err != nil {
			return nil, err
		}
		db, err = sqlite.NewDatabase(cfg)
	case relationaldb.DriverPostgres:
		db, err = postgres.NewDatabase(cfg)
	default:
		return nil, relationaldb.NewConfigurationError("open", "driver "+cfg.Driver, relationaldb.ErrInvalidDriver)
	}
	if err != nil {
		return nil, err
	}
	if err := db.Open(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

// ensureParentDir creates the directory of a sqlite file DSN.
func ensureParentDir(dsn string) error {
	if dsn == "" || strings.Contains(dsn, ":memory:") || strings.HasPrefix(dsn, "file:") {
		return nil
	}
	return os.MkdirAll(filepath.Dir(dsn), 0o755)
}
