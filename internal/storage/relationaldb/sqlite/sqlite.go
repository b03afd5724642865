// Package sqlite backs the transaction history with an embedded SQLite file.
package sqlite

import (
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/LeJamon/solcastd/internal/storage/relationaldb"
)

var schema = []string{
	`PRAGMA journal_mode = WAL`,
	`CREATE TABLE IF NOT EXISTS transactions (
		seq         INTEGER PRIMARY KEY AUTOINCREMENT,
		trans_id    TEXT    NOT NULL UNIQUE,
		tx_type     TEXT    NOT NULL,
		account     TEXT    NOT NULL,
		market_id   TEXT    NOT NULL DEFAULT '',
		result      TEXT    NOT NULL,
		result_code INTEGER NOT NULL,
		ts          INTEGER NOT NULL,
		raw_txn     BLOB
	)`,
	`CREATE INDEX IF NOT EXISTS transactions_account_idx ON transactions (account, seq)`,
	`CREATE INDEX IF NOT EXISTS transactions_market_idx ON transactions (market_id, seq)`,
}

// NewDatabase creates a SQLite-backed history store. The DSN is a file path
// or ":memory:".
func NewDatabase(config *relationaldb.Config) (*relationaldb.SQLStore, error) {
	return relationaldb.NewSQLStore(relationaldb.Dialect{
		Name:        "sqlite",
		Schema:      schema,
		Placeholder: func(int) string { return "?" },
		// every pooled connection to :memory: would see its own empty database
		SingleConn: strings.Contains(config.DSN, ":memory:"),
	}, config)
}
