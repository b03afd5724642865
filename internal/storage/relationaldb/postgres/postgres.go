// Package postgres backs the transaction history with PostgreSQL.
package postgres

import (
	"strconv"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/LeJamon/solcastd/internal/storage/relationaldb"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS transactions (
		seq         BIGSERIAL PRIMARY KEY,
		trans_id    TEXT     NOT NULL UNIQUE,
		tx_type     TEXT     NOT NULL,
		account     TEXT     NOT NULL,
		market_id   TEXT     NOT NULL DEFAULT '',
		result      TEXT     NOT NULL,
		result_code INTEGER  NOT NULL,
		ts          BIGINT   NOT NULL,
		raw_txn     BYTEA
	)`,
	`CREATE INDEX IF NOT EXISTS transactions_account_idx ON transactions (account, seq)`,
	`CREATE INDEX IF NOT EXISTS transactions_market_idx ON transactions (market_id, seq)`,
}

// NewDatabase creates a PostgreSQL-backed history store.
func NewDatabase(config *relationaldb.Config) (*relationaldb.SQLStore, error) {
	return relationaldb.NewSQLStore(relationaldb.Dialect{
		Name:        "postgres",
		Schema:      schema,
		Placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
	}, config)
}
