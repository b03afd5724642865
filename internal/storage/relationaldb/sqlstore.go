package relationaldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Dialect captures what differs between SQL engines.
type Dialect struct {
	// Name is the database/sql driver name
	Name string
	// Schema creates the tables and indexes; it must be idempotent
	Schema []string
	// Placeholder renders the n-th (1-based) bind parameter
	Placeholder func(n int) string
	// SingleConn forces one pooled connection (in-memory sqlite)
	SingleConn bool
}

// SQLStore implements Database on database/sql.
type SQLStore struct {
	dialect Dialect
	config  *Config
	db      *sql.DB
}

// NewSQLStore creates an unopened store.
func NewSQLStore(dialect Dialect, config *Config) (*SQLStore, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &SQLStore{dialect: dialect, config: config}, nil
}

// Open opens the database connection and initializes schema
func (s *SQLStore) Open(ctx context.Context) error {
	db, err := sql.Open(s.dialect.Name, s.config.DSN)
	if err != nil {
		return NewConnectionError("open", "failed to open database connection", err)
	}

	if s.dialect.SingleConn {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(s.config.MaxOpenConns)
		db.SetMaxIdleConns(s.config.MaxIdleConns)
	}
	db.SetConnMaxLifetime(s.config.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, s.config.DefaultTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return NewConnectionError("open", "failed to ping database", err)
	}

	for _, stmt := range s.dialect.Schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return NewSchemaError("open", "failed to initialize schema", err)
		}
	}

	s.db = db
	return nil
}

// Close closes the database connection
func (s *SQLStore) Close(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	if err != nil {
		return NewConnectionError("close", "failed to close database connection", err)
	}
	return nil
}

func (s *SQLStore) ph(n int) string {
	return s.dialect.Placeholder(n)
}

func (s *SQLStore) SaveTransaction(ctx context.Context, txInfo *TransactionInfo) error {
	if s.db == nil {
		return ErrDatabaseClosed
	}
	query := fmt.Sprintf(`INSERT INTO transactions
		(trans_id, tx_type, account, market_id, result, result_code, ts, raw_txn)
		VALUES (%s, %s, %s, %s, %s, %s, %s, %s)
		ON CONFLICT (trans_id) DO NOTHING`,
		s.ph(1), s.ph(2), s.ph(3), s.ph(4), s.ph(5), s.ph(6), s.ph(7), s.ph(8))

	_, err := s.db.ExecContext(ctx, query,
		txInfo.Hash.String(),
		txInfo.TxType,
		txInfo.Account.String(),
		txInfo.MarketID,
		txInfo.Result,
		txInfo.ResultCode,
		txInfo.Timestamp.UnixNano(),
		txInfo.RawTxn,
	)
	if err != nil {
		return NewQueryError("save_transaction", "failed to insert transaction", err)
	}
	return nil
}

const selectColumns = `SELECT trans_id, tx_type, account, market_id, result, result_code, ts, raw_txn FROM transactions`

func (s *SQLStore) GetTransaction(ctx context.Context, hash Hash) (*TransactionInfo, error) {
	if s.db == nil {
		return nil, ErrDatabaseClosed
	}
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE trans_id = "+s.ph(1), hash.String())
	info, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, NewQueryError("get_transaction", "failed to query transaction", err)
	}
	return info, nil
}

func (s *SQLStore) GetTransactions(ctx context.Context, q TxQuery) ([]TransactionInfo, error) {
	if s.db == nil {
		return nil, ErrDatabaseClosed
	}
	if q.Limit < 0 || q.Offset < 0 {
		return nil, ErrInvalidLimit
	}
	limit := q.Limit
	if limit == 0 {
		limit = DefaultQueryLimit
	}

	var (
		where []string
		args  []any
	)
	if q.Account != nil {
		args = append(args, q.Account.String())
		where = append(where, "account = "+s.ph(len(args)))
	}
	if q.MarketID != "" {
		args = append(args, q.MarketID)
		where = append(where, "market_id = "+s.ph(len(args)))
	}

	query := selectColumns
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, limit, q.Offset)
	query += fmt.Sprintf(" ORDER BY seq DESC LIMIT %s OFFSET %s", s.ph(len(args)-1), s.ph(len(args)))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, NewQueryError("get_transactions", "failed to query transactions", err)
	}
	defer rows.Close()

	var out []TransactionInfo
	for rows.Next() {
		info, err := scanTransaction(rows)
		if err != nil {
			return nil, NewQueryError("get_transactions", "failed to scan transaction", err)
		}
		out = append(out, *info)
	}
	if err := rows.Err(); err != nil {
		return nil, NewQueryError("get_transactions", "failed to iterate transactions", err)
	}
	return out, nil
}

func (s *SQLStore) GetTransactionCount(ctx context.Context) (int64, error) {
	if s.db == nil {
		return 0, ErrDatabaseClosed
	}
	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM transactions").Scan(&count); err != nil {
		return 0, NewQueryError("get_transaction_count", "failed to count transactions", err)
	}
	return count, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row scanner) (*TransactionInfo, error) {
	var (
		info    TransactionInfo
		hash    string
		account string
		ts      int64
	)
	if err := row.Scan(&hash, &info.TxType, &account, &info.MarketID, &info.Result, &info.ResultCode, &ts, &info.RawTxn); err != nil {
		return nil, err
	}
	var err error
	if info.Hash, err = ParseHash(hash); err != nil {
		return nil, err
	}
	if info.Account, err = ParseAccountID(account); err != nil {
		return nil, err
	}
	info.Timestamp = time.Unix(0, ts).UTC()
	return &info, nil
}
