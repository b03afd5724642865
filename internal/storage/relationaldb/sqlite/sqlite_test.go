package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeJamon/solcastd/internal/storage/relationaldb"
)

func openTestDB(t *testing.T, dsn string) relationaldb.Database {
	t.Helper()
	cfg := relationaldb.NewConfig()
	cfg.DSN = dsn
	db, err := NewDatabase(cfg)
	require.NoError(t, err)
	require.NoError(t, db.Open(context.Background()))
	t.Cleanup(func() { _ = db.Close(context.Background()) })
	return db
}

func record(hash byte, account byte, market string, at time.Time) *relationaldb.TransactionInfo {
	return &relationaldb.TransactionInfo{
		Hash:       relationaldb.Hash{hash},
		TxType:     "BuyShare",
		Account:    relationaldb.AccountID{account},
		MarketID:   market,
		Result:     "tesSUCCESS",
		ResultCode: 0,
		Timestamp:  at,
		RawTxn:     []byte{0xde, 0xad},
	}
}

func TestSaveAndGetTransaction(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t, ":memory:")
	at := time.Date(2024, 11, 5, 12, 0, 0, 0, time.UTC)

	in := record(1, 7, "m1", at)
	require.NoError(t, db.SaveTransaction(ctx, in))
	// same hash again is ignored
	require.NoError(t, db.SaveTransaction(ctx, in))

	got, err := db.GetTransaction(ctx, in.Hash)
	require.NoError(t, err)
	assert.Equal(t, in, got)

	count, err := db.GetTransactionCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	_, err = db.GetTransaction(ctx, relationaldb.Hash{9})
	assert.ErrorIs(t, err, relationaldb.ErrTransactionNotFound)
}

func TestGetTransactionsFilters(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t, ":memory:")
	at := time.Date(2024, 11, 5, 12, 0, 0, 0, time.UTC)

	require.NoError(t, db.SaveTransaction(ctx, record(1, 1, "m1", at)))
	require.NoError(t, db.SaveTransaction(ctx, record(2, 2, "m1", at.Add(time.Second))))
	require.NoError(t, db.SaveTransaction(ctx, record(3, 1, "m2", at.Add(2*time.Second))))
	require.NoError(t, db.SaveTransaction(ctx, record(4, 1, "", at.Add(3*time.Second))))

	tests := []struct {
		name  string
		query relationaldb.TxQuery
		want  []byte
	}{
		{name: "all newest first", query: relationaldb.TxQuery{}, want: []byte{4, 3, 2, 1}},
		{name: "by account", query: relationaldb.TxQuery{Account: &relationaldb.AccountID{1}}, want: []byte{4, 3, 1}},
		{name: "by market", query: relationaldb.TxQuery{MarketID: "m1"}, want: []byte{2, 1}},
		{name: "account and market", query: relationaldb.TxQuery{Account: &relationaldb.AccountID{1}, MarketID: "m1"}, want: []byte{1}},
		{name: "limit and offset", query: relationaldb.TxQuery{Limit: 2, Offset: 1}, want: []byte{3, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.GetTransactions(ctx, tt.query)
			require.NoError(t, err)
			var hashes []byte
			for _, info := range got {
				hashes = append(hashes, info.Hash[0])
			}
			assert.Equal(t, tt.want, hashes)
		})
	}

	_, err := db.GetTransactions(ctx, relationaldb.TxQuery{Limit: -1})
	assert.ErrorIs(t, err, relationaldb.ErrInvalidLimit)
}

func TestFileDatabaseReopen(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "history.db")

	cfg := relationaldb.NewConfig()
	cfg.DSN = dsn
	db, err := NewDatabase(cfg)
	require.NoError(t, err)
	require.NoError(t, db.Open(ctx))
	require.NoError(t, db.SaveTransaction(ctx, record(1, 1, "m1", time.Unix(100, 0).UTC())))
	require.NoError(t, db.Close(ctx))

	assert.ErrorIs(t, db.SaveTransaction(ctx, record(2, 1, "m1", time.Now())), relationaldb.ErrDatabaseClosed)

	reopened := openTestDB(t, dsn)
	count, err := reopened.GetTransactionCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestConfigValidation(t *testing.T) {
	cfg := relationaldb.NewConfig()
	_, err := NewDatabase(cfg)
	assert.ErrorIs(t, err, relationaldb.ErrMissingDSN)
	assert.True(t, relationaldb.IsErrorType(err, relationaldb.ErrorTypeConfiguration))

	cfg.DSN = ":memory:"
	cfg.Driver = "mysql"
	_, err = NewDatabase(cfg)
	assert.ErrorIs(t, err, relationaldb.ErrInvalidDriver)
}
