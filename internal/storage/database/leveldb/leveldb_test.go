package leveldb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/LeJamon/solcastd/internal/storage/database"
	"github.com/LeJamon/solcastd/internal/storage/database/dbtest"
)

func TestLevelDB(t *testing.T) {
	dbtest.Run(t, func(t *testing.T) database.DB {
		m := NewManager("", WithInMemory())
		t.Cleanup(func() { _ = m.Close() })
		db, err := m.OpenDB("test")
		require.NoError(t, err)
		return db
	})
}

func TestLevelDBReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	m := NewManager(dir)
	db, err := m.OpenDB("ledger")
	require.NoError(t, err)
	require.NoError(t, db.Batch(ctx, []database.BatchOperation{database.Put([]byte("k"), []byte("v"))}))
	require.NoError(t, m.Close())

	m = NewManager(dir)
	defer m.Close()
	db, err = m.OpenDB("ledger")
	require.NoError(t, err)
	got, err := db.Read(ctx, []byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("v"), got)
}
