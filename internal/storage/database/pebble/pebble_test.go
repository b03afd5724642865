package pebble

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/LeJamon/solcastd/internal/storage/database"
	"github.com/LeJamon/solcastd/internal/storage/database/dbtest"
)

func TestPebbleDB(t *testing.T) {
	dbtest.Run(t, func(t *testing.T) database.DB {
		m := NewManager(t.TempDir(), WithInMemory())
		t.Cleanup(func() { _ = m.Close() })
		db, err := m.OpenDB("test")
		require.NoError(t, err)
		return db
	})
}

func TestManagerLifecycle(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir)
	ctx := context.Background()

	db, err := m.OpenDB("ledger")
	require.NoError(t, err)
	require.NoError(t, db.Write(ctx, []byte("k"), []byte("v")))

	again, err := m.OpenDB("ledger")
	require.NoError(t, err)
	got, err := again.Read(ctx, []byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("v"), got)

	require.NoError(t, m.CloseDB("ledger"))
	_, err = os.Stat(filepath.Join(dir, "ledger.db"))
	require.NoError(t, err, "database directory should exist on disk")
	require.ErrorIs(t, m.CloseDB("ledger"), database.ErrDBNotOpen)

	// data survives reopen
	db, err = m.OpenDB("ledger")
	require.NoError(t, err)
	got, err = db.Read(ctx, []byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("v"), got)
	require.NoError(t, m.Close())
}

func TestClosedHandle(t *testing.T) {
	m := NewManager(t.TempDir(), WithInMemory(), WithCacheSize(1<<20))
	ctx := context.Background()

	db, err := m.OpenDB("ledger")
	require.NoError(t, err)
	require.NoError(t, m.Close())

	_, err = db.Read(ctx, []byte("k"))
	require.ErrorIs(t, err, database.ErrDBClosed)
	require.ErrorIs(t, db.Write(ctx, []byte("k"), []byte("v")), database.ErrDBClosed)
	_, err = db.Iterator(ctx, nil, nil)
	require.ErrorIs(t, err, database.ErrDBClosed)
}
