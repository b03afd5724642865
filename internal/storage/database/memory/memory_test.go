package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeJamon/solcastd/internal/storage/database"
	"github.com/LeJamon/solcastd/internal/storage/database/dbtest"
)

func TestMemoryDB(t *testing.T) {
	dbtest.Run(t, func(t *testing.T) database.DB {
		return NewDB()
	})
}

func TestIteratorIsSnapshot(t *testing.T) {
	ctx := context.Background()
	db := NewDB()
	require.NoError(t, db.Write(ctx, []byte("a"), []byte("1")))

	iter, err := db.Iterator(ctx, nil, nil)
	require.NoError(t, err)
	require.NoError(t, db.Write(ctx, []byte("b"), []byte("2")))

	var keys []string
	for iter.Next() {
		keys = append(keys, string(iter.Key()))
	}
	assert.Equal(t, []string{"a"}, keys)
}

func TestClosedDB(t *testing.T) {
	ctx := context.Background()
	m := NewManager()
	db, err := m.OpenDB("x")
	require.NoError(t, err)
	require.NoError(t, m.CloseDB("x"))

	_, err = db.Read(ctx, []byte("a"))
	assert.ErrorIs(t, err, database.ErrDBClosed)
	assert.ErrorIs(t, db.Write(ctx, []byte("a"), nil), database.ErrDBClosed)
	assert.ErrorIs(t, m.CloseDB("x"), database.ErrDBNotOpen)
}
