// Package dbtest holds the behavioural checks every database backend must pass.
package dbtest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeJamon/solcastd/internal/storage/database"
)

// Run exercises a backend. open must return a fresh, empty database.
func Run(t *testing.T, open func(t *testing.T) database.DB) {
	ctx := context.Background()

	t.Run("Read Write Delete", func(t *testing.T) {
		db := open(t)

		_, err := db.Read(ctx, []byte("missing"))
		require.ErrorIs(t, err, database.ErrKeyNotFound)

		require.NoError(t, db.Write(ctx, []byte("k"), []byte("v1")))
		got, err := db.Read(ctx, []byte("k"))
		require.NoError(t, err)
		assert.Equal(t, []byte("v1"), got)

		require.NoError(t, db.Write(ctx, []byte("k"), []byte("v2")))
		got, err = db.Read(ctx, []byte("k"))
		require.NoError(t, err)
		assert.Equal(t, []byte("v2"), got)

		// returned slices are owned by the caller
		got[0] = 'x'
		again, err := db.Read(ctx, []byte("k"))
		require.NoError(t, err)
		assert.Equal(t, []byte("v2"), again)

		require.NoError(t, db.Delete(ctx, []byte("k")))
		_, err = db.Read(ctx, []byte("k"))
		require.ErrorIs(t, err, database.ErrKeyNotFound)
	})

	t.Run("Batch Operations", func(t *testing.T) {
		db := open(t)
		require.NoError(t, db.Write(ctx, []byte("gone"), []byte("x")))

		ops := []database.BatchOperation{
			database.Put([]byte("a"), []byte("1")),
			database.Put([]byte("b"), []byte("2")),
			database.Del([]byte("gone")),
		}
		require.NoError(t, db.Batch(ctx, ops))

		for k, want := range map[string]string{"a": "1", "b": "2"} {
			got, err := db.Read(ctx, []byte(k))
			require.NoError(t, err)
			assert.Equal(t, want, string(got))
		}
		_, err := db.Read(ctx, []byte("gone"))
		require.ErrorIs(t, err, database.ErrKeyNotFound)

		bad := []database.BatchOperation{
			database.Put([]byte("c"), []byte("3")),
			{Type: database.BatchOpType(99), Key: []byte("d")},
		}
		require.Error(t, db.Batch(ctx, bad))
		_, err = db.Read(ctx, []byte("c"))
		require.ErrorIs(t, err, database.ErrKeyNotFound, "failed batch must not apply")
	})

	t.Run("Iterator Range", func(t *testing.T) {
		db := open(t)
		for i := 0; i < 10; i++ {
			require.NoError(t, db.Write(ctx, []byte(fmt.Sprintf("key-%02d", i)), []byte{byte(i)}))
		}

		iter, err := db.Iterator(ctx, []byte("key-03"), []byte("key-07"))
		require.NoError(t, err)
		var keys []string
		for iter.Next() {
			keys = append(keys, string(iter.Key()))
			assert.Len(t, iter.Value(), 1)
		}
		require.NoError(t, iter.Error())
		require.NoError(t, iter.Close())
		assert.Equal(t, []string{"key-03", "key-04", "key-05", "key-06"}, keys)

		iter, err = db.Iterator(ctx, nil, nil)
		require.NoError(t, err)
		count := 0
		for iter.Next() {
			count++
		}
		require.NoError(t, iter.Close())
		assert.Equal(t, 10, count)
	})

	t.Run("Concurrent Writers", func(t *testing.T) {
		db := open(t)
		var wg sync.WaitGroup
		for w := 0; w < 8; w++ {
			wg.Add(1)
			go func(w int) {
				defer wg.Done()
				for i := 0; i < 25; i++ {
					key := []byte(fmt.Sprintf("w%d-%d", w, i))
					assert.NoError(t, db.Batch(ctx, []database.BatchOperation{database.Put(key, key)}))
				}
			}(w)
		}
		wg.Wait()

		iter, err := db.Iterator(ctx, nil, nil)
		require.NoError(t, err)
		defer iter.Close()
		count := 0
		for iter.Next() {
			count++
		}
		assert.Equal(t, 200, count)
	})
}
