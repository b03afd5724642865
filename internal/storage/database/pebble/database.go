package pebble

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cockroachdb/pebble"

	"github.com/LeJamon/solcastd/internal/storage/database"
)

// handle is one open pebble database shared by every DB returned for it.
type handle struct {
	mu sync.RWMutex
	db *pebble.DB
}

// get returns the database with the read lock held; release with h.mu.RUnlock.
func (h *handle) get() (*pebble.DB, error) {
	h.mu.RLock()
	if h.db == nil {
		h.mu.RUnlock()
		return nil, database.ErrDBClosed
	}
	return h.db, nil
}

func (h *handle) close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.db == nil {
		return nil
	}
	err := h.db.Close()
	h.db = nil
	return err
}

// DB implements database.DB on pebble. Every write is synced.
type DB struct {
	h *handle
}

func (p *DB) Read(ctx context.Context, key []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	db, err := p.h.get()
	if err != nil {
		return nil, err
	}
	defer p.h.mu.RUnlock()

	val, closer, err := db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, database.ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	return append([]byte(nil), val...), nil
}

func (p *DB) Write(ctx context.Context, key, value []byte) error {
	return p.Batch(ctx, []database.BatchOperation{database.Put(key, value)})
}

func (p *DB) Delete(ctx context.Context, key []byte) error {
	return p.Batch(ctx, []database.BatchOperation{database.Del(key)})
}

func (p *DB) Batch(ctx context.Context, ops []database.BatchOperation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	db, err := p.h.get()
	if err != nil {
		return err
	}
	defer p.h.mu.RUnlock()

	b := db.NewBatch()
	defer b.Close()
	for _, op := range ops {
		switch op.Type {
		case database.BatchPut:
			err = b.Set(op.Key, op.Value, nil)
		case database.BatchDelete:
			err = b.Delete(op.Key, nil)
		default:
			err = fmt.Errorf("unknown batch operation type %d", op.Type)
		}
		if err != nil {
			return fmt.Errorf("%w: %v", database.ErrBatchOperationFailed, err)
		}
	}
	return b.Commit(pebble.Sync)
}

func (p *DB) Iterator(ctx context.Context, start, end []byte) (database.Iterator, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	db, err := p.h.get()
	if err != nil {
		return nil, err
	}
	defer p.h.mu.RUnlock()

	it, err := db.NewIter(&pebble.IterOptions{LowerBound: start, UpperBound: end})
	if err != nil {
		return nil, err
	}
	return &iterator{it: it}, nil
}

// iterator copies each entry out so callers may keep it after Next.
type iterator struct {
	it         *pebble.Iterator
	positioned bool
	key, value []byte
}

func (i *iterator) Next() bool {
	var ok bool
	if i.positioned {
		ok = i.it.Next()
	} else {
		i.positioned = true
		ok = i.it.First()
	}
	if !ok {
		i.key, i.value = nil, nil
		return false
	}
	i.key = append(i.key[:0:0], i.it.Key()...)
	i.value = append(i.value[:0:0], i.it.Value()...)
	return true
}

func (i *iterator) Key() []byte   { return i.key }
func (i *iterator) Value() []byte { return i.value }
func (i *iterator) Error() error  { return i.it.Error() }
func (i *iterator) Close() error  { return i.it.Close() }
