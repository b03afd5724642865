// Package memory implements the database interfaces on an in-process B-tree.
// Nothing survives a restart; it backs tests and throwaway ledgers.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/LeJamon/solcastd/internal/storage/database"
	"github.com/google/btree"
)

const degree = 32

type item struct {
	key   []byte
	value []byte
}

func less(a, b item) bool {
	return bytes.Compare(a.key, b.key) < 0
}

type DB struct {
	mu     sync.RWMutex
	tree   *btree.BTreeG[item]
	closed bool
}

func NewDB() *DB {
	return &DB{tree: btree.NewG(degree, less)}
}

func (m *DB) Read(ctx context.Context, key []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, database.ErrDBClosed
	}

	it, ok := m.tree.Get(item{key: key})
	if !ok {
		return nil, database.ErrKeyNotFound
	}
	return bytes.Clone(it.value), nil
}

func (m *DB) Write(ctx context.Context, key, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return database.ErrDBClosed
	}
	m.tree.ReplaceOrInsert(item{key: bytes.Clone(key), value: bytes.Clone(value)})
	return nil
}

func (m *DB) Delete(ctx context.Context, key []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return database.ErrDBClosed
	}
	m.tree.Delete(item{key: key})
	return nil
}

func (m *DB) Batch(ctx context.Context, ops []database.BatchOperation) error {
	for _, op := range ops {
		if op.Type != database.BatchPut && op.Type != database.BatchDelete {
			return fmt.Errorf("unknown batch operation type: %d", op.Type)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return database.ErrDBClosed
	}
	for _, op := range ops {
		if op.Type == database.BatchPut {
			m.tree.ReplaceOrInsert(item{key: bytes.Clone(op.Key), value: bytes.Clone(op.Value)})
		} else {
			m.tree.Delete(item{key: op.Key})
		}
	}
	return nil
}

// Iterator walks a snapshot taken when it was created.
type Iterator struct {
	items []item
	pos   int
}

func (m *DB) Iterator(ctx context.Context, start, end []byte) (database.Iterator, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, database.ErrDBClosed
	}

	var items []item
	collect := func(it item) bool {
		if end != nil && bytes.Compare(it.key, end) >= 0 {
			return false
		}
		items = append(items, item{key: bytes.Clone(it.key), value: bytes.Clone(it.value)})
		return true
	}
	if start == nil {
		m.tree.Ascend(collect)
	} else {
		m.tree.AscendGreaterOrEqual(item{key: start}, collect)
	}
	return &Iterator{items: items, pos: -1}, nil
}

func (m *DB) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.tree.Clear(false)
	return nil
}

func (it *Iterator) Next() bool {
	if it.pos+1 >= len(it.items) {
		it.pos = len(it.items)
		return false
	}
	it.pos++
	return true
}

func (it *Iterator) Key() []byte {
	if it.pos < 0 || it.pos >= len(it.items) {
		return nil
	}
	return it.items[it.pos].key
}

func (it *Iterator) Value() []byte {
	if it.pos < 0 || it.pos >= len(it.items) {
		return nil
	}
	return it.items[it.pos].value
}

func (it *Iterator) Error() error { return nil }

func (it *Iterator) Close() error {
	it.items = nil
	return nil
}
