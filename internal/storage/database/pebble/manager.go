// Package pebble is the default durable backend of the ledger store.
package pebble

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"

	"github.com/LeJamon/solcastd/internal/storage/database"
)

// DefaultCacheSize is the block cache shared by every database of a Manager.
const DefaultCacheSize = 64 << 20

// Manager owns the pebble databases under one directory. Databases share a
// single block cache.
type Manager struct {
	mu        sync.Mutex
	dir       string
	fs        vfs.FS
	cacheSize int64
	cache     *pebble.Cache
	open      map[string]*handle
}

// Option configures a Manager.
type Option func(*Manager)

// WithInMemory keeps every database on an in-memory filesystem.
func WithInMemory() Option {
	return func(m *Manager) { m.fs = vfs.NewMem() }
}

// WithCacheSize sets the shared block cache size in bytes.
func WithCacheSize(bytes int64) Option {
	return func(m *Manager) { m.cacheSize = bytes }
}

// NewManager creates a manager rooted at dir. Nothing is opened until OpenDB.
func NewManager(dir string, opts ...Option) *Manager {
	m := &Manager{
		dir:       dir,
		cacheSize: DefaultCacheSize,
		open:      make(map[string]*handle),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// OpenDB opens (or returns the already open) database called name, stored
// in <dir>/<name>.db.
func (m *Manager) OpenDB(name string) (database.DB, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if h, ok := m.open[name]; ok {
		return &DB{h: h}, nil
	}
	if m.cache == nil {
		m.cache = pebble.NewCache(m.cacheSize)
	}

	opts := &pebble.Options{Cache: m.cache}
	if m.fs != nil {
		opts.FS = m.fs
	}
	db, err := pebble.Open(filepath.Join(m.dir, name+".db"), opts)
	if err != nil {
		return nil, fmt.Errorf("open pebble database %s: %w", name, err)
	}

	h := &handle{db: db}
	m.open[name] = h
	return &DB{h: h}, nil
}

// CloseDB closes one database. Handles returned for it fail with ErrDBClosed.
func (m *Manager) CloseDB(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	h, ok := m.open[name]
	if !ok {
		return fmt.Errorf("%w: %s", database.ErrDBNotOpen, name)
	}
	delete(m.open, name)
	return h.close()
}

// Close closes every database and releases the block cache.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for name, h := range m.open {
		if err := h.close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", name, err))
		}
		delete(m.open, name)
	}
	if m.cache != nil {
		m.cache.Unref()
		m.cache = nil
	}
	return errors.Join(errs...)
}
