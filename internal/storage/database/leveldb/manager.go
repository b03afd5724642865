// Package leveldb is the alternate durable backend of the ledger store.
package leveldb

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"

	"github.com/LeJamon/solcastd/internal/storage/database"
)

// Manager owns the goleveldb databases under one directory.
type Manager struct {
	mu      sync.Mutex
	dir     string
	memory  bool
	options *opt.Options
	open    map[string]*leveldb.DB
}

// Option configures a Manager.
type Option func(*Manager)

// WithInMemory backs every database with goleveldb's memory storage.
func WithInMemory() Option {
	return func(m *Manager) { m.memory = true }
}

// NewManager creates a manager rooted at dir. Nothing is opened until OpenDB.
func NewManager(dir string, opts ...Option) *Manager {
	m := &Manager{
		dir:     dir,
		options: &opt.Options{Strict: opt.DefaultStrict},
		open:    make(map[string]*leveldb.DB),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// OpenDB opens (or returns the already open) database called name, stored
// in <dir>/<name>.ldb.
func (m *Manager) OpenDB(name string) (database.DB, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if db, ok := m.open[name]; ok {
		return NewDB(db), nil
	}

	var (
		db  *leveldb.DB
		err error
	)
	if m.memory {
		db, err = leveldb.Open(storage.NewMemStorage(), m.options)
	} else {
		db, err = leveldb.OpenFile(filepath.Join(m.dir, name+".ldb"), m.options)
	}
	if err != nil {
		return nil, fmt.Errorf("open leveldb database %s: %w", name, err)
	}
	m.open[name] = db
	return NewDB(db), nil
}

// CloseDB closes one database.
func (m *Manager) CloseDB(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	db, ok := m.open[name]
	if !ok {
		return fmt.Errorf("%w: %s", database.ErrDBNotOpen, name)
	}
	delete(m.open, name)
	return db.Close()
}

// Close closes every database.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for name, db := range m.open {
		if err := db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", name, err))
		}
		delete(m.open, name)
	}
	return errors.Join(errs...)
}
