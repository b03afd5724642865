package memory

import (
	"fmt"
	"sync"

	"github.com/LeJamon/solcastd/internal/storage/database"
)

// Manager hands out btree-backed databases that live until Close. Reopening
// a name returns the same contents.
type Manager struct {
	mu   sync.Mutex
	open map[string]*DB
}

func NewManager() *Manager {
	return &Manager{open: make(map[string]*DB)}
}

func (m *Manager) OpenDB(name string) (database.DB, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	db, ok := m.open[name]
	if !ok {
		db = NewDB()
		m.open[name] = db
	}
	return db, nil
}

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

// Close drops every database.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, db := range m.open {
		_ = db.Close()
	}
	clear(m.open)
	return nil
}
