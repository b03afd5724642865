package ledger

import (
	"bytes"
	"slices"
	"sync"
)

type keyLock struct {
	sync.Mutex
	refs int
}

// lockTable hands out one mutex per account key. Keys are always acquired in
// ascending order so two transactions sharing keys cannot deadlock.
type lockTable struct {
	mu    sync.Mutex
	locks map[[32]byte]*keyLock
}

func newLockTable() *lockTable {
	return &lockTable{locks: make(map[[32]byte]*keyLock)}
}

// acquire blocks until every key is held and returns the release function.
func (t *lockTable) acquire(keys [][32]byte) func() {
	sorted := slices.Clone(keys)
	slices.SortFunc(sorted, func(a, b [32]byte) int {
		return bytes.Compare(a[:], b[:])
	})
	sorted = slices.Compact(sorted)

	held := make([]*keyLock, 0, len(sorted))
	for _, k := range sorted {
		t.mu.Lock()
		l, ok := t.locks[k]
		if !ok {
			l = &keyLock{}
			t.locks[k] = l
		}
		l.refs++
		t.mu.Unlock()

		l.Lock()
		held = append(held, l)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
		t.mu.Lock()
		for i, k := range sorted {
			held[i].refs--
			if held[i].refs == 0 {
				delete(t.locks, k)
			}
		}
		t.mu.Unlock()
	}
}

// size is the number of keys currently locked or awaited.
func (t *lockTable) size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.locks)
}
