package ledger

import (
	"bytes"
	"context"
	"fmt"
	"slices"

	"github.com/LeJamon/solcastd/internal/core/ledger/entry"
	"github.com/LeJamon/solcastd/internal/core/ledger/keylet"
	"github.com/LeJamon/solcastd/internal/storage/database"
)

// Action represents the type of modification to a ledger entry
type Action int

const (
	// ActionCache means the entry was read but not modified
	ActionCache Action = iota
	// ActionInsert means a new entry was created
	ActionInsert
	// ActionModify means an existing entry was modified
	ActionModify
	// ActionErase means an entry was deleted
	ActionErase
)

func (a Action) String() string {
	switch a {
	case ActionCache:
		return "cache"
	case ActionInsert:
		return "insert"
	case ActionModify:
		return "modify"
	case ActionErase:
		return "erase"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// TrackedEntry represents a ledger entry being tracked for changes
type TrackedEntry struct {
	Type     entry.Type
	Action   Action
	Original []byte // Original state (nil for inserts)
	Current  []byte // Current state
}

// StateTable stages the reads and writes of one transaction on top of the
// Store. Nothing reaches the store until Commit; Discard drops everything.
type StateTable struct {
	ctx    context.Context
	store  *Store
	items  map[[32]byte]*TrackedEntry
	closed bool
	// allowed, when set, is the only set of keys that may be written.
	allowed map[[32]byte]struct{}
}

func newStateTable(ctx context.Context, store *Store) *StateTable {
	return &StateTable{
		ctx:   ctx,
		store: store,
		items: make(map[[32]byte]*TrackedEntry),
	}
}

// Restrict limits writes to keys. Reads stay unrestricted.
func (t *StateTable) Restrict(keys []keylet.Keylet) {
	t.allowed = make(map[[32]byte]struct{}, len(keys))
	for _, k := range keys {
		t.allowed[k.Key] = struct{}{}
	}
}

func (t *StateTable) checkWrite(k keylet.Keylet) error {
	if t.closed {
		return ErrTableClosed
	}
	if t.allowed != nil {
		if _, ok := t.allowed[k.Key]; !ok {
			return fmt.Errorf("%w: %s %x", ErrUndeclaredKey, k.Type, k.Key[:8])
		}
	}
	return nil
}

// Read reads a ledger entry, tracking it as cached
func (t *StateTable) Read(k keylet.Keylet) ([]byte, error) {
	if t.closed {
		return nil, ErrTableClosed
	}
	if tracked, exists := t.items[k.Key]; exists {
		if tracked.Action == ActionErase {
			return nil, ErrEntryNotFound
		}
		return tracked.Current, nil
	}

	data, err := t.store.Read(t.ctx, k)
	if err != nil {
		return nil, err
	}
	t.items[k.Key] = &TrackedEntry{
		Type:     k.Type,
		Action:   ActionCache,
		Original: data,
		Current:  data,
	}
	return data, nil
}

// Exists checks if an entry exists
func (t *StateTable) Exists(k keylet.Keylet) (bool, error) {
	if t.closed {
		return false, ErrTableClosed
	}
	if tracked, exists := t.items[k.Key]; exists {
		return tracked.Action != ActionErase, nil
	}
	return t.store.Exists(t.ctx, k)
}

// Insert adds a new entry
func (t *StateTable) Insert(k keylet.Keylet, data []byte) error {
	if err := t.checkWrite(k); err != nil {
		return err
	}
	if tracked, exists := t.items[k.Key]; exists {
		if tracked.Action != ActionErase {
			return ErrEntryExists
		}
		// Re-inserting a deleted entry becomes a modify
		tracked.Action = ActionModify
		tracked.Current = data
		return nil
	}

	exists, err := t.store.Exists(t.ctx, k)
	if err != nil {
		return err
	}
	if exists {
		return ErrEntryExists
	}

	t.items[k.Key] = &TrackedEntry{
		Type:    k.Type,
		Action:  ActionInsert,
		Current: data,
	}
	return nil
}

// Update modifies an existing entry
func (t *StateTable) Update(k keylet.Keylet, data []byte) error {
	if err := t.checkWrite(k); err != nil {
		return err
	}
	if tracked, exists := t.items[k.Key]; exists {
		if tracked.Action == ActionErase {
			return ErrEntryNotFound
		}
		if tracked.Action == ActionCache {
			tracked.Action = ActionModify
		}
		// For insert, keep it as insert with new data
		tracked.Current = data
		return nil
	}

	original, err := t.store.Read(t.ctx, k)
	if err != nil {
		return err
	}
	t.items[k.Key] = &TrackedEntry{
		Type:     k.Type,
		Action:   ActionModify,
		Original: original,
		Current:  data,
	}
	return nil
}

// Erase removes an entry
func (t *StateTable) Erase(k keylet.Keylet) error {
	if err := t.checkWrite(k); err != nil {
		return err
	}
	if tracked, exists := t.items[k.Key]; exists {
		switch tracked.Action {
		case ActionErase:
			return ErrEntryNotFound
		case ActionInsert:
			// Inserting then deleting = no change
			delete(t.items, k.Key)
		default:
			tracked.Action = ActionErase
		}
		return nil
	}

	original, err := t.store.Read(t.ctx, k)
	if err != nil {
		return err
	}
	t.items[k.Key] = &TrackedEntry{
		Type:     k.Type,
		Action:   ActionErase,
		Original: original,
		Current:  original,
	}
	return nil
}

// ReadEntry decodes the entry at k into e.
func (t *StateTable) ReadEntry(k keylet.Keylet, e entry.Entry) error {
	data, err := t.Read(k)
	if err != nil {
		return err
	}
	return t.store.codec.Decode(data, e)
}

// InsertEntry validates and encodes e as a new record at k.
func (t *StateTable) InsertEntry(k keylet.Keylet, e entry.Entry) error {
	data, err := t.encode(k, e)
	if err != nil {
		return err
	}
	return t.Insert(k, data)
}

// UpdateEntry validates and encodes e over the existing record at k.
func (t *StateTable) UpdateEntry(k keylet.Keylet, e entry.Entry) error {
	data, err := t.encode(k, e)
	if err != nil {
		return err
	}
	return t.Update(k, data)
}

// PutEntry inserts or updates e depending on whether k already exists.
func (t *StateTable) PutEntry(k keylet.Keylet, e entry.Entry) error {
	exists, err := t.Exists(k)
	if err != nil {
		return err
	}
	if exists {
		return t.UpdateEntry(k, e)
	}
	return t.InsertEntry(k, e)
}

func (t *StateTable) encode(k keylet.Keylet, e entry.Entry) ([]byte, error) {
	if e.Type() != k.Type {
		return nil, fmt.Errorf("%w: %s stored under %s keylet", entry.ErrTypeMismatch, e.Type(), k.Type)
	}
	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}
	return t.store.codec.Encode(e)
}

// Changes returns every entry that will be written or deleted on commit,
// keyed by ledger key.
func (t *StateTable) Changes() map[[32]byte]TrackedEntry {
	out := make(map[[32]byte]TrackedEntry)
	for k, tracked := range t.items {
		if tracked.Action != ActionCache {
			out[k] = *tracked
		}
	}
	return out
}

// Commit writes every change in a single storage batch and closes the table.
func (t *StateTable) Commit() error {
	if t.closed {
		return ErrTableClosed
	}
	t.closed = true

	keys := make([][32]byte, 0, len(t.items))
	for k, tracked := range t.items {
		if tracked.Action != ActionCache {
			keys = append(keys, k)
		}
	}
	slices.SortFunc(keys, func(a, b [32]byte) int {
		return bytes.Compare(a[:], b[:])
	})

	ops := make([]database.BatchOperation, 0, len(keys))
	for _, k := range keys {
		key := k
		tracked := t.items[k]
		if tracked.Action == ActionErase {
			ops = append(ops, database.Del(key[:]))
		} else {
			ops = append(ops, database.Put(key[:], tracked.Current))
		}
	}
	return t.store.commit(t.ctx, ops)
}

// Discard drops every staged change.
func (t *StateTable) Discard() {
	t.closed = true
	t.items = nil
}
