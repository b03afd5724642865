// Package ledger holds the durable account state: a Store over a key-value
// backend, the keyed lock table that serializes writers of the same accounts,
// and the StateTable each transaction stages its changes in.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/LeJamon/solcastd/internal/core/ledger/entry"
	"github.com/LeJamon/solcastd/internal/core/ledger/keylet"
	"github.com/LeJamon/solcastd/internal/logging"
	"github.com/LeJamon/solcastd/internal/storage/database"
)

// DefaultCacheSize is the number of encoded records kept in memory.
const DefaultCacheSize = 4096

// StoreConfig holds configuration for the store
type StoreConfig struct {
	// CacheSize is the number of records to keep in the read cache
	CacheSize int
	// CompressThreshold is the encoded size above which records are compressed
	CompressThreshold int
}

// Store is the ledger account store. Reads go through an LRU of encoded
// records; writes only happen through StateTable.Commit.
type Store struct {
	db    database.DB
	codec *entry.Codec
	locks *lockTable
	log   *logging.Logger

	// mu orders cache fills against commits so a reader can never cache a
	// value older than one already committed.
	mu    sync.RWMutex
	cache *lru.Cache[[32]byte, []byte]

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewStore creates a store on top of db.
func NewStore(db database.DB, cfg StoreConfig, log *logging.Logger) (*Store, error) {
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = DefaultCacheSize
	}
	if log == nil {
		log = logging.NewTestLogger()
	}

	cache, err := lru.New[[32]byte, []byte](cfg.CacheSize)
	if err != nil {
		return nil, err
	}

	s := &Store{
		db:    db,
		codec: entry.NewCodec(cfg.CompressThreshold),
		locks: newLockTable(),
		log:   log.Named("store"),
		cache: cache,
	}
	s.log.Debug("store opened",
		zap.Int("cache_size", cfg.CacheSize),
		zap.Int("compress_threshold", cfg.CompressThreshold))
	return s, nil
}

// Codec returns the record codec used by the store.
func (s *Store) Codec() *entry.Codec {
	return s.codec
}

// Read returns the encoded record at k, or ErrEntryNotFound.
func (s *Store) Read(ctx context.Context, k keylet.Keylet) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if data, ok := s.cache.Get(k.Key); ok {
		s.hits.Add(1)
		return data, nil
	}
	s.misses.Add(1)

	data, err := s.db.Read(ctx, k.Key[:])
	if err != nil {
		if errors.Is(err, database.ErrKeyNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("read %s: %w", k.Type, err)
	}
	s.cache.Add(k.Key, data)
	return data, nil
}

// Exists reports whether a record is stored at k.
func (s *Store) Exists(ctx context.Context, k keylet.Keylet) (bool, error) {
	_, err := s.Read(ctx, k)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrEntryNotFound):
		return false, nil
	default:
		return false, err
	}
}

// ReadEntry decodes the record at k into e.
func (s *Store) ReadEntry(ctx context.Context, k keylet.Keylet, e entry.Entry) error {
	data, err := s.Read(ctx, k)
	if err != nil {
		return err
	}
	return s.codec.Decode(data, e)
}

// Lock acquires the write locks for keys and returns the release function.
func (s *Store) Lock(keys ...keylet.Keylet) func() {
	raw := make([][32]byte, len(keys))
	for i, k := range keys {
		raw[i] = k.Key
	}
	return s.locks.acquire(raw)
}

// NewStateTable opens a change set over the store.
func (s *Store) NewStateTable(ctx context.Context) *StateTable {
	return newStateTable(ctx, s)
}

// CacheStats returns read cache hit and miss counts.
func (s *Store) CacheStats() (hits, misses uint64) {
	return s.hits.Load(), s.misses.Load()
}

// commit writes ops in one batch and refreshes the cache.
func (s *Store) commit(ctx context.Context, ops []database.BatchOperation) error {
	if len(ops) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.Batch(ctx, ops); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	for _, op := range ops {
		var key [32]byte
		copy(key[:], op.Key)
		if op.Type == database.BatchDelete {
			s.cache.Remove(key)
		} else {
			s.cache.Add(key, op.Value)
		}
	}
	return nil
}
