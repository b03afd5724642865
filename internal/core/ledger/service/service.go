// Package service is the read and submit surface over the ledger: it applies
// transactions through the engine and answers the queries a display layer
// needs (market listings, stats, balances, history).
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/LeJamon/solcastd/internal/core/ledger"
	"github.com/LeJamon/solcastd/internal/core/ledger/entry"
	"github.com/LeJamon/solcastd/internal/core/ledger/keylet"
	"github.com/LeJamon/solcastd/internal/core/tx"
	"github.com/LeJamon/solcastd/internal/logging"
	"github.com/LeJamon/solcastd/internal/storage/relationaldb"
)

// Common errors
var (
	ErrNotInitialized = errors.New("registry not initialized")
	ErrMarketNotFound = errors.New("market not found")
	ErrNoHistory      = errors.New("transaction history is not configured")
	ErrMissingStore   = errors.New("service requires a ledger store")
)

// Config holds configuration for the Service
type Config struct {
	// Store is the ledger account store
	Store *ledger.Store

	// Engine applies submitted transactions (optional for read-only use)
	Engine *tx.Engine

	// History answers transaction history queries (optional)
	History relationaldb.TransactionRepository

	Logger *logging.Logger
}

// Service answers ledger queries and forwards submissions to the engine
type Service struct {
	store   *ledger.Store
	engine  *tx.Engine
	history relationaldb.TransactionRepository
	log     *logging.Logger
}

// New creates a new Service
func New(cfg Config) (*Service, error) {
	if cfg.Store == nil {
		return nil, ErrMissingStore
	}
	log := cfg.Logger
	if log == nil {
		log = logging.NewTestLogger()
	}
	return &Service{
		store:   cfg.Store,
		engine:  cfg.Engine,
		history: cfg.History,
		log:     log.Named("service"),
	}, nil
}

// Submit applies a transaction. It fails only when no engine is configured;
// the transaction outcome is in the returned result.
func (s *Service) Submit(ctx context.Context, t tx.Transaction) (tx.ApplyResult, error) {
	if s.engine == nil {
		return tx.ApplyResult{}, errors.New("service is read-only")
	}
	return s.engine.Apply(ctx, t), nil
}

// GetRegistry returns the market registry.
func (s *Service) GetRegistry(ctx context.Context) (*entry.Registry, error) {
	var r entry.Registry
	if err := s.read(ctx, keylet.Registry(), &r, ErrNotInitialized); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Service) read(ctx context.Context, k keylet.Keylet, e entry.Entry, missing error) error {
	err := s.store.ReadEntry(ctx, k, e)
	if errors.Is(err, ledger.ErrEntryNotFound) {
		return missing
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", k.Type, err)
	}
	return nil
}
