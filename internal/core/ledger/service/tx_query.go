package service

import (
	"context"

	"github.com/LeJamon/solcastd/internal/storage/relationaldb"
)

// History returns recorded transactions matching q, newest first.
func (s *Service) History(ctx context.Context, q relationaldb.TxQuery) ([]relationaldb.TransactionInfo, error) {
	if s.history == nil {
		return nil, ErrNoHistory
	}
	return s.history.GetTransactions(ctx, q)
}

// GetTransaction returns one recorded transaction by hash.
func (s *Service) GetTransaction(ctx context.Context, hash relationaldb.Hash) (*relationaldb.TransactionInfo, error) {
	if s.history == nil {
		return nil, ErrNoHistory
	}
	return s.history.GetTransaction(ctx, hash)
}
