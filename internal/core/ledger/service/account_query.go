package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/LeJamon/solcastd/internal/core/amount"
	"github.com/LeJamon/solcastd/internal/core/ledger"
	"github.com/LeJamon/solcastd/internal/core/ledger/entry"
	"github.com/LeJamon/solcastd/internal/core/ledger/keylet"
)

// GetBalance returns owner's balance of asset. Absent balances are zero.
func (s *Service) GetBalance(ctx context.Context, owner entry.Address, asset entry.Asset) (amount.Amount, error) {
	var b entry.Balance
	err := s.store.ReadEntry(ctx, keylet.Balance(owner, asset), &b)
	if errors.Is(err, ledger.ErrEntryNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read balance: %w", err)
	}
	return b.Amount, nil
}

// Escrow returns the buy-token balance held by a market's authority.
func (s *Service) Escrow(ctx context.Context, id string) (amount.Amount, error) {
	m, err := s.GetMarket(ctx, id)
	if err != nil {
		return 0, err
	}
	return s.GetBalance(ctx, m.Authority, m.BuyToken)
}
