package service

import (
	"context"
	"fmt"

	"github.com/LeJamon/solcastd/internal/core/amount"
	"github.com/LeJamon/solcastd/internal/core/ledger/entry"
	"github.com/LeJamon/solcastd/internal/core/ledger/keylet"
	"github.com/LeJamon/solcastd/internal/core/payout"
)

// MarketInfo is one registry listing.
type MarketInfo struct {
	ID      string
	Address entry.Address
}

// MarketStats summarizes the pools of a market for display.
type MarketStats struct {
	ID           string
	OptionA      string
	OptionB      string
	Resolved     bool
	Winner       string
	TotalValue   amount.Amount
	TotalOptionA amount.Amount
	TotalOptionB amount.Amount
	NumBettors   uint64
	Commission   amount.Amount
	payout.Odds
}

// Position is one user's stake in a market.
type Position struct {
	MarketID string
	User     entry.Address
	StakeA   amount.Amount
	StakeB   amount.Amount
	// Claimable is the net payout a withdrawal would transfer now.
	Claimable amount.Amount
	Withdrawn bool
}

// ListMarkets returns every market in registry order.
func (s *Service) ListMarkets(ctx context.Context) ([]MarketInfo, error) {
	reg, err := s.GetRegistry(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]MarketInfo, len(reg.MarketIDs))
	for i, id := range reg.MarketIDs {
		out[i] = MarketInfo{ID: id, Address: reg.MarketAddresses[i]}
	}
	return out, nil
}

// GetMarket returns the full market record.
func (s *Service) GetMarket(ctx context.Context, id string) (*entry.Market, error) {
	var m entry.Market
	if err := s.read(ctx, keylet.Market(id), &m, fmt.Errorf("%w: %q", ErrMarketNotFound, id)); err != nil {
		return nil, err
	}
	return &m, nil
}

// MarketStats returns the pool totals and odds of a market.
func (s *Service) MarketStats(ctx context.Context, id string) (*MarketStats, error) {
	m, err := s.GetMarket(ctx, id)
	if err != nil {
		return nil, err
	}
	return &MarketStats{
		ID:           m.ID,
		OptionA:      m.OptionA,
		OptionB:      m.OptionB,
		Resolved:     m.Resolved,
		Winner:       m.Label(m.Outcome),
		TotalValue:   m.TotalValue,
		TotalOptionA: m.TotalOptionA,
		TotalOptionB: m.TotalOptionB,
		NumBettors:   m.NumBettors,
		Commission:   m.CommissionCollected,
		Odds:         payout.ComputeOdds(m),
	}, nil
}

// PotentialPayout previews the net payout of staking amt on option now,
// should that option win.
func (s *Service) PotentialPayout(ctx context.Context, id, option string, amt amount.Amount) (amount.Amount, error) {
	m, err := s.GetMarket(ctx, id)
	if err != nil {
		return 0, err
	}
	o, err := m.OutcomeFor(option)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", option, err)
	}
	return payout.Preview(m, o, amt)
}

// Position returns user's stakes in a market and what they could withdraw.
func (s *Service) Position(ctx context.Context, id string, user entry.Address) (*Position, error) {
	m, err := s.GetMarket(ctx, id)
	if err != nil {
		return nil, err
	}
	p := &Position{MarketID: id, User: user}
	for _, share := range m.Shares {
		if share.User != user {
			continue
		}
		o, err := m.OutcomeFor(share.Option)
		if err != nil {
			return nil, fmt.Errorf("market %s share %q: %w", id, share.Option, entry.ErrInvalidShareOption)
		}
		if o == entry.OutcomeOptionA {
			p.StakeA += share.Amount
		} else {
			p.StakeB += share.Amount
		}
	}
	if !m.Resolved {
		return p, nil
	}
	settlement, found, err := payout.Settle(m, user)
	if err != nil {
		return nil, err
	}
	p.Claimable = settlement.Net
	p.Withdrawn = found && len(settlement.Shares) == 0
	return p, nil
}
