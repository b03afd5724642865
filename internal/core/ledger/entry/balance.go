package entry

import (
	"errors"

	"github.com/LeJamon/solcastd/internal/core/amount"
)

var ErrInsufficientBalance = errors.New("insufficient balance")

// Balance is the amount of one asset held by one owner. Market escrow is the
// balance owned by the market's derived authority.
type Balance struct {
	Owner  Address       `codec:"owner"`
	Asset  Asset         `codec:"asset"`
	Amount amount.Amount `codec:"amount"`
}

func (b *Balance) Type() Type { return TypeBalance }

func (b *Balance) Validate() error { return nil }

// Credit adds amt to the balance.
func (b *Balance) Credit(amt amount.Amount) error {
	v, err := b.Amount.Add(amt)
	if err != nil {
		return err
	}
	b.Amount = v
	return nil
}

// Debit removes amt from the balance or fails with ErrInsufficientBalance.
func (b *Balance) Debit(amt amount.Amount) error {
	v, err := b.Amount.Sub(amt)
	if err != nil {
		return ErrInsufficientBalance
	}
	b.Amount = v
	return nil
}
