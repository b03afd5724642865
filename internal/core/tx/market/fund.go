package market

import (
	"errors"

	"github.com/LeJamon/solcastd/internal/core/amount"
	"github.com/LeJamon/solcastd/internal/core/ledger/entry"
	"github.com/LeJamon/solcastd/internal/core/ledger/keylet"
	"github.com/LeJamon/solcastd/internal/core/tx"
)

var ErrMissingDestination = errors.New("missing destination")

func init() {
	tx.Register(tx.TypeFund, func() tx.Transaction {
		return &Fund{BaseTx: *tx.NewBaseTx(tx.TypeFund, entry.Address{})}
	})
}

// Fund credits Amount of Asset to Destination out of thin air. Only the
// registry admin may submit it; it stands in for an external token faucet.
type Fund struct {
	tx.BaseTx

	Destination entry.Address `codec:"destination"`
	Asset       entry.Asset   `codec:"asset"`
	Amount      amount.Amount `codec:"amount"`
}

// NewFund creates a new Fund transaction
func NewFund(admin, destination entry.Address, asset entry.Asset, amt amount.Amount) *Fund {
	return &Fund{
		BaseTx:      *tx.NewBaseTx(tx.TypeFund, admin),
		Destination: destination,
		Asset:       asset,
		Amount:      amt,
	}
}

// TxType returns the transaction type
func (f *Fund) TxType() tx.Type {
	return tx.TypeFund
}

// Validate validates the Fund transaction
func (f *Fund) Validate() error {
	if err := f.BaseTx.Validate(); err != nil {
		return err
	}
	if f.Destination.IsZero() {
		return tx.Errorf(tx.TemMALFORMED, "%v", ErrMissingDestination)
	}
	if f.Amount == 0 {
		return tx.Errorf(tx.TemBAD_AMOUNT, "amount must be positive")
	}
	return nil
}

// Keys returns the destination balance.
func (f *Fund) Keys(*tx.KeyContext) ([]keylet.Keylet, error) {
	return []keylet.Keylet{keylet.Balance(f.Destination, f.Asset)}, nil
}

// Apply applies the Fund transaction to ledger state.
func (f *Fund) Apply(ctx *tx.ApplyContext) tx.Result {
	if _, res := requireAdmin(ctx); res != tx.TesSUCCESS {
		return res
	}
	return ctx.Mint(f.Destination, f.Asset, f.Amount)
}
