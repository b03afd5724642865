package market

import (
	"github.com/LeJamon/solcastd/internal/core/ledger/entry"
	"github.com/LeJamon/solcastd/internal/core/ledger/keylet"
	"github.com/LeJamon/solcastd/internal/core/tx"
	"github.com/LeJamon/solcastd/internal/logging"
)

func init() {
	tx.Register(tx.TypeInitialize, func() tx.Transaction {
		return &Initialize{BaseTx: *tx.NewBaseTx(tx.TypeInitialize, entry.Address{})}
	})
}

// Initialize creates the market registry and makes the signer its admin.
type Initialize struct {
	tx.BaseTx
}

// NewInitialize creates a new Initialize transaction
func NewInitialize(admin entry.Address) *Initialize {
	return &Initialize{BaseTx: *tx.NewBaseTx(tx.TypeInitialize, admin)}
}

// TxType returns the transaction type
func (i *Initialize) TxType() tx.Type {
	return tx.TypeInitialize
}

// Validate validates the Initialize transaction
func (i *Initialize) Validate() error {
	return i.BaseTx.Validate()
}

// Keys returns the registry key.
func (i *Initialize) Keys(*tx.KeyContext) ([]keylet.Keylet, error) {
	return []keylet.Keylet{keylet.Registry()}, nil
}

// Apply applies the Initialize transaction to ledger state.
func (i *Initialize) Apply(ctx *tx.ApplyContext) tx.Result {
	exists, err := ctx.View.Exists(keylet.Registry())
	if err != nil {
		return tx.TefINTERNAL
	}
	if exists {
		return tx.TefALREADY
	}
	if err := ctx.View.InsertEntry(keylet.Registry(), &entry.Registry{Admin: ctx.Account}); err != nil {
		return tx.TefINTERNAL
	}
	ctx.Log.Info("registry initialized", logging.Stringer("admin", ctx.Account))
	return tx.TesSUCCESS
}
