package market

import (
	"github.com/LeJamon/solcastd/internal/core/ledger/entry"
	"github.com/LeJamon/solcastd/internal/core/ledger/keylet"
	"github.com/LeJamon/solcastd/internal/core/tx"
	"github.com/LeJamon/solcastd/internal/logging"
)

func init() {
	tx.Register(tx.TypeResolve, func() tx.Transaction {
		return &Resolve{BaseTx: *tx.NewBaseTx(tx.TypeResolve, entry.Address{})}
	})
}

// Resolve settles a market on its winning option. Resolution is final.
type Resolve struct {
	tx.BaseTx

	// MarketID is the market to resolve (required)
	MarketID string `codec:"market_id"`

	// Winner is the winning option label (required)
	Winner string `codec:"winner"`
}

// NewResolve creates a new Resolve transaction
func NewResolve(admin entry.Address, marketID, winner string) *Resolve {
	return &Resolve{
		BaseTx:   *tx.NewBaseTx(tx.TypeResolve, admin),
		MarketID: marketID,
		Winner:   winner,
	}
}

// TxType returns the transaction type
func (r *Resolve) TxType() tx.Type {
	return tx.TypeResolve
}

// MarketKey returns the market id.
func (r *Resolve) MarketKey() string {
	return r.MarketID
}

// Validate validates the Resolve transaction
func (r *Resolve) Validate() error {
	if err := r.BaseTx.Validate(); err != nil {
		return err
	}
	if err := validateMarketID(r.MarketID); err != nil {
		return err
	}
	if r.Winner == "" {
		return tx.Errorf(tx.InvalidOption, "winning option is empty")
	}
	return nil
}

// Keys returns the market key.
func (r *Resolve) Keys(*tx.KeyContext) ([]keylet.Keylet, error) {
	return []keylet.Keylet{keylet.Market(r.MarketID)}, nil
}

// Apply applies the Resolve transaction to ledger state.
func (r *Resolve) Apply(ctx *tx.ApplyContext) tx.Result {
	if _, res := requireAdmin(ctx); res != tx.TesSUCCESS {
		return res
	}
	m, res := ctx.ReadMarket(r.MarketID)
	if res != tx.TesSUCCESS {
		return res
	}
	if m.Resolved {
		return tx.MarketAlreadyResolved
	}
	o, err := m.OutcomeFor(r.Winner)
	if err != nil {
		return tx.InvalidOption
	}

	m.Resolve(o)
	if res := ctx.Write(keylet.Market(r.MarketID), m); res != tx.TesSUCCESS {
		return res
	}
	ctx.Log.Info("market resolved",
		logging.String("market", r.MarketID),
		logging.String("winner", r.Winner),
		logging.Stringer("outcome", o))
	return tx.TesSUCCESS
}
