package market

import (
	"github.com/LeJamon/solcastd/internal/core/ledger/entry"
	"github.com/LeJamon/solcastd/internal/core/ledger/keylet"
	"github.com/LeJamon/solcastd/internal/core/payout"
	"github.com/LeJamon/solcastd/internal/core/tx"
	"github.com/LeJamon/solcastd/internal/logging"
)

func init() {
	tx.Register(tx.TypeWithdraw, func() tx.Transaction {
		return &Withdraw{BaseTx: *tx.NewBaseTx(tx.TypeWithdraw, entry.Address{})}
	})
}

// Withdraw pays the signer's winnings out of a resolved market's escrow and
// flags the settled shares.
type Withdraw struct {
	tx.BaseTx

	// MarketID is the market to withdraw from (required)
	MarketID string `codec:"market_id"`

	Accounts Accounts `codec:"accounts"`
}

// NewWithdraw creates a new Withdraw transaction
func NewWithdraw(user entry.Address, marketID string) *Withdraw {
	return &Withdraw{
		BaseTx:   *tx.NewBaseTx(tx.TypeWithdraw, user),
		MarketID: marketID,
	}
}

// TxType returns the transaction type
func (w *Withdraw) TxType() tx.Type {
	return tx.TypeWithdraw
}

// MarketKey returns the market id.
func (w *Withdraw) MarketKey() string {
	return w.MarketID
}

// Validate validates the Withdraw transaction
func (w *Withdraw) Validate() error {
	if err := w.BaseTx.Validate(); err != nil {
		return err
	}
	return validateMarketID(w.MarketID)
}

// Keys returns the market and the escrow's and the depositor's buy-token
// balances.
func (w *Withdraw) Keys(kc *tx.KeyContext) ([]keylet.Keylet, error) {
	keys := []keylet.Keylet{keylet.Market(w.MarketID)}
	m, err := readCommitted(kc, w.MarketID)
	if err != nil || m == nil {
		return keys, err
	}
	return append(keys,
		keylet.Balance(w.Account, m.BuyToken),
		keylet.Balance(m.Authority, m.BuyToken),
	), nil
}

// Apply applies the Withdraw transaction to ledger state.
func (w *Withdraw) Apply(ctx *tx.ApplyContext) tx.Result {
	m, res := ctx.ReadMarket(w.MarketID)
	if res != tx.TesSUCCESS {
		return res
	}
	if !m.Resolved {
		return tx.MarketNotResolved
	}
	if res := w.Accounts.check(m, m.Outcome, ctx.Account); res != tx.TesSUCCESS {
		return res
	}

	s, found, err := payout.Settle(m, ctx.Account)
	if err != nil {
		ctx.Log.Error("settlement overflow", logging.String("market", w.MarketID), logging.Error(err))
		return tx.TefINTERNAL
	}
	if !found {
		return tx.NoWinningShares
	}
	if len(s.Shares) == 0 {
		return tx.AlreadyWithdrawn
	}

	if res := ctx.Transfer(m.Authority, ctx.Account, m.BuyToken, s.Net); res != tx.TesSUCCESS {
		return res
	}
	for _, i := range s.Shares {
		m.Shares[i].HasWithdrawn = true
	}
	commission, err := m.CommissionCollected.Add(s.Commission)
	if err != nil {
		return tx.TefINTERNAL
	}
	m.CommissionCollected = commission
	if res := ctx.Write(keylet.Market(w.MarketID), m); res != tx.TesSUCCESS {
		return res
	}

	ctx.Paid = s.Net
	ctx.Log.Debug("winnings withdrawn",
		logging.String("market", w.MarketID),
		logging.Stringer("user", ctx.Account),
		logging.Stringer("gross", s.Gross),
		logging.Stringer("commission", s.Commission),
		logging.Stringer("net", s.Net),
		logging.Int("shares", len(s.Shares)))
	return tx.TesSUCCESS
}
