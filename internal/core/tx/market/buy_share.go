package market

import (
	"errors"

	"github.com/LeJamon/solcastd/internal/core/amount"
	"github.com/LeJamon/solcastd/internal/core/ledger/entry"
	"github.com/LeJamon/solcastd/internal/core/ledger/keylet"
	"github.com/LeJamon/solcastd/internal/core/tx"
)

func init() {
	tx.Register(tx.TypeBuyShare, func() tx.Transaction {
		return &BuyShare{BaseTx: *tx.NewBaseTx(tx.TypeBuyShare, entry.Address{})}
	})
}

// BuyShare stakes Amount of the market's buy token on one option. The stake
// moves into the market escrow and the depositor receives the same amount of
// that option's receipt token.
type BuyShare struct {
	tx.BaseTx

	// MarketID is the market to stake in (required)
	MarketID string `codec:"market_id"`

	// Option is the label staked on (required)
	Option string `codec:"option"`

	// Amount is the stake in base units (required, non-zero)
	Amount amount.Amount `codec:"amount"`

	Accounts Accounts `codec:"accounts"`
}

// NewBuyShare creates a new BuyShare transaction
func NewBuyShare(user entry.Address, marketID, option string, amt amount.Amount) *BuyShare {
	return &BuyShare{
		BaseTx:   *tx.NewBaseTx(tx.TypeBuyShare, user),
		MarketID: marketID,
		Option:   option,
		Amount:   amt,
	}
}

// TxType returns the transaction type
func (b *BuyShare) TxType() tx.Type {
	return tx.TypeBuyShare
}

// MarketKey returns the market id.
func (b *BuyShare) MarketKey() string {
	return b.MarketID
}

// Validate validates the BuyShare transaction
func (b *BuyShare) Validate() error {
	if err := b.BaseTx.Validate(); err != nil {
		return err
	}
	if err := validateMarketID(b.MarketID); err != nil {
		return err
	}
	if b.Option == "" {
		return tx.Errorf(tx.InvalidOption, "option label is empty")
	}
	if b.Amount == 0 {
		return tx.Errorf(tx.TemBAD_AMOUNT, "amount must be positive")
	}
	return nil
}

// Keys returns the market, the depositor's and the escrow's buy-token
// balances, and the depositor's receipt balances.
func (b *BuyShare) Keys(kc *tx.KeyContext) ([]keylet.Keylet, error) {
	keys := []keylet.Keylet{keylet.Market(b.MarketID)}
	m, err := readCommitted(kc, b.MarketID)
	if err != nil || m == nil {
		return keys, err
	}
	return append(keys,
		keylet.Balance(b.Account, m.BuyToken),
		keylet.Balance(m.Authority, m.BuyToken),
		keylet.Balance(b.Account, m.TokenAMint),
		keylet.Balance(b.Account, m.TokenBMint),
	), nil
}

// Apply applies the BuyShare transaction to ledger state.
func (b *BuyShare) Apply(ctx *tx.ApplyContext) tx.Result {
	m, res := ctx.ReadMarket(b.MarketID)
	if res != tx.TesSUCCESS {
		return res
	}
	if m.Resolved {
		return tx.MarketAlreadyResolved
	}
	o, err := m.OutcomeFor(b.Option)
	if err != nil {
		return tx.InvalidOption
	}
	if res := b.Accounts.check(m, o, ctx.Account); res != tx.TesSUCCESS {
		return res
	}

	if err := m.AddStake(ctx.Account, b.Option, b.Amount); err != nil {
		if errors.Is(err, amount.ErrOverflow) {
			return tx.TemBAD_AMOUNT
		}
		return tx.TefINTERNAL
	}
	if res := ctx.Transfer(ctx.Account, m.Authority, m.BuyToken, b.Amount); res != tx.TesSUCCESS {
		return res
	}
	if res := ctx.Mint(ctx.Account, m.OptionMint(o), b.Amount); res != tx.TesSUCCESS {
		return res
	}
	return ctx.Write(keylet.Market(b.MarketID), m)
}
