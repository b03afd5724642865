package market

import (
	"github.com/LeJamon/solcastd/internal/core/ledger/entry"
	"github.com/LeJamon/solcastd/internal/core/ledger/keylet"
	"github.com/LeJamon/solcastd/internal/core/tx"
	"github.com/LeJamon/solcastd/internal/logging"
)

func init() {
	tx.Register(tx.TypeCreateMarket, func() tx.Transaction {
		return &CreateMarket{BaseTx: *tx.NewBaseTx(tx.TypeCreateMarket, entry.Address{})}
	})
}

// CreateMarket opens a new two-option market. Only the registry admin may
// submit it.
type CreateMarket struct {
	tx.BaseTx

	// MarketID names the market and seeds its derived addresses (required)
	MarketID string `codec:"market_id"`

	// Options holds the two option labels, A first (required)
	Options []string `codec:"options"`

	// BuyToken is the asset stakes are paid in; zero means native
	BuyToken entry.Asset `codec:"buy_token"`

	// EndTime is advisory and never enforced
	EndTime int64 `codec:"end_time"`

	Title            string `codec:"title,omitempty"`
	Description      string `codec:"description,omitempty"`
	BannerURL        string `codec:"banner_url,omitempty"`
	ResolutionSource string `codec:"resolution_source,omitempty"`
	EndTimeString    string `codec:"end_time_string,omitempty"`
	StartTimeString  string `codec:"start_time_string,omitempty"`
}

// NewCreateMarket creates a new CreateMarket transaction
func NewCreateMarket(admin entry.Address, marketID, optionA, optionB string, buyToken entry.Asset) *CreateMarket {
	return &CreateMarket{
		BaseTx:   *tx.NewBaseTx(tx.TypeCreateMarket, admin),
		MarketID: marketID,
		Options:  []string{optionA, optionB},
		BuyToken: buyToken,
	}
}

// TxType returns the transaction type
func (c *CreateMarket) TxType() tx.Type {
	return tx.TypeCreateMarket
}

// MarketKey returns the market id.
func (c *CreateMarket) MarketKey() string {
	return c.MarketID
}

// Validate validates the CreateMarket transaction
func (c *CreateMarket) Validate() error {
	if err := c.BaseTx.Validate(); err != nil {
		return err
	}
	if err := validateMarketID(c.MarketID); err != nil {
		return err
	}
	if len(c.Options) != 2 {
		return tx.Errorf(tx.InvalidOptionsCount, "got %d options", len(c.Options))
	}
	a, b := c.Options[0], c.Options[1]
	if a == "" || b == "" {
		return tx.Errorf(tx.InvalidOption, "option label is empty")
	}
	if a == b {
		return tx.Errorf(tx.InvalidOption, "options are both %q", a)
	}
	return nil
}

// Keys returns the registry and the new market.
func (c *CreateMarket) Keys(*tx.KeyContext) ([]keylet.Keylet, error) {
	return []keylet.Keylet{keylet.Registry(), keylet.Market(c.MarketID)}, nil
}

// Apply applies the CreateMarket transaction to ledger state.
func (c *CreateMarket) Apply(ctx *tx.ApplyContext) tx.Result {
	reg, res := requireAdmin(ctx)
	if res != tx.TesSUCCESS {
		return res
	}

	marketKey := keylet.Market(c.MarketID)
	if reg.Contains(c.MarketID) {
		return tx.MarketIDAlreadyExists
	}
	exists, err := ctx.View.Exists(marketKey)
	if err != nil {
		return tx.TefINTERNAL
	}
	if exists {
		return tx.MarketIDAlreadyExists
	}

	authority, err := keylet.MarketAuthority(ctx.ProgramID, c.MarketID)
	if err != nil {
		return tx.TemMALFORMED
	}
	mintA, err := keylet.OptionMint(ctx.ProgramID, c.MarketID, SideA)
	if err != nil {
		return tx.TemMALFORMED
	}
	mintB, err := keylet.OptionMint(ctx.ProgramID, c.MarketID, SideB)
	if err != nil {
		return tx.TemMALFORMED
	}

	m := &entry.Market{
		ID:               c.MarketID,
		OptionA:          c.Options[0],
		OptionB:          c.Options[1],
		EndTime:          c.EndTime,
		Authority:        authority.Address,
		AuthorityBump:    authority.Bump,
		BuyToken:         c.BuyToken,
		TokenAMint:       entry.Asset(mintA.Address),
		TokenBMint:       entry.Asset(mintB.Address),
		Title:            c.Title,
		Description:      c.Description,
		BannerURL:        c.BannerURL,
		ResolutionSource: c.ResolutionSource,
		EndTimeString:    c.EndTimeString,
		StartTimeString:  c.StartTimeString,
	}
	if err := ctx.View.InsertEntry(marketKey, m); err != nil {
		return tx.TefINTERNAL
	}

	reg.Append(c.MarketID, authority.Address)
	if res := ctx.Write(keylet.Registry(), reg); res != tx.TesSUCCESS {
		return res
	}

	ctx.Log.Info("market created",
		logging.String("market", c.MarketID),
		logging.Stringer("authority", authority.Address),
		logging.Uint64("counter", reg.MarketIDCounter))
	return tx.TesSUCCESS
}
