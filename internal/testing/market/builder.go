package market

import (
	"github.com/LeJamon/solcastd/internal/core/amount"
	"github.com/LeJamon/solcastd/internal/core/ledger/entry"
	markettx "github.com/LeJamon/solcastd/internal/core/tx/market"
	"github.com/LeJamon/solcastd/internal/testing"
)

// --- BuyShareBuilder ---

// BuyShareBuilder provides a fluent interface for building BuyShare transactions.
type BuyShareBuilder struct {
	from     *testing.Account
	marketID string
	option   string
	amount   amount.Amount
	accounts markettx.Accounts
}

// Buy creates a new BuyShareBuilder.
func Buy(from *testing.Account, marketID, option string, amt amount.Amount) *BuyShareBuilder {
	return &BuyShareBuilder{from: from, marketID: marketID, option: option, amount: amt}
}

// Authority names the market authority the depositor expects.
func (b *BuyShareBuilder) Authority(addr entry.Address) *BuyShareBuilder {
	b.accounts.Authority = &addr
	return b
}

// Token names the asset the depositor expects to pay in.
func (b *BuyShareBuilder) Token(asset entry.Asset) *BuyShareBuilder {
	b.accounts.Token = &asset
	return b
}

// OptionMint names the receipt mint the depositor expects.
func (b *BuyShareBuilder) OptionMint(mint entry.Asset) *BuyShareBuilder {
	b.accounts.OptionMint = &mint
	return b
}

// OptionOwner names the account that should receive the receipt tokens.
func (b *BuyShareBuilder) OptionOwner(owner entry.Address) *BuyShareBuilder {
	b.accounts.OptionOwner = &owner
	return b
}

// Build constructs the BuyShare transaction.
func (b *BuyShareBuilder) Build() *markettx.BuyShare {
	t := markettx.NewBuyShare(b.from.ID, b.marketID, b.option, b.amount)
	t.Accounts = b.accounts
	return t
}

// --- CreateMarketBuilder ---

// CreateMarketBuilder provides a fluent interface for building CreateMarket transactions.
type CreateMarketBuilder struct {
	from *testing.Account
	tx   *markettx.CreateMarket
}

// Create creates a new CreateMarketBuilder with two options paid in the native asset.
func Create(from *testing.Account, marketID string, options ...string) *CreateMarketBuilder {
	t := markettx.NewCreateMarket(from.ID, marketID, "", "", entry.NativeAsset)
	t.Options = options
	return &CreateMarketBuilder{from: from, tx: t}
}

// BuyToken sets the asset stakes are paid in.
func (b *CreateMarketBuilder) BuyToken(asset entry.Asset) *CreateMarketBuilder {
	b.tx.BuyToken = asset
	return b
}

// Describe sets the display metadata.
func (b *CreateMarketBuilder) Describe(title, description string) *CreateMarketBuilder {
	b.tx.Title = title
	b.tx.Description = description
	return b
}

// EndTime sets the advisory end time in unix seconds.
func (b *CreateMarketBuilder) EndTime(unix int64) *CreateMarketBuilder {
	b.tx.EndTime = unix
	return b
}

// Build constructs the CreateMarket transaction.
func (b *CreateMarketBuilder) Build() *markettx.CreateMarket {
	return b.tx
}

// --- WithdrawBuilder ---

// WithdrawBuilder provides a fluent interface for building Withdraw transactions.
type WithdrawBuilder struct {
	tx *markettx.Withdraw
}

// Withdraw creates a new WithdrawBuilder.
func Withdraw(from *testing.Account, marketID string) *WithdrawBuilder {
	return &WithdrawBuilder{tx: markettx.NewWithdraw(from.ID, marketID)}
}

// Authority names the market authority the withdrawer expects.
func (b *WithdrawBuilder) Authority(addr entry.Address) *WithdrawBuilder {
	b.tx.Accounts.Authority = &addr
	return b
}

// Token names the asset the withdrawer expects to be paid in.
func (b *WithdrawBuilder) Token(asset entry.Asset) *WithdrawBuilder {
	b.tx.Accounts.Token = &asset
	return b
}

// Build constructs the Withdraw transaction.
func (b *WithdrawBuilder) Build() *markettx.Withdraw {
	return b.tx
}
