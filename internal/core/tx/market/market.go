// Package market implements the prediction-market program: registry
// initialization, market creation, share purchase, resolution, withdrawal
// and the admin funding faucet.
package market

import (
	"errors"

	"github.com/LeJamon/solcastd/internal/core/ledger"
	"github.com/LeJamon/solcastd/internal/core/ledger/entry"
	"github.com/LeJamon/solcastd/internal/core/ledger/keylet"
	"github.com/LeJamon/solcastd/internal/core/tx"
)

// Side labels used to derive the two option mints.
const (
	SideA = "A"
	SideB = "B"
)

// readCommitted loads the market as last committed, for write-set
// computation. Only fields fixed at creation may be relied on.
func readCommitted(kc *tx.KeyContext, id string) (*entry.Market, error) {
	var m entry.Market
	err := kc.View.ReadEntry(kc.Ctx, keylet.Market(id), &m)
	if errors.Is(err, ledger.ErrEntryNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, tx.Errorf(tx.TefINTERNAL, "read market %q: %v", id, err)
	}
	return &m, nil
}

// requireAdmin loads the registry and checks the signer is its admin.
func requireAdmin(ctx *tx.ApplyContext) (*entry.Registry, tx.Result) {
	reg, res := ctx.ReadRegistry()
	if res != tx.TesSUCCESS {
		return nil, res
	}
	if reg.Admin != ctx.Account {
		return nil, tx.Unauthorized
	}
	return reg, tx.TesSUCCESS
}

// Accounts optionally names the accounts a depositor expects a market to use.
// Each one that is set must match the market's derived accounts.
type Accounts struct {
	// Authority is the market's escrow owner
	Authority *entry.Address `codec:"authority,omitempty"`

	// Token is the asset paid in and out
	Token *entry.Asset `codec:"token,omitempty"`

	// OptionMint is the receipt mint of the chosen option
	OptionMint *entry.Asset `codec:"option_mint,omitempty"`

	// OptionOwner receives the option tokens; it must be the signer
	OptionOwner *entry.Address `codec:"option_owner,omitempty"`
}

func (a *Accounts) check(m *entry.Market, o entry.Outcome, signer entry.Address) tx.Result {
	if a.Authority != nil && *a.Authority != m.Authority {
		return tx.InvalidMarketAuthority
	}
	if a.Token != nil && *a.Token != m.BuyToken {
		return tx.InvalidTokenAccount
	}
	if a.OptionMint != nil && o != entry.OutcomeUnresolved && *a.OptionMint != m.OptionMint(o) {
		return tx.InvalidOptionMint
	}
	if a.OptionOwner != nil && *a.OptionOwner != signer {
		return tx.InvalidOptionTokenAccount
	}
	return tx.TesSUCCESS
}

func validateMarketID(id string) error {
	if err := keylet.ValidateMarketID(id); err != nil {
		return tx.Errorf(tx.TemMALFORMED, "market id: %v", err)
	}
	return nil
}
