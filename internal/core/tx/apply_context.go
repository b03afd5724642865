package tx

import (
	"context"
	"errors"
	"time"

	"github.com/LeJamon/solcastd/internal/core/amount"
	"github.com/LeJamon/solcastd/internal/core/ledger"
	"github.com/LeJamon/solcastd/internal/core/ledger/entry"
	"github.com/LeJamon/solcastd/internal/core/ledger/keylet"
	"github.com/LeJamon/solcastd/internal/logging"
)

// ApplyContext provides all the state and helpers needed to apply a transaction.
// It is passed to Appliable.Apply() instead of individual parameters.
type ApplyContext struct {
	Ctx context.Context

	// View stages every read and write of the transaction
	View *ledger.StateTable

	// Account is the verified signer
	Account entry.Address

	// ProgramID seeds every derived address
	ProgramID entry.Address

	// TxHash is the hash of the current transaction
	TxHash [32]byte

	// Now is the engine clock reading for this transaction
	Now time.Time

	Log *logging.Logger

	// Paid accumulates value released from market escrow, for metrics
	Paid amount.Amount
}

// ReadRegistry loads the market registry. A missing registry yields TecNO_ENTRY.
func (ctx *ApplyContext) ReadRegistry() (*entry.Registry, Result) {
	var r entry.Registry
	if res := ctx.read(keylet.Registry(), &r, TecNO_ENTRY); res != TesSUCCESS {
		return nil, res
	}
	return &r, TesSUCCESS
}

// ReadMarket loads a market. A missing market yields MarketNotFound.
func (ctx *ApplyContext) ReadMarket(id string) (*entry.Market, Result) {
	var m entry.Market
	if res := ctx.read(keylet.Market(id), &m, MarketNotFound); res != TesSUCCESS {
		return nil, res
	}
	return &m, TesSUCCESS
}

// ReadBalance loads owner's balance of asset; an absent record is a zero balance.
func (ctx *ApplyContext) ReadBalance(owner entry.Address, asset entry.Asset) (*entry.Balance, Result) {
	b := entry.Balance{Owner: owner, Asset: asset}
	err := ctx.View.ReadEntry(keylet.Balance(owner, asset), &b)
	if err != nil && !errors.Is(err, ledger.ErrEntryNotFound) {
		ctx.internal("read balance", err)
		return nil, TefINTERNAL
	}
	return &b, TesSUCCESS
}

// Write stores e at k, inserting or updating as needed.
func (ctx *ApplyContext) Write(k keylet.Keylet, e entry.Entry) Result {
	if err := ctx.View.PutEntry(k, e); err != nil {
		ctx.internal("write "+k.Type.String(), err)
		return TefINTERNAL
	}
	return TesSUCCESS
}

// Transfer moves amt of asset from one owner to another. Insufficient funds
// yields TecUNFUNDED and leaves both balances untouched.
func (ctx *ApplyContext) Transfer(from, to entry.Address, asset entry.Asset, amt amount.Amount) Result {
	if from == to || amt == 0 {
		return TesSUCCESS
	}
	src, res := ctx.ReadBalance(from, asset)
	if res != TesSUCCESS {
		return res
	}
	dst, res := ctx.ReadBalance(to, asset)
	if res != TesSUCCESS {
		return res
	}
	if err := src.Debit(amt); err != nil {
		return TecUNFUNDED
	}
	if err := dst.Credit(amt); err != nil {
		return TemBAD_AMOUNT
	}
	if res := ctx.Write(keylet.Balance(from, asset), src); res != TesSUCCESS {
		return res
	}
	return ctx.Write(keylet.Balance(to, asset), dst)
}

// Mint creates amt of asset in owner's balance.
func (ctx *ApplyContext) Mint(owner entry.Address, asset entry.Asset, amt amount.Amount) Result {
	b, res := ctx.ReadBalance(owner, asset)
	if res != TesSUCCESS {
		return res
	}
	if err := b.Credit(amt); err != nil {
		return TemBAD_AMOUNT
	}
	return ctx.Write(keylet.Balance(owner, asset), b)
}

func (ctx *ApplyContext) read(k keylet.Keylet, e entry.Entry, missing Result) Result {
	err := ctx.View.ReadEntry(k, e)
	switch {
	case err == nil:
		return TesSUCCESS
	case errors.Is(err, ledger.ErrEntryNotFound):
		return missing
	default:
		ctx.internal("read "+k.Type.String(), err)
		return TefINTERNAL
	}
}

func (ctx *ApplyContext) internal(op string, err error) {
	if ctx.Log != nil {
		ctx.Log.Error("ledger access failed", logging.String("op", op), logging.Error(err))
	}
}
