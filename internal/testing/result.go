package testing

import "github.com/LeJamon/solcastd/internal/core/tx"

// TxResult represents the result of applying a transaction.
type TxResult struct {
	// Code is the symbolic result name (e.g., "tesSUCCESS", "NoWinningShares").
	Code string

	// Result is the engine result code.
	Result tx.Result

	// Success indicates whether the transaction was applied.
	Success bool

	// Message provides additional details about the result.
	Message string

	// Hash is the transaction id.
	Hash [32]byte
}

func newTxResult(r tx.ApplyResult) TxResult {
	msg := r.Message
	if r.Detail != "" {
		msg += " (" + r.Detail + ")"
	}
	return TxResult{
		Code:    r.Result.String(),
		Result:  r.Result,
		Success: r.Applied,
		Message: msg,
		Hash:    r.Hash,
	}
}
