package tx

import (
	"errors"
	"fmt"
)

// Result represents a transaction result code
type Result int

// Engine result codes, organized by category: tes, tec, tef, tem.
const (
	// tesSUCCESS
	TesSUCCESS Result = 0

	// tec: the transaction was well formed but could not be applied
	TecUNFUNDED Result = 129
	TecNO_ENTRY Result = 140

	// tef: the transaction failed before touching state
	TefALREADY       Result = -198
	TefBAD_AUTH      Result = -196
	TefINTERNAL      Result = -192
	TefBAD_SIGNATURE Result = -186

	// tem: the transaction is malformed
	TemMALFORMED     Result = -299
	TemBAD_AMOUNT    Result = -298
	TemBAD_SIGNATURE Result = -282
	TemUNKNOWN       Result = -264
)

// Market program errors. Codes and messages are part of the external
// interface and must not change.
const (
	Unauthorized              Result = 6000
	MarketIDAlreadyExists     Result = 6001
	InvalidOption             Result = 6002
	MarketAlreadyResolved     Result = 6003
	MarketNotFound            Result = 6004
	MarketNotResolved         Result = 6005
	NoWinningShares           Result = 6006
	AlreadyWithdrawn          Result = 6007
	InvalidOptionsCount       Result = 6008
	InvalidTokenAccount       Result = 6009
	InvalidOptionTokenAccount Result = 6010
	InvalidOptionMint         Result = 6011
	InvalidMarketAuthority    Result = 6012
)

type resultInfo struct {
	name    string
	message string
}

var results = map[Result]resultInfo{
	TesSUCCESS:       {"tesSUCCESS", "The transaction was applied."},
	TecUNFUNDED:      {"tecUNFUNDED", "Insufficient balance."},
	TecNO_ENTRY:      {"tecNO_ENTRY", "No matching entry found."},
	TefALREADY:       {"tefALREADY", "The exact transaction was already in this ledger."},
	TefBAD_AUTH:      {"tefBAD_AUTH", "Transaction's public key is not authorized."},
	TefINTERNAL:      {"tefINTERNAL", "Internal error."},
	TefBAD_SIGNATURE: {"tefBAD_SIGNATURE", "A signature is provided for a non-signer."},
	TemMALFORMED:     {"temMALFORMED", "Malformed transaction."},
	TemBAD_AMOUNT:    {"temBAD_AMOUNT", "Malformed: Bad amount."},
	TemBAD_SIGNATURE: {"temBAD_SIGNATURE", "Malformed: Bad signature."},
	TemUNKNOWN:       {"temUNKNOWN", "The transaction requires logic that is not implemented yet."},

	Unauthorized:              {"Unauthorized", "Unauthorized operation"},
	MarketIDAlreadyExists:     {"MarketIdAlreadyExists", "Market ID already exists"},
	InvalidOption:             {"InvalidOption", "Invalid option"},
	MarketAlreadyResolved:     {"MarketAlreadyResolved", "Market already resolved"},
	MarketNotFound:            {"MarketNotFound", "Market not found"},
	MarketNotResolved:         {"MarketNotResolved", "Market not resolved"},
	NoWinningShares:           {"NoWinningShares", "No winning shares"},
	AlreadyWithdrawn:          {"AlreadyWithdrawn", "You've already withdrawn your winnings"},
	InvalidOptionsCount:       {"InvalidOptionsCount", "Markets must have exactly two options"},
	InvalidTokenAccount:       {"InvalidTokenAccount", "Invalid token account"},
	InvalidOptionTokenAccount: {"InvalidOptionTokenAccount", "Invalid option token account"},
	InvalidOptionMint:         {"InvalidOptionMint", "Invalid option mint"},
	InvalidMarketAuthority:    {"InvalidMarketAuthority", "Invalid market authority"},
}

// String returns the symbolic name of the result code
func (r Result) String() string {
	if info, ok := results[r]; ok {
		return info.name
	}
	return fmt.Sprintf("Result(%d)", int(r))
}

// Message returns a human-readable message for the result
func (r Result) Message() string {
	if info, ok := results[r]; ok {
		return info.message
	}
	return "Unknown result."
}

// Error lets a Result be used as an errors.Is target.
func (r Result) Error() string {
	return fmt.Sprintf("%s (%d): %s", r.String(), int(r), r.Message())
}

// IsSuccess returns true if the transaction succeeded
func (r Result) IsSuccess() bool {
	return r == TesSUCCESS
}

// IsTec returns true if this is a tec (claimed cost) result
func (r Result) IsTec() bool {
	return r >= 100 && r < 200
}

// IsTef returns true if this is a tef (failure) result
func (r Result) IsTef() bool {
	return r >= -199 && r <= -100
}

// IsTem returns true if this is a tem (malformed) result
func (r Result) IsTem() bool {
	return r >= -299 && r <= -200
}

// IsProgramError returns true for market program errors (6000 and up).
func (r Result) IsProgramError() bool {
	return r >= 6000
}

// Err returns nil for TesSUCCESS and a *ResultError otherwise.
func (r Result) Err() error {
	if r.IsSuccess() {
		return nil
	}
	return &ResultError{Result: r}
}

// ResultError carries a non-success Result through error returns.
type ResultError struct {
	Result Result
	// Detail optionally explains the failure.
	Detail string
}

func (e *ResultError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Result.Error(), e.Detail)
	}
	return e.Result.Error()
}

// Is matches both a bare Result and another *ResultError with the same code.
func (e *ResultError) Is(target error) bool {
	switch t := target.(type) {
	case Result:
		return t == e.Result
	case *ResultError:
		return t.Result == e.Result
	default:
		return false
	}
}

// Errorf returns a ResultError for r with a formatted detail.
func Errorf(r Result, format string, args ...any) error {
	return &ResultError{Result: r, Detail: fmt.Sprintf(format, args...)}
}

// ResultOf extracts the Result carried by err, or TemMALFORMED for plain errors.
func ResultOf(err error) Result {
	if err == nil {
		return TesSUCCESS
	}
	var re *ResultError
	if errors.As(err, &re) {
		return re.Result
	}
	var r Result
	if errors.As(err, &r) {
		return r
	}
	return TemMALFORMED
}
