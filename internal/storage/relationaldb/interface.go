// Package relationaldb stores the processed-transaction history in a SQL
// database. Ledger state itself lives in the key-value store; this is the
// queryable audit trail next to it.
package relationaldb

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/mr-tron/base58"
)

// Hash represents a 256-bit hash
type Hash [32]byte

// AccountID represents an account identifier
type AccountID [20]byte

// TransactionInfo contains information about a processed transaction
type TransactionInfo struct {
	Hash       Hash      `json:"hash"`
	TxType     string    `json:"tx_type"`
	Account    AccountID `json:"account"`
	MarketID   string    `json:"market_id,omitempty"`
	Result     string    `json:"result"`
	ResultCode int       `json:"result_code"`
	Timestamp  time.Time `json:"timestamp"`
	RawTxn     []byte    `json:"raw_txn,omitempty"`
}

// TxQuery filters history queries. Zero fields do not filter.
type TxQuery struct {
	Account  *AccountID
	MarketID string
	Limit    int
	Offset   int
}

// DefaultQueryLimit caps a query that does not set Limit.
const DefaultQueryLimit = 200

// TransactionRepository handles transaction history operations
type TransactionRepository interface {
	// SaveTransaction records a transaction. Saving the same hash twice is a no-op.
	SaveTransaction(ctx context.Context, txInfo *TransactionInfo) error
	GetTransaction(ctx context.Context, hash Hash) (*TransactionInfo, error)
	// GetTransactions returns matching transactions, newest first.
	GetTransactions(ctx context.Context, q TxQuery) ([]TransactionInfo, error)
	GetTransactionCount(ctx context.Context) (int64, error)
}

// Database is an opened history store.
type Database interface {
	TransactionRepository
	Open(ctx context.Context) error
	Close(ctx context.Context) error
}

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

func (h Hash) IsZero() bool {
	return h == Hash{}
}

// ParseHash parses a hex-encoded hash
func ParseHash(s string) (Hash, error) {
	var h Hash
	b, err := hex.DecodeString(s)
	if err != nil {
		return h, fmt.Errorf("%w: %v", ErrInvalidTransactionHash, err)
	}
	if len(b) != len(h) {
		return h, fmt.Errorf("%w: got %d bytes", ErrInvalidTransactionHash, len(b))
	}
	copy(h[:], b)
	return h, nil
}

// String renders the account in base58.
func (a AccountID) String() string {
	return base58.Encode(a[:])
}

// ParseAccountID parses a base58 account.
func ParseAccountID(s string) (AccountID, error) {
	var a AccountID
	b, err := base58.Decode(s)
	if err != nil || len(b) != len(a) {
		return a, fmt.Errorf("%w: %q", ErrInvalidAccountID, s)
	}
	copy(a[:], b)
	return a, nil
}
