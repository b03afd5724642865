package tx

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/LeJamon/solcastd/internal/core/ledger/entry"
)

// ErrUnknownTransactionType is returned when a transaction type is unknown
var ErrUnknownTransactionType = errors.New("unknown transaction type")

// Factory creates an empty transaction of one type.
type Factory func() Transaction

var (
	registryMu sync.RWMutex
	factories  = make(map[Type]Factory)
)

// Register makes a transaction type known to the engine and decoder.
// Sub-packages call it from init().
func Register(t Type, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := factories[t]; dup {
		panic(fmt.Sprintf("tx: type %s registered twice", t))
	}
	factories[t] = f
}

// NewFromType creates a new transaction of the given type
func NewFromType(t Type) (Transaction, error) {
	registryMu.RLock()
	f, ok := factories[t]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTransactionType, t)
	}
	return f(), nil
}

// RegisteredTypes returns the registered types in ascending order.
func RegisteredTypes() []Type {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]Type, 0, len(factories))
	for t := range factories {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// envelope is the self-describing wire form of a transaction.
type envelope struct {
	Type Type   `codec:"type"`
	Body []byte `codec:"body"`
}

// Encode serializes t with its type tag so Decode can rebuild it.
func Encode(t Transaction) ([]byte, error) {
	body, err := entry.Marshal(t)
	if err != nil {
		return nil, err
	}
	return entry.Marshal(&envelope{Type: t.TxType(), Body: body})
}

// Decode rebuilds a transaction produced by Encode.
func Decode(data []byte) (Transaction, error) {
	var env envelope
	if err := entry.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	t, err := NewFromType(env.Type)
	if err != nil {
		return nil, err
	}
	if err := entry.Unmarshal(env.Body, t); err != nil {
		return nil, fmt.Errorf("decode %s: %w", env.Type, err)
	}
	return t, nil
}
