package tx

import "fmt"

// Type identifies a transaction type
type Type uint16

// Transaction types
const (
	TypeInitialize   Type = 1
	TypeCreateMarket Type = 2
	TypeBuyShare     Type = 3
	TypeResolve      Type = 4
	TypeWithdraw     Type = 5
	TypeFund         Type = 6
)

var typeNames = map[Type]string{
	TypeInitialize:   "Initialize",
	TypeCreateMarket: "CreateMarket",
	TypeBuyShare:     "BuyShare",
	TypeResolve:      "Resolve",
	TypeWithdraw:     "Withdraw",
	TypeFund:         "Fund",
}

// String returns the string representation of the transaction type
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", uint16(t))
}

// TypeFromName returns the transaction type for a given name
func TypeFromName(name string) (Type, bool) {
	for t, n := range typeNames {
		if n == name {
			return t, true
		}
	}
	return 0, false
}
