// Package amount holds stake values in integer minor units. All arithmetic
// that could leave the uint64 range is carried out on 256-bit intermediates
// and reported as an error instead of wrapping.
package amount

import (
	"errors"
	"strconv"

	"github.com/holiman/uint256"
)

// BasisPointsDenominator is 100% expressed in basis points.
const BasisPointsDenominator = 10_000

var (
	ErrOverflow       = errors.New("amount overflows uint64")
	ErrUnderflow      = errors.New("amount underflows zero")
	ErrDivisionByZero = errors.New("division by zero")
)

// Amount is a non-negative quantity in minor currency units.
type Amount uint64

func (a Amount) Uint64() uint64 {
	return uint64(a)
}

func (a Amount) IsZero() bool {
	return a == 0
}

func (a Amount) String() string {
	return strconv.FormatUint(uint64(a), 10)
}

// Parse reads a base-10 amount.
func Parse(s string) (Amount, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return Amount(v), nil
}

// Add returns a+b or ErrOverflow.
func (a Amount) Add(b Amount) (Amount, error) {
	z, overflow := new(uint256.Int).AddOverflow(a.u256(), b.u256())
	if overflow || !z.IsUint64() {
		return 0, ErrOverflow
	}
	return Amount(z.Uint64()), nil
}

// Sub returns a-b or ErrUnderflow.
func (a Amount) Sub(b Amount) (Amount, error) {
	if b > a {
		return 0, ErrUnderflow
	}
	return a - b, nil
}

// Sum adds all values, failing on the first overflow.
func Sum(vals ...Amount) (Amount, error) {
	var total Amount
	var err error
	for _, v := range vals {
		if total, err = total.Add(v); err != nil {
			return 0, err
		}
	}
	return total, nil
}

// MulDiv returns floor(a*b/c). The product is computed in 256 bits so it
// never wraps; only a quotient that does not fit in uint64 is an error.
func MulDiv(a, b, c Amount) (Amount, error) {
	if c == 0 {
		return 0, ErrDivisionByZero
	}
	z := new(uint256.Int).Mul(a.u256(), b.u256())
	z.Div(z, c.u256())
	if !z.IsUint64() {
		return 0, ErrOverflow
	}
	return Amount(z.Uint64()), nil
}

// BasisPoints returns floor(a*bps/10000).
func (a Amount) BasisPoints(bps uint64) (Amount, error) {
	return MulDiv(a, Amount(bps), BasisPointsDenominator)
}

func (a Amount) u256() *uint256.Int {
	return uint256.NewInt(uint64(a))
}
