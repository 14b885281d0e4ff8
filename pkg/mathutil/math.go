// Package mathutil implements the overflow checked integer arithmetic used
// for pricing and share accounting. Every product of two 64-bit quantities is
// widened to 128 bits before being multiplied, and every failure (overflow or
// division by zero) is reported as ErrMathOverflow.
package mathutil

import (
	"errors"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// maxBits is the width of the widest intermediate value.
const maxBits = 128

var (
	// ErrMathOverflow is returned whenever an operation would exceed the
	// 128-bit intermediate range, narrow a value that does not fit 64 bits,
	// underflow or divide by zero.
	ErrMathOverflow = errors.New("math overflow")
)

func init() {
	decimal.DivisionPrecision = 8
}

// Widen returns x as a 128-bit intermediate value.
func Widen(x uint64) *uint256.Int {
	return uint256.NewInt(x)
}

// CheckedMul returns x * y, failing if the product exceeds 128 bits.
func CheckedMul(x, y *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).MulOverflow(x, y)
	if overflow || z.BitLen() > maxBits {
		return nil, ErrMathOverflow
	}
	return z, nil
}

// CheckedAdd returns x + y, failing if the sum exceeds 128 bits.
func CheckedAdd(x, y *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).AddOverflow(x, y)
	if overflow || z.BitLen() > maxBits {
		return nil, ErrMathOverflow
	}
	return z, nil
}

// CheckedDiv returns floor(x / y), failing if y is zero.
func CheckedDiv(x, y *uint256.Int) (*uint256.Int, error) {
	if y.IsZero() {
		return nil, ErrMathOverflow
	}
	return new(uint256.Int).Div(x, y), nil
}

// Narrow converts a 128-bit intermediate back to 64 bits. Values that do not
// fit are an overflow, never truncated.
func Narrow(x *uint256.Int) (uint64, error) {
	if !x.IsUint64() {
		return 0, ErrMathOverflow
	}
	return x.Uint64(), nil
}

// Sub returns x - y, failing on underflow.
func Sub(x, y uint64) (uint64, error) {
	if y > x {
		return 0, ErrMathOverflow
	}
	return x - y, nil
}

// Add returns x + y, failing if the sum does not fit 64 bits.
func Add(x, y uint64) (uint64, error) {
	z := x + y
	if z < x {
		return 0, ErrMathOverflow
	}
	return z, nil
}

// MulDiv returns floor(x * y / d) computed with a 128-bit intermediate.
func MulDiv(x, y, d uint64) (uint64, error) {
	product, err := CheckedMul(Widen(x), Widen(y))
	if err != nil {
		return 0, err
	}
	quotient, err := CheckedDiv(product, Widen(d))
	if err != nil {
		return 0, err
	}
	return Narrow(quotient)
}

// IntegerSqrt returns floor(sqrt(v)) using Newton's method on integers.
// The input must fit 128 bits, so the result always fits 64 bits.
func IntegerSqrt(v *uint256.Int) (uint64, error) {
	if v.BitLen() > maxBits {
		return 0, ErrMathOverflow
	}
	if v.IsZero() {
		return 0, nil
	}
	// The initial guess v/2+1 is not above the root for 2 and 3.
	if v.LtUint64(4) {
		return 1, nil
	}

	z := new(uint256.Int).Set(v)
	x := new(uint256.Int).Rsh(v, 1)
	x.AddUint64(x, 1)
	for x.Lt(z) {
		z.Set(x)
		// x = (v/x + x) / 2
		q := new(uint256.Int).Div(v, x)
		x.Add(q, x)
		x.Rsh(x, 1)
	}
	return z.Uint64(), nil
}

// Ratio returns x / y as a decimal with the package division precision.
func Ratio(x, y uint64) (decimal.Decimal, error) {
	if y == 0 {
		return decimal.Zero, ErrMathOverflow
	}
	X := decimal.NewFromBigInt(Widen(x).ToBig(), 0)
	Y := decimal.NewFromBigInt(Widen(y).ToBig(), 0)
	return X.Div(Y), nil
}
