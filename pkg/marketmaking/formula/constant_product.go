// Package formula defines the pricing formulas used by pools.
package formula

import (
	"errors"

	"github.com/shareswap/poold/pkg/mathutil"
	"github.com/shopspring/decimal"
)

var (
	// ErrBalanceTooLow ...
	ErrBalanceTooLow = errors.New("reserve balance amount is too low")
	// ErrInvalidFee ...
	ErrInvalidFee = errors.New("fee must be at most 10000 basis points")
)

// ConstantProductOpts defines the parameters needed to quote a trade against
// a pair of reserves.
type ConstantProductOpts struct {
	BalanceIn  uint64
	BalanceOut uint64
	// Fee in basis points retained by the curve, charged on the way in.
	Fee uint64
}

// ConstantProduct defines an AMM strategy where the product of the two
// reserves is kept constant (net of fees).
type ConstantProduct struct{}

// SpotPrice returns how many units of the out asset one unit of the in asset
// is worth, without fees.
func (ConstantProduct) SpotPrice(opts ConstantProductOpts) (decimal.Decimal, error) {
	if opts.BalanceIn == 0 || opts.BalanceOut == 0 {
		return decimal.Zero, ErrBalanceTooLow
	}
	return mathutil.Ratio(opts.BalanceOut, opts.BalanceIn)
}

// OutGivenIn returns the amount of the out asset exchanged for amountIn.
// Every step floors, in favour of the reserves:
//
//	amountInWithFee = floor(amountIn * (10000 - fee) / 10000)
//	amountOut       = floor(amountInWithFee * balanceOut / (balanceIn + amountInWithFee))
func (ConstantProduct) OutGivenIn(
	opts ConstantProductOpts, amountIn uint64,
) (uint64, error) {
	if opts.BalanceIn == 0 || opts.BalanceOut == 0 {
		return 0, ErrBalanceTooLow
	}
	if opts.Fee > mathutil.BpsDenominator {
		return 0, ErrInvalidFee
	}

	amountInWithFee, err := mathutil.ApplyFeeDiscount(amountIn, opts.Fee)
	if err != nil {
		return 0, err
	}

	numerator, err := mathutil.CheckedMul(
		mathutil.Widen(amountInWithFee), mathutil.Widen(opts.BalanceOut),
	)
	if err != nil {
		return 0, err
	}
	denominator, err := mathutil.CheckedAdd(
		mathutil.Widen(opts.BalanceIn), mathutil.Widen(amountInWithFee),
	)
	if err != nil {
		return 0, err
	}
	amountOut, err := mathutil.CheckedDiv(numerator, denominator)
	if err != nil {
		return 0, err
	}
	return mathutil.Narrow(amountOut)
}
