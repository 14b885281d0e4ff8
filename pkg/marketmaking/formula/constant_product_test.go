package formula

import (
	"math"
	"testing"

	"github.com/shareswap/poold/pkg/mathutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstantProduct_SpotPrice(t *testing.T) {
	type args struct {
		opts ConstantProductOpts
	}
	tests := []struct {
		name          string
		args          args
		wantSpotPrice decimal.Decimal
	}{
		{
			"in asset worth more",
			args{
				opts: ConstantProductOpts{
					BalanceIn:  1000,
					BalanceOut: 4000,
				},
			},
			decimal.NewFromInt(4),
		},
		{
			"in asset worth less",
			args{
				opts: ConstantProductOpts{
					BalanceIn:  4000,
					BalanceOut: 1000,
				},
			},
			decimal.NewFromFloat(0.25),
		},
	}
	c := ConstantProduct{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotSpotPrice, err := c.SpotPrice(tt.args.opts)
			if err != nil {
				t.Fatal(err)
			}
			assert.True(t, tt.wantSpotPrice.Equal(gotSpotPrice))
		})
	}
}

func TestConstantProduct_OutGivenIn(t *testing.T) {
	type args struct {
		opts     ConstantProductOpts
		amountIn uint64
	}
	tests := []struct {
		name          string
		args          args
		wantAmountOut uint64
	}{
		{
			"reference scenario",
			args{
				opts: ConstantProductOpts{
					BalanceIn:  1000,
					BalanceOut: 4000,
					Fee:        25,
				},
				amountIn: 100,
			},
			360,
		},
		{
			"no fee",
			args{
				opts: ConstantProductOpts{
					BalanceIn:  1000,
					BalanceOut: 4000,
				},
				amountIn: 100,
			},
			363,
		},
		{
			"dust is eaten by the fee",
			args{
				opts: ConstantProductOpts{
					BalanceIn:  1000,
					BalanceOut: 4000,
					Fee:        25,
				},
				amountIn: 1,
			},
			0,
		},
		{
			"reserves near the 64 bit limit",
			args{
				opts: ConstantProductOpts{
					BalanceIn:  math.MaxUint64 / 2,
					BalanceOut: math.MaxUint64,
					Fee:        25,
				},
				amountIn: math.MaxUint64 / 2,
			},
			9211828392252955061,
		},
	}
	c := ConstantProduct{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotAmountOut, err := c.OutGivenIn(tt.args.opts, tt.args.amountIn)
			require.NoError(t, err)
			assert.Equal(t, tt.wantAmountOut, gotAmountOut)
		})
	}
}

func TestConstantProduct_OutGivenInFailing(t *testing.T) {
	c := ConstantProduct{}

	_, err := c.OutGivenIn(ConstantProductOpts{BalanceIn: 0, BalanceOut: 10}, 10)
	require.ErrorIs(t, err, ErrBalanceTooLow)

	_, err = c.OutGivenIn(ConstantProductOpts{BalanceIn: 10, BalanceOut: 0}, 10)
	require.ErrorIs(t, err, ErrBalanceTooLow)

	_, err = c.OutGivenIn(
		ConstantProductOpts{BalanceIn: 10, BalanceOut: 10, Fee: 10001}, 10,
	)
	require.ErrorIs(t, err, ErrInvalidFee)

	_, err = c.OutGivenIn(
		ConstantProductOpts{BalanceIn: math.MaxUint64, BalanceOut: 10}, math.MaxUint64,
	)
	require.NoError(t, err)
}

func TestConstantProduct_OutGivenInMonotonic(t *testing.T) {
	c := ConstantProduct{}
	opts := ConstantProductOpts{BalanceIn: 1_000_000, BalanceOut: 4_000_000, Fee: 25}

	previous := uint64(0)
	for amountIn := uint64(1000); amountIn <= 100_000; amountIn += 1000 {
		out, err := c.OutGivenIn(opts, amountIn)
		require.NoError(t, err)
		require.Greater(t, out, previous)
		require.Less(t, out, opts.BalanceOut)
		previous = out
	}

	deeper := opts
	deeper.BalanceOut *= 2
	shallower := opts
	shallower.BalanceOut /= 2
	heavier := opts
	heavier.BalanceIn *= 2

	base, _ := c.OutGivenIn(opts, 10_000)
	withDeeperOut, _ := c.OutGivenIn(deeper, 10_000)
	withShallowerOut, _ := c.OutGivenIn(shallower, 10_000)
	withHeavierIn, _ := c.OutGivenIn(heavier, 10_000)
	require.Greater(t, withDeeperOut, base)
	require.Less(t, withShallowerOut, base)
	require.Less(t, withHeavierIn, base)
}

func TestConstantProduct_OutGivenInUsesWideIntermediates(t *testing.T) {
	c := ConstantProduct{}

	out, err := c.OutGivenIn(
		ConstantProductOpts{BalanceIn: 1, BalanceOut: math.MaxUint64}, math.MaxUint64-1,
	)
	require.NoError(t, err)
	require.Less(t, out, uint64(math.MaxUint64))

	_, err = mathutil.MulDiv(math.MaxUint64, math.MaxUint64, 1)
	require.ErrorIs(t, err, mathutil.ErrMathOverflow)
}
