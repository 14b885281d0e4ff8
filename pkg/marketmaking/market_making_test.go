package marketmaking_test

import (
	"testing"

	"github.com/shareswap/poold/pkg/marketmaking"
	"github.com/shareswap/poold/pkg/marketmaking/formula"
	"github.com/stretchr/testify/require"
)

func TestConstantProductStrategy(t *testing.T) {
	strategy := marketmaking.NewConstantProductStrategy()
	require.Equal(t, "constant-product", strategy.Name())
	require.NotEmpty(t, strategy.Description())

	amountOut, err := strategy.Formula().OutGivenIn(formula.ConstantProductOpts{
		BalanceIn:  1000,
		BalanceOut: 4000,
		Fee:        25,
	}, 100)
	require.NoError(t, err)

	expected, err := formula.ConstantProduct{}.OutGivenIn(formula.ConstantProductOpts{
		BalanceIn:  1000,
		BalanceOut: 4000,
		Fee:        25,
	}, 100)
	require.NoError(t, err)
	require.Equal(t, expected, amountOut)
}
