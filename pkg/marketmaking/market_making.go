package marketmaking

import (
	"github.com/shareswap/poold/pkg/marketmaking/formula"
	"github.com/shopspring/decimal"
)

// MakingFormula defines the interface for implementing the formula that
// prices the next trade of a pool given its reserves.
type MakingFormula interface {
	SpotPrice(opts formula.ConstantProductOpts) (decimal.Decimal, error)
	OutGivenIn(opts formula.ConstantProductOpts, amountIn uint64) (uint64, error)
}

// MakingStrategy defines the automated market making strategy, using a formula
// to calculate the price of the next trade.
type MakingStrategy struct {
	name        string
	description string
	formula     MakingFormula
}

// NewStrategyFromFormula returns the strategy struct with the name
func NewStrategyFromFormula(name, description string, formula MakingFormula) *MakingStrategy {
	return &MakingStrategy{
		name:        name,
		description: description,
		formula:     formula,
	}
}

// NewConstantProductStrategy returns the x*y=k strategy used by every pool.
func NewConstantProductStrategy() *MakingStrategy {
	return NewStrategyFromFormula(
		"constant-product",
		"reserves are priced so that their product stays constant net of fees",
		formula.ConstantProduct{},
	)
}

// Name returns the short name of the MM strategy
func (ms *MakingStrategy) Name() string {
	return ms.name
}

// Description returns the long description of the MM strategy
func (ms *MakingStrategy) Description() string {
	return ms.description
}

// Formula returns the mathematical formula of the MM strategy
func (ms *MakingStrategy) Formula() MakingFormula {
	return ms.formula
}
