package domain

import (
	"github.com/shareswap/poold/pkg/mathutil"
)

// DepositResult holds the amounts actually consumed by a deposit and the
// shares minted in exchange.
type DepositResult struct {
	AmountA uint64
	AmountB uint64
	Shares  uint64
}

// WithdrawResult holds the amounts released by burning Shares.
type WithdrawResult struct {
	Shares  uint64
	AmountA uint64
	AmountB uint64
}

// Deposit computes how much of amountA and amountB the pool takes and how
// many shares it mints for them.
// The first deposit mints floor(sqrt(amountA * amountB)) shares and consumes
// both amounts entirely. Any later deposit is trimmed to the current reserve
// ratio: the limiting side is consumed entirely and the excess of the other
// side is left to the caller.
func (p *Pool) Deposit(
	balances PoolBalances, amountA, amountB, minSharesOut uint64,
) (*DepositResult, error) {
	if p.IsPaused() {
		return nil, ErrPoolPaused
	}
	if amountA == 0 || amountB == 0 {
		return nil, ErrInvalidAmount
	}

	var result *DepositResult
	var err error
	if balances.ShareSupply == 0 {
		result, err = firstDeposit(amountA, amountB)
	} else {
		result, err = proportionalDeposit(balances, amountA, amountB)
	}
	if err != nil {
		return nil, err
	}

	if result.Shares < minSharesOut {
		return nil, ErrSlippageExceeded
	}
	return result, nil
}

// Withdraw computes the amounts of both assets released by burning shares,
// floor(shares * reserve / supply) each. Withdrawals are allowed while the
// pool is paused.
func (p *Pool) Withdraw(
	balances PoolBalances, shares, minAmountA, minAmountB uint64,
) (*WithdrawResult, error) {
	if shares == 0 {
		return nil, ErrInvalidAmount
	}
	if balances.ShareSupply == 0 || shares > balances.ShareSupply {
		return nil, ErrInsufficientLiquidity
	}

	amountA, err := mathutil.MulDiv(shares, balances.ReserveA, balances.ShareSupply)
	if err != nil {
		return nil, err
	}
	amountB, err := mathutil.MulDiv(shares, balances.ReserveB, balances.ShareSupply)
	if err != nil {
		return nil, err
	}

	if amountA < minAmountA || amountB < minAmountB {
		return nil, ErrSlippageExceeded
	}

	return &WithdrawResult{
		Shares:  shares,
		AmountA: amountA,
		AmountB: amountB,
	}, nil
}

func firstDeposit(amountA, amountB uint64) (*DepositResult, error) {
	product, err := mathutil.CheckedMul(
		mathutil.Widen(amountA), mathutil.Widen(amountB),
	)
	if err != nil {
		return nil, err
	}
	shares, err := mathutil.IntegerSqrt(product)
	if err != nil {
		return nil, err
	}

	return &DepositResult{
		AmountA: amountA,
		AmountB: amountB,
		Shares:  shares,
	}, nil
}

func proportionalDeposit(
	balances PoolBalances, amountA, amountB uint64,
) (*DepositResult, error) {
	if balances.ReserveA == 0 || balances.ReserveB == 0 {
		return nil, ErrInsufficientLiquidity
	}

	// ideal_b is kept wide: when it doesn't fit 64 bits the deposit is simply
	// limited by b.
	product, err := mathutil.CheckedMul(
		mathutil.Widen(amountA), mathutil.Widen(balances.ReserveB),
	)
	if err != nil {
		return nil, err
	}
	idealB, err := mathutil.CheckedDiv(product, mathutil.Widen(balances.ReserveA))
	if err != nil {
		return nil, err
	}

	if !mathutil.Widen(amountB).Lt(idealB) {
		usedB, err := mathutil.Narrow(idealB)
		if err != nil {
			return nil, err
		}
		shares, err := mathutil.MulDiv(
			amountA, balances.ShareSupply, balances.ReserveA,
		)
		if err != nil {
			return nil, err
		}
		return &DepositResult{
			AmountA: amountA,
			AmountB: usedB,
			Shares:  shares,
		}, nil
	}

	usedA, err := mathutil.MulDiv(amountB, balances.ReserveA, balances.ReserveB)
	if err != nil {
		return nil, err
	}
	shares, err := mathutil.MulDiv(amountB, balances.ShareSupply, balances.ReserveB)
	if err != nil {
		return nil, err
	}
	return &DepositResult{
		AmountA: usedA,
		AmountB: amountB,
		Shares:  shares,
	}, nil
}
