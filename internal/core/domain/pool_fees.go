package domain

// ProtocolFeeWithdrawal holds the exact amounts to move from the fee vaults
// to the admin. A zero side is skipped.
type ProtocolFeeWithdrawal struct {
	AmountA uint64
	AmountB uint64
}

// WithdrawProtocolFees checks that caller is the admin and that the fee
// vaults cover the requested amounts.
func (p *Pool) WithdrawProtocolFees(
	caller Signer, balances PoolBalances, amountA, amountB uint64,
) (*ProtocolFeeWithdrawal, error) {
	if err := p.authorize(caller); err != nil {
		return nil, err
	}
	if amountA == 0 && amountB == 0 {
		return nil, ErrInvalidAmount
	}
	if amountA > 0 && balances.FeeA < amountA {
		return nil, ErrInsufficientLiquidity
	}
	if amountB > 0 && balances.FeeB < amountB {
		return nil, ErrInsufficientLiquidity
	}

	return &ProtocolFeeWithdrawal{
		AmountA: amountA,
		AmountB: amountB,
	}, nil
}
