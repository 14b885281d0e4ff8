package mathutil

// BpsDenominator is the number of basis points in a whole.
const BpsDenominator = uint64(10000)

// LessFee splits amount into the fee floor(amount * feeAsBasisPoint / 10000)
// and what remains once the fee is taken out (ie. 25 = 0.25%).
func LessFee(amount, feeAsBasisPoint uint64) (withoutFee, calculatedFee uint64, err error) {
	if feeAsBasisPoint > BpsDenominator {
		return 0, 0, ErrMathOverflow
	}

	calculatedFee, err = MulDiv(amount, feeAsBasisPoint, BpsDenominator)
	if err != nil {
		return 0, 0, err
	}
	withoutFee, err = Sub(amount, calculatedFee)
	if err != nil {
		return 0, 0, err
	}
	return withoutFee, calculatedFee, nil
}

// ApplyFeeDiscount returns floor(amount * (10000 - feeAsBasisPoint) / 10000),
// the portion of amount left after a fee retained by the curve.
func ApplyFeeDiscount(amount, feeAsBasisPoint uint64) (uint64, error) {
	complement, err := Sub(BpsDenominator, feeAsBasisPoint)
	if err != nil {
		return 0, err
	}
	return MulDiv(amount, complement, BpsDenominator)
}
