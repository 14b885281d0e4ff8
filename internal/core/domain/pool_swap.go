package domain

import (
	"strings"

	"github.com/shareswap/poold/pkg/marketmaking/formula"
	"github.com/shareswap/poold/pkg/mathutil"
)

// SwapArgs are the inputs of a trade. SourceAsset and DestinationAsset are
// the assets the caller asserts to send and receive, they must match the
// legs resolved from Direction.
type SwapArgs struct {
	AmountIn         uint64
	MinAmountOut     uint64
	Direction        SwapDirection
	SourceAsset      string
	DestinationAsset string
}

// SwapResult describes every movement a trade implies.
type SwapResult struct {
	Direction SwapDirection
	AssetIn   string
	AssetOut  string
	// Account receiving AmountInToPool.
	VaultIn string
	// Account paying AmountOut.
	VaultOut string
	// Account receiving ProtocolFee.
	FeeVault       string
	AmountIn       uint64
	ProtocolFee    uint64
	AmountInToPool uint64
	AmountOut      uint64
}

// swapLegs returns (assetIn, assetOut, vaultIn, vaultOut, feeVault) for the
// given direction.
func (p *Pool) swapLegs(
	direction SwapDirection,
) (string, string, string, string, string) {
	if direction == SwapAToB {
		return p.AssetA, p.AssetB, p.VaultA, p.VaultB, p.FeeVaultA
	}
	return p.AssetB, p.AssetA, p.VaultB, p.VaultA, p.FeeVaultB
}

// Swap prices a trade against the current reserves.
// The protocol fee is taken out of amountIn before it reaches the curve, the
// remaining LP fee is applied inside the curve and so stays in the reserves.
func (p *Pool) Swap(balances PoolBalances, args SwapArgs) (*SwapResult, error) {
	if p.IsPaused() {
		return nil, ErrPoolPaused
	}
	if args.AmountIn == 0 {
		return nil, ErrInvalidAmount
	}
	if !args.Direction.IsValid() {
		return nil, ErrInvalidSwapDirection
	}

	assetIn, assetOut, vaultIn, vaultOut, feeVault := p.swapLegs(args.Direction)
	reserveIn, reserveOut := balances.ReserveA, balances.ReserveB
	if args.Direction == SwapBToA {
		reserveIn, reserveOut = reserveOut, reserveIn
	}
	if reserveIn == 0 || reserveOut == 0 {
		return nil, ErrInsufficientLiquidity
	}

	lpFeeBps, err := p.LpFeeBps()
	if err != nil {
		return nil, err
	}

	amountInToPool, protocolFee, err := mathutil.LessFee(
		args.AmountIn, uint64(p.ProtocolFeeBps),
	)
	if err != nil {
		return nil, err
	}

	amountOut, err := p.Strategy().Formula().OutGivenIn(
		formula.ConstantProductOpts{
			BalanceIn:  reserveIn,
			BalanceOut: reserveOut,
			Fee:        uint64(lpFeeBps),
		},
		amountInToPool,
	)
	if err != nil {
		if err == formula.ErrInvalidFee {
			return nil, ErrInvalidFee
		}
		return nil, err
	}

	if amountOut < args.MinAmountOut {
		return nil, ErrSlippageExceeded
	}
	if amountOut >= reserveOut {
		return nil, ErrInsufficientLiquidity
	}
	if !strings.EqualFold(args.SourceAsset, assetIn) ||
		!strings.EqualFold(args.DestinationAsset, assetOut) {
		return nil, ErrInvalidSwapAsset
	}

	return &SwapResult{
		Direction:      args.Direction,
		AssetIn:        assetIn,
		AssetOut:       assetOut,
		VaultIn:        vaultIn,
		VaultOut:       vaultOut,
		FeeVault:       feeVault,
		AmountIn:       args.AmountIn,
		ProtocolFee:    protocolFee,
		AmountInToPool: amountInToPool,
		AmountOut:      amountOut,
	}, nil
}
