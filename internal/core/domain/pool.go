package domain

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/shareswap/poold/pkg/marketmaking"
	"github.com/shareswap/poold/pkg/marketmaking/formula"
)

// SwapDirection is one of the two ordered directions of a trade.
type SwapDirection int

const (
	SwapAToB SwapDirection = iota
	SwapBToA
)

func (d SwapDirection) String() string {
	switch d {
	case SwapAToB:
		return "a_to_b"
	case SwapBToA:
		return "b_to_a"
	default:
		return "unknown"
	}
}

// IsValid returns whether d is one of the two known directions.
func (d SwapDirection) IsValid() bool {
	return d == SwapAToB || d == SwapBToA
}

// ParseSwapDirection converts the string representation of a direction.
func ParseSwapDirection(s string) (SwapDirection, error) {
	switch strings.ToLower(s) {
	case "a_to_b", "atob":
		return SwapAToB, nil
	case "b_to_a", "btoa":
		return SwapBToA, nil
	default:
		return 0, ErrInvalidSwapDirection
	}
}

// PoolPrice represents the spot prices of a pool.
type PoolPrice struct {
	// how much 1 unit of asset a is valued in asset b.
	PriceA string
	// how much 1 unit of asset b is valued in asset a.
	PriceB string
}

// PoolBalances is the live economic state of a pool, read fresh from the
// custody ledger at the beginning of every operation and never cached.
type PoolBalances struct {
	ReserveA    uint64
	ReserveB    uint64
	ShareSupply uint64
	FeeA        uint64
	FeeB        uint64
}

// Pool defines the durable record of a two-asset constant-product pool.
// Reserves and share supply are not part of it, they are the balances of the
// accounts it references.
type Pool struct {
	// Name is the pool key, derived from the asset pair.
	Name string
	// Assets of the pair, in hex format.
	AssetA string
	AssetB string
	// Custody accounts holding the tradable reserves.
	VaultA string
	VaultB string
	// Asset id of the pool share token.
	ShareMint string
	// Custody accounts holding the protocol fees.
	FeeVaultA string
	FeeVaultB string
	// Identity allowed to pause, withdraw fees and rotate the admin.
	Admin string
	// Total swap fee expressed in basis points.
	FeeBps uint16
	// Part of FeeBps routed to the protocol fee vaults.
	ProtocolFeeBps uint16
	// If true, deposits and swaps are rejected. Withdrawals are always allowed.
	Paused bool
}

// NewPool returns a new open pool for the given pair and admin. The custody
// accounts and share mint identities are derived from the pool name.
func NewPool(
	assetA, assetB, admin string, feeBps, protocolFeeBps uint16,
) (*Pool, error) {
	if !IsValidAsset(assetA) {
		return nil, ErrPoolInvalidAssetA
	}
	if !IsValidAsset(assetB) {
		return nil, ErrPoolInvalidAssetB
	}
	if strings.EqualFold(assetA, assetB) {
		return nil, ErrPoolSameAsset
	}
	admin = NormalizeIdentity(admin)
	if len(admin) <= 0 {
		return nil, ErrPoolInvalidAdmin
	}
	if !isValidFee(feeBps, protocolFeeBps) {
		return nil, ErrInvalidFee
	}

	name := MakePoolName(assetA, assetB)
	return &Pool{
		Name:           name,
		AssetA:         strings.ToLower(assetA),
		AssetB:         strings.ToLower(assetB),
		VaultA:         makeAccountID(name, vaultALabel),
		VaultB:         makeAccountID(name, vaultBLabel),
		ShareMint:      makeAccountID(name, shareMintLabel),
		FeeVaultA:      makeAccountID(name, feeVaultALabel),
		FeeVaultB:      makeAccountID(name, feeVaultBLabel),
		Admin:          admin,
		FeeBps:         feeBps,
		ProtocolFeeBps: protocolFeeBps,
	}, nil
}

// IsPaused returns true if deposits and swaps are currently rejected.
func (p *Pool) IsPaused() bool {
	return p.Paused
}

// LpFeeBps returns the part of the total fee retained in the reserves.
func (p *Pool) LpFeeBps() (uint16, error) {
	if p.ProtocolFeeBps > p.FeeBps {
		return 0, ErrInvalidFee
	}
	return p.FeeBps - p.ProtocolFeeBps, nil
}

// SpotPrice returns the prices of the pool assets given the current reserves.
func (p *Pool) SpotPrice(balances PoolBalances) (PoolPrice, error) {
	f := p.Strategy().Formula()

	priceA, err := f.SpotPrice(formula.ConstantProductOpts{
		BalanceIn:  balances.ReserveA,
		BalanceOut: balances.ReserveB,
	})
	if err != nil {
		return PoolPrice{}, ErrInsufficientLiquidity
	}
	priceB, err := f.SpotPrice(formula.ConstantProductOpts{
		BalanceIn:  balances.ReserveB,
		BalanceOut: balances.ReserveA,
	})
	if err != nil {
		return PoolPrice{}, ErrInsufficientLiquidity
	}

	return PoolPrice{
		PriceA: priceA.String(),
		PriceB: priceB.String(),
	}, nil
}

// Accounts returns every custody account of the pool with the asset it holds.
func (p *Pool) Accounts() map[string]string {
	return map[string]string{
		p.VaultA:    p.AssetA,
		p.VaultB:    p.AssetB,
		p.FeeVaultA: p.AssetA,
		p.FeeVaultB: p.AssetB,
	}
}

// Strategy returns the market making strategy pricing the pool.
func (p *Pool) Strategy() *marketmaking.MakingStrategy {
	return marketmaking.NewConstantProductStrategy()
}

// MakePoolName returns the pool key for a pair. The pair is unordered, so
// (a, b) and (b, a) address the same pool.
func MakePoolName(assetA, assetB string) string {
	a, b := strings.ToLower(assetA), strings.ToLower(assetB)
	if b < a {
		a, b = b, a
	}
	buf, _ := hex.DecodeString(a + b)
	return hex.EncodeToString(btcutil.Hash160(buf))
}

// UserAccountID returns the ledger account holding asset for owner.
func UserAccountID(owner, asset string) string {
	return makeAccountID(NormalizeIdentity(owner), strings.ToLower(asset))
}

func makeAccountID(owner, label string) string {
	return fmt.Sprintf("%s/%s", owner, label)
}

// IsValidAsset returns whether asset is a 32-byte hex string.
func IsValidAsset(asset string) bool {
	buf, err := hex.DecodeString(asset)
	if err != nil {
		return false
	}
	return len(buf) == 32
}

func isValidFee(feeBps, protocolFeeBps uint16) bool {
	return feeBps <= MaxFeeBps && protocolFeeBps <= feeBps
}
