package httpinterface

import (
	"github.com/shareswap/poold/internal/core/application"
	"github.com/shareswap/poold/internal/core/domain"
)

type createPoolRequest struct {
	AssetA string `json:"asset_a"`
	AssetB string `json:"asset_b"`
}

type depositRequest struct {
	AmountA      uint64 `json:"amount_a"`
	AmountB      uint64 `json:"amount_b"`
	MinSharesOut uint64 `json:"min_shares_out"`
}

type withdrawRequest struct {
	Shares     uint64 `json:"shares"`
	MinAmountA uint64 `json:"min_amount_a"`
	MinAmountB uint64 `json:"min_amount_b"`
}

type swapRequest struct {
	AmountIn         uint64 `json:"amount_in"`
	MinAmountOut     uint64 `json:"min_amount_out"`
	Direction        string `json:"direction"`
	SourceAsset      string `json:"source_asset"`
	DestinationAsset string `json:"destination_asset"`
}

func (r swapRequest) toDomain() (domain.SwapArgs, error) {
	direction, err := domain.ParseSwapDirection(r.Direction)
	if err != nil {
		return domain.SwapArgs{}, err
	}
	return domain.SwapArgs{
		AmountIn:         r.AmountIn,
		MinAmountOut:     r.MinAmountOut,
		Direction:        direction,
		SourceAsset:      r.SourceAsset,
		DestinationAsset: r.DestinationAsset,
	}, nil
}

type withdrawFeesRequest struct {
	AmountA uint64 `json:"amount_a"`
	AmountB uint64 `json:"amount_b"`
}

type pauseRequest struct {
	Paused bool `json:"paused"`
}

type faucetRequest struct {
	To     string `json:"to"`
	Asset  string `json:"asset"`
	Amount uint64 `json:"amount"`
}

type addWebhookRequest struct {
	Event    string `json:"event"`
	Endpoint string `json:"endpoint"`
	Secret   string `json:"secret"`
}

type strategyResponse struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type poolResponse struct {
	Name           string `json:"name"`
	AssetA         string `json:"asset_a"`
	AssetB         string `json:"asset_b"`
	VaultA         string `json:"vault_a"`
	VaultB         string `json:"vault_b"`
	ShareMint      string `json:"share_mint"`
	FeeVaultA      string `json:"fee_vault_a"`
	FeeVaultB      string `json:"fee_vault_b"`
	Admin          string `json:"admin"`
	FeeBps         uint16 `json:"fee_bps"`
	ProtocolFeeBps uint16 `json:"protocol_fee_bps"`
	Paused         bool   `json:"paused"`
	ReserveA       uint64 `json:"reserve_a"`
	ReserveB       uint64 `json:"reserve_b"`
	ShareSupply    uint64 `json:"share_supply"`
	FeeA           uint64 `json:"fee_a"`
	FeeB           uint64 `json:"fee_b"`

	Strategy strategyResponse `json:"strategy"`
}

func newPoolResponse(info application.PoolInfo) poolResponse {
	strategy := info.Strategy()
	return poolResponse{
		Name:           info.Name,
		AssetA:         info.AssetA,
		AssetB:         info.AssetB,
		VaultA:         info.VaultA,
		VaultB:         info.VaultB,
		ShareMint:      info.ShareMint,
		FeeVaultA:      info.FeeVaultA,
		FeeVaultB:      info.FeeVaultB,
		Admin:          info.Admin,
		FeeBps:         info.FeeBps,
		ProtocolFeeBps: info.ProtocolFeeBps,
		Paused:         info.Paused,
		ReserveA:       info.Balances.ReserveA,
		ReserveB:       info.Balances.ReserveB,
		ShareSupply:    info.Balances.ShareSupply,
		FeeA:           info.Balances.FeeA,
		FeeB:           info.Balances.FeeB,
		Strategy: strategyResponse{
			Name:        strategy.Name(),
			Description: strategy.Description(),
		},
	}
}

type priceResponse struct {
	PriceA string `json:"price_a"`
	PriceB string `json:"price_b"`
}

type depositResponse struct {
	AmountA uint64 `json:"amount_a"`
	AmountB uint64 `json:"amount_b"`
	Shares  uint64 `json:"shares"`
}

type withdrawResponse struct {
	Shares  uint64 `json:"shares"`
	AmountA uint64 `json:"amount_a"`
	AmountB uint64 `json:"amount_b"`
}

type swapResponse struct {
	Direction      string `json:"direction"`
	AssetIn        string `json:"asset_in"`
	AssetOut       string `json:"asset_out"`
	AmountIn       uint64 `json:"amount_in"`
	ProtocolFee    uint64 `json:"protocol_fee"`
	AmountInToPool uint64 `json:"amount_in_to_pool"`
	AmountOut      uint64 `json:"amount_out"`
}

func newSwapResponse(res *domain.SwapResult) swapResponse {
	return swapResponse{
		Direction:      res.Direction.String(),
		AssetIn:        res.AssetIn,
		AssetOut:       res.AssetOut,
		AmountIn:       res.AmountIn,
		ProtocolFee:    res.ProtocolFee,
		AmountInToPool: res.AmountInToPool,
		AmountOut:      res.AmountOut,
	}
}

type eventResponse struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Pool        string `json:"pool"`
	Actor       string `json:"actor"`
	Timestamp   int64  `json:"timestamp"`
	AmountA     uint64 `json:"amount_a,omitempty"`
	AmountB     uint64 `json:"amount_b,omitempty"`
	Shares      uint64 `json:"shares,omitempty"`
	Direction   string `json:"direction,omitempty"`
	AmountIn    uint64 `json:"amount_in,omitempty"`
	AmountOut   uint64 `json:"amount_out,omitempty"`
	ProtocolFee uint64 `json:"protocol_fee,omitempty"`
	Paused      bool   `json:"paused"`
	OldAdmin    string `json:"old_admin,omitempty"`
	NewAdmin    string `json:"new_admin,omitempty"`
}

func newEventResponse(e domain.PoolEvent) eventResponse {
	return eventResponse{
		ID:          e.ID,
		Type:        e.Type.String(),
		Pool:        e.PoolName,
		Actor:       e.Actor,
		Timestamp:   e.Timestamp,
		AmountA:     e.AmountA,
		AmountB:     e.AmountB,
		Shares:      e.Shares,
		Direction:   e.Direction,
		AmountIn:    e.AmountIn,
		AmountOut:   e.AmountOut,
		ProtocolFee: e.ProtocolFee,
		Paused:      e.Paused,
		OldAdmin:    e.OldAdmin,
		NewAdmin:    e.NewAdmin,
	}
}

type webhookResponse struct {
	ID        string `json:"id"`
	Event     string `json:"event"`
	Endpoint  string `json:"endpoint"`
	IsSecured bool   `json:"is_secured"`
}
