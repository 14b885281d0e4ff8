package application_test

import (
	"context"
	"strings"
	"testing"

	"github.com/shareswap/poold/internal/core/application"
	"github.com/shareswap/poold/internal/core/domain"
	"github.com/shareswap/poold/internal/core/ports"
	dbbadger "github.com/shareswap/poold/internal/infrastructure/storage/db/badger"
	"github.com/shareswap/poold/internal/infrastructure/storage/db/inmemory"
	"github.com/stretchr/testify/require"
)

const (
	assetA   = "5ac9f65c0efcc4775e0baec4ec03abdde22473cd3cf33c0419ca290e0751b225"
	assetB   = "0ddfa690c7b2ba3b8ecee8200da2420fc502f57f8312c83d466b6f8dced70441"
	operator = "03e4e70b7a3a5c2b2fd0c4b1b2a05ab2e1a6d14ce2e87a7d1f7a6e1f43b0b0b101"
	admin    = "02d9a1b4b5b0c7b3f0c2a7c56f6ae5b4e0c1a6d0f02d9b9ba5bc2e83a0e6f62a22"
	alice    = "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"
	bob      = "02c6047f9441ed7d6d3045406e95c07cd85c778e4b8cef3ca7abac09b95c709ee5"
)

var ctx = context.Background()

func TestPoolLifecycle(t *testing.T) {
	for name, repoManager := range newTestRepoManagers(t) {
		repoManager := repoManager
		t.Run(name, func(t *testing.T) {
			svc := newTestPoolService(t, repoManager)
			faucet(t, svc, alice, assetA, 1000)
			faucet(t, svc, alice, assetB, 4000)
			faucet(t, svc, bob, assetA, 100)

			info, err := svc.CreatePool(ctx, assetA, assetB, domain.NewSigner(admin))
			require.NoError(t, err)
			require.NotNil(t, info)
			require.Equal(t, domain.MakePoolName(assetA, assetB), info.Name)
			require.Equal(t, uint16(domain.DefaultFeeBps), info.FeeBps)
			require.Equal(t, uint16(domain.DefaultProtocolFeeBps), info.ProtocolFeeBps)
			poolName := info.Name

			deposit, err := svc.Deposit(
				ctx, poolName, domain.NewSigner(alice), 1000, 4000, 2000,
			)
			require.NoError(t, err)
			require.Equal(t, uint64(2000), deposit.Shares)

			price, err := svc.GetSpotPrice(ctx, poolName)
			require.NoError(t, err)
			require.Equal(t, "4", price.PriceA)
			require.Equal(t, "0.25", price.PriceB)

			swap, err := svc.Swap(
				ctx, poolName, domain.NewSigner(bob), domain.SwapArgs{
					AmountIn:         100,
					MinAmountOut:     360,
					Direction:        domain.SwapAToB,
					SourceAsset:      assetA,
					DestinationAsset: assetB,
				},
			)
			require.NoError(t, err)
			require.Equal(t, uint64(360), swap.AmountOut)
			require.Zero(t, swap.ProtocolFee)

			info, err = svc.GetPool(ctx, poolName)
			require.NoError(t, err)
			require.Equal(t, domain.PoolBalances{
				ReserveA:    1100,
				ReserveB:    3640,
				ShareSupply: 2000,
			}, info.Balances)

			bobBalances, err := svc.GetBalances(ctx, bob)
			require.NoError(t, err)
			require.Equal(t, uint64(0), bobBalances[assetA])
			require.Equal(t, uint64(360), bobBalances[assetB])

			withdraw, err := svc.Withdraw(
				ctx, poolName, domain.NewSigner(alice), 2000, 1100, 3640,
			)
			require.NoError(t, err)
			require.Equal(t, uint64(1100), withdraw.AmountA)
			require.Equal(t, uint64(3640), withdraw.AmountB)

			aliceBalances, err := svc.GetBalances(ctx, alice)
			require.NoError(t, err)
			require.Equal(t, uint64(1100), aliceBalances[assetA])
			require.Equal(t, uint64(3640), aliceBalances[assetB])
			require.Zero(t, aliceBalances[info.ShareMint])

			info, err = svc.GetPool(ctx, poolName)
			require.NoError(t, err)
			require.Equal(t, domain.PoolBalances{}, info.Balances)

			events, err := svc.ListEvents(ctx, poolName, nil)
			require.NoError(t, err)
			require.Len(t, events, 4)
			require.Equal(t, domain.PoolCreatedEvent, events[0].Type)
			require.Equal(t, domain.DepositEvent, events[1].Type)
			require.Equal(t, domain.SwapEvent, events[2].Type)
			require.Equal(t, domain.WithdrawEvent, events[3].Type)
			require.Equal(t, bob, events[2].Actor)
			require.Equal(t, uint64(360), events[2].AmountOut)

			page := domain.NewPage(2, 3)
			events, err = svc.ListEvents(ctx, poolName, &page)
			require.NoError(t, err)
			require.Len(t, events, 1)
			require.Equal(t, domain.WithdrawEvent, events[0].Type)
		})
	}
}

func TestProportionalDeposit(t *testing.T) {
	for name, repoManager := range newTestRepoManagers(t) {
		repoManager := repoManager
		t.Run(name, func(t *testing.T) {
			svc := newTestPoolService(t, repoManager)
			poolName := newTestPool(t, svc, 1000, 4000)
			faucet(t, svc, bob, assetA, 100)
			faucet(t, svc, bob, assetB, 500)

			quote, err := svc.QuoteDeposit(ctx, poolName, 100, 500)
			require.NoError(t, err)

			res, err := svc.Deposit(ctx, poolName, domain.NewSigner(bob), 100, 500, 0)
			require.NoError(t, err)
			require.Equal(t, quote, res)
			require.Equal(t, uint64(100), res.AmountA)
			require.Equal(t, uint64(400), res.AmountB)
			require.Equal(t, uint64(200), res.Shares)

			balances, err := svc.GetBalances(ctx, bob)
			require.NoError(t, err)
			require.Equal(t, uint64(0), balances[assetA])
			require.Equal(t, uint64(100), balances[assetB])

			info, err := svc.GetPool(ctx, poolName)
			require.NoError(t, err)
			require.Equal(t, uint64(200), balances[info.ShareMint])
			require.Equal(t, uint64(2200), info.Balances.ShareSupply)
		})
	}
}

func TestFailedOperationIsRolledBack(t *testing.T) {
	for name, repoManager := range newTestRepoManagers(t) {
		repoManager := repoManager
		t.Run(name, func(t *testing.T) {
			svc := newTestPoolService(t, repoManager)
			info, err := svc.CreatePool(ctx, assetA, assetB, domain.NewSigner(admin))
			require.NoError(t, err)

			// Enough of asset a but not of asset b: the first leg succeeds and
			// must be reverted.
			faucet(t, svc, alice, assetA, 1000)
			faucet(t, svc, alice, assetB, 10)

			_, err = svc.Deposit(
				ctx, info.Name, domain.NewSigner(alice), 1000, 4000, 0,
			)
			require.ErrorIs(t, err, domain.ErrInsufficientBalance)

			balances, err := svc.GetBalances(ctx, alice)
			require.NoError(t, err)
			require.Equal(t, uint64(1000), balances[assetA])
			require.Equal(t, uint64(10), balances[assetB])
			require.Zero(t, balances[info.ShareMint])

			info, err = svc.GetPool(ctx, info.Name)
			require.NoError(t, err)
			require.Equal(t, domain.PoolBalances{}, info.Balances)

			events, err := svc.ListEvents(ctx, info.Name, nil)
			require.NoError(t, err)
			require.Len(t, events, 1)
		})
	}
}

func TestFailingCreatePool(t *testing.T) {
	svc := newTestPoolService(t, inmemory.NewRepoManager())

	_, err := svc.CreatePool(ctx, assetA, assetB, domain.NewSigner(admin))
	require.NoError(t, err)

	tests := []struct {
		name          string
		assetA        string
		assetB        string
		admin         domain.Signer
		expectedError error
	}{
		{
			name:          "same_asset",
			assetA:        assetA,
			assetB:        assetA,
			admin:         domain.NewSigner(admin),
			expectedError: domain.ErrPoolSameAsset,
		},
		{
			name:          "reversed_pair",
			assetA:        assetB,
			assetB:        assetA,
			admin:         domain.NewSigner(admin),
			expectedError: domain.ErrPoolAlreadyExists,
		},
		{
			name:          "unsigned_admin",
			assetA:        assetA,
			assetB:        assetB,
			admin:         domain.Signer{ID: admin},
			expectedError: domain.ErrMissingSignature,
		},
		{
			name:          "invalid_asset",
			assetA:        "abc",
			assetB:        assetB,
			admin:         domain.NewSigner(admin),
			expectedError: domain.ErrPoolInvalidAssetA,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreatePool(ctx, tt.assetA, tt.assetB, tt.admin)
			require.ErrorIs(t, err, tt.expectedError)
		})
	}

	pools, err := svc.ListPools(ctx)
	require.NoError(t, err)
	require.Len(t, pools, 1)
}

func TestPauseGating(t *testing.T) {
	for name, repoManager := range newTestRepoManagers(t) {
		repoManager := repoManager
		t.Run(name, func(t *testing.T) {
			svc := newTestPoolService(t, repoManager)
			poolName := newTestPool(t, svc, 1000, 4000)
			faucet(t, svc, bob, assetA, 200)
			faucet(t, svc, bob, assetB, 800)

			err := svc.SetPause(ctx, poolName, domain.NewSigner(bob), true)
			require.ErrorIs(t, err, domain.ErrNotAdmin)
			err = svc.SetPause(ctx, poolName, domain.Signer{ID: admin}, true)
			require.ErrorIs(t, err, domain.ErrMissingSignature)

			err = svc.SetPause(ctx, poolName, domain.NewSigner(admin), true)
			require.NoError(t, err)

			info, err := svc.GetPool(ctx, poolName)
			require.NoError(t, err)
			require.True(t, info.IsPaused())

			_, err = svc.Deposit(ctx, poolName, domain.NewSigner(bob), 100, 400, 0)
			require.ErrorIs(t, err, domain.ErrPoolPaused)

			_, err = svc.Swap(ctx, poolName, domain.NewSigner(bob), domain.SwapArgs{
				AmountIn:         100,
				Direction:        domain.SwapAToB,
				SourceAsset:      assetA,
				DestinationAsset: assetB,
			})
			require.ErrorIs(t, err, domain.ErrPoolPaused)

			_, err = svc.Withdraw(ctx, poolName, domain.NewSigner(alice), 100, 0, 0)
			require.NoError(t, err)

			err = svc.SetPause(ctx, poolName, domain.NewSigner(admin), false)
			require.NoError(t, err)

			_, err = svc.Deposit(ctx, poolName, domain.NewSigner(bob), 100, 400, 0)
			require.NoError(t, err)

			events, err := svc.ListEvents(ctx, poolName, nil)
			require.NoError(t, err)
			pauseEvents := make([]domain.PoolEvent, 0)
			for _, e := range events {
				if e.Type == domain.PauseEvent {
					pauseEvents = append(pauseEvents, e)
				}
			}
			require.Len(t, pauseEvents, 2)
			require.True(t, pauseEvents[0].Paused)
			require.False(t, pauseEvents[1].Paused)
		})
	}
}

func TestProtocolFees(t *testing.T) {
	for name, repoManager := range newTestRepoManagers(t) {
		repoManager := repoManager
		t.Run(name, func(t *testing.T) {
			svc := newTestPoolService(t, repoManager)
			poolName := newTestPool(t, svc, 1_000_000_000_000, 1_000_000_000_000)
			faucet(t, svc, bob, assetA, 1_000_000)

			args := domain.SwapArgs{
				AmountIn:         1_000_000,
				Direction:        domain.SwapAToB,
				SourceAsset:      assetA,
				DestinationAsset: assetB,
			}
			quote, err := svc.QuoteSwap(ctx, poolName, args)
			require.NoError(t, err)

			swap, err := svc.Swap(ctx, poolName, domain.NewSigner(bob), args)
			require.NoError(t, err)
			require.Equal(t, quote, swap)
			require.Equal(t, uint64(500), swap.ProtocolFee)
			require.Equal(t, uint64(999_500), swap.AmountInToPool)

			info, err := svc.GetPool(ctx, poolName)
			require.NoError(t, err)
			require.Equal(t, uint64(500), info.Balances.FeeA)
			require.Zero(t, info.Balances.FeeB)
			require.Equal(t, uint64(1_000_000_999_500), info.Balances.ReserveA)

			_, err = svc.WithdrawProtocolFees(
				ctx, poolName, domain.NewSigner(bob), 500, 0,
			)
			require.ErrorIs(t, err, domain.ErrNotAdmin)
			_, err = svc.WithdrawProtocolFees(
				ctx, poolName, domain.NewSigner(admin), 501, 0,
			)
			require.ErrorIs(t, err, domain.ErrInsufficientLiquidity)
			_, err = svc.WithdrawProtocolFees(
				ctx, poolName, domain.NewSigner(admin), 0, 0,
			)
			require.ErrorIs(t, err, domain.ErrInvalidAmount)

			res, err := svc.WithdrawProtocolFees(
				ctx, poolName, domain.NewSigner(admin), 500, 0,
			)
			require.NoError(t, err)
			require.Equal(t, uint64(500), res.AmountA)

			balances, err := svc.GetBalances(ctx, admin)
			require.NoError(t, err)
			require.Equal(t, uint64(500), balances[assetA])

			info, err = svc.GetPool(ctx, poolName)
			require.NoError(t, err)
			require.Zero(t, info.Balances.FeeA)
		})
	}
}

func TestSetAdmin(t *testing.T) {
	svc := newTestPoolService(t, inmemory.NewRepoManager())
	poolName := newTestPool(t, svc, 1000, 4000)

	err := svc.SetAdmin(
		ctx, poolName, domain.NewSigner(admin), domain.Signer{ID: bob},
	)
	require.ErrorIs(t, err, domain.ErrMissingSignature)

	err = svc.SetAdmin(
		ctx, poolName, domain.NewSigner(alice), domain.NewSigner(bob),
	)
	require.ErrorIs(t, err, domain.ErrNotAdmin)

	err = svc.SetAdmin(
		ctx, poolName, domain.NewSigner(admin), domain.NewSigner(bob),
	)
	require.NoError(t, err)

	err = svc.SetPause(ctx, poolName, domain.NewSigner(admin), true)
	require.ErrorIs(t, err, domain.ErrNotAdmin)
	err = svc.SetPause(ctx, poolName, domain.NewSigner(bob), true)
	require.NoError(t, err)

	events, err := svc.ListEvents(ctx, poolName, nil)
	require.NoError(t, err)
	var adminEvent *domain.PoolEvent
	for i := range events {
		if events[i].Type == domain.AdminUpdatedEvent {
			adminEvent = &events[i]
		}
	}
	require.NotNil(t, adminEvent)
	require.Equal(t, admin, adminEvent.OldAdmin)
	require.Equal(t, bob, adminEvent.NewAdmin)
}

func TestFailingFaucet(t *testing.T) {
	svc := newTestPoolService(t, inmemory.NewRepoManager())
	poolName := newTestPool(t, svc, 1000, 4000)
	info, err := svc.GetPool(ctx, poolName)
	require.NoError(t, err)

	tests := []struct {
		name          string
		caller        domain.Signer
		asset         string
		amount        uint64
		expectedError error
	}{
		{
			name:          "not_operator",
			caller:        domain.NewSigner(alice),
			asset:         assetA,
			amount:        10,
			expectedError: application.ErrNotOperator,
		},
		{
			name:          "unsigned_operator",
			caller:        domain.Signer{ID: operator},
			asset:         assetA,
			amount:        10,
			expectedError: domain.ErrMissingSignature,
		},
		{
			name:          "share_asset",
			caller:        domain.NewSigner(operator),
			asset:         info.ShareMint,
			amount:        10,
			expectedError: application.ErrInvalidFaucetAsset,
		},
		{
			name:          "zero_amount",
			caller:        domain.NewSigner(operator),
			asset:         assetA,
			amount:        0,
			expectedError: domain.ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Faucet(ctx, tt.caller, bob, tt.asset, tt.amount)
			require.ErrorIs(t, err, tt.expectedError)
		})
	}

	disabled, err := application.NewPoolService(
		inmemory.NewRepoManager(), nil,
		domain.DefaultFeeBps, domain.DefaultProtocolFeeBps, "",
	)
	require.NoError(t, err)
	err = disabled.Faucet(ctx, domain.NewSigner(operator), bob, assetA, 10)
	require.ErrorIs(t, err, application.ErrFaucetDisabled)
}

func TestNewPoolServiceInvalidFees(t *testing.T) {
	_, err := application.NewPoolService(
		inmemory.NewRepoManager(), nil, 10, 20, operator,
	)
	require.ErrorIs(t, err, domain.ErrInvalidFee)

	_, err = application.NewPoolService(nil, nil, 30, 5, operator)
	require.ErrorIs(t, err, application.ErrMissingRepoManager)
}

func TestUnknownPool(t *testing.T) {
	svc := newTestPoolService(t, inmemory.NewRepoManager())
	poolName := domain.MakePoolName(assetA, assetB)

	_, err := svc.GetPool(ctx, poolName)
	require.ErrorIs(t, err, domain.ErrPoolNotFound)
	_, err = svc.Deposit(ctx, poolName, domain.NewSigner(alice), 1, 1, 0)
	require.ErrorIs(t, err, domain.ErrPoolNotFound)
	_, err = svc.ListEvents(ctx, poolName, nil)
	require.ErrorIs(t, err, domain.ErrPoolNotFound)
	err = svc.SetPause(ctx, poolName, domain.NewSigner(admin), true)
	require.ErrorIs(t, err, domain.ErrPoolNotFound)
}

func TestIdentitiesAreCaseInsensitive(t *testing.T) {
	svc := newTestPoolService(t, inmemory.NewRepoManager())

	info, err := svc.CreatePool(ctx, assetA, assetB, domain.NewSigner(admin))
	require.NoError(t, err)

	err = svc.SetPause(ctx, info.Name, domain.NewSigner(strings.ToUpper(admin)), true)
	require.NoError(t, err)
	err = svc.SetPause(
		ctx, info.Name, domain.Signer{ID: strings.ToUpper(admin), Signed: true}, false,
	)
	require.NoError(t, err)

	err = svc.Faucet(
		ctx, domain.NewSigner(strings.ToUpper(operator)),
		strings.ToUpper(alice), assetA, 100,
	)
	require.NoError(t, err)

	for _, owner := range []string{alice, strings.ToUpper(alice)} {
		balances, err := svc.GetBalances(ctx, owner)
		require.NoError(t, err)
		require.Equal(t, map[string]uint64{assetA: 100}, balances)
	}

	pool, err := svc.GetPool(ctx, info.Name)
	require.NoError(t, err)
	require.Equal(t, admin, pool.Pool.Admin)
}

func newTestRepoManagers(t *testing.T) map[string]ports.RepoManager {
	badgerRepoManager, err := dbbadger.NewRepoManager("", nil)
	require.NoError(t, err)
	t.Cleanup(badgerRepoManager.Close)

	return map[string]ports.RepoManager{
		"inmemory": inmemory.NewRepoManager(),
		"badger":   badgerRepoManager,
	}
}

func newTestPoolService(
	t *testing.T, repoManager ports.RepoManager,
) application.PoolService {
	svc, err := application.NewPoolService(
		repoManager, nil,
		domain.DefaultFeeBps, domain.DefaultProtocolFeeBps, operator,
	)
	require.NoError(t, err)
	return svc
}

// newTestPool creates a pool seeded by alice with the given reserves.
func newTestPool(
	t *testing.T, svc application.PoolService, reserveA, reserveB uint64,
) string {
	info, err := svc.CreatePool(ctx, assetA, assetB, domain.NewSigner(admin))
	require.NoError(t, err)

	faucet(t, svc, alice, assetA, reserveA)
	faucet(t, svc, alice, assetB, reserveB)
	_, err = svc.Deposit(
		ctx, info.Name, domain.NewSigner(alice), reserveA, reserveB, 0,
	)
	require.NoError(t, err)
	return info.Name
}

func faucet(
	t *testing.T, svc application.PoolService, to, asset string, amount uint64,
) {
	err := svc.Faucet(ctx, domain.NewSigner(operator), to, asset, amount)
	require.NoError(t, err)
}
