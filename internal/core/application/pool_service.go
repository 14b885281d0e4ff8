package application

import (
	"context"

	"github.com/shareswap/poold/internal/core/domain"
	"github.com/shareswap/poold/internal/core/ports"
	log "github.com/sirupsen/logrus"
)

// PoolService exposes every operation on constant-product pools. Each
// mutating call reads the pool balances fresh from the ledger, applies the
// domain transition and moves the funds within a single repository
// transaction: either everything is committed or nothing is.
type PoolService interface {
	CreatePool(
		ctx context.Context, assetA, assetB string, admin domain.Signer,
	) (*PoolInfo, error)
	GetPool(ctx context.Context, poolName string) (*PoolInfo, error)
	GetPoolByAssets(ctx context.Context, assetA, assetB string) (*PoolInfo, error)
	ListPools(ctx context.Context) ([]PoolInfo, error)
	GetSpotPrice(ctx context.Context, poolName string) (*domain.PoolPrice, error)

	QuoteDeposit(
		ctx context.Context, poolName string, amountA, amountB uint64,
	) (*domain.DepositResult, error)
	Deposit(
		ctx context.Context, poolName string, user domain.Signer,
		amountA, amountB, minSharesOut uint64,
	) (*domain.DepositResult, error)
	QuoteWithdraw(
		ctx context.Context, poolName string, shares uint64,
	) (*domain.WithdrawResult, error)
	Withdraw(
		ctx context.Context, poolName string, user domain.Signer,
		shares, minAmountA, minAmountB uint64,
	) (*domain.WithdrawResult, error)
	QuoteSwap(
		ctx context.Context, poolName string, args domain.SwapArgs,
	) (*domain.SwapResult, error)
	Swap(
		ctx context.Context, poolName string, user domain.Signer,
		args domain.SwapArgs,
	) (*domain.SwapResult, error)

	WithdrawProtocolFees(
		ctx context.Context, poolName string, caller domain.Signer,
		amountA, amountB uint64,
	) (*domain.ProtocolFeeWithdrawal, error)
	SetPause(
		ctx context.Context, poolName string, caller domain.Signer, paused bool,
	) error
	SetAdmin(
		ctx context.Context, poolName string, caller, newAdmin domain.Signer,
	) error

	ListEvents(
		ctx context.Context, poolName string, page *domain.Page,
	) ([]domain.PoolEvent, error)
	GetBalances(ctx context.Context, owner string) (map[string]uint64, error)
	Faucet(
		ctx context.Context, caller domain.Signer, to, asset string,
		amount uint64,
	) error
	// SubscribeEvents streams the events of every committed operation until
	// ctx is done.
	SubscribeEvents(ctx context.Context) <-chan domain.PoolEvent
}

type poolService struct {
	repoManager    ports.RepoManager
	ledger         ports.Ledger
	pubsubSvc      PubSubService
	broker         *eventBroker
	feeBps         uint16
	protocolFeeBps uint16
	operator       string
}

// NewPoolService returns a pool service creating pools with the given fees.
// pubsubSvc is optional, if nil events are only persisted. An empty operator
// disables the faucet.
func NewPoolService(
	repoManager ports.RepoManager, pubsubSvc PubSubService,
	feeBps, protocolFeeBps uint16, operator string,
) (PoolService, error) {
	if repoManager == nil {
		return nil, ErrMissingRepoManager
	}
	if feeBps > domain.MaxFeeBps || protocolFeeBps > feeBps {
		return nil, domain.ErrInvalidFee
	}

	return &poolService{
		repoManager:    repoManager,
		ledger:         NewLedger(repoManager.AccountRepository()),
		pubsubSvc:      pubsubSvc,
		broker:         newEventBroker(),
		feeBps:         feeBps,
		protocolFeeBps: protocolFeeBps,
		operator:       domain.NormalizeIdentity(operator),
	}, nil
}

func (s *poolService) CreatePool(
	ctx context.Context, assetA, assetB string, admin domain.Signer,
) (*PoolInfo, error) {
	pool, err := domain.NewPool(
		assetA, assetB, admin.ID, s.feeBps, s.protocolFeeBps,
	)
	if err != nil {
		return nil, err
	}
	if !admin.Signed {
		return nil, domain.ErrMissingSignature
	}

	event := domain.NewPoolCreatedEvent(pool)
	_, err = s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			if err := s.repoManager.PoolRepository().AddPool(ctx, pool); err != nil {
				return nil, err
			}
			for accountID, asset := range pool.Accounts() {
				if err := s.ledger.OpenAccount(ctx, accountID, asset); err != nil {
					return nil, err
				}
			}
			return nil, s.repoManager.EventRepository().AddEvent(ctx, event)
		},
	)
	observeOperation("create_pool", err)
	if err != nil {
		return nil, err
	}

	log.Infof("created pool %s for pair %s/%s", pool.Name, pool.AssetA, pool.AssetB)
	s.publish(event)
	return &PoolInfo{Pool: *pool}, nil
}

func (s *poolService) GetPool(
	ctx context.Context, poolName string,
) (*PoolInfo, error) {
	res, err := s.repoManager.RunTransaction(
		ctx, true, func(ctx context.Context) (interface{}, error) {
			pool, err := s.repoManager.PoolRepository().GetPoolByName(ctx, poolName)
			if err != nil {
				return nil, err
			}
			return s.getPoolInfo(ctx, pool)
		},
	)
	if err != nil {
		return nil, err
	}
	return res.(*PoolInfo), nil
}

func (s *poolService) GetPoolByAssets(
	ctx context.Context, assetA, assetB string,
) (*PoolInfo, error) {
	res, err := s.repoManager.RunTransaction(
		ctx, true, func(ctx context.Context) (interface{}, error) {
			pool, err := s.repoManager.PoolRepository().GetPoolByAssets(
				ctx, assetA, assetB,
			)
			if err != nil {
				return nil, err
			}
			return s.getPoolInfo(ctx, pool)
		},
	)
	if err != nil {
		return nil, err
	}
	return res.(*PoolInfo), nil
}

func (s *poolService) ListPools(ctx context.Context) ([]PoolInfo, error) {
	res, err := s.repoManager.RunTransaction(
		ctx, true, func(ctx context.Context) (interface{}, error) {
			pools, err := s.repoManager.PoolRepository().GetAllPools(ctx)
			if err != nil {
				return nil, err
			}

			list := make([]PoolInfo, 0, len(pools))
			for i := range pools {
				info, err := s.getPoolInfo(ctx, &pools[i])
				if err != nil {
					return nil, err
				}
				list = append(list, *info)
			}
			return list, nil
		},
	)
	if err != nil {
		return nil, err
	}
	return res.([]PoolInfo), nil
}

func (s *poolService) GetSpotPrice(
	ctx context.Context, poolName string,
) (*domain.PoolPrice, error) {
	info, err := s.GetPool(ctx, poolName)
	if err != nil {
		return nil, err
	}
	price, err := info.SpotPrice(info.Balances)
	if err != nil {
		return nil, err
	}
	return &price, nil
}

func (s *poolService) QuoteDeposit(
	ctx context.Context, poolName string, amountA, amountB uint64,
) (*domain.DepositResult, error) {
	info, err := s.GetPool(ctx, poolName)
	if err != nil {
		return nil, err
	}
	return info.Deposit(info.Balances, amountA, amountB, 0)
}

func (s *poolService) Deposit(
	ctx context.Context, poolName string, user domain.Signer,
	amountA, amountB, minSharesOut uint64,
) (*domain.DepositResult, error) {
	if !user.Signed {
		return nil, domain.ErrMissingSignature
	}

	var event *domain.PoolEvent
	res, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			pool, balances, err := s.getPoolWithBalances(ctx, poolName)
			if err != nil {
				return nil, err
			}

			result, err := pool.Deposit(balances, amountA, amountB, minSharesOut)
			if err != nil {
				return nil, err
			}

			if err := s.ledger.Transfer(
				ctx, domain.UserAccountID(user.ID, pool.AssetA), pool.VaultA,
				result.AmountA,
			); err != nil {
				return nil, err
			}
			if err := s.ledger.Transfer(
				ctx, domain.UserAccountID(user.ID, pool.AssetB), pool.VaultB,
				result.AmountB,
			); err != nil {
				return nil, err
			}
			if err := s.ledger.Mint(
				ctx, pool.ShareMint, domain.UserAccountID(user.ID, pool.ShareMint),
				result.Shares,
			); err != nil {
				return nil, err
			}

			event = domain.NewDepositEvent(pool, user.ID, result)
			if err := s.repoManager.EventRepository().AddEvent(ctx, event); err != nil {
				return nil, err
			}
			return result, nil
		},
	)
	observeOperation("deposit", err)
	if err != nil {
		return nil, err
	}

	s.publish(event)
	return res.(*domain.DepositResult), nil
}

func (s *poolService) QuoteWithdraw(
	ctx context.Context, poolName string, shares uint64,
) (*domain.WithdrawResult, error) {
	info, err := s.GetPool(ctx, poolName)
	if err != nil {
		return nil, err
	}
	return info.Withdraw(info.Balances, shares, 0, 0)
}

func (s *poolService) Withdraw(
	ctx context.Context, poolName string, user domain.Signer,
	shares, minAmountA, minAmountB uint64,
) (*domain.WithdrawResult, error) {
	if !user.Signed {
		return nil, domain.ErrMissingSignature
	}

	var event *domain.PoolEvent
	res, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			pool, balances, err := s.getPoolWithBalances(ctx, poolName)
			if err != nil {
				return nil, err
			}

			result, err := pool.Withdraw(balances, shares, minAmountA, minAmountB)
			if err != nil {
				return nil, err
			}

			if err := s.ledger.Burn(
				ctx, pool.ShareMint, domain.UserAccountID(user.ID, pool.ShareMint),
				result.Shares,
			); err != nil {
				return nil, err
			}
			if err := s.ledger.Transfer(
				ctx, pool.VaultA, domain.UserAccountID(user.ID, pool.AssetA),
				result.AmountA,
			); err != nil {
				return nil, err
			}
			if err := s.ledger.Transfer(
				ctx, pool.VaultB, domain.UserAccountID(user.ID, pool.AssetB),
				result.AmountB,
			); err != nil {
				return nil, err
			}

			event = domain.NewWithdrawEvent(pool, user.ID, result)
			if err := s.repoManager.EventRepository().AddEvent(ctx, event); err != nil {
				return nil, err
			}
			return result, nil
		},
	)
	observeOperation("withdraw", err)
	if err != nil {
		return nil, err
	}

	s.publish(event)
	return res.(*domain.WithdrawResult), nil
}

func (s *poolService) QuoteSwap(
	ctx context.Context, poolName string, args domain.SwapArgs,
) (*domain.SwapResult, error) {
	info, err := s.GetPool(ctx, poolName)
	if err != nil {
		return nil, err
	}
	return info.Swap(info.Balances, args)
}

func (s *poolService) Swap(
	ctx context.Context, poolName string, user domain.Signer,
	args domain.SwapArgs,
) (*domain.SwapResult, error) {
	if !user.Signed {
		return nil, domain.ErrMissingSignature
	}

	var event *domain.PoolEvent
	res, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			pool, balances, err := s.getPoolWithBalances(ctx, poolName)
			if err != nil {
				return nil, err
			}

			result, err := pool.Swap(balances, args)
			if err != nil {
				return nil, err
			}

			source := domain.UserAccountID(user.ID, result.AssetIn)
			destination := domain.UserAccountID(user.ID, result.AssetOut)
			if err := s.ledger.Transfer(
				ctx, source, result.VaultIn, result.AmountInToPool,
			); err != nil {
				return nil, err
			}
			if err := s.ledger.Transfer(
				ctx, source, result.FeeVault, result.ProtocolFee,
			); err != nil {
				return nil, err
			}
			if err := s.ledger.Transfer(
				ctx, result.VaultOut, destination, result.AmountOut,
			); err != nil {
				return nil, err
			}

			event = domain.NewSwapEvent(pool, user.ID, result)
			if err := s.repoManager.EventRepository().AddEvent(ctx, event); err != nil {
				return nil, err
			}
			return result, nil
		},
	)
	observeOperation("swap", err)
	if err != nil {
		return nil, err
	}

	result := res.(*domain.SwapResult)
	observeSwap(poolName, result.AssetIn, result.AmountIn, result.ProtocolFee)
	s.publish(event)
	return result, nil
}

func (s *poolService) WithdrawProtocolFees(
	ctx context.Context, poolName string, caller domain.Signer,
	amountA, amountB uint64,
) (*domain.ProtocolFeeWithdrawal, error) {
	var event *domain.PoolEvent
	res, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			pool, balances, err := s.getPoolWithBalances(ctx, poolName)
			if err != nil {
				return nil, err
			}

			result, err := pool.WithdrawProtocolFees(
				caller, balances, amountA, amountB,
			)
			if err != nil {
				return nil, err
			}

			if err := s.ledger.Transfer(
				ctx, pool.FeeVaultA, domain.UserAccountID(caller.ID, pool.AssetA),
				result.AmountA,
			); err != nil {
				return nil, err
			}
			if err := s.ledger.Transfer(
				ctx, pool.FeeVaultB, domain.UserAccountID(caller.ID, pool.AssetB),
				result.AmountB,
			); err != nil {
				return nil, err
			}

			event = domain.NewProtocolFeeWithdrawEvent(pool, result)
			if err := s.repoManager.EventRepository().AddEvent(ctx, event); err != nil {
				return nil, err
			}
			return result, nil
		},
	)
	observeOperation("withdraw_protocol_fees", err)
	if err != nil {
		return nil, err
	}

	s.publish(event)
	return res.(*domain.ProtocolFeeWithdrawal), nil
}

func (s *poolService) SetPause(
	ctx context.Context, poolName string, caller domain.Signer, paused bool,
) error {
	var event *domain.PoolEvent
	_, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			if err := s.repoManager.PoolRepository().UpdatePool(
				ctx, poolName, func(p *domain.Pool) (*domain.Pool, error) {
					if err := p.SetPause(caller, paused); err != nil {
						return nil, err
					}
					event = domain.NewPauseEvent(p)
					return p, nil
				},
			); err != nil {
				return nil, err
			}
			return nil, s.repoManager.EventRepository().AddEvent(ctx, event)
		},
	)
	observeOperation("set_pause", err)
	if err != nil {
		return err
	}

	log.Infof("pool %s paused: %t", poolName, paused)
	s.publish(event)
	return nil
}

func (s *poolService) SetAdmin(
	ctx context.Context, poolName string, caller, newAdmin domain.Signer,
) error {
	var event *domain.PoolEvent
	_, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			if err := s.repoManager.PoolRepository().UpdatePool(
				ctx, poolName, func(p *domain.Pool) (*domain.Pool, error) {
					oldAdmin := p.Admin
					if err := p.ChangeAdmin(caller, newAdmin); err != nil {
						return nil, err
					}
					event = domain.NewAdminUpdatedEvent(p, oldAdmin)
					return p, nil
				},
			); err != nil {
				return nil, err
			}
			return nil, s.repoManager.EventRepository().AddEvent(ctx, event)
		},
	)
	observeOperation("set_admin", err)
	if err != nil {
		return err
	}

	log.Infof("pool %s admin rotated", poolName)
	s.publish(event)
	return nil
}

func (s *poolService) ListEvents(
	ctx context.Context, poolName string, page *domain.Page,
) ([]domain.PoolEvent, error) {
	res, err := s.repoManager.RunTransaction(
		ctx, true, func(ctx context.Context) (interface{}, error) {
			if len(poolName) <= 0 {
				return s.repoManager.EventRepository().GetAllEvents(ctx, page)
			}
			if _, err := s.repoManager.PoolRepository().GetPoolByName(
				ctx, poolName,
			); err != nil {
				return nil, err
			}
			return s.repoManager.EventRepository().GetEventsForPool(
				ctx, poolName, page,
			)
		},
	)
	if err != nil {
		return nil, err
	}
	return res.([]domain.PoolEvent), nil
}

func (s *poolService) GetBalances(
	ctx context.Context, owner string,
) (map[string]uint64, error) {
	res, err := s.repoManager.RunTransaction(
		ctx, true, func(ctx context.Context) (interface{}, error) {
			return s.ledger.GetBalances(ctx, domain.NormalizeIdentity(owner))
		},
	)
	if err != nil {
		return nil, err
	}
	return res.(map[string]uint64), nil
}

func (s *poolService) Faucet(
	ctx context.Context, caller domain.Signer, to, asset string, amount uint64,
) error {
	if len(s.operator) <= 0 {
		return ErrFaucetDisabled
	}
	if domain.NormalizeIdentity(caller.ID) != s.operator {
		return ErrNotOperator
	}
	if !caller.Signed {
		return domain.ErrMissingSignature
	}
	if !domain.IsValidAsset(asset) {
		return ErrInvalidFaucetAsset
	}
	if amount == 0 {
		return domain.ErrInvalidAmount
	}

	_, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			return nil, s.ledger.Mint(
				ctx, asset, domain.UserAccountID(to, asset), amount,
			)
		},
	)
	observeOperation("faucet", err)
	return err
}

func (s *poolService) SubscribeEvents(
	ctx context.Context,
) <-chan domain.PoolEvent {
	return s.broker.subscribe(ctx)
}

func (s *poolService) getPoolWithBalances(
	ctx context.Context, poolName string,
) (*domain.Pool, domain.PoolBalances, error) {
	pool, err := s.repoManager.PoolRepository().GetPoolByName(ctx, poolName)
	if err != nil {
		return nil, domain.PoolBalances{}, err
	}
	balances, err := s.getPoolBalances(ctx, pool)
	if err != nil {
		return nil, domain.PoolBalances{}, err
	}
	return pool, balances, nil
}

func (s *poolService) getPoolInfo(
	ctx context.Context, pool *domain.Pool,
) (*PoolInfo, error) {
	balances, err := s.getPoolBalances(ctx, pool)
	if err != nil {
		return nil, err
	}
	return &PoolInfo{*pool, balances}, nil
}

func (s *poolService) getPoolBalances(
	ctx context.Context, pool *domain.Pool,
) (domain.PoolBalances, error) {
	var balances domain.PoolBalances
	var err error

	if balances.ReserveA, err = s.ledger.GetBalance(ctx, pool.VaultA); err != nil {
		return balances, err
	}
	if balances.ReserveB, err = s.ledger.GetBalance(ctx, pool.VaultB); err != nil {
		return balances, err
	}
	if balances.FeeA, err = s.ledger.GetBalance(ctx, pool.FeeVaultA); err != nil {
		return balances, err
	}
	if balances.FeeB, err = s.ledger.GetBalance(ctx, pool.FeeVaultB); err != nil {
		return balances, err
	}
	balances.ShareSupply, err = s.ledger.GetSupply(ctx, pool.ShareMint)
	return balances, err
}

// publish notifies listeners and webhooks, a failure doesn't affect the
// already committed operation.
func (s *poolService) publish(event *domain.PoolEvent) {
	if event == nil {
		return
	}

	s.broker.broadcast(*event)
	if s.pubsubSvc == nil {
		return
	}

	go func(e domain.PoolEvent) {
		if err := s.pubsubSvc.PublishPoolEvent(e); err != nil {
			log.WithError(err).Warnf(
				"pubsub: an error occured while publishing %s event for pool %s",
				e.Type, e.PoolName,
			)
		}
	}(*event)
}
