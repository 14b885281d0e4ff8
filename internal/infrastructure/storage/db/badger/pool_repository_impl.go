package dbbadger

import (
	"context"
	"errors"
	"fmt"

	"github.com/shareswap/poold/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type poolRepositoryImpl struct {
	store *badgerhold.Store
}

// NewPoolRepositoryImpl initialize a badger implementation of the
// domain.PoolRepository.
func NewPoolRepositoryImpl(store *badgerhold.Store) domain.PoolRepository {
	return poolRepositoryImpl{store}
}

func (r poolRepositoryImpl) AddPool(ctx context.Context, pool *domain.Pool) error {
	var err error
	if tx := txFromContext(ctx); tx != nil {
		err = r.store.TxInsert(tx, pool.Name, *pool)
	} else {
		err = r.store.Insert(pool.Name, *pool)
	}
	if err != nil {
		if errors.Is(err, badgerhold.ErrKeyExists) {
			return domain.ErrPoolAlreadyExists
		}
		return fmt.Errorf("inserting pool %s: %w", pool.Name, err)
	}
	return nil
}

func (r poolRepositoryImpl) GetPoolByName(
	ctx context.Context, poolName string,
) (*domain.Pool, error) {
	return r.getPool(ctx, poolName)
}

func (r poolRepositoryImpl) GetPoolByAssets(
	ctx context.Context, assetA, assetB string,
) (*domain.Pool, error) {
	return r.getPool(ctx, domain.MakePoolName(assetA, assetB))
}

func (r poolRepositoryImpl) GetAllPools(ctx context.Context) ([]domain.Pool, error) {
	query := badgerhold.Where("Name").Ne("").SortBy("Name")
	return r.findPools(ctx, query)
}

func (r poolRepositoryImpl) UpdatePool(
	ctx context.Context,
	poolName string,
	updateFn func(p *domain.Pool) (*domain.Pool, error),
) error {
	pool, err := r.getPool(ctx, poolName)
	if err != nil {
		return err
	}

	updatedPool, err := updateFn(pool)
	if err != nil {
		return err
	}

	if tx := txFromContext(ctx); tx != nil {
		err = r.store.TxUpdate(tx, poolName, *updatedPool)
	} else {
		err = r.store.Update(poolName, *updatedPool)
	}
	if err != nil {
		return fmt.Errorf("updating pool %s: %w", poolName, err)
	}
	return nil
}

func (r poolRepositoryImpl) getPool(
	ctx context.Context, poolName string,
) (*domain.Pool, error) {
	var pool domain.Pool
	var err error

	if tx := txFromContext(ctx); tx != nil {
		err = r.store.TxGet(tx, poolName, &pool)
	} else {
		err = r.store.Get(poolName, &pool)
	}
	if err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrPoolNotFound
		}
		return nil, err
	}
	return &pool, nil
}

func (r poolRepositoryImpl) findPools(
	ctx context.Context, query *badgerhold.Query,
) ([]domain.Pool, error) {
	var pools []domain.Pool
	var err error

	if tx := txFromContext(ctx); tx != nil {
		err = r.store.TxFind(tx, &pools, query)
	} else {
		err = r.store.Find(&pools, query)
	}
	return pools, err
}
