package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/shareswap/poold/internal/core/domain"
)

type poolRepositoryImpl struct {
	pools map[string]domain.Pool

	lock *sync.RWMutex
}

func newPoolRepositoryImpl() *poolRepositoryImpl {
	return &poolRepositoryImpl{
		pools: map[string]domain.Pool{},
		lock:  &sync.RWMutex{},
	}
}

func (r *poolRepositoryImpl) AddPool(_ context.Context, pool *domain.Pool) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.pools[pool.Name]; ok {
		return domain.ErrPoolAlreadyExists
	}
	r.pools[pool.Name] = *pool
	return nil
}

func (r *poolRepositoryImpl) GetPoolByName(
	_ context.Context, poolName string,
) (*domain.Pool, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return r.getPool(poolName)
}

func (r *poolRepositoryImpl) GetPoolByAssets(
	_ context.Context, assetA, assetB string,
) (*domain.Pool, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return r.getPool(domain.MakePoolName(assetA, assetB))
}

func (r *poolRepositoryImpl) GetAllPools(_ context.Context) ([]domain.Pool, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	pools := make([]domain.Pool, 0, len(r.pools))
	for _, p := range r.pools {
		pools = append(pools, p)
	}
	sort.SliceStable(pools, func(i, j int) bool {
		return pools[i].Name < pools[j].Name
	})
	return pools, nil
}

func (r *poolRepositoryImpl) UpdatePool(
	_ context.Context,
	poolName string,
	updateFn func(p *domain.Pool) (*domain.Pool, error),
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	pool, err := r.getPool(poolName)
	if err != nil {
		return err
	}

	updatedPool, err := updateFn(pool)
	if err != nil {
		return err
	}

	r.pools[poolName] = *updatedPool
	return nil
}

func (r *poolRepositoryImpl) getPool(poolName string) (*domain.Pool, error) {
	pool, ok := r.pools[poolName]
	if !ok {
		return nil, domain.ErrPoolNotFound
	}
	return &pool, nil
}

func (r *poolRepositoryImpl) snapshot() map[string]domain.Pool {
	r.lock.RLock()
	defer r.lock.RUnlock()

	pools := make(map[string]domain.Pool, len(r.pools))
	for k, v := range r.pools {
		pools[k] = v
	}
	return pools
}

func (r *poolRepositoryImpl) restore(pools map[string]domain.Pool) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.pools = pools
}
