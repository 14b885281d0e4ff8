package domain

import "context"

// PoolRepository is the abstraction for any kind of database intended to
// persist Pools.
type PoolRepository interface {
	// AddPool adds a new pool to the repository. It returns
	// ErrPoolAlreadyExists if a pool with the same name is already stored.
	AddPool(ctx context.Context, pool *Pool) error
	// GetPoolByName returns the pool with the given name.
	GetPoolByName(ctx context.Context, poolName string) (*Pool, error)
	// GetPoolByAssets returns the pool for the given pair, in any order.
	GetPoolByAssets(ctx context.Context, assetA, assetB string) (*Pool, error)
	// GetAllPools returns all pools.
	GetAllPools(ctx context.Context) ([]Pool, error)
	// UpdatePool updates the state of a pool. The closure function let's to
	// commit multiple changes to a certain pool in a transactional way.
	UpdatePool(
		ctx context.Context,
		poolName string, updateFn func(p *Pool) (*Pool, error),
	) error
}
