package postgresdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/shareswap/poold/internal/core/domain"
)

const (
	poolColumns = `name, asset_a, asset_b, vault_a, vault_b, share_mint,
		fee_vault_a, fee_vault_b, admin, fee_bps, protocol_fee_bps, paused`

	insertPoolQuery = `INSERT INTO pool (` + poolColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	selectPoolQuery     = `SELECT ` + poolColumns + ` FROM pool WHERE name = $1`
	selectPoolForUpdate = selectPoolQuery + ` FOR UPDATE`
	selectAllPoolsQuery = `SELECT ` + poolColumns + ` FROM pool ORDER BY name`

	updatePoolQuery = `UPDATE pool SET admin = $2, fee_bps = $3,
		protocol_fee_bps = $4, paused = $5 WHERE name = $1`
)

type poolRepositoryImpl struct {
	querier querierFn
}

// NewPoolRepositoryImpl initialize a postgres implementation of the
// domain.PoolRepository.
func NewPoolRepositoryImpl(querier querierFn) domain.PoolRepository {
	return poolRepositoryImpl{querier}
}

func (r poolRepositoryImpl) AddPool(ctx context.Context, p *domain.Pool) error {
	if _, err := r.querier(ctx).Exec(
		ctx, insertPoolQuery,
		p.Name, p.AssetA, p.AssetB, p.VaultA, p.VaultB, p.ShareMint,
		p.FeeVaultA, p.FeeVaultB, p.Admin, int32(p.FeeBps),
		int32(p.ProtocolFeeBps), p.Paused,
	); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrPoolAlreadyExists
		}
		return fmt.Errorf("inserting pool %s: %w", p.Name, err)
	}
	return nil
}

func (r poolRepositoryImpl) GetPoolByName(
	ctx context.Context, poolName string,
) (*domain.Pool, error) {
	return r.getPool(ctx, selectPoolQuery, poolName)
}

func (r poolRepositoryImpl) GetPoolByAssets(
	ctx context.Context, assetA, assetB string,
) (*domain.Pool, error) {
	return r.getPool(ctx, selectPoolQuery, domain.MakePoolName(assetA, assetB))
}

func (r poolRepositoryImpl) GetAllPools(ctx context.Context) ([]domain.Pool, error) {
	rows, err := r.querier(ctx).Query(ctx, selectAllPoolsQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pools := make([]domain.Pool, 0)
	for rows.Next() {
		pool, err := scanPool(rows)
		if err != nil {
			return nil, err
		}
		pools = append(pools, *pool)
	}
	return pools, rows.Err()
}

// UpdatePool locks the pool row for the rest of the enclosing transaction
// before handing it to updateFn.
func (r poolRepositoryImpl) UpdatePool(
	ctx context.Context,
	poolName string,
	updateFn func(p *domain.Pool) (*domain.Pool, error),
) error {
	pool, err := r.getPool(ctx, selectPoolForUpdate, poolName)
	if err != nil {
		return err
	}

	updatedPool, err := updateFn(pool)
	if err != nil {
		return err
	}

	if _, err := r.querier(ctx).Exec(
		ctx, updatePoolQuery,
		poolName, updatedPool.Admin, int32(updatedPool.FeeBps),
		int32(updatedPool.ProtocolFeeBps), updatedPool.Paused,
	); err != nil {
		return fmt.Errorf("updating pool %s: %w", poolName, err)
	}
	return nil
}

func (r poolRepositoryImpl) getPool(
	ctx context.Context, query, poolName string,
) (*domain.Pool, error) {
	pool, err := scanPool(r.querier(ctx).QueryRow(ctx, query, poolName))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPoolNotFound
		}
		return nil, err
	}
	return pool, nil
}

func scanPool(row pgx.Row) (*domain.Pool, error) {
	var p domain.Pool
	var feeBps, protocolFeeBps int32
	if err := row.Scan(
		&p.Name, &p.AssetA, &p.AssetB, &p.VaultA, &p.VaultB, &p.ShareMint,
		&p.FeeVaultA, &p.FeeVaultB, &p.Admin, &feeBps, &protocolFeeBps,
		&p.Paused,
	); err != nil {
		return nil, err
	}
	p.FeeBps = uint16(feeBps)
	p.ProtocolFeeBps = uint16(protocolFeeBps)
	return &p, nil
}
