package postgresdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/shareswap/poold/internal/core/domain"
)

const (
	selectAccountQuery = `SELECT id, owner, asset, balance::text
		FROM account WHERE id = $1`
	selectAccountsByOwnerQuery = `SELECT id, owner, asset, balance::text
		FROM account WHERE owner = $1 ORDER BY id`
	upsertAccountQuery = `INSERT INTO account (id, owner, asset, balance)
		VALUES ($1, $2, $3, $4::numeric)
		ON CONFLICT (id) DO UPDATE SET balance = EXCLUDED.balance`
	selectSupplyQuery = `SELECT amount::text FROM supply WHERE asset = $1`
	upsertSupplyQuery = `INSERT INTO supply (asset, amount) VALUES ($1, $2::numeric)
		ON CONFLICT (asset) DO UPDATE SET amount = EXCLUDED.amount`
)

type accountRepositoryImpl struct {
	querier querierFn
}

// NewAccountRepositoryImpl initialize a postgres implementation of the
// domain.AccountRepository.
func NewAccountRepositoryImpl(querier querierFn) domain.AccountRepository {
	return accountRepositoryImpl{querier}
}

func (r accountRepositoryImpl) GetAccount(
	ctx context.Context, accountID string,
) (*domain.Account, error) {
	account, err := scanAccount(
		r.querier(ctx).QueryRow(ctx, selectAccountQuery, accountID),
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

func (r accountRepositoryImpl) GetAccountsByOwner(
	ctx context.Context, owner string,
) ([]domain.Account, error) {
	rows, err := r.querier(ctx).Query(ctx, selectAccountsByOwnerQuery, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := make([]domain.Account, 0)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *account)
	}
	return accounts, rows.Err()
}

func (r accountRepositoryImpl) SaveAccounts(
	ctx context.Context, accounts ...domain.Account,
) error {
	q := r.querier(ctx)
	for _, a := range accounts {
		if _, err := q.Exec(
			ctx, upsertAccountQuery, a.ID, a.Owner, a.Asset, formatAmount(a.Balance),
		); err != nil {
			return fmt.Errorf("saving account %s: %w", a.ID, err)
		}
	}
	return nil
}

func (r accountRepositoryImpl) GetSupply(
	ctx context.Context, asset string,
) (uint64, error) {
	var amount string
	if err := r.querier(ctx).QueryRow(
		ctx, selectSupplyQuery, asset,
	).Scan(&amount); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	return parseAmount(amount)
}

func (r accountRepositoryImpl) UpdateSupply(
	ctx context.Context, asset string, supply uint64,
) error {
	if _, err := r.querier(ctx).Exec(
		ctx, upsertSupplyQuery, asset, formatAmount(supply),
	); err != nil {
		return fmt.Errorf("updating supply of %s: %w", asset, err)
	}
	return nil
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var account domain.Account
	var balance string
	if err := row.Scan(
		&account.ID, &account.Owner, &account.Asset, &balance,
	); err != nil {
		return nil, err
	}
	amount, err := parseAmount(balance)
	if err != nil {
		return nil, err
	}
	account.Balance = amount
	return &account, nil
}
