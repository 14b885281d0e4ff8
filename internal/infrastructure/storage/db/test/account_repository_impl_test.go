package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shareswap/poold/internal/core/domain"
	"github.com/stretchr/testify/require"
)

func TestAccountRepositoryImplementations(t *testing.T) {
	repoManagers := createRepoManagers(t)

	for i := range repoManagers {
		repo := repoManagers[i]

		t.Run(repo.Name, func(t *testing.T) {
			t.Parallel()

			t.Run("testSaveAndGetAccounts", func(t *testing.T) {
				testSaveAndGetAccounts(t, repo)
			})

			t.Run("testSupply", func(t *testing.T) {
				testSupply(t, repo)
			})

			t.Run("testSaveAccountsRollback", func(t *testing.T) {
				testSaveAccountsRollback(t, repo)
			})
		})
	}
}

func testSaveAndGetAccounts(t *testing.T, repo repoManager) {
	owner := randomHex(33)
	assetA, assetB := randomHex(32), randomHex(32)

	accountA, err := domain.NewAccount(domain.UserAccountID(owner, assetA), assetA)
	require.NoError(t, err)
	accountB, err := domain.NewAccount(domain.UserAccountID(owner, assetB), assetB)
	require.NoError(t, err)
	accountA.Balance = 100
	accountB.Balance = ^uint64(0)

	_, err = repo.read(func(ctx context.Context) (interface{}, error) {
		return repo.AccountRepository().GetAccount(ctx, accountA.ID)
	})
	require.ErrorIs(t, err, domain.ErrAccountNotFound)

	_, err = repo.write(func(ctx context.Context) (interface{}, error) {
		return nil, repo.AccountRepository().SaveAccounts(ctx, *accountA, *accountB)
	})
	require.NoError(t, err)

	iAccount, err := repo.read(func(ctx context.Context) (interface{}, error) {
		return repo.AccountRepository().GetAccount(ctx, accountB.ID)
	})
	require.NoError(t, err)
	require.Equal(t, *accountB, *iAccount.(*domain.Account))

	accountA.Balance = 40
	_, err = repo.write(func(ctx context.Context) (interface{}, error) {
		return nil, repo.AccountRepository().SaveAccounts(ctx, *accountA)
	})
	require.NoError(t, err)

	iAccounts, err := repo.read(func(ctx context.Context) (interface{}, error) {
		return repo.AccountRepository().GetAccountsByOwner(ctx, owner)
	})
	require.NoError(t, err)
	accounts := iAccounts.([]domain.Account)
	require.Len(t, accounts, 2)
	require.ElementsMatch(t, []domain.Account{*accountA, *accountB}, accounts)

	iAccounts, err = repo.read(func(ctx context.Context) (interface{}, error) {
		return repo.AccountRepository().GetAccountsByOwner(ctx, randomHex(33))
	})
	require.NoError(t, err)
	require.Empty(t, iAccounts)
}

func testSupply(t *testing.T, repo repoManager) {
	asset := randomHex(32)

	iSupply, err := repo.read(func(ctx context.Context) (interface{}, error) {
		return repo.AccountRepository().GetSupply(ctx, asset)
	})
	require.NoError(t, err)
	require.Zero(t, iSupply)

	for _, supply := range []uint64{1000, ^uint64(0), 0} {
		_, err = repo.write(func(ctx context.Context) (interface{}, error) {
			return nil, repo.AccountRepository().UpdateSupply(ctx, asset, supply)
		})
		require.NoError(t, err)

		iSupply, err = repo.read(func(ctx context.Context) (interface{}, error) {
			return repo.AccountRepository().GetSupply(ctx, asset)
		})
		require.NoError(t, err)
		require.Equal(t, supply, iSupply)
	}
}

func testSaveAccountsRollback(t *testing.T, repo repoManager) {
	owner, asset := randomHex(33), randomHex(32)
	account, err := domain.NewAccount(domain.UserAccountID(owner, asset), asset)
	require.NoError(t, err)
	account.Balance = 10
	errAbort := errors.New("abort")

	_, err = repo.write(func(ctx context.Context) (interface{}, error) {
		if err := repo.AccountRepository().SaveAccounts(ctx, *account); err != nil {
			return nil, err
		}
		if err := repo.AccountRepository().UpdateSupply(ctx, asset, 10); err != nil {
			return nil, err
		}
		return nil, errAbort
	})
	require.ErrorIs(t, err, errAbort)

	_, err = repo.read(func(ctx context.Context) (interface{}, error) {
		return repo.AccountRepository().GetAccount(ctx, account.ID)
	})
	require.ErrorIs(t, err, domain.ErrAccountNotFound)

	iSupply, err := repo.read(func(ctx context.Context) (interface{}, error) {
		return repo.AccountRepository().GetSupply(ctx, asset)
	})
	require.NoError(t, err)
	require.Zero(t, iSupply)
}
