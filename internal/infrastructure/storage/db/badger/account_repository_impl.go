package dbbadger

import (
	"context"
	"errors"
	"fmt"

	"github.com/shareswap/poold/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type supply struct {
	Asset  string
	Amount uint64
}

type accountRepositoryImpl struct {
	store *badgerhold.Store
}

// NewAccountRepositoryImpl initialize a badger implementation of the
// domain.AccountRepository.
func NewAccountRepositoryImpl(store *badgerhold.Store) domain.AccountRepository {
	return accountRepositoryImpl{store}
}

func (r accountRepositoryImpl) GetAccount(
	ctx context.Context, accountID string,
) (*domain.Account, error) {
	var account domain.Account
	var err error

	if tx := txFromContext(ctx); tx != nil {
		err = r.store.TxGet(tx, accountID, &account)
	} else {
		err = r.store.Get(accountID, &account)
	}
	if err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r accountRepositoryImpl) GetAccountsByOwner(
	ctx context.Context, owner string,
) ([]domain.Account, error) {
	var accounts []domain.Account
	var err error

	query := badgerhold.Where("Owner").Eq(owner).SortBy("ID")
	if tx := txFromContext(ctx); tx != nil {
		err = r.store.TxFind(tx, &accounts, query)
	} else {
		err = r.store.Find(&accounts, query)
	}
	return accounts, err
}

func (r accountRepositoryImpl) SaveAccounts(
	ctx context.Context, accounts ...domain.Account,
) error {
	tx := txFromContext(ctx)
	for _, a := range accounts {
		var err error
		if tx != nil {
			err = r.store.TxUpsert(tx, a.ID, a)
		} else {
			err = r.store.Upsert(a.ID, a)
		}
		if err != nil {
			return fmt.Errorf("saving account %s: %w", a.ID, err)
		}
	}
	return nil
}

func (r accountRepositoryImpl) GetSupply(
	ctx context.Context, asset string,
) (uint64, error) {
	var s supply
	var err error

	if tx := txFromContext(ctx); tx != nil {
		err = r.store.TxGet(tx, asset, &s)
	} else {
		err = r.store.Get(asset, &s)
	}
	if err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return s.Amount, nil
}

func (r accountRepositoryImpl) UpdateSupply(
	ctx context.Context, asset string, amount uint64,
) error {
	s := supply{asset, amount}

	var err error
	if tx := txFromContext(ctx); tx != nil {
		err = r.store.TxUpsert(tx, asset, s)
	} else {
		err = r.store.Upsert(asset, s)
	}
	if err != nil {
		return fmt.Errorf("updating supply of %s: %w", asset, err)
	}
	return nil
}
