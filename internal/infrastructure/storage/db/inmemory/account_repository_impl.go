package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/shareswap/poold/internal/core/domain"
)

type accountRepositoryImpl struct {
	accounts map[string]domain.Account
	supplies map[string]uint64

	lock *sync.RWMutex
}

func newAccountRepositoryImpl() *accountRepositoryImpl {
	return &accountRepositoryImpl{
		accounts: map[string]domain.Account{},
		supplies: map[string]uint64{},
		lock:     &sync.RWMutex{},
	}
}

func (r *accountRepositoryImpl) GetAccount(
	_ context.Context, accountID string,
) (*domain.Account, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	account, ok := r.accounts[accountID]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return &account, nil
}

func (r *accountRepositoryImpl) GetAccountsByOwner(
	_ context.Context, owner string,
) ([]domain.Account, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	accounts := make([]domain.Account, 0)
	for _, a := range r.accounts {
		if a.Owner == owner {
			accounts = append(accounts, a)
		}
	}
	sort.SliceStable(accounts, func(i, j int) bool {
		return accounts[i].ID < accounts[j].ID
	})
	return accounts, nil
}

func (r *accountRepositoryImpl) SaveAccounts(
	_ context.Context, accounts ...domain.Account,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	for _, a := range accounts {
		r.accounts[a.ID] = a
	}
	return nil
}

func (r *accountRepositoryImpl) GetSupply(
	_ context.Context, asset string,
) (uint64, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return r.supplies[asset], nil
}

func (r *accountRepositoryImpl) UpdateSupply(
	_ context.Context, asset string, supply uint64,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.supplies[asset] = supply
	return nil
}

type accountsSnapshot struct {
	accounts map[string]domain.Account
	supplies map[string]uint64
}

func (r *accountRepositoryImpl) snapshot() accountsSnapshot {
	r.lock.RLock()
	defer r.lock.RUnlock()

	accounts := make(map[string]domain.Account, len(r.accounts))
	for k, v := range r.accounts {
		accounts[k] = v
	}
	supplies := make(map[string]uint64, len(r.supplies))
	for k, v := range r.supplies {
		supplies[k] = v
	}
	return accountsSnapshot{accounts, supplies}
}

func (r *accountRepositoryImpl) restore(s accountsSnapshot) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.accounts = s.accounts
	r.supplies = s.supplies
}
