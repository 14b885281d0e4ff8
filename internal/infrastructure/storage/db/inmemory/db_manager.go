package inmemory

import (
	"context"
	"sync"

	"github.com/shareswap/poold/internal/core/domain"
	"github.com/shareswap/poold/internal/core/ports"
)

// RepoManager holds all the in-memory repositories. Write transactions are
// serialized and, in case of error, every repository is restored to the
// state it had before the transaction started.
type RepoManager struct {
	poolRepository    *poolRepositoryImpl
	eventRepository   *eventRepositoryImpl
	accountRepository *accountRepositoryImpl

	txLock *sync.RWMutex
}

func NewRepoManager() ports.RepoManager {
	return &RepoManager{
		poolRepository:    newPoolRepositoryImpl(),
		eventRepository:   newEventRepositoryImpl(),
		accountRepository: newAccountRepositoryImpl(),
		txLock:            &sync.RWMutex{},
	}
}

func (r *RepoManager) PoolRepository() domain.PoolRepository {
	return r.poolRepository
}

func (r *RepoManager) EventRepository() domain.EventRepository {
	return r.eventRepository
}

func (r *RepoManager) AccountRepository() domain.AccountRepository {
	return r.accountRepository
}

func (r *RepoManager) RunTransaction(
	ctx context.Context,
	readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	if readOnly {
		r.txLock.RLock()
		defer r.txLock.RUnlock()

		return handler(ctx)
	}

	r.txLock.Lock()
	defer r.txLock.Unlock()

	pools := r.poolRepository.snapshot()
	events := r.eventRepository.snapshot()
	accounts := r.accountRepository.snapshot()

	res, err := handler(ctx)
	if err != nil {
		r.poolRepository.restore(pools)
		r.eventRepository.restore(events)
		r.accountRepository.restore(accounts)
		return nil, err
	}
	return res, nil
}

func (r *RepoManager) Close() {}
