package dbbadger

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	"github.com/shareswap/poold/internal/core/domain"
	"github.com/shareswap/poold/internal/core/ports"
	"github.com/timshannon/badgerhold/v4"
)

const (
	txKey = "tx"
)

var (
	eventSequenceKey = []byte("eventseq")
)

type repoManager struct {
	store    *badgerhold.Store
	eventSeq *badger.Sequence

	poolRepository    domain.PoolRepository
	eventRepository   domain.EventRepository
	accountRepository domain.AccountRepository
}

// NewRepoManager opens (or creates if not exists) the badger store on disk.
// It expects a base data dir and an optional logger. If the data dir is
// empty, the store is kept in memory.
func NewRepoManager(baseDbDir string, logger badger.Logger) (ports.RepoManager, error) {
	var dbDir string
	if len(baseDbDir) > 0 {
		dbDir = filepath.Join(baseDbDir, "pools")
	}

	store, err := createDb(dbDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening pools db: %w", err)
	}

	eventSeq, err := store.Badger().GetSequence(eventSequenceKey, 100)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("opening event sequence: %w", err)
	}

	return &repoManager{
		store:             store,
		eventSeq:          eventSeq,
		poolRepository:    NewPoolRepositoryImpl(store),
		eventRepository:   NewEventRepositoryImpl(store, eventSeq),
		accountRepository: NewAccountRepositoryImpl(store),
	}, nil
}

func (r *repoManager) PoolRepository() domain.PoolRepository {
	return r.poolRepository
}

func (r *repoManager) EventRepository() domain.EventRepository {
	return r.eventRepository
}

func (r *repoManager) AccountRepository() domain.AccountRepository {
	return r.accountRepository
}

// RunTransaction runs handler within a single badger transaction that is
// passed to the repositories through the context. A conflict with another
// concurrent transaction is returned as error and nothing is committed.
func (r *repoManager) RunTransaction(
	ctx context.Context,
	readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	tx := r.store.Badger().NewTransaction(!readOnly)
	defer tx.Discard()

	ctx = context.WithValue(ctx, txKey, tx)
	res, err := handler(ctx)
	if err != nil {
		return nil, err
	}

	if !readOnly {
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("committing transaction: %w", err)
		}
	}
	return res, nil
}

func (r *repoManager) Close() {
	r.eventSeq.Release()
	r.store.Close()
}

func createDb(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	var opts badger.Options
	if len(dbDir) <= 0 {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(dbDir)
		opts.Compression = options.ZSTD
	}
	opts.Logger = logger

	return badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
}

func txFromContext(ctx context.Context) *badger.Txn {
	if tx, ok := ctx.Value(txKey).(*badger.Txn); ok {
		return tx
	}
	return nil
}
