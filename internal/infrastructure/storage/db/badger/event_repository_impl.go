package dbbadger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v3"
	"github.com/shareswap/poold/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

// eventRecord wraps a domain.PoolEvent with the sequence number that gives
// the insertion order.
type eventRecord struct {
	Seq      uint64
	ID       string
	PoolName string
	Event    domain.PoolEvent
}

type eventRepositoryImpl struct {
	store *badgerhold.Store
	seq   *badger.Sequence
}

// NewEventRepositoryImpl initialize a badger implementation of the
// domain.EventRepository.
func NewEventRepositoryImpl(
	store *badgerhold.Store, seq *badger.Sequence,
) domain.EventRepository {
	return eventRepositoryImpl{store, seq}
}

func (r eventRepositoryImpl) AddEvent(ctx context.Context, event *domain.PoolEvent) error {
	seq, err := r.seq.Next()
	if err != nil {
		return err
	}
	record := eventRecord{
		Seq:      seq,
		ID:       event.ID,
		PoolName: event.PoolName,
		Event:    *event,
	}

	if tx := txFromContext(ctx); tx != nil {
		return r.store.TxInsert(tx, seq, record)
	}
	return r.store.Insert(seq, record)
}

func (r eventRepositoryImpl) GetEventByID(
	ctx context.Context, id string,
) (*domain.PoolEvent, error) {
	query := badgerhold.Where("ID").Eq(id)
	events, err := r.findEvents(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(events) <= 0 {
		return nil, ErrEventNotFound
	}
	return &events[0], nil
}

func (r eventRepositoryImpl) GetEventsForPool(
	ctx context.Context, poolName string, page *domain.Page,
) ([]domain.PoolEvent, error) {
	query := badgerhold.Where("PoolName").Eq(poolName).SortBy("Seq")
	return r.findEvents(ctx, withPage(query, page))
}

func (r eventRepositoryImpl) GetAllEvents(
	ctx context.Context, page *domain.Page,
) ([]domain.PoolEvent, error) {
	query := badgerhold.Where("ID").Ne("").SortBy("Seq")
	return r.findEvents(ctx, withPage(query, page))
}

func (r eventRepositoryImpl) findEvents(
	ctx context.Context, query *badgerhold.Query,
) ([]domain.PoolEvent, error) {
	var records []eventRecord
	var err error

	if tx := txFromContext(ctx); tx != nil {
		err = r.store.TxFind(tx, &records, query)
	} else {
		err = r.store.Find(&records, query)
	}
	if err != nil && !errors.Is(err, badgerhold.ErrNotFound) {
		return nil, err
	}

	events := make([]domain.PoolEvent, 0, len(records))
	for _, r := range records {
		events = append(events, r.Event)
	}
	return events, nil
}

func withPage(query *badgerhold.Query, page *domain.Page) *badgerhold.Query {
	if page == nil {
		return query
	}
	return query.Skip((page.Number - 1) * page.Size).Limit(page.Size)
}
