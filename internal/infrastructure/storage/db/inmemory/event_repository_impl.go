package inmemory

import (
	"context"
	"sync"

	"github.com/shareswap/poold/internal/core/domain"
)

type eventRepositoryImpl struct {
	events     []domain.PoolEvent
	eventsByID map[string]int

	lock *sync.RWMutex
}

func newEventRepositoryImpl() *eventRepositoryImpl {
	return &eventRepositoryImpl{
		events:     make([]domain.PoolEvent, 0),
		eventsByID: map[string]int{},
		lock:       &sync.RWMutex{},
	}
}

func (r *eventRepositoryImpl) AddEvent(_ context.Context, event *domain.PoolEvent) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.eventsByID[event.ID]; ok {
		return nil
	}
	r.eventsByID[event.ID] = len(r.events)
	r.events = append(r.events, *event)
	return nil
}

func (r *eventRepositoryImpl) GetEventByID(
	_ context.Context, id string,
) (*domain.PoolEvent, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	i, ok := r.eventsByID[id]
	if !ok {
		return nil, ErrEventNotFound
	}
	event := r.events[i]
	return &event, nil
}

func (r *eventRepositoryImpl) GetEventsForPool(
	_ context.Context, poolName string, page *domain.Page,
) ([]domain.PoolEvent, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	events := make([]domain.PoolEvent, 0)
	for _, e := range r.events {
		if e.PoolName == poolName {
			events = append(events, e)
		}
	}
	return paginate(events, page), nil
}

func (r *eventRepositoryImpl) GetAllEvents(
	_ context.Context, page *domain.Page,
) ([]domain.PoolEvent, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	events := make([]domain.PoolEvent, len(r.events))
	copy(events, r.events)
	return paginate(events, page), nil
}

type eventsSnapshot struct {
	events     []domain.PoolEvent
	eventsByID map[string]int
}

func (r *eventRepositoryImpl) snapshot() eventsSnapshot {
	r.lock.RLock()
	defer r.lock.RUnlock()

	events := make([]domain.PoolEvent, len(r.events))
	copy(events, r.events)
	eventsByID := make(map[string]int, len(r.eventsByID))
	for k, v := range r.eventsByID {
		eventsByID[k] = v
	}
	return eventsSnapshot{events, eventsByID}
}

func (r *eventRepositoryImpl) restore(s eventsSnapshot) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.events = s.events
	r.eventsByID = s.eventsByID
}

func paginate(events []domain.PoolEvent, page *domain.Page) []domain.PoolEvent {
	if page == nil {
		return events
	}
	start, end := page.Bounds(len(events))
	return events[start:end]
}
