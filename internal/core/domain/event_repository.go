package domain

import "context"

// EventRepository is the abstraction for any kind of database intended to
// persist the audit log of pools. Events are append only.
type EventRepository interface {
	// AddEvent appends an event to the log.
	AddEvent(ctx context.Context, event *PoolEvent) error
	// GetEventByID returns the event with the given id.
	GetEventByID(ctx context.Context, id string) (*PoolEvent, error)
	// GetEventsForPool returns the events of the given pool, oldest first.
	// Passing a nil page returns all of them.
	GetEventsForPool(
		ctx context.Context, poolName string, page *Page,
	) ([]PoolEvent, error)
	// GetAllEvents returns the events of every pool, oldest first.
	GetAllEvents(ctx context.Context, page *Page) ([]PoolEvent, error)
}
