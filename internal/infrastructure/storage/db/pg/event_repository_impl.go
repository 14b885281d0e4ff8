package postgresdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/shareswap/poold/internal/core/domain"
)

const (
	eventColumns = `id, type, pool_name, actor, timestamp, amount_a::text,
		amount_b::text, shares::text, direction, amount_in::text,
		amount_out::text, protocol_fee::text, paused, old_admin, new_admin`

	insertEventQuery = `INSERT INTO pool_event (id, type, pool_name, actor,
		timestamp, amount_a, amount_b, shares, direction, amount_in, amount_out,
		protocol_fee, paused, old_admin, new_admin)
		VALUES ($1, $2, $3, $4, $5, $6::numeric, $7::numeric, $8::numeric, $9,
		$10::numeric, $11::numeric, $12::numeric, $13, $14, $15)`

	selectEventByIDQuery = `SELECT ` + eventColumns + ` FROM pool_event WHERE id = $1`

	selectPoolEventsQuery = `SELECT ` + eventColumns + ` FROM pool_event
		WHERE pool_name = $1 ORDER BY seq LIMIT $2 OFFSET $3`
	selectAllEventsQuery = `SELECT ` + eventColumns + ` FROM pool_event
		ORDER BY seq LIMIT $1 OFFSET $2`
)

type eventRepositoryImpl struct {
	querier querierFn
}

// NewEventRepositoryImpl initialize a postgres implementation of the
// domain.EventRepository.
func NewEventRepositoryImpl(querier querierFn) domain.EventRepository {
	return eventRepositoryImpl{querier}
}

func (r eventRepositoryImpl) AddEvent(ctx context.Context, e *domain.PoolEvent) error {
	if _, err := r.querier(ctx).Exec(
		ctx, insertEventQuery,
		e.ID, int32(e.Type), e.PoolName, e.Actor, e.Timestamp,
		formatAmount(e.AmountA), formatAmount(e.AmountB), formatAmount(e.Shares),
		e.Direction, formatAmount(e.AmountIn), formatAmount(e.AmountOut),
		formatAmount(e.ProtocolFee), e.Paused, e.OldAdmin, e.NewAdmin,
	); err != nil {
		return fmt.Errorf("inserting event %s: %w", e.ID, err)
	}
	return nil
}

func (r eventRepositoryImpl) GetEventByID(
	ctx context.Context, id string,
) (*domain.PoolEvent, error) {
	event, err := scanEvent(r.querier(ctx).QueryRow(ctx, selectEventByIDQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

func (r eventRepositoryImpl) GetEventsForPool(
	ctx context.Context, poolName string, page *domain.Page,
) ([]domain.PoolEvent, error) {
	limit, offset := limitAndOffset(page)
	return r.findEvents(ctx, selectPoolEventsQuery, poolName, limit, offset)
}

func (r eventRepositoryImpl) GetAllEvents(
	ctx context.Context, page *domain.Page,
) ([]domain.PoolEvent, error) {
	limit, offset := limitAndOffset(page)
	return r.findEvents(ctx, selectAllEventsQuery, limit, offset)
}

func (r eventRepositoryImpl) findEvents(
	ctx context.Context, query string, args ...interface{},
) ([]domain.PoolEvent, error) {
	rows, err := r.querier(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]domain.PoolEvent, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}
	return events, rows.Err()
}

// limitAndOffset converts page to sql clauses. A nil limit selects all rows.
func limitAndOffset(page *domain.Page) (*int, int) {
	if page == nil {
		return nil, 0
	}
	size := page.Size
	return &size, (page.Number - 1) * page.Size
}

func scanEvent(row pgx.Row) (*domain.PoolEvent, error) {
	var e domain.PoolEvent
	var eventType int32
	var amountA, amountB, shares, amountIn, amountOut, protocolFee string
	if err := row.Scan(
		&e.ID, &eventType, &e.PoolName, &e.Actor, &e.Timestamp,
		&amountA, &amountB, &shares, &e.Direction, &amountIn, &amountOut,
		&protocolFee, &e.Paused, &e.OldAdmin, &e.NewAdmin,
	); err != nil {
		return nil, err
	}
	e.Type = domain.EventType(eventType)

	if err := parseAmounts(
		[]*uint64{
			&e.AmountA, &e.AmountB, &e.Shares,
			&e.AmountIn, &e.AmountOut, &e.ProtocolFee,
		},
		[]string{amountA, amountB, shares, amountIn, amountOut, protocolFee},
	); err != nil {
		return nil, err
	}
	return &e, nil
}
