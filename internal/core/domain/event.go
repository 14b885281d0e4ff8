package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// EventType identifies the operation recorded by a PoolEvent.
type EventType int

const (
	PoolCreatedEvent EventType = iota
	DepositEvent
	WithdrawEvent
	SwapEvent
	ProtocolFeeWithdrawEvent
	PauseEvent
	AdminUpdatedEvent
)

func (t EventType) String() string {
	switch t {
	case PoolCreatedEvent:
		return "POOL_CREATED"
	case DepositEvent:
		return "DEPOSIT"
	case WithdrawEvent:
		return "WITHDRAW"
	case SwapEvent:
		return "SWAP"
	case ProtocolFeeWithdrawEvent:
		return "PROTOCOL_FEE_WITHDRAW"
	case PauseEvent:
		return "PAUSE"
	case AdminUpdatedEvent:
		return "ADMIN_UPDATED"
	default:
		return "UNKNOWN"
	}
}

// ParseEventType converts the string representation of an event type.
func ParseEventType(s string) (EventType, error) {
	for t := PoolCreatedEvent; t <= AdminUpdatedEvent; t++ {
		if strings.EqualFold(s, t.String()) {
			return t, nil
		}
	}
	return 0, ErrUnknownEventType
}

// PoolEvent is the immutable audit record produced by every successful
// operation. Only the fields relevant to Type are set.
type PoolEvent struct {
	ID        string
	Type      EventType
	PoolName  string
	Actor     string
	Timestamp int64

	AmountA uint64
	AmountB uint64
	Shares  uint64

	Direction   string
	AmountIn    uint64
	AmountOut   uint64
	ProtocolFee uint64

	Paused   bool
	OldAdmin string
	NewAdmin string
}

func newPoolEvent(eventType EventType, pool *Pool, actor string) *PoolEvent {
	return &PoolEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		PoolName:  pool.Name,
		Actor:     NormalizeIdentity(actor),
		Timestamp: time.Now().Unix(),
		Paused:    pool.Paused,
	}
}

// NewPoolCreatedEvent records the creation of pool by its admin.
func NewPoolCreatedEvent(pool *Pool) *PoolEvent {
	e := newPoolEvent(PoolCreatedEvent, pool, pool.Admin)
	e.NewAdmin = pool.Admin
	return e
}

// NewDepositEvent records the amounts consumed and the shares minted to user.
func NewDepositEvent(pool *Pool, user string, res *DepositResult) *PoolEvent {
	e := newPoolEvent(DepositEvent, pool, user)
	e.AmountA = res.AmountA
	e.AmountB = res.AmountB
	e.Shares = res.Shares
	return e
}

// NewWithdrawEvent records the shares burnt by user and the amounts released.
func NewWithdrawEvent(pool *Pool, user string, res *WithdrawResult) *PoolEvent {
	e := newPoolEvent(WithdrawEvent, pool, user)
	e.AmountA = res.AmountA
	e.AmountB = res.AmountB
	e.Shares = res.Shares
	return e
}

// NewSwapEvent records a trade of user.
func NewSwapEvent(pool *Pool, user string, res *SwapResult) *PoolEvent {
	e := newPoolEvent(SwapEvent, pool, user)
	e.Direction = res.Direction.String()
	e.AmountIn = res.AmountIn
	e.AmountOut = res.AmountOut
	e.ProtocolFee = res.ProtocolFee
	return e
}

// NewProtocolFeeWithdrawEvent records the fees moved to the admin.
func NewProtocolFeeWithdrawEvent(
	pool *Pool, res *ProtocolFeeWithdrawal,
) *PoolEvent {
	e := newPoolEvent(ProtocolFeeWithdrawEvent, pool, pool.Admin)
	e.AmountA = res.AmountA
	e.AmountB = res.AmountB
	return e
}

// NewPauseEvent records the current value of the pause flag.
func NewPauseEvent(pool *Pool) *PoolEvent {
	return newPoolEvent(PauseEvent, pool, pool.Admin)
}

// NewAdminUpdatedEvent records an admin rotation. pool must already carry the
// new admin.
func NewAdminUpdatedEvent(pool *Pool, oldAdmin string) *PoolEvent {
	e := newPoolEvent(AdminUpdatedEvent, pool, oldAdmin)
	e.OldAdmin = oldAdmin
	e.NewAdmin = pool.Admin
	return e
}
