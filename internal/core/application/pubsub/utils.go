package pubsub

import (
	"time"

	"github.com/shareswap/poold/internal/core/domain"
	"github.com/shareswap/poold/internal/core/ports"
)

func topicForEvent(event string) (string, error) {
	if event == ports.AnyTopic {
		return ports.AnyTopic, nil
	}
	eventType, err := domain.ParseEventType(event)
	if err != nil {
		return "", err
	}
	return eventType.String(), nil
}

func getEventPayload(e domain.PoolEvent) map[string]interface{} {
	payload := map[string]interface{}{
		"event":     e.Type.String(),
		"id":        e.ID,
		"pool":      e.PoolName,
		"actor":     e.Actor,
		"timestamp": e.Timestamp,
		"date":      time.Unix(e.Timestamp, 0).Format(time.RFC3339),
	}

	switch e.Type {
	case domain.DepositEvent, domain.WithdrawEvent:
		payload["amount_a"] = e.AmountA
		payload["amount_b"] = e.AmountB
		payload["shares"] = e.Shares
	case domain.SwapEvent:
		payload["direction"] = e.Direction
		payload["amount_in"] = e.AmountIn
		payload["amount_out"] = e.AmountOut
		payload["protocol_fee"] = e.ProtocolFee
	case domain.ProtocolFeeWithdrawEvent:
		payload["amount_a"] = e.AmountA
		payload["amount_b"] = e.AmountB
	case domain.PauseEvent:
		payload["paused"] = e.Paused
	case domain.PoolCreatedEvent, domain.AdminUpdatedEvent:
		payload["old_admin"] = e.OldAdmin
		payload["new_admin"] = e.NewAdmin
	}
	return payload
}
