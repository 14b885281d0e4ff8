package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"

	"github.com/shareswap/poold/internal/core/domain"
	"github.com/shareswap/poold/internal/core/ports"
)

// ErrInvalidEndpoint is returned when adding a webhook with a malformed URL.
var ErrInvalidEndpoint = errors.New("webhook endpoint must be a valid URI")

type Service struct {
	pubsub ports.PubSub
}

func NewService(pubsub ports.PubSub) *Service {
	return &Service{pubsub}
}

func (s *Service) PubSub() ports.PubSub {
	return s.pubsub
}

// AddWebhook subscribes endpoint for the given event type, or for every type
// if event is "*".
func (s *Service) AddWebhook(
	_ context.Context, event, endpoint, secret string,
) (string, error) {
	topic, err := topicForEvent(event)
	if err != nil {
		return "", err
	}
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return "", ErrInvalidEndpoint
	}
	return s.pubsub.Subscribe(topic, endpoint, secret)
}

func (s *Service) RemoveWebhook(_ context.Context, id string) error {
	return s.pubsub.Unsubscribe(ports.UnspecifiedTopic, id)
}

func (s *Service) ListWebhooks(
	_ context.Context, event string,
) ([]ports.Subscription, error) {
	if event == ports.UnspecifiedTopic {
		return s.pubsub.ListSubscriptionsForTopic(ports.UnspecifiedTopic), nil
	}
	topic, err := topicForEvent(event)
	if err != nil {
		return nil, err
	}
	return s.pubsub.ListSubscriptionsForTopic(topic), nil
}

// PublishPoolEvent notifies the subscribers of the event type and those
// subscribed to any event.
func (s *Service) PublishPoolEvent(event domain.PoolEvent) error {
	message, err := json.Marshal(getEventPayload(event))
	if err != nil {
		return err
	}
	return s.pubsub.Publish(event.Type.String(), string(message))
}

func (s *Service) Close() {
	s.pubsub.Store().Close()
}
