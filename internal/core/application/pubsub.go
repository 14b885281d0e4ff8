package application

import (
	"context"

	"github.com/shareswap/poold/internal/core/application/pubsub"
	"github.com/shareswap/poold/internal/core/domain"
	"github.com/shareswap/poold/internal/core/ports"
)

// PubSubService manages the webhooks notified of pool events.
type PubSubService interface {
	AddWebhook(ctx context.Context, event, endpoint, secret string) (string, error)
	RemoveWebhook(ctx context.Context, id string) error
	ListWebhooks(ctx context.Context, event string) ([]WebhookInfo, error)
	PublishPoolEvent(event domain.PoolEvent) error
	Close()
}

type pubsubService struct {
	svc *pubsub.Service
}

func NewPubSubService(pubsubSvc ports.PubSub) PubSubService {
	if pubsubSvc == nil {
		return nil
	}
	return &pubsubService{pubsub.NewService(pubsubSvc)}
}

func (s *pubsubService) AddWebhook(
	ctx context.Context, event, endpoint, secret string,
) (string, error) {
	return s.svc.AddWebhook(ctx, event, endpoint, secret)
}

func (s *pubsubService) RemoveWebhook(ctx context.Context, id string) error {
	return s.svc.RemoveWebhook(ctx, id)
}

func (s *pubsubService) ListWebhooks(
	ctx context.Context, event string,
) ([]WebhookInfo, error) {
	subs, err := s.svc.ListWebhooks(ctx, event)
	if err != nil {
		return nil, err
	}

	webhooks := make([]WebhookInfo, 0, len(subs))
	for _, sub := range subs {
		webhooks = append(webhooks, WebhookInfo{
			ID:        sub.Id(),
			Event:     sub.Topic(),
			Endpoint:  sub.NotifyAt(),
			IsSecured: sub.IsSecured(),
		})
	}
	return webhooks, nil
}

func (s *pubsubService) PublishPoolEvent(event domain.PoolEvent) error {
	return s.svc.PublishPoolEvent(event)
}

func (s *pubsubService) Close() {
	s.svc.Close()
}
