package pubsub

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	"github.com/shareswap/poold/internal/core/ports"
	"github.com/shareswap/poold/pkg/circuitbreaker"
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"go.uber.org/ratelimit"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultRequestTimeout is the timeout of every webhook call.
	DefaultRequestTimeout = 15 * time.Second
	// DefaultRequestsPerSecond caps the rate of outgoing webhook calls.
	DefaultRequestsPerSecond = 50
)

type service struct {
	// lock serializes changes to the per-topic webhook lists.
	lock sync.RWMutex

	store      ports.SubscriptionStore
	httpClient *webhookClient
	cb         *gobreaker.CircuitBreaker
	limiter    ratelimit.Limiter
}

func NewService(
	store ports.SubscriptionStore, requestTimeout time.Duration, rps int,
) (ports.PubSub, error) {
	if store == nil {
		return nil, fmt.Errorf("missing subscription store")
	}
	if requestTimeout <= 0 {
		requestTimeout = DefaultRequestTimeout
	}
	if rps <= 0 {
		rps = DefaultRequestsPerSecond
	}

	return &service{
		store:      store,
		httpClient: newWebhookClient(requestTimeout),
		cb:         circuitbreaker.NewCircuitBreaker("webhooks"),
		limiter:    ratelimit.New(rps),
	}, nil
}

func (ws *service) Store() ports.SubscriptionStore {
	return ws.store
}

func (ws *service) Subscribe(topic, endpoint, secret string) (string, error) {
	sub, err := NewSubscription(topic, endpoint, secret)
	if err != nil {
		return "", err
	}

	return ws.addSubscription(sub)
}

func (ws *service) Unsubscribe(_, id string) error {
	return ws.removeSubscription(id)
}

func (ws *service) ListSubscriptionsForTopic(topic string) []ports.Subscription {
	return ws.listSubscriptionsForTopic(topic).toPortable()
}

func (ws *service) Publish(topic string, message string) error {
	return ws.publishForTopic(topic, message)
}

// addSubscription stores sub and appends it to the list of its topic. The
// whole read-modify-write of the topic list happens under the service lock.
func (ws *service) addSubscription(sub *Subscription) (string, error) {
	ws.lock.Lock()
	defer ws.lock.Unlock()

	subID := []byte(sub.ID)
	existing, err := ws.store.GetFromBucket(subsBucket, subID)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return sub.ID, nil
	}

	if err := ws.store.AddToBucket(subsBucket, subID, sub.encode()); err != nil {
		return "", err
	}
	if err := ws.addSubscriptionForTopic(sub); err != nil {
		return "", err
	}
	return sub.ID, nil
}

func (ws *service) removeSubscription(subID string) error {
	ws.lock.Lock()
	defer ws.lock.Unlock()

	buf, err := ws.store.GetFromBucket(subsBucket, []byte(subID))
	if err != nil {
		return err
	}
	if buf == nil {
		return ErrSubscriptionNotFound
	}
	sub, err := decodeSubscription(buf)
	if err != nil {
		return err
	}

	if err := ws.store.RemoveFromBucket(subsBucket, []byte(subID)); err != nil {
		return err
	}
	return ws.removeSubscriptionForTopic(sub)
}

func (ws *service) listSubscriptionsForTopic(topic string) subscriptions {
	ws.lock.RLock()
	defer ws.lock.RUnlock()

	subs := ws.getSubscriptionsForTopic(topic)
	if topic != ports.AnyTopic && topic != ports.UnspecifiedTopic {
		subs = append(subs, ws.getSubscriptionsForTopic(ports.AnyTopic)...)
	}
	return subs
}

func (ws *service) publishForTopic(topic, message string) error {
	subs := ws.listSubscriptionsForTopic(topic)

	eg := &errgroup.Group{}
	for i := range subs {
		sub := subs[i]
		ws.limiter.Take()
		eg.Go(func() error { return ws.doRequest(sub, message) })
	}
	return eg.Wait()
}

func (ws *service) addSubscriptionForTopic(sub *Subscription) error {
	list := append(ws.getSerializedSubscriptions(sub.Event), sub.encode())
	return ws.store.AddToBucket(
		subsByEventBucket, []byte(sub.Event), bytes.Join(list, separator),
	)
}

func (ws *service) removeSubscriptionForTopic(sub *Subscription) error {
	list := ws.getSerializedSubscriptions(sub.Event)
	kept := make([][]byte, 0, len(list))
	for _, buf := range list {
		if s, err := decodeSubscription(buf); err == nil && s.ID == sub.ID {
			continue
		}
		kept = append(kept, buf)
	}
	if len(kept) == len(list) {
		return nil
	}

	key := []byte(sub.Event)
	if len(kept) <= 0 {
		return ws.store.RemoveFromBucket(subsByEventBucket, key)
	}
	return ws.store.AddToBucket(subsByEventBucket, key, bytes.Join(kept, separator))
}

func (ws *service) getSubscriptionsForTopic(topic string) subscriptions {
	rawSubs := ws.getSerializedSubscriptions(topic)
	subs := make(subscriptions, 0, len(rawSubs))
	for _, buf := range rawSubs {
		sub, err := decodeSubscription(buf)
		if err != nil {
			log.WithError(err).Warnf("pubsub: skipping webhook of topic %s", topic)
			continue
		}
		subs = append(subs, *sub)
	}
	return subs.sortByID()
}

func (ws *service) getSerializedSubscriptions(topic string) [][]byte {
	if topic == ports.UnspecifiedTopic {
		subs := make([][]byte, 0)
		subsByTopic, _ := ws.store.GetAllFromBucket(subsByEventBucket)
		for _, list := range subsByTopic {
			subs = append(subs, bytes.Split(list, separator)...)
		}
		return subs
	}

	list, _ := ws.store.GetFromBucket(subsByEventBucket, []byte(topic))
	if len(list) <= 0 {
		return nil
	}
	return bytes.Split(list, separator)
}

func (ws *service) doRequest(sub Subscription, payload string) error {
	_, err := ws.cb.Execute(func() (interface{}, error) {
		headers := map[string]string{}
		token, err := sub.authorization(time.Now())
		if err != nil {
			return nil, err
		}
		if len(token) > 0 {
			headers["Authorization"] = token
		}

		if err := ws.httpClient.postJSON(sub.Endpoint, payload, headers); err != nil {
			return nil, fmt.Errorf("webhook %s: %w", sub.ID, err)
		}
		return nil, nil
	})

	return err
}
