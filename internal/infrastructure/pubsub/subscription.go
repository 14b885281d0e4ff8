package pubsub

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/shareswap/poold/internal/core/domain"
	"github.com/shareswap/poold/internal/core/ports"
)

// Subscription is a webhook notified of one pool event type, or of all of
// them if Event is ports.AnyTopic.
type Subscription struct {
	ID       string `json:"id"`
	Event    string `json:"event"`
	Endpoint string `json:"endpoint"`
	Secret   string `json:"secret,omitempty"`
}

// NewSubscription returns a webhook with a fresh id. The event is stored in
// the canonical form of its pool event type, so that "swap" and "SWAP" end up
// under the same topic.
func NewSubscription(event, endpoint, secret string) (*Subscription, error) {
	topic, err := parseTopic(event)
	if err != nil {
		return nil, err
	}
	if err := validateEndpoint(endpoint); err != nil {
		return nil, err
	}
	return &Subscription{
		ID:       uuid.New().String(),
		Event:    topic,
		Endpoint: endpoint,
		Secret:   secret,
	}, nil
}

func (s *Subscription) Topic() string {
	return s.Event
}

func (s *Subscription) Id() string {
	return s.ID
}

func (s *Subscription) NotifyAt() string {
	return s.Endpoint
}

func (s *Subscription) IsSecured() bool {
	return len(s.Secret) > 0
}

// authorization returns the bearer token proving to the receiver that a
// delivery comes from the daemon, or an empty string for unsecured webhooks.
func (s *Subscription) authorization(issuedAt time.Time) (string, error) {
	if !s.IsSecured() {
		return "", nil
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
		IssuedAt: issuedAt.Unix(),
		Subject:  s.ID,
	})
	signed, err := token.SignedString([]byte(s.Secret))
	if err != nil {
		return "", err
	}
	return "Bearer " + signed, nil
}

func (s *Subscription) encode() []byte {
	buf, _ := json.Marshal(*s)
	return buf
}

func decodeSubscription(buf []byte) (*Subscription, error) {
	sub := &Subscription{}
	if err := json.Unmarshal(buf, sub); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedSubscription, err)
	}
	if len(sub.ID) <= 0 {
		return nil, ErrMalformedSubscription
	}
	return sub, nil
}

func parseTopic(event string) (string, error) {
	if event == ports.AnyTopic {
		return ports.AnyTopic, nil
	}
	eventType, err := domain.ParseEventType(event)
	if err != nil {
		return "", ErrInvalidTopic
	}
	return eventType.String(), nil
}

func validateEndpoint(endpoint string) error {
	u, err := url.ParseRequestURI(endpoint)
	if err != nil || len(u.Host) <= 0 {
		return ErrInvalidEndpoint
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ErrInvalidEndpoint
	}
	return nil
}

type subscriptions []Subscription

func (s subscriptions) sortByID() subscriptions {
	sort.SliceStable(s, func(i, j int) bool { return s[i].ID < s[j].ID })
	return s
}

func (s subscriptions) toPortable() []ports.Subscription {
	subs := make([]ports.Subscription, 0, len(s))
	for i := range s {
		sub := s[i]
		subs = append(subs, &sub)
	}
	return subs
}
