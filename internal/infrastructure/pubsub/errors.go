package pubsub

import "errors"

var (
	// ErrSubscriptionNotFound is returned when removing an unknown webhook.
	ErrSubscriptionNotFound = errors.New("webhook not found")
	// ErrInvalidTopic is returned when subscribing for something that is
	// neither a pool event type nor "*".
	ErrInvalidTopic = errors.New("invalid webhook topic")
	// ErrInvalidEndpoint is returned when the webhook endpoint is not an
	// absolute http(s) URL.
	ErrInvalidEndpoint = errors.New("webhook endpoint must be an absolute http(s) url")
	// ErrMalformedSubscription is returned when a stored webhook can't be
	// decoded.
	ErrMalformedSubscription = errors.New("malformed stored webhook")
)
