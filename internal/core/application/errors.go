package application

import "errors"

var (
	// ErrServiceUnavailable is the error returned by the pool service in case
	// of internal errors
	ErrServiceUnavailable = errors.New("service is unavailable, try again later")
	// ErrWebhookManagerNotInitialized is returned when attempting to manage
	// webhooks without having initialized the pubsub service.
	ErrWebhookManagerNotInitialized = errors.New("webhook manager is not initialized")
	// ErrFaucetDisabled is returned when no operator is configured.
	ErrFaucetDisabled = errors.New("faucet is disabled")
	// ErrNotOperator is returned when the faucet is not called by the operator.
	ErrNotOperator = errors.New("caller is not the operator")
	// ErrInvalidFaucetAsset is returned when requesting funds of an asset that
	// is not a 32-byte hex string, like pool shares.
	ErrInvalidFaucetAsset = errors.New("faucet asset must be a 32-byte hex string")
	// ErrMissingRepoManager ...
	ErrMissingRepoManager = errors.New("missing repository manager")
)
