package postgresdb

import "errors"

var (
	// ErrEventNotFound ...
	ErrEventNotFound = errors.New("event not found")
)
