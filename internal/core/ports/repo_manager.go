package ports

import (
	"context"

	"github.com/shareswap/poold/internal/core/domain"
)

// RepoManager gives access to every repository and lets run a group of
// operations atomically.
type RepoManager interface {
	PoolRepository() domain.PoolRepository
	EventRepository() domain.EventRepository
	AccountRepository() domain.AccountRepository

	// RunTransaction runs handler within a single transaction. All the
	// repository calls made with the handler's context are committed if the
	// handler returns no error and discarded otherwise.
	RunTransaction(
		ctx context.Context,
		readOnly bool,
		handler func(ctx context.Context) (interface{}, error),
	) (interface{}, error)

	Close()
}
