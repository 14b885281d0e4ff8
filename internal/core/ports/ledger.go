package ports

import (
	"context"

	"github.com/shareswap/poold/internal/core/domain"
)

// Ledger is the custody collaborator moving fungible balances between
// accounts. Pools read their reserves and share supply from it at the start
// of every operation.
// Calls are atomic only when made within RepoManager.RunTransaction.
type Ledger interface {
	// OpenAccount registers an empty account for asset. It's a no-op if the
	// account already exists for the same asset.
	OpenAccount(ctx context.Context, accountID, asset string) error
	// GetAccount returns the account with the given id.
	GetAccount(ctx context.Context, accountID string) (*domain.Account, error)
	// GetBalance returns the balance of an account, 0 if it doesn't exist.
	GetBalance(ctx context.Context, accountID string) (uint64, error)
	// GetBalances returns the balances of all accounts of owner by asset.
	GetBalances(ctx context.Context, owner string) (map[string]uint64, error)
	// GetSupply returns the outstanding amount of a mintable asset.
	GetSupply(ctx context.Context, asset string) (uint64, error)
	// Transfer moves amount from an account to another. The destination is
	// created if missing.
	Transfer(ctx context.Context, from, to string, amount uint64) error
	// Mint creates amount of asset into the given account.
	Mint(ctx context.Context, asset, to string, amount uint64) error
	// Burn destroys amount of asset from the given account.
	Burn(ctx context.Context, asset, from string, amount uint64) error
}
