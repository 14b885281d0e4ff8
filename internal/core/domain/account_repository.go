package domain

import "context"

// AccountRepository is the abstraction for any kind of database intended to
// persist the balances of the custody ledger.
type AccountRepository interface {
	// GetAccount returns the account with the given id, or ErrAccountNotFound.
	GetAccount(ctx context.Context, accountID string) (*Account, error)
	// GetAccountsByOwner returns all the accounts of the given owner.
	GetAccountsByOwner(ctx context.Context, owner string) ([]Account, error)
	// SaveAccounts inserts or overwrites the given accounts.
	SaveAccounts(ctx context.Context, accounts ...Account) error
	// GetSupply returns the outstanding amount of asset created via Mint.
	GetSupply(ctx context.Context, asset string) (uint64, error)
	// UpdateSupply overwrites the outstanding amount of asset.
	UpdateSupply(ctx context.Context, asset string, supply uint64) error
}
