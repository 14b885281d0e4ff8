package domain

import (
	"strings"

	"github.com/shareswap/poold/pkg/mathutil"
)

// Account is a ledger entry holding a balance of exactly one asset.
// Its id has the form "<owner>/<label>", the owner never contains a slash.
type Account struct {
	ID      string
	Owner   string
	Asset   string
	Balance uint64
}

// NewAccount returns an empty account for the given id and asset.
func NewAccount(id, asset string) (*Account, error) {
	owner := AccountOwner(id)
	if len(owner) <= 0 {
		return nil, ErrInvalidAccount
	}
	if !IsValidAsset(asset) && !isShareMint(asset) {
		return nil, ErrInvalidAccount
	}
	return &Account{
		ID:    id,
		Owner: owner,
		Asset: strings.ToLower(asset),
	}, nil
}

// Credit adds amount to the balance.
func (a *Account) Credit(amount uint64) error {
	balance, err := mathutil.Add(a.Balance, amount)
	if err != nil {
		return err
	}
	a.Balance = balance
	return nil
}

// Debit subtracts amount from the balance.
func (a *Account) Debit(amount uint64) error {
	if amount > a.Balance {
		return ErrInsufficientBalance
	}
	a.Balance -= amount
	return nil
}

// AccountOwner returns the owner part of an account id.
func AccountOwner(accountID string) string {
	i := strings.Index(accountID, "/")
	if i <= 0 {
		return ""
	}
	return accountID[:i]
}

func isShareMint(asset string) bool {
	parts := strings.Split(asset, "/")
	return len(parts) == 2 && len(parts[0]) > 0 && parts[1] == shareMintLabel
}
