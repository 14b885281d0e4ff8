package application

import (
	"context"
	"errors"
	"strings"

	"github.com/shareswap/poold/internal/core/domain"
	"github.com/shareswap/poold/internal/core/ports"
	"github.com/shareswap/poold/pkg/mathutil"
)

type ledger struct {
	repo domain.AccountRepository
}

// NewLedger returns a custody ledger persisting balances through the given
// repository. Every method is meant to be called within
// RepoManager.RunTransaction to get atomicity across multiple movements.
func NewLedger(repo domain.AccountRepository) ports.Ledger {
	return &ledger{repo}
}

func (l *ledger) OpenAccount(
	ctx context.Context, accountID, asset string,
) error {
	account, err := l.repo.GetAccount(ctx, accountID)
	if err == nil {
		if !sameAsset(account.Asset, asset) {
			return domain.ErrAccountAssetMismatch
		}
		return nil
	}
	if !errors.Is(err, domain.ErrAccountNotFound) {
		return err
	}

	account, err = domain.NewAccount(accountID, asset)
	if err != nil {
		return err
	}
	return l.repo.SaveAccounts(ctx, *account)
}

func (l *ledger) GetAccount(
	ctx context.Context, accountID string,
) (*domain.Account, error) {
	return l.repo.GetAccount(ctx, accountID)
}

func (l *ledger) GetBalance(
	ctx context.Context, accountID string,
) (uint64, error) {
	account, err := l.repo.GetAccount(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return account.Balance, nil
}

func (l *ledger) GetBalances(
	ctx context.Context, owner string,
) (map[string]uint64, error) {
	accounts, err := l.repo.GetAccountsByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}

	balances := make(map[string]uint64)
	for _, a := range accounts {
		balances[a.Asset] += a.Balance
	}
	return balances, nil
}

func (l *ledger) GetSupply(ctx context.Context, asset string) (uint64, error) {
	return l.repo.GetSupply(ctx, asset)
}

func (l *ledger) Transfer(
	ctx context.Context, from, to string, amount uint64,
) error {
	if amount == 0 || from == to {
		return nil
	}

	src, err := l.repo.GetAccount(ctx, from)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return domain.ErrInsufficientBalance
		}
		return err
	}
	dst, err := l.getOrCreateAccount(ctx, to, src.Asset)
	if err != nil {
		return err
	}

	if err := src.Debit(amount); err != nil {
		return err
	}
	if err := dst.Credit(amount); err != nil {
		return err
	}
	return l.repo.SaveAccounts(ctx, *src, *dst)
}

func (l *ledger) Mint(
	ctx context.Context, asset, to string, amount uint64,
) error {
	if amount == 0 {
		return nil
	}

	supply, err := l.repo.GetSupply(ctx, asset)
	if err != nil {
		return err
	}
	newSupply, err := mathutil.Add(supply, amount)
	if err != nil {
		return err
	}

	dst, err := l.getOrCreateAccount(ctx, to, asset)
	if err != nil {
		return err
	}
	if err := dst.Credit(amount); err != nil {
		return err
	}

	if err := l.repo.SaveAccounts(ctx, *dst); err != nil {
		return err
	}
	return l.repo.UpdateSupply(ctx, asset, newSupply)
}

func (l *ledger) Burn(
	ctx context.Context, asset, from string, amount uint64,
) error {
	if amount == 0 {
		return nil
	}

	src, err := l.repo.GetAccount(ctx, from)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return domain.ErrInsufficientBalance
		}
		return err
	}
	if !sameAsset(src.Asset, asset) {
		return domain.ErrAccountAssetMismatch
	}

	supply, err := l.repo.GetSupply(ctx, asset)
	if err != nil {
		return err
	}
	if err := src.Debit(amount); err != nil {
		return err
	}
	newSupply, err := mathutil.Sub(supply, amount)
	if err != nil {
		return err
	}

	if err := l.repo.SaveAccounts(ctx, *src); err != nil {
		return err
	}
	return l.repo.UpdateSupply(ctx, asset, newSupply)
}

func (l *ledger) getOrCreateAccount(
	ctx context.Context, accountID, asset string,
) (*domain.Account, error) {
	account, err := l.repo.GetAccount(ctx, accountID)
	if err != nil {
		if !errors.Is(err, domain.ErrAccountNotFound) {
			return nil, err
		}
		return domain.NewAccount(accountID, asset)
	}
	if !sameAsset(account.Asset, asset) {
		return nil, domain.ErrAccountAssetMismatch
	}
	return account, nil
}

func sameAsset(a, b string) bool {
	return strings.EqualFold(a, b)
}
