package application

import (
	"github.com/shareswap/poold/internal/core/domain"
)

// PoolInfo is a pool record together with its live balances.
type PoolInfo struct {
	domain.Pool
	Balances domain.PoolBalances
}

// WebhookInfo describes a registered webhook. The secret is never returned.
type WebhookInfo struct {
	ID        string
	Event     string
	Endpoint  string
	IsSecured bool
}
