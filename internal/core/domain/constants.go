package domain

const (
	// DefaultFeeBps is the total swap fee, 0.3%.
	DefaultFeeBps = 30
	// DefaultProtocolFeeBps is the share of DefaultFeeBps routed to the
	// protocol, 0.05%. The rest stays in the reserves for liquidity providers.
	DefaultProtocolFeeBps = 5
	// MaxFeeBps is the highest accepted total fee.
	MaxFeeBps = 9999

	vaultALabel    = "vault_a"
	vaultBLabel    = "vault_b"
	feeVaultALabel = "fee_vault_a"
	feeVaultBLabel = "fee_vault_b"
	shareMintLabel = "shares"
)
