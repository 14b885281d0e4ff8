package domain

import "errors"

var (
	// ErrPoolInvalidAssetA is returned when the first asset of the pair is not
	// a 32-byte hex string.
	ErrPoolInvalidAssetA = errors.New("invalid asset a")
	// ErrPoolInvalidAssetB is returned when the second asset of the pair is not
	// a 32-byte hex string.
	ErrPoolInvalidAssetB = errors.New("invalid asset b")
	// ErrPoolSameAsset is returned when trying to create a pool with identical
	// assets.
	ErrPoolSameAsset = errors.New("pool assets must be different")
	// ErrPoolInvalidAdmin is returned when the admin identity is missing.
	ErrPoolInvalidAdmin = errors.New("invalid admin identity")
	// ErrPoolAlreadyExists is returned when a pool for the pair is already
	// registered.
	ErrPoolAlreadyExists = errors.New("pool already exists")
	// ErrPoolNotFound is returned when no pool matches the given name or pair.
	ErrPoolNotFound = errors.New("pool not found")
	// ErrPoolPaused is returned when depositing or swapping on a paused pool.
	ErrPoolPaused = errors.New("pool is paused")

	// ErrInvalidAmount is returned for zero amounts where a positive one is
	// required.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrSlippageExceeded is returned when the computed amount is below the
	// caller's floor.
	ErrSlippageExceeded = errors.New("slippage limit exceeded")
	// ErrNonProportionalDeposit is reserved: deposits are always trimmed to
	// the pool ratio, so it is never returned.
	ErrNonProportionalDeposit = errors.New("non-proportional deposit")
	// ErrInsufficientLiquidity is returned on zero reserves or supply where a
	// positive value is required, or when a trade would drain a reserve.
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")
	// ErrInvalidSwapAsset is returned when the caller's source and destination
	// assets don't match the requested swap direction.
	ErrInvalidSwapAsset = errors.New("invalid swap asset accounts")
	// ErrInvalidSwapDirection is returned for an unknown swap direction.
	ErrInvalidSwapDirection = errors.New("invalid swap direction")
	// ErrInvalidFee is returned when the protocol fee exceeds the total fee or
	// the total fee is out of range.
	ErrInvalidFee = errors.New("invalid fee configuration")

	// ErrNotAdmin is returned when a privileged operation is not requested by
	// the pool admin.
	ErrNotAdmin = errors.New("caller is not the pool admin")
	// ErrMissingSignature is returned when a required signer didn't prove
	// control of its identity.
	ErrMissingSignature = errors.New("missing required signature")

	// ErrUnknownEventType is returned when parsing an unknown event type.
	ErrUnknownEventType = errors.New("unknown event type")

	// ErrInvalidAccount is returned for malformed account ids or assets.
	ErrInvalidAccount = errors.New("invalid account")
	// ErrAccountNotFound is returned when an account is not in the ledger.
	ErrAccountNotFound = errors.New("account not found")
	// ErrInsufficientBalance is returned when debiting more than an account
	// holds.
	ErrInsufficientBalance = errors.New("insufficient account balance")
	// ErrAccountAssetMismatch is returned when moving an asset into an account
	// that holds a different one.
	ErrAccountAssetMismatch = errors.New("account holds a different asset")
)
