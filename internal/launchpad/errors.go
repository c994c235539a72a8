package launchpad

import "errors"

var (
	ErrSaleNotFound         = errors.New("launchpad not found")
	ErrSaleNotActive        = errors.New("launchpad is not active")
	ErrInsufficientTokens   = errors.New("insufficient tokens")
	ErrMathOverflow         = errors.New("math overflow occurred")
	ErrMintMismatch         = errors.New("token mint does not match launchpad")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrInvalidSaleName      = errors.New("invalid sale name")
	ErrInvalidPrice         = errors.New("token price must be positive")
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrReferenceMintMissing = errors.New("reference mint not initialized")
	ErrPaymentVaultTaken    = errors.New("payment vault belongs to another sale")
	ErrInvalidRecord        = errors.New("invalid sale record")
	ErrUnknownInstruction   = errors.New("unknown instruction")
)
