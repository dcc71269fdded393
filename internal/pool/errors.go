package pool

import "errors"

// Every ledger failure is one of these sentinels. Failures are terminal
// for the call and leave state untouched, except the transfer failure
// case documented on Manager.Withdraw.
var (
	ErrInvalidDuration           = errors.New("distribution years must be between 1 and 255")
	ErrInsufficientSeedFunding   = errors.New("initial funding below minimum seed liquidity")
	ErrInsufficientPoolLiquidity = errors.New("withdrawal would breach the pool liquidity floor")
	ErrUnauthorizedDestination   = errors.New("withdrawal destination must match caller")
	ErrNoLiquidity               = errors.New("no principal deposited or reserve too small")
	ErrNoYieldAvailable          = errors.New("per-second yield is zero or principal is empty")
)
