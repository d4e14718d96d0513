package credit

import (
	"errors"
	"fmt"
)

// The operation error taxonomy. Every controller call returns either a new
// balance or exactly one of these; validation failures never reach the
// ledger and ledger failures are wrapped, not reinterpreted.
var (
	ErrAlreadyInitialized  = errors.New("credit config is already initialized")
	ErrNotInitialized      = errors.New("credit config is not initialized")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrSignatureInvalid    = errors.New("request signature is invalid")
	ErrUnauthorized        = errors.New("signer is not authorized")
	ErrCreditTypeMismatch  = errors.New("account credit type does not match configured credit type")
	ErrInsufficientBalance = errors.New("account balance is insufficient")
	ErrLedgerFailure       = errors.New("ledger operation failed")
)

func wrapLedgerFailure(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrLedgerFailure, op, err)
}
