// Package ledger defines the credit ledger capability consumed by the
// controller and the adapters that implement it. The ledger is the single
// source of truth for balances and for the atomicity of balance mutations.
package ledger

import (
	"context"
	"errors"
)

var (
	ErrInvalidAmount     = errors.New("ledger amount must be positive")
	ErrUnknownAccount    = errors.New("ledger account does not exist")
	ErrInsufficientFunds = errors.New("ledger account balance is insufficient")
	ErrWrongAuthority    = errors.New("issuance authority mismatch")
	ErrWrongCreditType   = errors.New("credit type mismatch for account")
	ErrBalanceOverflow   = errors.New("ledger balance overflow")
)

// AccountInfo is the ledger's metadata for one credit account. Ownership
// recorded here is ground truth for the controller's owner checks.
type AccountInfo struct {
	ID         string `json:"id"`
	Owner      string `json:"owner"`
	CreditType string `json:"credit_type"`
	Balance    uint64 `json:"balance"`
}

// Ledger is the narrow capability surface granted to the controller.
// Issue and Retire are atomic read-modify-write operations; both reject a
// zero amount defensively even though callers filter it first.
type Ledger interface {
	Issue(ctx context.Context, authority, creditType, account string, amount uint64) (uint64, error)
	Retire(ctx context.Context, creditType, account string, amount uint64) (uint64, error)
	Account(ctx context.Context, account string) (AccountInfo, error)
}
