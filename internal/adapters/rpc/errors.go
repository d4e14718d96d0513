package rpc

import (
	"errors"

	"merit-credit/go-backend/internal/credit"
	"merit-credit/go-backend/internal/identity"
	"merit-credit/go-backend/internal/ledger"
)

var errInvalidParams = errors.New("invalid params")

func rpcInvalidParams() *rpcError {
	return &rpcError{Code: -32602, Message: "invalid params"}
}

// mapCreditRPCError translates domain sentinels into stable wire codes so
// clients can branch without string matching.
func mapCreditRPCError(err error) *rpcError {
	switch {
	case errors.Is(err, credit.ErrAlreadyInitialized):
		return &rpcError{Code: -32021, Message: "already initialized"}
	case errors.Is(err, credit.ErrNotInitialized):
		return &rpcError{Code: -32022, Message: "not initialized"}
	case errors.Is(err, credit.ErrInvalidAmount):
		return &rpcError{Code: -32023, Message: "invalid amount"}
	case errors.Is(err, credit.ErrSignatureInvalid):
		return &rpcError{Code: -32024, Message: "signature verification failed"}
	case errors.Is(err, credit.ErrUnauthorized):
		return &rpcError{Code: -32025, Message: "unauthorized"}
	case errors.Is(err, credit.ErrCreditTypeMismatch):
		return &rpcError{Code: -32026, Message: "credit type mismatch"}
	case errors.Is(err, credit.ErrInsufficientBalance):
		return &rpcError{Code: -32027, Message: "insufficient balance"}
	case errors.Is(err, ledger.ErrUnknownAccount):
		return &rpcError{Code: -32028, Message: "unknown account"}
	case errors.Is(err, credit.ErrLedgerFailure):
		return &rpcError{Code: -32029, Message: "ledger failure"}
	case errors.Is(err, identity.ErrInvalidPublicKey), errors.Is(err, identity.ErrIdentityMismatch):
		return &rpcError{Code: -32030, Message: err.Error()}
	default:
		return &rpcError{Code: -32000, Message: err.Error()}
	}
}
