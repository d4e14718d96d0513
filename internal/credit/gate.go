package credit

import (
	"merit-credit/go-backend/internal/identity"
)

// AuthorityGate is the predicate layer every mutation passes before the
// ledger capability is invoked: signature first, then role. Both checks are
// pure over already-fetched config and account data.
type AuthorityGate struct {
	verifier identity.Verifier
}

func NewAuthorityGate(verifier identity.Verifier) *AuthorityGate {
	return &AuthorityGate{verifier: verifier}
}

// RequireAdmin verifies the request signature and that the signer is the
// configured administrator.
func (g *AuthorityGate) RequireAdmin(record ConfigRecord, req OperationRequest) error {
	if !g.verifier.Verify(req.Signer, req.SigningBytes(record.CreditType), req.Signature) {
		return ErrSignatureInvalid
	}
	if req.Signer != record.Administrator {
		return ErrUnauthorized
	}
	return nil
}

// RequireOwner verifies the request signature and that the signer owns the
// target account. Ownership comes from the ledger's account metadata, which
// is treated as ground truth.
func (g *AuthorityGate) RequireOwner(record ConfigRecord, req OperationRequest, owner string) error {
	if !g.verifier.Verify(req.Signer, req.SigningBytes(record.CreditType), req.Signature) {
		return ErrSignatureInvalid
	}
	if req.Signer == "" || req.Signer != owner {
		return ErrUnauthorized
	}
	return nil
}
