package credit

import (
	"crypto/ed25519"
	"encoding/binary"
)

type OperationKind string

const (
	KindIssue       OperationKind = "issue"
	KindRetire      OperationKind = "retire"
	KindRotateAdmin OperationKind = "rotate_admin"
)

// OperationRequest is the transient, signed payload for one privileged
// operation. It is never persisted; the signature covers the canonical
// encoding from SigningBytes bound to the deployment's credit type.
type OperationRequest struct {
	Kind             OperationKind
	Signer           string
	Signature        []byte
	TargetAccount    string
	Amount           int64
	Nonce            string
	NewAdministrator string
}

const signingDomain = "merit-credit/op/v1"

// SigningBytes returns the canonical, deterministic byte encoding the signer
// commits to. Field order is fixed; fields are separated by NUL so no two
// distinct requests share an encoding.
func (r OperationRequest) SigningBytes(creditType string) []byte {
	amount := make([]byte, 8)
	binary.BigEndian.PutUint64(amount, uint64(r.Amount))

	b := make([]byte, 0,
		len(signingDomain)+len(r.Kind)+len(r.Signer)+len(r.TargetAccount)+
			len(creditType)+len(r.Nonce)+len(r.NewAdministrator)+len(amount)+7)
	b = append(b, []byte(signingDomain)...)
	b = append(b, 0)
	b = append(b, []byte(r.Kind)...)
	b = append(b, 0)
	b = append(b, []byte(r.Signer)...)
	b = append(b, 0)
	b = append(b, []byte(r.TargetAccount)...)
	b = append(b, 0)
	b = append(b, []byte(creditType)...)
	b = append(b, 0)
	b = append(b, []byte(r.Nonce)...)
	b = append(b, 0)
	b = append(b, []byte(r.NewAdministrator)...)
	b = append(b, 0)
	b = append(b, amount...)
	return b
}

// Sign fills in the request signature for the given credit type binding.
func (r *OperationRequest) Sign(privateKey ed25519.PrivateKey, creditType string) {
	r.Signature = ed25519.Sign(privateKey, r.SigningBytes(creditType))
}
