package identity

import (
	"crypto/ed25519"
	"errors"
	"strings"
	"sync"
)

var (
	ErrInvalidPublicKey = errors.New("invalid signing public key")
	ErrIdentityMismatch = errors.New("identity does not match public key")
)

// Verifier answers whether a signature is valid for a claimed identity.
// Implementations never fail: malformed or unknown input reports false.
type Verifier interface {
	Verify(identity string, message, signature []byte) bool
}

// Directory is the registry of signing public keys the daemon trusts for
// signature checks. Registration is open because IDs are self-certifying:
// a key can only ever be registered under the ID it hashes to.
type Directory struct {
	mu   sync.RWMutex
	keys map[string][]byte
}

func NewDirectory() *Directory {
	return &Directory{keys: make(map[string][]byte)}
}

func (d *Directory) Register(identityID string, signingPublicKey []byte) error {
	identityID = strings.TrimSpace(identityID)
	if len(signingPublicKey) != ed25519.PublicKeySize {
		return ErrInvalidPublicKey
	}
	ok, err := VerifyIdentityID(identityID, signingPublicKey)
	if err != nil {
		return err
	}
	if !ok {
		return ErrIdentityMismatch
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.keys[identityID] = append([]byte(nil), signingPublicKey...)
	return nil
}

func (d *Directory) PublicKey(identityID string) ([]byte, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	key, ok := d.keys[identityID]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), key...), true
}

// Verify implements Verifier. Unregistered identities and malformed
// signatures report false; the method never panics or errors.
func (d *Directory) Verify(identityID string, message, signature []byte) bool {
	if len(signature) != ed25519.SignatureSize {
		return false
	}
	key, ok := d.PublicKey(strings.TrimSpace(identityID))
	if !ok {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(key), message, signature)
}
