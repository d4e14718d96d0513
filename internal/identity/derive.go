package identity

import (
	"crypto/ed25519"
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/mr-tron/base58/base58"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/hkdf"
)

const (
	hkdfInfoSigning   = "merit-credit/identity/signing/v1"
	hkdfInfoAuthority = "merit-credit/issuance-authority/v1/"

	authorityIDPrefix = "mca1"
)

// DeriveKeys derives the operator signing keypair from a seed.
func DeriveKeys(seedBytes []byte) (*DerivedKeys, error) {
	signingSeed, err := hkdfExpand(seedBytes, hkdfInfoSigning, ed25519.SeedSize)
	if err != nil {
		return nil, err
	}
	signingPriv := ed25519.NewKeyFromSeed(signingSeed)
	signingPub := signingPriv.Public().(ed25519.PublicKey)

	return &DerivedKeys{
		SigningPrivateKey: signingPriv,
		SigningPublicKey:  signingPub,
	}, nil
}

// DeriveAuthorityID maps a deployment seed and credit type to the issuance
// authority identifier. The derivation is a pure function with no associated
// secret: holding the seed grants nothing, and authority is verified by the
// ledger comparing its configured authority against this identifier.
func DeriveAuthorityID(seed []byte, creditType string) (string, error) {
	if len(seed) == 0 {
		return "", fmt.Errorf("authority seed is empty")
	}
	if creditType == "" {
		return "", fmt.Errorf("credit type is empty")
	}
	material, err := hkdfExpand(seed, hkdfInfoAuthority+creditType, 32)
	if err != nil {
		return "", err
	}
	h := blake2b.Sum256(material)
	return authorityIDPrefix + base58.Encode(h[:]), nil
}

func hkdfExpand(seed []byte, info string, outLen int) ([]byte, error) {
	reader := hkdf.New(sha256.New, seed, nil, []byte(info))
	out := make([]byte, outLen)
	if _, err := io.ReadFull(reader, out); err != nil {
		return nil, err
	}
	return out, nil
}
