package identity

// DerivedKeys holds the ed25519 key material derived from an operator seed.
type DerivedKeys struct {
	SigningPrivateKey []byte // Ed25519 private key bytes (64)
	SigningPublicKey  []byte // Ed25519 public key bytes (32)
}
