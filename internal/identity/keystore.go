package identity

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"merit-credit/go-backend/internal/securestore"

	"github.com/tyler-smith/go-bip39"
)

var (
	ErrInvalidMnemonic  = errors.New("invalid mnemonic")
	ErrPasswordRequired = errors.New("password is required")
	ErrMnemonicRequired = errors.New("mnemonic is required")
	ErrKeyFileInvalid   = errors.New("key file payload is invalid")
)

const keyFileVersion = 1

type keyFilePayload struct {
	Version  int    `json:"version"`
	Mnemonic string `json:"mnemonic"`
}

// CreateOperatorKey generates a fresh mnemonic and derives its keypair.
func CreateOperatorKey() (mnemonic string, keys *DerivedKeys, err error) {
	entropy, err := bip39.NewEntropy(256)
	if err != nil {
		return "", nil, err
	}
	mnemonic, err = bip39.NewMnemonic(entropy)
	if err != nil {
		return "", nil, err
	}
	keys, err = KeysFromMnemonic(mnemonic)
	if err != nil {
		return "", nil, err
	}
	return mnemonic, keys, nil
}

// KeysFromMnemonic re-derives the operator keypair from a mnemonic.
func KeysFromMnemonic(mnemonic string) (*DerivedKeys, error) {
	mnemonic = strings.TrimSpace(mnemonic)
	if mnemonic == "" {
		return nil, ErrMnemonicRequired
	}
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, ErrInvalidMnemonic
	}
	return DeriveKeys(bip39.NewSeed(mnemonic, ""))
}

// SaveKeyFile writes the mnemonic to an encrypted key file.
func SaveKeyFile(path, password, mnemonic string) error {
	if strings.TrimSpace(password) == "" {
		return ErrPasswordRequired
	}
	mnemonic = strings.TrimSpace(mnemonic)
	if !bip39.IsMnemonicValid(mnemonic) {
		return ErrInvalidMnemonic
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return securestore.WriteEncryptedJSON(path, password, keyFilePayload{
		Version:  keyFileVersion,
		Mnemonic: mnemonic,
	})
}

// LoadKeyFile decrypts a key file and re-derives the operator keypair.
func LoadKeyFile(path, password string) (*DerivedKeys, error) {
	if strings.TrimSpace(password) == "" {
		return nil, ErrPasswordRequired
	}
	raw, err := securestore.ReadDecryptedFile(path, password)
	if err != nil {
		return nil, err
	}
	var payload keyFilePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, ErrKeyFileInvalid
	}
	if payload.Version != keyFileVersion {
		return nil, ErrKeyFileInvalid
	}
	return KeysFromMnemonic(payload.Mnemonic)
}
