package identity

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"merit-credit/go-backend/internal/securestore"
)

func TestOperatorKeyRoundtrip(t *testing.T) {
	mnemonic, keys, err := CreateOperatorKey()
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "operator.key")
	if err := SaveKeyFile(path, "hunter2", mnemonic); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := LoadKeyFile(path, "hunter2")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !bytes.Equal(loaded.SigningPublicKey, keys.SigningPublicKey) {
		t.Fatal("reloaded key does not match the created key")
	}
}

func TestLoadKeyFileWrongPassword(t *testing.T) {
	mnemonic, _, err := CreateOperatorKey()
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	path := filepath.Join(t.TempDir(), "operator.key")
	if err := SaveKeyFile(path, "hunter2", mnemonic); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, err := LoadKeyFile(path, "wrong"); !errors.Is(err, securestore.ErrAuthFailed) {
		t.Fatalf("expected ErrAuthFailed, got %v", err)
	}
}

func TestSaveKeyFileValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "operator.key")
	if err := SaveKeyFile(path, "", "abandon ability able"); !errors.Is(err, ErrPasswordRequired) {
		t.Fatalf("expected ErrPasswordRequired, got %v", err)
	}
	if err := SaveKeyFile(path, "pass", "not a mnemonic"); !errors.Is(err, ErrInvalidMnemonic) {
		t.Fatalf("expected ErrInvalidMnemonic, got %v", err)
	}
}

func TestKeysFromMnemonicValidation(t *testing.T) {
	if _, err := KeysFromMnemonic("   "); !errors.Is(err, ErrMnemonicRequired) {
		t.Fatalf("expected ErrMnemonicRequired, got %v", err)
	}
	if _, err := KeysFromMnemonic("definitely not valid words"); !errors.Is(err, ErrInvalidMnemonic) {
		t.Fatalf("expected ErrInvalidMnemonic, got %v", err)
	}
}
