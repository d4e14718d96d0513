package credit

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestConfigStoreInitializeSingleShot(t *testing.T) {
	s := NewConfigStore()

	record, err := s.Initialize("mc1admin", "merit")
	if err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	if record.Administrator != "mc1admin" || record.CreditType != "merit" || !record.Initialized {
		t.Fatalf("unexpected record: %+v", record)
	}

	if _, err := s.Initialize("mc1other", "other"); !errors.Is(err, ErrAlreadyInitialized) {
		t.Fatalf("expected ErrAlreadyInitialized, got %v", err)
	}

	got, err := s.Get()
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got != record {
		t.Fatalf("second initialize mutated the record: %+v", got)
	}
}

func TestConfigStoreGetBeforeInitialize(t *testing.T) {
	s := NewConfigStore()
	if _, err := s.Get(); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
}

func TestConfigStoreInitializeValidation(t *testing.T) {
	s := NewConfigStore()
	if _, err := s.Initialize("  ", "merit"); err == nil {
		t.Fatal("expected error for empty administrator")
	}
	if _, err := s.Initialize("mc1admin", ""); err == nil {
		t.Fatal("expected error for empty credit type")
	}
	if _, err := s.Get(); !errors.Is(err, ErrNotInitialized) {
		t.Fatal("rejected initialize left the store initialized")
	}
}

func TestConfigStorePersistenceRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credit-config.enc")

	s := NewConfigStore()
	s.Configure(path, "store-secret")
	if err := s.Bootstrap(); err != nil {
		t.Fatalf("bootstrap on empty dir failed: %v", err)
	}
	if _, err := s.Initialize("mc1admin", "merit"); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}

	reloaded := NewConfigStore()
	reloaded.Configure(path, "store-secret")
	if err := reloaded.Bootstrap(); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	record, err := reloaded.Get()
	if err != nil {
		t.Fatalf("get after reload failed: %v", err)
	}
	if record.Administrator != "mc1admin" || record.CreditType != "merit" {
		t.Fatalf("unexpected reloaded record: %+v", record)
	}

	if _, err := reloaded.Initialize("mc1other", "other"); !errors.Is(err, ErrAlreadyInitialized) {
		t.Fatalf("expected ErrAlreadyInitialized after reload, got %v", err)
	}
}

func TestConfigStoreSetAdministrator(t *testing.T) {
	s := NewConfigStore()

	if _, err := s.SetAdministrator("mc1next"); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}

	if _, err := s.Initialize("mc1admin", "merit"); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	record, err := s.SetAdministrator("mc1next")
	if err != nil {
		t.Fatalf("rotate failed: %v", err)
	}
	if record.Administrator != "mc1next" {
		t.Fatalf("administrator not rotated: %+v", record)
	}
	if record.CreditType != "merit" || !record.Initialized {
		t.Fatalf("rotation touched immutable fields: %+v", record)
	}
}
