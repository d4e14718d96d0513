package credit

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"merit-credit/go-backend/internal/securestore"
)

// ConfigRecord is the singleton deployment record: one credit type, one
// administrator. CreditType is immutable once initialized; Administrator
// changes only through the admin-gated rotation operation.
type ConfigRecord struct {
	Administrator string `json:"administrator"`
	CreditType    string `json:"credit_type"`
	Initialized   bool   `json:"initialized"`
}

type persistedConfigState struct {
	Version int          `json:"version"`
	Record  ConfigRecord `json:"record"`
}

const configStateVersion = 1

// ConfigStore holds the ConfigRecord and snapshots it to an encrypted file
// when persistence is configured. Writes happen only inside Initialize and
// SetAdministrator; everything else is a read.
type ConfigStore struct {
	mu     sync.RWMutex
	record ConfigRecord
	path   string
	secret string
}

func NewConfigStore() *ConfigStore {
	return &ConfigStore{}
}

// Configure enables encrypted persistence. Unconfigured stores are
// memory-only, which the tests and ephemeral deployments rely on.
func (s *ConfigStore) Configure(path, secret string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.path, s.secret = securestore.NormalizeStorageConfig(path, secret)
}

// Bootstrap loads the persisted record if one exists. A missing file is not
// an error; the store simply starts uninitialized.
func (s *ConfigStore) Bootstrap() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !securestore.IsStorageConfigured(s.path, s.secret) {
		return nil
	}
	raw, err := securestore.ReadDecryptedFile(s.path, s.secret)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	var state persistedConfigState
	if err := json.Unmarshal(raw, &state); err != nil {
		return fmt.Errorf("credit config persistence payload is invalid: %w", err)
	}
	if state.Version != configStateVersion {
		return fmt.Errorf("unsupported credit config state version: %d", state.Version)
	}
	s.record = state.Record
	return nil
}

// Initialize creates the record exactly once. The initialized guard, not
// overwrite-and-succeed, is what makes retries fail loudly.
func (s *ConfigStore) Initialize(administrator, creditType string) (ConfigRecord, error) {
	administrator = strings.TrimSpace(administrator)
	creditType = strings.TrimSpace(creditType)
	if administrator == "" {
		return ConfigRecord{}, fmt.Errorf("administrator identity is required")
	}
	if creditType == "" {
		return ConfigRecord{}, fmt.Errorf("credit type is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.record.Initialized {
		return ConfigRecord{}, ErrAlreadyInitialized
	}
	next := ConfigRecord{
		Administrator: administrator,
		CreditType:    creditType,
		Initialized:   true,
	}
	if err := s.persistLocked(next); err != nil {
		return ConfigRecord{}, err
	}
	s.record = next
	return next, nil
}

// Get returns the current record.
func (s *ConfigStore) Get() (ConfigRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.record.Initialized {
		return ConfigRecord{}, ErrNotInitialized
	}
	return s.record, nil
}

// SetAdministrator rotates the administrator identity. Authorization is the
// caller's job; the store only enforces the initialized invariant and that
// the credit type never changes.
func (s *ConfigStore) SetAdministrator(administrator string) (ConfigRecord, error) {
	administrator = strings.TrimSpace(administrator)
	if administrator == "" {
		return ConfigRecord{}, fmt.Errorf("administrator identity is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.record.Initialized {
		return ConfigRecord{}, ErrNotInitialized
	}
	next := s.record
	next.Administrator = administrator
	if err := s.persistLocked(next); err != nil {
		return ConfigRecord{}, err
	}
	s.record = next
	return next, nil
}

func (s *ConfigStore) persistLocked(record ConfigRecord) error {
	if !securestore.IsStorageConfigured(s.path, s.secret) {
		return nil
	}
	return securestore.WriteEncryptedJSON(s.path, s.secret, persistedConfigState{
		Version: configStateVersion,
		Record:  record,
	})
}

// Reset discards in-memory and persisted state. Test helper.
func (s *ConfigStore) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record = ConfigRecord{}
	if securestore.IsStorageConfigured(s.path, s.secret) {
		if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}
