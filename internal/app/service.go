package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"merit-credit/go-backend/internal/bootstrap/creditconfig"
	"merit-credit/go-backend/internal/credit"
	"merit-credit/go-backend/internal/identity"
	"merit-credit/go-backend/internal/ledger"
)

var ErrAccountCreationUnsupported = errors.New("account creation is delegated to the external ledger")

// Service wires the config store, identity directory, ledger backend and
// controller into the surface the RPC adapter consumes.
type Service struct {
	controller *credit.Controller
	store      *credit.ConfigStore
	directory  *identity.Directory
	memory     *ledger.MemoryLedger
	registry   *prometheus.Registry
}

func NewService(cfg creditconfig.Config) (*Service, error) {
	seed := strings.TrimSpace(cfg.Credit.AuthoritySeed)
	if seed == "" {
		return nil, errors.New("credit.authoritySeed is required")
	}

	registry := prometheus.NewRegistry()
	directory := identity.NewDirectory()

	var base ledger.Ledger
	var memory *ledger.MemoryLedger
	switch cfg.Ledger.Mode {
	case creditconfig.LedgerModeMemory, "":
		authority, err := identity.DeriveAuthorityID([]byte(seed), cfg.Credit.CreditType)
		if err != nil {
			return nil, fmt.Errorf("derive issuance authority: %w", err)
		}
		memory = ledger.NewMemoryLedger(authority)
		base = memory
	case creditconfig.LedgerModeRemote:
		remote, err := ledger.NewRemoteLedger(cfg.Ledger.Endpoint, cfg.Ledger.Token)
		if err != nil {
			return nil, fmt.Errorf("remote ledger: %w", err)
		}
		base = remote
	default:
		return nil, fmt.Errorf("unsupported ledger mode %q", cfg.Ledger.Mode)
	}

	store := credit.NewConfigStore()
	if cfg.Credit.StatePath != "" && cfg.Credit.StateSecret != "" {
		store.Configure(cfg.Credit.StatePath, cfg.Credit.StateSecret)
		if err := store.Bootstrap(); err != nil {
			return nil, fmt.Errorf("load persisted credit config: %w", err)
		}
	}

	controller := credit.NewController(
		store,
		credit.NewAuthorityGate(directory),
		ledger.NewInstrumentedLedger(base, registry),
		[]byte(seed),
	)

	return &Service{
		controller: controller,
		store:      store,
		directory:  directory,
		memory:     memory,
		registry:   registry,
	}, nil
}

// Registry exposes the metrics registry for the HTTP /metrics endpoint.
func (s *Service) Registry() *prometheus.Registry {
	return s.registry
}

func (s *Service) Initialize(ctx context.Context, administrator, creditType string) (credit.ConfigRecord, error) {
	return s.controller.Initialize(ctx, administrator, creditType)
}

func (s *Service) Award(ctx context.Context, req credit.OperationRequest) (uint64, error) {
	return s.controller.Award(ctx, req)
}

func (s *Service) Redeem(ctx context.Context, req credit.OperationRequest) (uint64, error) {
	return s.controller.Redeem(ctx, req)
}

func (s *Service) RotateAdministrator(ctx context.Context, req credit.OperationRequest) (credit.ConfigRecord, error) {
	return s.controller.RotateAdministrator(ctx, req)
}

func (s *Service) Balance(ctx context.Context, account string) (uint64, error) {
	return s.controller.Balance(ctx, account)
}

func (s *Service) Config() (credit.ConfigRecord, error) {
	return s.controller.Config()
}

func (s *Service) RegisterIdentity(identityID string, publicKey []byte) error {
	return s.directory.Register(identityID, publicKey)
}

// CreateAccount opens a balance account in the in-process ledger. When the
// daemon fronts a remote ledger, accounts are provisioned there instead.
func (s *Service) CreateAccount(ctx context.Context, owner string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return "", errors.New("owner identity is required")
	}
	if s.memory == nil {
		return "", ErrAccountCreationUnsupported
	}
	record, err := s.store.Get()
	if err != nil {
		return "", err
	}
	return s.memory.CreateAccount(owner, record.CreditType), nil
}
