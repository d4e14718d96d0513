package app

import (
	"context"
	"crypto/ed25519"
	"errors"
	"testing"

	"merit-credit/go-backend/internal/bootstrap/creditconfig"
	"merit-credit/go-backend/internal/credit"
	"merit-credit/go-backend/internal/identity"
)

type serviceIdentity struct {
	id   string
	priv ed25519.PrivateKey
}

func newServiceIdentity(t *testing.T, svc *Service, seed string) serviceIdentity {
	t.Helper()
	keys, err := identity.DeriveKeys([]byte(seed))
	if err != nil {
		t.Fatalf("derive keys: %v", err)
	}
	id, err := identity.BuildIdentityID(keys.SigningPublicKey)
	if err != nil {
		t.Fatalf("build identity: %v", err)
	}
	if err := svc.RegisterIdentity(id, keys.SigningPublicKey); err != nil {
		t.Fatalf("register identity: %v", err)
	}
	return serviceIdentity{id: id, priv: keys.SigningPrivateKey}
}

func memoryConfig() creditconfig.Config {
	cfg := creditconfig.DefaultConfig()
	cfg.Credit.AuthoritySeed = "service-test-seed"
	cfg.Credit.CreditType = "merit"
	cfg.Credit.StatePath = ""
	cfg.Credit.StateSecret = ""
	return cfg
}

func TestServiceAwardRedeemFlow(t *testing.T) {
	svc, err := NewService(memoryConfig())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	ctx := context.Background()
	admin := newServiceIdentity(t, svc, "admin-seed")
	user := newServiceIdentity(t, svc, "user-seed")

	if _, err := svc.Initialize(ctx, admin.id, "merit"); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	account, err := svc.CreateAccount(ctx, user.id)
	if err != nil {
		t.Fatalf("create account: %v", err)
	}

	award := credit.OperationRequest{Kind: credit.KindIssue, Signer: admin.id, TargetAccount: account, Amount: 250}
	award.Sign(admin.priv, "merit")
	if balance, err := svc.Award(ctx, award); err != nil || balance != 250 {
		t.Fatalf("award: balance=%d err=%v", balance, err)
	}

	redeem := credit.OperationRequest{Kind: credit.KindRetire, Signer: user.id, TargetAccount: account, Amount: 100}
	redeem.Sign(user.priv, "merit")
	if balance, err := svc.Redeem(ctx, redeem); err != nil || balance != 150 {
		t.Fatalf("redeem: balance=%d err=%v", balance, err)
	}

	if balance, err := svc.Balance(ctx, account); err != nil || balance != 150 {
		t.Fatalf("balance: got=%d err=%v", balance, err)
	}
}

func TestServiceRequiresAuthoritySeed(t *testing.T) {
	cfg := memoryConfig()
	cfg.Credit.AuthoritySeed = "  "
	if _, err := NewService(cfg); err == nil {
		t.Fatal("expected error for missing authority seed")
	}
}

func TestServiceRejectsUnknownLedgerMode(t *testing.T) {
	cfg := memoryConfig()
	cfg.Ledger.Mode = "postgres"
	if _, err := NewService(cfg); err == nil {
		t.Fatal("expected error for unsupported ledger mode")
	}
}

func TestServiceCreateAccountBeforeInitialize(t *testing.T) {
	svc, err := NewService(memoryConfig())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if _, err := svc.CreateAccount(context.Background(), "mc1someone"); !errors.Is(err, credit.ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
}

func TestServiceCreateAccountRemoteModeUnsupported(t *testing.T) {
	cfg := memoryConfig()
	cfg.Ledger.Mode = creditconfig.LedgerModeRemote
	cfg.Ledger.Endpoint = "/ip4/127.0.0.1/tcp/8545"
	svc, err := NewService(cfg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if _, err := svc.CreateAccount(context.Background(), "mc1someone"); !errors.Is(err, ErrAccountCreationUnsupported) {
		t.Fatalf("expected ErrAccountCreationUnsupported, got %v", err)
	}
}
