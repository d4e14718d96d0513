package credit

import (
	"context"
	"errors"
	"fmt"

	"merit-credit/go-backend/internal/identity"
	"merit-credit/go-backend/internal/ledger"
)

// Controller front-ends the credit ledger with authority-gated issuance and
// retirement. It owns no balances: every mutation is a single capability
// invocation against the injected ledger, gated first, so a failed call
// leaves nothing to roll back. The issuance authority is derived from the
// deployment seed and the configured credit type; no private key backs it.
type Controller struct {
	store         *ConfigStore
	gate          *AuthorityGate
	ledger        ledger.Ledger
	authoritySeed []byte
}

func NewController(store *ConfigStore, gate *AuthorityGate, l ledger.Ledger, authoritySeed []byte) *Controller {
	return &Controller{
		store:         store,
		gate:          gate,
		ledger:        l,
		authoritySeed: append([]byte(nil), authoritySeed...),
	}
}

// AuthorityID reports the issuance authority the controller presents to the
// ledger for the given credit type.
func (c *Controller) AuthorityID(creditType string) (string, error) {
	return identity.DeriveAuthorityID(c.authoritySeed, creditType)
}

// Initialize creates the deployment record. Exactly one call succeeds per
// store lifetime; the rest fail ErrAlreadyInitialized.
func (c *Controller) Initialize(ctx context.Context, administrator, creditType string) (ConfigRecord, error) {
	if err := ctx.Err(); err != nil {
		return ConfigRecord{}, err
	}
	return c.store.Initialize(administrator, creditType)
}

// Award issues credit to the target account. Administrator authority only;
// at most one issuance attempt per call.
func (c *Controller) Award(ctx context.Context, req OperationRequest) (uint64, error) {
	if req.Kind != KindIssue {
		return 0, fmt.Errorf("award requires an issue request, got %q", req.Kind)
	}
	if req.Amount <= 0 {
		return 0, ErrInvalidAmount
	}
	record, err := c.store.Get()
	if err != nil {
		return 0, err
	}
	if err := c.gate.RequireAdmin(record, req); err != nil {
		return 0, err
	}

	info, err := c.ledger.Account(ctx, req.TargetAccount)
	if err != nil {
		return 0, wrapLedgerFailure("account lookup", err)
	}
	if info.CreditType != record.CreditType {
		return 0, ErrCreditTypeMismatch
	}

	authorityID, err := identity.DeriveAuthorityID(c.authoritySeed, record.CreditType)
	if err != nil {
		return 0, fmt.Errorf("derive issuance authority: %w", err)
	}
	balance, err := c.ledger.Issue(ctx, authorityID, record.CreditType, req.TargetAccount, uint64(req.Amount))
	if err != nil {
		return 0, mapLedgerErr("issue", err)
	}
	return balance, nil
}

// Redeem retires credit from the signer's own account. The ledger is the
// sole authority on sufficiency of funds.
func (c *Controller) Redeem(ctx context.Context, req OperationRequest) (uint64, error) {
	if req.Kind != KindRetire {
		return 0, fmt.Errorf("redeem requires a retire request, got %q", req.Kind)
	}
	if req.Amount <= 0 {
		return 0, ErrInvalidAmount
	}
	record, err := c.store.Get()
	if err != nil {
		return 0, err
	}

	info, err := c.ledger.Account(ctx, req.TargetAccount)
	if err != nil {
		return 0, wrapLedgerFailure("account lookup", err)
	}
	if err := c.gate.RequireOwner(record, req, info.Owner); err != nil {
		return 0, err
	}
	if info.CreditType != record.CreditType {
		return 0, ErrCreditTypeMismatch
	}

	balance, err := c.ledger.Retire(ctx, record.CreditType, req.TargetAccount, uint64(req.Amount))
	if err != nil {
		return 0, mapLedgerErr("retire", err)
	}
	return balance, nil
}

// RotateAdministrator hands the administrator role to a new identity. Only
// the current administrator may rotate.
func (c *Controller) RotateAdministrator(ctx context.Context, req OperationRequest) (ConfigRecord, error) {
	if req.Kind != KindRotateAdmin {
		return ConfigRecord{}, fmt.Errorf("rotation requires a rotate_admin request, got %q", req.Kind)
	}
	if err := ctx.Err(); err != nil {
		return ConfigRecord{}, err
	}
	record, err := c.store.Get()
	if err != nil {
		return ConfigRecord{}, err
	}
	if err := c.gate.RequireAdmin(record, req); err != nil {
		return ConfigRecord{}, err
	}
	return c.store.SetAdministrator(req.NewAdministrator)
}

// Balance reads the target account's balance through the ledger capability.
func (c *Controller) Balance(ctx context.Context, account string) (uint64, error) {
	info, err := c.ledger.Account(ctx, account)
	if err != nil {
		return 0, wrapLedgerFailure("account lookup", err)
	}
	return info.Balance, nil
}

// Config returns the current deployment record.
func (c *Controller) Config() (ConfigRecord, error) {
	return c.store.Get()
}

func mapLedgerErr(op string, err error) error {
	if errors.Is(err, ledger.ErrInsufficientFunds) {
		return ErrInsufficientBalance
	}
	return wrapLedgerFailure(op, err)
}
