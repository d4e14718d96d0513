package ledger

import (
	"context"
	"math"
	"sync"

	"github.com/mr-tron/base58/base58"
	"golang.org/x/crypto/blake2b"
)

const accountIDPrefix = "mct1"

// MemoryLedger is the in-process ledger of record. Every mutation holds the
// store lock for the full read-modify-write, so concurrent issues and retires
// against the same account serialize and never lose an update.
type MemoryLedger struct {
	mu        sync.RWMutex
	authority string
	accounts  map[string]AccountInfo
}

func NewMemoryLedger(authority string) *MemoryLedger {
	return &MemoryLedger{
		authority: authority,
		accounts:  make(map[string]AccountInfo),
	}
}

// AccountID derives the deterministic account identifier for an owner and
// credit type pair, so one owner holds at most one account per credit type.
func AccountID(owner, creditType string) string {
	h := blake2b.Sum256([]byte(owner + "\x00" + creditType))
	return accountIDPrefix + base58.Encode(h[:])
}

// CreateAccount registers a zero-balance account. Creating an account that
// already exists returns its ID unchanged.
func (l *MemoryLedger) CreateAccount(owner, creditType string) string {
	id := AccountID(owner, creditType)
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.accounts[id]; !ok {
		l.accounts[id] = AccountInfo{ID: id, Owner: owner, CreditType: creditType}
	}
	return id
}

func (l *MemoryLedger) Issue(ctx context.Context, authority, creditType, account string, amount uint64) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if amount == 0 {
		return 0, ErrInvalidAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if authority != l.authority {
		return 0, ErrWrongAuthority
	}
	info, ok := l.accounts[account]
	if !ok {
		return 0, ErrUnknownAccount
	}
	if info.CreditType != creditType {
		return 0, ErrWrongCreditType
	}
	if info.Balance > math.MaxUint64-amount {
		return 0, ErrBalanceOverflow
	}
	info.Balance += amount
	l.accounts[account] = info
	return info.Balance, nil
}

func (l *MemoryLedger) Retire(ctx context.Context, creditType, account string, amount uint64) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if amount == 0 {
		return 0, ErrInvalidAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	info, ok := l.accounts[account]
	if !ok {
		return 0, ErrUnknownAccount
	}
	if info.CreditType != creditType {
		return 0, ErrWrongCreditType
	}
	if info.Balance < amount {
		return 0, ErrInsufficientFunds
	}
	info.Balance -= amount
	l.accounts[account] = info
	return info.Balance, nil
}

func (l *MemoryLedger) Account(ctx context.Context, account string) (AccountInfo, error) {
	if err := ctx.Err(); err != nil {
		return AccountInfo{}, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	info, ok := l.accounts[account]
	if !ok {
		return AccountInfo{}, ErrUnknownAccount
	}
	return info, nil
}
