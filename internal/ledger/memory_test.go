package ledger

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
)

func TestMemoryLedgerIssueRetireFlow(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLedger("mca1authority")
	account := l.CreateAccount("mc1owner", "merit")

	balance, err := l.Issue(ctx, "mca1authority", "merit", account, 500)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if balance != 500 {
		t.Fatalf("unexpected balance after issue: got=%d want=500", balance)
	}

	balance, err = l.Retire(ctx, "merit", account, 500)
	if err != nil {
		t.Fatalf("retire failed: %v", err)
	}
	if balance != 0 {
		t.Fatalf("unexpected balance after retire: got=%d want=0", balance)
	}

	if _, err := l.Retire(ctx, "merit", account, 1); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
}

func TestMemoryLedgerRejections(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLedger("mca1authority")
	account := l.CreateAccount("mc1owner", "merit")

	cases := []struct {
		name string
		call func() error
		want error
	}{
		{
			name: "zero amount issue",
			call: func() error { _, err := l.Issue(ctx, "mca1authority", "merit", account, 0); return err },
			want: ErrInvalidAmount,
		},
		{
			name: "zero amount retire",
			call: func() error { _, err := l.Retire(ctx, "merit", account, 0); return err },
			want: ErrInvalidAmount,
		},
		{
			name: "wrong authority",
			call: func() error { _, err := l.Issue(ctx, "mca1other", "merit", account, 1); return err },
			want: ErrWrongAuthority,
		},
		{
			name: "wrong credit type issue",
			call: func() error { _, err := l.Issue(ctx, "mca1authority", "other", account, 1); return err },
			want: ErrWrongCreditType,
		},
		{
			name: "wrong credit type retire",
			call: func() error { _, err := l.Retire(ctx, "other", account, 1); return err },
			want: ErrWrongCreditType,
		},
		{
			name: "unknown account issue",
			call: func() error { _, err := l.Issue(ctx, "mca1authority", "merit", "mct1missing", 1); return err },
			want: ErrUnknownAccount,
		},
		{
			name: "unknown account retire",
			call: func() error { _, err := l.Retire(ctx, "merit", "mct1missing", 1); return err },
			want: ErrUnknownAccount,
		},
		{
			name: "unknown account lookup",
			call: func() error { _, err := l.Account(ctx, "mct1missing"); return err },
			want: ErrUnknownAccount,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.call(); !errors.Is(err, tc.want) {
				t.Fatalf("unexpected error: got=%v want=%v", err, tc.want)
			}
		})
	}

	info, err := l.Account(ctx, account)
	if err != nil {
		t.Fatalf("account lookup failed: %v", err)
	}
	if info.Balance != 0 {
		t.Fatalf("rejected calls mutated the balance: %d", info.Balance)
	}
}

func TestMemoryLedgerOverflowGuard(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLedger("mca1authority")
	account := l.CreateAccount("mc1owner", "merit")

	if _, err := l.Issue(ctx, "mca1authority", "merit", account, math.MaxUint64); err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := l.Issue(ctx, "mca1authority", "merit", account, 1); !errors.Is(err, ErrBalanceOverflow) {
		t.Fatalf("expected ErrBalanceOverflow, got %v", err)
	}
}

func TestMemoryLedgerConcurrentIssuesDoNotLoseUpdates(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLedger("mca1authority")
	account := l.CreateAccount("mc1owner", "merit")

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers * 2)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			if _, err := l.Issue(ctx, "mca1authority", "merit", account, 100); err != nil {
				t.Errorf("issue failed: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := l.Issue(ctx, "mca1authority", "merit", account, 50); err != nil {
				t.Errorf("issue failed: %v", err)
			}
		}()
	}
	wg.Wait()

	info, err := l.Account(ctx, account)
	if err != nil {
		t.Fatalf("account lookup failed: %v", err)
	}
	if want := uint64(workers * 150); info.Balance != want {
		t.Fatalf("lost update: got=%d want=%d", info.Balance, want)
	}
}

func TestAccountIDDeterministic(t *testing.T) {
	a := AccountID("mc1owner", "merit")
	b := AccountID("mc1owner", "merit")
	if a != b {
		t.Fatalf("account id not deterministic: %q != %q", a, b)
	}
	if AccountID("mc1owner", "other") == a {
		t.Fatal("distinct credit types map to the same account id")
	}
	if AccountID("mc1other", "merit") == a {
		t.Fatal("distinct owners map to the same account id")
	}
}

func TestMemoryLedgerCreateAccountIdempotent(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLedger("mca1authority")
	account := l.CreateAccount("mc1owner", "merit")
	if _, err := l.Issue(ctx, "mca1authority", "merit", account, 10); err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if again := l.CreateAccount("mc1owner", "merit"); again != account {
		t.Fatalf("create returned a different id: %q != %q", again, account)
	}
	info, err := l.Account(ctx, account)
	if err != nil {
		t.Fatalf("account lookup failed: %v", err)
	}
	if info.Balance != 10 {
		t.Fatalf("re-create reset the balance: %d", info.Balance)
	}
}
