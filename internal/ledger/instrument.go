package ledger

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// InstrumentedLedger wraps a Ledger with prometheus call counters and
// latency observations. Outcome labels are "ok" or "error".
type InstrumentedLedger struct {
	next    Ledger
	calls   *prometheus.CounterVec
	latency *prometheus.HistogramVec
}

func NewInstrumentedLedger(next Ledger, reg prometheus.Registerer) *InstrumentedLedger {
	factory := promauto.With(reg)
	return &InstrumentedLedger{
		next: next,
		calls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "merit_ledger_calls_total",
			Help: "Ledger capability invocations by operation and outcome.",
		}, []string{"op", "outcome"}),
		latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "merit_ledger_call_seconds",
			Help:    "Ledger capability invocation latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
	}
}

func (l *InstrumentedLedger) Issue(ctx context.Context, authority, creditType, account string, amount uint64) (uint64, error) {
	started := time.Now()
	balance, err := l.next.Issue(ctx, authority, creditType, account, amount)
	l.observe("issue", started, err)
	return balance, err
}

func (l *InstrumentedLedger) Retire(ctx context.Context, creditType, account string, amount uint64) (uint64, error) {
	started := time.Now()
	balance, err := l.next.Retire(ctx, creditType, account, amount)
	l.observe("retire", started, err)
	return balance, err
}

func (l *InstrumentedLedger) Account(ctx context.Context, account string) (AccountInfo, error) {
	started := time.Now()
	info, err := l.next.Account(ctx, account)
	l.observe("account", started, err)
	return info, err
}

func (l *InstrumentedLedger) observe(op string, started time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	l.calls.WithLabelValues(op, outcome).Inc()
	l.latency.WithLabelValues(op).Observe(time.Since(started).Seconds())
}
