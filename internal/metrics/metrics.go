// Package metrics holds the application's Prometheus collectors.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics exposes counters for failures that are deliberately swallowed.
// Audit writes and post-commit blob cleanup must never fail their parent
// operation, so these counters are the only place those failures surface.
type Metrics struct {
	AuditWriteFailures  prometheus.Counter
	BlobCleanupFailures prometheus.Counter
}

// New creates and registers the collectors on the given registerer.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		AuditWriteFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "docvault_audit_write_failures_total",
			Help: "Audit log writes that failed and were swallowed.",
		}),
		BlobCleanupFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "docvault_blob_cleanup_failures_total",
			Help: "Best-effort blob deletions that failed after the database state was already settled.",
		}),
	}

	for _, c := range []prometheus.Collector{m.AuditWriteFailures, m.BlobCleanupFailures} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// IncAuditWriteFailure increments the counter. A nil receiver is a no-op.
func (m *Metrics) IncAuditWriteFailure() {
	if m != nil {
		m.AuditWriteFailures.Inc()
	}
}

func (m *Metrics) IncBlobCleanupFailure() {
	if m != nil {
		m.BlobCleanupFailures.Inc()
	}
}
