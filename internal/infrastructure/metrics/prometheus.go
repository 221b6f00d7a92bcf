// Package metrics exposes issuance and verification counters to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	certificatesIssuedCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "certify_certificates_issued_total",
		Help: "Total number of certificates committed to the store",
	})

	batchesCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "certify_issuance_batches_total",
		Help: "Issuance batches by outcome",
	}, []string{"outcome"}) // outcome: issued, invalid, failed, unavailable

	idCollisionCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "certify_id_collisions_total",
		Help: "Batch commits retried because a generated id already existed",
	})

	verificationCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "certify_verifications_total",
		Help: "Verification requests by method and result",
	}, []string{"method", "result"})
)

// Reporter receives engine events. Implementations must be safe for concurrent use.
type Reporter interface {
	RecordBatch(outcome string, issued int)
	RecordIDCollision()
	RecordVerification(method, result string)
}

// PrometheusReporter implements Reporter with process-wide collectors.
type PrometheusReporter struct{}

func NewPrometheusReporter() *PrometheusReporter {
	return &PrometheusReporter{}
}

func (PrometheusReporter) RecordBatch(outcome string, issued int) {
	batchesCounter.WithLabelValues(outcome).Inc()
	if issued > 0 {
		certificatesIssuedCounter.Add(float64(issued))
	}
}

func (PrometheusReporter) RecordIDCollision() {
	idCollisionCounter.Inc()
}

func (PrometheusReporter) RecordVerification(method, result string) {
	verificationCounter.WithLabelValues(method, result).Inc()
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordBatch(string, int) {}

func (Nop) RecordIDCollision() {}

func (Nop) RecordVerification(string, string) {}
