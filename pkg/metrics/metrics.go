// Package metrics defines the shared Prometheus metrics for the carrier
// clients. Both carriers report through the same vectors, distinguished by
// the carrier label, so the metrics live here rather than in the carrier
// packages to avoid duplicate registration.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the default Prometheus registry used by the tracking clients.
// All metrics are automatically registered via promauto.
var Registry = prometheus.DefaultRegisterer

var (
	// RequestsTotal counts carrier requests by carrier and outcome status.
	// Status is the HTTP status code, or one of network_error, decode_error,
	// fault.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shiptrack_requests_total",
		Help: "Total carrier requests by carrier and status",
	}, []string{"carrier", "status"})

	// RequestDuration observes per-payload request duration.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shiptrack_request_duration_seconds",
		Help:    "Carrier request duration in seconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"carrier"})

	// IdentifiersFailedTotal counts tracking numbers the carrier reported
	// no usable data for.
	IdentifiersFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shiptrack_identifiers_failed_total",
		Help: "Total tracking numbers dropped from results by carrier",
	}, []string{"carrier"})

	// BatchFailRate is the failure rate of the most recent batch call.
	BatchFailRate = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "shiptrack_batch_fail_rate",
		Help: "Fraction of identifiers that failed in the last batch",
	}, []string{"carrier"})

	// RecordsSkippedTotal counts responses dropped during normalization
	// because of a malformed or incomplete shape.
	RecordsSkippedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shiptrack_records_skipped_total",
		Help: "Total responses skipped during normalization by carrier",
	}, []string{"carrier"})
)

// Example Prometheus Queries:
//
//   # Carrier request error rate
//   sum by (carrier) (rate(shiptrack_requests_total{status!~"2.."}[5m]))
//
//   # P95 request latency per carrier
//   histogram_quantile(0.95, rate(shiptrack_request_duration_seconds_bucket[5m]))
//
//   # Batches with an elevated failure rate
//   shiptrack_batch_fail_rate > 0.05
