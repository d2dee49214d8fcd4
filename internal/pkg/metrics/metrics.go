package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Upload outcome label values
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Metrics holds the Prometheus collectors for the upload pipeline.
// All values are derivable from the upload ledger; losing them only
// costs history, never correctness.
type Metrics struct {
	registry *prometheus.Registry

	uploadDuration prometheus.Histogram
	uploadsTotal   *prometheus.CounterVec
	storageBytes   prometheus.Gauge
	healthStatus   prometheus.Gauge
	healthLatency  prometheus.Gauge
}

// New creates and registers the pipeline collectors on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		uploadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cdn_upload_duration_seconds",
			Help:    "End-to-end duration of upload group processing in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		}),
		uploadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cdn_uploads_total",
			Help: "Total number of per-file upload tasks by outcome",
		}, []string{"status"}),
		storageBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cdn_storage_bytes",
			Help: "Total bytes recorded in the upload ledger",
		}),
		healthStatus: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cdn_health_check_status",
			Help: "Result of the last health check (1 healthy, 0 unhealthy)",
		}),
		healthLatency: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cdn_health_check_latency_seconds",
			Help: "Latency of the last health check in seconds",
		}),
	}

	registry.MustRegister(
		m.uploadDuration,
		m.uploadsTotal,
		m.storageBytes,
		m.healthStatus,
		m.healthLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// ObserveUploadDuration records how long a whole upload group took.
func (m *Metrics) ObserveUploadDuration(d time.Duration) {
	m.uploadDuration.Observe(d.Seconds())
}

// IncUploads counts one finished per-file task with the given status.
func (m *Metrics) IncUploads(status string) {
	m.uploadsTotal.WithLabelValues(status).Inc()
}

// SetStorageBytes publishes the ledger's aggregate byte total.
func (m *Metrics) SetStorageBytes(total int64) {
	m.storageBytes.Set(float64(total))
}

// SetHealthCheck publishes the outcome and latency of a health probe.
func (m *Metrics) SetHealthCheck(healthy bool, latency time.Duration) {
	if healthy {
		m.healthStatus.Set(1)
	} else {
		m.healthStatus.Set(0)
	}
	m.healthLatency.Set(latency.Seconds())
}

// Handler returns the HTTP handler serving the registry in the
// Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
