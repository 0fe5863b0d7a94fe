package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes counters/histograms for the HTTP surface and back-office operations.
type Metrics struct {
	requestCount    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errorCount      *prometheus.CounterVec
	exportCount     *prometheus.CounterVec
	actionCount     *prometheus.CounterVec
}

// NewMetrics registers the collectors on reg, or the default registerer when nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requestCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "backoffice",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests by route, method and status",
		}, []string{"route", "method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "backoffice",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latency of HTTP requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		errorCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "backoffice",
			Subsystem: "http",
			Name:      "errors_total",
			Help:      "Total error responses by route, method and error code",
		}, []string{"route", "method", "code"}),
		exportCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "backoffice",
			Subsystem: "reporting",
			Name:      "csv_exports_total",
			Help:      "Total CSV exports by kind",
		}, []string{"kind"}),
		actionCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "backoffice",
			Subsystem: "licenses",
			Name:      "actions_total",
			Help:      "Total license actions by scope (single or bulk), action and outcome",
		}, []string{"scope", "action", "outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requestCount, m.requestDuration, m.errorCount, m.exportCount, m.actionCount)
	return m
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestCount.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	m.errorCount.WithLabelValues(route, method, code).Inc()
}

// RecordExport counts a CSV export of the given kind.
func (m *Metrics) RecordExport(kind string) {
	if m == nil {
		return
	}
	m.exportCount.WithLabelValues(kind).Inc()
}

// RecordBulkAction counts the outcome of an action run over a selection.
func (m *Metrics) RecordBulkAction(action, outcome string) {
	m.recordAction("bulk", action, outcome)
}

// RecordLicenseAction counts the outcome of an action on one license.
func (m *Metrics) RecordLicenseAction(action, outcome string) {
	m.recordAction("single", action, outcome)
}

func (m *Metrics) recordAction(scope, action, outcome string) {
	if m == nil {
		return
	}
	m.actionCount.WithLabelValues(scope, action, outcome).Inc()
}
