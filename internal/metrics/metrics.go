package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	// HTTP metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	// Pipeline metrics
	filesImported  *prometheus.CounterVec
	tradesRebuilt  prometheus.Counter
	groupsDropped  *prometheus.CounterVec
	importDuration prometheus.Histogram
	reportsTotal   *prometheus.CounterVec
	sessionsActive prometheus.Gauge
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	// Register Go runtime metrics
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),

		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		httpRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently in flight",
			},
		),
	}

	reg.MustRegister(r.httpRequestsTotal)
	reg.MustRegister(r.httpRequestDuration)
	reg.MustRegister(r.httpRequestsInFlight)

	// Pipeline metrics
	r.filesImported = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "traderstats_files_imported_total",
			Help: "Total number of export files processed",
		},
		[]string{"status"},
	)
	r.tradesRebuilt = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "traderstats_trades_reconstructed_total",
			Help: "Total number of completed trades reconstructed",
		},
	)
	r.groupsDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "traderstats_groups_dropped_total",
			Help: "Total number of row groups that produced no trade",
		},
		[]string{"reason"},
	)
	r.importDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "traderstats_import_duration_seconds",
			Help:    "Import duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		},
	)
	r.reportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "traderstats_reports_total",
			Help: "Total number of reports built",
		},
		[]string{"scope"},
	)
	r.sessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "traderstats_sessions_active",
			Help: "Number of live API sessions",
		},
	)

	reg.MustRegister(r.filesImported)
	reg.MustRegister(r.tradesRebuilt)
	reg.MustRegister(r.groupsDropped)
	reg.MustRegister(r.importDuration)
	reg.MustRegister(r.reportsTotal)
	reg.MustRegister(r.sessionsActive)

	return r
}

// RecordRequest records metrics for an HTTP request.
func (r *Registry) RecordRequest(method, path string, status int, duration float64) {
	statusStr := statusToString(status)
	r.httpRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	r.httpRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// InFlightInc increments in-flight requests.
func (r *Registry) InFlightInc() {
	r.httpRequestsInFlight.Inc()
}

// InFlightDec decrements in-flight requests.
func (r *Registry) InFlightDec() {
	r.httpRequestsInFlight.Dec()
}

// RecordFile records one processed export file ("accepted" or "rejected").
func (r *Registry) RecordFile(status string) {
	r.filesImported.WithLabelValues(status).Inc()
}

// RecordImport records a completed import.
func (r *Registry) RecordImport(trades int, dropped map[string]int, duration float64) {
	r.tradesRebuilt.Add(float64(trades))
	for reason, n := range dropped {
		r.groupsDropped.WithLabelValues(reason).Add(float64(n))
	}
	r.importDuration.Observe(duration)
}

// RecordReport records a built report by scope kind ("all" or "month").
func (r *Registry) RecordReport(scope string) {
	r.reportsTotal.WithLabelValues(scope).Inc()
}

// SetSessionsActive sets the number of live sessions.
func (r *Registry) SetSessionsActive(count int) {
	r.sessionsActive.Set(float64(count))
}

func statusToString(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}
