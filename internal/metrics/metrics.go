// Prometheus collectors for refreshes, node activity, sessions and HTTP traffic
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"forestwatch-sim/internal/sim"
	"forestwatch-sim/internal/telemetry"
)

// Metrics owns a private registry so several instances can coexist in tests.
// It also acts as a node writer: every exported row and snapshot updates it.
type Metrics struct {
	registry          *prometheus.Registry
	refreshesTotal    prometheus.Counter
	activityTotal     *prometheus.CounterVec
	activeSessions    prometheus.Gauge
	summaryGauge      *prometheus.GaugeVec
	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		refreshesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "forestwatch_refreshes_total",
			Help: "Total refresh triggers processed across all sessions.",
		}),
		activityTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "forestwatch_node_activity_total",
			Help: "Exported node rows by activity status.",
		}, []string{"activity"}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "forestwatch_sessions_active",
			Help: "Number of live dashboard sessions.",
		}),
		summaryGauge: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "forestwatch_summary",
			Help: "Summary counters of the most recent snapshot by metric.",
		}, []string{"metric"}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
	m.registry.MustRegister(
		m.refreshesTotal,
		m.activityTotal,
		m.activeSessions,
		m.summaryGauge,
		m.httpRequestsTotal,
		m.httpDuration,
	)
	return m
}

// Write counts an exported row by activity.
func (m *Metrics) Write(row telemetry.NodeRow) error {
	if m == nil {
		return nil
	}
	m.activityTotal.WithLabelValues(row.Activity).Inc()
	return nil
}

// WriteSnapshot records the snapshot's summary. Seed snapshots do not count
// as refreshes.
func (m *Metrics) WriteSnapshot(snap sim.Snapshot) error {
	if m == nil {
		return nil
	}
	if snap.Refreshes > 0 {
		m.refreshesTotal.Inc()
	}
	for _, metric := range snap.Summary.Metrics() {
		m.summaryGauge.WithLabelValues(metric.Label).Set(float64(metric.Value))
	}
	return nil
}

// SetSessions updates the live session gauge.
func (m *Metrics) SetSessions(n int) {
	if m == nil {
		return
	}
	m.activeSessions.Set(float64(n))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// WrapHandler records request counts and latency for route.
func (m *Metrics) WrapHandler(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(recorder, r)

		if m != nil {
			m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
			m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		}
	})
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
