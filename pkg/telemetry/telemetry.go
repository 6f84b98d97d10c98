// Package telemetry exposes sync-engine metrics for Prometheus
// scraping during long-lived sessions (the watch view). It observes the
// transport and the notification bus without either depending on it:
// Metrics implements apiclient.Observer and notify.Hook.
package telemetry

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/reconsole/reconsole/pkg/duration"
	"github.com/reconsole/reconsole/pkg/notify"
)

// Metrics holds the engine's instrument set on a private registry, so
// embedding applications never see collector name collisions.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal      *prometheus.CounterVec
	notificationsTotal *prometheus.CounterVec
	scanProgress       *prometheus.GaugeVec
}

// New creates the instrument set.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "reconsole",
		Name:      "requests_total",
		Help:      "API requests by method and outcome (ok, http_error, auth_reject, network_error).",
	}, []string{"method", "outcome"})

	m.notificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "reconsole",
		Name:      "notifications_total",
		Help:      "Notifications published, by kind.",
	}, []string{"kind"})

	m.scanProgress = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "reconsole",
		Name:      "scan_progress_percent",
		Help:      "Last observed progress of a watched scan.",
	}, []string{"scan_id"})

	m.registry.MustRegister(m.requestsTotal, m.notificationsTotal, m.scanProgress)
	return m
}

// ObserveRequest implements apiclient.Observer.
func (m *Metrics) ObserveRequest(method, outcome string) {
	m.requestsTotal.WithLabelValues(method, outcome).Inc()
}

// OnNotification implements notify.Hook.
func (m *Metrics) OnNotification(n notify.Notification) {
	m.notificationsTotal.WithLabelValues(string(n.Kind)).Inc()
}

// SetScanProgress records the last observed progress for a scan.
func (m *Metrics) SetScanProgress(scanID, progress int) {
	m.scanProgress.WithLabelValues(fmt.Sprintf("%d", scanID)).Set(float64(progress))
}

// Handler returns the scrape handler for the private registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Server is a scrape endpoint bound to one Metrics set.
type Server struct {
	srv    *http.Server
	mu     sync.Mutex
	closed bool
}

// Serve starts an HTTP server exposing /metrics on port. It returns as
// soon as the listener goroutine is launched; Close shuts it down.
func (m *Metrics) Serve(port int) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	s := &Server{
		srv: &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      mux,
			ReadTimeout:  duration.MetricsRead,
			WriteTimeout: duration.MetricsWrite,
		},
	}
	go s.srv.ListenAndServe() //nolint:errcheck // shutdown error surfaces via Close
	return s
}

// Close shuts the scrape server down gracefully. Safe to call twice.
func (s *Server) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), duration.MetricsShutdown)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
