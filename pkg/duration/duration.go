// Package duration provides canonical time constants for the entire
// codebase. Reference these instead of hardcoding time.Duration values
// so polling cadence and timeouts stay consistent across packages.
package duration

import "time"

// HTTP client timeouts.
const (
	// HTTPRequest is the default total timeout for API calls (30s).
	HTTPRequest = 30 * time.Second

	// HTTPDownload is the timeout for report downloads, which can be
	// multi-megabyte PDFs on slow links (5min).
	HTTPDownload = 5 * time.Minute

	// DialTimeout bounds TCP connection establishment (10s).
	DialTimeout = 10 * time.Second

	// TLSHandshakeTimeout bounds the TLS handshake (10s).
	TLSHandshakeTimeout = 10 * time.Second

	// IdleConnTimeout is how long idle connections stay pooled (90s).
	IdleConnTimeout = 90 * time.Second
)

// Polling and UI refresh intervals.
const (
	// PollInterval is the cadence of scan snapshot refreshes while a
	// scan is under observation (2s, the cadence the backend was
	// built against).
	PollInterval = 2 * time.Second

	// SpinnerFrame is the watch-view spinner redraw rate (100ms).
	SpinnerFrame = 100 * time.Millisecond
)

// Metrics server timeouts (watch --metrics-port).
const (
	// MetricsRead bounds reading a scrape request (5s).
	MetricsRead = 5 * time.Second

	// MetricsWrite bounds writing a scrape response (10s).
	MetricsWrite = 10 * time.Second

	// MetricsShutdown bounds graceful shutdown of the scrape server (5s).
	MetricsShutdown = 5 * time.Second
)
