// Package apiclient is the session transport for the recon backend.
// It wraps a pooled http.Client, attaches the bearer credential to every
// outbound request, converts FastAPI error bodies into typed errors, and
// reacts to authentication rejection exactly once per rejected request.
package apiclient

import (
	"crypto/tls"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/reconsole/reconsole/pkg/duration"
)

// TokenSource supplies the current bearer credential. An empty string
// means "no credential"; the request is then sent unauthenticated.
type TokenSource interface {
	Token() string
}

// TokenSourceFunc adapts a plain function to a TokenSource.
type TokenSourceFunc func() string

// Token implements TokenSource.
func (f TokenSourceFunc) Token() string { return f() }

// Observer receives one callback per completed request attempt.
// Outcome is "ok", "http_error", "auth_reject", or "network_error".
type Observer interface {
	ObserveRequest(method, outcome string)
}

// Config holds transport configuration options.
type Config struct {
	// BaseURL is the backend root, e.g. "http://localhost:8000".
	BaseURL string

	// Timeout is the total request timeout (default: 30s).
	Timeout time.Duration

	// RateLimit caps outbound requests per second. 0 disables limiting.
	RateLimit float64

	// UserAgent overrides the default User-Agent header.
	UserAgent string

	// InsecureSkipVerify skips TLS certificate verification, for
	// backends running on self-signed development certificates.
	InsecureSkipVerify bool

	// MaxIdleConns is the maximum idle connections pooled (default: 100).
	MaxIdleConns int

	// MaxConnsPerHost is the per-host connection cap (default: 25).
	MaxConnsPerHost int

	// DialTimeout bounds connection establishment (default: 10s).
	DialTimeout time.Duration

	// TLSHandshakeTimeout bounds the TLS handshake (default: 10s).
	TLSHandshakeTimeout time.Duration

	// IdleConnTimeout is how long idle connections stay pooled (default: 90s).
	IdleConnTimeout time.Duration
}

// DefaultConfig returns sensible defaults for a backend on localhost.
func DefaultConfig() Config {
	return Config{
		BaseURL:             "http://localhost:8000",
		Timeout:             duration.HTTPRequest,
		MaxIdleConns:        100,
		MaxConnsPerHost:     25,
		DialTimeout:         duration.DialTimeout,
		TLSHandshakeTimeout: duration.TLSHandshakeTimeout,
		IdleConnTimeout:     duration.IdleConnTimeout,
	}
}

// Client is the authenticated HTTP transport shared by every store.
// It is safe for concurrent use.
type Client struct {
	base      *url.URL
	http      *http.Client
	tokens    TokenSource
	limiter   *rate.Limiter
	userAgent string
	logger    *slog.Logger

	observer     Observer
	onAuthReject func()
}

// Option customizes a Client beyond its Config.
type Option func(*Client)

// WithTokenSource sets the credential supplier.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithAuthRejectHandler registers fn to run when the server rejects the
// bearer credential. It runs exactly once per rejected request, before
// the original failure is propagated to the caller.
func WithAuthRejectHandler(fn func()) Option {
	return func(c *Client) { c.onAuthReject = fn }
}

// WithObserver registers a per-request metrics observer.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// WithLogger sets the structured logger. Nil means slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a transport from cfg. Zero-value fields fall back to
// DefaultConfig values. The base URL must parse; a trailing slash is
// tolerated and stripped.
func New(cfg Config, opts ...Option) (*Client, error) {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.MaxIdleConns == 0 {
		cfg.MaxIdleConns = def.MaxIdleConns
	}
	if cfg.MaxConnsPerHost == 0 {
		cfg.MaxConnsPerHost = def.MaxConnsPerHost
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = def.DialTimeout
	}
	if cfg.TLSHandshakeTimeout == 0 {
		cfg.TLSHandshakeTimeout = def.TLSHandshakeTimeout
	}
	if cfg.IdleConnTimeout == 0 {
		cfg.IdleConnTimeout = def.IdleConnTimeout
	}

	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, err
	}

	dialer := &net.Dialer{
		Timeout:   cfg.DialTimeout,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		MaxIdleConns:          cfg.MaxIdleConns,
		MaxIdleConnsPerHost:   cfg.MaxConnsPerHost,
		MaxConnsPerHost:       cfg.MaxConnsPerHost,
		IdleConnTimeout:       cfg.IdleConnTimeout,
		ForceAttemptHTTP2:     true,
		ExpectContinueTimeout: 1 * time.Second,
		TLSHandshakeTimeout:   cfg.TLSHandshakeTimeout,
		DialContext:           dialer.DialContext,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: cfg.InsecureSkipVerify,
		},
	}

	c := &Client{
		base: base,
		http: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		userAgent: cfg.UserAgent,
		logger:    slog.Default(),
	}
	if cfg.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c, nil
}

// BaseURL returns the configured backend root.
func (c *Client) BaseURL() string { return c.base.String() }
