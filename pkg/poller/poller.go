// Package poller drives the live view of a single scan: a bounded
// lifetime controller that refreshes one scan id on a fixed interval,
// detects terminal snapshots, and guarantees its own termination and
// cleanup. Instances are single-use; observing the same id again means
// creating a new poller, never resurrecting a stopped one.
package poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/reconsole/reconsole/pkg/duration"
	"github.com/reconsole/reconsole/pkg/notify"
	"github.com/reconsole/reconsole/pkg/scans"
)

// ErrReused is returned when Start is called on an instance that has
// already run.
var ErrReused = errors.New("poller: instance already used")

// State is the poller lifecycle state.
type State int

const (
	StateIdle State = iota
	StatePolling
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePolling:
		return "polling"
	case StateStopped:
		return "stopped"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Fetcher is the slice of the scan store the poller needs. The accept
// gate is how the store knows whether a response arrived too late to be
// applied.
type Fetcher interface {
	FetchOneGuarded(ctx context.Context, id int, accept func() bool) (*scans.Scan, error)
}

// Config controls polling behaviour.
type Config struct {
	// Interval between snapshot refreshes (default: 2s).
	Interval time.Duration

	// FailureCeiling is how many consecutive fetch failures are
	// tolerated before the poller gives up and stops. 0 retries
	// forever.
	FailureCeiling int
}

// DefaultConfig returns the standard cadence with a bounded retry
// ceiling (30 consecutive failures, about a minute of sustained
// outage at the default interval).
func DefaultConfig() Config {
	return Config{
		Interval:       duration.PollInterval,
		FailureCeiling: 30,
	}
}

// Poller observes one scan id. Create with New, run with Start, tear
// down with Stop. Safe for concurrent use.
type Poller struct {
	scanID     int
	generation uuid.UUID
	cfg        Config
	store      Fetcher
	bus        notify.Publisher
	logger     *slog.Logger
	onUpdate   func(*scans.Scan)

	mu       sync.Mutex
	state    State
	started  bool
	failures int

	stop chan struct{}
	done chan struct{}
}

// Option customizes a Poller.
type Option func(*Poller)

// WithOnUpdate registers a callback invoked after each applied
// snapshot. It runs on the polling goroutine.
func WithOnUpdate(fn func(*scans.Scan)) Option {
	return func(p *Poller) { p.onUpdate = fn }
}

// WithBus routes poller warnings (retry ceiling reached) to the
// notification bus.
func WithBus(bus notify.Publisher) Option {
	return func(p *Poller) { p.bus = bus }
}

// WithLogger sets the structured logger. Nil means slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(p *Poller) { p.logger = l }
}

// New creates an idle poller bound to scanID. Each instance carries a
// fresh generation token; log lines and metrics from overlapping
// observations of the same id stay distinguishable.
func New(store Fetcher, scanID int, cfg Config, opts ...Option) *Poller {
	def := DefaultConfig()
	if cfg.Interval <= 0 {
		cfg.Interval = def.Interval
	}
	if cfg.FailureCeiling < 0 {
		cfg.FailureCeiling = 0
	}
	p := &Poller{
		scanID:     scanID,
		generation: uuid.New(),
		cfg:        cfg,
		store:      store,
		logger:     slog.Default(),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	p.logger = p.logger.With("scan_id", scanID, "poll_gen", p.generation.String())
	return p
}

// State returns the current lifecycle state.
func (p *Poller) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Generation returns this instance's generation token.
func (p *Poller) Generation() uuid.UUID { return p.generation }

// Start transitions Idle -> Polling: one immediate fetch, then a fetch
// every interval until a terminal snapshot, the failure ceiling, Stop,
// or context cancellation. Start returns immediately; Wait blocks until
// the polling goroutine has exited.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.state != StateIdle {
		p.mu.Unlock()
		return ErrReused
	}
	p.state = StatePolling
	p.started = true
	p.mu.Unlock()

	p.logger.Debug("polling started", "interval", p.cfg.Interval)
	go p.run(ctx)
	return nil
}

// Stop transitions to Stopped and cancels the timer synchronously. The
// in-flight request, if any, is not cancelled; its response is simply
// discarded by the staleness gate. Safe to call more than once.
func (p *Poller) Stop() {
	if p.transition(StateStopped) {
		close(p.stop)
		p.logger.Debug("polling stopped externally")
	}
}

// Wait blocks until the polling goroutine has exited. Returns
// immediately if Start was never called.
func (p *Poller) Wait() {
	p.mu.Lock()
	started := p.started
	p.mu.Unlock()
	if started {
		<-p.done
	}
}

func (p *Poller) run(ctx context.Context) {
	defer close(p.done)

	if !p.fetch(ctx) {
		return
	}
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			p.transition(StateStopped)
			return
		case <-p.stop:
			return
		case <-ticker.C:
			if !p.fetch(ctx) {
				return
			}
		}
	}
}

// fetch performs one refresh cycle and reports whether polling should
// continue. Cycles never overlap: the loop is sequential, so the only
// ordering hazard is a response arriving after Stop, which the accept
// gate discards.
func (p *Poller) fetch(ctx context.Context) bool {
	snap, err := p.store.FetchOneGuarded(ctx, p.scanID, p.accepting)
	if err != nil {
		if ctx.Err() != nil {
			p.transition(StateStopped)
			return false
		}
		return p.recordFailure(err)
	}

	p.mu.Lock()
	p.failures = 0
	stopped := p.state == StateStopped
	p.mu.Unlock()
	if stopped {
		return false
	}

	if p.onUpdate != nil {
		p.onUpdate(snap)
	}
	if snap.Status.Terminal() {
		p.transition(StateStopped)
		p.logger.Debug("scan reached terminal state", "status", string(snap.Status))
		return false
	}
	return true
}

// accepting is the staleness gate handed to the store: a snapshot is
// applied only while this instance is still polling.
func (p *Poller) accepting() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state == StatePolling
}

func (p *Poller) recordFailure(err error) bool {
	p.mu.Lock()
	p.failures++
	failures := p.failures
	ceiling := p.cfg.FailureCeiling
	p.mu.Unlock()

	p.logger.Warn("poll fetch failed", "consecutive", failures, "error", err)
	if ceiling > 0 && failures >= ceiling {
		p.transition(StateStopped)
		if p.bus != nil {
			p.bus.Publish(notify.KindWarning, "Polling Stopped",
				fmt.Sprintf("Gave up refreshing scan #%d after %d consecutive failures", p.scanID, failures))
		}
		return false
	}
	return true
}

// transition moves to next unless already stopped. Reports whether the
// state changed.
func (p *Poller) transition(next State) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == StateStopped || p.state == next {
		return false
	}
	p.state = next
	return true
}
