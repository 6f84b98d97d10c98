package scans

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/reconsole/reconsole/pkg/apiclient"
	"github.com/reconsole/reconsole/pkg/notify"
)

// Transport is the slice of the API client the store needs.
type Transport interface {
	Do(ctx context.Context, method, path string, body, out any) error
}

// Store caches scan jobs client-side: the ordered collection (newest
// first) and the "current" scan under observation. Both fields are
// mutated only by the store itself; the poller and views go through its
// operations. Lifecycle events are published to the notification bus,
// independent of which view triggered them.
type Store struct {
	mu      sync.Mutex
	current *Scan
	list    []Scan

	client Transport
	bus    notify.Publisher
	logger *slog.Logger

	lastError string
}

// NewStore creates an empty scan store. bus may be nil to disable
// notifications (tests); logger nil means slog.Default().
func NewStore(client Transport, bus notify.Publisher, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{client: client, bus: bus, logger: logger}
}

// Current returns a copy of the scan under observation, or nil.
func (s *Store) Current() *Scan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.clone()
}

// List returns a copy of the cached collection, newest first.
func (s *Store) List() []Scan {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Scan, len(s.list))
	copy(out, s.list)
	return out
}

// LastError returns the most recent operation error message.
func (s *Store) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// FetchAll refreshes the collection from the server. The cached list is
// replaced wholesale, never patched element-by-element, so a partial
// merge can never leave stale entries behind.
func (s *Store) FetchAll(ctx context.Context, skip, limit int) ([]Scan, error) {
	var fetched []Scan
	path := fmt.Sprintf("/api/scans/?skip=%d&limit=%d", skip, limit)
	if err := s.client.Do(ctx, http.MethodGet, path, nil, &fetched); err != nil {
		s.setError(apiclient.ErrorMessage(err, "Failed to load scans"))
		return nil, err
	}
	s.mu.Lock()
	s.list = fetched
	s.lastError = ""
	s.mu.Unlock()
	out := make([]Scan, len(fetched))
	copy(out, fetched)
	return out, nil
}

// Create starts a new scan. The confirmed snapshot is prepended to the
// collection and becomes current; nothing is inserted speculatively
// before the server confirms. Failures publish an error notification so
// they stay visible after the originating view navigates away.
func (s *Store) Create(ctx context.Context, target string, opts Options) (*Scan, error) {
	body := createRequest{Target: target, Options: opts}
	var created Scan
	if err := s.client.Do(ctx, http.MethodPost, "/api/scans/", body, &created); err != nil {
		msg := apiclient.ErrorMessage(err, "Failed to start scan")
		s.setError(msg)
		s.publish(notify.KindError, "Scan Failed to Start", msg)
		return nil, err
	}

	s.mu.Lock()
	s.list = append([]Scan{created}, s.list...)
	s.current = created.clone()
	s.lastError = ""
	s.mu.Unlock()

	s.publish(notify.KindInfo, "Scan Started",
		fmt.Sprintf("Scan #%d started for %s", created.ID, created.Target))
	s.logger.Info("scan created", "id", created.ID, "target", created.Target)
	return created.clone(), nil
}

// FetchOne refreshes the current scan from the server. The snapshot
// replaces current wholesale; the server is the single source of truth
// and no field-level merging ever happens.
func (s *Store) FetchOne(ctx context.Context, id int) (*Scan, error) {
	return s.FetchOneGuarded(ctx, id, nil)
}

// FetchOneGuarded is FetchOne with a staleness gate: the fetched
// snapshot is applied as current only if accept still returns true once
// the response has arrived. The poller uses this to discard responses
// that land after it has stopped observing the id. The snapshot is
// returned either way.
func (s *Store) FetchOneGuarded(ctx context.Context, id int, accept func() bool) (*Scan, error) {
	var fetched Scan
	path := fmt.Sprintf("/api/scans/%d", id)
	if err := s.client.Do(ctx, http.MethodGet, path, nil, &fetched); err != nil {
		s.setError(apiclient.ErrorMessage(err, "Failed to load scan"))
		return nil, err
	}
	if accept != nil && !accept() {
		s.logger.Debug("discarding stale snapshot", "id", id)
		return fetched.clone(), nil
	}

	s.mu.Lock()
	prev := s.current
	s.current = fetched.clone()
	s.lastError = ""
	s.mu.Unlock()

	s.observeTransition(prev, &fetched)
	return fetched.clone(), nil
}

// Delete removes a scan. The entity leaves the collection only after
// the server confirms; a failed call leaves the cache untouched.
func (s *Store) Delete(ctx context.Context, id int) error {
	path := fmt.Sprintf("/api/scans/%d", id)
	if err := s.client.Do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		s.setError(apiclient.ErrorMessage(err, "Failed to delete scan"))
		return err
	}

	s.mu.Lock()
	for i := range s.list {
		if s.list[i].ID == id {
			s.list = append(s.list[:i], s.list[i+1:]...)
			break
		}
	}
	if s.current != nil && s.current.ID == id {
		s.current = nil
	}
	s.lastError = ""
	s.mu.Unlock()

	s.publish(notify.KindInfo, "Scan Deleted", fmt.Sprintf("Scan #%d deleted", id))
	return nil
}

// Stop requests cancellation of a running job. The server treats a stop
// of an already-terminal job as a no-op and returns the unchanged
// snapshot, so the client path is idempotent: current is replaced with
// whatever came back and the stop notification is emitted either way.
func (s *Store) Stop(ctx context.Context, id int) (*Scan, error) {
	var stopped Scan
	path := fmt.Sprintf("/api/scans/%d/stop", id)
	if err := s.client.Do(ctx, http.MethodPost, path, nil, &stopped); err != nil {
		msg := apiclient.ErrorMessage(err, "Failed to stop scan")
		s.setError(msg)
		s.publish(notify.KindError, "Stop Failed", msg)
		return nil, err
	}

	s.mu.Lock()
	s.current = stopped.clone()
	s.lastError = ""
	s.mu.Unlock()

	s.publish(notify.KindSuccess, "Scan Stopped",
		fmt.Sprintf("Scan #%d stopped", id))
	return stopped.clone(), nil
}

// observeTransition publishes lifecycle notifications when a refreshed
// snapshot shows the observed scan reaching a terminal state, and flags
// snapshots that violate the completed-implies-100% contract instead of
// silently normalizing them.
func (s *Store) observeTransition(prev, next *Scan) {
	if next.Status == StatusCompleted && next.Progress != 100 {
		s.publish(notify.KindWarning, "Data Contract Violation",
			fmt.Sprintf("Scan #%d reports completed with progress %d%%", next.ID, next.Progress))
	}
	if prev == nil || prev.ID != next.ID || prev.Status == next.Status {
		return
	}
	switch next.Status {
	case StatusCompleted:
		s.publish(notify.KindSuccess, "Scan Completed",
			fmt.Sprintf("Scan #%d finished for %s", next.ID, next.Target))
	case StatusFailed:
		s.publish(notify.KindError, "Scan Failed",
			fmt.Sprintf("Scan #%d failed for %s", next.ID, next.Target))
	}
}

func (s *Store) publish(kind notify.Kind, title, message string) {
	if s.bus != nil {
		s.bus.Publish(kind, title, message)
	}
}

func (s *Store) setError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = msg
}
