// Package notify is the notification bus: a bounded, ordered, read/unread
// ledger of user-facing lifecycle events. Stores publish into it and the
// view layer subscribes, so side-effect reporting stays decoupled from
// whichever operation produced it. The bus depends on nothing; producers
// depend only on the Publisher capability.
package notify

import (
	"sync"
	"time"
)

// DefaultCap is how many notifications the ledger retains. Older
// entries beyond the cap are permanently discarded.
const DefaultCap = 50

// Kind classifies a notification for rendering.
type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

// Notification is one ledger entry. Values are plain data; the bus owns
// the canonical copy and hands out value copies only.
type Notification struct {
	ID        int64     `json:"id"`
	Kind      Kind      `json:"kind"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
}

// Publisher is the capability stores depend on to report events.
type Publisher interface {
	Publish(kind Kind, title, message string) Notification
}

// Hook observes every published notification, for mirrors like the
// slog log line or Prometheus counters. Hooks run after the ledger is
// updated and cannot affect it.
type Hook interface {
	OnNotification(n Notification)
}

// HookFunc adapts a function to a Hook.
type HookFunc func(Notification)

// OnNotification implements Hook.
func (f HookFunc) OnNotification(n Notification) { f(n) }

// Bus is the notification ledger. Safe for concurrent use.
type Bus struct {
	mu      sync.Mutex
	entries []Notification // newest first
	nextID  int64
	unread  int
	cap     int
	hooks   []Hook
	now     func() time.Time
}

// Option customizes a Bus.
type Option func(*Bus)

// WithCap overrides the ledger size limit.
func WithCap(n int) Option {
	return func(b *Bus) {
		if n > 0 {
			b.cap = n
		}
	}
}

// WithClock injects a time source for tests.
func WithClock(now func() time.Time) Option {
	return func(b *Bus) { b.now = now }
}

// NewBus creates an empty ledger with the default cap.
func NewBus(opts ...Option) *Bus {
	b := &Bus{cap: DefaultCap, now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// RegisterHook adds a hook. Not safe to call concurrently with Publish;
// register hooks during wiring, before the engine starts.
func (b *Bus) RegisterHook(h Hook) {
	b.hooks = append(b.hooks, h)
}

// Publish prepends a new entry with the next monotonic id and truncates
// the ledger to the cap. The created entry is returned by value.
func (b *Bus) Publish(kind Kind, title, message string) Notification {
	b.mu.Lock()
	b.nextID++
	n := Notification{
		ID:        b.nextID,
		Kind:      kind,
		Title:     title,
		Message:   message,
		Timestamp: b.now(),
	}
	b.entries = append([]Notification{n}, b.entries...)
	b.unread++
	if len(b.entries) > b.cap {
		for _, evicted := range b.entries[b.cap:] {
			if !evicted.Read {
				b.unread--
			}
		}
		b.entries = b.entries[:b.cap]
	}
	hooks := b.hooks
	b.mu.Unlock()

	for _, h := range hooks {
		h.OnNotification(n)
	}
	return n
}

// MarkRead marks one entry read. Returns false if the id is unknown.
func (b *Bus) MarkRead(id int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.entries {
		if b.entries[i].ID == id {
			if !b.entries[i].Read {
				b.entries[i].Read = true
				if b.unread > 0 {
					b.unread--
				}
			}
			return true
		}
	}
	return false
}

// MarkAllRead marks every entry read and zeroes the unread counter.
func (b *Bus) MarkAllRead() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.entries {
		b.entries[i].Read = true
	}
	b.unread = 0
}

// Remove deletes one entry. The unread counter drops only if the
// removed entry was unread. Returns false if the id is unknown.
func (b *Bus) Remove(id int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.entries {
		if b.entries[i].ID == id {
			if !b.entries[i].Read && b.unread > 0 {
				b.unread--
			}
			b.entries = append(b.entries[:i], b.entries[i+1:]...)
			return true
		}
	}
	return false
}

// ClearAll empties the ledger.
func (b *Bus) ClearAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = nil
	b.unread = 0
}

// List returns a copy of the ledger, newest first.
func (b *Bus) List() []Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Notification, len(b.entries))
	copy(out, b.entries)
	return out
}

// UnreadCount returns the number of unread entries.
func (b *Bus) UnreadCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.unread
}

// Len returns the ledger size.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}
