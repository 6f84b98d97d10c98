package notify

import (
	"fmt"
	"testing"
	"time"
)

func newTestBus(opts ...Option) *Bus {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	opts = append(opts, WithClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}))
	return NewBus(opts...)
}

// unreadInvariant checks that the counter always equals the number of
// entries with Read == false.
func unreadInvariant(t *testing.T, b *Bus) {
	t.Helper()
	want := 0
	for _, n := range b.List() {
		if !n.Read {
			want++
		}
	}
	if got := b.UnreadCount(); got != want {
		t.Fatalf("UnreadCount = %d, want %d (ledger scan)", got, want)
	}
}

func TestPublish_PrependsWithMonotonicIDs(t *testing.T) {
	t.Parallel()
	b := newTestBus()
	first := b.Publish(KindInfo, "Scan Started", "scan 1 queued")
	second := b.Publish(KindSuccess, "Scan Completed", "scan 1 done")

	list := b.List()
	if len(list) != 2 {
		t.Fatalf("len = %d", len(list))
	}
	if list[0].ID != second.ID || list[1].ID != first.ID {
		t.Fatalf("ledger not newest-first: %+v", list)
	}
	if second.ID <= first.ID {
		t.Fatalf("ids not monotonic: %d then %d", first.ID, second.ID)
	}
	unreadInvariant(t, b)
}

func TestPublish_CapEvictsOldest(t *testing.T) {
	t.Parallel()
	b := newTestBus()
	for i := 0; i < DefaultCap+10; i++ {
		b.Publish(KindInfo, "n", fmt.Sprintf("entry %d", i))
	}
	if got := b.Len(); got != DefaultCap {
		t.Fatalf("ledger size = %d, want %d", got, DefaultCap)
	}
	list := b.List()
	if list[len(list)-1].Message != "entry 10" {
		t.Fatalf("oldest surviving entry = %q, want entry 10", list[len(list)-1].Message)
	}
	unreadInvariant(t, b)
}

func TestMarkRead_FloorsAtZero(t *testing.T) {
	t.Parallel()
	b := newTestBus()
	n := b.Publish(KindError, "Scan Failed", "boom")
	if !b.MarkRead(n.ID) {
		t.Fatal("MarkRead returned false for known id")
	}
	// Second mark of the same entry must not go negative.
	b.MarkRead(n.ID)
	if got := b.UnreadCount(); got != 0 {
		t.Fatalf("UnreadCount = %d, want 0", got)
	}
	if b.MarkRead(9999) {
		t.Fatal("MarkRead returned true for unknown id")
	}
	unreadInvariant(t, b)
}

func TestMarkAllRead(t *testing.T) {
	t.Parallel()
	b := newTestBus()
	for i := 0; i < 5; i++ {
		b.Publish(KindInfo, "n", "m")
	}
	b.MarkAllRead()
	if got := b.UnreadCount(); got != 0 {
		t.Fatalf("UnreadCount = %d after MarkAllRead", got)
	}
	unreadInvariant(t, b)
}

func TestRemove_DecrementsOnlyWhenUnread(t *testing.T) {
	t.Parallel()
	b := newTestBus()
	read := b.Publish(KindInfo, "a", "")
	unread := b.Publish(KindInfo, "b", "")
	b.MarkRead(read.ID)

	if !b.Remove(read.ID) {
		t.Fatal("Remove(read) = false")
	}
	if got := b.UnreadCount(); got != 1 {
		t.Fatalf("UnreadCount = %d after removing read entry, want 1", got)
	}
	if !b.Remove(unread.ID) {
		t.Fatal("Remove(unread) = false")
	}
	if got := b.UnreadCount(); got != 0 {
		t.Fatalf("UnreadCount = %d after removing unread entry, want 0", got)
	}
	unreadInvariant(t, b)
}

func TestClearAll(t *testing.T) {
	t.Parallel()
	b := newTestBus()
	b.Publish(KindWarning, "w", "")
	b.ClearAll()
	if b.Len() != 0 || b.UnreadCount() != 0 {
		t.Fatalf("ledger not empty after ClearAll: len=%d unread=%d", b.Len(), b.UnreadCount())
	}
}

func TestHooksObservePublishes(t *testing.T) {
	t.Parallel()
	b := newTestBus()
	var seen []Notification
	b.RegisterHook(HookFunc(func(n Notification) { seen = append(seen, n) }))

	b.Publish(KindSuccess, "Scan Stopped", "scan 7 cancelled")
	if len(seen) != 1 || seen[0].Title != "Scan Stopped" {
		t.Fatalf("hook saw %+v", seen)
	}
}

func TestListReturnsCopies(t *testing.T) {
	t.Parallel()
	b := newTestBus()
	b.Publish(KindInfo, "a", "")
	list := b.List()
	list[0].Read = true
	if b.UnreadCount() != 1 {
		t.Fatal("mutating List() result affected the ledger")
	}
}
