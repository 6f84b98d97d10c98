package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/reconsole/reconsole/pkg/jsonutil"
	"github.com/reconsole/reconsole/pkg/notify"
	"github.com/reconsole/reconsole/pkg/scans"
)

func TestMain(m *testing.M) {
	// Plain output keeps the assertions byte-stable.
	SetNoColor(true)
	m.Run()
}

func TestProgressBar_Clamps(t *testing.T) {
	if got := ProgressBar(-5, 10); !strings.HasSuffix(got, "  0%") {
		t.Fatalf("ProgressBar(-5) = %q", got)
	}
	if got := ProgressBar(250, 10); !strings.HasSuffix(got, "100%") {
		t.Fatalf("ProgressBar(250) = %q", got)
	}
}

func TestProgressBar_FillRatio(t *testing.T) {
	got := ProgressBar(50, 10)
	if !strings.Contains(got, " 50%") {
		t.Fatalf("ProgressBar(50, 10) = %q", got)
	}
}

func TestScanTable_RowsNewestFirst(t *testing.T) {
	list := []scans.Scan{
		{ID: 2, Target: "example.org", ScanType: "full", Status: scans.StatusRunning},
		{ID: 1, Target: "example.com", ScanType: "basic", Status: scans.StatusCompleted},
	}
	out := ScanTable(list)
	i2 := strings.Index(out, "example.org")
	i1 := strings.Index(out, "example.com")
	if i2 < 0 || i1 < 0 || i2 > i1 {
		t.Fatalf("row order wrong:\n%s", out)
	}
	if !strings.Contains(out, "running") || !strings.Contains(out, "completed") {
		t.Fatalf("missing statuses:\n%s", out)
	}
}

func TestScanTable_TruncatesLongTargets(t *testing.T) {
	long := strings.Repeat("a", 60) + ".com"
	out := ScanTable([]scans.Scan{{ID: 1, Target: long}})
	if strings.Contains(out, long) {
		t.Fatalf("target not truncated:\n%s", out)
	}
	if !strings.Contains(out, "...") {
		t.Fatalf("no ellipsis:\n%s", out)
	}
}

func TestModuleMatrix_ExecutionOrderAndMarkers(t *testing.T) {
	cur := "port"
	s := &scans.Scan{
		Status:        scans.StatusRunning,
		CurrentModule: &cur,
		Results: map[string]scans.ModuleResult{
			"waf": {"detected": false},
		},
	}
	out := ModuleMatrix(s, []string{"waf", "port", "subdo"})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "waf") || !strings.Contains(lines[0], "completed") {
		t.Fatalf("waf line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "port") || !strings.Contains(lines[1], "running") {
		t.Fatalf("port line = %q", lines[1])
	}
	if !strings.Contains(lines[2], "subdo") || !strings.Contains(lines[2], "pending") {
		t.Fatalf("subdo line = %q", lines[2])
	}
}

func TestModuleMatrix_FlagsEmbeddedModuleError(t *testing.T) {
	s := &scans.Scan{
		Status: scans.StatusRunning,
		Results: map[string]scans.ModuleResult{
			"dir": {"error": "timed out"},
		},
	}
	out := ModuleMatrix(s, []string{"dir"})
	// Derivation still says completed; the error is flagged alongside.
	if !strings.Contains(out, "completed") || !strings.Contains(out, "[!]") {
		t.Fatalf("out = %q", out)
	}
}

func TestResultSummary(t *testing.T) {
	s := &scans.Scan{
		Results: map[string]scans.ModuleResult{
			"waf":  {"detected": true, "name": "cloudflare"},
			"port": {"error": "connection refused"},
		},
	}
	out := ResultSummary(s)
	if !strings.Contains(out, "connection refused") {
		t.Fatalf("module error missing:\n%s", out)
	}
	if !strings.Contains(out, "2 field(s)") {
		t.Fatalf("field count missing:\n%s", out)
	}
}

func TestNotificationList_UnreadMarker(t *testing.T) {
	list := []notify.Notification{
		{ID: 2, Kind: notify.KindSuccess, Title: "Scan Completed", Message: "example.com", Read: false},
		{ID: 1, Kind: notify.KindInfo, Title: "Scan Started", Message: "example.com", Read: true},
	}
	out := NotificationList(list)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if !strings.Contains(lines[0], "*") {
		t.Fatalf("unread marker missing: %q", lines[0])
	}
	if strings.Contains(lines[1], "*") {
		t.Fatalf("read entry carries marker: %q", lines[1])
	}
}

func TestNotificationList_Empty(t *testing.T) {
	if out := NotificationList(nil); !strings.Contains(out, "no notifications") {
		t.Fatalf("out = %q", out)
	}
}

func TestAge(t *testing.T) {
	if got := age(time.Time{}); got != "-" {
		t.Fatalf("zero time age = %q", got)
	}
	if got := age(time.Now().Add(-30 * time.Second)); !strings.HasSuffix(got, "s ago") {
		t.Fatalf("age = %q", got)
	}
	if got := age(time.Now().Add(-3 * time.Hour)); !strings.HasSuffix(got, "h ago") {
		t.Fatalf("age = %q", got)
	}
}

func TestScanDetail(t *testing.T) {
	s := &scans.Scan{
		Target:    "example.com",
		ScanType:  "full",
		Status:    scans.StatusRunning,
		Progress:  40,
		CreatedAt: jsonutil.Time{Time: time.Now()},
	}
	out := ScanDetail(s)
	for _, want := range []string{"example.com", "full", "running", "40%"} {
		if !strings.Contains(out, want) {
			t.Fatalf("detail missing %q:\n%s", want, out)
		}
	}
}
