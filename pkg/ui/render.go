package ui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/reconsole/reconsole/pkg/notify"
	"github.com/reconsole/reconsole/pkg/scans"
)

// ProgressBar renders a fixed-width percentage bar.
func ProgressBar(percent, width int) string {
	if width <= 0 {
		width = 30
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := width * percent / 100
	full := Icon("█", "#")
	empty := Icon("░", "-")
	var b strings.Builder
	b.WriteString(ProgressFullStyle.Render(strings.Repeat(full, filled)))
	b.WriteString(ProgressEmptyStyle.Render(strings.Repeat(empty, width-filled)))
	return fmt.Sprintf("%s %3d%%", b.String(), percent)
}

// ScanTable renders the scan collection, newest first, one line per
// scan: ID, target, type, status, age.
func ScanTable(list []scans.Scan) string {
	var b strings.Builder
	b.WriteString(LabelStyle.Render(fmt.Sprintf("  %-6s %-30s %-8s %-10s %s", "ID", "TARGET", "TYPE", "STATUS", "CREATED")))
	b.WriteString("\n")
	for _, s := range list {
		b.WriteString(fmt.Sprintf("  %-6d %-30s %-8s %s %s\n",
			s.ID,
			truncate(s.Target, 30),
			s.ScanType,
			StatusStyle(string(s.Status)).Render(fmt.Sprintf("%-10s", s.Status)),
			SubtitleStyle.Render(age(s.CreatedAt.Time)),
		))
	}
	return b.String()
}

// ModuleMatrix renders the derived per-module status grid in execution
// order. A module whose result payload carries an embedded error is
// flagged next to its derived status.
func ModuleMatrix(s *scans.Scan, modules []string) string {
	matrix := scans.DeriveMatrix(s, modules)
	var b strings.Builder
	for _, m := range modules {
		st := matrix[m]
		marker := statusMarker(st)
		line := fmt.Sprintf("  %s %-6s %s", marker, m, StatusStyle(string(st)).Render(string(st)))
		if r, ok := s.Results[m]; ok && r.Failed() {
			line += " " + WarnStyle.Render(Icon("⚠", "[!]"))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// ScanDetail renders a full snapshot header for watch mode.
func ScanDetail(s *scans.Scan) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("  %s %s\n", LabelStyle.Render("Target:"), ValueStyle.Render(s.Target)))
	b.WriteString(fmt.Sprintf("  %s %s\n", LabelStyle.Render("Type:  "), ValueStyle.Render(s.ScanType)))
	b.WriteString(fmt.Sprintf("  %s %s\n", LabelStyle.Render("Status:"), StatusStyle(string(s.Status)).Render(string(s.Status))))
	b.WriteString(fmt.Sprintf("  %s %s\n", LabelStyle.Render("Done:  "), ProgressBar(s.Progress, 30)))
	return b.String()
}

// ResultSummary renders one line per finished module with a terse
// summary of its payload keys. Detailed payloads belong in reports.
func ResultSummary(s *scans.Scan) string {
	if len(s.Results) == 0 {
		return SubtitleStyle.Render("  no results yet") + "\n"
	}
	mods := make([]string, 0, len(s.Results))
	for m := range s.Results {
		mods = append(mods, m)
	}
	sort.Strings(mods)
	var b strings.Builder
	for _, m := range mods {
		r := s.Results[m]
		if r.Failed() {
			b.WriteString(fmt.Sprintf("  %s %-6s %v\n", FailStyle.Render(Icon("✗", "x")), m, r["error"]))
			continue
		}
		b.WriteString(fmt.Sprintf("  %s %-6s %d field(s)\n", PassStyle.Render(Icon("✓", "+")), m, len(r)))
	}
	return b.String()
}

// NotificationList renders the in-memory ledger, newest first. Unread
// entries carry a bullet marker.
func NotificationList(list []notify.Notification) string {
	if len(list) == 0 {
		return SubtitleStyle.Render("  no notifications") + "\n"
	}
	var b strings.Builder
	for _, n := range list {
		marker := " "
		if !n.Read {
			marker = Icon("●", "*")
		}
		b.WriteString(fmt.Sprintf("  %s %s %s %s\n",
			marker,
			KindStyle(string(n.Kind)).Render(fmt.Sprintf("%-8s", n.Kind)),
			ValueStyle.Render(n.Title),
			SubtitleStyle.Render(n.Message),
		))
	}
	return b.String()
}

func statusMarker(st scans.ModuleStatus) string {
	switch st {
	case scans.ModuleCompleted:
		return PassStyle.Render(Icon("✓", "+"))
	case scans.ModuleRunning:
		return SpinnerStyle.Render(Icon("▸", ">"))
	case scans.ModuleFailed:
		return FailStyle.Render(Icon("✗", "x"))
	default:
		return LabelStyle.Render(Icon("○", "."))
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

func age(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return t.Format("2006-01-02")
	}
}
