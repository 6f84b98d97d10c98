package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/reconsole/reconsole/pkg/poller"
	"github.com/reconsole/reconsole/pkg/scans"
	"github.com/reconsole/reconsole/pkg/ui"
)

func runWatch() {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	var cf commonFlags
	cf.register(fs)
	id := fs.Int("id", 0, "Scan id")
	interval := fs.Duration("interval", 0, "Poll interval (overrides config)")
	ceiling := fs.Int("failure-ceiling", -1, "Consecutive poll failures tolerated, 0 retries forever (overrides config)")
	parseFlags(fs)

	a := cf.mustBuild()
	ctx, cancel := signalContext()
	defer cancel()
	a.requireAuth(ctx)

	if *interval > 0 {
		a.cfg.PollInterval = *interval
	}
	if *ceiling >= 0 {
		a.cfg.FailureCeiling = *ceiling
	}

	scanID := scanIDArg(fs, *id)

	// First snapshot up front so we can render the full module set
	// before the poller's cadence kicks in.
	snap, err := a.scans.FetchOne(ctx, scanID)
	if err != nil {
		fail(err, "Failed to fetch scan")
	}
	watchScan(ctx, a, snap.ID, scans.AllModules, cf.metricsPort)
}

// watchScan runs a poller on the scan and renders each applied
// snapshot until the scan reaches a terminal state or the context is
// cancelled. One poller instance per watch; a second watch means a
// fresh instance.
func watchScan(ctx context.Context, a *app, scanID int, modules []string, metricsPort int) {
	if a.metrics != nil && metricsPort > 0 {
		srv := a.metrics.Serve(metricsPort)
		defer srv.Close()
		ui.PrintHelp(fmt.Sprintf("metrics on http://localhost:%d/metrics", metricsPort))
	}

	r := newWatchRenderer(modules)

	cfg := poller.Config{
		Interval:       a.cfg.PollInterval,
		FailureCeiling: a.cfg.FailureCeiling,
	}
	p := poller.New(a.scans, scanID, cfg,
		poller.WithBus(a.bus),
		poller.WithLogger(a.logger),
		poller.WithOnUpdate(func(s *scans.Scan) {
			if a.metrics != nil {
				a.metrics.SetScanProgress(s.ID, s.Progress)
			}
			r.render(s)
		}),
	)
	if err := p.Start(ctx); err != nil {
		fail(err, "Failed to start watching")
	}

	// Spinner ticks between snapshots on interactive terminals.
	done := make(chan struct{})
	var spinWG sync.WaitGroup
	if ui.Interactive() {
		spinWG.Add(1)
		go func() {
			defer spinWG.Done()
			sp := ui.DefaultSpinner()
			t := time.NewTicker(sp.Interval)
			defer t.Stop()
			n := 0
			for {
				select {
				case <-done:
					return
				case <-t.C:
					n++
					r.spin(sp.Frame(n))
				}
			}
		}()
	}

	p.Wait()
	close(done)
	spinWG.Wait()

	final := a.scans.Current()
	if final == nil {
		ui.PrintError("Lost track of the scan")
		os.Exit(1)
	}
	r.render(final)
	printOutcome(final)
	printLedger(a)
}

func printOutcome(s *scans.Scan) {
	switch s.Status {
	case scans.StatusCompleted:
		ui.PrintSuccess(fmt.Sprintf("Scan #%d completed", s.ID))
		fmt.Print(ui.ResultSummary(s))
		ui.PrintHelp(fmt.Sprintf("generate a report with 'reconsole report -scan %d'", s.ID))
	case scans.StatusFailed:
		ui.PrintError(fmt.Sprintf("Scan #%d failed", s.ID))
		fmt.Print(ui.ResultSummary(s))
		os.Exit(1)
	case scans.StatusCancelled:
		ui.PrintWarning(fmt.Sprintf("Scan #%d cancelled", s.ID))
	default:
		// Poller gave up before a terminal state (failure ceiling).
		ui.PrintWarning(fmt.Sprintf("Stopped watching scan #%d (last status: %s)", s.ID, s.Status))
		os.Exit(1)
	}
}

func printLedger(a *app) {
	if a.bus.Len() == 0 {
		return
	}
	ui.PrintSection("Notifications")
	fmt.Print(ui.NotificationList(a.bus.List()))
	a.bus.MarkAllRead()
}

// watchRenderer redraws the snapshot view in place on interactive
// terminals and appends one line per update otherwise.
type watchRenderer struct {
	mu      sync.Mutex
	modules []string
	lines   int
	spinner string
	last    *scans.Scan
	live    bool
}

func newWatchRenderer(modules []string) *watchRenderer {
	return &watchRenderer{modules: modules, live: ui.Interactive()}
}

func (r *watchRenderer) render(s *scans.Scan) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = s
	if !r.live {
		cur := "-"
		if s.CurrentModule != nil {
			cur = *s.CurrentModule
		}
		fmt.Printf("%s %s progress=%d%% module=%s\n",
			time.Now().Format("15:04:05"), s.Status, s.Progress, cur)
		return
	}
	r.redraw()
}

func (r *watchRenderer) spin(frame string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.live || r.last == nil {
		return
	}
	r.spinner = frame
	r.redraw()
}

// redraw repaints the block, moving the cursor back over the previous
// frame. Caller holds the lock.
func (r *watchRenderer) redraw() {
	if r.lines > 0 {
		fmt.Printf("\033[%dA", r.lines)
	}
	var b strings.Builder
	b.WriteString(ui.ScanDetail(r.last))
	b.WriteString("\n")
	b.WriteString(ui.ModuleMatrix(r.last, r.modules))
	out := b.String()
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		// Clear to end of line so shrinking content leaves no residue.
		fmt.Printf("\033[2K%s\n", line)
	}
	r.lines = strings.Count(strings.TrimRight(out, "\n"), "\n") + 1
	if r.spinner != "" && !r.last.Status.Terminal() {
		fmt.Printf("\033[2K  %s polling\r", r.spinner)
	}
}
