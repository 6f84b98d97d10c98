package main

import (
	"flag"
	"fmt"

	"github.com/reconsole/reconsole/pkg/reports"
	"github.com/reconsole/reconsole/pkg/ui"
)

func runReports() {
	fs := flag.NewFlagSet("reports", flag.ExitOnError)
	var cf commonFlags
	cf.register(fs)
	asJSON := fs.Bool("json", false, "Emit raw JSON")
	parseFlags(fs)

	a := cf.mustBuild()
	ctx, cancel := signalContext()
	defer cancel()
	a.requireAuth(ctx)

	rc := reports.NewClient(a.client, a.bus, a.logger)
	list, err := rc.List(ctx)
	if err != nil {
		fail(err, "Failed to list reports")
	}
	if *asJSON {
		printJSON(list)
		return
	}
	if len(list) == 0 {
		ui.PrintInfo("No reports yet - generate one with 'reconsole report -scan <id>'")
		return
	}
	for _, r := range list {
		fmt.Printf("  %-6d scan #%-6d %s\n", r.ID, r.ScanID, r.CreatedAt.Format("2006-01-02 15:04"))
	}
}

func runReport() {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	var cf commonFlags
	cf.register(fs)
	scanID := fs.Int("scan", 0, "Scan id to report on")
	useAI := fs.Bool("ai", false, "Include AI-generated analysis (needs a configured Gemini key)")
	out := fs.String("o", "", "Output PDF path (default: report-<scan>.pdf)")
	del := fs.Int("rm", 0, "Delete the report with this id instead")
	parseFlags(fs)

	a := cf.mustBuild()
	ctx, cancel := signalContext()
	defer cancel()
	a.requireAuth(ctx)

	rc := reports.NewClient(a.client, a.bus, a.logger)

	if *del > 0 {
		if err := rc.Delete(ctx, *del); err != nil {
			fail(err, "Failed to delete report")
		}
		ui.PrintSuccess(fmt.Sprintf("Report #%d deleted", *del))
		return
	}

	if *scanID <= 0 {
		*scanID = scanIDArg(fs, 0)
	}
	path := *out
	if path == "" {
		path = fmt.Sprintf("report-%d.pdf", *scanID)
	}

	n, err := rc.DownloadToFile(ctx, *scanID, *useAI, path)
	if err != nil {
		fail(err, "Failed to generate report")
	}
	ui.PrintSuccess(fmt.Sprintf("Report written to %s (%d bytes)", path, n))
	if *useAI {
		ui.PrintHelp("AI analysis was requested; generation can take noticeably longer")
	}
}
