package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/reconsole/reconsole/pkg/jsonutil"
	"github.com/reconsole/reconsole/pkg/scans"
	"github.com/reconsole/reconsole/pkg/ui"
)

func runScans() {
	fs := flag.NewFlagSet("scans", flag.ExitOnError)
	var cf commonFlags
	cf.register(fs)
	skip := fs.Int("skip", 0, "Pagination offset")
	limit := fs.Int("limit", 100, "Pagination page size")
	asJSON := fs.Bool("json", false, "Emit raw JSON")
	parseFlags(fs)

	a := cf.mustBuild()
	ctx, cancel := signalContext()
	defer cancel()
	a.requireAuth(ctx)

	list, err := a.scans.FetchAll(ctx, *skip, *limit)
	if err != nil {
		fail(err, "Failed to fetch scans")
	}
	if *asJSON {
		printJSON(list)
		return
	}
	if len(list) == 0 {
		ui.PrintInfo("No scans yet - start one with 'reconsole scan -target example.com'")
		return
	}
	fmt.Print(ui.ScanTable(list))
}

func runScanCreate() {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	var cf commonFlags
	cf.register(fs)
	target := fs.String("target", "", "Scan target (domain or URL)")
	modules := fs.String("modules", "", "Comma-separated modules to run (default: waf,port,subdo,cms,tech,dir)")
	proxy := fs.String("proxy", "", "Proxy URL for outbound module traffic")
	userAgent := fs.String("scan-user-agent", "", "User-Agent the scanner modules present")
	tor := fs.Bool("tor", false, "Route module traffic through Tor")
	watch := fs.Bool("watch", false, "Follow the scan after starting it")
	parseFlags(fs)

	if *target == "" && fs.NArg() > 0 {
		*target = fs.Arg(0)
	}
	if *target == "" {
		ui.PrintError("Target required (-target example.com)")
		os.Exit(2)
	}

	opts, err := parseOptions(*modules, *proxy, *userAgent, *tor)
	if err != nil {
		ui.PrintError(err.Error())
		os.Exit(2)
	}

	a := cf.mustBuild()
	ctx, cancel := signalContext()
	defer cancel()
	a.requireAuth(ctx)

	ui.PrintConfigBanner(map[string]string{
		"Server":  a.client.BaseURL(),
		"Target":  *target,
		"Modules": strings.Join(opts.Modules(), ","),
	})

	created, err := a.scans.Create(ctx, *target, opts)
	if err != nil {
		fail(err, "Failed to start scan")
	}
	ui.PrintSuccess(fmt.Sprintf("Scan #%d started on %s", created.ID, created.Target))

	if *watch {
		watchScan(ctx, a, created.ID, opts.Modules(), cf.metricsPort)
		return
	}
	ui.PrintHelp(fmt.Sprintf("follow it with 'reconsole watch %d'", created.ID))
}

func runStop() {
	fs := flag.NewFlagSet("stop", flag.ExitOnError)
	var cf commonFlags
	cf.register(fs)
	id := fs.Int("id", 0, "Scan id")
	parseFlags(fs)

	a := cf.mustBuild()
	ctx, cancel := signalContext()
	defer cancel()
	a.requireAuth(ctx)

	scanID := scanIDArg(fs, *id)
	snap, err := a.scans.Stop(ctx, scanID)
	if err != nil {
		fail(err, "Failed to stop scan")
	}
	ui.PrintSuccess(fmt.Sprintf("Scan #%d is %s", snap.ID, snap.Status))
}

func runDelete() {
	fs := flag.NewFlagSet("rm", flag.ExitOnError)
	var cf commonFlags
	cf.register(fs)
	id := fs.Int("id", 0, "Scan id")
	parseFlags(fs)

	a := cf.mustBuild()
	ctx, cancel := signalContext()
	defer cancel()
	a.requireAuth(ctx)

	scanID := scanIDArg(fs, *id)
	if err := a.scans.Delete(ctx, scanID); err != nil {
		fail(err, "Failed to delete scan")
	}
	ui.PrintSuccess(fmt.Sprintf("Scan #%d deleted", scanID))
}

// parseOptions maps the -modules CSV onto the options payload. An
// empty list keeps the backend defaults.
func parseOptions(csv, proxy, userAgent string, tor bool) (scans.Options, error) {
	opts := scans.DefaultOptions()
	if csv != "" {
		opts = scans.Options{}
		for _, m := range strings.Split(csv, ",") {
			switch strings.TrimSpace(m) {
			case "waf":
				opts.WAF = true
			case "port":
				opts.Port = true
			case "subdo":
				opts.Subdo = true
			case "cms":
				opts.CMS = true
			case "tech":
				opts.Tech = true
			case "dir":
				opts.Dir = true
			case "wp":
				opts.WP = true
			case "":
			default:
				return opts, fmt.Errorf("unknown module %q (known: %s)", m, strings.Join(scans.AllModules, ","))
			}
		}
	}
	if proxy != "" {
		opts.Proxy = &proxy
	}
	if userAgent != "" {
		opts.UserAgent = &userAgent
	}
	opts.UseTor = tor
	return opts, nil
}

func printJSON(v any) {
	b, err := jsonutil.MarshalIndent(v, "  ")
	if err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}
	fmt.Println(string(b))
}
