package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/reconsole/reconsole/pkg/apiclient"
	"github.com/reconsole/reconsole/pkg/config"
	"github.com/reconsole/reconsole/pkg/notify"
	"github.com/reconsole/reconsole/pkg/scans"
	"github.com/reconsole/reconsole/pkg/session"
	"github.com/reconsole/reconsole/pkg/telemetry"
	"github.com/reconsole/reconsole/pkg/ui"
)

// commonFlags are shared by every subcommand. Register on the
// subcommand's FlagSet, then build() the wired application.
type commonFlags struct {
	configPath  string
	server      string
	sessionFile string
	noColor     bool
	verbose     bool
	insecure    bool
	metricsPort int
}

func (cf *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&cf.configPath, "config", "", "Config file path (default: user config dir)")
	fs.StringVar(&cf.server, "server", "", "Backend URL (overrides config)")
	fs.StringVar(&cf.sessionFile, "session-file", "", "Session token file (overrides config)")
	fs.BoolVar(&cf.noColor, "no-color", false, "Disable colored output")
	fs.BoolVar(&cf.verbose, "verbose", false, "Enable debug logging")
	fs.BoolVar(&cf.insecure, "insecure", false, "Skip TLS certificate verification")
	fs.IntVar(&cf.metricsPort, "metrics-port", 0, "Serve Prometheus metrics on this port (0 disables)")
}

// app is the fully wired engine: transport, session, scan store,
// notification bus, optional metrics. One per invocation.
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	client  *apiclient.Client
	session *session.Store
	bus     *notify.Bus
	scans   *scans.Store
	metrics *telemetry.Metrics
}

// build loads configuration, applies flag overrides, and wires the
// engine together. The session store is constructed before the
// transport so it can serve as the transport's token source, then
// handed the transport for its own identity calls.
func (cf *commonFlags) build() (*app, error) {
	cfg, err := config.Load(cf.configPath)
	if err != nil {
		return nil, err
	}
	if cf.server != "" {
		cfg.ServerURL = cf.server
	}
	if cf.sessionFile != "" {
		cfg.SessionFile = cf.sessionFile
	}
	if cf.insecure {
		cfg.InsecureSkipVerify = true
	}
	if cf.noColor {
		cfg.NoColor = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ui.SetNoColor(cfg.NoColor)

	level := slog.LevelWarn
	if cf.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	sess, err := session.NewStore(cfg.SessionFile, logger)
	if err != nil {
		return nil, err
	}

	var metrics *telemetry.Metrics
	if cf.metricsPort > 0 {
		metrics = telemetry.New()
	}

	acfg := apiclient.DefaultConfig()
	acfg.BaseURL = cfg.ServerURL
	acfg.Timeout = cfg.Timeout
	acfg.RateLimit = cfg.RateLimit
	acfg.InsecureSkipVerify = cfg.InsecureSkipVerify
	acfg.UserAgent = ui.UserAgent()

	opts := []apiclient.Option{
		apiclient.WithTokenSource(sess),
		apiclient.WithAuthRejectHandler(func() {
			sess.Invalidate()
			ui.PrintError("Session expired or invalid - run 'reconsole login'")
		}),
		apiclient.WithLogger(logger),
	}
	if metrics != nil {
		opts = append(opts, apiclient.WithObserver(metrics))
	}
	client, err := apiclient.New(acfg, opts...)
	if err != nil {
		return nil, err
	}
	sess.SetClient(client)

	bus := notify.NewBus()
	bus.RegisterHook(notify.NewSlogHook(logger))
	if metrics != nil {
		bus.RegisterHook(metrics)
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		client:  client,
		session: sess,
		bus:     bus,
		scans:   scans.NewStore(client, bus, logger),
		metrics: metrics,
	}, nil
}

// mustBuild is build with the standard CLI failure path.
func (cf *commonFlags) mustBuild() *app {
	a, err := cf.build()
	if err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}
	return a
}

// requireAuth validates the persisted session against the backend and
// exits when it is missing or rejected.
func (a *app) requireAuth(ctx context.Context) {
	if !a.session.CheckAuth(ctx) {
		msg := a.session.LastError()
		if msg == "" {
			msg = "Not logged in - run 'reconsole login'"
		}
		ui.PrintError(msg)
		os.Exit(1)
	}
}

// fail prints the friendliest available message for err and exits.
func fail(err error, fallback string) {
	ui.PrintError(apiclient.ErrorMessage(err, fallback))
	os.Exit(1)
}

// parseFlags parses os.Args[2:] into fs, exiting on error.
func parseFlags(fs *flag.FlagSet) {
	if err := fs.Parse(os.Args[2:]); err != nil {
		os.Exit(2)
	}
}

// scanIDArg reads the scan id from -id or the first positional arg.
func scanIDArg(fs *flag.FlagSet, id int) int {
	if id > 0 {
		return id
	}
	if fs.NArg() > 0 {
		var n int
		if _, err := fmt.Sscanf(fs.Arg(0), "%d", &n); err == nil && n > 0 {
			return n
		}
	}
	ui.PrintError("Scan id required (use -id or a positional argument)")
	os.Exit(2)
	return 0
}
