package main

import (
	"strings"
	"testing"

	"github.com/reconsole/reconsole/pkg/scans"
)

func TestParseOptions_Defaults(t *testing.T) {
	opts, err := parseOptions("", "", "", false)
	if err != nil {
		t.Fatalf("parseOptions: %v", err)
	}
	got := strings.Join(opts.Modules(), ",")
	if got != "waf,port,subdo,cms,tech,dir" {
		t.Fatalf("default modules = %q", got)
	}
	if opts.UseTor || opts.Proxy != nil {
		t.Fatalf("opts = %+v", opts)
	}
}

func TestParseOptions_ExplicitList(t *testing.T) {
	opts, err := parseOptions("wp, waf", "", "", false)
	if err != nil {
		t.Fatalf("parseOptions: %v", err)
	}
	// Execution order, not flag order.
	if got := strings.Join(opts.Modules(), ","); got != "waf,wp" {
		t.Fatalf("modules = %q", got)
	}
}

func TestParseOptions_UnknownModule(t *testing.T) {
	if _, err := parseOptions("waf,nmap", "", "", false); err == nil {
		t.Fatal("expected error for unknown module")
	}
}

func TestParseOptions_ProxyAndAgent(t *testing.T) {
	opts, err := parseOptions("", "socks5://127.0.0.1:9050", "curl/8.0", true)
	if err != nil {
		t.Fatalf("parseOptions: %v", err)
	}
	if opts.Proxy == nil || *opts.Proxy != "socks5://127.0.0.1:9050" {
		t.Fatalf("proxy = %v", opts.Proxy)
	}
	if opts.UserAgent == nil || *opts.UserAgent != "curl/8.0" {
		t.Fatalf("user agent = %v", opts.UserAgent)
	}
	if !opts.UseTor {
		t.Fatal("UseTor not set")
	}
}

func TestParseOptions_AllKnownModulesAccepted(t *testing.T) {
	csv := strings.Join(scans.AllModules, ",")
	opts, err := parseOptions(csv, "", "", false)
	if err != nil {
		t.Fatalf("parseOptions(%q): %v", csv, err)
	}
	if got := strings.Join(opts.Modules(), ","); got != csv {
		t.Fatalf("modules = %q, want %q", got, csv)
	}
}
