// Command cli is the reconsole terminal client: it drives the scan
// engine (session, scan store, poller, notification bus) against a
// running backend.
package main

import (
	"fmt"
	"os"

	"github.com/reconsole/reconsole/pkg/ui"
)

func printUsage() {
	ui.PrintBanner()
	fmt.Println("Usage: reconsole <command> [flags]")
	fmt.Println()
	fmt.Println("Auth:")
	fmt.Println("  login          Log in and persist the session token")
	fmt.Println("  register       Create an account and log in")
	fmt.Println("  logout         Clear the persisted session")
	fmt.Println("  whoami         Show the authenticated identity")
	fmt.Println()
	fmt.Println("Scans:")
	fmt.Println("  scans          List scans, newest first")
	fmt.Println("  scan           Start a scan (-target required)")
	fmt.Println("  watch          Follow a running scan live")
	fmt.Println("  stop           Request cancellation of a running scan")
	fmt.Println("  rm             Delete a scan")
	fmt.Println()
	fmt.Println("Reports & settings:")
	fmt.Println("  reports        List generated reports")
	fmt.Println("  report         Generate and download a PDF report")
	fmt.Println("  settings       Show or update account settings")
	fmt.Println()
	fmt.Println("Other:")
	fmt.Println("  notifications  Show this invocation's notification ledger")
	fmt.Println("  version        Print version information")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  reconsole login -username alice")
	fmt.Println("  reconsole scan -target example.com -watch")
	fmt.Println("  reconsole watch 42 -metrics-port 9090")
	fmt.Println("  reconsole report -scan 42 -ai -o example.pdf")
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "login":
		runLogin()
	case "register":
		runRegister()
	case "logout":
		runLogout()
	case "whoami":
		runWhoami()
	case "scans", "list", "ls":
		runScans()
	case "scan", "start":
		runScanCreate()
	case "watch", "follow":
		runWatch()
	case "stop", "cancel":
		runStop()
	case "rm", "delete":
		runDelete()
	case "reports":
		runReports()
	case "report":
		runReport()
	case "settings":
		runSettings()
	case "notifications", "notifs":
		runNotifications()
	case "-v", "--version", "version":
		ui.PrintBanner()
		fmt.Printf("reconsole %s (commit %s, built %s)\n", ui.Version, ui.Commit, ui.BuildDate)
	case "-h", "--help", "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}
