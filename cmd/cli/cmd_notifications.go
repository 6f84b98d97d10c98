package main

import (
	"flag"
	"fmt"

	"github.com/reconsole/reconsole/pkg/ui"
)

// The notification ledger lives in process memory, so this command
// refreshes the scan collection first: any transitions the engine
// detects against the previous fetch land in the ledger it then
// prints. Long-lived ledgers belong to watch mode.
func runNotifications() {
	fs := flag.NewFlagSet("notifications", flag.ExitOnError)
	var cf commonFlags
	cf.register(fs)
	parseFlags(fs)

	a := cf.mustBuild()
	ctx, cancel := signalContext()
	defer cancel()
	a.requireAuth(ctx)

	if _, err := a.scans.FetchAll(ctx, 0, 100); err != nil {
		fail(err, "Failed to refresh scans")
	}

	list := a.bus.List()
	fmt.Print(ui.NotificationList(list))
	if n := a.bus.UnreadCount(); n > 0 {
		ui.PrintHelp(fmt.Sprintf("%d unread", n))
		a.bus.MarkAllRead()
	}
}
