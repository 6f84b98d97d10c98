package main

import (
	"flag"
	"fmt"

	"github.com/reconsole/reconsole/pkg/settings"
	"github.com/reconsole/reconsole/pkg/ui"
)

func runSettings() {
	fs := flag.NewFlagSet("settings", flag.ExitOnError)
	var cf commonFlags
	cf.register(fs)
	setKey := fs.String("set-gemini-key", "", "Store a Gemini API key for AI report analysis")
	delKey := fs.Bool("delete-gemini-key", false, "Remove the stored Gemini API key")
	parseFlags(fs)

	a := cf.mustBuild()
	ctx, cancel := signalContext()
	defer cancel()
	a.requireAuth(ctx)

	sc := settings.NewClient(a.client)

	switch {
	case *setKey != "":
		st, err := sc.SetGeminiKey(ctx, *setKey)
		if err != nil {
			fail(err, "Failed to store key")
		}
		ui.PrintSuccess("Gemini key stored")
		printSettings(st)
	case *delKey:
		if err := sc.DeleteGeminiKey(ctx); err != nil {
			fail(err, "Failed to remove key")
		}
		ui.PrintSuccess("Gemini key removed")
	default:
		st, err := sc.Get(ctx)
		if err != nil {
			fail(err, "Failed to fetch settings")
		}
		printSettings(st)
	}
}

func printSettings(st *settings.Settings) {
	if !st.HasGeminiKey {
		fmt.Println("  Gemini key: not configured")
		ui.PrintHelp("set one with 'reconsole settings -set-gemini-key <key>' to enable -ai reports")
		return
	}
	preview := "****"
	if st.GeminiKeyPreview != nil {
		preview = *st.GeminiKeyPreview
	}
	fmt.Printf("  Gemini key: configured (%s)\n", preview)
}
