package ui

import (
	"fmt"
	"os"
	"strings"
)

// Version information - overridable at build time via ldflags:
// go build -ldflags "-X github.com/reconsole/reconsole/pkg/ui.Version=1.0.0"
var (
	Version   = "0.9.2"
	BuildDate = "dev"
	Commit    = "dev"
)

// UserAgent returns the standard User-Agent string for API requests.
func UserAgent() string {
	return fmt.Sprintf("reconsole/%s", Version)
}

const bannerSeparator = "________________________________________________"

const miniBanner = `
________________________________________________

 reconsole v%s
________________________________________________`

// PrintBanner prints the minimal banner to stderr.
func PrintBanner() {
	fmt.Fprintf(os.Stderr, "%s\n\n", BannerStyle.Render(fmt.Sprintf(miniBanner, Version)))
}

// printOption prints a configuration option in ffuf/nuclei style.
// Format:  :: Option              : Value
func printOption(name, value string) {
	fmt.Fprintf(os.Stderr, " :: %-20s : %s\n", LabelStyle.Render(name), ValueStyle.Render(value))
}

// PrintConfigBanner shows the active settings before a long-running
// command starts, in a fixed display order.
func PrintConfigBanner(options map[string]string) {
	order := []string{"Server", "Target", "Type", "Modules", "Poll Interval", "Timeout", "Session File"}
	printed := make(map[string]bool)
	for _, name := range order {
		if value, ok := options[name]; ok && value != "" {
			printOption(name, value)
			printed[name] = true
		}
	}
	for name, value := range options {
		if !printed[name] && value != "" {
			printOption(name, value)
		}
	}
	fmt.Fprintf(os.Stderr, "%s\n\n", DividerStyle.Render(bannerSeparator))
}

// PrintDivider prints a stylized divider (to stderr).
func PrintDivider() {
	fmt.Fprintln(os.Stderr, DividerStyle.Render(strings.Repeat("-", 60)))
}

// PrintSection prints a section header (to stderr).
func PrintSection(title string) {
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, SectionStyle.Render("> "+title))
	PrintDivider()
}

// PrintSuccess prints a success message (to stderr).
func PrintSuccess(message string) {
	fmt.Fprintln(os.Stderr, PassStyle.Render("  [+] "+message))
}

// PrintError prints an error message (to stderr).
func PrintError(message string) {
	fmt.Fprintln(os.Stderr, FailStyle.Render("  [X] "+message))
}

// PrintWarning prints a warning message (to stderr).
func PrintWarning(message string) {
	fmt.Fprintln(os.Stderr, WarnStyle.Render("  [!] "+message))
}

// PrintInfo prints an info message (to stderr).
func PrintInfo(message string) {
	fmt.Fprintf(os.Stderr, "  %s %s\n", SpinnerStyle.Render("*"), message)
}

// PrintHelp prints a hint line (to stderr).
func PrintHelp(text string) {
	fmt.Fprintln(os.Stderr, HelpStyle.Render("  [i] "+text))
}
