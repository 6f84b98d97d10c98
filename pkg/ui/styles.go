package ui

import "github.com/charmbracelet/lipgloss"

// Color palette. Scan status colors follow the same conventions as the
// web console so terminal and browser views read the same.
var (
	// Brand colors
	Primary   = lipgloss.Color("#7D56F4") // Purple
	Secondary = lipgloss.Color("#00D4AA") // Teal

	// Scan status colors
	Pending   = lipgloss.Color("#6B7280") // Gray
	Running   = lipgloss.Color("#4D96FF") // Blue
	Completed = lipgloss.Color("#00D26A") // Green
	Failed    = lipgloss.Color("#FF3838") // Red
	Cancelled = lipgloss.Color("#FFB800") // Amber

	// Notification kind colors
	Info    = lipgloss.Color("#4D96FF")
	Success = lipgloss.Color("#00D26A")
	Warning = lipgloss.Color("#FFB800")
	Error   = lipgloss.Color("#FF3838")

	Muted = lipgloss.Color("#6B7280")
)

// Pre-configured styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(Primary).
			Padding(0, 1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	BannerStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	VersionStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	SectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Bold(true).
			MarginTop(1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(Muted)

	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Bold(true)

	BracketStyle = lipgloss.NewStyle().
			Foreground(Muted)

	PassStyle = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	FailStyle = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	WarnStyle = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)

	DividerStyle = lipgloss.NewStyle().
			Foreground(Muted)

	HelpStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	URLStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Underline(true)

	ProgressFullStyle = lipgloss.NewStyle().
				Foreground(Primary)

	ProgressEmptyStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#3B3B4F"))

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(Primary)
)

// StatusStyle returns the style for a scan or module status string
// ("pending", "running", "completed", "failed", "cancelled").
func StatusStyle(status string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)
	switch status {
	case "running":
		return base.Foreground(Running)
	case "completed":
		return base.Foreground(Completed)
	case "failed":
		return base.Foreground(Failed)
	case "cancelled":
		return base.Foreground(Cancelled)
	case "pending":
		return base.Foreground(Pending)
	default:
		return base.Foreground(Muted)
	}
}

// KindStyle returns the style for a notification kind
// ("info", "success", "warning", "error").
func KindStyle(kind string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)
	switch kind {
	case "success":
		return base.Foreground(Success)
	case "warning":
		return base.Foreground(Warning)
	case "error":
		return base.Foreground(Error)
	case "info":
		return base.Foreground(Info)
	default:
		return base.Foreground(Muted)
	}
}
