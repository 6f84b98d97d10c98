package ui

import (
	"time"

	"github.com/reconsole/reconsole/pkg/duration"
)

// Spinner holds spinner animation frames.
type Spinner struct {
	Frames   []string
	Interval time.Duration
}

var (
	spinnerDots = Spinner{
		Frames:   []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		Interval: 80 * time.Millisecond,
	}
	spinnerLine = Spinner{
		Frames:   []string{"-", "\\", "|", "/"},
		Interval: duration.SpinnerFrame,
	}
)

// DefaultSpinner returns a braille-dot spinner on Unicode terminals,
// ASCII line spinner otherwise.
func DefaultSpinner() Spinner {
	if UnicodeTerminal() {
		return spinnerDots
	}
	return spinnerLine
}

// Frame returns the spinner frame for tick n.
func (s Spinner) Frame(n int) string {
	if len(s.Frames) == 0 {
		return ""
	}
	return s.Frames[n%len(s.Frames)]
}
