package ui

import "fmt"

// ANSI color codes for diff and status output.
const (
	colorAdded   = 32  // green
	colorRemoved = 31  // red
	colorChanged = 33  // yellow
	colorMuted   = 245 // medium gray (256-color)
	colorAccent  = 74  // blue (256-color)
)

var noColor bool

// RenderAdded returns s styled as an added diff line (green).
func RenderAdded(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[%dm%s\x1b[0m", colorAdded, s)
}

// RenderRemoved returns s styled as a removed diff line (red).
func RenderRemoved(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[%dm%s\x1b[0m", colorRemoved, s)
}

// RenderChanged returns s styled as a changed diff line (yellow).
func RenderChanged(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[%dm%s\x1b[0m", colorChanged, s)
}

// RenderAccent returns s in the accent (blue) color, used for headings.
func RenderAccent(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorAccent, s)
}

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorMuted, s)
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}
