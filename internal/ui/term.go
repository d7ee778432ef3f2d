package ui

import (
	"os"

	"github.com/fatih/color"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Color definitions for consistent styling across the UI.
var (
	// Fixed tasks: bold cyan, they are the ones that can go overdue
	colorFixed = color.New(color.FgCyan, color.Bold)

	// Flexible tasks: plain
	colorFlexible = color.New(color.FgWhite)

	// Active and upcoming dashboard entries
	colorActive   = color.New(color.FgGreen, color.Bold)
	colorUpcoming = color.New(color.FgBlue)

	// Overdue: red to make it pop
	colorOverdue = color.New(color.FgRed, color.Bold)

	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Muted: for secondary information and completed tasks
	colorMuted = color.New(color.FgWhite, color.Faint)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // sensible default
	}
	return width
}

// noColorEnv reports whether NO_COLOR or CLICOLOR=0 ask for plain output.
func noColorEnv() bool {
	return termenv.EnvNoColor()
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

// EnableColor enables color output (if terminal supports it).
func EnableColor() {
	color.NoColor = false
}

func formatFixed(s string) string    { return colorFixed.Sprint(s) }
func formatFlexible(s string) string { return colorFlexible.Sprint(s) }
func formatActive(s string) string   { return colorActive.Sprint(s) }
func formatUpcoming(s string) string { return colorUpcoming.Sprint(s) }
func formatOverdue(s string) string  { return colorOverdue.Sprint(s) }
func formatHeader(s string) string   { return colorHeader.Sprint(s) }
func formatMuted(s string) string    { return colorMuted.Sprint(s) }
