package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Output receives all status messages. Command results go to stdout, never here.
var Output io.Writer = os.Stderr

// renderer picks the color profile of stderr, so piped output stays plain
var renderer = lipgloss.NewRenderer(os.Stderr)

var (
	mu      sync.RWMutex
	quiet   bool
	noColor bool
)

// Palette
var (
	neonCyan   = lipgloss.Color("#00FFFF")
	neonYellow = lipgloss.Color("#FFFF00")
	neonGreen  = lipgloss.Color("#39FF14")
	alertRed   = lipgloss.Color("#FF0000")
)

// Color functions for terminal output
var (
	Cyan   = colorize(renderer.NewStyle().Foreground(neonCyan))
	Yellow = colorize(renderer.NewStyle().Foreground(neonYellow))
	Red    = colorize(renderer.NewStyle().Foreground(alertRed).Bold(true))
	Green  = colorize(renderer.NewStyle().Foreground(neonGreen))
	Dim    = colorize(renderer.NewStyle().Faint(true))
)

// SetQuietMode suppresses everything but errors
func SetQuietMode(q bool) {
	mu.Lock()
	defer mu.Unlock()
	quiet = q
}

// SetColor enables or disables styling
func SetColor(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	noColor = !enabled
}

func isQuiet() bool {
	mu.RLock()
	defer mu.RUnlock()
	return quiet
}

// colorize returns a function that renders text with style unless color is off
func colorize(style lipgloss.Style) func(string) string {
	return func(text string) string {
		mu.RLock()
		plain := noColor
		mu.RUnlock()
		if plain {
			return text
		}
		return style.Render(text)
	}
}

// PrintError prints an error message in red. Errors are shown even in quiet mode.
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		msg = msg + ": " + fmt.Sprintf("%v", args[0])
	}
	fmt.Fprintln(Output, Red("Error: "+msg))
}

// PrintSuccess prints a success message in green
func PrintSuccess(msg string) {
	if isQuiet() {
		return
	}
	fmt.Fprintln(Output, Green(msg))
}

// PrintInfo prints a label and value
func PrintInfo(label string, value string) {
	if isQuiet() {
		return
	}
	fmt.Fprintf(Output, "%s: %s\n", Cyan(label), Yellow(value))
}

// PrintWarning prints a warning message in yellow
func PrintWarning(msg string, args ...interface{}) {
	if isQuiet() {
		return
	}
	if len(args) > 0 {
		msg = msg + ": " + fmt.Sprintf("%v", args[0])
	}
	fmt.Fprintln(Output, Yellow("Warning: "+msg))
}
