// Package terminal detects whether finboard is talking to a person and sets
// the color profile accordingly.
package terminal

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

const (
	envNoColor = "NO_COLOR"
	envCI      = "CI"
	envTerm    = "TERM"

	// DefaultWidth is used when the terminal size is unknown.
	DefaultWidth = 80
)

// Interactive reports whether f is a terminal and nothing in the environment
// asks for plain output. forcePlain comes from the --plain flag.
func Interactive(f *os.File, forcePlain bool) bool {
	if forcePlain || f == nil {
		return false
	}
	if envTruthy(envCI) || os.Getenv(envNoColor) != "" {
		return false
	}
	if strings.EqualFold(strings.TrimSpace(os.Getenv(envTerm)), "dumb") {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// ConfigureColor sets the lipgloss color profile: the detected profile when
// interactive, plain ASCII otherwise.
func ConfigureColor(interactive bool) {
	if interactive {
		lipgloss.SetColorProfile(termenv.ColorProfile())
		return
	}
	lipgloss.SetColorProfile(termenv.Ascii)
}

// Width returns the column count of f, or DefaultWidth when f is not a
// terminal.
func Width(f *os.File) int {
	if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
		return w
	}
	return DefaultWidth
}

func envTruthy(key string) bool {
	switch strings.TrimSpace(strings.ToLower(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
