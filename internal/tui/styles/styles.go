// Package styles holds the lipgloss styles shared by the finboard front ends.
package styles

import "github.com/charmbracelet/lipgloss"

// Step states understood by StepIcon and Styles.Step.
const (
	StepPending   = "pending"
	StepRunning   = "running"
	StepCompleted = "completed"
	StepFailed    = "failed"
)

// Styles is a set of styles derived from one ColorPalette.
type Styles struct {
	Palette *ColorPalette

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Text     lipgloss.Style
	Muted    lipgloss.Style
	Success  lipgloss.Style
	Error    lipgloss.Style
	Label    lipgloss.Style
	Bullet   lipgloss.Style

	// Card is the base availability card; pair it with SeverityColor for
	// the border.
	Card lipgloss.Style
}

// New builds Styles from p. A nil palette uses DefaultPalette.
func New(p *ColorPalette) *Styles {
	if p == nil {
		p = DefaultPalette()
	}
	return &Styles{
		Palette: p,
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Primary),
		Subtitle: lipgloss.NewStyle().
			Foreground(p.Muted).
			Italic(true),
		Text:    lipgloss.NewStyle().Foreground(p.Text),
		Muted:   lipgloss.NewStyle().Foreground(p.Muted),
		Success: lipgloss.NewStyle().Foreground(p.Secondary),
		Error:   lipgloss.NewStyle().Foreground(p.Error),
		Label: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Text),
		Bullet: lipgloss.NewStyle().
			Foreground(p.Muted).
			PaddingLeft(2),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1),
	}
}

// SeverityColor returns the palette color for a severity name ("info",
// "warning", "error" or "critical"). Unknown severities use Info.
func (s *Styles) SeverityColor(severity string) lipgloss.Color {
	switch severity {
	case "error", "critical":
		return s.Palette.Error
	case "warning":
		return s.Palette.Warning
	default:
		return s.Palette.Info
	}
}

// Severity returns a bold foreground style for severity.
func (s *Styles) Severity(severity string) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(s.SeverityColor(severity))
}

// Step returns the style for a step state.
func (s *Styles) Step(state string) lipgloss.Style {
	switch state {
	case StepRunning:
		return lipgloss.NewStyle().Foreground(s.Palette.Primary)
	case StepCompleted:
		return s.Success
	case StepFailed:
		return s.Error
	default:
		return s.Muted
	}
}

// StepIcon returns an icon for a step state.
func StepIcon(state string) string {
	switch state {
	case StepRunning:
		return "●"
	case StepCompleted:
		return "✓"
	case StepFailed:
		return "✗"
	default:
		return "○"
	}
}

var active = New(DefaultPalette())

// SetActiveTheme switches the styles returned by Active.
//
// Note: This function is not thread-safe. Call it during start-up before
// any rendering begins.
func SetActiveTheme(name ThemeName) {
	active = New(GetPalette(name))
}

// Active returns the styles of the active theme.
func Active() *Styles {
	return active
}
