// Package card renders an availability explanation as a bordered terminal
// card, colored by severity.
package card

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/finboard/internal/availability"
	"github.com/Iron-Ham/finboard/internal/tui/styles"
	"github.com/Iron-Ham/finboard/internal/util"
)

// MinWidth is the narrowest card that still renders its sections legibly.
const MinWidth = 40

// Options controls card rendering.
type Options struct {
	// Width is the outer width including the border. Values below MinWidth
	// are raised to MinWidth.
	Width int
	// Styles defaults to styles.Active().
	Styles *styles.Styles
	// Compact renders only the header and description.
	Compact bool
}

// Render draws info as a card.
func Render(info availability.Info, opts Options) string {
	s := opts.Styles
	if s == nil {
		s = styles.Active()
	}
	width := max(opts.Width, MinWidth)
	// Border (2) and horizontal padding (2).
	inner := width - 4

	sev := info.Severity.String()
	header := s.Severity(sev).Render(util.TruncateANSI(info.Icon+"  "+info.Title, inner))

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(s.Muted.Render(util.TruncateANSI(fmt.Sprintf("%s · %s", info.Reason.Code(), sev), inner)))
	b.WriteString("\n\n")
	b.WriteString(wrap(s.Text, info.Description, inner))

	if !opts.Compact {
		writeList(&b, s, "What you can do", info.Guidance, inner)
		writeList(&b, s, "Alternative sources", info.AlternativeSources, inner)
		writeList(&b, s, "Try these symbols", info.SymbolSuggestions, inner)
		writeList(&b, s, "Sources attempted", info.SourcesAttempted, inner)
		writeField(&b, s, "Retry", info.RetrySuggestion, inner)
		writeField(&b, s, "Expected", info.ExpectedAvailability, inner)
		writeField(&b, s, "Last successful fetch", info.LastSuccessfulFetch, inner)
	}

	return s.Card.
		BorderForeground(s.SeverityColor(sev)).
		Width(width - 2).
		Render(b.String())
}

func writeList(b *strings.Builder, s *styles.Styles, label string, items []string, width int) {
	if len(items) == 0 {
		return
	}
	b.WriteString("\n\n")
	b.WriteString(s.Label.Render(label))
	for _, item := range items {
		b.WriteString("\n")
		b.WriteString(s.Bullet.Render(wrap(s.Text, "• "+item, width-2)))
	}
}

func writeField(b *strings.Builder, s *styles.Styles, label, value string, width int) {
	if value == "" {
		return
	}
	b.WriteString("\n\n")
	b.WriteString(s.Label.Render(label + ": "))
	b.WriteString("\n")
	b.WriteString(wrap(s.Muted, value, width))
}

// wrap word-wraps text to width columns using style.
func wrap(style lipgloss.Style, text string, width int) string {
	return style.Width(width).Render(text)
}
