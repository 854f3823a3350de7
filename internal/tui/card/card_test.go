package card

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/Iron-Ham/finboard/internal/availability"
	"github.com/Iron-Ham/finboard/internal/symbol"
	"github.com/Iron-Ham/finboard/internal/tui/styles"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func analyze(sym string, t symbol.Type, c availability.Category, opts ...availability.AnalyzeOption) availability.Info {
	return availability.New(nil).Analyze(sym, t, c, opts...)
}

func TestRender_Sections(t *testing.T) {
	info := analyze("XYZ", symbol.Unknown, availability.CategoryRealTime)
	out := Render(info, Options{Width: 100, Styles: styles.New(nil)})

	for _, want := range []string{
		"Symbol Not Recognized",
		"SYMBOL_RECOGNITION_ISSUE · error",
		"What you can do",
		"Alternative sources",
		"Try these symbols",
		"XYZ.NS",
		"Retry:",
		"Expected:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("card missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Sources attempted") {
		t.Error("empty sections should be omitted")
	}
	if strings.Contains(out, "Last successful fetch") {
		t.Error("empty fields should be omitted")
	}
}

func TestRender_Compact(t *testing.T) {
	info := analyze("AAPL", symbol.InternationalStock, availability.CategoryFees)
	out := Render(info, Options{Width: 100, Compact: true})

	if !strings.Contains(out, "Fees Not Applicable") {
		t.Errorf("compact card missing title:\n%s", out)
	}
	if strings.Contains(out, "What you can do") {
		t.Error("compact card should omit guidance")
	}
}

func TestRender_Width(t *testing.T) {
	info := analyze("RELIANCE", symbol.IndianStock, availability.CategoryRealTime,
		availability.WithNetworkAvailable(false),
		availability.WithLastSuccessfulFetch("2024-01-15 10:30"))

	for _, width := range []int{10, MinWidth, 72, 120} {
		out := Render(info, Options{Width: width})
		want := max(width, MinWidth)
		for i, line := range strings.Split(out, "\n") {
			if w := lipgloss.Width(line); w != want {
				t.Errorf("width %d: line %d is %d columns, want %d: %q", width, i, w, want, line)
			}
		}
		if !strings.Contains(out, "2024-01-15 10:30") {
			t.Errorf("width %d: last successful fetch missing", width)
		}
	}
}
