package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/finboard/internal/availability"
	"github.com/Iron-Ham/finboard/internal/symbol"
	"github.com/Iron-Ham/finboard/internal/tui/styles"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Show data categories and which symbol types provide them",
	Args:  cobra.NoArgs,
	RunE:  runCategories,
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}

func runCategories(cmd *cobra.Command, args []string) error {
	s := styles.Active()
	out := cmd.OutOrStdout()

	// Unknown symbols are left out; they only provide real-time data on a
	// best effort basis.
	types := symbol.AllTypes()[:len(symbol.AllTypes())-1]

	headers := []string{"Category"}
	for _, t := range types {
		headers = append(headers, t.DisplayName())
	}
	var rows [][]string
	for _, c := range availability.AllCategories() {
		row := []string{c.DisplayName()}
		for _, t := range types {
			mark := "·"
			if availability.IsCategorySupported(t, c) {
				mark = "✓"
			}
			row = append(row, mark)
		}
		rows = append(rows, row)
	}

	fmt.Fprintln(out, s.Title.Render("Data categories"))
	fmt.Fprintln(out, renderTable(s, headers, rows))
	fmt.Fprintln(out)
	for _, c := range availability.AllCategories() {
		fmt.Fprintf(out, "%s %s\n", s.Label.Render(c.DisplayName()+":"), availability.CategoryExplanation(c))
	}
	return nil
}

// renderTable draws a rounded table with a bold header and dimmed odd rows.
func renderTable(s *styles.Styles, headers []string, rows [][]string) string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(s.Palette.Primary).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Foreground(s.Palette.Text).Padding(0, 1)
	oddStyle := cellStyle.Foreground(s.Palette.Muted)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(s.Palette.Border)).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row%2 == 0:
				return cellStyle
			default:
				return oddStyle
			}
		}).
		Headers(headers...).
		Rows(rows...)

	return strings.TrimRight(t.String(), "\n")
}
