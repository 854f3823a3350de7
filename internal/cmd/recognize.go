package cmd

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/finboard/internal/errors"
	"github.com/Iron-Ham/finboard/internal/symbol"
	"github.com/Iron-Ham/finboard/internal/tui/styles"
)

var recognizeCmd = &cobra.Command{
	Use:   "recognize <symbol>...",
	Short: "Classify symbols and show their data sources",
	Long: `Classify each symbol as an Indian or international stock, ETF or
mutual fund, and show the normalized symbol and the data sources tried for it.

With no arguments the configured watchlist is used. --match keeps only the
symbols matching a glob pattern, e.g. "*.NS" or "NIFTY*".`,
	RunE: runRecognize,
}

var (
	recognizeSuggest bool
	recognizeMatch   string
)

func init() {
	recognizeCmd.Flags().BoolVar(&recognizeSuggest, "suggest", false, "show format corrections for unknown symbols")
	recognizeCmd.Flags().StringVarP(&recognizeMatch, "match", "m", "", "only show symbols matching a glob pattern")
	rootCmd.AddCommand(recognizeCmd)
}

func runRecognize(cmd *cobra.Command, args []string) error {
	symbols := args
	if len(symbols) == 0 {
		symbols = rt.cfg.Dashboard.Watchlist
	}
	if len(symbols) == 0 {
		return errors.NewValidationError("no symbols given and the watchlist is empty")
	}
	if recognizeMatch != "" {
		g, err := glob.Compile(strings.ToUpper(recognizeMatch))
		if err != nil {
			return errors.NewValidationError("invalid pattern").
				WithField("match").WithValue(recognizeMatch).WithCause(err)
		}
		var matched []string
		for _, sym := range symbols {
			if g.Match(symbol.Normalize(sym)) {
				matched = append(matched, sym)
			}
		}
		if len(matched) == 0 {
			return errors.NewValidationError("no symbols match").
				WithField("match").WithValue(recognizeMatch)
		}
		symbols = matched
	}

	s := styles.Active()
	r := symbol.NewRecognizer(rt.logger)
	out := cmd.OutOrStdout()

	headers := []string{"Symbol", "Type", "Normalized", "Exchange", "Sources", "Confidence"}
	var rows [][]string
	var unknown []symbol.Info
	for _, sym := range symbols {
		info := r.Recognize(sym)
		if info.Type == symbol.Unknown {
			unknown = append(unknown, info)
		}
		sources := make([]string, 0, 3)
		for _, src := range symbol.SourcePriority(info) {
			sources = append(sources, src.DisplayName())
		}
		rows = append(rows, []string{
			info.Original,
			info.Type.DisplayName(),
			info.Normalized,
			valueOr(info.Exchange, "-"),
			strings.Join(sources, ", "),
			fmt.Sprintf("%.0f%%", info.Confidence*100),
		})
	}
	fmt.Fprintln(out, renderTable(s, headers, rows))

	if recognizeSuggest {
		for _, info := range unknown {
			if suggestions := symbol.SuggestCorrections(info.Original); len(suggestions) > 0 {
				fmt.Fprintf(out, "%s %s\n", s.Label.Render(info.Original+":"), strings.Join(suggestions, ", "))
			}
		}
	}
	return nil
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
