package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/finboard/internal/availability"
	"github.com/Iron-Ham/finboard/internal/errors"
	"github.com/Iron-Ham/finboard/internal/event"
	"github.com/Iron-Ham/finboard/internal/symbol"
	"github.com/Iron-Ham/finboard/internal/tui/card"
)

var explainCmd = &cobra.Command{
	Use:   "explain <symbol>",
	Short: "Explain why data for a symbol is unavailable",
	Long: `Explain why a data category is unavailable for a symbol.

The symbol type is recognized from the symbol unless --type is given. The
diagnosis considers the category, network state, the sources that were tried
and the last error they returned.

Examples:
  finboard explain RELIANCE.NS --category fees
  finboard explain 120503 --category financial
  finboard explain VOD.L --source Failed --error "HTTP 429"
  finboard explain VOD.L --source "AMFI Direct"
  finboard explain AAPL --offline --last-fetch "2026-10-13 15:30"`,
	Args: cobra.ExactArgs(1),
	RunE: runExplain,
}

var (
	explainType      string
	explainCategory  string
	explainSources   []string
	explainError     string
	explainOffline   bool
	explainLastFetch string
	explainOutput    string
	explainCompact   bool
)

func init() {
	explainCmd.Flags().StringVarP(&explainType, "type", "t", "", "symbol type (default: recognized from the symbol)")
	explainCmd.Flags().StringVarP(&explainCategory, "category", "C", string(availability.CategoryRealTime), "data category")
	explainCmd.Flags().StringArrayVarP(&explainSources, "source", "s", nil, `source attempted, or "Failed", "Error", "Not available" for an empty result (repeatable)`)
	explainCmd.Flags().StringVar(&explainError, "error", "", "last error returned by a data source")
	explainCmd.Flags().BoolVar(&explainOffline, "offline", false, "treat the network as unavailable")
	explainCmd.Flags().StringVar(&explainLastFetch, "last-fetch", "", "time of the last successful fetch")
	explainCmd.Flags().StringVarP(&explainOutput, "output", "o", "card", "output format: card or yaml")
	explainCmd.Flags().BoolVar(&explainCompact, "compact", false, "render only the card header and description")
	rootCmd.AddCommand(explainCmd)
}

func runExplain(cmd *cobra.Command, args []string) error {
	sym := strings.TrimSpace(args[0])
	if sym == "" {
		return errors.NewValidationError("symbol must not be empty").WithField("symbol")
	}
	if explainOutput != "card" && explainOutput != "yaml" {
		return errors.NewValidationError("unknown output format (want card or yaml)").
			WithField("output").WithValue(explainOutput)
	}

	var t symbol.Type
	if explainType != "" {
		parsed, err := symbol.ParseType(explainType)
		if err != nil {
			return err
		}
		t = parsed
	} else {
		t = symbol.NewRecognizer(rt.logger).Recognize(sym).Type
	}

	analyzer := availability.New(rt.logger,
		availability.WithBus(rt.bus),
		availability.WithMaxSuggestions(rt.cfg.Availability.MaxSuggestions))

	subID := rt.bus.Subscribe(event.TypeAvailabilityAnalyzed, func(e event.Event) {
		if e, ok := e.(event.AvailabilityAnalyzedEvent); ok {
			rt.logger.Info("explained unavailability",
				"symbol", e.Symbol, "category", e.Category, "reason", e.Reason, "severity", e.Severity)
		}
	})
	defer rt.bus.Unsubscribe(subID)

	opts := []availability.AnalyzeOption{
		availability.WithNetworkAvailable(!explainOffline),
		availability.WithLastError(explainError),
		availability.WithLastSuccessfulFetch(explainLastFetch),
	}
	if len(explainSources) > 0 {
		opts = append(opts, availability.WithSourcesAttempted(explainSources...))
	}
	info := analyzer.Analyze(sym, t, availability.ParseCategory(explainCategory), opts...)

	out := cmd.OutOrStdout()
	if explainOutput == "yaml" {
		data, err := yaml.Marshal(info)
		if err != nil {
			return fmt.Errorf("encoding explanation: %w", err)
		}
		_, err = out.Write(data)
		return err
	}

	fmt.Fprintln(out, card.Render(info, card.Options{Width: min(outWidth(cmd), 80), Compact: explainCompact}))
	return nil
}
