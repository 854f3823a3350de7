package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/finboard/internal/availability"
	"github.com/Iron-Ham/finboard/internal/dashboard"
	"github.com/Iron-Ham/finboard/internal/errors"
	"github.com/Iron-Ham/finboard/internal/event"
	"github.com/Iron-Ham/finboard/internal/startup"
	"github.com/Iron-Ham/finboard/internal/tui/splash"
	"github.com/Iron-Ham/finboard/internal/tui/styles"
)

var startupCmd = &cobra.Command{
	Use:   "startup",
	Short: "Run the dashboard start-up sequence",
	Long: `Run the dashboard's start-up plan: validate the configuration, prepare
the data directory, recognize the watchlist, update the symbol cache, probe
the network and prepare the widgets.

Progress is shown as an animated splash screen when stdout is a terminal and
as plain lines otherwise. A failed step does not stop the run; the command
exits non-zero when any step failed.

Examples:
  finboard startup
  finboard startup --no-splash
  finboard startup --fail network --slow cache --delay 2s`,
	Args: cobra.NoArgs,
	RunE: runStartup,
}

var (
	startupFail     []string
	startupSlow     []string
	startupDelay    time.Duration
	startupTimeout  time.Duration
	startupNoSplash bool
)

func init() {
	startupCmd.Flags().StringSliceVar(&startupFail, "fail", nil, "make the named step fail (repeatable)")
	startupCmd.Flags().StringSliceVar(&startupSlow, "slow", nil, "delay the named step before it runs (repeatable)")
	startupCmd.Flags().DurationVar(&startupDelay, "delay", 1500*time.Millisecond, "delay applied to --slow steps")
	startupCmd.Flags().DurationVar(&startupTimeout, "timeout", 0, "per-step timeout (default from startup.default_timeout_seconds)")
	startupCmd.Flags().BoolVar(&startupNoSplash, "no-splash", false, "print plain progress lines instead of the splash screen")
	rootCmd.AddCommand(startupCmd)
}

func runStartup(cmd *cobra.Command, args []string) error {
	policy, err := startup.ParseTimeoutPolicy(rt.cfg.Startup.TimeoutPolicy)
	if err != nil {
		return err
	}
	timeout := rt.cfg.Startup.DefaultTimeout()
	if startupTimeout > 0 {
		timeout = startupTimeout
	}

	tracker := startup.NewTracker(rt.bus, rt.logger,
		startup.WithDefaultTimeout(timeout),
		startup.WithTimeoutPolicy(policy))
	plan := dashboard.New(dashboard.Options{
		Config:    rt.cfg,
		Logger:    rt.logger,
		Analyzer:  availability.New(rt.logger, availability.WithMaxSuggestions(rt.cfg.Availability.MaxSuggestions)),
		Fail:      startupFail,
		Slow:      startupSlow,
		SlowDelay: startupDelay,
	})
	if err := plan.Register(tracker); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	if rt.interactive && rt.cfg.TUI.Splash && !startupNoSplash {
		// The splash owns the terminal and handles ctrl+c itself.
		err = splash.Run(ctx, tracker, "finboard", out)
	} else {
		err = runPlain(ctx, tracker, out)
	}
	if err != nil {
		return err
	}

	printSummary(out, plan.Summary())

	if res := tracker.LastResult(); res != nil && !res.Succeeded() {
		return errors.NewStartupError("finished with failed steps", nil).WithSteps(res.Failed...)
	}
	return nil
}

// runPlain prints one line per step event while tracker runs.
func runPlain(ctx context.Context, tracker *startup.Tracker, out io.Writer) error {
	s := styles.Active()
	subID := tracker.Bus().SubscribeAll(func(e event.Event) {
		switch e := e.(type) {
		case event.StepStartedEvent:
			fmt.Fprintf(out, "%s %s...\n", s.Step(styles.StepRunning).Render(styles.StepIcon(styles.StepRunning)), e.Name)
		case event.StepCompletedEvent:
			fmt.Fprintf(out, "%s %s (%s)\n", s.Step(styles.StepCompleted).Render(styles.StepIcon(styles.StepCompleted)),
				e.StepID, e.Duration.Round(time.Millisecond))
		case event.StepFailedEvent:
			sev := s.Severity(errors.GetSeverity(e.Err).String())
			fmt.Fprintf(out, "%s %s: %s\n", sev.Render(styles.StepIcon(styles.StepFailed)),
				e.StepID, e.Error())
		case event.StepTimedOutEvent:
			fmt.Fprintf(out, "  %s\n", s.Muted.Render(fmt.Sprintf("%s timed out after %s", e.StepID, e.Timeout)))
		case event.RunCompletedEvent:
			fmt.Fprintln(out, s.Success.Render(fmt.Sprintf("Ready in %s", e.Elapsed.Round(time.Millisecond))))
		case event.RunFailedEvent:
			fmt.Fprintln(out, s.Error.Render(e.Message()))
		case event.RunAbortedEvent:
			fmt.Fprintln(out, s.Error.Render(fmt.Sprintf("Start-up aborted: %v", e.Err)))
		}
	})
	defer tracker.Bus().Unsubscribe(subID)

	return tracker.Start(ctx)
}

func printSummary(out io.Writer, sum dashboard.Summary) {
	s := styles.Active()
	status := "online"
	if !sum.Online {
		status = "offline"
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s %d symbols, %d cached, %s\n", s.Label.Render("Watchlist:"), len(sum.Symbols), sum.CacheHits, status)
	if sum.DataDir != "" {
		fmt.Fprintf(out, "%s %s\n", s.Label.Render("Data:"), sum.DataDir)
	}
	fmt.Fprintf(out, "%s %d prepared", s.Label.Render("Widgets:"), sum.Widgets)
	if len(sum.Unavailable) == 0 {
		fmt.Fprintln(out)
		return
	}

	reasons := make([]string, 0, len(sum.Unavailable))
	for r := range sum.Unavailable {
		reasons = append(reasons, string(r))
	}
	sort.Strings(reasons)
	parts := make([]string, 0, len(reasons))
	for _, r := range reasons {
		parts = append(parts, fmt.Sprintf("%d %s", sum.Unavailable[availability.Reason(r)], availability.Reason(r).Code()))
	}
	fmt.Fprintf(out, ", unavailable: %s\n", strings.Join(parts, ", "))
}
