package dashboard

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/Iron-Ham/finboard/internal/availability"
	"github.com/Iron-Ham/finboard/internal/config"
	"github.com/Iron-Ham/finboard/internal/errors"
	"github.com/Iron-Ham/finboard/internal/event"
	"github.com/Iron-Ham/finboard/internal/logging"
	"github.com/Iron-Ham/finboard/internal/startup"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Dashboard.DataDir = filepath.Join(t.TempDir(), "data")
	return cfg
}

func online(context.Context) error  { return nil }
func offline(context.Context) error { return errors.New("dial tcp: no route to host") }

func runPlan(t *testing.T, opts Options) (*Plan, *startup.Tracker) {
	t.Helper()
	if opts.Config == nil {
		opts.Config = testConfig(t)
	}
	if opts.Probe == nil {
		opts.Probe = online
	}
	plan := New(opts)
	tracker := startup.NewTracker(event.NewBus(nil), logging.NopLogger())
	if err := plan.Register(tracker); err != nil {
		t.Fatalf("Register() = %v", err)
	}
	if err := tracker.Start(context.Background()); err != nil {
		t.Fatalf("Start() = %v", err)
	}
	return plan, tracker
}

func TestPlan_Order(t *testing.T) {
	plan := New(Options{Config: testConfig(t), Probe: online})
	tracker := startup.NewTracker(event.NewBus(nil), logging.NopLogger())
	if err := plan.Register(tracker); err != nil {
		t.Fatalf("Register() = %v", err)
	}

	order, err := tracker.ResolveOrder()
	if err != nil {
		t.Fatalf("ResolveOrder() = %v", err)
	}
	pos := make(map[string]int)
	for i, id := range order {
		pos[id] = i
	}
	deps := [][2]string{
		{StepConfig, StepDataDir},
		{StepConfig, StepWatchlist},
		{StepDataDir, StepCache},
		{StepWatchlist, StepCache},
		{StepCache, StepWidgets},
		{StepNetwork, StepWidgets},
	}
	for _, d := range deps {
		if pos[d[0]] > pos[d[1]] {
			t.Errorf("%s ran after %s in %v", d[0], d[1], order)
		}
	}
}

func TestPlan_Online(t *testing.T) {
	plan, tracker := runPlan(t, Options{})

	res := tracker.LastResult()
	if res == nil || !res.Succeeded() {
		t.Fatalf("LastResult() = %+v, want success", res)
	}
	if p := tracker.Progress(); p.Percent != 100 {
		t.Errorf("Progress().Percent = %d, want 100", p.Percent)
	}

	s := plan.Summary()
	if !s.Online {
		t.Error("Summary().Online = false, want true")
	}
	if len(s.Symbols) != len(config.DefaultWatchlist) {
		t.Errorf("len(Symbols) = %d, want %d", len(s.Symbols), len(config.DefaultWatchlist))
	}
	if s.Widgets != len(config.DefaultWatchlist)*len(availability.AllCategories()) {
		t.Errorf("Widgets = %d", s.Widgets)
	}
	// Three stocks lack two categories each, two funds lack four each.
	if got := s.Unavailable[availability.ReasonSymbolTypeIncompatible]; got != 14 {
		t.Errorf("incompatible widgets = %d, want 14", got)
	}
	if len(s.Unavailable) != 1 {
		t.Errorf("Unavailable = %v, want only incompatible reasons", s.Unavailable)
	}
	if _, err := os.Stat(filepath.Join(s.DataDir, CacheFileName)); err != nil {
		t.Errorf("symbol cache not written: %v", err)
	}
}

func TestPlan_Offline(t *testing.T) {
	plan, tracker := runPlan(t, Options{Probe: offline})

	if res := tracker.LastResult(); !res.Succeeded() {
		t.Fatalf("an offline probe should not fail the run: %+v", res)
	}

	s := plan.Summary()
	if s.Online {
		t.Error("Summary().Online = true, want false")
	}
	if got := s.Unavailable[availability.ReasonNetworkIssue]; got != 26 {
		t.Errorf("network widgets = %d, want 26", got)
	}
	if got := s.Unavailable[availability.ReasonSymbolTypeIncompatible]; got != 14 {
		t.Errorf("incompatible widgets = %d, want 14", got)
	}
}

func TestPlan_Fail(t *testing.T) {
	plan, tracker := runPlan(t, Options{Fail: []string{StepDataDir}})

	res := tracker.LastResult()
	if !slices.Equal(res.Failed, []string{StepDataDir, StepCache}) {
		t.Errorf("Failed = %v, want [data_dir cache]", res.Failed)
	}
	if !slices.Contains(res.Completed, StepWidgets) {
		t.Errorf("widgets should still run after upstream failures: %v", res.Completed)
	}
	if plan.Summary().DataDir != "" {
		t.Error("DataDir should be unset when its step failed")
	}
}

func TestPlan_Slow(t *testing.T) {
	cfg := testConfig(t)
	plan := New(Options{
		Config:    cfg,
		Probe:     online,
		Slow:      []string{StepWatchlist},
		SlowDelay: time.Second,
	})
	tracker := startup.NewTracker(event.NewBus(nil), logging.NopLogger(),
		startup.WithDefaultTimeout(50*time.Millisecond))
	if err := plan.Register(tracker); err != nil {
		t.Fatal(err)
	}
	if err := tracker.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	res := tracker.LastResult()
	if !slices.Contains(res.Failed, StepWatchlist) {
		t.Errorf("slow step should time out, Failed = %v", res.Failed)
	}
	if len(plan.Summary().Symbols) != 0 {
		t.Error("a timed out watchlist step should not record symbols")
	}
}

func TestPlan_InvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Startup.TimeoutPolicy = "explode"

	_, tracker := runPlan(t, Options{Config: cfg})
	res := tracker.LastResult()
	if len(res.Failed) == 0 || res.Failed[0] != StepConfig {
		t.Errorf("Failed = %v, want config first", res.Failed)
	}
}

func TestPlan_RegisterUnknownStep(t *testing.T) {
	plan := New(Options{Config: testConfig(t), Fail: []string{"quotes"}})
	tracker := startup.NewTracker(event.NewBus(nil), logging.NopLogger())

	err := plan.Register(tracker)
	if err == nil {
		t.Fatal("Register() should reject unknown step ids")
	}
	if !strings.Contains(err.Error(), "quotes") {
		t.Errorf("error %q should name the step", err)
	}
}

func TestPlan_CacheHits(t *testing.T) {
	cfg := testConfig(t)
	runPlan(t, Options{Config: cfg})

	plan, _ := runPlan(t, Options{Config: cfg})
	if got := plan.Summary().CacheHits; got != len(config.DefaultWatchlist) {
		t.Errorf("CacheHits = %d, want %d on second start", got, len(config.DefaultWatchlist))
	}
}

func TestPlan_Widgets(t *testing.T) {
	cfg := testConfig(t)
	cfg.Dashboard.Watchlist = []string{"VOD.L", "120503"}
	plan, _ := runPlan(t, Options{Config: cfg})

	widgets := plan.Widgets()
	if len(widgets) != 2*len(availability.AllCategories()) {
		t.Fatalf("len(Widgets()) = %d", len(widgets))
	}
	if widgets[0].Symbol != "120503" || widgets[0].Category != availability.CategoryRealTime {
		t.Errorf("Widgets()[0] = %+v, want 120503 real_time", widgets[0])
	}
	for _, w := range widgets {
		supported := w.Unavailable == nil
		if w.Symbol == "120503" && w.Category == availability.CategoryFinancial && supported {
			t.Error("mutual funds should not provide financial data")
		}
		if w.Symbol == "VOD.L" && w.Category == availability.CategoryDividend && !supported {
			t.Errorf("VOD.L dividend unavailable: %+v", w.Unavailable)
		}
	}
}

func TestDialProber(t *testing.T) {
	probe := DialProber("127.0.0.1:1")
	if err := probe(context.Background()); err == nil {
		t.Error("dialing a closed port should fail")
	}
}

func TestPlan_ProbeDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Dashboard.ProbeAddress = ""

	plan := New(Options{Config: cfg})
	tracker := startup.NewTracker(event.NewBus(nil), logging.NopLogger())
	if err := plan.Register(tracker); err != nil {
		t.Fatal(err)
	}
	if err := tracker.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if plan.Summary().Online {
		t.Error("no probe address should start offline")
	}
}
