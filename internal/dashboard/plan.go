// Package dashboard defines the start-up plan of the finance dashboard: the
// steps that prepare configuration, storage, the watchlist and the widgets,
// registered with a startup.Tracker.
package dashboard

import (
	"context"
	"fmt"
	"net"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/Iron-Ham/finboard/internal/availability"
	"github.com/Iron-Ham/finboard/internal/config"
	"github.com/Iron-Ham/finboard/internal/errors"
	"github.com/Iron-Ham/finboard/internal/logging"
	"github.com/Iron-Ham/finboard/internal/startup"
	"github.com/Iron-Ham/finboard/internal/symbol"
)

// Step IDs of the default plan, in dependency order.
const (
	StepConfig    = "config"
	StepDataDir   = "data_dir"
	StepWatchlist = "watchlist"
	StepCache     = "cache"
	StepNetwork   = "network"
	StepWidgets   = "widgets"
)

// probeTimeout bounds a single network probe dial.
const probeTimeout = 3 * time.Second

var errProbeDisabled = errors.New("network probe disabled")

// Prober checks network reachability.
type Prober func(ctx context.Context) error

// DialProber returns a Prober that opens and closes a TCP connection to addr.
func DialProber(addr string) Prober {
	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, probeTimeout)
		defer cancel()
		var d net.Dialer
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err != nil {
			return errors.Wrap(err, "network probe")
		}
		return conn.Close()
	}
}

// Options configures a Plan.
type Options struct {
	Config   *config.Config
	Logger   *logging.Logger
	Analyzer *availability.Analyzer
	// Probe defaults to DialProber(Config.Dashboard.ProbeAddress). With no
	// probe address the dashboard starts offline.
	Probe Prober
	// Fail makes the named steps fail without doing their work.
	Fail []string
	// Slow delays the named steps by SlowDelay before their work starts.
	Slow      []string
	SlowDelay time.Duration
}

// Widget is the availability of one data category for one watchlist symbol.
type Widget struct {
	Symbol   string
	Category availability.Category
	// Unavailable is set when the category cannot be shown.
	Unavailable *availability.Info
}

// Plan is the dashboard start-up plan. Steps share their results through
// the plan, so it is not reusable across trackers.
type Plan struct {
	opts       Options
	logger     *logging.Logger
	recognizer *symbol.Recognizer
	fail       map[string]bool
	slow       map[string]bool

	mu         sync.Mutex
	dataDir    string
	recognized []symbol.Info
	cacheHits  int
	networkOK  bool
	networkErr error
	widgets    []Widget
}

// New creates a plan.
func New(opts Options) *Plan {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NopLogger()
	}
	if opts.Analyzer == nil {
		opts.Analyzer = availability.New(opts.Logger)
	}
	if opts.Probe == nil {
		if addr := opts.Config.Dashboard.ProbeAddress; addr != "" {
			opts.Probe = DialProber(addr)
		} else {
			opts.Probe = func(context.Context) error { return errProbeDisabled }
		}
	}
	p := &Plan{
		opts:       opts,
		logger:     opts.Logger.WithComponent("dashboard"),
		recognizer: symbol.NewRecognizer(opts.Logger),
		fail:       make(map[string]bool),
		slow:       make(map[string]bool),
	}
	for _, id := range opts.Fail {
		p.fail[id] = true
	}
	for _, id := range opts.Slow {
		p.slow[id] = true
	}
	return p
}

// Register adds the plan's steps to tracker. Unknown IDs in Options.Fail or
// Options.Slow are rejected.
func (p *Plan) Register(tracker *startup.Tracker) error {
	for _, ids := range [][]string{p.opts.Fail, p.opts.Slow} {
		for _, id := range ids {
			if !isStep(id) {
				return errors.NewValidationError("unknown start-up step").WithField("step").WithValue(id)
			}
		}
	}

	steps := []struct {
		id, name, desc string
		fn             startup.StepFunc
		opts           []startup.StepOption
	}{
		{StepConfig, "Loading configuration", "Validating settings", p.loadConfig, nil},
		{StepDataDir, "Preparing data directory", "Creating local storage", p.prepareDataDir,
			[]startup.StepOption{startup.WithDependencies(StepConfig)}},
		{StepWatchlist, "Recognizing watchlist", "Classifying watchlist symbols", p.recognizeWatchlist,
			[]startup.StepOption{startup.WithDependencies(StepConfig), startup.WithWeight(2)}},
		{StepCache, "Loading symbol cache", "Reading cached symbol data", p.loadCache,
			[]startup.StepOption{startup.WithDependencies(StepDataDir, StepWatchlist), startup.WithWeight(2)}},
		{StepNetwork, "Checking network", "Probing market data connectivity", p.checkNetwork,
			[]startup.StepOption{startup.WithWeight(2)}},
		{StepWidgets, "Preparing widgets", "Checking data availability", p.prepareWidgets,
			[]startup.StepOption{startup.WithDependencies(StepCache, StepNetwork), startup.WithWeight(3)}},
	}
	for _, s := range steps {
		if err := tracker.AddStep(s.id, s.name, s.desc, p.wrap(s.id, s.fn), s.opts...); err != nil {
			return errors.Wrapf(err, "registering step %s", s.id)
		}
	}
	return nil
}

func isStep(id string) bool {
	switch id {
	case StepConfig, StepDataDir, StepWatchlist, StepCache, StepNetwork, StepWidgets:
		return true
	}
	return false
}

// wrap applies the Fail and Slow options to a step function.
func (p *Plan) wrap(id string, fn startup.StepFunc) startup.StepFunc {
	return func(ctx context.Context) (*startup.Future, error) {
		if p.slow[id] {
			select {
			case <-time.After(p.opts.SlowDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		if p.fail[id] {
			return nil, fmt.Errorf("injected failure in step %s", id)
		}
		return fn(ctx)
	}
}

func (p *Plan) loadConfig(ctx context.Context) (*startup.Future, error) {
	if errs := p.opts.Config.Validate(); len(errs) > 0 {
		return nil, config.ValidationErrors(errs)
	}
	return nil, nil
}

func (p *Plan) prepareDataDir(ctx context.Context) (*startup.Future, error) {
	dir := p.opts.Config.Dashboard.ResolveDataDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating data directory")
	}
	p.mu.Lock()
	p.dataDir = dir
	p.mu.Unlock()
	return nil, nil
}

func (p *Plan) recognizeWatchlist(ctx context.Context) (*startup.Future, error) {
	infos := make([]symbol.Info, 0, len(p.opts.Config.Dashboard.Watchlist))
	for _, sym := range p.opts.Config.Dashboard.Watchlist {
		infos = append(infos, p.recognizer.Recognize(sym))
	}
	p.mu.Lock()
	p.recognized = infos
	p.mu.Unlock()
	return nil, nil
}

// loadCache merges the watchlist into the on-disk symbol cache.
func (p *Plan) loadCache(ctx context.Context) (*startup.Future, error) {
	p.mu.Lock()
	dir := p.dataDir
	infos := append([]symbol.Info(nil), p.recognized...)
	p.mu.Unlock()

	if dir == "" {
		return nil, errors.Wrap(errors.ErrMissingDependency, "data directory was not prepared")
	}

	cache, err := LoadCache(dir)
	if err != nil {
		return nil, err
	}
	hits := 0
	for _, info := range infos {
		if cached, ok := cache.Symbols[info.Original]; ok && cached.Type == info.Type {
			hits++
		}
		cache.Symbols[info.Original] = info
	}
	if err := cache.Save(dir); err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.cacheHits = hits
	p.mu.Unlock()
	p.logger.Debug("symbol cache updated", "symbols", len(cache.Symbols), "hits", hits)
	return nil, nil
}

// checkNetwork probes in the background. A failed probe does not fail the
// step; widgets are prepared in offline mode instead.
func (p *Plan) checkNetwork(ctx context.Context) (*startup.Future, error) {
	return startup.Go(func() error {
		err := p.opts.Probe(ctx)
		p.mu.Lock()
		p.networkOK = err == nil
		p.networkErr = err
		p.mu.Unlock()
		if err != nil {
			p.logger.Warn("network unavailable, continuing offline", "error", err.Error())
		}
		return nil
	}), nil
}

func (p *Plan) prepareWidgets(ctx context.Context) (*startup.Future, error) {
	p.mu.Lock()
	infos := append([]symbol.Info(nil), p.recognized...)
	online := p.networkOK
	var lastErr string
	if p.networkErr != nil {
		lastErr = p.networkErr.Error()
	}
	p.mu.Unlock()

	var widgets []Widget
	for _, info := range infos {
		for _, category := range availability.AllCategories() {
			w := Widget{Symbol: info.Original, Category: category}
			if !online || !availability.IsCategorySupported(info.Type, category) {
				explained := p.opts.Analyzer.Analyze(info.Original, info.Type, category,
					availability.WithNetworkAvailable(online),
					availability.WithLastError(lastErr))
				w.Unavailable = &explained
			}
			widgets = append(widgets, w)
		}
	}

	p.mu.Lock()
	p.widgets = widgets
	p.mu.Unlock()
	return nil, nil
}

// Summary describes what a finished run prepared.
type Summary struct {
	DataDir     string
	Symbols     []symbol.Info
	CacheHits   int
	Online      bool
	Widgets     int
	Unavailable map[availability.Reason]int
}

// Summary returns the results gathered by the steps that ran.
func (p *Plan) Summary() Summary {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := Summary{
		DataDir:     p.dataDir,
		Symbols:     append([]symbol.Info(nil), p.recognized...),
		CacheHits:   p.cacheHits,
		Online:      p.networkOK,
		Widgets:     len(p.widgets),
		Unavailable: make(map[availability.Reason]int),
	}
	for _, w := range p.widgets {
		if w.Unavailable != nil {
			s.Unavailable[w.Unavailable.Reason]++
		}
	}
	return s
}

// Widgets returns the prepared widgets sorted by symbol, then category order.
func (p *Plan) Widgets() []Widget {
	p.mu.Lock()
	widgets := append([]Widget(nil), p.widgets...)
	p.mu.Unlock()

	rank := make(map[availability.Category]int)
	for i, c := range availability.AllCategories() {
		rank[c] = i
	}
	sort.SliceStable(widgets, func(i, j int) bool {
		if widgets[i].Symbol != widgets[j].Symbol {
			return widgets[i].Symbol < widgets[j].Symbol
		}
		return rank[widgets[i].Category] < rank[widgets[j].Category]
	})
	return widgets
}
