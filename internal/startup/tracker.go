package startup

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Iron-Ham/finboard/internal/errors"
	"github.com/Iron-Ham/finboard/internal/event"
	"github.com/Iron-Ham/finboard/internal/logging"
)

// TimeoutPolicy decides what happens when a step's timer fires before the
// step reports an outcome.
type TimeoutPolicy string

const (
	// PolicyFail fails the timed-out step and advances the run. The step's
	// context is cancelled, but a StepFunc that ignores it keeps running in
	// the background while later steps start.
	PolicyFail TimeoutPolicy = "fail"
	// PolicyLog records the timeout and keeps waiting for the step.
	PolicyLog TimeoutPolicy = "log"
)

// ParseTimeoutPolicy converts a configuration string to a TimeoutPolicy.
func ParseTimeoutPolicy(s string) (TimeoutPolicy, error) {
	switch TimeoutPolicy(s) {
	case PolicyFail, "":
		return PolicyFail, nil
	case PolicyLog:
		return PolicyLog, nil
	default:
		return "", errors.NewValidationError("unknown timeout policy").
			WithField("startup.timeout_policy").WithValue(s)
	}
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithDefaultTimeout sets the timeout used by steps registered without
// WithTimeout. Non-positive values are ignored.
func WithDefaultTimeout(d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.defaultTimeout = d
		}
	}
}

// WithTimeoutPolicy sets the tracker's TimeoutPolicy.
func WithTimeoutPolicy(p TimeoutPolicy) Option {
	return func(t *Tracker) {
		t.policy = p
	}
}

// RunResult summarizes a finished run.
type RunResult struct {
	RunID     string
	Order     []string
	Completed []string
	Failed    []string
	Elapsed   time.Duration
}

// Succeeded reports whether no step failed.
func (r RunResult) Succeeded() bool {
	return len(r.Failed) == 0
}

// StepStatus is the per-step part of a Progress snapshot.
type StepStatus struct {
	Name      string
	Completed bool
	Err       error
	Duration  time.Duration
}

// Progress is a point-in-time snapshot of a tracker.
type Progress struct {
	Percent        int
	TotalSteps     int
	CompletedSteps int
	FailedSteps    int
	CurrentStep    string
	Running        bool
	Steps          map[string]StepStatus
}

// Tracker owns start-up step registrations and runs them.
// All methods are safe for concurrent use; steps themselves run one at a time.
type Tracker struct {
	mu sync.Mutex

	bus    *event.Bus
	logger *logging.Logger

	defaultTimeout time.Duration
	policy         TimeoutPolicy

	steps        map[string]*Step
	registration []string // step ids in registration order
	explicit     []string // order pinned by SetStepOrder

	totalWeight     int
	completedWeight int
	completed       []string
	failed          []string
	current         string
	running         bool
	last            *RunResult
}

// NewTracker creates a Tracker that publishes on bus and logs through logger.
// A nil bus gets a private one; a nil logger discards output.
func NewTracker(bus *event.Bus, logger *logging.Logger, opts ...Option) *Tracker {
	if logger == nil {
		logger = logging.NopLogger()
	}
	if bus == nil {
		bus = event.NewBus(logger)
	}
	t := &Tracker{
		bus:            bus,
		logger:         logger.WithComponent("startup"),
		defaultTimeout: DefaultTimeout,
		policy:         PolicyFail,
		steps:          make(map[string]*Step),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Bus returns the bus the tracker publishes on.
func (t *Tracker) Bus() *event.Bus {
	return t.bus
}

// AddStep registers a step, or replaces the step with the same id. A
// replaced step keeps its registration position.
func (t *Tracker) AddStep(id, name, description string, fn StepFunc, opts ...StepOption) error {
	if id == "" {
		return errors.NewValidationError("step id must not be empty").WithField("id")
	}

	step := &Step{
		ID:          id,
		Name:        name,
		Description: description,
		Func:        fn,
		Weight:      DefaultWeight,
	}
	for _, opt := range opts {
		opt(step)
	}
	if step.Weight < 1 {
		return errors.NewValidationError("step weight must be at least 1").
			WithField("weight").WithValue(step.Weight)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return errors.ErrAlreadyRunning
	}
	if step.Timeout <= 0 {
		step.Timeout = t.defaultTimeout
	}

	if old, ok := t.steps[id]; ok {
		t.logger.Warn("replacing existing step", "step_id", id)
		t.totalWeight -= old.Weight
	} else {
		t.registration = append(t.registration, id)
	}
	t.steps[id] = step
	t.totalWeight += step.Weight

	t.logger.Debug("step registered",
		"step_id", id,
		"weight", step.Weight,
		"dependencies", step.Dependencies,
		"timeout", step.Timeout.String())
	return nil
}

// RemoveStep deletes a step and drops it from the explicit order.
// Removing an unknown id does nothing.
func (t *Tracker) RemoveStep(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return errors.ErrAlreadyRunning
	}
	step, ok := t.steps[id]
	if !ok {
		return nil
	}
	delete(t.steps, id)
	t.totalWeight -= step.Weight
	t.registration = without(t.registration, id)
	t.explicit = without(t.explicit, id)

	t.logger.Debug("step removed", "step_id", id)
	return nil
}

// SetStepOrder pins the execution order. Every id must be registered;
// otherwise the previous order is kept. An empty order restores dependency
// resolution.
func (t *Tracker) SetStepOrder(ids []string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return errors.ErrAlreadyRunning
	}
	for _, id := range ids {
		if _, ok := t.steps[id]; !ok {
			return errors.NewValidationError("step order references an unregistered step").
				WithField("order").WithValue(id).WithCause(errors.ErrStepNotFound)
		}
	}
	t.explicit = append([]string(nil), ids...)
	return nil
}

// ResolveOrder returns the order the next run would use.
func (t *Tracker) ResolveOrder() ([]string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.resolveLocked()
}

func (t *Tracker) resolveLocked() ([]string, error) {
	if len(t.explicit) > 0 {
		return append([]string(nil), t.explicit...), nil
	}
	return resolveOrder(t.steps, t.registration)
}

// Steps returns the registered step ids in registration order.
func (t *Tracker) Steps() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.registration...)
}

// Start runs every step to a terminal state and returns once the run has
// finalized. Step failures are reported through events and LastResult, not
// through the returned error, which is reserved for runs that cannot start.
//
// Every Start clears the outcome of the previous run and runs all steps
// again. LastResult keeps the previous summary until the new run finalizes.
func (t *Tracker) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.running {
		t.mu.Unlock()
		t.logger.Warn("initialization already running")
		return errors.ErrAlreadyRunning
	}
	if len(t.steps) == 0 {
		t.mu.Unlock()
		t.logger.Info("no steps registered")
		t.bus.Publish(event.NewRunCompletedEvent("", 0))
		return nil
	}
	order, err := t.resolveLocked()
	if err != nil {
		t.mu.Unlock()
		t.logger.Error("failed to resolve step order", "error", err.Error())
		t.bus.Publish(event.NewRunAbortedEvent(err))
		return err
	}
	t.running = true
	t.completedWeight = 0
	t.completed = nil
	t.failed = nil
	for _, step := range t.steps {
		step.reset()
	}
	t.mu.Unlock()

	runID := uuid.NewString()
	logger := t.logger.WithRun(runID)
	started := time.Now()

	logger.Info("initialization started", "steps", len(order), "order", order)
	t.bus.Publish(event.NewRunStartedEvent(runID, order))

	for i, id := range order {
		if ctx.Err() != nil {
			t.cancelRemaining(logger, order[i:])
			break
		}

		t.mu.Lock()
		step := t.steps[id]
		t.mu.Unlock()
		t.runStep(ctx, logger.WithStep(id), step)
	}

	t.finalize(logger, runID, order, time.Since(started))
	return nil
}

// runStep executes one step and records its outcome.
func (t *Tracker) runStep(ctx context.Context, logger *logging.Logger, step *Step) {
	t.mu.Lock()
	step.StartTime = time.Now()
	t.current = step.ID
	percent := t.percentLocked()
	t.mu.Unlock()

	t.bus.Publish(event.NewStepStartedEvent(step.ID, step.Name, step.Description))
	t.bus.Publish(event.NewProgressUpdatedEvent(percent, step.Name, step.Description))
	logger.Info("step started", "name", step.Name)

	if step.Func == nil {
		t.complete(logger, step)
		return
	}

	stepCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	type callResult struct {
		future *Future
		err    error
	}
	calls := make(chan callResult, 1)
	go func() {
		future, err := invoke(stepCtx, step.Func)
		calls <- callResult{future: future, err: err}
	}()

	timer := time.NewTimer(step.Timeout)
	defer timer.Stop()

	var (
		future  *Future
		settled <-chan struct{}
		expired = timer.C
	)
	for {
		select {
		case res := <-calls:
			calls = nil
			if res.err != nil {
				t.fail(logger, step, res.err)
				return
			}
			if res.future == nil {
				t.complete(logger, step)
				return
			}
			future = res.future
			settled = future.Done()

		case <-settled:
			if err := future.Err(); err != nil {
				t.fail(logger, step, err)
				return
			}
			t.complete(logger, step)
			return

		case <-expired:
			expired = nil
			t.bus.Publish(event.NewStepTimedOutEvent(step.ID, step.Timeout))
			if t.policy == PolicyLog {
				logger.Warn("step timed out, still waiting", "timeout", step.Timeout.String())
				continue
			}
			logger.Warn("step timed out", "timeout", step.Timeout.String())
			cancel()
			t.fail(logger, step, errors.NewTimeoutError(fmt.Sprintf("step '%s'", step.ID), step.Timeout))
			return

		case <-ctx.Done():
			t.fail(logger, step, errors.Wrap(errors.ErrCanceled, ctx.Err().Error()))
			return
		}
	}
}

// invoke calls fn, converting a panic into an error.
func invoke(ctx context.Context, fn StepFunc) (future *Future, err error) {
	defer func() {
		if r := recover(); r != nil {
			future, err = nil, panicError(r)
		}
	}()
	return fn(ctx)
}

func panicError(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return fmt.Errorf("panic: %v", r)
}

func (t *Tracker) complete(logger *logging.Logger, step *Step) {
	t.mu.Lock()
	step.Completed = true
	step.EndTime = time.Now()
	t.completedWeight += step.Weight
	t.completed = append(t.completed, step.ID)
	duration := step.Duration()
	t.mu.Unlock()

	logger.Info("step completed", "duration_ms", duration.Milliseconds())
	t.bus.Publish(event.NewStepCompletedEvent(step.ID, step.Description, duration))
}

func (t *Tracker) fail(logger *logging.Logger, step *Step, cause error) {
	t.mu.Lock()
	step.EndTime = time.Now()
	duration := step.Duration()
	err := errors.NewStepError(step.ID, cause).WithDuration(duration)
	if errors.Is(cause, errors.ErrCanceled) {
		err = err.WithSeverity(errors.SeverityWarning)
	}
	step.Err = err
	t.failed = append(t.failed, step.ID)
	t.mu.Unlock()

	logger.Error("step failed", "error", cause.Error(), "duration_ms", duration.Milliseconds())
	t.bus.Publish(event.NewStepFailedEvent(step.ID, step.Description, err))
}

// cancelRemaining fails every unfinished step in ids after the run context
// was cancelled.
func (t *Tracker) cancelRemaining(logger *logging.Logger, ids []string) {
	logger.Warn("initialization cancelled", "remaining", len(ids))
	for _, id := range ids {
		t.mu.Lock()
		step := t.steps[id]
		skip := step.Finished()
		t.mu.Unlock()
		if !skip {
			t.fail(logger.WithStep(id), step, errors.ErrCanceled)
		}
	}
}

func (t *Tracker) finalize(logger *logging.Logger, runID string, order []string, elapsed time.Duration) {
	t.mu.Lock()
	result := RunResult{
		RunID:     runID,
		Order:     order,
		Completed: append([]string(nil), t.completed...),
		Failed:    append([]string(nil), t.failed...),
		Elapsed:   elapsed,
	}
	t.last = &result
	t.running = false
	t.current = ""
	t.mu.Unlock()

	t.bus.Publish(event.NewProgressUpdatedEvent(100, "Complete", "Initialization complete"))

	if !result.Succeeded() {
		logger.Warn("initialization completed with failures",
			"failed_count", len(result.Failed),
			"failed_steps", result.Failed,
			"elapsed_ms", elapsed.Milliseconds())
		t.bus.Publish(event.NewRunFailedEvent(runID, result.Failed, elapsed))
		return
	}
	logger.Info("initialization completed", "elapsed_ms", elapsed.Milliseconds())
	t.bus.Publish(event.NewRunCompletedEvent(runID, elapsed))
}

// percentLocked must be called with mu held.
func (t *Tracker) percentLocked() int {
	if t.totalWeight == 0 {
		return 0
	}
	return 100 * t.completedWeight / t.totalWeight
}

// Progress returns a snapshot of the tracker's state.
func (t *Tracker) Progress() Progress {
	t.mu.Lock()
	defer t.mu.Unlock()

	p := Progress{
		Percent:        t.percentLocked(),
		TotalSteps:     len(t.steps),
		CompletedSteps: len(t.completed),
		FailedSteps:    len(t.failed),
		CurrentStep:    t.current,
		Running:        t.running,
		Steps:          make(map[string]StepStatus, len(t.steps)),
	}
	for id, step := range t.steps {
		p.Steps[id] = StepStatus{
			Name:      step.Name,
			Completed: step.Completed,
			Err:       step.Err,
			Duration:  step.Duration(),
		}
	}
	return p
}

// LastResult returns the summary of the most recent finished run, or nil.
func (t *Tracker) LastResult() *RunResult {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.last == nil {
		return nil
	}
	r := *t.last
	return &r
}

// IsRunning reports whether a run is in progress.
func (t *Tracker) IsRunning() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Reset clears all run state so the next Start runs every step again.
// Registrations and the explicit order are kept.
func (t *Tracker) Reset() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return errors.ErrAlreadyRunning
	}
	t.completedWeight = 0
	t.completed = nil
	t.failed = nil
	t.current = ""
	t.last = nil
	for _, step := range t.steps {
		step.reset()
	}
	return nil
}

func without(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
