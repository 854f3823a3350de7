package startup

import (
	"context"
	"time"
)

// DefaultWeight is the progress weight of a step registered without WithWeight.
const DefaultWeight = 1

// DefaultTimeout is the per-step timeout used when neither the step nor the
// tracker configures one.
const DefaultTimeout = 30 * time.Second

// StepFunc is the unit of work behind a step.
//
// Returning (nil, nil) completes the step. Returning an error, or panicking,
// fails it. Returning a non-nil Future defers the outcome until the future
// is resolved or rejected. ctx is cancelled when the step times out or the
// run is cancelled. Under PolicyFail the tracker does not wait for a
// timed-out StepFunc to return, so one that ignores ctx may still be running
// when the next step starts.
type StepFunc func(ctx context.Context) (*Future, error)

// Step is a single registered unit of start-up work together with the state
// of its most recent run.
type Step struct {
	ID           string
	Name         string
	Description  string
	Func         StepFunc
	Weight       int
	Dependencies []string
	Timeout      time.Duration

	// Run state, cleared by Tracker.Reset.
	Completed bool
	Err       error
	StartTime time.Time
	EndTime   time.Time
}

// StepOption configures a step at registration.
type StepOption func(*Step)

// WithWeight sets the step's contribution to overall progress.
func WithWeight(weight int) StepOption {
	return func(s *Step) {
		s.Weight = weight
	}
}

// WithDependencies declares step ids that must finish, successfully or not,
// before this step runs.
func WithDependencies(ids ...string) StepOption {
	return func(s *Step) {
		s.Dependencies = append(s.Dependencies, ids...)
	}
}

// WithTimeout overrides the tracker's default timeout for this step.
func WithTimeout(d time.Duration) StepOption {
	return func(s *Step) {
		s.Timeout = d
	}
}

// Finished reports whether the step has a terminal outcome in the current run.
func (s *Step) Finished() bool {
	return s.Completed || s.Err != nil
}

// Duration returns how long the step ran. A step still running reports the
// time elapsed so far; a step that never started reports 0.
func (s *Step) Duration() time.Duration {
	if s.StartTime.IsZero() {
		return 0
	}
	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}

func (s *Step) reset() {
	s.Completed = false
	s.Err = nil
	s.StartTime = time.Time{}
	s.EndTime = time.Time{}
}
