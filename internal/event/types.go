// Package event defines event types for decoupling components in finboard.
// The start-up tracker and the availability analyzer publish these events;
// front ends (the CLI, the splash screen) subscribe to them.
package event

import (
	"fmt"
	"time"
)

// Event is the interface that all events must implement.
type Event interface {
	// EventType returns a string identifier for this event type.
	// Convention: "category.action" (e.g., "step.started", "run.completed")
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Event type identifiers.
const (
	TypeStepStarted          = "step.started"
	TypeStepCompleted        = "step.completed"
	TypeStepFailed           = "step.failed"
	TypeStepTimedOut         = "step.timed_out"
	TypeProgressUpdated      = "progress.updated"
	TypeRunStarted           = "run.started"
	TypeRunCompleted         = "run.completed"
	TypeRunFailed            = "run.failed"
	TypeRunAborted           = "run.aborted"
	TypeAvailabilityAnalyzed = "availability.analyzed"
)

// baseEvent provides common fields for all events.
// Embed this in concrete event types to satisfy the Event interface.
type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// -----------------------------------------------------------------------------
// Step Events
// -----------------------------------------------------------------------------

// StepStartedEvent is emitted right before a step's work function runs.
type StepStartedEvent struct {
	baseEvent
	StepID      string
	Name        string
	Description string
}

// NewStepStartedEvent creates a StepStartedEvent.
func NewStepStartedEvent(stepID, name, description string) StepStartedEvent {
	return StepStartedEvent{
		baseEvent:   newBaseEvent(TypeStepStarted),
		StepID:      stepID,
		Name:        name,
		Description: description,
	}
}

// StepCompletedEvent is emitted when a step finishes successfully.
type StepCompletedEvent struct {
	baseEvent
	StepID      string
	Description string
	Duration    time.Duration
}

// NewStepCompletedEvent creates a StepCompletedEvent.
func NewStepCompletedEvent(stepID, description string, duration time.Duration) StepCompletedEvent {
	return StepCompletedEvent{
		baseEvent:   newBaseEvent(TypeStepCompleted),
		StepID:      stepID,
		Description: description,
		Duration:    duration,
	}
}

// StepFailedEvent is emitted when a step's work function fails, panics or
// times out. The run continues with the next step.
type StepFailedEvent struct {
	baseEvent
	StepID      string
	Description string
	Err         error
}

// NewStepFailedEvent creates a StepFailedEvent.
func NewStepFailedEvent(stepID, description string, err error) StepFailedEvent {
	return StepFailedEvent{
		baseEvent:   newBaseEvent(TypeStepFailed),
		StepID:      stepID,
		Description: description,
		Err:         err,
	}
}

// Error returns the failure message, or "" when no error was recorded.
func (e StepFailedEvent) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// StepTimedOutEvent is emitted when a step's timer fires before it reports
// completion or failure.
type StepTimedOutEvent struct {
	baseEvent
	StepID  string
	Timeout time.Duration
}

// NewStepTimedOutEvent creates a StepTimedOutEvent.
func NewStepTimedOutEvent(stepID string, timeout time.Duration) StepTimedOutEvent {
	return StepTimedOutEvent{
		baseEvent: newBaseEvent(TypeStepTimedOut),
		StepID:    stepID,
		Timeout:   timeout,
	}
}

// ProgressUpdatedEvent carries the weighted progress of a run.
type ProgressUpdatedEvent struct {
	baseEvent
	Percent int    // 0-100
	Step    string // Display name of the current step, or "Complete"
	Detail  string // Description of the current step
}

// NewProgressUpdatedEvent creates a ProgressUpdatedEvent.
func NewProgressUpdatedEvent(percent int, step, detail string) ProgressUpdatedEvent {
	return ProgressUpdatedEvent{
		baseEvent: newBaseEvent(TypeProgressUpdated),
		Percent:   percent,
		Step:      step,
		Detail:    detail,
	}
}

// -----------------------------------------------------------------------------
// Run Events
// -----------------------------------------------------------------------------

// RunStartedEvent is emitted once the execution order is resolved.
type RunStartedEvent struct {
	baseEvent
	RunID string
	Order []string
}

// NewRunStartedEvent creates a RunStartedEvent.
func NewRunStartedEvent(runID string, order []string) RunStartedEvent {
	return RunStartedEvent{
		baseEvent: newBaseEvent(TypeRunStarted),
		RunID:     runID,
		Order:     order,
	}
}

// RunCompletedEvent is emitted when every step of a run completed.
// It is also emitted, with an empty RunID, when a run is started with no steps.
type RunCompletedEvent struct {
	baseEvent
	RunID   string
	Elapsed time.Duration
}

// NewRunCompletedEvent creates a RunCompletedEvent.
func NewRunCompletedEvent(runID string, elapsed time.Duration) RunCompletedEvent {
	return RunCompletedEvent{
		baseEvent: newBaseEvent(TypeRunCompleted),
		RunID:     runID,
		Elapsed:   elapsed,
	}
}

// RunFailedEvent is emitted when a run reached its end with failed steps.
type RunFailedEvent struct {
	baseEvent
	RunID       string
	FailedSteps []string
	Elapsed     time.Duration
}

// NewRunFailedEvent creates a RunFailedEvent.
func NewRunFailedEvent(runID string, failedSteps []string, elapsed time.Duration) RunFailedEvent {
	return RunFailedEvent{
		baseEvent:   newBaseEvent(TypeRunFailed),
		RunID:       runID,
		FailedSteps: failedSteps,
		Elapsed:     elapsed,
	}
}

// Message summarizes the failure for display.
func (e RunFailedEvent) Message() string {
	return fmt.Sprintf("Initialization completed with %d failed steps: %v", len(e.FailedSteps), e.FailedSteps)
}

// RunAbortedEvent is emitted when a run could not start at all, for example
// because the step graph has a cycle.
type RunAbortedEvent struct {
	baseEvent
	Err error
}

// NewRunAbortedEvent creates a RunAbortedEvent.
func NewRunAbortedEvent(err error) RunAbortedEvent {
	return RunAbortedEvent{
		baseEvent: newBaseEvent(TypeRunAborted),
		Err:       err,
	}
}

// -----------------------------------------------------------------------------
// Availability Events
// -----------------------------------------------------------------------------

// AvailabilityAnalyzedEvent is emitted each time an unavailability
// explanation is produced for a symbol.
type AvailabilityAnalyzedEvent struct {
	baseEvent
	Symbol   string
	Category string
	Reason   string
	Severity string
}

// NewAvailabilityAnalyzedEvent creates an AvailabilityAnalyzedEvent.
func NewAvailabilityAnalyzedEvent(symbol, category, reason, severity string) AvailabilityAnalyzedEvent {
	return AvailabilityAnalyzedEvent{
		baseEvent: newBaseEvent(TypeAvailabilityAnalyzed),
		Symbol:    symbol,
		Category:  category,
		Reason:    reason,
		Severity:  severity,
	}
}
