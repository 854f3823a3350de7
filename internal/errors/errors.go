// Package errors provides centralized error definitions and error handling utilities
// for finboard. It defines sentinel errors for start-up orchestration, typed
// errors carrying step context, and classification helpers used by the CLI to
// decide what can be shown to a user and what may be retried.
//
// # Error Types
//
// Domain errors:
//   - StartupError: a start-up run could not be configured or started
//     (missing dependency, dependency cycle, unknown step in an explicit order)
//   - StepError: a single start-up step failed while a run was in progress
//
// Semantic errors:
//   - ValidationError: invalid input or state
//   - TimeoutError: an operation exceeded its deadline
//
// # Usage
//
//	err := errors.NewStartupError("cannot resolve step order", errors.ErrDependencyCycle).
//	    WithSteps("config", "logging")
//
//	if errors.Is(err, errors.ErrDependencyCycle) { ... }
//
//	var stepErr *errors.StepError
//	if errors.As(err, &stepErr) { ... }
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
	// SeverityCritical is for errors that require immediate attention.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Start-up sentinel errors
var (
	// ErrStepNotFound indicates that a step id is not registered.
	ErrStepNotFound = New("step not found")
	// ErrMissingDependency indicates that a step depends on an unregistered step.
	ErrMissingDependency = New("missing dependency")
	// ErrDependencyCycle indicates a circular dependency between steps.
	ErrDependencyCycle = New("dependency cycle detected")
	// ErrAlreadyRunning indicates that a start-up run is already in progress.
	ErrAlreadyRunning = New("initialization already running")
	// ErrStepFailed indicates that a step's work function failed.
	ErrStepFailed = New("step failed")
)

// General sentinel errors
var (
	// ErrTimeout indicates that an operation timed out.
	ErrTimeout = New("operation timed out")
	// ErrCanceled indicates that an operation was canceled.
	ErrCanceled = New("operation canceled")
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// FinboardError is the base interface for all finboard errors.
type FinboardError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Is reports whether this error matches the target error.
	Is(target error) bool

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsRetryable returns true if the operation may succeed on retry.
	IsRetryable() bool

	// IsUserFacing returns true if the message is safe to display to end users.
	IsUserFacing() bool
}

// baseError provides common functionality for all error types.
type baseError struct {
	message    string
	cause      error
	severity   Severity
	retryable  bool
	userFacing bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsRetryable returns whether the error is retryable.
func (e *baseError) IsRetryable() bool {
	return e.retryable
}

// IsUserFacing returns whether the error is safe to show users.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// StartupError reports a run that could not be configured or started.
//
// Example:
//
//	err := errors.NewStartupError("cannot resolve step order", errors.ErrMissingDependency).
//	    WithDetails("widgets -> cache")
//	fmt.Println(err) // "startup error: cannot resolve step order: missing dependency: widgets -> cache"
type StartupError struct {
	baseError
	Steps   []string // Step ids involved in the failure
	Details []string // Free-form detail lines, e.g. "step -> dep" pairs
}

// NewStartupError creates a new StartupError.
func NewStartupError(message string, cause error) *StartupError {
	return &StartupError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			retryable:  false,
			userFacing: true,
		},
	}
}

// WithSteps records the step ids involved in the failure.
func (e *StartupError) WithSteps(ids ...string) *StartupError {
	e.Steps = append(e.Steps, ids...)
	return e
}

// WithDetails appends detail lines to the error.
func (e *StartupError) WithDetails(details ...string) *StartupError {
	e.Details = append(e.Details, details...)
	return e
}

// Error returns the formatted error message.
func (e *StartupError) Error() string {
	msg := "startup error: " + e.message
	if e.cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.cause)
	}
	if len(e.Details) > 0 {
		msg = fmt.Sprintf("%s: %s", msg, strings.Join(e.Details, ", "))
	} else if len(e.Steps) > 0 {
		msg = fmt.Sprintf("%s: [%s]", msg, strings.Join(e.Steps, ", "))
	}
	return msg
}

// Is checks if this error matches the target.
func (e *StartupError) Is(target error) bool {
	if _, ok := target.(*StartupError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// StepError reports the failure of a single start-up step. It is recorded on
// the step and delivered with the step.failed event; it never aborts a run.
//
// Example:
//
//	err := errors.NewStepError("cache", io.ErrUnexpectedEOF).WithDuration(2*time.Second)
//	fmt.Println(err) // "step error [step=cache, after=2s]: step failed: unexpected EOF"
type StepError struct {
	baseError
	StepID   string
	Duration time.Duration
}

// NewStepError creates a StepError for the given step. A nil cause is
// replaced by ErrStepFailed so the error always carries a reason.
func NewStepError(stepID string, cause error) *StepError {
	if cause == nil {
		cause = ErrStepFailed
	}
	return &StepError{
		baseError: baseError{
			message:    "step failed",
			cause:      cause,
			severity:   SeverityError,
			retryable:  IsRetryable(cause),
			userFacing: true,
		},
		StepID: stepID,
	}
}

// WithDuration records how long the step ran before failing.
func (e *StepError) WithDuration(d time.Duration) *StepError {
	e.Duration = d
	return e
}

// WithSeverity sets the error severity.
func (e *StepError) WithSeverity(s Severity) *StepError {
	e.severity = s
	return e
}

// Error returns the formatted error message.
func (e *StepError) Error() string {
	parts := []string{fmt.Sprintf("step=%s", e.StepID)}
	if e.Duration > 0 {
		parts = append(parts, fmt.Sprintf("after=%s", e.Duration))
	}
	prefix := fmt.Sprintf("step error [%s]", strings.Join(parts, ", "))

	if e.cause == ErrStepFailed {
		return fmt.Sprintf("%s: %s", prefix, e.message)
	}
	return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
}

// Is checks if this error matches the target.
func (e *StepError) Is(target error) bool {
	if _, ok := target.(*StepError); ok {
		return true
	}
	if target == ErrStepFailed {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// ValidationError represents invalid input or state.
//
// Example:
//
//	err := errors.NewValidationError("weight must be positive").WithField("weight").WithValue(0)
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    message,
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: true,
		},
	}
}

// WithField adds a field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the invalid value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// WithCause adds a cause to the error.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}

	prefix := "validation error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("validation error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	if errors.Is(target, ErrInvalidInput) {
		return true
	}
	return e.baseError.Is(target)
}

// TimeoutError represents an operation that timed out.
//
// Example:
//
//	err := errors.NewTimeoutError("step 'cache'", 30*time.Second)
//	fmt.Println(err) // "timeout error: step 'cache' (timeout: 30s)"
type TimeoutError struct {
	baseError
	Operation string
	Duration  time.Duration
}

// NewTimeoutError creates a new TimeoutError.
func NewTimeoutError(operation string, duration time.Duration) *TimeoutError {
	return &TimeoutError{
		baseError: baseError{
			message:    operation,
			severity:   SeverityWarning,
			retryable:  true,
			userFacing: true,
		},
		Operation: operation,
		Duration:  duration,
	}
}

// WithCause adds a cause to the error.
func (e *TimeoutError) WithCause(cause error) *TimeoutError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *TimeoutError) Error() string {
	base := fmt.Sprintf("timeout error: %s (timeout: %s)", e.Operation, e.Duration)
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", base, e.cause)
	}
	return base
}

// Is checks if this error matches the target.
func (e *TimeoutError) Is(target error) bool {
	if _, ok := target.(*TimeoutError); ok {
		return true
	}
	if errors.Is(target, ErrTimeout) {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Error Classification Helpers
// -----------------------------------------------------------------------------

// IsRetryable returns true if the error represents a transient condition
// that may succeed on retry.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var fbErr FinboardError
	if As(err, &fbErr) {
		return fbErr.IsRetryable()
	}

	return Is(err, ErrTimeout)
}

// IsUserFacing returns true if the error message is safe to display to end users.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}

	var fbErr FinboardError
	if As(err, &fbErr) {
		return fbErr.IsUserFacing()
	}
	return false
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement FinboardError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}

	var fbErr FinboardError
	if As(err, &fbErr) {
		return fbErr.Severity()
	}
	return SeverityError
}

// Wrap wraps an error with additional context message.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
