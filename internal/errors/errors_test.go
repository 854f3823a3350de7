package errors

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"
)

// -----------------------------------------------------------------------------
// Severity Tests
// -----------------------------------------------------------------------------

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		severity Severity
		want     string
	}{
		{SeverityDebug, "debug"},
		{SeverityInfo, "info"},
		{SeverityWarning, "warning"},
		{SeverityError, "error"},
		{SeverityCritical, "critical"},
		{Severity(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.severity.String(); got != tt.want {
				t.Errorf("Severity.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

// -----------------------------------------------------------------------------
// StartupError Tests
// -----------------------------------------------------------------------------

func TestStartupError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *StartupError
		want string
	}{
		{
			name: "message only",
			err:  NewStartupError("no steps", nil),
			want: "startup error: no steps",
		},
		{
			name: "with cause and details",
			err:  NewStartupError("cannot resolve step order", ErrMissingDependency).WithDetails("widgets -> cache"),
			want: "startup error: cannot resolve step order: missing dependency: widgets -> cache",
		},
		{
			name: "with steps",
			err:  NewStartupError("cannot resolve step order", ErrDependencyCycle).WithSteps("a", "b"),
			want: "startup error: cannot resolve step order: dependency cycle detected: [a, b]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStartupError_Is(t *testing.T) {
	err := NewStartupError("cannot resolve step order", ErrDependencyCycle)

	if !Is(err, ErrDependencyCycle) {
		t.Error("Is(err, ErrDependencyCycle) = false, want true")
	}
	if Is(err, ErrMissingDependency) {
		t.Error("Is(err, ErrMissingDependency) = true, want false")
	}

	wrapped := fmt.Errorf("start: %w", err)
	var startupErr *StartupError
	if !As(wrapped, &startupErr) {
		t.Fatal("As() failed to find StartupError through wrapping")
	}
	if startupErr.Severity() != SeverityError {
		t.Errorf("Severity() = %v, want %v", startupErr.Severity(), SeverityError)
	}
}

// -----------------------------------------------------------------------------
// StepError Tests
// -----------------------------------------------------------------------------

func TestNewStepError(t *testing.T) {
	err := NewStepError("cache", io.ErrUnexpectedEOF).WithDuration(2 * time.Second)

	want := "step error [step=cache, after=2s]: step failed: unexpected EOF"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !Is(err, io.ErrUnexpectedEOF) {
		t.Error("StepError should unwrap to its cause")
	}
	if !Is(err, ErrStepFailed) {
		t.Error("StepError should match ErrStepFailed")
	}
	if err.IsRetryable() {
		t.Error("IsRetryable() = true for non-retryable cause")
	}
}

func TestNewStepError_NilCause(t *testing.T) {
	err := NewStepError("config", nil)

	if got := err.Error(); got != "step error [step=config]: step failed" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, ErrStepFailed) {
		t.Error("nil cause should default to ErrStepFailed")
	}
}

func TestNewStepError_TimeoutCauseIsRetryable(t *testing.T) {
	err := NewStepError("network", NewTimeoutError("step 'network'", time.Second))

	if !err.IsRetryable() {
		t.Error("StepError caused by a timeout should be retryable")
	}
	if !Is(err, ErrTimeout) {
		t.Error("StepError should match ErrTimeout through its cause")
	}
}

// -----------------------------------------------------------------------------
// ValidationError Tests
// -----------------------------------------------------------------------------

func TestValidationError(t *testing.T) {
	err := NewValidationError("weight must be positive").WithField("weight").WithValue(0)

	want := "validation error [field=weight, value=0]: weight must be positive"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !Is(err, ErrInvalidInput) {
		t.Error("ValidationError should match ErrInvalidInput")
	}

	withCause := NewValidationError("unknown step in order").WithCause(ErrStepNotFound)
	if !Is(withCause, ErrStepNotFound) {
		t.Error("ValidationError should match its cause")
	}
}

// -----------------------------------------------------------------------------
// TimeoutError Tests
// -----------------------------------------------------------------------------

func TestTimeoutError(t *testing.T) {
	err := NewTimeoutError("step 'cache'", 30*time.Second)

	if got := err.Error(); got != "timeout error: step 'cache' (timeout: 30s)" {
		t.Errorf("Error() = %q", got)
	}
	if !Is(err, ErrTimeout) {
		t.Error("TimeoutError should match ErrTimeout")
	}
	if !err.IsRetryable() {
		t.Error("timeouts should be retryable")
	}
}

// -----------------------------------------------------------------------------
// Classification Helper Tests
// -----------------------------------------------------------------------------

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", New("boom"), false},
		{"sentinel timeout", fmt.Errorf("wait: %w", ErrTimeout), true},
		{"timeout error", NewTimeoutError("op", time.Second), true},
		{"validation", NewValidationError("bad"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsUserFacing(t *testing.T) {
	if IsUserFacing(nil) {
		t.Error("nil should not be user facing")
	}
	if IsUserFacing(New("internal")) {
		t.Error("plain errors should not be user facing")
	}
	if !IsUserFacing(NewStartupError("bad order", nil)) {
		t.Error("StartupError should be user facing")
	}
}

func TestGetSeverity(t *testing.T) {
	if got := GetSeverity(nil); got != SeverityDebug {
		t.Errorf("GetSeverity(nil) = %v, want debug", got)
	}
	if got := GetSeverity(New("x")); got != SeverityError {
		t.Errorf("GetSeverity(plain) = %v, want error", got)
	}
	if got := GetSeverity(NewStepError("s", nil).WithSeverity(SeverityCritical)); got != SeverityCritical {
		t.Errorf("GetSeverity(step) = %v, want critical", got)
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "ctx") != nil {
		t.Error("Wrap(nil) should be nil")
	}
	err := Wrapf(ErrCanceled, "step %s", "cache")
	if !Is(err, ErrCanceled) {
		t.Error("Wrapf should preserve the wrapped error")
	}
	if !strings.HasPrefix(err.Error(), "step cache: ") {
		t.Errorf("Wrapf() = %q", err.Error())
	}
}
