package startup

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Iron-Ham/finboard/internal/errors"
)

func TestFuture_Resolve(t *testing.T) {
	f := NewFuture()

	var successes, failures atomic.Int32
	f.OnSuccess(func() { successes.Add(1) }).
		OnFailure(func(error) { failures.Add(1) })

	if !f.Resolve() {
		t.Fatal("first Resolve() should settle the future")
	}
	if f.Resolve() || f.Reject(fmt.Errorf("late")) {
		t.Error("settling twice must be ignored")
	}

	select {
	case <-f.Done():
	default:
		t.Fatal("Done() should be closed after Resolve")
	}
	if f.Err() != nil {
		t.Errorf("Err() = %v, want nil", f.Err())
	}
	if successes.Load() != 1 || failures.Load() != 0 {
		t.Errorf("successes=%d failures=%d, want 1 and 0", successes.Load(), failures.Load())
	}
}

func TestFuture_Reject(t *testing.T) {
	f := NewFuture()
	cause := fmt.Errorf("nav feed closed")

	var got error
	f.OnFailure(func(err error) { got = err })
	f.OnSuccess(func() { t.Error("OnSuccess must not run on rejection") })
	f.Reject(cause)

	if got != cause || f.Err() != cause {
		t.Errorf("got %v / %v, want %v", got, f.Err(), cause)
	}
}

func TestFuture_RejectNil(t *testing.T) {
	f := NewFuture()
	f.Reject(nil)
	if !errors.Is(f.Err(), errors.ErrStepFailed) {
		t.Errorf("Err() = %v, want ErrStepFailed", f.Err())
	}
}

func TestFuture_ContinuationAfterSettle(t *testing.T) {
	f := NewFuture()
	f.Resolve()

	ran := false
	f.OnSuccess(func() { ran = true })
	if !ran {
		t.Error("OnSuccess registered after Resolve should run immediately")
	}
	f.OnFailure(func(error) { t.Error("OnFailure must not run for a resolved future") })
	if !f.Settled() {
		t.Error("Settled() = false after Resolve")
	}
}

func TestGo(t *testing.T) {
	tests := []struct {
		name    string
		fn      func() error
		wantErr bool
	}{
		{"success", func() error { return nil }, false},
		{"error", func() error { return fmt.Errorf("boom") }, true},
		{"panic", func() error { panic("boom") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Go(tt.fn)
			select {
			case <-f.Done():
			case <-time.After(time.Second):
				t.Fatal("future did not settle")
			}
			if (f.Err() != nil) != tt.wantErr {
				t.Errorf("Err() = %v, wantErr %v", f.Err(), tt.wantErr)
			}
		})
	}
}
