package startup

import (
	"sync"

	"github.com/Iron-Ham/finboard/internal/errors"
)

// Future is the handle a StepFunc returns for work that finishes after the
// function itself has returned. It settles exactly once, either by Resolve or
// by Reject; later calls are ignored.
//
// Continuations registered with OnSuccess and OnFailure run on the goroutine
// that settles the future, or immediately if it has already settled.
type Future struct {
	mu        sync.Mutex
	done      chan struct{}
	settled   bool
	err       error
	onSuccess []func()
	onFailure []func(error)
}

// NewFuture returns an unsettled future.
func NewFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// Go runs fn on a new goroutine and returns a future settled by its result.
// A panic in fn rejects the future.
func Go(fn func() error) *Future {
	f := NewFuture()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				f.Reject(panicError(r))
			}
		}()
		if err := fn(); err != nil {
			f.Reject(err)
			return
		}
		f.Resolve()
	}()
	return f
}

// Resolve settles the future successfully. It returns false if the future
// had already settled.
func (f *Future) Resolve() bool {
	return f.settle(nil)
}

// Reject settles the future with err. A nil err is recorded as ErrStepFailed.
// It returns false if the future had already settled.
func (f *Future) Reject(err error) bool {
	if err == nil {
		err = errors.ErrStepFailed
	}
	return f.settle(err)
}

func (f *Future) settle(err error) bool {
	f.mu.Lock()
	if f.settled {
		f.mu.Unlock()
		return false
	}
	f.settled = true
	f.err = err
	success, failure := f.onSuccess, f.onFailure
	f.onSuccess, f.onFailure = nil, nil
	close(f.done)
	f.mu.Unlock()

	if err == nil {
		for _, fn := range success {
			fn()
		}
	} else {
		for _, fn := range failure {
			fn(err)
		}
	}
	return true
}

// OnSuccess registers fn to run when the future resolves.
func (f *Future) OnSuccess(fn func()) *Future {
	f.mu.Lock()
	if !f.settled {
		f.onSuccess = append(f.onSuccess, fn)
		f.mu.Unlock()
		return f
	}
	err := f.err
	f.mu.Unlock()

	if err == nil {
		fn()
	}
	return f
}

// OnFailure registers fn to run when the future is rejected.
func (f *Future) OnFailure(fn func(error)) *Future {
	f.mu.Lock()
	if !f.settled {
		f.onFailure = append(f.onFailure, fn)
		f.mu.Unlock()
		return f
	}
	err := f.err
	f.mu.Unlock()

	if err != nil {
		fn(err)
	}
	return f
}

// Done returns a channel closed once the future settles.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Err returns the rejection error, or nil if the future resolved or has not
// settled yet.
func (f *Future) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Settled reports whether Resolve or Reject has been called.
func (f *Future) Settled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.settled
}
