// Package startup sequences finboard's application start-up work.
//
// A [Tracker] owns a set of [Step] registrations. [Tracker.Start] resolves
// an execution order (an explicit order pinned with [Tracker.SetStepOrder],
// otherwise a topological order over step dependencies), then runs the steps
// one at a time while publishing lifecycle and weighted progress events on an
// [event.Bus]. A failing step is recorded and the run moves on, so a run
// always reaches a terminal state unless its configuration is invalid.
//
// # Steps
//
// A step's work function may finish synchronously by returning (nil, nil),
// fail by returning an error or panicking, or hand back a [Future] that is
// settled later from another goroutine:
//
//	tracker.AddStep("cache", "Market Data Cache", "Warming quote cache",
//	    func(ctx context.Context) (*startup.Future, error) {
//	        return startup.Go(func() error { return cache.Warm(ctx) }), nil
//	    },
//	    startup.WithWeight(3),
//	    startup.WithDependencies("config"),
//	    startup.WithTimeout(10*time.Second),
//	)
//
// # Timeouts
//
// Every step is guarded by its own timer. With the default [PolicyFail] a
// step whose timer fires first is failed with a timeout error, its context
// is cancelled and the run advances; a late settlement is ignored. With
// [PolicyLog] the timeout is only logged and published, and the tracker
// keeps waiting for the step.
package startup
