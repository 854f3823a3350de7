// Package event provides a pub-sub event bus for decoupled inter-component
// communication in finboard.
//
// The start-up tracker publishes its lifecycle through a [Bus] instead of
// calling into the front end, so the CLI printer and the splash screen can
// subscribe without the tracker knowing about either.
//
// # Main Types
//
//   - [Event]: Interface that all events must implement, providing EventType() and Timestamp()
//   - [Bus]: Synchronous pub-sub event dispatcher with thread-safe operations
//   - [Handler]: Function type for event handlers (func(Event))
//
// # Event Categories
//
// Step Lifecycle:
//   - [StepStartedEvent]: Emitted right before a step runs
//   - [StepCompletedEvent]: Emitted when a step succeeds, with its duration
//   - [StepFailedEvent]: Emitted when a step fails, panics or times out
//   - [StepTimedOutEvent]: Emitted when a step's timer fires first
//   - [ProgressUpdatedEvent]: Weighted percentage after each step
//
// Run Lifecycle:
//   - [RunStartedEvent]: Emitted once the execution order is resolved
//   - [RunCompletedEvent]: Emitted when every step completed
//   - [RunFailedEvent]: Emitted when the run ended with failed steps
//   - [RunAbortedEvent]: Emitted when the run could not start
//
// Availability:
//   - [AvailabilityAnalyzedEvent]: Emitted for each explanation produced
//
// # Thread Safety
//
// The [Bus] type is safe for concurrent use. Handlers are called
// synchronously and protected against panics - a panicking handler will not
// prevent other handlers from being called.
//
// # Basic Usage
//
//	bus := event.NewBus(logger)
//
//	bus.Subscribe(event.TypeProgressUpdated, func(e event.Event) {
//	    p := e.(event.ProgressUpdatedEvent)
//	    fmt.Printf("%3d%% %s\n", p.Percent, p.Step)
//	})
//
//	// Subscribe to all events (useful for logging)
//	bus.SubscribeAll(func(e event.Event) {
//	    log.Printf("Event: %s at %v", e.EventType(), e.Timestamp())
//	})
//
//	id := bus.Subscribe(event.TypeRunFailed, handler)
//	bus.Unsubscribe(id)
package event
