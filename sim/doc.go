// Package sim provides the discrete-event simulation engine used by the
// checkout simulator.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - event.go: event types, handles and the Handler interface
//   - queue.go: the event arena and the min-heap ordering (time, then insertion order)
//   - simulator.go: the clock, scheduling, cancellation, subscriptions and the event loop
//   - entity.go: the self-scoped scheduling/subscription helper embedded by domain objects
//
// # Architecture
//
// The engine knows nothing about customers or stations; implementations live
// in sub-packages:
//   - sim/checkout/: the checkout hall queueing model (section, stations, customers)
//   - sim/workload/: random interarrival and service-time samplers
//   - sim/trace/: routing decision and customer outcome trace recording
//
// # Execution Model
//
// Dispatch is single-threaded. A handler never blocks; waiting is expressed
// by scheduling a future event and returning. Cancellation is lazy: a
// cancelled event stays in the heap and is skipped when it reaches the top.
package sim
