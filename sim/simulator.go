// sim/simulator.go
package sim

import (
	"container/heap"
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// ErrInvalidDelay is returned by Schedule for a negative or NaN delay.
// It signals a logic defect in the caller; the delay is never clamped.
var ErrInvalidDelay = errors.New("invalid delay")

// subscriptionKey selects the handlers for an event. A zero Scope matches
// events of the given type regardless of target.
type subscriptionKey struct {
	Type  EventType
	Scope EntityID
}

// Simulator is the core object that holds simulation time, the pending event
// queue, the handler table, and the event loop.
//
// Thread-safety: NOT thread-safe. All calls happen on the goroutine that calls
// Run, including calls made from within handlers.
type Simulator struct {
	clock    float64
	queue    EventQueue
	nextSeq  uint64
	nextID   EntityID
	handlers map[subscriptionKey][]Handler

	// EventsDispatched counts events whose handlers were invoked.
	EventsDispatched int64
	// EventsSkipped counts cancelled events dropped at dispatch time.
	EventsSkipped int64
}

// NewSimulator returns a simulator with its clock at zero and no pending events.
func NewSimulator() *Simulator {
	s := &Simulator{}
	s.Reset()
	return s
}

// Reset discards all pending events, subscriptions and counters and rewinds
// the clock to zero. Entity IDs restart at 1.
func (sim *Simulator) Reset() {
	sim.clock = 0
	sim.queue = EventQueue{}
	heap.Init(&sim.queue)
	sim.nextSeq = 0
	sim.nextID = 0
	sim.handlers = make(map[subscriptionKey][]Handler)
	sim.EventsDispatched = 0
	sim.EventsSkipped = 0
}

// Now returns the current simulation time.
func (sim *Simulator) Now() float64 {
	return sim.clock
}

// Pending returns the number of events in the queue, cancelled ones included.
func (sim *Simulator) Pending() int {
	return sim.queue.Len()
}

// NewEntityID hands out the next entity identifier for this run.
func (sim *Simulator) NewEntityID() EntityID {
	sim.nextID++
	return sim.nextID
}

// Schedule inserts an event of type t against target at Now()+delay.
// Events with equal times are dispatched in the order they were scheduled.
func (sim *Simulator) Schedule(delay float64, t EventType, target EntityID) (EventHandle, error) {
	if delay < 0 || math.IsNaN(delay) {
		return EventHandle{}, fmt.Errorf("%w: %v for %s", ErrInvalidDelay, delay, t)
	}
	sim.nextSeq++
	ev := Event{Time: sim.clock + delay, Type: t, Target: target}
	slot := sim.queue.alloc(ev, sim.nextSeq)
	heap.Push(&sim.queue, slot)
	return EventHandle{slot: slot, gen: sim.queue.arena[slot].gen}, nil
}

// Cancel marks a scheduled event inert. Cancelling an event that already
// fired, was already cancelled, or never existed is a no-op.
func (sim *Simulator) Cancel(h EventHandle) {
	if s := sim.queue.lookup(h); s != nil {
		s.cancelled = true
	}
}

// IsPending reports whether h refers to an event that is still due to fire.
func (sim *Simulator) IsPending(h EventHandle) bool {
	s := sim.queue.lookup(h)
	return s != nil && !s.cancelled
}

// Subscribe registers h for events of type t. With a zero scope the handler
// sees every event of that type; otherwise only events targeted at scope.
func (sim *Simulator) Subscribe(t EventType, h Handler, scope EntityID) {
	if h == nil {
		panic("Subscribe: handler must not be nil")
	}
	key := subscriptionKey{Type: t, Scope: scope}
	sim.handlers[key] = append(sim.handlers[key], h)
}

// Unsubscribe drops every handler registered for (t, scope).
func (sim *Simulator) Unsubscribe(t EventType, scope EntityID) {
	delete(sim.handlers, subscriptionKey{Type: t, Scope: scope})
}

// Subscriptions returns the number of (type, scope) pairs with handlers.
func (sim *Simulator) Subscriptions() int {
	return len(sim.handlers)
}

// Run dispatches events in time order until the queue is empty or the next
// event lies beyond duration. Events at exactly duration are dispatched.
// Events scheduled by handlers join the same loop. The first handler error
// aborts the run; remaining events are left undispatched.
func (sim *Simulator) Run(duration float64) error {
	if duration < 0 || math.IsNaN(duration) {
		return fmt.Errorf("run duration must be non-negative, got %v", duration)
	}
	for {
		slot, ok := sim.queue.peek()
		if !ok {
			break
		}
		entry := sim.queue.arena[slot]
		if entry.event.Time > duration {
			break
		}
		heap.Pop(&sim.queue)
		sim.queue.release(slot)

		if entry.cancelled {
			sim.EventsSkipped++
			continue
		}

		ev := entry.event
		if ev.Time < sim.clock {
			return fmt.Errorf("clock went backwards: %v < %v", ev.Time, sim.clock)
		}
		sim.clock = ev.Time
		logrus.Debugf("[t=%10.2f] Dispatch %s -> entity %d", sim.clock, ev.Type, ev.Target)

		if err := sim.dispatch(ev); err != nil {
			return fmt.Errorf("handling %s at t=%.4f: %w", ev.Type, ev.Time, err)
		}
		sim.EventsDispatched++
	}
	logrus.Debugf("[t=%10.2f] Run ended, %d events pending", sim.clock, sim.queue.Len())
	return nil
}

// dispatch invokes scoped handlers first, then global ones, each in
// registration order. The handler slices are copied so handlers may
// (un)subscribe while being dispatched.
func (sim *Simulator) dispatch(ev Event) error {
	var targets []Handler
	if ev.Target != 0 {
		targets = append(targets, sim.handlers[subscriptionKey{Type: ev.Type, Scope: ev.Target}]...)
	}
	targets = append(targets, sim.handlers[subscriptionKey{Type: ev.Type}]...)
	for _, h := range targets {
		if err := h.Handle(ev); err != nil {
			return err
		}
	}
	return nil
}
