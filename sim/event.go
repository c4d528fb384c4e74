package sim

import "fmt"

// EventType tags the fixed set of events that drive the checkout simulation.
type EventType int

const (
	// EventArrival is a new customer entering the checkout hall.
	EventArrival EventType = iota + 1
	// EventServiceComplete is a station finishing service of its head customer.
	EventServiceComplete
	// EventGiveUp is a waiting customer's patience running out.
	EventGiveUp
)

func (t EventType) String() string {
	switch t {
	case EventArrival:
		return "Arrival"
	case EventServiceComplete:
		return "ServiceComplete"
	case EventGiveUp:
		return "GiveUp"
	default:
		return fmt.Sprintf("EventType(%d)", int(t))
	}
}

// EntityID identifies a simulation entity within one run.
// The zero value is reserved for "no entity" (global subscriptions).
type EntityID uint64

// Event is a dispatched occurrence handed to subscribed handlers.
type Event struct {
	Time   float64   // Simulation time at which the event fires
	Type   EventType // Event kind
	Target EntityID  // Entity the event was scheduled against
}

func (e Event) String() string {
	return fmt.Sprintf("%s@%.2f->%d", e.Type, e.Time, e.Target)
}

// EventHandle refers to a scheduled event so that it can be cancelled.
// The zero value is a valid handle that refers to nothing.
type EventHandle struct {
	slot int
	gen  uint64
}

// IsZero reports whether the handle was never assigned.
func (h EventHandle) IsZero() bool {
	return h.gen == 0
}

// Handler reacts to a dispatched event. Returning an error aborts the run.
type Handler interface {
	Handle(ev Event) error
}

// HandlerFunc adapts an ordinary function to the Handler interface.
type HandlerFunc func(ev Event) error

// Handle calls f(ev).
func (f HandlerFunc) Handle(ev Event) error {
	return f(ev)
}
