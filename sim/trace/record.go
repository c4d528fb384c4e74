// Package trace provides routing-decision and customer-outcome recording for
// checkout simulations.
// This package has no dependencies on sim/ or sim/checkout/; it stores pure data types.
package trace

// RoutingRecord captures a single routing decision for an arriving customer.
type RoutingRecord struct {
	CustomerID    uint64
	Clock         float64
	ChosenStation int
	Reason        string
	QueueLengths  []int // queue length per station, in station order, before enqueue
}

// Outcome is the terminal state of a customer.
type Outcome string

const (
	OutcomeServed    Outcome = "served"
	OutcomeAbandoned Outcome = "abandoned"
)

// OutcomeRecord captures how and when a customer left the hall.
type OutcomeRecord struct {
	CustomerID   uint64
	StationID    int
	Outcome      Outcome
	ArrivalTime  float64
	ServiceStart float64 // equals DepartTime for abandoned customers
	DepartTime   float64
}

// QueueingTime is the time spent waiting before service (or before giving up).
func (r OutcomeRecord) QueueingTime() float64 {
	return r.ServiceStart - r.ArrivalTime
}

// SystemTime is the total time spent in the hall.
func (r OutcomeRecord) SystemTime() float64 {
	return r.DepartTime - r.ArrivalTime
}
