package checkout

import (
	"fmt"
	"math/rand/v2"

	"github.com/checkout-sim/checkout-sim/sim"
)

// Routing policy names accepted in Config.Routing.
const (
	RoutingShortestQueue = "shortest-queue"
	RoutingRoundRobin    = "round-robin"
	RoutingRandom        = "random"
)

// validRoutingPolicies is the set of recognized routing policy names.
var validRoutingPolicies = map[string]bool{
	"":                   true, // empty defaults to shortest-queue
	RoutingShortestQueue: true,
	RoutingRoundRobin:    true,
	RoutingRandom:        true,
}

// StationSnapshot is a read-only view of one station at routing time.
type StationSnapshot struct {
	ID          int
	QueueLength int // waiting plus in-service customers
}

// RoutingDecision names the chosen station by its index in the snapshot slice.
type RoutingDecision struct {
	Index  int
	Reason string
}

// RoutingPolicy decides which station an arriving customer joins.
// Implementations may assume a non-empty snapshot slice.
type RoutingPolicy interface {
	Route(snapshots []StationSnapshot) RoutingDecision
}

// ShortestQueue routes to the station with the fewest customers.
// Ties are broken by first occurrence in snapshot order (lowest index).
type ShortestQueue struct{}

// Route implements RoutingPolicy for ShortestQueue.
func (ShortestQueue) Route(snapshots []StationSnapshot) RoutingDecision {
	if len(snapshots) == 0 {
		panic("ShortestQueue.Route: empty snapshots")
	}
	best := 0
	for i := 1; i < len(snapshots); i++ {
		if snapshots[i].QueueLength < snapshots[best].QueueLength {
			best = i
		}
	}
	return RoutingDecision{
		Index:  best,
		Reason: fmt.Sprintf("shortest-queue (len=%d)", snapshots[best].QueueLength),
	}
}

// RoundRobin routes customers to stations in turn, ignoring load.
type RoundRobin struct {
	counter int
}

// Route implements RoutingPolicy for RoundRobin.
func (rr *RoundRobin) Route(snapshots []StationSnapshot) RoutingDecision {
	if len(snapshots) == 0 {
		panic("RoundRobin.Route: empty snapshots")
	}
	idx := rr.counter % len(snapshots)
	rr.counter++
	return RoutingDecision{
		Index:  idx,
		Reason: fmt.Sprintf("round-robin[%d]", rr.counter-1),
	}
}

// RandomRouting routes customers to a uniformly chosen station.
type RandomRouting struct {
	rng *rand.Rand
}

// Route implements RoutingPolicy for RandomRouting.
func (r *RandomRouting) Route(snapshots []StationSnapshot) RoutingDecision {
	if len(snapshots) == 0 {
		panic("RandomRouting.Route: empty snapshots")
	}
	idx := r.rng.IntN(len(snapshots))
	return RoutingDecision{Index: idx, Reason: "random"}
}

// NewRoutingPolicy creates a routing policy by name.
// The random policy draws from the router subsystem of rng.
func NewRoutingPolicy(name string, rng *sim.PartitionedRNG) (RoutingPolicy, error) {
	switch name {
	case "", RoutingShortestQueue:
		return ShortestQueue{}, nil
	case RoutingRoundRobin:
		return &RoundRobin{}, nil
	case RoutingRandom:
		return &RandomRouting{rng: rng.ForSubsystem(sim.SubsystemRouter)}, nil
	default:
		return nil, invalid("unknown routing policy %q", name)
	}
}
