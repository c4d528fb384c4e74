package checkout

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/checkout-sim/checkout-sim/sim"
	"github.com/checkout-sim/checkout-sim/sim/trace"
	"github.com/checkout-sim/checkout-sim/sim/workload"
)

// PaymentSection generates customer arrivals and routes each one to a station.
type PaymentSection struct {
	sim.Entity

	Stations []*Station

	run      *Run
	arrivals workload.Sampler
	router   RoutingPolicy
}

// newPaymentSection builds the stations, subscribes the arrival handler and
// schedules the first arrival.
func newPaymentSection(r *Run) (*PaymentSection, error) {
	logrus.Debugf("Create payment section with %d stations", r.Config.Stations)
	arrivals := r.arrivalSampler
	if arrivals == nil {
		var err error
		arrivals, err = workload.NewSampler(r.Config.Arrival, r.Config.MeanInterarrival,
			r.RNG.ForSubsystem(sim.SubsystemArrival))
		if err != nil {
			return nil, invalid("arrival process: %v", err)
		}
	}
	router, err := NewRoutingPolicy(r.Config.Routing, r.RNG)
	if err != nil {
		return nil, err
	}

	ps := &PaymentSection{
		Entity:   sim.NewEntity(r.Sim),
		Stations: make([]*Station, 0, r.Config.Stations),
		run:      r,
		arrivals: arrivals,
		router:   router,
	}
	for i := 1; i <= r.Config.Stations; i++ {
		st, err := newStation(r, i)
		if err != nil {
			return nil, err
		}
		ps.Stations = append(ps.Stations, st)
	}
	ps.Wait(sim.EventArrival, sim.HandlerFunc(ps.handleArrival))
	if err := ps.scheduleNextArrival(); err != nil {
		return nil, err
	}
	return ps, nil
}

// Snapshots returns the routing view of every station in construction order.
func (ps *PaymentSection) Snapshots() []StationSnapshot {
	snaps := make([]StationSnapshot, len(ps.Stations))
	for i, st := range ps.Stations {
		snaps[i] = st.Snapshot()
	}
	return snaps
}

// scheduleNextArrival draws an interarrival delay and schedules the next Arrival.
func (ps *PaymentSection) scheduleNextArrival() error {
	delay := ps.arrivals.Sample()
	if _, err := ps.ScheduleAfter(delay, sim.EventArrival); err != nil {
		return fmt.Errorf("scheduling next arrival: %w", err)
	}
	return nil
}

// handleArrival routes a new customer and keeps the arrival process going.
// It runs on every Arrival event; arrivals are never dropped.
func (ps *PaymentSection) handleArrival(ev sim.Event) error {
	snaps := ps.Snapshots()
	decision := ps.router.Route(snaps)
	if decision.Index < 0 || decision.Index >= len(ps.Stations) {
		return fmt.Errorf("routing chose station index %d of %d", decision.Index, len(ps.Stations))
	}
	station := ps.Stations[decision.Index]

	c, err := station.customerArrives()
	if err != nil {
		return err
	}
	if ps.run.Trace != nil {
		lengths := make([]int, len(snaps))
		for i, s := range snaps {
			lengths[i] = s.QueueLength
		}
		ps.run.Trace.RecordRouting(trace.RoutingRecord{
			CustomerID:    c.ID,
			Clock:         ev.Time,
			ChosenStation: station.ID,
			Reason:        decision.Reason,
			QueueLengths:  lengths,
		})
	}
	return ps.scheduleNextArrival()
}
