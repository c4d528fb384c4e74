package checkout

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/checkout-sim/checkout-sim/sim"
	"github.com/checkout-sim/checkout-sim/sim/workload"
)

// StationState is Idle (empty queue) or Serving (head customer in service).
type StationState string

const (
	StationIdle    StationState = "IDLE"
	StationServing StationState = "SERVING"
)

// Station is a cash register with a FIFO queue. Only the head of the queue
// is ever in service; at most one service completion is outstanding.
type Station struct {
	sim.Entity

	ID        int   // 1-based, in construction order
	Arrivals  int64 // customers routed here
	Served    int64
	Abandoned int64

	run        *Run
	queue      []*Customer
	service    workload.Sampler
	completion sim.EventHandle
}

func newStation(r *Run, id int) (*Station, error) {
	var service workload.Sampler
	if r.serviceSamplers != nil {
		service = r.serviceSamplers(id)
	}
	if service == nil {
		var err error
		service, err = workload.NewSampler(r.Config.Service, r.Config.MeanService,
			r.RNG.ForSubsystem(sim.SubsystemStation(id)))
		if err != nil {
			return nil, invalid("station %d service process: %v", id, err)
		}
	}
	s := &Station{
		Entity:  sim.NewEntity(r.Sim),
		ID:      id,
		run:     r,
		service: service,
	}
	s.Wait(sim.EventServiceComplete, sim.HandlerFunc(s.handleServiceComplete))
	return s, nil
}

// QueueLength returns the number of customers present, the one in service included.
func (s *Station) QueueLength() int {
	return len(s.queue)
}

// Queue returns the queue contents, head first.
// The returned slice is the station's internal storage; callers MUST NOT modify it.
func (s *Station) Queue() []*Customer {
	return s.queue
}

// State reports whether the station is serving a customer.
func (s *Station) State() StationState {
	if len(s.queue) == 0 {
		return StationIdle
	}
	return StationServing
}

// Busy reports whether a service completion is outstanding.
func (s *Station) Busy() bool {
	return s.run.Sim.IsPending(s.completion)
}

// Snapshot returns the routing view of the station.
func (s *Station) Snapshot() StationSnapshot {
	return StationSnapshot{ID: s.ID, QueueLength: len(s.queue)}
}

// customerArrives enqueues a new customer and starts service if the station was idle.
func (s *Station) customerArrives() (*Customer, error) {
	c, err := newCustomer(s.run, s)
	if err != nil {
		return nil, err
	}
	s.Arrivals++
	s.run.Stats.QueueLength.Observe(float64(len(s.queue)))
	s.queue = append(s.queue, c)
	if len(s.queue) == 1 {
		if err := s.startNextService(); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// startNextService puts the head customer in service and schedules its completion.
func (s *Station) startNextService() error {
	if len(s.queue) == 0 {
		return fmt.Errorf("station %d: start service on empty queue", s.ID)
	}
	if s.Busy() {
		return fmt.Errorf("station %d: service completion already outstanding", s.ID)
	}
	head := s.queue[0]
	delay := s.service.Sample()
	h, err := s.ScheduleAfter(delay, sim.EventServiceComplete)
	if err != nil {
		return fmt.Errorf("station %d: scheduling service completion: %w", s.ID, err)
	}
	s.completion = h
	return head.startService()
}

// handleServiceComplete departs the head customer and serves the next one, if any.
func (s *Station) handleServiceComplete(_ sim.Event) error {
	if len(s.queue) == 0 {
		return fmt.Errorf("station %d: service completed with empty queue", s.ID)
	}
	s.completion = sim.EventHandle{}
	head := s.queue[0]
	if err := head.finishService(); err != nil {
		return err
	}
	s.queue[0] = nil
	s.queue = s.queue[1:]
	if len(s.queue) == 0 {
		logrus.Debugf("Station %d is idle", s.ID)
		return nil
	}
	return s.startNextService()
}

// removeCustomer takes an abandoning customer out of the queue. The head is
// always in service with its timer cancelled, so it is never removed here
// and the station state does not change.
func (s *Station) removeCustomer(c *Customer) error {
	for i, q := range s.queue {
		if q != c {
			continue
		}
		if i == 0 {
			return fmt.Errorf("station %d: customer %d in service cannot leave the queue", s.ID, c.ID)
		}
		s.queue = append(s.queue[:i], s.queue[i+1:]...)
		return nil
	}
	return fmt.Errorf("station %d: customer %d not in queue", s.ID, c.ID)
}
