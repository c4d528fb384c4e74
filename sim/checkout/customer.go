package checkout

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/checkout-sim/checkout-sim/sim"
	"github.com/checkout-sim/checkout-sim/sim/trace"
)

// CustomerState is the lifecycle state of a customer.
type CustomerState string

const (
	CustomerWaiting   CustomerState = "WAITING"
	CustomerInService CustomerState = "IN_SERVICE"
	CustomerDeparted  CustomerState = "DEPARTED"
	CustomerAbandoned CustomerState = "ABANDONED"
)

// Customer is one shopper at the checkout. It is owned by its station from
// arrival until it departs or gives up.
type Customer struct {
	sim.Entity

	ID           uint64
	State        CustomerState
	ArrivalTime  float64
	ServiceStart float64

	run     *Run
	station *Station
	giveUp  sim.EventHandle
}

// newCustomer records the arrival and arms the give-up timer.
func newCustomer(r *Run, station *Station) (*Customer, error) {
	c := &Customer{
		Entity:      sim.NewEntity(r.Sim),
		ID:          r.newCustomerID(),
		State:       CustomerWaiting,
		ArrivalTime: r.Sim.Now(),
		run:         r,
		station:     station,
	}
	r.Stats.Arrivals++

	h, err := c.ScheduleAfter(r.Config.MaxWaitingTime, sim.EventGiveUp)
	if err != nil {
		return nil, fmt.Errorf("arming give-up timer for customer %d: %w", c.ID, err)
	}
	c.giveUp = h
	c.Wait(sim.EventGiveUp, sim.HandlerFunc(c.handleGiveUp))

	logrus.Debugf("Customer %d arrives and queues at station %d", c.ID, station.ID)
	return c, nil
}

// Station returns the station the customer queues at.
func (c *Customer) Station() *Station {
	return c.station
}

// GiveUpEvent returns the handle of the pending give-up timer.
func (c *Customer) GiveUpEvent() sim.EventHandle {
	return c.giveUp
}

// startService cancels the give-up timer. From here the customer can only
// leave by being served.
func (c *Customer) startService() error {
	if c.State != CustomerWaiting {
		return fmt.Errorf("customer %d cannot start service in state %s", c.ID, c.State)
	}
	now := c.Now()
	c.State = CustomerInService
	c.ServiceStart = now
	c.run.Stats.QueueingTime.Observe(now - c.ArrivalTime)
	c.Cancel(c.giveUp)
	c.Dismiss(sim.EventGiveUp)
	logrus.Debugf("Customer %d starts being serviced at station %d", c.ID, c.station.ID)
	return nil
}

// finishService records the time in system for a served customer.
func (c *Customer) finishService() error {
	if c.State != CustomerInService {
		return fmt.Errorf("customer %d cannot finish service in state %s", c.ID, c.State)
	}
	now := c.Now()
	c.State = CustomerDeparted
	c.run.Stats.WaitingTime.Observe(now - c.ArrivalTime)
	c.run.Stats.Served++
	c.station.Served++
	c.recordOutcome(trace.OutcomeServed, now)
	logrus.Debugf("Customer %d finishes being serviced at station %d", c.ID, c.station.ID)
	return nil
}

// handleGiveUp only runs if the timer was not cancelled by service start.
func (c *Customer) handleGiveUp(ev sim.Event) error {
	if c.State != CustomerWaiting {
		return fmt.Errorf("customer %d gave up in state %s", c.ID, c.State)
	}
	now := ev.Time
	waited := now - c.ArrivalTime
	c.State = CustomerAbandoned
	c.ServiceStart = now
	c.run.Stats.GiveUps++
	c.run.Stats.QueueingTime.Observe(waited)
	c.run.Stats.WaitingTime.Observe(waited)
	c.station.Abandoned++
	c.Dismiss(sim.EventGiveUp)
	c.recordOutcome(trace.OutcomeAbandoned, now)
	logrus.Debugf("Customer %d gives up waiting and leaves queue for station %d", c.ID, c.station.ID)
	return c.station.removeCustomer(c)
}

func (c *Customer) recordOutcome(outcome trace.Outcome, now float64) {
	if c.run.Trace == nil {
		return
	}
	c.run.Trace.RecordOutcome(trace.OutcomeRecord{
		CustomerID:   c.ID,
		StationID:    c.station.ID,
		Outcome:      outcome,
		ArrivalTime:  c.ArrivalTime,
		ServiceStart: c.ServiceStart,
		DepartTime:   now,
	})
}
