package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/checkout-sim/checkout-sim/sim"
	"github.com/checkout-sim/checkout-sim/sim/trace"
)

func TestStation_ServiceStartCancelsGiveUp(t *testing.T) {
	// GIVEN customer 2 arriving at t=2 behind customer 1 (service 1..4),
	// with patience 10, so its service starts at t=4 (ε=2 < 10)
	r := newScriptedRun(t, scriptedConfig(10, 100), []float64{1, 1}, []float64{3, 5})

	// WHEN the run executes
	res, err := r.Execute()
	require.NoError(t, err)

	// THEN nobody gives up and both give-up timers were skipped at dispatch
	assert.Equal(t, int64(2), res.Arrivals)
	assert.Equal(t, int64(2), res.Served)
	assert.Equal(t, int64(0), res.GiveUps)
	assert.Equal(t, int64(2), res.EventsSkipped)
	assert.Equal(t, int64(4), res.EventsDispatched)
	assert.Equal(t, 9.0, res.SimEndedTime)

	// AND customer 2 records one waiting-time observation of at least ε
	outcomes := outcomesByCustomer(r.Trace)
	c2 := outcomes[2]
	assert.Equal(t, trace.OutcomeServed, c2.Outcome)
	assert.Equal(t, 4.0, c2.ServiceStart)
	assert.Equal(t, 7.0, c2.SystemTime())
	assert.GreaterOrEqual(t, c2.SystemTime(), 2.0)

	assert.Equal(t, 5.0, avg(t, res.MeanWaitingTime))  // (3 + 7) / 2
	assert.Equal(t, 1.0, avg(t, res.MeanQueueingTime)) // (0 + 2) / 2
	assert.Equal(t, 0.5, avg(t, res.MeanQueueLength))  // (0 + 1) / 2
	assert.Equal(t, 0.0, avg(t, res.AbandonmentPercentage))
	assert.Equal(t, int64(2), r.Stats.WaitingTime.Count())
}

func TestStation_WaitingCustomerGivesUp(t *testing.T) {
	// GIVEN patience 2 and a 10-unit service for customer 1
	r := newScriptedRun(t, scriptedConfig(2, 50), []float64{1, 1}, []float64{10})

	// WHEN the run executes
	res, err := r.Execute()
	require.NoError(t, err)

	// THEN customer 2 abandons at t=4 and customer 1 is still served
	assert.Equal(t, int64(2), res.Arrivals)
	assert.Equal(t, int64(1), res.Served)
	assert.Equal(t, int64(1), res.GiveUps)
	assert.Equal(t, 50.0, avg(t, res.AbandonmentPercentage))
	assert.Equal(t, 1.0, avg(t, res.MeanQueueingTime)) // (0 + 2) / 2
	assert.Equal(t, 6.0, avg(t, res.MeanWaitingTime))  // (2 + 10) / 2

	c2 := outcomesByCustomer(r.Trace)[2]
	assert.Equal(t, trace.OutcomeAbandoned, c2.Outcome)
	assert.Equal(t, 4.0, c2.DepartTime)

	st := res.Stations[0]
	assert.Equal(t, StationResult{ID: 1, Arrivals: 2, Served: 1, Abandoned: 1, QueueLength: 0}, st)
	assert.Equal(t, StationIdle, r.Section.Stations[0].State())
}

func TestStation_GiveUpFromMiddleOfQueue(t *testing.T) {
	// GIVEN three customers behind a long service, patience 5
	r := newScriptedRun(t, scriptedConfig(5, 7.5), []float64{1, 1, 1}, []float64{100})

	// WHEN the run stops after customer 2 (t=7) but before customer 3 (t=8) gives up
	res, err := r.Execute()
	require.NoError(t, err)

	// THEN only customer 2 left, and the station keeps serving customer 1
	assert.Equal(t, int64(1), res.GiveUps)
	station := r.Section.Stations[0]
	require.Equal(t, 2, station.QueueLength())
	assert.Equal(t, uint64(1), station.Queue()[0].ID)
	assert.Equal(t, uint64(3), station.Queue()[1].ID)
	assert.Equal(t, CustomerInService, station.Queue()[0].State)
	assert.Equal(t, CustomerWaiting, station.Queue()[1].State)
	assert.Equal(t, StationServing, station.State())
	assert.True(t, station.Busy())
	assert.Equal(t, int64(2), res.InSystem())
}

func TestStation_EqualTimes_CompletionScheduledFirstWins(t *testing.T) {
	// GIVEN customer 1's completion (scheduled at t=1) and customer 2's
	// give-up (scheduled at t=2) both due at t=7
	r := newScriptedRun(t, scriptedConfig(5, 50), []float64{1, 1}, []float64{6, 1})

	res, err := r.Execute()
	require.NoError(t, err)

	// THEN the completion is dispatched first, service start cancels the give-up
	assert.Equal(t, int64(0), res.GiveUps)
	assert.Equal(t, int64(2), res.Served)
	c2 := outcomesByCustomer(r.Trace)[2]
	assert.Equal(t, 5.0, c2.QueueingTime())
}

func TestStation_EqualTimes_GiveUpScheduledFirstWins(t *testing.T) {
	// GIVEN customer 3's give-up (scheduled at t=3) and customer 2's
	// completion (scheduled at t=4) both due at t=8
	r := newScriptedRun(t, scriptedConfig(5, 50), []float64{1, 1, 1}, []float64{3, 4})

	res, err := r.Execute()
	require.NoError(t, err)

	// THEN customer 3 abandons before customer 2 departs
	assert.Equal(t, int64(1), res.GiveUps)
	assert.Equal(t, int64(2), res.Served)
	outcomes := r.Trace.Outcomes
	require.Len(t, outcomes, 3)
	assert.Equal(t, uint64(3), outcomes[1].CustomerID)
	assert.Equal(t, trace.OutcomeAbandoned, outcomes[1].Outcome)
	assert.Equal(t, uint64(2), outcomes[2].CustomerID)
	assert.Equal(t, 8.0, outcomes[2].DepartTime)
}

func TestStation_ZeroPatience_OnlyIdleArrivalsServed(t *testing.T) {
	// GIVEN zero patience: the give-up timer fires at the arrival instant
	r := newScriptedRun(t, scriptedConfig(0, 50), []float64{1, 1}, []float64{10})

	res, err := r.Execute()
	require.NoError(t, err)

	// THEN the customer finding the station idle is served, the other abandons at once
	assert.Equal(t, int64(1), res.Served)
	assert.Equal(t, int64(1), res.GiveUps)
	assert.Equal(t, 0.0, avg(t, res.MeanQueueingTime))
}

func TestStation_RemoveCustomer_ContractViolations(t *testing.T) {
	r := newScriptedRun(t, scriptedConfig(10, 10), nil, nil)
	station := r.Section.Stations[0]
	head, err := station.customerArrives()
	require.NoError(t, err)
	second, err := station.customerArrives()
	require.NoError(t, err)

	assert.Error(t, station.removeCustomer(head), "customer in service cannot leave")
	require.NoError(t, station.removeCustomer(second))
	assert.Error(t, station.removeCustomer(second), "customer already removed")
	assert.Equal(t, 1, station.QueueLength())
}

func TestStation_ServiceComplete_OnEmptyQueue_IsError(t *testing.T) {
	r := newScriptedRun(t, scriptedConfig(10, 10), nil, nil)
	station := r.Section.Stations[0]
	err := station.handleServiceComplete(sim.Event{Type: sim.EventServiceComplete, Target: station.EntityID()})
	assert.Error(t, err)
}

func TestCustomer_GiveUpAfterServiceStart_IsError(t *testing.T) {
	r := newScriptedRun(t, scriptedConfig(10, 10), nil, nil)
	station := r.Section.Stations[0]
	c, err := station.customerArrives()
	require.NoError(t, err)
	require.Equal(t, CustomerInService, c.State)
	assert.False(t, r.Sim.IsPending(c.GiveUpEvent()), "service start must cancel the give-up timer")

	err = c.handleGiveUp(sim.Event{Type: sim.EventGiveUp, Target: c.EntityID()})
	assert.Error(t, err)
	assert.Equal(t, int64(0), r.Stats.GiveUps)
}
