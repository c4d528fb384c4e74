package checkout

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/checkout-sim/checkout-sim/sim"
	"github.com/checkout-sim/checkout-sim/sim/trace"
	"github.com/checkout-sim/checkout-sim/sim/workload"
)

// Stats holds the run-wide accumulators and counters.
// Arrivals and GiveUps only grow during a run.
type Stats struct {
	QueueLength  sim.Observation // station queue length seen by each arrival, before it joins
	QueueingTime sim.Observation // arrival to service start, or to giving up
	WaitingTime  sim.Observation // arrival to departure, service included

	Arrivals int64
	GiveUps  int64
	Served   int64
}

// AbandonmentPercentage returns GiveUps/Arrivals*100; ok is false before any arrival.
func (s *Stats) AbandonmentPercentage() (pct float64, ok bool) {
	if s.Arrivals == 0 {
		return 0, false
	}
	return float64(s.GiveUps) / float64(s.Arrivals) * 100.0, true
}

// Run is the context of one simulation run. It owns the simulator, the
// random streams, the statistics and the identifier generator, so that
// independent runs never share state.
type Run struct {
	ID      uuid.UUID
	Config  Config
	Sim     *sim.Simulator
	RNG     *sim.PartitionedRNG
	Stats   *Stats
	Trace   *trace.SimulationTrace // nil unless trace_level is "decisions"
	Section *PaymentSection

	nextCustomerID uint64
	executed       bool

	arrivalSampler  workload.Sampler
	serviceSamplers func(stationID int) workload.Sampler
}

// RunOption customizes a Run before its section is assembled.
type RunOption func(*Run)

// WithArrivalSampler replaces the seeded interarrival sampler.
func WithArrivalSampler(s workload.Sampler) RunOption {
	return func(r *Run) { r.arrivalSampler = s }
}

// WithServiceSamplers replaces the seeded service-time sampler of each
// station. fn is called once per station with its 1-based ID.
func WithServiceSamplers(fn func(stationID int) workload.Sampler) RunOption {
	return func(r *Run) { r.serviceSamplers = fn }
}

// NewRun validates cfg and assembles a fresh run: a new simulator, zeroed
// statistics, the payment section with its stations, and the first
// scheduled arrival.
func NewRun(cfg Config, opts ...RunOption) (*Run, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := &Run{
		ID:     uuid.New(),
		Config: cfg,
		Sim:    sim.NewSimulator(),
		RNG:    sim.NewPartitionedRNG(sim.NewSimulationKey(cfg.Seed)),
		Stats:  &Stats{},
	}
	for _, opt := range opts {
		opt(r)
	}
	if tc := (trace.TraceConfig{Level: trace.TraceLevel(cfg.TraceLevel)}); tc.Enabled() {
		r.Trace = trace.NewSimulationTrace(tc, r.ID.String())
	}

	section, err := newPaymentSection(r)
	if err != nil {
		return nil, err
	}
	r.Section = section
	return r, nil
}

// Execute runs the simulation up to Config.Duration and collects results.
// A Run executes once; build a new one for another replication.
func (r *Run) Execute() (*Results, error) {
	if r.executed {
		return nil, errors.New("run already executed")
	}
	r.executed = true

	logrus.Infof("Starting run %s: %d stations, interarrival=%.2f, service=%.2f, patience=%.2f, duration=%.0f, seed=%d",
		r.ID, r.Config.Stations, r.Config.MeanInterarrival, r.Config.MeanService,
		r.Config.MaxWaitingTime, r.Config.Duration, r.Config.Seed)

	start := time.Now()
	if err := r.Sim.Run(r.Config.Duration); err != nil {
		return nil, fmt.Errorf("run %s aborted: %w", r.ID, err)
	}
	res := r.results(time.Since(start))

	logrus.Infof("Run %s ended at t=%.2f: %d arrivals, %d served, %d gave up",
		r.ID, r.Sim.Now(), r.Stats.Arrivals, r.Stats.Served, r.Stats.GiveUps)
	return res, nil
}

// Simulate builds and executes a run for cfg.
func Simulate(cfg Config, opts ...RunOption) (*Results, error) {
	r, err := NewRun(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return r.Execute()
}

// newCustomerID hands out the next customer identifier for this run.
func (r *Run) newCustomerID() uint64 {
	r.nextCustomerID++
	return r.nextCustomerID
}
