package checkout

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/checkout-sim/checkout-sim/sim/trace"
	"github.com/checkout-sim/checkout-sim/sim/workload"
)

// never is a delay far beyond any test duration.
const never = 1e9

// scriptedSampler returns the scripted delays in order, then never.
type scriptedSampler struct {
	delays []float64
	next   int
}

func script(delays ...float64) *scriptedSampler {
	return &scriptedSampler{delays: delays}
}

func (s *scriptedSampler) Sample() float64 {
	if s.next >= len(s.delays) {
		return never
	}
	d := s.delays[s.next]
	s.next++
	return d
}

func (s *scriptedSampler) Mean() float64 { return 1 }

// scriptedConfig is a single-station config for scripted runs.
func scriptedConfig(maxWait, duration float64) Config {
	cfg := DefaultConfig()
	cfg.Stations = 1
	cfg.MaxWaitingTime = maxWait
	cfg.Duration = duration
	cfg.TraceLevel = string(trace.TraceLevelDecisions)
	return cfg
}

// newScriptedRun builds a run whose arrivals and (shared) service times are scripted.
func newScriptedRun(t *testing.T, cfg Config, arrivals, service []float64) *Run {
	t.Helper()
	svc := script(service...)
	r, err := NewRun(cfg,
		WithArrivalSampler(script(arrivals...)),
		WithServiceSamplers(func(int) workload.Sampler { return svc }),
	)
	require.NoError(t, err)
	return r
}

func outcomesByCustomer(st *trace.SimulationTrace) map[uint64]trace.OutcomeRecord {
	out := make(map[uint64]trace.OutcomeRecord, len(st.Outcomes))
	for _, o := range st.Outcomes {
		out[o.CustomerID] = o
	}
	return out
}

func avg(t *testing.T, a Average) float64 {
	t.Helper()
	require.True(t, a.Defined, "average must be defined")
	return a.Value
}
