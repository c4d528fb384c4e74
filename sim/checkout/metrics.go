// Collects the outputs of a checkout run for final reporting.

package checkout

import (
	"fmt"
	"io"
	"time"

	"github.com/checkout-sim/checkout-sim/sim"
	"github.com/checkout-sim/checkout-sim/sim/trace"
)

// Average is a reported mean that may be undefined (no observations).
type Average struct {
	Value   float64
	Defined bool
}

func averageOf(o *sim.Observation) Average {
	v, ok := o.Average()
	return Average{Value: v, Defined: ok}
}

// String formats with two decimals, or "-" when undefined.
func (a Average) String() string {
	if !a.Defined {
		return "-"
	}
	return fmt.Sprintf("%.2f", a.Value)
}

// StationResult holds the per-station counters at the end of a run.
type StationResult struct {
	ID          int
	Arrivals    int64
	Served      int64
	Abandoned   int64
	QueueLength int // customers still present when the run stopped
}

// Results aggregates the outputs of one run.
type Results struct {
	RunID        string
	SimEndedTime float64

	Arrivals int64
	GiveUps  int64
	Served   int64

	MeanQueueLength       Average // customers ahead at arrival
	MeanWaitingTime       Average // including service
	MeanQueueingTime      Average // excluding service
	AbandonmentPercentage Average

	Stations []StationResult

	EventsDispatched int64
	EventsSkipped    int64
	WallTime         time.Duration

	Trace   *trace.SimulationTrace // nil if trace-level is "none"
	Summary *trace.TraceSummary    // nil if trace-level is "none"
}

// InSystem returns the customers still queued or in service at the end of the run.
func (res *Results) InSystem() int64 {
	var n int64
	for _, st := range res.Stations {
		n += int64(st.QueueLength)
	}
	return n
}

func (r *Run) results(wall time.Duration) *Results {
	pct, ok := r.Stats.AbandonmentPercentage()
	res := &Results{
		RunID:                 r.ID.String(),
		SimEndedTime:          min(r.Sim.Now(), r.Config.Duration),
		Arrivals:              r.Stats.Arrivals,
		GiveUps:               r.Stats.GiveUps,
		Served:                r.Stats.Served,
		MeanQueueLength:       averageOf(&r.Stats.QueueLength),
		MeanWaitingTime:       averageOf(&r.Stats.WaitingTime),
		MeanQueueingTime:      averageOf(&r.Stats.QueueingTime),
		AbandonmentPercentage: Average{Value: pct, Defined: ok},
		Stations:              make([]StationResult, len(r.Section.Stations)),
		EventsDispatched:      r.Sim.EventsDispatched,
		EventsSkipped:         r.Sim.EventsSkipped,
		WallTime:              wall,
		Trace:                 r.Trace,
	}
	for i, st := range r.Section.Stations {
		res.Stations[i] = StationResult{
			ID:          st.ID,
			Arrivals:    st.Arrivals,
			Served:      st.Served,
			Abandoned:   st.Abandoned,
			QueueLength: st.QueueLength(),
		}
	}
	if r.Trace != nil {
		res.Summary = trace.Summarize(r.Trace)
	}
	return res
}

// Print writes the four summary averages, followed
// by per-station counters.
func (res *Results) Print(w io.Writer) {
	fmt.Fprintln(w, "=== Checkout Simulation ===")
	fmt.Fprintf(w, "Run ID                : %s\n", res.RunID)
	fmt.Fprintf(w, "Arrivals              : %d\n", res.Arrivals)
	fmt.Fprintf(w, "Served                : %d\n", res.Served)
	fmt.Fprintf(w, "Gave up               : %d\n", res.GiveUps)
	fmt.Fprintf(w, "Average observed queue length: %s customers\n", res.MeanQueueLength)
	fmt.Fprintf(w, "Average waiting time (including service): %s seconds\n", res.MeanWaitingTime)
	fmt.Fprintf(w, "Average queueing time (excluding service): %s seconds\n", res.MeanQueueingTime)
	fmt.Fprintf(w, "Percentage of customers that gave up: %s%%\n", res.AbandonmentPercentage)
	for _, st := range res.Stations {
		fmt.Fprintf(w, "Station %-3d: arrivals=%d served=%d gave_up=%d in_queue=%d\n",
			st.ID, st.Arrivals, st.Served, st.Abandoned, st.QueueLength)
	}
	if res.Summary != nil {
		fmt.Fprintf(w, "Trace: %d routing decisions, %d served, %d abandoned, mean time in system %.2f\n",
			res.Summary.TotalDecisions, res.Summary.ServedCount, res.Summary.AbandonedCount, res.Summary.MeanSystemTime)
	}
}
