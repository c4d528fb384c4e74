package checkout

import (
	"context"
	"fmt"
	"io"
	"math"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Estimate is the across-replication mean of a per-run average, with the
// half-width of its 95% Student-t confidence interval.
type Estimate struct {
	Mean      float64
	HalfWidth float64 // NaN with fewer than two contributing runs
	N         int     // runs in which the average was defined
}

// String formats as "mean ± half-width", or "-" when no run contributed.
func (e Estimate) String() string {
	switch {
	case e.N == 0:
		return "-"
	case math.IsNaN(e.HalfWidth):
		return fmt.Sprintf("%.2f", e.Mean)
	}
	return fmt.Sprintf("%.2f ± %.2f", e.Mean, e.HalfWidth)
}

// ReplicationResults aggregates independent runs of one configuration.
// Replication i uses seed Config.Seed+i.
type ReplicationResults struct {
	Runs []*Results // in replication order

	MeanQueueLength       Estimate
	MeanWaitingTime       Estimate
	MeanQueueingTime      Estimate
	AbandonmentPercentage Estimate
}

// SimulateReplications executes replications runs of cfg, at most
// parallelism at a time (GOMAXPROCS when parallelism <= 0). The first
// failing run cancels the rest.
func SimulateReplications(ctx context.Context, cfg Config, replications, parallelism int) (*ReplicationResults, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if replications < 1 {
		return nil, invalid("replications must be at least 1, got %d", replications)
	}
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}
	logrus.Infof("Starting %d replications (parallelism %d)", replications, parallelism)

	runs := make([]*Results, replications)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for i := range replications {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rc := cfg
			rc.Seed = cfg.Seed + int64(i)
			res, err := Simulate(rc)
			if err != nil {
				return fmt.Errorf("replication %d (seed %d): %w", i, rc.Seed, err)
			}
			runs[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &ReplicationResults{
		Runs:                  runs,
		MeanQueueLength:       estimate(runs, func(r *Results) Average { return r.MeanQueueLength }),
		MeanWaitingTime:       estimate(runs, func(r *Results) Average { return r.MeanWaitingTime }),
		MeanQueueingTime:      estimate(runs, func(r *Results) Average { return r.MeanQueueingTime }),
		AbandonmentPercentage: estimate(runs, func(r *Results) Average { return r.AbandonmentPercentage }),
	}, nil
}

// estimate skips runs where the picked average is undefined.
func estimate(runs []*Results, pick func(*Results) Average) Estimate {
	xs := make([]float64, 0, len(runs))
	for _, r := range runs {
		if a := pick(r); a.Defined {
			xs = append(xs, a.Value)
		}
	}
	e := Estimate{Mean: math.NaN(), HalfWidth: math.NaN(), N: len(xs)}
	switch len(xs) {
	case 0:
		return e
	case 1:
		e.Mean = xs[0]
		return e
	}
	mean, std := stat.MeanStdDev(xs, nil)
	n := float64(len(xs))
	t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: n - 1}.Quantile(0.975)
	e.Mean = mean
	e.HalfWidth = t * std / math.Sqrt(n)
	return e
}

// Print writes the across-replication estimates followed by one line per run.
func (rr *ReplicationResults) Print(w io.Writer) {
	fmt.Fprintf(w, "=== Checkout Simulation: %d replications ===\n", len(rr.Runs))
	fmt.Fprintf(w, "Average observed queue length: %s customers\n", rr.MeanQueueLength)
	fmt.Fprintf(w, "Average waiting time (including service): %s seconds\n", rr.MeanWaitingTime)
	fmt.Fprintf(w, "Average queueing time (excluding service): %s seconds\n", rr.MeanQueueingTime)
	fmt.Fprintf(w, "Percentage of customers that gave up: %s%%\n", rr.AbandonmentPercentage)
	for i, r := range rr.Runs {
		fmt.Fprintf(w, "Run %-3d: id=%s arrivals=%d served=%d gave_up=%d\n",
			i, r.RunID, r.Arrivals, r.Served, r.GiveUps)
	}
}
