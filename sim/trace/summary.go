package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalDecisions     int
	ServedCount        int
	AbandonedCount     int
	MeanSystemTime     float64
	MaxSystemTime      float64
	UniqueTargets      int
	TargetDistribution map[int]int // station ID → count of customers routed
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		TargetDistribution: make(map[int]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalDecisions = len(st.Routings)
	for _, r := range st.Routings {
		summary.TargetDistribution[r.ChosenStation]++
	}

	if len(st.Outcomes) > 0 {
		total := 0.0
		for _, o := range st.Outcomes {
			switch o.Outcome {
			case OutcomeServed:
				summary.ServedCount++
			case OutcomeAbandoned:
				summary.AbandonedCount++
			}
			t := o.SystemTime()
			total += t
			if t > summary.MaxSystemTime {
				summary.MaxSystemTime = t
			}
		}
		summary.MeanSystemTime = total / float64(len(st.Outcomes))
	}

	summary.UniqueTargets = len(summary.TargetDistribution)

	return summary
}
