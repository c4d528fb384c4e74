package sim

import "fmt"

// Observation is a running-mean accumulator.
// The zero value is ready to use and holds no data.
type Observation struct {
	sum   float64
	count int64
}

// Observe adds value to the running sum.
func (o *Observation) Observe(value float64) {
	o.sum += value
	o.count++
}

// Count returns the number of observed values.
func (o *Observation) Count() int64 {
	return o.count
}

// Sum returns the running sum.
func (o *Observation) Sum() float64 {
	return o.sum
}

// Average returns sum/count. ok is false when nothing was observed.
func (o *Observation) Average() (avg float64, ok bool) {
	if o.count == 0 {
		return 0, false
	}
	return o.sum / float64(o.count), true
}

// String formats the average with two decimals, or "-" when undefined.
func (o *Observation) String() string {
	avg, ok := o.Average()
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%.2f", avg)
}
