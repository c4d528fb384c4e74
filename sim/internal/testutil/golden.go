// Package testutil provides shared test infrastructure for the checkout simulator.
// It holds the queueing reference dataset and the assertion helpers used to
// compare simulated statistics against closed-form results.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// ReferenceDataset represents the structure of testdata/queueing_reference.json.
type ReferenceDataset struct {
	Cases []ReferenceCase `json:"cases"`
}

// ReferenceCase is a single-station configuration with analytically known
// steady-state metrics.
type ReferenceCase struct {
	Name             string  `json:"name"`
	MeanInterarrival float64 `json:"mean_interarrival_time"`
	MeanService      float64 `json:"mean_service_time"`
	// MaxWaitingTime is nil for customers that never give up.
	MaxWaitingTime *float64         `json:"max_waiting_time"`
	Service        ReferenceProcess `json:"service"`
	Duration       float64          `json:"duration"`
	Seed           int64            `json:"seed"`
	RelTol         float64          `json:"rel_tol"`
	Expected       ReferenceMetrics `json:"expected"`
}

// ReferenceProcess names a service-time distribution.
type ReferenceProcess struct {
	Process string   `json:"process"`
	CV      *float64 `json:"cv"`
}

// ReferenceMetrics are the expected long-run averages. Nil fields are not checked.
type ReferenceMetrics struct {
	MeanQueueingTime      *float64 `json:"mean_queueing_time"`
	MeanWaitingTime       *float64 `json:"mean_waiting_time"`
	MeanQueueLength       *float64 `json:"mean_queue_length"`
	AbandonmentPercentage *float64 `json:"abandonment_percentage"`
}

// Patience returns MaxWaitingTime, or +Inf when the case has none.
func (c ReferenceCase) Patience() float64 {
	if c.MaxWaitingTime == nil {
		return math.Inf(1)
	}
	return *c.MaxWaitingTime
}

// LoadReferenceDataset loads the reference dataset from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadReferenceDataset(t *testing.T) *ReferenceDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	// Navigate from sim/internal/testutil/ to repo root testdata/
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "queueing_reference.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read reference dataset: %v", err)
	}

	var dataset ReferenceDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse reference dataset: %v", err)
	}
	if len(dataset.Cases) == 0 {
		t.Fatal("Reference dataset has no cases")
	}
	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
// A zero expectation requires an exact zero.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
