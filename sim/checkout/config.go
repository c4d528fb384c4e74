package checkout

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/checkout-sim/checkout-sim/sim/trace"
	"github.com/checkout-sim/checkout-sim/sim/workload"
)

// ErrInvalidConfiguration is returned when a Config cannot start a run.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// Config holds every input of one checkout simulation run.
// Times share one unit (seconds in the defaults).
type Config struct {
	Stations         int     `yaml:"stations"`               // number of parallel cash registers (>= 1)
	MeanInterarrival float64 `yaml:"mean_interarrival_time"` // mean time between customer arrivals
	MeanService      float64 `yaml:"mean_service_time"`      // mean service duration per customer
	MaxWaitingTime   float64 `yaml:"max_waiting_time"`       // patience before a waiting customer gives up
	Duration         float64 `yaml:"duration"`               // simulation time at which the run stops
	Seed             int64   `yaml:"seed"`                   // master seed for all random streams

	Routing    string               `yaml:"routing"`     // "shortest-queue" (default), "round-robin", "random"
	Arrival    workload.ProcessSpec `yaml:"arrival"`     // interarrival distribution
	Service    workload.ProcessSpec `yaml:"service"`     // service-time distribution
	TraceLevel string               `yaml:"trace_level"` // "none" (default) or "decisions"
}

// DefaultConfig returns the reference supermarket: three registers, a
// customer every 20/3 seconds, 18 second service, 3 minute patience.
func DefaultConfig() Config {
	return Config{
		Stations:         3,
		MeanInterarrival: 20.0 / 3.0,
		MeanService:      18.0,
		MaxWaitingTime:   180.0,
		Duration:         100000.0,
		Seed:             42,
		Routing:          RoutingShortestQueue,
		Arrival:          workload.ProcessSpec{Process: workload.ProcessExponential},
		Service:          workload.ProcessSpec{Process: workload.ProcessExponential},
		TraceLevel:       string(trace.TraceLevelNone),
	}
}

// LoadConfig reads a YAML config file on top of DefaultConfig.
// Uses strict parsing: unrecognized keys (typos) are rejected.
// The result is not validated; NewRun does that.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading checkout config: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing checkout config: %w", err)
	}
	return cfg, nil
}

// Validate checks every field. All failures wrap ErrInvalidConfiguration.
func (c Config) Validate() error {
	if c.Stations < 1 {
		return invalid("stations must be at least 1, got %d", c.Stations)
	}
	if err := validateFinitePositive("mean_interarrival_time", c.MeanInterarrival); err != nil {
		return err
	}
	if err := validateFinitePositive("mean_service_time", c.MeanService); err != nil {
		return err
	}
	if math.IsNaN(c.MaxWaitingTime) || c.MaxWaitingTime < 0 {
		return invalid("max_waiting_time must be non-negative, got %v", c.MaxWaitingTime)
	}
	if err := validateFinitePositive("duration", c.Duration); err != nil {
		return err
	}
	if !validRoutingPolicies[c.Routing] {
		return invalid("unknown routing policy %q; valid: shortest-queue, round-robin, random", c.Routing)
	}
	if err := c.Arrival.Validate(); err != nil {
		return invalid("arrival: %v", err)
	}
	if err := c.Service.Validate(); err != nil {
		return invalid("service: %v", err)
	}
	if !trace.IsValidTraceLevel(c.TraceLevel) {
		return invalid("unknown trace level %q; valid: none, decisions", c.TraceLevel)
	}
	return nil
}

func validateFinitePositive(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return invalid("%s must be a finite positive number, got %v", field, v)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}
