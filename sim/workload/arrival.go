package workload

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat/distuv"
)

// Process names accepted by NewSampler.
const (
	ProcessExponential = "exponential"
	ProcessGamma       = "gamma"
	ProcessWeibull     = "weibull"
	ProcessConstant    = "constant"
)

var validProcesses = map[string]bool{
	"":                 true, // empty defaults to exponential
	ProcessExponential: true,
	ProcessGamma:       true,
	ProcessWeibull:     true,
	ProcessConstant:    true,
}

// ProcessSpec selects the distribution of a random delay.
// CV is the coefficient of variation; it is ignored for exponential (CV=1)
// and constant (CV=0).
type ProcessSpec struct {
	Process string   `yaml:"process"`
	CV      *float64 `yaml:"cv,omitempty"`
}

// Validate checks the process name and CV range.
func (s ProcessSpec) Validate() error {
	if !validProcesses[s.Process] {
		return fmt.Errorf("unknown process %q; valid: exponential, gamma, weibull, constant", s.Process)
	}
	if s.CV == nil {
		return nil
	}
	cv := *s.CV
	if math.IsNaN(cv) || math.IsInf(cv, 0) || cv <= 0 {
		return fmt.Errorf("cv must be a finite positive number, got %v", cv)
	}
	if s.Process == ProcessWeibull && (cv < 0.01 || cv > 10.4) {
		return fmt.Errorf("weibull cv must be in [0.01, 10.4], got %v", cv)
	}
	return nil
}

// Sampler draws positive random delays with a fixed mean.
type Sampler interface {
	// Sample returns the next delay in simulation time units.
	Sample() float64
	// Mean returns the configured mean delay.
	Mean() float64
}

// ExponentialSampler draws memoryless delays (CV=1).
type ExponentialSampler struct {
	dist distuv.Exponential
	mean float64
}

func (s *ExponentialSampler) Sample() float64 { return s.dist.Rand() }
func (s *ExponentialSampler) Mean() float64   { return s.mean }

// GammaSampler draws Gamma-distributed delays. CV > 1 produces bursty
// arrivals, CV < 1 more regular ones.
type GammaSampler struct {
	dist distuv.Gamma
	mean float64
}

func (s *GammaSampler) Sample() float64 { return s.dist.Rand() }
func (s *GammaSampler) Mean() float64   { return s.mean }

// WeibullSampler draws Weibull-distributed delays.
type WeibullSampler struct {
	dist distuv.Weibull
	mean float64
}

func (s *WeibullSampler) Sample() float64 { return s.dist.Rand() }
func (s *WeibullSampler) Mean() float64   { return s.mean }

// ConstantSampler always returns the mean.
type ConstantSampler struct {
	mean float64
}

func (s *ConstantSampler) Sample() float64 { return s.mean }
func (s *ConstantSampler) Mean() float64   { return s.mean }

// NewSampler creates a Sampler for spec with the given mean, drawing from src.
// mean must be finite and positive.
func NewSampler(spec ProcessSpec, mean float64, src rand.Source) (Sampler, error) {
	if math.IsNaN(mean) || math.IsInf(mean, 0) || mean <= 0 {
		return nil, fmt.Errorf("mean must be a finite positive number, got %v", mean)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	cv := 1.0
	if spec.CV != nil {
		cv = *spec.CV
	}

	switch spec.Process {
	case ProcessConstant:
		return &ConstantSampler{mean: mean}, nil

	case ProcessGamma:
		// shape = 1/CV², rate = shape/mean
		shape := 1.0 / (cv * cv)
		if shape < 0.01 {
			logrus.Warnf("Gamma shape %.4f (CV=%.1f) is very small; falling back to exponential", shape, cv)
			break
		}
		return &GammaSampler{
			dist: distuv.Gamma{Alpha: shape, Beta: shape / mean, Src: src},
			mean: mean,
		}, nil

	case ProcessWeibull:
		k := weibullShapeFromCV(cv)
		// scale = mean / Γ(1 + 1/k)
		scale := mean / math.Gamma(1.0+1.0/k)
		return &WeibullSampler{
			dist: distuv.Weibull{K: k, Lambda: scale, Src: src},
			mean: mean,
		}, nil
	}

	return &ExponentialSampler{
		dist: distuv.Exponential{Rate: 1.0 / mean, Src: src},
		mean: mean,
	}, nil
}

// weibullShapeFromCV finds Weibull shape parameter k such that
// CV² = Γ(1+2/k)/Γ(1+1/k)² - 1, using bisection.
// Range: k ∈ [0.1, 100], tolerance: |CV_computed - CV_target| < 0.001.
func weibullShapeFromCV(targetCV float64) float64 {
	lo, hi := 0.1, 100.0
	for i := 0; i < 100; i++ {
		mid := (lo + hi) / 2.0
		cv := weibullCV(mid)
		if math.Abs(cv-targetCV) < 0.001 {
			return mid
		}
		// CV is monotonically decreasing in k
		if cv > targetCV {
			lo = mid
		} else {
			hi = mid
		}
	}
	logrus.Warnf("weibullShapeFromCV: bisection did not converge for CV=%.3f after 100 iterations; using k=%.3f", targetCV, (lo+hi)/2.0)
	return (lo + hi) / 2.0
}

// weibullCV computes the coefficient of variation for Weibull(k).
func weibullCV(k float64) float64 {
	g1 := math.Gamma(1.0 + 1.0/k)
	g2 := math.Gamma(1.0 + 2.0/k)
	return math.Sqrt(g2/(g1*g1) - 1.0)
}
