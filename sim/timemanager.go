package sim

import (
	"math"

	"github.com/pkg/errors"
)

// ExecMode selects how the simulator advances time.
type ExecMode int

const (
	// FixedRate advances time by a constant base period.
	FixedRate ExecMode = iota

	// VariableRate is recognized but not implemented. Requesting it fails at
	// construction, never silently degrades to fixed-rate stepping.
	VariableRate
)

// periodTolerance is the largest relative deviation from an integer multiple
// that a sample period may carry before it is rejected.
const periodTolerance = 1e-6

// A TimeManager decides the size of the next time step.
type TimeManager interface {
	// StepSize returns the step to advance time by from now.
	StepSize(now VTimeInSec) VTimeInSec
}

// NewTimeManager creates the TimeManager for the requested execution mode.
func NewTimeManager(
	mode ExecMode,
	base VTimeInSec,
	periods []VTimeInSec,
) (TimeManager, error) {
	switch mode {
	case FixedRate:
		return NewFixedStepTimeManager(base, periods)
	case VariableRate:
		return nil, errors.New("variable-rate execution is not implemented")
	default:
		return nil, errors.Errorf("unknown execution mode %d", mode)
	}
}

// A FixedStepTimeManager advances time by a constant base period. Every
// sample period in the model must be an integer multiple of the base period.
// A non-multiple period could never be reached exactly by fixed-rate
// stepping, so it is rejected at construction.
type FixedStepTimeManager struct {
	base VTimeInSec
}

// NewFixedStepTimeManager creates a FixedStepTimeManager, validating every
// sample period against the base period.
func NewFixedStepTimeManager(
	base VTimeInSec,
	periods []VTimeInSec,
) (*FixedStepTimeManager, error) {
	if base <= 0 {
		return nil, errors.Errorf("base period must be positive, got %v", base)
	}

	for _, p := range periods {
		if err := validatePeriod(base, p); err != nil {
			return nil, err
		}
	}

	return &FixedStepTimeManager{base: base}, nil
}

func validatePeriod(base, p VTimeInSec) error {
	if p <= 0 {
		return errors.Errorf("sample period must be positive, got %v", p)
	}

	ratio := float64(p / base)
	n := math.Round(ratio)

	if n < 1 || math.Abs(ratio-n) > periodTolerance*n {
		return errors.Errorf(
			"sample period %v is not an integer multiple of base period %v",
			p, base)
	}

	return nil
}

// StepSize returns the constant base period.
func (tm *FixedStepTimeManager) StepSize(_ VTimeInSec) VTimeInSec {
	return tm.base
}

// BasePeriod returns the base period of the manager.
func (tm *FixedStepTimeManager) BasePeriod() VTimeInSec {
	return tm.base
}
