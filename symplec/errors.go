package symplec

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDimension is returned when the phase-space dimension is zero.
	ErrInvalidDimension = errors.New("symplec: phase-space dimension must be positive")

	// ErrDimensionMismatch is returned when position, momentum and trajectory
	// dimensions disagree.
	ErrDimensionMismatch = errors.New("symplec: dimension mismatch")

	// ErrNonMonotonicTimes is returned when the output times are not finite
	// and strictly increasing. NaN entries are unordered and infinite entries
	// can never be reached, so both violate the times contract.
	ErrNonMonotonicTimes = errors.New("symplec: output times must be finite and strictly increasing")

	// ErrNumericalDivergence is returned when a NaN or Inf appears in the
	// acceleration or in the integrated state.
	ErrNumericalDivergence = errors.New("symplec: non-finite value during integration")

	// ErrStepUnderflow is returned when the step search halves the sub-step
	// past its reduction bound without meeting the requested accuracy.
	ErrStepUnderflow = errors.New("symplec: step size underflow before requested accuracy")
)

// StepError reports which scheme failed and where.
type StepError struct {
	Scheme string  // integration scheme in use
	Step   int     // sub-steps completed before the failure
	T      float64 // integration time at the failure
	Err    error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s step %d (t=%.6g): %v", e.Scheme, e.Step, e.T, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }
