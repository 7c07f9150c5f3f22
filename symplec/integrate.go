package symplec

import (
	"fmt"
	"math"
)

// Stats reports the work done by one integration call.
type Stats struct {
	Steps int     // sub-steps taken
	Evals int     // acceleration evaluations, trial steps included
	Step  float64 // base sub-step chosen by the step estimate
}

// stepFunc advances q and p in place by one sub-step of size h starting at
// time t, using a as the acceleration buffer.
type stepFunc func(accel Acceleration, t, h float64, q, p, a []float64, st *Stats) error

type scheme struct {
	name string
	step stepFunc
}

func integrate(sch *scheme, accel Acceleration, q0, p0, times []float64, rtol, atol float64, traj *Trajectory) (Stats, error) {
	var st Stats
	if err := validate(q0, p0, times, rtol, atol, traj); err != nil {
		return st, err
	}
	if !finite(q0) || !finite(p0) {
		return st, &StepError{Scheme: sch.name, Step: 0, T: times[0], Err: ErrNumericalDivergence}
	}

	traj.save(0, q0, p0)
	if len(times) == 1 {
		return st, nil
	}

	dim := len(q0)
	q := append([]float64(nil), q0...)
	p := append([]float64(nil), p0...)
	a := make([]float64, dim)

	h, err := estimateStep(sch, accel, q, p, times[1]-times[0], times[0], rtol, atol, &st)
	if err != nil {
		return st, &StepError{Scheme: sch.name, Step: 0, T: times[0], Err: err}
	}
	st.Step = h

	for i := 1; i < len(times); i++ {
		// Split the interval into equal sub-steps no larger than h. Restarting
		// from the exact requested time keeps roundoff from accumulating
		// across intervals.
		span := times[i] - times[i-1]
		n := int(math.Ceil(span / h))
		if n < 1 {
			n = 1
		}
		hi := span / float64(n)
		t := times[i-1]
		for j := 0; j < n; j++ {
			if err := sch.step(accel, t, hi, q, p, a, &st); err != nil {
				return st, &StepError{Scheme: sch.name, Step: st.Steps, T: t, Err: err}
			}
			st.Steps++
			t += hi
		}
		if !finite(q) || !finite(p) {
			return st, &StepError{Scheme: sch.name, Step: st.Steps, T: times[i], Err: ErrNumericalDivergence}
		}
		traj.save(i, q, p)
	}
	return st, nil
}

func validate(q0, p0, times []float64, rtol, atol float64, traj *Trajectory) error {
	if len(q0) == 0 {
		return ErrInvalidDimension
	}
	if len(p0) != len(q0) {
		return fmt.Errorf("%w: len(q0)=%d, len(p0)=%d", ErrDimensionMismatch, len(q0), len(p0))
	}
	if traj == nil {
		return fmt.Errorf("symplec: trajectory must not be nil")
	}
	if traj.Dim() != len(q0) {
		return fmt.Errorf("%w: state dimension %d, trajectory dimension %d", ErrDimensionMismatch, len(q0), traj.Dim())
	}
	if len(times) == 0 {
		return fmt.Errorf("symplec: at least one output time is required")
	}
	if traj.Len() != len(times) {
		return fmt.Errorf("symplec: trajectory holds %d rows, want %d", traj.Len(), len(times))
	}
	if rtol <= 0 || math.IsNaN(rtol) {
		return fmt.Errorf("symplec: rtol must be positive, got %g", rtol)
	}
	if atol < 0 || math.IsNaN(atol) {
		return fmt.Errorf("symplec: atol must be non-negative, got %g", atol)
	}
	for i := range times {
		// NaN entries are unordered and would slip past the pairwise check.
		if math.IsNaN(times[i]) || math.IsInf(times[i], 0) {
			return fmt.Errorf("%w: times[%d]=%g is not finite", ErrNonMonotonicTimes, i, times[i])
		}
		if i > 0 && times[i] <= times[i-1] {
			return fmt.Errorf("%w: times[%d]=%g, times[%d]=%g",
				ErrNonMonotonicTimes, i-1, times[i-1], i, times[i])
		}
	}
	return nil
}
