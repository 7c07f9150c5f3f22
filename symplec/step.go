package symplec

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// maxStepReduce bounds the step search: the trial step is halved until the
// error estimate passes or the reduction ratio reaches this value.
const maxStepReduce = 10000.0

// EstimateStep returns the largest power-of-two fraction of h0 for which one
// leapfrog sub-step from (q, p) at time t0 meets the step-doubling accuracy
// target, halving from h0 downward. It fails with ErrStepUnderflow when no
// step within the reduction bound is accurate enough.
func EstimateStep(accel Acceleration, q, p []float64, h0, t0, rtol, atol float64) (float64, error) {
	if len(q) == 0 {
		return 0, ErrInvalidDimension
	}
	if len(p) != len(q) {
		return 0, fmt.Errorf("%w: len(q)=%d, len(p)=%d", ErrDimensionMismatch, len(q), len(p))
	}
	if h0 <= 0 || math.IsNaN(h0) || math.IsInf(h0, 0) {
		return 0, fmt.Errorf("symplec: trial step must be positive and finite, got %g", h0)
	}
	if !finite(q) || !finite(p) {
		return 0, ErrNumericalDivergence
	}
	var st Stats
	return estimateStep(leapfrogScheme, accel, q, p, h0, t0, rtol, atol, &st)
}

// estimateStep halves the trial step until the scaled RMS difference between
// one full step and two half steps drops below one. q and p are not
// modified.
func estimateStep(sch *scheme, accel Acceleration, q, p []float64, h0, t0, rtol, atol float64, st *Stats) (float64, error) {
	dim := len(q)
	sq := atol + rtol*floats.Norm(q, math.Inf(1))
	sp := atol + rtol*floats.Norm(p, math.Inf(1))

	q1 := make([]float64, dim)
	p1 := make([]float64, dim)
	q2 := make([]float64, dim)
	p2 := make([]float64, dim)
	a := make([]float64, dim)

	h := 2 * h0
	for {
		if h0/h >= maxStepReduce {
			return 0, ErrStepUnderflow
		}
		h /= 2

		// One full step against two half steps from the same point.
		copy(q1, q)
		copy(p1, p)
		if err := sch.step(accel, t0, h, q1, p1, a, st); err != nil {
			return 0, err
		}
		copy(q2, q)
		copy(p2, p)
		if err := sch.step(accel, t0, h/2, q2, p2, a, st); err != nil {
			return 0, err
		}
		if err := sch.step(accel, t0+h/2, h/2, q2, p2, a, st); err != nil {
			return 0, err
		}

		var sum float64
		for i := 0; i < dim; i++ {
			dq := (q1[i] - q2[i]) / sq
			dp := (p1[i] - p2[i]) / sp
			sum += dq*dq + dp*dp
		}
		if errEst := math.Sqrt(sum / float64(2*dim)); errEst <= 1 {
			return h, nil
		}
	}
}
