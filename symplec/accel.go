package symplec

import "math"

// Acceleration computes the force per unit mass acting on a phase-space
// point. Implementations write the result into a, which has the same length
// as q and p, and must not retain or modify q and p.
type Acceleration interface {
	Accel(t float64, q, p, a []float64)
}

// AccelFunc adapts a plain function to the Acceleration interface.
type AccelFunc func(t float64, q, p, a []float64)

// Accel calls f.
func (f AccelFunc) Accel(t float64, q, p, a []float64) { f(t, q, p, a) }

// evalAccel invokes the callback and rejects non-finite output immediately,
// before it can contaminate the state vectors.
func evalAccel(accel Acceleration, t float64, q, p, a []float64, st *Stats) error {
	accel.Accel(t, q, p, a)
	st.Evals++
	if !finite(a) {
		return ErrNumericalDivergence
	}
	return nil
}

func finite(s []float64) bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
