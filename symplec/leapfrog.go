package symplec

import "gonum.org/v1/gonum/floats"

// LeapQ advances a position by a drift sub-step: dst = q + h*p.
// dst may alias q.
func LeapQ(dst, q, p []float64, h float64) {
	floats.AddScaledTo(dst, q, h, p)
}

// LeapP advances a momentum by a kick sub-step: dst = p + h*a.
// dst may alias p.
func LeapP(dst, p, a []float64, h float64) {
	floats.AddScaledTo(dst, p, h, a)
}

// Leapfrog integrates the phase-space point (q0, p0) through the given
// output times with the second-order drift-kick-drift scheme, writing one
// snapshot per output time into traj. times must be strictly increasing and
// times[0] is the initial time; its snapshot is always the initial point.
//
// The sub-step is chosen once from the first output interval so that the
// step-doubling error estimate meets atol and rtol, then held fixed to keep
// the scheme symplectic. The returned Stats reports the chosen sub-step and
// the work done.
func Leapfrog(accel Acceleration, q0, p0, times []float64, rtol, atol float64, traj *Trajectory) (Stats, error) {
	return integrate(leapfrogScheme, accel, q0, p0, times, rtol, atol, traj)
}

var leapfrogScheme = &scheme{name: "leapfrog", step: leapfrogStep}

// leapfrogStep advances one drift-kick-drift sub-step. The acceleration is
// sampled at the interval midpoint with the pre-kick momentum.
func leapfrogStep(accel Acceleration, t, h float64, q, p, a []float64, st *Stats) error {
	LeapQ(q, q, p, h/2)
	if err := evalAccel(accel, t+h/2, q, p, a, st); err != nil {
		return err
	}
	LeapP(p, p, a, h)
	LeapQ(q, q, p, h/2)
	return nil
}
