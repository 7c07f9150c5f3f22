// Package symplec provides symplectic integrators for separable Hamiltonian
// systems written in phase-space form.
//
// The package integrates Hamilton's equations for a state split into a
// position vector q and a momentum vector p (unit mass), advancing both
// through time-reversible drift and kick sub-steps:
//
//   - [Leapfrog]: second-order drift-kick-drift scheme
//   - [Symplec4]: fourth-order Forest-Ruth composition
//   - [Symplec6]: sixth-order Yoshida composition
//
// All three share the same calling convention: the caller supplies an
// [Acceleration], the initial phase-space point, the strictly increasing
// output times, and a caller-allocated [Trajectory] that receives one
// snapshot per requested time. The integrators keep no state between calls,
// so concurrent integrations over independent buffers need no locking.
//
// # Step Selection
//
// The internal sub-step is chosen once per call by [EstimateStep]: starting
// from the first output interval, the trial step is halved until the
// step-doubling error estimate (one full step against two half steps, scaled
// by atol + rtol*max|q| for positions and atol + rtol*max|p| for momenta)
// falls below one. The chosen step therefore always divides the trial
// interval exactly; remaining intervals are split into the smallest number
// of equal sub-steps no larger than it.
//
// # Energy Conservation
//
// Symplectic schemes do not conserve energy exactly, but keep the error
// bounded and oscillating instead of drifting secularly:
//
//	accel := symplec.AccelFunc(func(t float64, q, p, a []float64) {
//		for i := range q {
//			a[i] = -q[i] // harmonic well
//		}
//	})
//	traj := symplec.NewTrajectory(2, len(times))
//	stats, err := symplec.Leapfrog(accel, q0, p0, times, 1e-8, 1e-8, traj)
package symplec
