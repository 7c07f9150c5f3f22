package symplec

// Forest & Ruth composition coefficients: four drifts interleaved with
// three kicks per sub-step.
var (
	symplec4C = [...]float64{
		0.6756035959798289,
		-0.1756035959798288,
		-0.1756035959798288,
		0.6756035959798289,
	}
	symplec4D = [...]float64{
		1.3512071919596578,
		-1.7024143839193153,
		1.3512071919596578,
	}
)

// Yoshida sixth-order composition coefficients: eight drifts interleaved
// with seven kicks per sub-step.
var (
	symplec6C = [...]float64{
		0.392256805238780,
		0.510043411918458,
		-0.4710533854097565,
		0.068753168252518,
		0.068753168252518,
		-0.4710533854097565,
		0.510043411918458,
		0.392256805238780,
	}
	symplec6D = [...]float64{
		0.784513610477560,
		0.235573213359357,
		-1.17767998417887,
		1.315186320683906,
		-1.17767998417887,
		0.235573213359357,
		0.784513610477560,
	}
)

// Symplec4 integrates with the fourth-order Forest-Ruth composition scheme.
// The calling convention matches Leapfrog.
func Symplec4(accel Acceleration, q0, p0, times []float64, rtol, atol float64, traj *Trajectory) (Stats, error) {
	return integrate(symplec4Scheme, accel, q0, p0, times, rtol, atol, traj)
}

// Symplec6 integrates with the sixth-order Yoshida composition scheme.
// The calling convention matches Leapfrog.
func Symplec6(accel Acceleration, q0, p0, times []float64, rtol, atol float64, traj *Trajectory) (Stats, error) {
	return integrate(symplec6Scheme, accel, q0, p0, times, rtol, atol, traj)
}

var (
	symplec4Scheme = &scheme{name: "symplec4", step: compositeStep(symplec4C[:], symplec4D[:])}
	symplec6Scheme = &scheme{name: "symplec6", step: compositeStep(symplec6C[:], symplec6D[:])}
)

// compositeStep builds a sub-step from alternating drift and kick stages.
// c holds the drift fractions, d the kick fractions, len(c) == len(d)+1,
// and each sums to one. The acceleration for kick k is sampled at the time
// reached by the drifts so far.
func compositeStep(c, d []float64) stepFunc {
	return func(accel Acceleration, t, h float64, q, p, a []float64, st *Stats) error {
		tq := t
		for k, ck := range c {
			LeapQ(q, q, p, ck*h)
			tq += ck * h
			if k == len(d) {
				break
			}
			if err := evalAccel(accel, tq, q, p, a, st); err != nil {
				return err
			}
			LeapP(p, p, a, d[k]*h)
		}
		return nil
	}
}
