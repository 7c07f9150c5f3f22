package orbit

import "github.com/morganb-phys/galpy/symplec"

// Result collects the output of one integration run. On cancellation or
// failure it holds the snapshots completed so far, with Times truncated to
// match.
type Result struct {
	Times  []float64           // snapshot times actually produced
	Traj   *symplec.Trajectory // one row per entry in Times
	Energy []float64           // per-snapshot energy, nil without a Hamiltonian

	EnergyDrift float64 // max |E - E0| / |E0| over the run
	Steps       int     // sub-steps taken
	Evals       int     // acceleration evaluations
	Step        float64 // sub-step in use when the run ended
}

func (r *Result) truncate(n int) {
	r.Times = r.Times[:n]
	r.Traj = r.Traj.Head(n)
	if len(r.Energy) > n {
		r.Energy = r.Energy[:n]
	}
}
