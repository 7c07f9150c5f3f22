// Package orbit drives the symplec integrators through long runs with
// cancellation, per-snapshot energy tracking and a sub-step work budget.
package orbit

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/morganb-phys/galpy/symplec"
)

// Orbit holds the initial phase-space point of a single body.
type Orbit struct {
	q0, p0 []float64
}

// New copies the initial position and momentum into a new Orbit.
func New(q0, p0 []float64) *Orbit {
	return &Orbit{
		q0: append([]float64(nil), q0...),
		p0: append([]float64(nil), p0...),
	}
}

// Dim returns the phase-space dimension.
func (o *Orbit) Dim() int { return len(o.q0) }

// Hamiltonian is implemented by accelerations whose conserved energy can be
// evaluated at a phase-space point. Integrate records the energy of every
// snapshot when the acceleration provides one.
type Hamiltonian interface {
	Energy(q, p []float64) float64
}

// Config controls one integration run.
type Config struct {
	Scheme   string  // scheme name from Schemes; empty selects leapfrog
	Rtol     float64 // relative accuracy target for the sub-step choice
	Atol     float64 // absolute accuracy target for the sub-step choice
	MaxSteps int     // sub-step budget for the whole run, 0 means unlimited
}

// DefaultConfig returns the standard run settings.
func DefaultConfig() Config {
	return Config{
		Scheme:   "leapfrog",
		Rtol:     1e-8,
		Atol:     1e-8,
		MaxSteps: 10_000_000,
	}
}

// Schemes lists the available integration scheme names.
func Schemes() []string { return []string{"leapfrog", "symplec4", "symplec6"} }

type integrateFunc func(symplec.Acceleration, []float64, []float64, []float64, float64, float64, *symplec.Trajectory) (symplec.Stats, error)

func stepperFor(name string) (integrateFunc, error) {
	switch name {
	case "", "leapfrog":
		return symplec.Leapfrog, nil
	case "symplec4":
		return symplec.Symplec4, nil
	case "symplec6":
		return symplec.Symplec6, nil
	}
	return nil, fmt.Errorf("%w %q (have %s)", ErrUnknownScheme, name, strings.Join(Schemes(), ", "))
}

func finite(s []float64) bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func validateConfig(cfg Config) error {
	if cfg.Rtol <= 0 {
		return fmt.Errorf("orbit: rtol must be positive, got %g", cfg.Rtol)
	}
	if cfg.Atol < 0 {
		return fmt.Errorf("orbit: atol must be non-negative, got %g", cfg.Atol)
	}
	if cfg.MaxSteps < 0 {
		return fmt.Errorf("orbit: max steps must be non-negative, got %d", cfg.MaxSteps)
	}
	return nil
}

// Integrate advances the orbit through the given output times under accel.
// It integrates one output interval at a time, checking the context and the
// sub-step budget between intervals, so a cancelled run still returns the
// snapshots completed so far together with the context error.
func (o *Orbit) Integrate(ctx context.Context, accel symplec.Acceleration, times []float64, cfg Config) (*Result, error) {
	step, err := stepperFor(cfg.Scheme)
	if err != nil {
		return nil, err
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	if o.Dim() == 0 {
		return nil, symplec.ErrInvalidDimension
	}
	if len(o.p0) != len(o.q0) {
		return nil, symplec.ErrDimensionMismatch
	}
	if len(times) == 0 {
		return nil, fmt.Errorf("orbit: at least one output time is required")
	}
	for i := range times {
		if math.IsNaN(times[i]) || math.IsInf(times[i], 0) {
			return nil, symplec.ErrNonMonotonicTimes
		}
		if i > 0 && times[i] <= times[i-1] {
			return nil, symplec.ErrNonMonotonicTimes
		}
	}
	if !finite(o.q0) || !finite(o.p0) {
		return nil, symplec.ErrNumericalDivergence
	}

	dim := o.Dim()
	traj := symplec.NewTrajectory(dim, len(times))
	res := &Result{
		Times: append([]float64(nil), times...),
		Traj:  traj,
	}

	q0v, p0v := traj.At(0)
	copy(q0v, o.q0)
	copy(p0v, o.p0)

	ham, hasEnergy := accel.(Hamiltonian)
	var e0 float64
	if hasEnergy {
		e0 = ham.Energy(o.q0, o.p0)
		res.Energy = append(make([]float64, 0, len(times)), e0)
	}

	q := append([]float64(nil), o.q0...)
	p := append([]float64(nil), o.p0...)
	chunk := symplec.NewTrajectory(dim, 2)
	window := make([]float64, 2)

	for i := 1; i < len(times); i++ {
		select {
		case <-ctx.Done():
			res.truncate(i)
			return res, ctx.Err()
		default:
		}
		if cfg.MaxSteps > 0 && res.Steps >= cfg.MaxSteps {
			res.truncate(i)
			return res, fmt.Errorf("%w after %d sub-steps", ErrStepBudget, res.Steps)
		}

		window[0], window[1] = times[i-1], times[i]
		st, err := step(accel, q, p, window, cfg.Rtol, cfg.Atol, chunk)
		res.Steps += st.Steps
		res.Evals += st.Evals
		if st.Step > 0 {
			res.Step = st.Step
		}
		if err != nil {
			res.truncate(i)
			return res, err
		}

		cq, cp := chunk.At(1)
		copy(q, cq)
		copy(p, cp)
		qv, pv := traj.At(i)
		copy(qv, q)
		copy(pv, p)

		if hasEnergy {
			e := ham.Energy(q, p)
			res.Energy = append(res.Energy, e)
			if e0 != 0 {
				if d := math.Abs(e-e0) / math.Abs(e0); d > res.EnergyDrift {
					res.EnergyDrift = d
				}
			}
		}
	}
	return res, nil
}
