package orbit_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/morganb-phys/galpy/orbit"
	"github.com/morganb-phys/galpy/symplec"
)

// keplerField is a unit point mass at the origin.
type keplerField struct{}

func (keplerField) Accel(t float64, q, p, a []float64) {
	var r2 float64
	for _, v := range q {
		r2 += v * v
	}
	r3 := r2 * math.Sqrt(r2)
	for i := range q {
		a[i] = -q[i] / r3
	}
}

func (keplerField) Energy(q, p []float64) float64 {
	var v2, r2 float64
	for i := range q {
		v2 += p[i] * p[i]
		r2 += q[i] * q[i]
	}
	return 0.5*v2 - 1/math.Sqrt(r2)
}

// divergingField behaves like a harmonic well until t exceeds 5, then goes
// non-finite.
var divergingField = symplec.AccelFunc(func(t float64, q, p, a []float64) {
	for i := range a {
		if t > 5 {
			a[i] = math.NaN()
		} else {
			a[i] = -q[i]
		}
	}
})

var _ = Describe("Integrate", func() {
	var (
		ctx   context.Context
		cfg   orbit.Config
		times []float64
	)

	BeforeEach(func() {
		ctx = context.Background()
		cfg = orbit.DefaultConfig()
		times = make([]float64, 101)
		for i := range times {
			times[i] = float64(i) * 0.1
		}
	})

	Context("on a circular Kepler orbit", func() {
		It("holds the radius steady", func() {
			o := orbit.New([]float64{1, 0}, []float64{0, 1})
			res, err := o.Integrate(ctx, keplerField{}, times, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Times).To(HaveLen(len(times)))
			for i := range res.Times {
				q, _ := res.Traj.At(i)
				Expect(math.Hypot(q[0], q[1])).To(BeNumerically("~", 1, 1e-5))
			}
		})

		It("records the energy at every snapshot", func() {
			o := orbit.New([]float64{1, 0}, []float64{0, 1})
			res, err := o.Integrate(ctx, keplerField{}, times, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Energy).To(HaveLen(len(times)))
			Expect(res.Energy[0]).To(BeNumerically("~", -0.5, 1e-12))
			Expect(res.EnergyDrift).To(BeNumerically("<", 1e-5))
		})

		It("integrates with every published scheme", func() {
			for _, name := range orbit.Schemes() {
				cfg.Scheme = name
				o := orbit.New([]float64{1, 0}, []float64{0, 1})
				res, err := o.Integrate(ctx, keplerField{}, times, cfg)
				Expect(err).NotTo(HaveOccurred(), "scheme %s", name)
				Expect(res.EnergyDrift).To(BeNumerically("<", 1e-5), "scheme %s", name)
				Expect(res.Steps).To(BeNumerically(">", 0), "scheme %s", name)
			}
		})
	})

	Context("without a Hamiltonian", func() {
		It("leaves the energy series empty", func() {
			free := symplec.AccelFunc(func(t float64, q, p, a []float64) {
				for i := range a {
					a[i] = 0
				}
			})
			o := orbit.New([]float64{0, 0}, []float64{1, 0.5})
			res, err := o.Integrate(ctx, free, times, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Energy).To(BeNil())
			Expect(res.EnergyDrift).To(BeZero())
		})
	})

	Context("when the context is already cancelled", func() {
		It("returns the initial snapshot with the context error", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()
			o := orbit.New([]float64{1, 0}, []float64{0, 1})
			res, err := o.Integrate(cancelled, keplerField{}, times, cfg)
			Expect(err).To(MatchError(context.Canceled))
			Expect(res.Times).To(HaveLen(1))
			Expect(res.Traj.Len()).To(Equal(1))
			Expect(res.Energy).To(HaveLen(1))
		})
	})

	Context("with a tiny sub-step budget", func() {
		It("stops early with ErrStepBudget and a partial result", func() {
			cfg.MaxSteps = 1
			o := orbit.New([]float64{1, 0}, []float64{0, 1})
			res, err := o.Integrate(ctx, keplerField{}, times, cfg)
			Expect(err).To(MatchError(orbit.ErrStepBudget))
			Expect(len(res.Times)).To(BeNumerically("<", len(times)))
			Expect(res.Steps).To(BeNumerically(">=", 1))
		})
	})

	Context("when the field diverges mid-run", func() {
		It("returns the snapshots completed before the failure", func() {
			o := orbit.New([]float64{1, 0}, []float64{0, 1})
			res, err := o.Integrate(ctx, divergingField, times, cfg)
			Expect(err).To(MatchError(symplec.ErrNumericalDivergence))
			Expect(len(res.Times)).To(BeNumerically("<", len(times)))
			Expect(len(res.Times)).To(BeNumerically(">", 1))
		})
	})

	It("produces just the initial snapshot for a single output time", func() {
		o := orbit.New([]float64{1, 0}, []float64{0, 1})
		res, err := o.Integrate(ctx, keplerField{}, []float64{0}, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Steps).To(BeZero())
		Expect(res.Times).To(Equal([]float64{0}))
		q, p := res.Traj.At(0)
		Expect(q).To(Equal([]float64{1, 0}))
		Expect(p).To(Equal([]float64{0, 1}))
	})

	It("rejects unknown scheme names", func() {
		cfg.Scheme = "rk4"
		o := orbit.New([]float64{1, 0}, []float64{0, 1})
		res, err := o.Integrate(ctx, keplerField{}, times, cfg)
		Expect(err).To(MatchError(orbit.ErrUnknownScheme))
		Expect(res).To(BeNil())
	})

	It("rejects non-monotonic output times", func() {
		o := orbit.New([]float64{1, 0}, []float64{0, 1})
		_, err := o.Integrate(ctx, keplerField{}, []float64{0, 1, 0.5}, cfg)
		Expect(err).To(MatchError(symplec.ErrNonMonotonicTimes))
	})

	It("rejects non-finite output times", func() {
		o := orbit.New([]float64{1, 0}, []float64{0, 1})

		res, err := o.Integrate(ctx, keplerField{}, []float64{0, math.NaN()}, cfg)
		Expect(err).To(MatchError(symplec.ErrNonMonotonicTimes))
		Expect(res).To(BeNil())

		res, err = o.Integrate(ctx, keplerField{}, []float64{0, math.Inf(1)}, cfg)
		Expect(err).To(MatchError(symplec.ErrNonMonotonicTimes))
		Expect(res).To(BeNil())
	})

	It("rejects a non-finite initial state", func() {
		o := orbit.New([]float64{math.NaN(), 0}, []float64{0, 1})
		res, err := o.Integrate(ctx, keplerField{}, times, cfg)
		Expect(err).To(MatchError(symplec.ErrNumericalDivergence))
		Expect(res).To(BeNil())
	})

	It("rejects an empty initial state", func() {
		o := orbit.New(nil, nil)
		_, err := o.Integrate(ctx, keplerField{}, times, cfg)
		Expect(err).To(MatchError(symplec.ErrInvalidDimension))
	})

	It("is unaffected by later mutation of the initial slices", func() {
		q0 := []float64{1, 0}
		p0 := []float64{0, 1}
		o := orbit.New(q0, p0)
		q0[0] = 99
		p0[1] = -99
		res, err := o.Integrate(ctx, keplerField{}, []float64{0}, cfg)
		Expect(err).NotTo(HaveOccurred())
		q, p := res.Traj.At(0)
		Expect(q).To(Equal([]float64{1, 0}))
		Expect(p).To(Equal([]float64{0, 1}))
	})
})
