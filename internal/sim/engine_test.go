package sim_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/capsim/internal/capacitor"
	"github.com/san-kum/capsim/internal/compute"
	"github.com/san-kum/capsim/internal/sim"
)

// nudged stands in for a native model: it reports itself as accelerated and
// perturbs every output by a relative 1e-9.
type nudged struct {
	*compute.Pure
}

func (n nudged) Name() string       { return "accelerated (fake)" }
func (n nudged) Kind() compute.Kind { return compute.KindAccelerated }

func (n nudged) nudge(v float64) float64 { return v * (1 + 1e-9) }

func (n nudged) Trajectory(p capacitor.Profile, params capacitor.CircuitParameters) ([]float64, error) {
	out, err := n.Pure.Trajectory(p, params)
	for i := range out {
		out[i] = n.nudge(out[i])
	}
	return out, err
}

func (n nudged) Efficiency(p capacitor.Profile, params capacitor.CircuitParameters) (float64, error) {
	eff, err := n.Pure.Efficiency(p, params)
	return n.nudge(eff), err
}

// degraded always yields the pure model with an advisory, like a resolver
// whose library failed to load.
type degraded struct{}

func (degraded) Resolve(context.Context) (compute.Model, compute.Status) {
	return compute.NewPure(), compute.Status{
		State:    compute.StatePure,
		Backend:  "pure (go)",
		Advisory: &capacitor.BackendError{Stage: capacitor.StageLoad, Path: "/missing/libcapsim.so", Err: errors.New("no such file")},
	}
}

func scenario() (capacitor.Profile, capacitor.CircuitParameters) {
	p := capacitor.MustProfile("scenario", 100e-6, 0.1, 1e-6, 0.0)
	return p, capacitor.CircuitParameters{
		Resistance:    100,
		SourceVoltage: 10,
		Temperature:   25,
		TimeGrid:      []float64{0, 0.005, 0.01},
	}
}

func relClose(want float64) OmegaMatcher {
	return BeNumerically("~", want, 1e-6*math.Max(math.Abs(want), 1e-12))
}

var _ = Describe("Engine", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Describe("Simulate", func() {
		It("reproduces the reference charge and discharge values", func() {
			engine := sim.New(sim.Fixed(compute.NewPure()), nil)
			p, params := scenario()

			res, err := engine.Simulate(ctx, p, params)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Voltages).To(HaveLen(3))
			Expect(res.Voltages[0]).To(Equal(0.0))
			Expect(res.Voltages[1]).To(BeNumerically("~", 3.935, 1e-3))
			Expect(res.Voltages[2]).To(BeNumerically("~", 6.065, 1e-3))
			Expect(res.Midpoint()).To(Equal(0.005))
			Expect(res.TimeConstant).To(BeNumerically("~", 0.01, 1e-15))
			Expect(res.Backend).To(Equal("pure (go)"))
			Expect(res.Advisory).To(BeNil())
		})

		It("charges the only point of a single-point grid", func() {
			engine := sim.New(sim.Fixed(compute.NewPure()), nil)
			p, params := scenario()
			params.TimeGrid = []float64{0.01}

			res, err := engine.Simulate(ctx, p, params)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Voltages[0]).To(BeNumerically("~", 6.3212, 1e-4))
			Expect(res.Midpoint()).To(Equal(0.01))
		})

		It("copies the time grid", func() {
			engine := sim.New(sim.Fixed(compute.NewPure()), nil)
			p, params := scenario()

			res, err := engine.Simulate(ctx, p, params)
			Expect(err).NotTo(HaveOccurred())
			res.Times[1] = 42
			Expect(params.TimeGrid[1]).To(Equal(0.005))
		})

		It("agrees across backends within tolerance", func() {
			p := capacitor.MustProfile("Electrolytic", 1000e-6, 0.5, 1e-6, -0.002)
			params := capacitor.CircuitParameters{
				Resistance:    220,
				SourceVoltage: 16,
				Temperature:   70,
				TimeGrid:      capacitor.LinearGrid(2.0, 200),
			}

			pure, err := sim.New(sim.Fixed(compute.NewPure()), nil).Simulate(ctx, p, params)
			Expect(err).NotTo(HaveOccurred())
			fast, err := sim.New(sim.Fixed(nudged{compute.NewPure()}), nil).Simulate(ctx, p, params)
			Expect(err).NotTo(HaveOccurred())

			Expect(fast.Backend).To(Equal("accelerated (fake)"))
			Expect(fast.Voltages).To(HaveLen(len(pure.Voltages)))
			for i := range pure.Voltages {
				Expect(fast.Voltages[i]).To(relClose(pure.Voltages[i]))
			}
			Expect(fast.Efficiency).To(relClose(pure.Efficiency))
			Expect(fast.Capacitance).To(Equal(pure.Capacitance))
		})

		It("surfaces the fallback advisory without failing", func() {
			engine := sim.New(degraded{}, nil)
			p, params := scenario()

			res, err := engine.Simulate(ctx, p, params)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Advisory).To(MatchError(capacitor.ErrBackendUnavailable))
			Expect(engine.Status(ctx).Degraded()).To(BeTrue())
		})

		It("falls back when the configured library is missing", func() {
			resolver := compute.NewResolver(compute.ResolverConfig{
				Mode:        compute.ModeAuto,
				LibraryPath: "/nonexistent/libcapsim.so",
			}, nil)
			defer resolver.Close()

			p, params := scenario()
			res, err := sim.New(resolver, nil).Simulate(ctx, p, params)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Advisory).To(HaveOccurred())
			Expect(res.Voltages[1]).To(BeNumerically("~", 3.935, 1e-3))
		})

		It("handles zero capacitance at the temperature extreme", func() {
			engine := sim.New(sim.Fixed(compute.NewPure()), nil)
			p := capacitor.MustProfile("cold-sensitive", 10e-6, 0.1, 1e-9, -0.01)
			params := capacitor.CircuitParameters{
				Resistance:    100,
				SourceVoltage: 5,
				Temperature:   125,
				TimeGrid:      capacitor.LinearGrid(0.01, 11),
			}

			res, err := engine.Simulate(ctx, p, params)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Capacitance).To(Equal(0.0))
			for _, v := range res.Voltages {
				Expect(math.IsNaN(v)).To(BeFalse())
			}
		})

		It("rejects invalid parameters", func() {
			engine := sim.New(sim.Fixed(compute.NewPure()), nil)
			p, params := scenario()

			params.Resistance = 0
			_, err := engine.Simulate(ctx, p, params)
			Expect(err).To(MatchError(capacitor.ErrInvalidParameter))

			_, params = scenario()
			params.TimeGrid = nil
			_, err = engine.Simulate(ctx, p, params)
			Expect(err).To(MatchError(capacitor.ErrInvalidParameter))
		})

		It("stops on a cancelled context", func() {
			engine := sim.New(sim.Fixed(compute.NewPure()), nil)
			p, params := scenario()

			cancelled, cancel := context.WithCancel(ctx)
			cancel()
			_, err := engine.Simulate(cancelled, p, params)
			Expect(err).To(MatchError(context.Canceled))
		})
	})

	Describe("Describe", func() {
		It("formats the profile through the active backend", func() {
			engine := sim.New(sim.Fixed(compute.NewPure()), nil)
			p, _ := scenario()

			out, err := engine.Describe(ctx, p)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(HavePrefix("Capacitor: scenario\n"))
			Expect(out).To(ContainSubstring("Capacitance: 1.00e-04 F"))
		})
	})

	Describe("TemperatureCurve", func() {
		It("spans the requested range", func() {
			engine := sim.New(sim.Fixed(compute.NewPure()), nil)
			p := capacitor.MustProfile("Ceramic", 10e-6, 0.01, 1e-9, 0.0015)

			curve, err := engine.TemperatureCurve(ctx, p, -40, 125, 20)
			Expect(err).NotTo(HaveOccurred())
			Expect(curve).To(HaveLen(20))
			Expect(curve[0].Temperature).To(Equal(-40.0))
			Expect(curve[19].Temperature).To(Equal(125.0))
			Expect(curve[0].ChangePercent).To(BeNumerically("~", 0.15*-65, 1e-9))
			Expect(curve[19].Capacitance).To(BeNumerically("~", 10e-6*(1+0.0015*100), 1e-18))
		})

		It("rejects an empty or inverted range", func() {
			engine := sim.New(sim.Fixed(compute.NewPure()), nil)
			p, _ := scenario()

			_, err := engine.TemperatureCurve(ctx, p, -40, 125, 0)
			Expect(err).To(MatchError(capacitor.ErrInvalidParameter))
			_, err = engine.TemperatureCurve(ctx, p, 125, -40, 10)
			Expect(err).To(MatchError(capacitor.ErrInvalidParameter))
		})
	})
})

var _ = Describe("Range", func() {
	It("includes both endpoints", func() {
		Expect(sim.Range(50, 500, 20)).To(HaveLen(20))
		Expect(sim.Range(50, 500, 20)[19]).To(Equal(500.0))
		Expect(sim.Range(5, 25, 1)).To(Equal([]float64{5}))
		Expect(sim.Range(0, 1, 0)).To(BeEmpty())
	})
})
