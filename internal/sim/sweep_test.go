package sim_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/capsim/internal/capacitor"
	"github.com/san-kum/capsim/internal/compute"
	"github.com/san-kum/capsim/internal/physics"
	"github.com/san-kum/capsim/internal/sim"
)

var _ = Describe("Sweeps", func() {
	var (
		ctx    context.Context
		engine *sim.Engine
		p      capacitor.Profile
	)

	BeforeEach(func() {
		ctx = context.Background()
		engine = sim.New(sim.Fixed(compute.NewPure()), nil)
		p = capacitor.MustProfile("Film", 1e-6, 0.05, 1e-10, -0.0002)
	})

	It("fills the efficiency landscape row by voltage", func() {
		rs := sim.Range(50, 500, 20)
		vs := sim.Range(5, 25, 15)

		land, err := engine.EfficiencyLandscape(ctx, p, rs, vs, 25)
		Expect(err).NotTo(HaveOccurred())
		Expect(land.Efficiency).To(HaveLen(15))
		for i, row := range land.Efficiency {
			Expect(row).To(HaveLen(20))
			for j, eff := range row {
				Expect(eff).To(Equal(physics.Efficiency(p, rs[j], vs[i])))
			}
		}
	})

	It("computes one trajectory per resistance", func() {
		rs := []float64{10, 100, 1000}
		grid := capacitor.LinearGrid(0.01, 50)

		surf, err := engine.VoltageSurface(ctx, p, rs, 12, 25, grid)
		Expect(err).NotTo(HaveOccurred())
		Expect(surf.Voltages).To(HaveLen(3))
		for i, r := range rs {
			want := make([]float64, len(grid))
			physics.Trajectory(p, r, 12, grid, want)
			Expect(surf.Voltages[i]).To(Equal(want))
		}
	})

	It("keeps comparison order", func() {
		profiles := []capacitor.Profile{
			capacitor.MustProfile("Ceramic", 10e-6, 0.01, 1e-9, 0.0015),
			capacitor.MustProfile("Electrolytic", 1000e-6, 0.5, 1e-6, -0.002),
			capacitor.MustProfile("Supercapacitor", 1.0, 0.1, 1e-5, -0.003),
		}
		params := capacitor.CircuitParameters{Resistance: 100, SourceVoltage: 10, Temperature: 25}

		rows, err := engine.Compare(ctx, profiles, params)
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(3))
		for i, row := range rows {
			Expect(row.Name).To(Equal(profiles[i].Name()))
			Expect(row.Efficiency).To(BeNumerically(">", 0))
			Expect(row.Efficiency).To(BeNumerically("<=", 100))
		}
		Expect(rows[2].TimeConstant).To(Equal(100.0))
	})

	It("propagates the first failure", func() {
		_, err := engine.EfficiencyLandscape(ctx, p, []float64{100, -1}, []float64{10}, 25)
		Expect(err).To(MatchError(capacitor.ErrInvalidParameter))

		_, err = engine.VoltageSurface(ctx, p, []float64{100}, 10, 25, []float64{0, 1, 0.5})
		Expect(err).To(MatchError(capacitor.ErrInvalidParameter))
	})

	It("rejects empty sweeps", func() {
		_, err := engine.EfficiencyLandscape(ctx, p, nil, []float64{10}, 25)
		Expect(err).To(MatchError(capacitor.ErrInvalidParameter))
		_, err = engine.VoltageSurface(ctx, p, nil, 10, 25, []float64{0})
		Expect(err).To(MatchError(capacitor.ErrInvalidParameter))
	})
})
