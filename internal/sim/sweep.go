package sim

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/capsim/internal/capacitor"
	"github.com/san-kum/capsim/internal/compute"
	"github.com/san-kum/capsim/internal/physics"
)

// Landscape is efficiency sampled over resistance x source voltage.
type Landscape struct {
	Resistances []float64
	Voltages    []float64
	Efficiency  [][]float64 // [voltage][resistance], percent
}

// Surface is a family of trajectories, one per resistance, on a shared grid.
type Surface struct {
	Resistances []float64
	Times       []float64
	Voltages    [][]float64 // [resistance][time]
}

// Comparison summarizes one profile under a shared circuit.
type Comparison struct {
	Name         string
	Capacitance  float64
	TimeConstant float64
	Efficiency   float64
	Breakdown    physics.EnergyBreakdown
}

// EfficiencyLandscape evaluates efficiency at every (resistance, voltage)
// pair. Rows are computed concurrently.
func (e *Engine) EfficiencyLandscape(ctx context.Context, p capacitor.Profile, resistances, voltages []float64, temperature float64) (*Landscape, error) {
	if len(resistances) == 0 || len(voltages) == 0 {
		return nil, capacitor.Invalid("sweep", 0, "needs at least one resistance and one voltage")
	}
	model, _ := e.backend.Resolve(ctx)

	out := &Landscape{
		Resistances: append([]float64(nil), resistances...),
		Voltages:    append([]float64(nil), voltages...),
		Efficiency:  make([][]float64, len(voltages)),
	}

	err := forEach(ctx, len(voltages), func(i int) error {
		row := make([]float64, len(resistances))
		for j, r := range resistances {
			eff, err := model.Efficiency(p, capacitor.CircuitParameters{
				Resistance:    r,
				SourceVoltage: voltages[i],
				Temperature:   temperature,
			})
			if err != nil {
				return err
			}
			row[j] = eff
		}
		out.Efficiency[i] = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// VoltageSurface computes one trajectory per resistance on grid.
func (e *Engine) VoltageSurface(ctx context.Context, p capacitor.Profile, resistances []float64, voltage, temperature float64, grid []float64) (*Surface, error) {
	if len(resistances) == 0 {
		return nil, capacitor.Invalid("sweep", 0, "needs at least one resistance")
	}
	if err := capacitor.ValidateGrid(grid); err != nil {
		return nil, err
	}
	model, _ := e.backend.Resolve(ctx)

	out := &Surface{
		Resistances: append([]float64(nil), resistances...),
		Times:       append([]float64(nil), grid...),
		Voltages:    make([][]float64, len(resistances)),
	}

	err := forEach(ctx, len(resistances), func(i int) error {
		v, err := model.Trajectory(p, capacitor.CircuitParameters{
			Resistance:    resistances[i],
			SourceVoltage: voltage,
			Temperature:   temperature,
			TimeGrid:      grid,
		})
		if err != nil {
			return err
		}
		out.Voltages[i] = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Compare evaluates each profile under the same circuit. Output order
// follows the input.
func (e *Engine) Compare(ctx context.Context, profiles []capacitor.Profile, params capacitor.CircuitParameters) ([]Comparison, error) {
	if err := params.ValidateScalars(); err != nil {
		return nil, err
	}
	model, _ := e.backend.Resolve(ctx)

	out := make([]Comparison, len(profiles))
	err := forEach(ctx, len(profiles), func(i int) error {
		p := profiles[i]
		eff, err := model.Efficiency(p, params)
		if err != nil {
			return err
		}
		c, err := model.CapacitanceAt(p, params.Temperature)
		if err != nil {
			return err
		}
		out[i] = Comparison{
			Name:         p.Name(),
			Capacitance:  c,
			TimeConstant: physics.TimeConstant(params.Resistance, p.Capacitance()),
			Efficiency:   eff,
			Breakdown:    physics.Breakdown(p, params.Resistance, params.SourceVoltage),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// forEach runs fn for 0..n-1 on at most GOMAXPROCS goroutines and returns
// the first error. Remaining work is skipped once ctx is done.
func forEach(ctx context.Context, n int, fn func(i int) error) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fn(i)
		})
	}
	return g.Wait()
}

var _ Backend = (*compute.Resolver)(nil)
