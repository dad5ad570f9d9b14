package sim

import (
	"context"
	"math"

	"go.uber.org/zap"

	"github.com/san-kum/capsim/internal/capacitor"
	"github.com/san-kum/capsim/internal/compute"
	"github.com/san-kum/capsim/internal/physics"
)

// Backend yields the active behavior model. *compute.Resolver implements it.
type Backend interface {
	Resolve(ctx context.Context) (compute.Model, compute.Status)
}

type fixedBackend struct {
	model compute.Model
}

// Fixed returns a Backend that always yields model.
func Fixed(model compute.Model) Backend {
	return &fixedBackend{model: model}
}

func (f *fixedBackend) Resolve(ctx context.Context) (compute.Model, compute.Status) {
	state := compute.StatePure
	if f.model.Kind() == compute.KindAccelerated {
		state = compute.StateAccelerated
	}
	return f.model, compute.Status{State: state, Backend: f.model.Name()}
}

// Engine is the entry point for simulation requests. It holds no per-request
// state; every call delegates to whichever model the backend resolved.
type Engine struct {
	backend Backend
	logger  *zap.Logger
}

func New(backend Backend, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{backend: backend, logger: logger}
}

// Status resolves the backend if needed and reports which one is active.
func (e *Engine) Status(ctx context.Context) compute.Status {
	_, status := e.backend.Resolve(ctx)
	return status
}

// Simulate runs one charge/discharge request. A backend that failed to load
// is not an error here: the result carries the advisory instead.
func (e *Engine) Simulate(ctx context.Context, p capacitor.Profile, params capacitor.CircuitParameters) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	model, status := e.backend.Resolve(ctx)

	voltages, err := model.Trajectory(p, params)
	if err != nil {
		return nil, err
	}
	eff, err := model.Efficiency(p, params)
	if err != nil {
		return nil, err
	}
	capAtTemp, err := model.CapacitanceAt(p, params.Temperature)
	if err != nil {
		return nil, err
	}

	breakdown := physics.Breakdown(p, params.Resistance, params.SourceVoltage)
	for _, c := range breakdown.Components() {
		if math.IsNaN(c.Value) || math.IsInf(c.Value, 0) {
			return nil, capacitor.Invalid(c.Name+"_energy", c.Value, "result is not finite for these inputs")
		}
	}

	times := make([]float64, len(params.TimeGrid))
	copy(times, params.TimeGrid)

	e.logger.Debug("simulated",
		zap.String("capacitor", p.Name()),
		zap.String("backend", model.Name()),
		zap.Int("points", len(times)),
		zap.Float64("efficiency", eff))

	return &Result{
		Times:        times,
		Voltages:     voltages,
		Breakdown:    breakdown,
		Efficiency:   eff,
		Capacitance:  capAtTemp,
		TimeConstant: physics.TimeConstant(params.Resistance, p.Capacitance()),
		Backend:      model.Name(),
		Advisory:     status.Advisory,
	}, nil
}

// Describe formats p through the active backend.
func (e *Engine) Describe(ctx context.Context, p capacitor.Profile) (string, error) {
	model, _ := e.backend.Resolve(ctx)
	return model.Describe(p)
}

// TemperatureCurve samples capacitance over [lo, hi] at points evenly spaced
// temperatures.
func (e *Engine) TemperatureCurve(ctx context.Context, p capacitor.Profile, lo, hi float64, points int) ([]CurvePoint, error) {
	if points < 1 {
		return nil, capacitor.Invalid("points", float64(points), "must be at least 1")
	}
	if hi < lo {
		return nil, capacitor.Invalid("temperature_max", hi, "must not be below the minimum")
	}

	model, _ := e.backend.Resolve(ctx)
	temps := Range(lo, hi, points)
	curve := make([]CurvePoint, len(temps))
	for i, temp := range temps {
		c, err := model.CapacitanceAt(p, temp)
		if err != nil {
			return nil, err
		}
		curve[i] = CurvePoint{
			Temperature:   temp,
			Capacitance:   c,
			ChangePercent: (c/p.Capacitance() - 1) * 100,
		}
	}
	return curve, nil
}
