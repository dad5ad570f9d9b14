package compute

import (
	"github.com/san-kum/capsim/internal/capacitor"
	"github.com/san-kum/capsim/internal/physics"
)

// Pure evaluates the closed-form equations in Go. It is always available.
type Pure struct{}

func NewPure() *Pure {
	return &Pure{}
}

func (m *Pure) Name() string { return "pure (go)" }
func (m *Pure) Kind() Kind   { return KindPure }
func (m *Pure) Close() error { return nil }

func (m *Pure) Trajectory(p capacitor.Profile, params capacitor.CircuitParameters) ([]float64, error) {
	if err := validateRequest(p, params); err != nil {
		return nil, err
	}

	out := make([]float64, len(params.TimeGrid))
	physics.Trajectory(p, params.Resistance, params.SourceVoltage, params.TimeGrid, out)

	if err := checkFinite("voltage", out...); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *Pure) Efficiency(p capacitor.Profile, params capacitor.CircuitParameters) (float64, error) {
	if err := validateScalars(p, params); err != nil {
		return 0, err
	}

	eff := physics.Efficiency(p, params.Resistance, params.SourceVoltage)
	if err := checkFinite("efficiency", eff); err != nil {
		return 0, err
	}
	return eff, nil
}

func (m *Pure) CapacitanceAt(p capacitor.Profile, temperature float64) (float64, error) {
	if err := validateTemperature(p, temperature); err != nil {
		return 0, err
	}

	c := physics.CapacitanceAt(p.Capacitance(), p.TempCoeff(), temperature)
	if err := checkFinite("capacitance", c); err != nil {
		return 0, err
	}
	return c, nil
}

func (m *Pure) Describe(p capacitor.Profile) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	return p.String(), nil
}
