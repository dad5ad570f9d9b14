package physics

import (
	"math"

	"github.com/san-kum/capsim/internal/capacitor"
)

// TimeConstant returns tau = R*C.
func TimeConstant(resistance, capacitance float64) float64 {
	return resistance * capacitance
}

// ChargeVoltage is Vc(t) = V0 * (1 - e^(-t/RC)).
func ChargeVoltage(v0, resistance, capacitance, t float64) float64 {
	return v0 * (1.0 - math.Exp(-t/TimeConstant(resistance, capacitance)))
}

// DischargeVoltage is Vc(t) = V0 * e^(-t/RC).
func DischargeVoltage(v0, resistance, capacitance, t float64) float64 {
	return v0 * math.Exp(-t/TimeConstant(resistance, capacitance))
}

// CapacitanceAt is C(T) = C0 * (1 + alpha*(T - 25)).
func CapacitanceAt(c0, tempCoeff, temperature float64) float64 {
	return c0 * (1.0 + tempCoeff*(temperature-capacitor.ReferenceTemperature))
}

// Trajectory fills out with the charge/discharge curve over grid. Points up
// to half the final time charge from zero; later points discharge from the
// full source voltage, not from the voltage reached at the switch-over.
// A single-point grid is its own midpoint and charges.
// len(out) must equal len(grid).
func Trajectory(p capacitor.Profile, resistance, v0 float64, grid, out []float64) {
	c := p.Capacitance()
	midpoint := grid[len(grid)-1] / 2.0
	if len(grid) == 1 {
		midpoint = grid[0]
	}
	for i, t := range grid {
		if t <= midpoint {
			out[i] = ChargeVoltage(v0, resistance, c, t)
		} else {
			out[i] = DischargeVoltage(v0, resistance, c, t-midpoint)
		}
	}
}
