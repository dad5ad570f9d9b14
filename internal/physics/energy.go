package physics

import (
	"math"

	"github.com/san-kum/capsim/internal/capacitor"
)

// Fixed losses as a fraction of stored energy.
const (
	DielectricLossFraction    = 0.03
	PlateLossFraction         = 0.05
	SelfDischargeLossFraction = 0.02
)

// EnergyBreakdown splits the energy of one charging cycle, in joules.
type EnergyBreakdown struct {
	Stored        float64
	ESR           float64
	Leakage       float64
	Dielectric    float64
	Plate         float64
	SelfDischarge float64
}

// EnergyComponent is one named entry of a breakdown.
type EnergyComponent struct {
	Name  string
	Value float64
}

// StoredEnergy is E = 1/2 * C * V^2.
func StoredEnergy(capacitance, v float64) float64 {
	return 0.5 * capacitance * v * v
}

// ChargingDuration is the effective charging window min(5tau, 3tau).
func ChargingDuration(tau float64) float64 {
	return math.Min(5*tau, 3*tau)
}

// Breakdown computes the energy budget of charging p to v0 through
// resistance. Temperature does not enter the budget.
func Breakdown(p capacitor.Profile, resistance, v0 float64) EnergyBreakdown {
	stored := StoredEnergy(p.Capacitance(), v0)
	window := ChargingDuration(TimeConstant(resistance, p.Capacitance()))

	// average dissipation during an exponential charge is V0^2/(4R)
	esrLoss := (v0 * v0) / (4 * resistance) * window

	// leakage current at half the source voltage for the whole window
	avgLeakage := p.Leakage() * v0 * 0.5
	leakageLoss := avgLeakage * v0 * window

	return EnergyBreakdown{
		Stored:        stored,
		ESR:           esrLoss,
		Leakage:       leakageLoss,
		Dielectric:    stored * DielectricLossFraction,
		Plate:         stored * PlateLossFraction,
		SelfDischarge: stored * SelfDischargeLossFraction,
	}
}

// TotalLoss sums every loss component.
func (b EnergyBreakdown) TotalLoss() float64 {
	return b.ESR + b.Leakage + b.Dielectric + b.Plate + b.SelfDischarge
}

// Efficiency is 100 * stored / (stored + losses), or 0 when nothing is
// delivered.
func (b EnergyBreakdown) Efficiency() float64 {
	delivered := b.Stored + b.TotalLoss()
	if delivered > 0 {
		return b.Stored / delivered * 100.0
	}
	return 0
}

func (b EnergyBreakdown) Components() []EnergyComponent {
	return []EnergyComponent{
		{"stored", b.Stored},
		{"esr", b.ESR},
		{"dielectric", b.Dielectric},
		{"plate", b.Plate},
		{"self_discharge", b.SelfDischarge},
		{"leakage", b.Leakage},
	}
}

// Fractions returns each component's share (percent) of the total budget
// in Components order. All zeros when the budget is empty.
func (b EnergyBreakdown) Fractions() []float64 {
	comps := b.Components()
	total := 0.0
	for _, c := range comps {
		total += c.Value
	}
	out := make([]float64, len(comps))
	if total <= 0 {
		return out
	}
	for i, c := range comps {
		out[i] = c.Value / total * 100.0
	}
	return out
}

// Efficiency evaluates the budget and returns its efficiency in percent.
func Efficiency(p capacitor.Profile, resistance, v0 float64) float64 {
	return Breakdown(p, resistance, v0).Efficiency()
}
