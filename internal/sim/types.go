package sim

import (
	"github.com/san-kum/capsim/internal/physics"
)

// Result is everything one simulation request produces.
type Result struct {
	Times        []float64
	Voltages     []float64
	Breakdown    physics.EnergyBreakdown
	Efficiency   float64 // percent
	Capacitance  float64 // at the requested temperature
	TimeConstant float64 // R*C at nominal capacitance
	Backend      string
	// Advisory is set when the accelerated backend was unavailable and the
	// pure model produced this result.
	Advisory error
}

// Midpoint is the time at which the curve switches from charge to
// discharge.
func (r *Result) Midpoint() float64 {
	switch len(r.Times) {
	case 0:
		return 0
	case 1:
		return r.Times[0]
	}
	return r.Times[len(r.Times)-1] / 2
}

// Peak returns the largest voltage on the trajectory.
func (r *Result) Peak() float64 {
	peak := 0.0
	for i, v := range r.Voltages {
		if i == 0 || v > peak {
			peak = v
		}
	}
	return peak
}

// CurvePoint is one sample of capacitance versus temperature.
type CurvePoint struct {
	Temperature   float64
	Capacitance   float64
	ChangePercent float64
}

// Range returns n evenly spaced values from lo to hi inclusive.
func Range(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	if n == 1 {
		out[0] = lo
		return out
	}
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}
