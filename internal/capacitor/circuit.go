package capacitor

import "math"

// CircuitParameters are the per-request inputs of a simulation.
type CircuitParameters struct {
	Resistance    float64   // ohms
	SourceVoltage float64   // volts
	Temperature   float64   // degrees C
	TimeGrid      []float64 // seconds
}

// Validate checks the parameters that enter the model arithmetic.
func (c CircuitParameters) Validate() error {
	if err := c.ValidateScalars(); err != nil {
		return err
	}
	return ValidateGrid(c.TimeGrid)
}

// ValidateScalars checks everything except the time grid, for operations
// that take no grid.
func (c CircuitParameters) ValidateScalars() error {
	if err := ValidateResistance(c.Resistance); err != nil {
		return err
	}
	if err := finite("source_voltage", c.SourceVoltage); err != nil {
		return err
	}
	return finite("temperature", c.Temperature)
}

func ValidateResistance(r float64) error {
	if err := finite("resistance", r); err != nil {
		return err
	}
	if r <= 0 {
		return Invalid("resistance", r, "must be positive")
	}
	return nil
}

// ValidateGrid rejects empty, non-finite, negative or decreasing grids.
func ValidateGrid(grid []float64) error {
	if len(grid) == 0 {
		return Invalid("time_grid", 0, "must contain at least one point")
	}
	prev := 0.0
	for i, t := range grid {
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return Invalid("time_grid", t, "must be finite")
		}
		if t < 0 {
			return Invalid("time_grid", t, "must be non-negative")
		}
		if i > 0 && t < prev {
			return Invalid("time_grid", t, "must be non-decreasing")
		}
		prev = t
	}
	return nil
}

// LinearGrid returns samples evenly spaced points from 0 to duration
// inclusive. A single sample yields [0].
func LinearGrid(duration float64, samples int) []float64 {
	if samples <= 0 {
		return nil
	}
	grid := make([]float64, samples)
	if samples == 1 {
		return grid
	}
	step := duration / float64(samples-1)
	for i := range grid {
		grid[i] = float64(i) * step
	}
	grid[samples-1] = duration
	return grid
}
