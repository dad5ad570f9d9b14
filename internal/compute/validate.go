package compute

import (
	"math"

	"github.com/san-kum/capsim/internal/capacitor"
)

func validateRequest(p capacitor.Profile, params capacitor.CircuitParameters) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return params.Validate()
}

func validateScalars(p capacitor.Profile, params capacitor.CircuitParameters) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return params.ValidateScalars()
}

func validateTemperature(p capacitor.Profile, temperature float64) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if math.IsNaN(temperature) || math.IsInf(temperature, 0) {
		return capacitor.Invalid("temperature", temperature, "must be finite")
	}
	return nil
}

// checkFinite rejects results that overflowed instead of letting NaN or Inf
// reach the caller.
func checkFinite(field string, values ...float64) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return capacitor.Invalid(field, v, "result is not finite for these inputs")
		}
	}
	return nil
}
