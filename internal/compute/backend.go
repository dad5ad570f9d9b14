package compute

import (
	"github.com/san-kum/capsim/internal/capacitor"
)

// Kind tags which implementation backs a Model.
type Kind int

const (
	KindPure Kind = iota
	KindAccelerated
)

func (k Kind) String() string {
	switch k {
	case KindAccelerated:
		return "accelerated"
	default:
		return "pure"
	}
}

// Model is the behavior capability shared by the pure and accelerated
// implementations. Both must agree within 1e-6 relative tolerance.
//
// Implementations hold no mutable state after construction and are safe
// for concurrent use.
type Model interface {
	Name() string
	Kind() Kind

	// Trajectory returns one voltage per point of params.TimeGrid.
	Trajectory(p capacitor.Profile, params capacitor.CircuitParameters) ([]float64, error)

	// Efficiency returns the charging efficiency in percent. The time grid
	// and temperature of params are not used by the formula.
	Efficiency(p capacitor.Profile, params capacitor.CircuitParameters) (float64, error)

	// CapacitanceAt scales the nominal capacitance to temperature.
	CapacitanceAt(p capacitor.Profile, temperature float64) (float64, error)

	// Describe formats p for humans.
	Describe(p capacitor.Profile) (string, error)

	Close() error
}
