package capacitor

import (
	"fmt"
	"math"
	"unicode/utf8"
)

const (
	// MaxNameLen is the longest name the native record can carry: a
	// 30-byte buffer including the terminator.
	MaxNameLen = 29

	// ReferenceTemperature is the temperature (C) at which the nominal
	// capacitance is specified.
	ReferenceTemperature = 25.0
)

// Profile describes one capacitor. The zero value is not a valid profile;
// use NewProfile.
type Profile struct {
	name        string
	capacitance float64
	esr         float64
	leakage     float64
	tempCoeff   float64
}

// NewProfile validates capacitance and finiteness and truncates name to
// MaxNameLen bytes. ESR and leakage of zero describe an ideal capacitor.
func NewProfile(name string, capacitance, esr, leakage, tempCoeff float64) (Profile, error) {
	if err := finite("capacitance", capacitance); err != nil {
		return Profile{}, err
	}
	if capacitance <= 0 {
		return Profile{}, Invalid("capacitance", capacitance, "must be positive")
	}
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"esr", esr},
		{"leakage", leakage},
		{"temp_coeff", tempCoeff},
	} {
		if err := finite(f.name, f.value); err != nil {
			return Profile{}, err
		}
	}

	return Profile{
		name:        TruncateName(name),
		capacitance: capacitance,
		esr:         esr,
		leakage:     leakage,
		tempCoeff:   tempCoeff,
	}, nil
}

// MustProfile is like NewProfile but panics on error. Intended for
// package-level tables and tests.
func MustProfile(name string, capacitance, esr, leakage, tempCoeff float64) Profile {
	p, err := NewProfile(name, capacitance, esr, leakage, tempCoeff)
	if err != nil {
		panic(err)
	}
	return p
}

// TruncateName cuts name to at most MaxNameLen bytes without splitting a
// UTF-8 sequence.
func TruncateName(name string) string {
	if len(name) <= MaxNameLen {
		return name
	}
	cut := MaxNameLen
	for cut > 0 && !utf8.RuneStart(name[cut]) {
		cut--
	}
	return name[:cut]
}

func (p Profile) Name() string         { return p.name }
func (p Profile) Capacitance() float64 { return p.capacitance }
func (p Profile) ESR() float64         { return p.esr }
func (p Profile) Leakage() float64     { return p.leakage }
func (p Profile) TempCoeff() float64   { return p.tempCoeff }

// Valid reports whether p was built by NewProfile.
func (p Profile) Valid() bool {
	return p.capacitance > 0 && !math.IsInf(p.capacitance, 0)
}

// Validate returns ErrInvalidParameter for the zero Profile.
func (p Profile) Validate() error {
	if !p.Valid() {
		return Invalid("capacitance", p.capacitance, "must be positive")
	}
	return nil
}

// String renders the profile the way the native describe call does.
func (p Profile) String() string {
	return fmt.Sprintf("Capacitor: %s\nCapacitance: %.2e F\nESR: %.3f Ω\nLeakage: %.2e A/V\nTemperature Coefficient: %.3f %%/°C\n",
		p.name, p.capacitance, p.esr, p.leakage, p.tempCoeff)
}

func finite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Invalid(field, v, "must be finite")
	}
	return nil
}
