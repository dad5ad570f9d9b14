package capacitor

import (
	"errors"
	"math"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestNewProfile(t *testing.T) {
	p, err := NewProfile("Electrolytic", 100e-6, 0.1, 1e-6, -0.0005)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name() != "Electrolytic" {
		t.Errorf("expected name Electrolytic, got %s", p.Name())
	}
	if p.Capacitance() != 100e-6 {
		t.Errorf("expected capacitance 100e-6, got %g", p.Capacitance())
	}
	if p.ESR() != 0.1 || p.Leakage() != 1e-6 || p.TempCoeff() != -0.0005 {
		t.Errorf("fields not preserved: %+v", p)
	}
}

func TestNewProfile_Ideal(t *testing.T) {
	if _, err := NewProfile("ideal", 1e-6, 0, 0, 0); err != nil {
		t.Errorf("zero esr and leakage should be legal, got %v", err)
	}
}

func TestNewProfile_Invalid(t *testing.T) {
	tests := []struct {
		name        string
		capacitance float64
		esr         float64
		leakage     float64
		tempCoeff   float64
	}{
		{"zero capacitance", 0, 0.1, 0, 0},
		{"negative capacitance", -1e-6, 0.1, 0, 0},
		{"NaN capacitance", math.NaN(), 0.1, 0, 0},
		{"Inf capacitance", math.Inf(1), 0.1, 0, 0},
		{"NaN esr", 1e-6, math.NaN(), 0, 0},
		{"Inf leakage", 1e-6, 0, math.Inf(-1), 0},
		{"NaN temp coeff", 1e-6, 0, 0, math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProfile("x", tt.capacitance, tt.esr, tt.leakage, tt.tempCoeff)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("expected ErrInvalidParameter, got %v", err)
			}
			var perr *ParameterError
			if !errors.As(err, &perr) {
				t.Errorf("expected *ParameterError, got %T", err)
			}
		})
	}
}

func TestTruncateName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"short", "Ceramic", "Ceramic"},
		{"exact", strings.Repeat("a", 29), strings.Repeat("a", 29)},
		{"long", strings.Repeat("b", 40), strings.Repeat("b", 29)},
		{"multibyte boundary", strings.Repeat("a", 28) + "µF", strings.Repeat("a", 28)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateName(tt.in)
			if got != tt.want {
				t.Errorf("TruncateName(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if len(got) > MaxNameLen {
				t.Errorf("length %d exceeds %d", len(got), MaxNameLen)
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncated name is not valid UTF-8: %q", got)
			}
		})
	}
}

func TestProfile_ZeroValue(t *testing.T) {
	var p Profile
	if p.Valid() {
		t.Error("zero profile should not be valid")
	}
	if err := p.Validate(); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
}

func TestProfile_String(t *testing.T) {
	p := MustProfile("Film", 1e-6, 0.01, 1e-9, 0.0002)
	s := p.String()
	for _, want := range []string{"Capacitor: Film", "Capacitance: 1.00e-06 F", "ESR: 0.010"} {
		if !strings.Contains(s, want) {
			t.Errorf("expected %q in %q", want, s)
		}
	}
}

func TestBackendError(t *testing.T) {
	cause := errors.New("no such file")
	err := &BackendError{Stage: StageLoad, Path: "/tmp/libcapsim.so", Err: cause}

	if !errors.Is(err, ErrBackendUnavailable) {
		t.Error("expected BackendError to match ErrBackendUnavailable")
	}
	if !errors.Is(err, cause) {
		t.Error("expected BackendError to unwrap to its cause")
	}
	if errors.Is(err, ErrInvalidParameter) {
		t.Error("BackendError should not match ErrInvalidParameter")
	}
	if !strings.Contains(err.Error(), "load /tmp/libcapsim.so") {
		t.Errorf("unexpected message: %s", err.Error())
	}
}
