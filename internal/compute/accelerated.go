package compute

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"

	"github.com/san-kum/capsim/internal/capacitor"
	"github.com/san-kum/capsim/internal/physics"
)

// ABIVersion is the native contract version this package speaks.
const ABIVersion = 1

// Return codes of the native calls.
const (
	nativeOK      = 0
	nativeInvalid = -1
)

const describeBufSize = 256

// symbols is the native function table. Pointers passed across the boundary
// refer to Go memory that outlives the call.
type symbols struct {
	abiVersion func() int32
	create     func(name *byte, capacitance, esr, leakage, tempCoeff float64, out *record) int32
	simulate   func(rec *record, resistance, v0, temperature float64, times, out *float64, n int32) int32
	efficiency func(rec *record, resistance, v0, temperature float64) float64
	describe   func(rec *record, buf *byte, size int32) int32
	close      func() error
}

var symbolNames = []string{
	"capsim_abi_version",
	"capsim_create",
	"capsim_simulate",
	"capsim_efficiency",
	"capsim_describe",
}

// Accelerated runs the behavior equations in the native capsim library.
// Inputs are validated before every call and outputs are checked after it;
// a failed call never hands back a partially written buffer.
type Accelerated struct {
	path string
	lib  *symbols
}

func newAccelerated(path string, lib *symbols) *Accelerated {
	return &Accelerated{path: path, lib: lib}
}

func (m *Accelerated) Name() string {
	return "accelerated (" + filepath.Base(m.path) + ")"
}

func (m *Accelerated) Kind() Kind   { return KindAccelerated }
func (m *Accelerated) Path() string { return m.path }

func (m *Accelerated) Close() error {
	if m.lib == nil || m.lib.close == nil {
		return nil
	}
	err := m.lib.close()
	m.lib = nil
	return err
}

func (m *Accelerated) Trajectory(p capacitor.Profile, params capacitor.CircuitParameters) ([]float64, error) {
	if err := validateRequest(p, params); err != nil {
		return nil, err
	}
	n := len(params.TimeGrid)
	if n > math.MaxInt32 {
		return nil, capacitor.Invalid("time_grid", float64(n), "too many points for the native boundary")
	}
	if m.lib == nil {
		return nil, errClosed
	}

	rec := marshalRecord(p)
	times := make([]float64, n)
	copy(times, params.TimeGrid)
	scratch := make([]float64, n)

	rc := m.lib.simulate(&rec, params.Resistance, params.SourceVoltage, params.Temperature, &times[0], &scratch[0], int32(n))
	if err := callError("capsim_simulate", rc); err != nil {
		return nil, err
	}
	if err := checkFinite("voltage", scratch...); err != nil {
		return nil, err
	}
	return scratch, nil
}

func (m *Accelerated) Efficiency(p capacitor.Profile, params capacitor.CircuitParameters) (float64, error) {
	if err := validateScalars(p, params); err != nil {
		return 0, err
	}
	if m.lib == nil {
		return 0, errClosed
	}

	rec := marshalRecord(p)
	eff := m.lib.efficiency(&rec, params.Resistance, params.SourceVoltage, params.Temperature)
	if err := checkFinite("efficiency", eff); err != nil {
		return 0, err
	}
	return eff, nil
}

// CapacitanceAt is evaluated host side: the native contract has no
// temperature call.
func (m *Accelerated) CapacitanceAt(p capacitor.Profile, temperature float64) (float64, error) {
	if err := validateTemperature(p, temperature); err != nil {
		return 0, err
	}
	c := physics.CapacitanceAt(p.Capacitance(), p.TempCoeff(), temperature)
	if err := checkFinite("capacitance", c); err != nil {
		return 0, err
	}
	return c, nil
}

func (m *Accelerated) Describe(p capacitor.Profile) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	if m.lib == nil {
		return "", errClosed
	}

	rec := marshalRecord(p)
	buf := make([]byte, describeBufSize)
	for attempt := 0; attempt < 2; attempt++ {
		n := m.lib.describe(&rec, &buf[0], int32(len(buf)))
		if n < 0 {
			return "", callError("capsim_describe", n)
		}
		if int(n) < len(buf) {
			return string(buf[:n]), nil
		}
		buf = make([]byte, int(n)+1)
	}
	return "", fmt.Errorf("compute: capsim_describe output did not fit in %d bytes", len(buf))
}

// probe checks the ABI version and that the native side lays out the
// profile record exactly as marshalRecord does.
func (m *Accelerated) probe() error {
	if v := m.lib.abiVersion(); v != ABIVersion {
		return fmt.Errorf("abi version %d, want %d", v, ABIVersion)
	}

	want := capacitor.MustProfile("probe", 4.7e-6, 0.25, 2e-9, -0.0015)
	var got record
	name := cString(want.Name())
	rc := m.lib.create(&name[0], want.Capacitance(), want.ESR(), want.Leakage(), want.TempCoeff(), &got)
	if err := callError("capsim_create", rc); err != nil {
		return err
	}
	if got != marshalRecord(want) {
		return fmt.Errorf("record layout mismatch: native %+v", got)
	}
	if _, err := got.profile(); err != nil {
		return fmt.Errorf("native record does not round-trip: %w", err)
	}
	return nil
}

var errClosed = errors.New("compute: accelerated model is closed")

func callError(fn string, rc int32) error {
	switch rc {
	case nativeOK:
		return nil
	case nativeInvalid:
		return fmt.Errorf("compute: %s rejected its arguments: %w", fn, capacitor.ErrInvalidParameter)
	default:
		return fmt.Errorf("compute: %s failed with code %d", fn, rc)
	}
}
