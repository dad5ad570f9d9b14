package compute

import (
	"bytes"

	"github.com/san-kum/capsim/internal/capacitor"
)

// record mirrors capsim_capacitor in native/capsim.h:
//
//	offset  0  char   name[30]
//	offset 32  double capacitance
//	offset 40  double esr
//	offset 48  double leakage
//	offset 56  double temp_coeff
type record struct {
	Name        [30]byte
	_           [2]byte
	Capacitance float64
	ESR         float64
	Leakage     float64
	TempCoeff   float64
}

const recordSize = 64

func marshalRecord(p capacitor.Profile) record {
	var r record
	// names are at most 29 bytes so the terminator always fits
	copy(r.Name[:capacitor.MaxNameLen], p.Name())
	r.Capacitance = p.Capacitance()
	r.ESR = p.ESR()
	r.Leakage = p.Leakage()
	r.TempCoeff = p.TempCoeff()
	return r
}

func (r *record) name() string {
	n := bytes.IndexByte(r.Name[:], 0)
	if n < 0 {
		n = len(r.Name)
	}
	return string(r.Name[:n])
}

func (r *record) profile() (capacitor.Profile, error) {
	return capacitor.NewProfile(r.name(), r.Capacitance, r.ESR, r.Leakage, r.TempCoeff)
}

// cString returns s as a NUL-terminated byte slice.
func cString(s string) []byte {
	b := make([]byte, len(s)+1)
	copy(b, s)
	return b
}
