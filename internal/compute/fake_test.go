package compute

import (
	"fmt"
	"math"
	"strings"
	"unsafe"

	"github.com/san-kum/capsim/internal/capacitor"
	"github.com/san-kum/capsim/internal/physics"
)

// fakeLib implements the native contract in Go so the boundary code can be
// exercised without a C toolchain.
type fakeLib struct {
	version      int32
	simulateCode int32
	poison       float64 // written into the last output slot when non-zero
	describePad  int
	opens        int
	closes       int
	openErr      error
}

func (f *fakeLib) symbols() *symbols {
	return &symbols{
		abiVersion: func() int32 { return f.version },
		create: func(name *byte, c, esr, leakage, tc float64, out *record) int32 {
			if c <= 0 {
				return nativeInvalid
			}
			*out = record{}
			copy(out.Name[:capacitor.MaxNameLen], goString(name))
			out.Capacitance, out.ESR, out.Leakage, out.TempCoeff = c, esr, leakage, tc
			return nativeOK
		},
		simulate: func(rec *record, r, v0, temp float64, times, out *float64, n int32) int32 {
			ts := unsafe.Slice(times, n)
			vs := unsafe.Slice(out, n)
			p, err := rec.profile()
			if err != nil {
				return nativeInvalid
			}
			physics.Trajectory(p, r, v0, ts, vs)
			if f.poison != 0 {
				vs[n-1] = f.poison
			}
			return f.simulateCode
		},
		efficiency: func(rec *record, r, v0, temp float64) float64 {
			p, err := rec.profile()
			if err != nil {
				return math.NaN()
			}
			return physics.Efficiency(p, r, v0)
		},
		describe: func(rec *record, buf *byte, size int32) int32 {
			s := fmt.Sprintf("Capacitor: %s\n%s", rec.name(), strings.Repeat("-", f.describePad))
			dst := unsafe.Slice(buf, size)
			n := copy(dst[:size-1], s)
			dst[n] = 0
			return int32(len(s))
		},
		close: func() error {
			f.closes++
			return nil
		},
	}
}

func (f *fakeLib) open(path string) (*symbols, error) {
	f.opens++
	if f.openErr != nil {
		return nil, f.openErr
	}
	return f.symbols(), nil
}

func newFakeLib() *fakeLib {
	return &fakeLib{version: ABIVersion}
}

func goString(p *byte) string {
	var b []byte
	for ptr := unsafe.Pointer(p); *(*byte)(ptr) != 0; ptr = unsafe.Add(ptr, 1) {
		b = append(b, *(*byte)(ptr))
	}
	return string(b)
}
