//go:build darwin || linux

package compute

import (
	"github.com/ebitengine/purego"

	"github.com/san-kum/capsim/internal/capacitor"
)

// openLibrary loads the native component with dlopen and binds the capsim
// symbols. Every symbol is looked up before any is registered so a partial
// library is rejected without panicking.
func openLibrary(path string) (*symbols, error) {
	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_LOCAL)
	if err != nil {
		return nil, &capacitor.BackendError{Stage: capacitor.StageLoad, Path: path, Err: err}
	}

	for _, name := range symbolNames {
		if _, err := purego.Dlsym(handle, name); err != nil {
			purego.Dlclose(handle)
			return nil, &capacitor.BackendError{Stage: capacitor.StageSymbol, Path: path, Err: err}
		}
	}

	lib := &symbols{}
	purego.RegisterLibFunc(&lib.abiVersion, handle, "capsim_abi_version")
	purego.RegisterLibFunc(&lib.create, handle, "capsim_create")
	purego.RegisterLibFunc(&lib.simulate, handle, "capsim_simulate")
	purego.RegisterLibFunc(&lib.efficiency, handle, "capsim_efficiency")
	purego.RegisterLibFunc(&lib.describe, handle, "capsim_describe")
	lib.close = func() error {
		return purego.Dlclose(handle)
	}
	return lib, nil
}
