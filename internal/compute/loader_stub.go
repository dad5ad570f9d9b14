//go:build !darwin && !linux

package compute

import (
	"fmt"
	"runtime"

	"github.com/san-kum/capsim/internal/capacitor"
)

func openLibrary(path string) (*symbols, error) {
	return nil, &capacitor.BackendError{
		Stage: capacitor.StageLoad,
		Path:  path,
		Err:   fmt.Errorf("dynamic loading is not supported on %s", runtime.GOOS),
	}
}
