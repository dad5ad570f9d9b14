package capacitor

import (
	"errors"
	"fmt"
)

// Domain errors for behavior model operations.
var (
	// ErrInvalidParameter indicates a non-positive capacitance or resistance,
	// a malformed time grid, or an input that would produce NaN or Inf.
	ErrInvalidParameter = errors.New("capacitor: invalid parameter")

	// ErrBackendUnavailable indicates the accelerated component could not be
	// built, loaded or verified.
	ErrBackendUnavailable = errors.New("capacitor: accelerated backend unavailable")
)

// ParameterError names the offending input.
type ParameterError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("capacitor: invalid %s (%g): %s", e.Field, e.Value, e.Reason)
}

func (e *ParameterError) Is(target error) bool {
	return target == ErrInvalidParameter
}

// Invalid returns a ParameterError for field.
func Invalid(field string, value float64, reason string) error {
	return &ParameterError{Field: field, Value: value, Reason: reason}
}

// BackendStage identifies where backend resolution failed.
type BackendStage string

const (
	StageDisabled BackendStage = "disabled"
	StageBuild    BackendStage = "build"
	StageLoad     BackendStage = "load"
	StageSymbol   BackendStage = "symbol"
	StageProbe    BackendStage = "probe"
)

// BackendError wraps a resolution failure with the stage and library path.
type BackendError struct {
	Stage BackendStage
	Path  string
	Err   error
}

func (e *BackendError) Error() string {
	msg := fmt.Sprintf("capacitor: accelerated backend unavailable (%s", e.Stage)
	if e.Path != "" {
		msg += " " + e.Path
	}
	msg += ")"
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

func (e *BackendError) Is(target error) bool {
	return target == ErrBackendUnavailable
}
