package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrNonFinite indicates a position or velocity that is NaN or infinite,
	// usually the aftermath of two bodies coinciding.
	ErrNonFinite = errors.New("dynamo: non-finite body state (NaN or Inf detected)")

	// ErrInvalidConfig indicates a configuration value outside its valid range.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")

	// ErrUnknownScheme indicates an integration scheme name that is not registered.
	ErrUnknownScheme = errors.New("dynamo: unknown integration scheme")

	// ErrUnknownPreset indicates an initial-condition preset that does not exist.
	ErrUnknownPreset = errors.New("dynamo: unknown preset")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Body    string
	Index   int
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("body %d (%s) at step %d (t=%.0fs): %v", e.Index, e.Body, e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
