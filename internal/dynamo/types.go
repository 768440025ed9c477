package dynamo

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Snapshot is a read-only view of the committed state of every body,
// indexed in registry order.
type Snapshot interface {
	Len() int
	Pos(i int) r2.Vec
	Vel(i int) r2.Vec
	Mass(i int) float64
}

// Report describes one macro-step.
type Report struct {
	// SubSteps is the number of sub-steps executed, including a partial one.
	SubSteps int
	// Simulated is the simulated time covered, in seconds.
	Simulated float64
	// Dropped is simulated time that was not integrated because the macro-step
	// is not a whole multiple of the sub-step.
	Dropped float64
}

// Observer is notified after each macro-step has fully committed.
type Observer interface {
	OnMacroStep(s Snapshot, r Report, t float64)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(s Snapshot, r Report, t float64)

func (f ObserverFunc) OnMacroStep(s Snapshot, r Report, t float64) { f(s, r, t) }

// IsFinite reports whether v has no NaN or infinite component.
func IsFinite(v r2.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

// NonFinite returns the indices of bodies whose position or velocity is not finite.
func NonFinite(s Snapshot) []int {
	var bad []int
	for i := 0; i < s.Len(); i++ {
		if !IsFinite(s.Pos(i)) || !IsFinite(s.Vel(i)) {
			bad = append(bad, i)
		}
	}
	return bad
}
