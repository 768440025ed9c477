// Package metrics computes conservation diagnostics over committed body
// state. Every collector here is a [dynamo.Observer]; attach it to an
// integrator and read it between macro-steps.
package metrics

import "github.com/san-kum/orrery/internal/dynamo"

// Metric is a named scalar accumulated over macro-steps.
type Metric interface {
	dynamo.Observer
	Name() string
	Value() float64
	Reset()
}
