package body

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/orrery/internal/dynamo"
)

// Registry owns the ordered sequence of bodies for the lifetime of a
// simulation. It is not safe for concurrent use.
type Registry struct {
	specs   []Spec
	density float64
	bodies  []Body
	front   []Kinematics // committed
	back    []Kinematics // staging
}

// NewRegistry builds a registry from literal initial conditions, keeping
// their order.
func NewRegistry(specs []Spec, density float64) *Registry {
	r := &Registry{
		specs:   append([]Spec(nil), specs...),
		density: density,
		bodies:  make([]Body, len(specs)),
		front:   make([]Kinematics, len(specs)),
		back:    make([]Kinematics, len(specs)),
	}
	r.Reset()
	return r
}

// Reset restores every body to its initial condition.
func (r *Registry) Reset() {
	for i, s := range r.specs {
		r.bodies[i], r.front[i] = New(s, r.density)
		r.back[i] = r.front[i]
	}
}

func (r *Registry) Len() int           { return len(r.bodies) }
func (r *Registry) Density() float64   { return r.density }
func (r *Registry) Body(i int) Body    { return r.bodies[i] }
func (r *Registry) Specs() []Spec      { return append([]Spec(nil), r.specs...) }
func (r *Registry) Snapshot() Snapshot { return Snapshot{bodies: r.bodies, state: r.front} }
func (r *Registry) Staging() Staging   { return Staging{state: r.back} }

// Commit publishes the staging buffer as the new committed state. The
// previous committed buffer becomes the staging buffer for the next sub-step.
func (r *Registry) Commit() {
	r.front, r.back = r.back, r.front
}

// View is a read-only copy of one body for presentation.
type View struct {
	Name   string
	Pos    r2.Vec
	Vel    r2.Vec
	Mass   float64
	Radius float64
}

// Bodies returns a copy of every body's committed state in insertion order.
func (r *Registry) Bodies() []View {
	views := make([]View, len(r.bodies))
	for i, b := range r.bodies {
		views[i] = View{
			Name:   b.Name,
			Pos:    r.front[i].Pos,
			Vel:    r.front[i].Vel,
			Mass:   b.Mass,
			Radius: b.Radius,
		}
	}
	return views
}

// Validate reports the first body whose committed state is not finite.
func (r *Registry) Validate() error {
	bad := dynamo.NonFinite(r.Snapshot())
	if len(bad) == 0 {
		return nil
	}
	i := bad[0]
	return &dynamo.SimulationError{
		Body:    r.bodies[i].Name,
		Index:   i,
		Wrapped: dynamo.ErrNonFinite,
	}
}

// Snapshot is a read-only view of committed state. It stays valid until the
// registry commits again.
type Snapshot struct {
	bodies []Body
	state  []Kinematics
}

func (s Snapshot) Len() int                    { return len(s.state) }
func (s Snapshot) Pos(i int) r2.Vec            { return s.state[i].Pos }
func (s Snapshot) Vel(i int) r2.Vec            { return s.state[i].Vel }
func (s Snapshot) Mass(i int) float64          { return s.bodies[i].Mass }
func (s Snapshot) Kinematics(i int) Kinematics { return s.state[i] }

// Staging is a write-only view of the next state.
type Staging struct {
	state []Kinematics
}

func (s Staging) Len() int                { return len(s.state) }
func (s Staging) Set(i int, k Kinematics) { s.state[i] = k }
