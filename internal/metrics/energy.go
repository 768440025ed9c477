package metrics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/orrery/internal/dynamo"
	"github.com/san-kum/orrery/internal/integrators"
)

// Energy returns the total kinetic plus potential energy of s in joules.
// Softening is applied to the potential the same way the force law applies it.
func Energy(s dynamo.Snapshot, p integrators.Params) float64 {
	n := s.Len()
	ke := 0.0
	pe := 0.0
	eps2 := p.Softening * p.Softening

	for i := 0; i < n; i++ {
		ke += 0.5 * s.Mass(i) * r2.Norm2(s.Vel(i))

		for j := i + 1; j < n; j++ {
			r := math.Sqrt(r2.Norm2(r2.Sub(s.Pos(j), s.Pos(i))) + eps2)
			pe -= p.G * s.Mass(i) * s.Mass(j) / r
		}
	}

	return ke + pe
}

// Momentum returns the total linear momentum of s.
func Momentum(s dynamo.Snapshot) r2.Vec {
	var p r2.Vec
	for i := 0; i < s.Len(); i++ {
		p = r2.Add(p, r2.Scale(s.Mass(i), s.Vel(i)))
	}
	return p
}

// AngularMomentum returns the z component of the total angular momentum of s
// about the origin.
func AngularMomentum(s dynamo.Snapshot) float64 {
	L := 0.0
	for i := 0; i < s.Len(); i++ {
		L += s.Mass(i) * r2.Cross(s.Pos(i), s.Vel(i))
	}
	return L
}

// EnergyDrift tracks the largest relative energy change since the first
// observation.
type EnergyDrift struct {
	name          string
	params        integrators.Params
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(p integrators.Params) *EnergyDrift {
	return &EnergyDrift{
		name:   "energy_drift",
		params: p,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

// Observe records the energy of s. The first call fixes the reference value.
func (e *EnergyDrift) Observe(s dynamo.Snapshot) {
	energy := Energy(s, e.params)

	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.currentEnergy = energy
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) OnMacroStep(s dynamo.Snapshot, r dynamo.Report, t float64) {
	e.Observe(s)
}

// Value is the maximum relative drift seen so far.
func (e *EnergyDrift) Value() float64 { return e.maxDrift }

// Current is the relative drift at the latest observation.
func (e *EnergyDrift) Current() float64 {
	if e.initialEnergy == 0 {
		return 0
	}
	return math.Abs(e.currentEnergy-e.initialEnergy) / math.Abs(e.initialEnergy)
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
