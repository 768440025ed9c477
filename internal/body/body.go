package body

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// DefaultDensity is the shared density used to derive radii, in kg/m³
// (mean density of the Earth).
const DefaultDensity = 5520.0

// Body holds the physical attributes of one point mass.
type Body struct {
	Name   string
	Mass   float64 // kg
	Radius float64 // m, derived from Mass and the registry density
}

// Kinematics is the mutable part of a body: position in m, velocity in m/s.
type Kinematics struct {
	Pos r2.Vec
	Vel r2.Vec
}

// Spec is the literal initial condition of a body.
type Spec struct {
	Name string  `yaml:"name"`
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
	VX   float64 `yaml:"vx"`
	VY   float64 `yaml:"vy"`
	Mass float64 `yaml:"mass"`
}

// Radius returns the radius of a uniform sphere of the given mass and density.
func Radius(mass, density float64) float64 {
	return math.Cbrt(3 * mass / (4 * math.Pi * density))
}

// New builds a body and its initial kinematics from s. Mass must be positive;
// this is not checked.
func New(s Spec, density float64) (Body, Kinematics) {
	b := Body{
		Name:   s.Name,
		Mass:   s.Mass,
		Radius: Radius(s.Mass, density),
	}
	k := Kinematics{
		Pos: r2.Vec{X: s.X, Y: s.Y},
		Vel: r2.Vec{X: s.VX, Y: s.VY},
	}
	return b, k
}
