package integrators

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/orrery/internal/dynamo"
)

// G is the gravitational constant in m³/(kg·s²).
const G = 6.674e-11

// Params are the physical parameters of the force law.
type Params struct {
	G float64
	// Softening is added in quadrature to every separation before cubing.
	// Zero gives the exact inverse-square law.
	Softening float64
}

// Forces writes into out the net gravitational force on every body of s:
//
//	F_i = Σ_{j≠i} G·m_i·m_j·(p_j − p_i) / |p_j − p_i|³
//
// It only reads s. len(out) must be at least s.Len().
func Forces(s dynamo.Snapshot, p Params, out []r2.Vec) {
	n := s.Len()
	eps2 := p.Softening * p.Softening

	for i := 0; i < n; i++ {
		pi, mi := s.Pos(i), s.Mass(i)
		var f r2.Vec

		for j := 0; j < n; j++ {
			if i == j {
				continue
			}

			d := r2.Sub(s.Pos(j), pi)
			dist2 := r2.Norm2(d) + eps2
			mag := p.G * mi * s.Mass(j) / math.Pow(dist2, 1.5)
			f = r2.Add(f, r2.Scale(mag, d))
		}

		out[i] = f
	}
}
