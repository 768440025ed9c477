package metrics

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/orrery/internal/dynamo"
)

// Containment is the fraction of macro-steps during which every body stayed
// finite and within radius of the origin.
type Containment struct {
	name       string
	radius     float64
	violations int
	samples    int
}

func NewContainment(radius float64) *Containment {
	return &Containment{
		name:   "containment",
		radius: radius,
	}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) OnMacroStep(s dynamo.Snapshot, r dynamo.Report, t float64) {
	c.samples++
	for i := 0; i < s.Len(); i++ {
		p := s.Pos(i)
		if !dynamo.IsFinite(p) || r2.Norm(p) > c.radius {
			c.violations++
			break
		}
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}
