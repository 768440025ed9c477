package viz

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// MinRadius keeps small bodies visible: a disc is never drawn with a radius
// below half a presentation unit.
const MinRadius = 0.5

// Projection maps simulation meters onto a viewport whose origin is the top
// left corner. The simulation origin lands in the middle of the viewport and
// a square of side 2·halfExtent fits the shorter dimension.
type Projection struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
}

func NewProjection(width, height, halfExtent float64) Projection {
	return Projection{
		Scale:   math.Min(width, height) / (2 * halfExtent),
		OffsetX: width / 2,
		OffsetY: height / 2,
	}
}

// Point returns the viewport coordinates of p.
func (pr Projection) Point(p r2.Vec) (x, y float64) {
	return p.X*pr.Scale + pr.OffsetX, p.Y*pr.Scale + pr.OffsetY
}

// Radius returns the drawn radius of a body with physical radius r.
func (pr Projection) Radius(r float64) float64 {
	return math.Max(r*pr.Scale, MinRadius)
}
