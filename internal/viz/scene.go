package viz

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/orrery/internal/body"
	"github.com/san-kum/orrery/internal/dynamo"
)

// DrawScene rasterises trails and bodies onto c through pr. Bodies with a
// non-finite position are skipped, and so is any disc whose bounding box
// misses the canvas.
func DrawScene(c *Canvas, pr Projection, bodies []body.View, trails [][]r2.Vec) {
	w, h := c.SubSize()

	for _, trail := range trails {
		for i := 1; i < len(trail); i++ {
			x0, y0 := pr.Point(trail[i-1])
			x1, y1 := pr.Point(trail[i])
			if !visible(x0, y0, w, h) || !visible(x1, y1, w, h) {
				continue
			}
			c.DrawLine(int(x0), int(y0), int(x1), int(y1))
		}
	}

	for _, b := range bodies {
		if !dynamo.IsFinite(b.Pos) {
			continue
		}
		x, y := pr.Point(b.Pos)
		r := pr.Radius(b.Radius)
		if !overlaps(x, y, r, w, h) {
			continue
		}
		c.Disc(x, y, r)
	}
}

// visible reports whether a point lies on the canvas. It also rejects NaN.
func visible(x, y float64, w, h int) bool {
	return x >= 0 && y >= 0 && x < float64(w) && y < float64(h)
}

// overlaps reports whether the bounding box of a disc intersects the canvas.
func overlaps(x, y, r float64, w, h int) bool {
	return x+r >= 0 && y+r >= 0 && x-r < float64(w) && y-r < float64(h)
}
