// Package export renders simulation state to static files.
package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/san-kum/orrery/internal/body"
	"github.com/san-kum/orrery/internal/dynamo"
	"github.com/san-kum/orrery/internal/viz"
	"gonum.org/v1/gonum/spatial/r2"
)

var trailColors = []string{"#ffcc00", "#00ffff", "#ff00ff", "#00ff00", "#ff8800", "#8888ff", "#ff4444", "#88ff88"}

// SceneSVG draws every body as a filled circle, projected exactly like the
// live views, with optional trails in simulation coordinates.
func SceneSVG(bodies []body.View, trails [][]r2.Vec, width, height int, halfExtent float64) string {
	pr := viz.NewProjection(float64(width), float64(height), halfExtent)

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#000000"/>
`, width, height, width, height))

	for i, trail := range trails {
		if path := trailPath(trail, pr); path != "" {
			color := trailColors[i%len(trailColors)]
			sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-opacity="0.6" stroke-width="1" d="%s"/>
`, color, path))
		}
	}

	sb.WriteString("<g fill=\"#ffffff\">\n")
	for _, b := range bodies {
		if !dynamo.IsFinite(b.Pos) {
			continue
		}
		x, y := pr.Point(b.Pos)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="%.2f"><title>%s</title></circle>
`, x, y, pr.Radius(b.Radius), html.EscapeString(b.Name)))
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

func trailPath(points []r2.Vec, pr viz.Projection) string {
	var sb strings.Builder
	n := 0
	for _, p := range points {
		if !dynamo.IsFinite(p) {
			continue
		}
		x, y := pr.Point(p)
		if n == 0 {
			sb.WriteString(fmt.Sprintf("M%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
		n++
	}
	if n < 2 {
		return ""
	}
	return sb.String()
}

// BrailleSVG rasterises the scene onto a cols x rows Braille canvas, as the
// terminal view would show it, and renders that canvas size pixels wide.
func BrailleSVG(bodies []body.View, trails [][]r2.Vec, cols, rows, size int, halfExtent float64) string {
	canvas := viz.NewCanvas(cols, rows)
	w, h := canvas.SubSize()
	viz.DrawScene(canvas, viz.NewProjection(float64(w), float64(h), halfExtent), bodies, trails)
	return CanvasToSVG(canvas, float64(size)/float64(w))
}

// CanvasToSVG converts a Braille canvas to SVG format
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	w, h := canvas.SubSize()
	width := float64(w) * scale
	height := float64(h) * scale

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ff00">
`, width, height, width, height))

	dotRadius := scale * 0.4
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, dotRadius))
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}
