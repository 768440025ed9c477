// Package stream carries rendered frames out of the process: as JSON
// messages over a websocket for browser clients, and as a JSON trace of a
// headless run.
package stream

import (
	"github.com/san-kum/orrery/internal/body"
	"github.com/san-kum/orrery/internal/dynamo"
)

// BodyFrame is the drawable state of one body.
type BodyFrame struct {
	Name   string  `json:"name"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
}

// Frame is everything a renderer needs to draw one macro-step.
type Frame struct {
	Day        int         `json:"day"`
	Time       float64     `json:"time"`
	SubSteps   int         `json:"sub_steps"`
	Dropped    float64     `json:"dropped"`
	HalfExtent float64     `json:"half_extent"`
	Bodies     []BodyFrame `json:"bodies"`
}

// NewFrame captures the committed state of reg. Non-finite coordinates are
// not representable in JSON, so those bodies are left out.
func NewFrame(day int, t float64, rep dynamo.Report, halfExtent float64, reg *body.Registry) Frame {
	views := reg.Bodies()
	f := Frame{
		Day:        day,
		Time:       t,
		SubSteps:   rep.SubSteps,
		Dropped:    rep.Dropped,
		HalfExtent: halfExtent,
		Bodies:     make([]BodyFrame, 0, len(views)),
	}
	for _, v := range views {
		if !dynamo.IsFinite(v.Pos) {
			continue
		}
		f.Bodies = append(f.Bodies, BodyFrame{
			Name:   v.Name,
			X:      v.Pos.X,
			Y:      v.Pos.Y,
			Radius: v.Radius,
		})
	}
	return f
}
