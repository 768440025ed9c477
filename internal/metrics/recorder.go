package metrics

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/orrery/internal/dynamo"
)

// Recorder keeps the distance from the origin and the x coordinate of every
// body after each macro-step, up to a fixed number of samples per body.
type Recorder struct {
	capacity int
	times    []float64
	radii    [][]float64
	xs       [][]float64
}

func NewRecorder(capacity int) *Recorder {
	return &Recorder{capacity: capacity}
}

func (r *Recorder) OnMacroStep(s dynamo.Snapshot, rep dynamo.Report, t float64) {
	if r.radii == nil {
		r.radii = make([][]float64, s.Len())
		r.xs = make([][]float64, s.Len())
	}
	if r.capacity > 0 && len(r.times) >= r.capacity {
		r.times = r.times[1:]
		for i := range r.radii {
			r.radii[i] = r.radii[i][1:]
			r.xs[i] = r.xs[i][1:]
		}
	}

	r.times = append(r.times, t)
	for i := range r.radii {
		p := s.Pos(i)
		r.radii[i] = append(r.radii[i], r2.Norm(p))
		r.xs[i] = append(r.xs[i], p.X)
	}
}

// Times returns the simulated time of each sample.
func (r *Recorder) Times() []float64 { return r.times }

// Radii returns the recorded orbital radii of body i, oldest first.
func (r *Recorder) Radii(i int) []float64 {
	if i < 0 || i >= len(r.radii) {
		return nil
	}
	return r.radii[i]
}

// X returns the recorded x coordinates of body i, oldest first.
func (r *Recorder) X(i int) []float64 {
	if i < 0 || i >= len(r.xs) {
		return nil
	}
	return r.xs[i]
}

func (r *Recorder) Len() int { return len(r.times) }
