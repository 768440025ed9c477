package stream

import (
	"encoding/json"
	"io"
	"math"
	"os"
)

// Trace is the record of a headless run.
type Trace struct {
	Preset    string             `json:"preset"`
	Scheme    string             `json:"scheme"`
	MacroStep float64            `json:"macro_step"`
	SubStep   float64            `json:"sub_step"`
	Remainder string             `json:"remainder"`
	Days      int                `json:"days"`
	Frames    []Frame            `json:"frames"`
	Metrics   map[string]float64 `json:"metrics"`
}

func (t *Trace) Append(f Frame) {
	t.Frames = append(t.Frames, f)
	t.Days = len(t.Frames)
}

// SetMetric records a summary value. NaN and infinities have no JSON
// encoding, so they are left out of the trace like non-finite bodies.
func (t *Trace) SetMetric(name string, v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		delete(t.Metrics, name)
		return
	}
	if t.Metrics == nil {
		t.Metrics = make(map[string]float64)
	}
	t.Metrics[name] = v
}

func WriteTrace(w io.Writer, t *Trace) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(t)
}

// ExportTrace writes t to path, or to stdout when path is "-".
func ExportTrace(path string, t *Trace) error {
	if path == "-" {
		return WriteTrace(os.Stdout, t)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteTrace(file, t)
}
