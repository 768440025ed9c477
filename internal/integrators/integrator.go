package integrators

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/orrery/internal/body"
	"github.com/san-kum/orrery/internal/dynamo"
)

const (
	// DefaultMacroStep is one simulated day, in seconds.
	DefaultMacroStep = 86400.0
	// DefaultSubStep is the fixed integration step, in seconds.
	DefaultSubStep = 10.0
)

// Remainder selects what happens to the time left over when the macro-step
// is not a whole multiple of the sub-step.
type Remainder int

const (
	// RemainderDrop runs only the whole sub-steps and leaves the rest of the
	// macro-step unsimulated.
	RemainderDrop Remainder = iota
	// RemainderPartial finishes with one shorter sub-step covering the rest.
	RemainderPartial
)

func (r Remainder) String() string {
	switch r {
	case RemainderDrop:
		return "drop"
	case RemainderPartial:
		return "partial"
	default:
		return fmt.Sprintf("Remainder(%d)", int(r))
	}
}

// ParseRemainder parses "drop" or "partial".
func ParseRemainder(s string) (Remainder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "drop":
		return RemainderDrop, nil
	case "partial":
		return RemainderPartial, nil
	default:
		return 0, fmt.Errorf("%w: remainder must be drop or partial, got %q", dynamo.ErrInvalidConfig, s)
	}
}

type Config struct {
	MacroStep float64
	SubStep   float64
	Remainder Remainder
	Params    Params
}

func DefaultConfig() Config {
	return Config{
		MacroStep: DefaultMacroStep,
		SubStep:   DefaultSubStep,
		Remainder: RemainderDrop,
		Params:    Params{G: G},
	}
}

func (c Config) Validate() error {
	if c.SubStep <= 0 {
		return fmt.Errorf("%w: sub-step must be positive, got %g", dynamo.ErrInvalidConfig, c.SubStep)
	}
	if c.MacroStep <= 0 {
		return fmt.Errorf("%w: macro-step must be positive, got %g", dynamo.ErrInvalidConfig, c.MacroStep)
	}
	if c.Params.G <= 0 {
		return fmt.Errorf("%w: gravitational constant must be positive, got %g", dynamo.ErrInvalidConfig, c.Params.G)
	}
	if c.Params.Softening < 0 {
		return fmt.Errorf("%w: softening must not be negative, got %g", dynamo.ErrInvalidConfig, c.Params.Softening)
	}
	return nil
}

// Plan returns the number of whole sub-steps in a macro-step and the time
// left over.
func (c Config) Plan() (steps int, rem float64) {
	steps = int(math.Floor(c.MacroStep / c.SubStep))
	rem = c.MacroStep - float64(steps)*c.SubStep
	if rem <= c.SubStep*1e-9 {
		rem = 0
	}
	return steps, rem
}

// Integrator advances a registry. It is single-threaded: Advance runs to
// completion and must not be called concurrently.
type Integrator struct {
	cfg       Config
	scheme    Scheme
	forces    []r2.Vec
	observers []dynamo.Observer
	subSteps  int
	time      float64
}

// New returns an integrator. cfg is expected to have passed Validate.
func New(cfg Config, scheme Scheme) *Integrator {
	if scheme == nil {
		scheme = NewKinematic()
	}
	return &Integrator{
		cfg:       cfg,
		scheme:    scheme,
		observers: make([]dynamo.Observer, 0),
	}
}

func (in *Integrator) AddObserver(o dynamo.Observer) { in.observers = append(in.observers, o) }
func (in *Integrator) Config() Config                { return in.cfg }
func (in *Integrator) Scheme() Scheme                { return in.scheme }

// SubSteps is the total number of sub-steps executed since the last reset.
func (in *Integrator) SubSteps() int { return in.subSteps }

// Time is the simulated time covered since the last reset, in seconds.
func (in *Integrator) Time() float64 { return in.time }

// Reset zeroes the counters. It does not touch any registry.
func (in *Integrator) Reset() {
	in.subSteps = 0
	in.time = 0
}

// Advance moves the registry forward by one macro-step and notifies the
// observers once everything has been committed.
func (in *Integrator) Advance(r *body.Registry) dynamo.Report {
	steps, rem := in.cfg.Plan()
	rep := dynamo.Report{}

	for i := 0; i < steps; i++ {
		in.Step(r, in.cfg.SubStep)
		rep.SubSteps++
		rep.Simulated += in.cfg.SubStep
	}

	if rem > 0 {
		switch in.cfg.Remainder {
		case RemainderPartial:
			in.Step(r, rem)
			rep.SubSteps++
			rep.Simulated += rem
		default:
			rep.Dropped = rem
		}
	}

	for _, o := range in.observers {
		o.OnMacroStep(r.Snapshot(), rep, in.time)
	}

	return rep
}

// Step runs one sub-step of length dt: every body's next state is computed
// from the committed snapshot, then all of them are committed together.
func (in *Integrator) Step(r *body.Registry, dt float64) {
	snap := r.Snapshot()
	n := snap.Len()

	if cap(in.forces) < n {
		in.forces = make([]r2.Vec, n)
	}
	forces := in.forces[:n]
	Forces(snap, in.cfg.Params, forces)

	staging := r.Staging()
	for i := 0; i < n; i++ {
		a := r2.Scale(1/snap.Mass(i), forces[i])
		staging.Set(i, in.scheme.Next(snap.Kinematics(i), a, dt))
	}

	r.Commit()
	in.subSteps++
	in.time += dt
}

// Validate checks the registry for non-finite state and stamps any error
// with the integrator's step count and simulated time.
func (in *Integrator) Validate(r *body.Registry) error {
	err := r.Validate()
	if err == nil {
		return nil
	}
	if simErr, ok := err.(*dynamo.SimulationError); ok {
		simErr.Step = in.subSteps
		simErr.Time = in.time
	}
	return err
}
