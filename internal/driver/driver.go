// Package driver paces the simulation: one macro-step per frame, frames
// released by a rate limiter. Pacing is frame-based, so simulated time runs
// as fast as frames are produced rather than tracking the wall clock.
package driver

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/san-kum/orrery/internal/body"
	"github.com/san-kum/orrery/internal/dynamo"
	"github.com/san-kum/orrery/internal/integrators"
	"golang.org/x/time/rate"
)

// Frame describes one completed macro-step.
type Frame struct {
	Day      int
	Time     float64
	Report   dynamo.Report
	Elapsed  time.Duration
	Registry *body.Registry
}

type Options struct {
	// FPS caps the frame rate. Zero or less runs unpaced.
	FPS float64
	// Days stops the loop after that many frames. Zero runs until the
	// context is cancelled.
	Days int
	// StopOnNonFinite ends the loop with a *dynamo.SimulationError as soon as
	// a body's state stops being finite.
	StopOnNonFinite bool
	Logger          *log.Logger
}

type Loop struct {
	registry   *body.Registry
	integrator *integrators.Integrator
	limiter    *rate.Limiter
	opts       Options
	logger     *log.Logger
	day        int
}

func New(reg *body.Registry, integ *integrators.Integrator, opts Options) *Loop {
	limit := rate.Inf
	if opts.FPS > 0 {
		limit = rate.Limit(opts.FPS)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Loop{
		registry:   reg,
		integrator: integ,
		limiter:    rate.NewLimiter(limit, 1),
		opts:       opts,
		logger:     logger,
	}
}

// Day returns the number of frames completed so far.
func (l *Loop) Day() int { return l.day }

// Run produces frames until Days is reached, fn fails, or ctx is done. The
// context is only consulted between frames: a macro-step that has started
// always completes. A cancelled context ends the loop without error.
func (l *Loop) Run(ctx context.Context, fn func(Frame) error) error {
	warned := false

	for l.opts.Days <= 0 || l.day < l.opts.Days {
		if err := l.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		start := time.Now()
		rep := l.integrator.Advance(l.registry)
		elapsed := time.Since(start)
		l.day++

		if err := l.integrator.Validate(l.registry); err != nil {
			if l.opts.StopOnNonFinite {
				return err
			}
			if !warned {
				l.logger.Warn("simulation state is no longer finite", "day", l.day, "err", err)
				warned = true
			}
		}

		frame := Frame{
			Day:      l.day,
			Time:     l.integrator.Time(),
			Report:   rep,
			Elapsed:  elapsed,
			Registry: l.registry,
		}
		if fn != nil {
			if err := fn(frame); err != nil {
				if errors.Is(err, ErrStop) {
					return nil
				}
				return err
			}
		}

		if ctx.Err() != nil {
			return nil
		}
	}

	return nil
}

// ErrStop may be returned by a frame callback to end the loop cleanly.
var ErrStop = errors.New("driver: stop")
