// Package sweep compares integration settings on the same initial
// conditions. Every variant owns its registry and integrator, so variants run
// concurrently while each simulation stays single-threaded.
package sweep

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/orrery/internal/config"
	"github.com/san-kum/orrery/internal/driver"
	"github.com/san-kum/orrery/internal/dynamo"
	"github.com/san-kum/orrery/internal/metrics"
)

// Grid lists the values to try for each setting. An empty list keeps the
// base configuration's value.
type Grid struct {
	Name       string    `yaml:"name"`
	Days       int       `yaml:"days"`
	Schemes    []string  `yaml:"schemes"`
	SubSteps   []float64 `yaml:"sub_steps"`
	Remainders []string  `yaml:"remainders"`
	Softenings []float64 `yaml:"softenings"`
}

// Variant is one point of a grid.
type Variant struct {
	Scheme    string
	SubStep   float64
	Remainder string
	Softening float64
}

func (v Variant) String() string {
	return fmt.Sprintf("%s dt=%gs %s eps=%gm", v.Scheme, v.SubStep, v.Remainder, v.Softening)
}

type Result struct {
	Variant   Variant
	Days      int
	SubSteps  int
	Drift     float64
	Dropped   float64
	NonFinite bool
	Elapsed   time.Duration
	Err       error
}

// LoadGrid loads a grid from a YAML file
func LoadGrid(path string) (*Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var grid Grid
	if err := yaml.Unmarshal(data, &grid); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &grid, nil
}

// Variants expands the grid into its cartesian product, filling unset
// dimensions from base.
func (g *Grid) Variants(base *config.Config) []Variant {
	schemes := g.Schemes
	if len(schemes) == 0 {
		schemes = []string{base.Scheme}
	}
	subSteps := g.SubSteps
	if len(subSteps) == 0 {
		subSteps = []float64{base.SubStep}
	}
	remainders := g.Remainders
	if len(remainders) == 0 {
		remainders = []string{base.Remainder}
	}
	softenings := g.Softenings
	if len(softenings) == 0 {
		softenings = []float64{base.Softening}
	}

	variants := make([]Variant, 0, len(schemes)*len(subSteps)*len(remainders)*len(softenings))
	for _, s := range schemes {
		for _, dt := range subSteps {
			for _, r := range remainders {
				for _, eps := range softenings {
					variants = append(variants, Variant{
						Scheme:    s,
						SubStep:   dt,
						Remainder: r,
						Softening: eps,
					})
				}
			}
		}
	}
	return variants
}

// Run simulates every variant for the given number of days using at most
// workers goroutines. Per-variant failures are reported in the results; the
// returned error is only set when ctx ends the sweep early.
func Run(ctx context.Context, base *config.Config, variants []Variant, days, workers int) ([]Result, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]Result, len(variants))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, v := range variants {
		g.Go(func() error {
			results[i] = runVariant(gctx, base, v, days)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}

func runVariant(ctx context.Context, base *config.Config, v Variant, days int) Result {
	res := Result{Variant: v}

	cfg := *base
	cfg.Scheme = v.Scheme
	cfg.SubStep = v.SubStep
	cfg.Remainder = v.Remainder
	cfg.Softening = v.Softening
	if err := cfg.Validate(); err != nil {
		res.Err = err
		return res
	}

	reg, integ, err := cfg.Build()
	if err != nil {
		res.Err = err
		return res
	}

	drift := metrics.NewEnergyDrift(integ.Config().Params)
	drift.Observe(reg.Snapshot())
	integ.AddObserver(drift)

	start := time.Now()
	loop := driver.New(reg, integ, driver.Options{Days: days, StopOnNonFinite: true})
	res.Err = loop.Run(ctx, func(f driver.Frame) error {
		res.Dropped += f.Report.Dropped
		return nil
	})
	res.Elapsed = time.Since(start)

	res.Days = loop.Day()
	res.SubSteps = integ.SubSteps()
	res.Drift = drift.Value()
	res.NonFinite = len(dynamo.NonFinite(reg.Snapshot())) > 0
	return res
}

// Rank orders results by energy drift. Runs that went non-finite follow the
// healthy ones, also by drift, and runs that failed for any other reason come
// last in their original order.
func Rank(results []Result) []Result {
	ranked := append([]Result(nil), results...)
	sort.SliceStable(ranked, func(i, j int) bool {
		ci, cj := ranked[i].class(), ranked[j].class()
		if ci != cj {
			return ci < cj
		}
		if ci == classErrored {
			return false
		}
		return ranked[i].Drift < ranked[j].Drift
	})
	return ranked
}

const (
	classOK = iota
	classNonFinite
	classErrored
)

func (r Result) class() int {
	switch {
	case r.NonFinite:
		return classNonFinite
	case r.Err != nil:
		return classErrored
	default:
		return classOK
	}
}
