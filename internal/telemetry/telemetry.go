// Package telemetry exports simulation progress as Prometheus metrics.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/san-kum/orrery/internal/dynamo"
	"github.com/san-kum/orrery/internal/metrics"
)

const namespace = "orrery"

// Collector is a dynamo.Observer that mirrors every macro-step into a set of
// Prometheus collectors.
type Collector struct {
	macroSteps prometheus.Counter
	subSteps   prometheus.Counter
	simulated  prometheus.Counter
	dropped    prometheus.Counter
	simTime    prometheus.Gauge
	drift      prometheus.Gauge
	nonFinite  prometheus.Gauge
	duration   prometheus.Histogram

	energy *metrics.EnergyDrift
}

// NewCollector registers the collectors with reg. energy may be nil, in which
// case the drift gauge stays at zero.
func NewCollector(reg prometheus.Registerer, energy *metrics.EnergyDrift) *Collector {
	c := &Collector{
		macroSteps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "macro_steps_total",
			Help:      "Completed macro-steps (simulated days)",
		}),
		subSteps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sub_steps_total",
			Help:      "Completed integration sub-steps",
		}),
		simulated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "simulated_seconds_total",
			Help:      "Simulated time actually integrated",
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dropped_seconds_total",
			Help:      "Macro-step remainder left unsimulated",
		}),
		simTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "simulation_time_seconds",
			Help:      "Current simulation clock",
		}),
		drift: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "energy_drift_ratio",
			Help:      "Relative total energy change since the start",
		}),
		nonFinite: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "non_finite_bodies",
			Help:      "Bodies whose position or velocity is NaN or infinite",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "macro_step_duration_seconds",
			Help:      "Wall time spent computing one macro-step",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
		energy: energy,
	}

	reg.MustRegister(
		c.macroSteps,
		c.subSteps,
		c.simulated,
		c.dropped,
		c.simTime,
		c.drift,
		c.nonFinite,
		c.duration,
	)

	return c
}

func (c *Collector) OnMacroStep(s dynamo.Snapshot, r dynamo.Report, t float64) {
	c.macroSteps.Inc()
	c.subSteps.Add(float64(r.SubSteps))
	c.simulated.Add(r.Simulated)
	c.dropped.Add(r.Dropped)
	c.simTime.Set(t)
	c.nonFinite.Set(float64(len(dynamo.NonFinite(s))))
	if c.energy != nil {
		c.drift.Set(c.energy.Current())
	}
}

// ObserveDuration records the wall time of one macro-step.
func (c *Collector) ObserveDuration(d time.Duration) {
	c.duration.Observe(d.Seconds())
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
