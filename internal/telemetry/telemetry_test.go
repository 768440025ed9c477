package telemetry

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/san-kum/orrery/internal/body"
	"github.com/san-kum/orrery/internal/integrators"
	"github.com/san-kum/orrery/internal/metrics"
)

func gather(t *testing.T, reg *prometheus.Registry) map[string]float64 {
	t.Helper()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}

	values := make(map[string]float64)
	for _, mf := range families {
		m := mf.GetMetric()[0]
		switch {
		case m.GetCounter() != nil:
			values[mf.GetName()] = m.GetCounter().GetValue()
		case m.GetGauge() != nil:
			values[mf.GetName()] = m.GetGauge().GetValue()
		case m.GetHistogram() != nil:
			values[mf.GetName()] = float64(m.GetHistogram().GetSampleCount())
		}
	}
	return values
}

func TestCollectorObservesMacroSteps(t *testing.T) {
	reg := prometheus.NewRegistry()
	bodies := body.NewRegistry([]body.Spec{
		{Name: "a", X: -1e9, VY: -10, Mass: 1e24},
		{Name: "b", X: 1e9, VY: 10, Mass: 1e24},
	}, body.DefaultDensity)

	cfg := integrators.DefaultConfig()
	cfg.MacroStep = 100
	cfg.SubStep = 30

	drift := metrics.NewEnergyDrift(cfg.Params)
	drift.Observe(bodies.Snapshot())

	integ := integrators.New(cfg, integrators.NewKinematic())
	integ.AddObserver(drift)
	integ.AddObserver(NewCollector(reg, drift))

	integ.Advance(bodies)
	integ.Advance(bodies)

	values := gather(t, reg)
	expected := map[string]float64{
		"orrery_macro_steps_total":       2,
		"orrery_sub_steps_total":         6,
		"orrery_simulated_seconds_total": 180,
		"orrery_dropped_seconds_total":   20,
		"orrery_simulation_time_seconds": 180,
		"orrery_non_finite_bodies":       0,
	}
	for name, want := range expected {
		if got, ok := values[name]; !ok || got != want {
			t.Errorf("%s: expected %g, got %g (present=%v)", name, want, got, ok)
		}
	}
	if values["orrery_energy_drift_ratio"] != drift.Current() {
		t.Errorf("drift gauge %g does not match observer %g", values["orrery_energy_drift_ratio"], drift.Current())
	}
}

func TestCollectorDuration(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg, nil)

	c.ObserveDuration(3 * time.Millisecond)
	c.ObserveDuration(40 * time.Millisecond)

	if got := gather(t, reg)["orrery_macro_step_duration_seconds"]; got != 2 {
		t.Errorf("expected 2 samples, got %g", got)
	}
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg, nil)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "orrery_sub_steps_total") {
		t.Error("metrics output missing sub-step counter")
	}
}
