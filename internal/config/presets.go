package config

import (
	"math"
	"sort"

	"github.com/san-kum/orrery/internal/body"
	"github.com/san-kum/orrery/internal/integrators"
)

var Presets = map[string]func() []body.Spec{
	"solar": body.SolarSystem,
	"inner": func() []body.Spec {
		return body.SolarSystem()[:5]
	},
	"binary": func() []body.Spec {
		const (
			m = 1e30
			a = 1e11 // each star's distance from the barycentre
		)
		v := math.Sqrt(integrators.G*m*a) / (2 * a)
		return []body.Spec{
			{Name: "alpha", X: -a, VY: -v, Mass: m},
			{Name: "beta", X: a, VY: v, Mass: m},
		}
	},
	"lonely": func() []body.Spec {
		return []body.Spec{
			{Name: "rogue", X: -4e12, Y: -1e12, VX: 3e4, VY: 1e4, Mass: 5.9724e24},
		}
	},
}

// GetPreset returns fresh initial conditions for a preset, or nil.
func GetPreset(name string) []body.Spec {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
