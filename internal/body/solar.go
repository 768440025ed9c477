package body

// SolarSystem returns the default configuration: a sun-like star and eight
// planets lined up on the positive x axis, each on a roughly circular orbit
// (values from the common N-body boilerplate on Wikipedia).
func SolarSystem() []Spec {
	return []Spec{
		{Name: "sun", X: 0.0, Y: 0.0, VX: 0.0, VY: 0.0, Mass: 1.989e30},
		{Name: "mercury", X: 57.909e9, Y: 0.0, VX: 0.0, VY: 47.36e3, Mass: 0.33011e24},
		{Name: "venus", X: 108.209e9, Y: 0.0, VX: 0.0, VY: 35.02e3, Mass: 4.8675e24},
		{Name: "earth", X: 149.596e9, Y: 0.0, VX: 0.0, VY: 29.78e3, Mass: 5.9724e24},
		{Name: "mars", X: 227.923e9, Y: 0.0, VX: 0.0, VY: 24.07e3, Mass: 0.64171e24},
		{Name: "jupiter", X: 778.570e9, Y: 0.0, VX: 0.0, VY: 13e3, Mass: 1898.19e24},
		{Name: "saturn", X: 1433.529e9, Y: 0.0, VX: 0.0, VY: 9.68e3, Mass: 568.34e24},
		{Name: "uranus", X: 2872.463e9, Y: 0.0, VX: 0.0, VY: 6.80e3, Mass: 86.813e24},
		{Name: "neptune", X: 4495.060e9, Y: 0.0, VX: 0.0, VY: 5.43e3, Mass: 102.413e24},
	}
}
