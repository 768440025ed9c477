// Package viz draws the simulation in a terminal.
//
// The package sits outside the simulation core. It reads body positions and
// radii, maps them through a [Projection] onto a Braille [Canvas] and drives
// one macro-step per frame from a Bubble Tea program ([Model]).
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reset to initial conditions
//	T     - Toggle orbit trails
//	C     - Cycle color themes
//	+/-   - Zoom in/out
//	?     - Show help overlay
//	Q     - Quit
package viz
