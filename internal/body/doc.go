// Package body is the body registry: the fixed, ordered set of point masses
// taking part in the simulation and the double-buffered kinematic state the
// integrator advances.
//
// Physical attributes ([Body]) never change after construction. Position and
// velocity live in two full buffers owned by the [Registry]. During a
// sub-step the integrator reads only the committed buffer through a
// [Snapshot] and writes only the staging buffer through a [Staging]; a
// [Registry.Commit] then swaps them. A body's force calculation therefore
// never sees another body's partially updated state.
//
// # Example
//
//	reg := body.NewRegistry(body.SolarSystem(), body.DefaultDensity)
//	for _, v := range reg.Bodies() {
//	    fmt.Println(v.Name, v.Pos, v.Radius)
//	}
package body
