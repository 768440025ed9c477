// Package dynamo holds the primitives shared by the simulation core and the
// code that observes it.
//
//   - [Snapshot]: read-only view of committed body state
//   - [Observer]: hook invoked after every completed macro-step
//   - [Report]: what a single macro-step did
//   - [SimulationError]: an error with body and step context
//
// # Thread Safety
//
// Nothing in this package synchronises. A snapshot is only valid until the
// next commit, so observers must copy what they want to keep.
package dynamo
