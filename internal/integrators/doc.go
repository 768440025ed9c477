// Package integrators advances a [body.Registry] under pairwise Newtonian
// gravity.
//
// One call to [Integrator.Advance] covers a macro-step (one simulated day by
// default) using many fixed sub-steps (10 s by default). Every sub-step is
// two-phase: the next state of every body is computed from the committed
// snapshot into the staging buffer, then the registry commits all of them at
// once.
//
// Coincident bodies make the force unbounded. With Softening set to zero
// (the default) that singularity is left alone and shows up as NaN or Inf in
// the state; [body.Registry.Validate] detects it.
package integrators
