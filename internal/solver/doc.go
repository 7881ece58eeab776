// Package solver integrates the 2D incompressible Navier-Stokes equations
// in vorticity form on the periodic unit square.
//
// The discretization is pseudo-spectral: derivatives are evaluated in
// frequency space, the nonlinear advection term is formed pointwise in
// physical space and dealiased with the 2/3 rule, viscosity is treated
// with a Crank-Nicolson half-step and advection and forcing explicitly.
// Velocity is recovered from the stream function, so recorded velocity
// fields are divergence-free to machine precision.
//
// # Batching
//
// [Solver.Run] advances a whole batch of initial vorticity fields in
// lockstep and records snapshots at a fixed step interval:
//
//	traj, err := solver.New().Run(w0, field.Batch{forcing}, solver.Params{
//	    Viscosity: 1e-3,
//	    T:         10,
//	    Snapshots: 50,
//	})
//
// Batch elements are independent and are stepped in parallel across CPUs.
package solver
