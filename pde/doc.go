// Package pde discretizes the Heston pricing PDE
//
//	∂u/∂t = ½vS²·u_SS + ρσvS·u_Sv + ½σ²v·u_vv
//	      + (r−q)S·u_S + κ(θ−v)·u_v − r·u
//
// into three additive sub-operators over one flat row-major solution
// vector, plus the boundary and step conditions applied between ADI
// stages.
//
// What:
//
//   - TripleBand: a tridiagonal operator along grid lines of one
//     dimension, embedded in the 2-D vector with a stride. Supports
//     Apply and SolveShifted, the implicit side of one ADI sub-stage:
//     (I + c·Op)x = rhs via independent Thomas sweeps per line.
//   - CrossTerm: the nine-point ρσvS mixed-derivative operator; always
//     applied explicitly.
//   - NewHestonOperator: assembles {S, V, Corr} on a nonuniform grid.
//     First derivatives use central differencing, switching to one-sided
//     upwind at nodes where convection would break off-diagonal
//     positivity (convection-dominated cells).
//   - BoundaryCondition / BoundarySet: per-edge Dirichlet and
//     zero-curvature (linearity) rules, idempotent, reapplied after each
//     implicit sub-stage.
//   - StepCondition / Composite: path-dependent transforms (American
//     exercise, discrete barrier) fired when the march reaches their
//     trigger times; Snapshot records an extra slice for theta.
//
// Why:
//
//	Each sub-operator is usable alone as an implicit side; the sum
//	reproduces the full generator. That decomposition — never collapsed
//	into a single matrix — is what makes ADI splitting possible.
//
// Complexity:
//
//   - Apply, SolveShifted, ApplyTo: O(N) per call, N = grid size.
//     Per-line Thomas sweeps are mutually independent and run in
//     parallel.
//
// Errors:
//
//   - ErrDivergence: a vanishing pivot during a Thomas sweep; the solve
//     aborts rather than propagate a poisoned vector.
package pde
