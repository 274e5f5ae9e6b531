// Package solver orchestrates the full backward finite-difference march
// for a Heston-model option and answers value/Greek queries on the
// result.
//
// What:
//
//   - New wires a heston.Process, a grid, boundary conditions, step
//     conditions, a terminal payoff and adi.Params into a Solver.
//     Parameter validation happens here, before any grid computation.
//   - The march is lazy: the first query (or the first query after any
//     market-data input mutates) seeds the solution with the terminal
//     payoff, snapshots the market data, and steps backward from
//     maturity to the valuation date exactly TimeSteps times. The final
//     and snapshot slices are cached until the next invalidation, keyed
//     on Process.Version().
//   - Queries interpolate a bicubic surface (natural cubic splines per
//     variance row, then across rows): ValueAt, DeltaAt, GammaAt
//     (centered differences of the perturbed query point, never of the
//     grid), and ThetaAt (snapshot-vs-final difference quotient).
//
// Concurrency:
//
//	The march itself is single-threaded and deterministic. Completed
//	results are read-only; queries are freely concurrent and share the
//	cache under a read lock.
//
// Errors:
//
//   - ErrConfiguration: nil collaborators, non-positive maturity or
//     eps, or adi.ErrConfiguration bubbled up from parameter checks.
//   - pde.ErrDivergence (wrapped): a non-finite value after a stage,
//     with the step index and time named; the march aborts rather than
//     clamp.
//   - ErrOutOfDomain: query point outside the grid's convex hull; the
//     surface never extrapolates.
package solver
