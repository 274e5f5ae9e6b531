// Package adi integrates the discretized Heston PDE backward in time by
// alternating-direction-implicit splitting: each timestep replaces one
// 2-D implicit solve with sequential tridiagonal solves along the price
// and variance directions, with the correlation cross-term handled
// explicitly.
//
// Variants:
//
//   - Douglas — one implicit correction per dimension. First-order in
//     time and cheapest; can destabilize when the explicitly treated
//     cross-term is large (strong correlation).
//   - HundsdorferVerwer — adds a predictor/corrector pass weighted by
//     Theta (default 0.3); better stability and accuracy at roughly
//     double the per-step cost.
//   - CraigSneyd — adds an explicit correction dedicated to the
//     cross-term, weighted by Mu (default 0.5) with Theta ≥ 0.5
//     (default 0.5); the choice for large |ρ|, where undertreating the
//     mixed derivative hurts most.
//
// One Step runs the fixed stage order: explicit full application,
// implicit price-direction solve, implicit variance-direction solve,
// the per-variant correction, boundary reapplication after every
// implicit sub-stage, then step conditions and the snapshot at the new
// time. The order is never changed or interleaved.
//
// Errors:
//
//   - ErrConfiguration: TimeSteps ≤ 0, Theta outside (0, 1], Theta
//     below 0.5 for CraigSneyd, or Mu outside [0, 1] — rejected at
//     construction, before any grid work.
package adi
