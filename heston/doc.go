// Package heston models the read-only market-data inputs of the
// finite-difference solver: observable quotes, flat term structures, and
// the Heston variance-process parameters.
//
// What:
//
//   - Quote: a shared, mutable market value (e.g. spot). Every mutation
//     bumps an internal version counter.
//   - FlatForward: a continuously compounded flat curve with Rate and
//     Discount(t); version-counted like Quote.
//   - Process: the full Heston parameter bundle (V0, Kappa, Theta, Sigma,
//     Rho) plus spot and discount/dividend curves, validated at
//     construction.
//
// Why:
//
//   - Several solvers may share one Quote or curve; none owns its
//     lifetime exclusively.
//   - Process.Version() aggregates the version counters of every input,
//     giving downstream caches a single invalidation token: it moves iff
//     some input mutated.
//
// Errors:
//
//   - ErrInvalidProcess: a parameter is outside its admissible range
//     (Kappa ≤ 0, Sigma ≤ 0, Theta ≤ 0, V0 < 0, |Rho| > 1).
package heston
