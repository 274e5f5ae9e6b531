// Package grid builds the nonuniform 2-D discretization (underlying
// price × variance) the finite-difference solver marches on.
//
// What:
//
//   - NewUniformMesher / NewConcentratingMesher produce strictly
//     increasing 1-D node sequences; the concentrating mesher clusters
//     nodes around a critical point via a sinh transform while keeping
//     far boundaries for boundary-condition enforcement.
//   - Grid composes one price axis and one variance axis; the solution
//     domain is their Cartesian product, laid out row-major with the
//     price index fastest.
//   - NewHestonGrid derives literature-default spans and concentration
//     points (price axis at the strike, variance axis at the long-run
//     mean) from a heston.Process.
//
// Why:
//
//   - Option values kink at the strike and the variance process lives
//     near its long-run mean; clustering nodes there buys accuracy
//     without growing the grid.
//
// Complexity:
//
//   - Mesher construction: O(n) per axis. Grid lookups: O(1).
//
// Errors:
//
//   - ErrConfiguration: node count below 3, inverted bounds, or
//     non-positive concentration density.
//
// The package has no time dependence: a Grid is immutable once built.
package grid
