// Package quantlib prices options under the two-factor Heston
// stochastic-volatility model by alternating-direction-implicit (ADI)
// finite differences.
//
// 🚀 What is in the box?
//
//	A pure-Go, in-process numerical kernel that brings together:
//		• Nonuniform meshing: uniform and sinh-concentrating 1-D meshers,
//		  composed into an immutable 2-D price × variance grid
//		• Discrete operators: strided tridiagonal sub-operators plus a
//		  nine-point correlation cross-term over one flat solution vector
//		• Time stepping: Douglas, Hundsdorfer–Verwer and Craig–Sneyd
//		  ADI schemes with validated stability parameters
//		• Path dependency: American exercise and discrete barrier step
//		  conditions, applied exactly at their monitoring dates
//		• Queries: bicubic interpolation of value, delta, gamma and theta
//		  at arbitrary in-grid points, with lazy solve-on-demand
//
// ✨ Why choose it?
//
//   - Deterministic — one fixed stage order per timestep, reproducible marches
//   - Fail-fast — invalid configurations rejected at construction,
//     non-finite values abort the march instead of leaking downstream
//   - Shared market data — several solvers may watch the same quotes and
//     curves; each caches its result until an input actually moves
//
// Everything is organized under small subpackages:
//
//	heston/  — observable quotes, flat curves, Heston process parameters
//	grid/    — 1-D meshers and the 2-D solution grid
//	pde/     — discrete operators, boundary and step conditions
//	adi/     — the three ADI schemes and their tuning parameters
//	payoff/  — terminal payoff functions (call, put)
//	solver/  — backward-march driver and the value/Greek query surface
//
// Typical flow:
//
//	process → grid → solver.New(...) → ValueAt / DeltaAt / GammaAt / ThetaAt
//
//	go get github.com/happyinfrance10/QuantLib
package quantlib
