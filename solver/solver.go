package solver

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/happyinfrance10/QuantLib/adi"
	"github.com/happyinfrance10/QuantLib/grid"
	"github.com/happyinfrance10/QuantLib/heston"
	"github.com/happyinfrance10/QuantLib/payoff"
	"github.com/happyinfrance10/QuantLib/pde"
)

var (
	// ErrConfiguration indicates invalid construction inputs.
	ErrConfiguration = errors.New("solver: invalid configuration")
	// ErrOutOfDomain indicates a query point outside the grid's convex
	// hull; results are interpolated, never extrapolated.
	ErrOutOfDomain = errors.New("solver: query point outside grid domain")
)

// Solver prices one instrument by the ADI backward march and serves
// value/Greek queries on the cached result. The market-data inputs are
// shared read-only collaborators; the Solver re-marches lazily whenever
// their aggregate version moves.
type Solver struct {
	process  *heston.Process
	grid     *grid.Grid
	bounds   pde.BoundarySet
	conds    *pde.Composite
	pay      payoff.Payoff
	maturity float64
	params   adi.Params

	mu          sync.RWMutex
	calculated  bool
	version     uint64
	final       *surface
	snapshot    *surface
	snapOffset  float64
	finalValues []float64
}

// New validates the configuration and returns a Solver. No grid or
// operator computation happens here; the march runs lazily on the first
// query. conds may be nil for a plain European payoff.
func New(process *heston.Process, g *grid.Grid, bounds pde.BoundarySet,
	conds *pde.Composite, pay payoff.Payoff, maturity float64,
	params adi.Params) (*Solver, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if process == nil || g == nil || pay == nil {
		return nil, fmt.Errorf("%w: nil process, grid, or payoff", ErrConfiguration)
	}
	if !(maturity > 0) {
		return nil, fmt.Errorf("%w: maturity=%v, want > 0", ErrConfiguration, maturity)
	}
	if conds == nil {
		conds = pde.NewComposite()
	}

	return &Solver{
		process:  process,
		grid:     g,
		bounds:   bounds,
		conds:    conds,
		pay:      pay,
		maturity: maturity,
		params:   params,
	}, nil
}

// ValueAt returns the option value at spot s and variance v.
// Triggers the lazy march when needed.
func (sv *Solver) ValueAt(s, v float64) (float64, error) {
	fin, _, _, err := sv.surfaces()
	if err != nil {
		return 0, err
	}
	if !sv.grid.Contains(s, v) {
		return 0, fmt.Errorf("%w: (S=%v, v=%v)", ErrOutOfDomain, s, v)
	}

	return fin.at(s, v)
}

// DeltaAt returns ∂V/∂S at (s, v) by a centered difference of the query
// point shifted by ±eps. The grid itself is never perturbed.
func (sv *Solver) DeltaAt(s, v, eps float64) (float64, error) {
	if !(eps > 0) {
		return 0, fmt.Errorf("%w: eps=%v, want > 0", ErrConfiguration, eps)
	}
	up, err := sv.ValueAt(s+eps, v)
	if err != nil {
		return 0, err
	}
	down, err := sv.ValueAt(s-eps, v)
	if err != nil {
		return 0, err
	}

	return (up - down) / (2 * eps), nil
}

// GammaAt returns ∂²V/∂S² at (s, v) by a centered second difference of
// the query point.
func (sv *Solver) GammaAt(s, v, eps float64) (float64, error) {
	if !(eps > 0) {
		return 0, fmt.Errorf("%w: eps=%v, want > 0", ErrConfiguration, eps)
	}
	up, err := sv.ValueAt(s+eps, v)
	if err != nil {
		return 0, err
	}
	mid, err := sv.ValueAt(s, v)
	if err != nil {
		return 0, err
	}
	down, err := sv.ValueAt(s-eps, v)
	if err != nil {
		return 0, err
	}

	return (up - 2*mid + down) / (eps * eps), nil
}

// ThetaAt returns the calendar-time derivative ∂V/∂t at (s, v),
// estimated from the snapshot slice recorded one timestep before the
// valuation date. Requires TimeSteps ≥ 2.
func (sv *Solver) ThetaAt(s, v float64) (float64, error) {
	fin, snap, offset, err := sv.surfaces()
	if err != nil {
		return 0, err
	}
	if !sv.grid.Contains(s, v) {
		return 0, fmt.Errorf("%w: (S=%v, v=%v)", ErrOutOfDomain, s, v)
	}
	if snap == nil {
		return 0, fmt.Errorf("%w: theta needs TimeSteps ≥ 2, got %d",
			ErrConfiguration, sv.params.TimeSteps)
	}
	before, err := snap.at(s, v)
	if err != nil {
		return 0, err
	}
	now, err := fin.at(s, v)
	if err != nil {
		return 0, err
	}

	return (before - now) / offset, nil
}

// surfaces runs the lazy march when needed and hands out the current
// result surfaces under the read lock, so a concurrent recompute cannot
// swap them mid-query.
func (sv *Solver) surfaces() (fin, snap *surface, offset float64, err error) {
	if err = sv.ensure(); err != nil {
		return nil, nil, 0, err
	}
	sv.mu.RLock()
	defer sv.mu.RUnlock()

	return sv.final, sv.snapshot, sv.snapOffset, nil
}

// Values returns a copy of the final solution slice, mainly for
// diagnostics and tests. Triggers the lazy march when needed.
func (sv *Solver) Values() ([]float64, error) {
	if err := sv.ensure(); err != nil {
		return nil, err
	}
	sv.mu.RLock()
	defer sv.mu.RUnlock()

	return append([]float64(nil), sv.finalValues...), nil
}

// ensure runs the march if the cache is empty or stale. Concurrent
// queries on a warm cache share a read lock.
func (sv *Solver) ensure() error {
	sv.mu.RLock()
	fresh := sv.calculated && sv.version == sv.process.Version()
	sv.mu.RUnlock()
	if fresh {
		return nil
	}

	sv.mu.Lock()
	defer sv.mu.Unlock()
	if sv.calculated && sv.version == sv.process.Version() {
		return nil
	}

	return sv.calculate()
}

// calculate runs one full backward march and rebuilds the caches.
// The operator snapshots the market data at build time, so a concurrent
// input mutation cannot corrupt the in-flight march; it only schedules
// the next recomputation.
func (sv *Solver) calculate() error {
	version := sv.process.Version()
	g := sv.grid
	steps := sv.params.TimeSteps
	dt := sv.maturity / float64(steps)

	// Terminal condition.
	u := make([]float64, g.Size())
	for idx := range u {
		i, _ := g.Coord(idx)
		u[idx] = sv.pay(g.SAt(i))
	}

	op := pde.NewHestonOperator(sv.process, g)
	var snap *pde.Snapshot
	if steps >= 2 {
		snap = pde.NewSnapshot(dt)
	}
	scheme, err := adi.NewScheme(sv.params, op, sv.bounds, sv.conds, snap, dt)
	if err != nil {
		return err
	}

	for k := 0; k < steps; k++ {
		tNew := sv.maturity - float64(k+1)*dt
		if k == steps-1 {
			tNew = 0
		}
		if err = scheme.Step(u, tNew); err != nil {
			return fmt.Errorf("solver: step %d (t=%v): %w", k, tNew, err)
		}
		if idx := firstNonFinite(u); idx >= 0 {
			i, j := g.Coord(idx)
			return fmt.Errorf("solver: step %d (t=%v): non-finite value at node (S=%v, v=%v): %w",
				k, tNew, g.SAt(i), g.VAt(j), pde.ErrDivergence)
		}
	}

	final, err := newSurface(g.SNodes(), g.VNodes(), u)
	if err != nil {
		return err
	}
	sv.final = final
	sv.finalValues = u
	sv.snapshot = nil
	if snap != nil && snap.Values() != nil {
		if sv.snapshot, err = newSurface(g.SNodes(), g.VNodes(), snap.Values()); err != nil {
			return err
		}
		sv.snapOffset = snap.Time()
	}
	sv.version = version
	sv.calculated = true

	return nil
}

// firstNonFinite returns the index of the first NaN or infinity in u,
// or -1.
func firstNonFinite(u []float64) int {
	for i, x := range u {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return i
		}
	}

	return -1
}
