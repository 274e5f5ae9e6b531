package solver_test

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/happyinfrance10/QuantLib/adi"
	"github.com/happyinfrance10/QuantLib/grid"
	"github.com/happyinfrance10/QuantLib/heston"
	"github.com/happyinfrance10/QuantLib/payoff"
	"github.com/happyinfrance10/QuantLib/pde"
	"github.com/happyinfrance10/QuantLib/solver"
)

// blackScholes prices a European call (phi=+1) or put (phi=-1) under a
// flat volatility, the σ_v → 0 limit of the Heston model.
func blackScholes(phi, s, k, r, q, vol, t float64) float64 {
	d1 := (math.Log(s/k) + (r-q+0.5*vol*vol)*t) / (vol * math.Sqrt(t))
	d2 := d1 - vol*math.Sqrt(t)
	n := distuv.UnitNormal

	return phi * (s*math.Exp(-q*t)*n.CDF(phi*d1) - k*math.Exp(-r*t)*n.CDF(phi*d2))
}

// newProcess builds a Heston process with fresh quotes and curves.
func newProcess(t *testing.T, spot, r, q, v0, kappa, theta, sigma, rho float64) *heston.Process {
	t.Helper()
	p, err := heston.NewProcess(heston.NewQuote(spot),
		heston.NewFlatForward(r), heston.NewFlatForward(q),
		v0, kappa, theta, sigma, rho)
	require.NoError(t, err)

	return p
}

// newSolver wires a solver for the given payoff on a fresh default grid.
func newSolver(t *testing.T, p *heston.Process, g *grid.Grid, pay payoff.Payoff,
	conds *pde.Composite, maturity float64, params adi.Params) *solver.Solver {
	t.Helper()
	s, err := solver.New(p, g, pde.DefaultBoundaries(g, pay), conds, pay, maturity, params)
	require.NoError(t, err)

	return s
}

// TestEuropeanCall_ConvergesToBlackScholes checks the σ_v → 0 limit:
// with vanishing volatility of variance and v0 = θ, the Heston price
// must match the flat-volatility closed form within discretization
// tolerance.
func TestEuropeanCall_ConvergesToBlackScholes(t *testing.T) {
	const (
		spot, strike = 100.0, 100.0
		r, q         = 0.05, 0.0
		v0           = 0.04
		maturity     = 1.0
	)
	p := newProcess(t, spot, r, q, v0, 1.5, v0, 0.001, 0.0)
	g, err := grid.NewHestonGrid(p, strike, maturity, 120, 60)
	require.NoError(t, err)

	params := adi.DefaultParams(adi.HundsdorferVerwer)
	params.TimeSteps = 60
	s := newSolver(t, p, g, payoff.Call(strike), nil, maturity, params)

	got, err := s.ValueAt(spot, v0)
	require.NoError(t, err)
	want := blackScholes(1, spot, strike, r, q, math.Sqrt(v0), maturity)
	assert.InEpsilon(t, want, got, 1e-2,
		"finite-difference price %v vs closed form %v", got, want)
}

// TestPutCallParity_ATM checks C - P = S·e^{-qT} - K·e^{-rT} on
// interpolated at-the-money values for a genuinely stochastic variance.
func TestPutCallParity_ATM(t *testing.T) {
	const (
		spot, strike = 100.0, 100.0
		r, q         = 0.05, 0.02
		maturity     = 1.0
	)
	p := newProcess(t, spot, r, q, 0.04, 1.5, 0.05, 0.3, -0.5)
	g, err := grid.NewHestonGrid(p, strike, maturity, 100, 50)
	require.NoError(t, err)

	params := adi.DefaultParams(adi.HundsdorferVerwer)
	params.TimeSteps = 50

	call := newSolver(t, p, g, payoff.Call(strike), nil, maturity, params)
	put := newSolver(t, p, g, payoff.Put(strike), nil, maturity, params)

	c, err := call.ValueAt(spot, p.V0)
	require.NoError(t, err)
	pv, err := put.ValueAt(spot, p.V0)
	require.NoError(t, err)

	want := spot*math.Exp(-q*maturity) - strike*math.Exp(-r*maturity)
	assert.InDelta(t, want, c-pv, 0.05, "parity violated: C=%v P=%v", c, pv)
}

// TestAmericanPut_DominatesEuropean checks the early-exercise premium:
// on an identical grid and timestep count the American price is ≥ the
// European price at every tested query point.
func TestAmericanPut_DominatesEuropean(t *testing.T) {
	const (
		spot, strike = 100.0, 100.0
		maturity     = 1.0
	)
	p := newProcess(t, spot, 0.05, 0.0, 0.04, 1.5, 0.04, 0.3, -0.5)
	g, err := grid.NewHestonGrid(p, strike, maturity, 80, 40)
	require.NoError(t, err)

	params := adi.DefaultParams(adi.HundsdorferVerwer)
	params.TimeSteps = 40
	pay := payoff.Put(strike)

	euro := newSolver(t, p, g, pay, nil, maturity, params)
	amer := newSolver(t, p, g, pay,
		pde.NewComposite(pde.NewAmericanExercise(g, pay)), maturity, params)

	for _, s := range []float64{70, 85, 100, 115, 130} {
		for _, v := range []float64{0.02, 0.04, 0.09} {
			e, err := euro.ValueAt(s, v)
			require.NoError(t, err)
			a, err := amer.ValueAt(s, v)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, a+1e-6, e, "at (S=%v, v=%v)", s, v)
		}
	}
}

// TestRefinement_ReducesError checks that jointly refining the grid and
// the timestep count shrinks the error against the closed-form
// benchmark.
func TestRefinement_ReducesError(t *testing.T) {
	const (
		spot, strike = 100.0, 100.0
		r            = 0.05
		v0           = 0.04
		maturity     = 1.0
	)
	want := blackScholes(1, spot, strike, r, 0, math.Sqrt(v0), maturity)

	errAt := func(ns, nv, steps int) float64 {
		p := newProcess(t, spot, r, 0, v0, 1.5, v0, 0.001, 0.0)
		g, err := grid.NewHestonGrid(p, strike, maturity, ns, nv)
		require.NoError(t, err)
		params := adi.DefaultParams(adi.HundsdorferVerwer)
		params.TimeSteps = steps
		s := newSolver(t, p, g, payoff.Call(strike), nil, maturity, params)
		got, err := s.ValueAt(spot, v0)
		require.NoError(t, err)

		return math.Abs(got - want)
	}

	coarse := errAt(30, 15, 15)
	fine := errAt(90, 45, 45)
	assert.Less(t, fine, coarse, "refinement must reduce the benchmark error")
}

// TestSchemes_AgreeOnSmoothPayoff runs the three variants on an
// identical grid and timestep count; as consistent discretizations of
// one PDE they must agree within a bounded tolerance.
func TestSchemes_AgreeOnSmoothPayoff(t *testing.T) {
	const (
		spot, strike = 100.0, 100.0
		maturity     = 1.0
	)
	p := newProcess(t, spot, 0.05, 0.0, 0.04, 1.5, 0.05, 0.3, -0.5)
	g, err := grid.NewHestonGrid(p, strike, maturity, 100, 50)
	require.NoError(t, err)

	price := func(kind adi.Kind) float64 {
		params := adi.DefaultParams(kind)
		params.TimeSteps = 50
		s := newSolver(t, p, g, payoff.Call(strike), nil, maturity, params)
		got, err := s.ValueAt(spot, p.V0)
		require.NoError(t, err)

		return got
	}

	douglas := price(adi.Douglas)
	hv := price(adi.HundsdorferVerwer)
	cs := price(adi.CraigSneyd)

	assert.InDelta(t, hv, douglas, 0.05, "Douglas vs Hundsdorfer-Verwer")
	assert.InDelta(t, hv, cs, 0.05, "Craig-Sneyd vs Hundsdorfer-Verwer")
	assert.Greater(t, hv, 5.0, "sanity: ATM one-year call is worth several units")
	assert.Less(t, hv, 25.0)
}

// TestBarrier_KnocksValueOut checks an up-and-out call is worth less
// than its vanilla twin and nearly nothing close to the barrier.
func TestBarrier_KnocksValueOut(t *testing.T) {
	const (
		spot, strike, barrier = 100.0, 100.0, 140.0
		maturity              = 1.0
	)
	p := newProcess(t, spot, 0.05, 0.0, 0.04, 1.5, 0.04, 0.3, -0.5)
	g, err := grid.NewHestonGrid(p, strike, maturity, 100, 50)
	require.NoError(t, err)

	params := adi.DefaultParams(adi.HundsdorferVerwer)
	params.TimeSteps = 50
	pay := payoff.Call(strike)

	vanilla := newSolver(t, p, g, pay, nil, maturity, params)
	knocked := newSolver(t, p, g, pay,
		pde.NewComposite(pde.NewDiscreteBarrier(g, barrier, pde.UpOut, nil)),
		maturity, params)

	v, err := vanilla.ValueAt(spot, p.V0)
	require.NoError(t, err)
	k, err := knocked.ValueAt(spot, p.V0)
	require.NoError(t, err)

	assert.Less(t, k, v, "barrier must destroy value")
	assert.Greater(t, k, 0.0, "but not all of it at the spot")

	nearBarrier, err := knocked.ValueAt(138, p.V0)
	require.NoError(t, err)
	assert.Less(t, nearBarrier, 0.2*v, "value must die off approaching the barrier")
}

// TestGreeks_SignsAndMagnitudes sanity-checks delta, gamma and theta of
// an at-the-money call.
func TestGreeks_SignsAndMagnitudes(t *testing.T) {
	const (
		spot, strike = 100.0, 100.0
		maturity     = 1.0
		eps          = 0.5
	)
	p := newProcess(t, spot, 0.05, 0.0, 0.04, 1.5, 0.04, 0.001, 0.0)
	g, err := grid.NewHestonGrid(p, strike, maturity, 120, 60)
	require.NoError(t, err)
	params := adi.DefaultParams(adi.HundsdorferVerwer)
	params.TimeSteps = 60
	s := newSolver(t, p, g, payoff.Call(strike), nil, maturity, params)

	delta, err := s.DeltaAt(spot, p.V0, eps)
	require.NoError(t, err)
	vol := math.Sqrt(p.V0)
	d1 := (math.Log(spot/strike) + (0.05+0.5*vol*vol)*maturity) / (vol * math.Sqrt(maturity))
	assert.InDelta(t, distuv.UnitNormal.CDF(d1), delta, 0.03, "delta vs closed form")

	gamma, err := s.GammaAt(spot, p.V0, eps)
	require.NoError(t, err)
	assert.Greater(t, gamma, 0.0, "long option gamma is positive")
	assert.Less(t, gamma, 0.1)

	theta, err := s.ThetaAt(spot, p.V0)
	require.NoError(t, err)
	assert.Less(t, theta, 0.0, "at-the-money call decays with time")
}

// TestQuery_OutOfDomainRejected verifies points outside the hull raise
// ErrOutOfDomain instead of extrapolating.
func TestQuery_OutOfDomainRejected(t *testing.T) {
	p := newProcess(t, 100, 0.05, 0.0, 0.04, 1.5, 0.04, 0.3, -0.5)
	g, err := grid.NewHestonGrid(p, 100, 1.0, 40, 20)
	require.NoError(t, err)
	params := adi.DefaultParams(adi.Douglas)
	params.TimeSteps = 10
	s := newSolver(t, p, g, payoff.Call(100), nil, 1.0, params)

	_, err = s.ValueAt(1e7, 0.04)
	assert.ErrorIs(t, err, solver.ErrOutOfDomain)
	_, err = s.ValueAt(100, -0.5)
	assert.ErrorIs(t, err, solver.ErrOutOfDomain)
	_, err = s.ThetaAt(1e7, 0.04)
	assert.ErrorIs(t, err, solver.ErrOutOfDomain)
}

// TestNew_ConfigurationRejectedBeforeSolve verifies invalid timestep
// counts and tuning weights fail at construction.
func TestNew_ConfigurationRejectedBeforeSolve(t *testing.T) {
	p := newProcess(t, 100, 0.05, 0.0, 0.04, 1.5, 0.04, 0.3, -0.5)
	g, err := grid.NewHestonGrid(p, 100, 1.0, 40, 20)
	require.NoError(t, err)
	pay := payoff.Call(100)
	bounds := pde.DefaultBoundaries(g, pay)

	bad := adi.DefaultParams(adi.Douglas)
	bad.TimeSteps = 0
	_, err = solver.New(p, g, bounds, nil, pay, 1.0, bad)
	assert.ErrorIs(t, err, adi.ErrConfiguration, "zero timesteps")

	bad = adi.DefaultParams(adi.Douglas)
	bad.Theta = 1.5
	_, err = solver.New(p, g, bounds, nil, pay, 1.0, bad)
	assert.ErrorIs(t, err, adi.ErrConfiguration, "theta outside stability bound")

	good := adi.DefaultParams(adi.Douglas)
	_, err = solver.New(p, g, bounds, nil, pay, -1.0, good)
	assert.ErrorIs(t, err, solver.ErrConfiguration, "negative maturity")

	_, err = solver.New(nil, g, bounds, nil, pay, 1.0, good)
	assert.ErrorIs(t, err, solver.ErrConfiguration, "nil process")
}

// TestLazyRecompute_OnMarketDataChange verifies the cache is reused
// while inputs are quiet and invalidated exactly when one mutates.
func TestLazyRecompute_OnMarketDataChange(t *testing.T) {
	riskFree := heston.NewFlatForward(0.05)
	p, err := heston.NewProcess(heston.NewQuote(100), riskFree,
		heston.NewFlatForward(0.0), 0.04, 1.5, 0.04, 0.3, -0.5)
	require.NoError(t, err)
	g, err := grid.NewHestonGrid(p, 100, 1.0, 60, 30)
	require.NoError(t, err)
	params := adi.DefaultParams(adi.HundsdorferVerwer)
	params.TimeSteps = 30
	s := newSolver(t, p, g, payoff.Call(100), nil, 1.0, params)

	first, err := s.ValueAt(100, 0.04)
	require.NoError(t, err)
	again, err := s.ValueAt(100, 0.04)
	require.NoError(t, err)
	assert.Equal(t, first, again, "quiet inputs must reuse the cached march")

	riskFree.SetRate(0.10)
	bumped, err := s.ValueAt(100, 0.04)
	require.NoError(t, err)
	assert.Greater(t, bumped, first, "higher rate must raise the call price after recompute")
}

// TestQueries_ConcurrentOnWarmCache exercises the read-only query path
// from many goroutines.
func TestQueries_ConcurrentOnWarmCache(t *testing.T) {
	p := newProcess(t, 100, 0.05, 0.0, 0.04, 1.5, 0.04, 0.3, -0.5)
	g, err := grid.NewHestonGrid(p, 100, 1.0, 60, 30)
	require.NoError(t, err)
	params := adi.DefaultParams(adi.Douglas)
	params.TimeSteps = 20
	s := newSolver(t, p, g, payoff.Call(100), nil, 1.0, params)

	want, err := s.ValueAt(100, 0.04)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for w := 0; w < 16; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := s.ValueAt(100, 0.04)
			assert.NoError(t, err)
			assert.Equal(t, want, got)
		}()
	}
	wg.Wait()
}
