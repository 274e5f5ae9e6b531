package heston

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidProcess indicates a Heston parameter outside its admissible
// range.
var ErrInvalidProcess = errors.New("heston: invalid process parameter")

// Process bundles the Heston model inputs:
//
//	dS = (r-q) S dt + sqrt(v) S dW1
//	dv = Kappa (Theta - v) dt + Sigma sqrt(v) dW2,  d<W1,W2> = Rho dt
//
// Spot and the two curves are shared observables; the scalar parameters
// are fixed at construction. Process is read-only for the duration of a
// solve; solvers snapshot the values they need before marching.
type Process struct {
	Spot     *Quote
	RiskFree *FlatForward
	Dividend *FlatForward

	V0    float64 // initial variance
	Kappa float64 // mean-reversion speed
	Theta float64 // long-run variance
	Sigma float64 // volatility of variance
	Rho   float64 // spot/variance correlation
}

// NewProcess validates the parameter bundle and returns a Process.
// Returns ErrInvalidProcess (with the offending parameter named) for
// Kappa ≤ 0, Theta ≤ 0, Sigma ≤ 0, V0 < 0, |Rho| > 1, or non-finite
// values.
func NewProcess(spot *Quote, riskFree, dividend *FlatForward,
	v0, kappa, theta, sigma, rho float64) (*Process, error) {
	switch {
	case spot == nil || riskFree == nil || dividend == nil:
		return nil, fmt.Errorf("%w: nil quote or curve", ErrInvalidProcess)
	case !finite(v0, kappa, theta, sigma, rho):
		return nil, fmt.Errorf("%w: non-finite parameter", ErrInvalidProcess)
	case kappa <= 0:
		return nil, fmt.Errorf("%w: Kappa=%v, want > 0", ErrInvalidProcess, kappa)
	case theta <= 0:
		return nil, fmt.Errorf("%w: Theta=%v, want > 0", ErrInvalidProcess, theta)
	case sigma <= 0:
		return nil, fmt.Errorf("%w: Sigma=%v, want > 0", ErrInvalidProcess, sigma)
	case v0 < 0:
		return nil, fmt.Errorf("%w: V0=%v, want ≥ 0", ErrInvalidProcess, v0)
	case math.Abs(rho) > 1:
		return nil, fmt.Errorf("%w: Rho=%v, want |Rho| ≤ 1", ErrInvalidProcess, rho)
	}

	return &Process{
		Spot:     spot,
		RiskFree: riskFree,
		Dividend: dividend,
		V0:       v0,
		Kappa:    kappa,
		Theta:    theta,
		Sigma:    sigma,
		Rho:      rho,
	}, nil
}

// Version aggregates the version counters of every mutable input into a
// cache-invalidation token. Each counter is spread by its own odd
// multiplier before mixing, so mutations of one input cannot alias a
// mutation of another no matter how many times it was bumped.
func (p *Process) Version() uint64 {
	const (
		spotMix     = 0x9e3779b97f4a7c15
		riskFreeMix = 0xc2b2ae3d27d4eb4f
		dividendMix = 0x165667b19e3779f9
	)

	return p.Spot.Version()*spotMix ^
		p.RiskFree.Version()*riskFreeMix ^
		p.Dividend.Version()*dividendMix
}

// finite reports whether every argument is a finite number.
func finite(xs ...float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}

	return true
}
