package grid

import (
	"fmt"
	"math"

	"github.com/happyinfrance10/QuantLib/heston"
)

// Grid is the Cartesian product of a price axis and a variance axis.
// Solution vectors over the grid are flat slices of length Size(),
// laid out row-major with the price index fastest:
//
//	idx = j*NS() + i   for price node i, variance node j.
//
// A Grid is immutable once built.
type Grid struct {
	s, v []float64
}

// New composes two strictly increasing axes into a Grid.
// Returns ErrConfiguration if either axis is too short or not strictly
// increasing.
func New(s, v []float64) (*Grid, error) {
	for name, axis := range map[string][]float64{"price": s, "variance": v} {
		if len(axis) < MinNodes {
			return nil, fmt.Errorf("%w: %s axis has %d nodes, want ≥ %d",
				ErrConfiguration, name, len(axis), MinNodes)
		}
		for i := 1; i < len(axis); i++ {
			if !(axis[i] > axis[i-1]) {
				return nil, fmt.Errorf("%w: %s axis not strictly increasing at node %d",
					ErrConfiguration, name, i)
			}
		}
	}
	g := &Grid{s: append([]float64(nil), s...), v: append([]float64(nil), v...)}

	return g, nil
}

// NewHestonGrid builds a grid with literature-default spans derived from
// the process: the price axis spans spot·exp(±5σ√T) with σ² the larger
// of V0 and Theta, concentrated at the strike; the variance axis spans
// [1e-4, 5·max(V0, Theta)], concentrated at the long-run mean Theta.
// ns and nv are the node counts per axis.
func NewHestonGrid(p *heston.Process, strike, maturity float64, ns, nv int) (*Grid, error) {
	spot := p.Spot.Value()
	vTop := math.Max(p.V0, p.Theta)
	span := 5 * math.Sqrt(vTop*maturity)
	sMin, sMax := spot*math.Exp(-span), spot*math.Exp(span)
	if strike < sMin || strike > sMax {
		// Widen so the concentration point stays inside the domain.
		sMin = math.Min(sMin, 0.5*strike)
		sMax = math.Max(sMax, 2.0*strike)
	}
	s, err := NewConcentratingMesher(sMin, sMax, ns, strike, 0.1*(sMax-sMin))
	if err != nil {
		return nil, err
	}

	vMin, vMax := 1e-4, 5*vTop
	v, err := NewConcentratingMesher(vMin, vMax, nv, p.Theta, 0.5*vTop)
	if err != nil {
		return nil, err
	}

	return New(s, v)
}

// NS returns the number of price nodes.
func (g *Grid) NS() int { return len(g.s) }

// NV returns the number of variance nodes.
func (g *Grid) NV() int { return len(g.v) }

// Size returns the total node count NS·NV.
func (g *Grid) Size() int { return len(g.s) * len(g.v) }

// Index maps price node i and variance node j to the flat row-major
// index.
func (g *Grid) Index(i, j int) int { return j*len(g.s) + i }

// Coord maps a flat index back to (price node, variance node).
func (g *Grid) Coord(idx int) (i, j int) { return idx % len(g.s), idx / len(g.s) }

// SAt returns the i-th price coordinate.
func (g *Grid) SAt(i int) float64 { return g.s[i] }

// VAt returns the j-th variance coordinate.
func (g *Grid) VAt(j int) float64 { return g.v[j] }

// SNodes returns a copy of the price axis.
func (g *Grid) SNodes() []float64 { return append([]float64(nil), g.s...) }

// VNodes returns a copy of the variance axis.
func (g *Grid) VNodes() []float64 { return append([]float64(nil), g.v...) }

// Contains reports whether (s, v) lies inside the grid's convex hull
// (the closed rectangle spanned by the two axes).
func (g *Grid) Contains(s, v float64) bool {
	return s >= g.s[0] && s <= g.s[len(g.s)-1] &&
		v >= g.v[0] && v <= g.v[len(g.v)-1]
}
