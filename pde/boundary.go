package pde

import (
	"github.com/happyinfrance10/QuantLib/grid"
	"github.com/happyinfrance10/QuantLib/payoff"
)

// Edge names one of the four grid boundaries.
type Edge int

const (
	// LowS is the smallest-price boundary.
	LowS Edge = iota
	// HighS is the largest-price boundary.
	HighS
	// LowV is the smallest-variance boundary.
	LowV
	// HighV is the largest-variance boundary.
	HighV
)

// BoundaryCondition is a per-edge rule applied to the solution vector
// after every implicit sub-stage. Application must be idempotent: the
// rules are reapplied several times per timestep.
type BoundaryCondition interface {
	Apply(u []float64)
}

// BoundarySet applies its conditions in order.
type BoundarySet []BoundaryCondition

// Apply runs every condition in order.
func (bs BoundarySet) Apply(u []float64) {
	for _, bc := range bs {
		bc.Apply(u)
	}
}

// Dirichlet pins every node of one edge to a fixed value.
type Dirichlet struct {
	edges []int
	value float64
}

// NewDirichlet builds a Dirichlet condition for the given edge of g.
func NewDirichlet(g *grid.Grid, edge Edge, value float64) *Dirichlet {
	return &Dirichlet{edges: edgeIndices(g, edge), value: value}
}

// Apply overwrites the edge nodes with the fixed value.
func (d *Dirichlet) Apply(u []float64) {
	for _, idx := range d.edges {
		u[idx] = d.value
	}
}

// Linearity enforces zero curvature across one edge: each edge node is
// set to the linear extrapolation of its two interior neighbors, so the
// second derivative normal to the edge vanishes. Reapplication reads
// only interior values, hence idempotence.
type Linearity struct {
	edges  []int // edge node indices
	stride int   // index step toward the interior
	ratio  float64
}

// NewLinearity builds a zero-curvature condition for the given edge
// of g. Only variance edges are meaningful for the Heston problem, but
// any edge is accepted.
func NewLinearity(g *grid.Grid, edge Edge) *Linearity {
	var stride int
	var h0, h1 float64
	ns, nv := g.NS(), g.NV()
	switch edge {
	case LowS:
		stride = 1
		h0, h1 = g.SAt(1)-g.SAt(0), g.SAt(2)-g.SAt(1)
	case HighS:
		stride = -1
		h0, h1 = g.SAt(ns-1)-g.SAt(ns-2), g.SAt(ns-2)-g.SAt(ns-3)
	case LowV:
		stride = ns
		h0, h1 = g.VAt(1)-g.VAt(0), g.VAt(2)-g.VAt(1)
	case HighV:
		stride = -ns
		h0, h1 = g.VAt(nv-1)-g.VAt(nv-2), g.VAt(nv-2)-g.VAt(nv-3)
	}

	return &Linearity{edges: edgeIndices(g, edge), stride: stride, ratio: h0 / h1}
}

// Apply extrapolates each edge node from the two nodes inward:
// u_edge = u1 + (u1 - u2)·h0/h1.
func (lc *Linearity) Apply(u []float64) {
	for _, idx := range lc.edges {
		u1 := u[idx+lc.stride]
		u2 := u[idx+2*lc.stride]
		u[idx] = u1 + (u1-u2)*lc.ratio
	}
}

// DefaultBoundaries returns the literature-default set for a vanilla
// payoff: Dirichlet intrinsic values at the price extremes and zero
// curvature at both variance extremes.
func DefaultBoundaries(g *grid.Grid, pay payoff.Payoff) BoundarySet {
	return BoundarySet{
		NewDirichlet(g, LowS, pay(g.SAt(0))),
		NewDirichlet(g, HighS, pay(g.SAt(g.NS()-1))),
		NewLinearity(g, LowV),
		NewLinearity(g, HighV),
	}
}

// edgeIndices enumerates the flat indices of one edge.
func edgeIndices(g *grid.Grid, edge Edge) []int {
	ns, nv := g.NS(), g.NV()
	var idx []int
	switch edge {
	case LowS:
		for j := 0; j < nv; j++ {
			idx = append(idx, g.Index(0, j))
		}
	case HighS:
		for j := 0; j < nv; j++ {
			idx = append(idx, g.Index(ns-1, j))
		}
	case LowV:
		for i := 0; i < ns; i++ {
			idx = append(idx, g.Index(i, 0))
		}
	case HighV:
		for i := 0; i < ns; i++ {
			idx = append(idx, g.Index(i, nv-1))
		}
	}

	return idx
}
