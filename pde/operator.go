package pde

import (
	"github.com/happyinfrance10/QuantLib/grid"
	"github.com/happyinfrance10/QuantLib/heston"
)

// Operator holds the three additive parts of the discrete Heston
// generator:
//
//	S    — ½vS²·u_SS + (r−q)S·u_S − ½r·u   (price direction)
//	V    — ½σ²v·u_vv + κ(θ−v)·u_v − ½r·u  (variance direction)
//	Corr — ρσvS·u_Sv                       (mixed term)
//
// The reaction term −r·u is split evenly between S and V so that each
// remains independently usable as the implicit side of a one-dimensional
// solve. The parts are never summed into one matrix: ADI stages need
// them in isolation.
type Operator struct {
	S, V *TripleBand
	Corr *CrossTerm
}

// NewHestonOperator discretizes the Heston generator on g, reading the
// process inputs once (the caller snapshots market data by rebuilding
// the operator per solve). Interior first-derivative terms use central
// or upwind differencing per convectionDiffusion's positivity criterion;
// boundary rows use one-sided first derivatives with the diffusion term
// dropped, and are overwritten by the boundary conditions after each
// implicit stage.
func NewHestonOperator(p *heston.Process, g *grid.Grid) *Operator {
	ns, nv := g.NS(), g.NV()
	r := p.RiskFree.Rate()
	q := p.Dividend.Rate()
	react := -0.5 * r

	opS := NewTripleBand(ns, nv, 1, ns)
	opV := NewTripleBand(nv, ns, ns, 1)
	corr := NewCrossTerm(ns, nv)

	for j := 0; j < nv; j++ {
		v := g.VAt(j)
		for i := 0; i < ns; i++ {
			idx := g.Index(i, j)
			s := g.SAt(i)

			// Price direction.
			bS := (r - q) * s
			switch {
			case i == 0:
				_, ce, up := firstDerivForward(g.SAt(1) - g.SAt(0))
				opS.Set(idx, 0, bS*ce+react, bS*up)
			case i == ns-1:
				lo, ce, _ := firstDerivBackward(g.SAt(ns-1) - g.SAt(ns-2))
				opS.Set(idx, bS*lo, bS*ce+react, 0)
			default:
				hm, hp := s-g.SAt(i-1), g.SAt(i+1)-s
				lo, ce, up := convectionDiffusion(0.5*v*s*s, bS, hm, hp)
				opS.Set(idx, lo, ce+react, up)
			}

			// Variance direction.
			bV := p.Kappa * (p.Theta - v)
			switch {
			case j == 0:
				_, ce, up := firstDerivForward(g.VAt(1) - g.VAt(0))
				opV.Set(idx, 0, bV*ce+react, bV*up)
			case j == nv-1:
				lo, ce, _ := firstDerivBackward(g.VAt(nv-1) - g.VAt(nv-2))
				opV.Set(idx, bV*lo, bV*ce+react, 0)
			default:
				hm, hp := v-g.VAt(j-1), g.VAt(j+1)-v
				lo, ce, up := convectionDiffusion(0.5*p.Sigma*p.Sigma*v, bV, hm, hp)
				opV.Set(idx, lo, ce+react, up)
			}

			// Correlation cross-term, interior nodes only.
			if i > 0 && i < ns-1 && j > 0 && j < nv-1 {
				sLo, sCe, sUp := firstDerivCentral(s-g.SAt(i-1), g.SAt(i+1)-s)
				vLo, vCe, vUp := firstDerivCentral(v-g.VAt(j-1), g.VAt(j+1)-v)
				corr.SetNode(i, j, p.Rho*p.Sigma*v*s, sLo, sCe, sUp, vLo, vCe, vUp)
			}
		}
	}

	return &Operator{S: opS, V: opV, Corr: corr}
}

// Apply computes dst = (S + V + Corr)·u, the full generator.
func (op *Operator) Apply(dst, u []float64) {
	op.S.Apply(dst, u)
	op.V.ApplyAdd(dst, u)
	op.Corr.ApplyAdd(dst, u)
}
