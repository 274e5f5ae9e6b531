package pde

// CrossTerm is the nine-point discretization of the mixed derivative
// term ρσvS·∂²u/∂S∂v, built as the tensor product of the central
// first-derivative stencils of the two axes. It has no implicit use:
// every scheme applies it explicitly, so only Apply/ApplyAdd exist.
//
// Weights are stored per node for the nine offsets
// (di, dj) ∈ {-1,0,1}², indexed k = (dj+1)*3 + (di+1). Edge nodes carry
// all-zero weights; the mixed term vanishes on the boundary.
type CrossTerm struct {
	ns, nv int
	w      [9][]float64
}

// NewCrossTerm allocates a zero cross-term operator for an ns×nv grid.
func NewCrossTerm(ns, nv int) *CrossTerm {
	ct := &CrossTerm{ns: ns, nv: nv}
	for k := range ct.w {
		ct.w[k] = make([]float64, ns*nv)
	}

	return ct
}

// SetNode assigns the nine weights of the interior node (i, j) from the
// per-axis first-derivative triples and the local coefficient.
func (ct *CrossTerm) SetNode(i, j int, coeff float64, sLo, sCe, sUp, vLo, vCe, vUp float64) {
	idx := j*ct.ns + i
	sw := [3]float64{sLo, sCe, sUp}
	vw := [3]float64{vLo, vCe, vUp}
	for dj := -1; dj <= 1; dj++ {
		for di := -1; di <= 1; di++ {
			ct.w[(dj+1)*3+(di+1)][idx] = coeff * sw[di+1] * vw[dj+1]
		}
	}
}

// Apply computes dst = Op·u.
func (ct *CrossTerm) Apply(dst, u []float64) {
	for i := range dst {
		dst[i] = 0
	}
	ct.ApplyAdd(dst, u)
}

// ApplyAdd computes dst += Op·u.
func (ct *CrossTerm) ApplyAdd(dst, u []float64) {
	ns := ct.ns
	for j := 1; j < ct.nv-1; j++ {
		for i := 1; i < ns-1; i++ {
			idx := j*ns + i
			var x float64
			for dj := -1; dj <= 1; dj++ {
				row := idx + dj*ns
				x += ct.w[(dj+1)*3][idx]*u[row-1] +
					ct.w[(dj+1)*3+1][idx]*u[row] +
					ct.w[(dj+1)*3+2][idx]*u[row+1]
			}
			dst[idx] += x
		}
	}
}
