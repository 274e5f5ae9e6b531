package pde

// Three-point finite-difference stencils on a nonuniform axis.
// hm = x[i]-x[i-1], hp = x[i+1]-x[i]; weights are (lower, center, upper).

// secondDeriv returns the second-derivative stencil at an interior node.
func secondDeriv(hm, hp float64) (lo, ce, up float64) {
	return 2 / (hm * (hm + hp)), -2 / (hm * hp), 2 / (hp * (hm + hp))
}

// firstDerivCentral returns the central first-derivative stencil at an
// interior node.
func firstDerivCentral(hm, hp float64) (lo, ce, up float64) {
	return -hp / (hm * (hm + hp)), (hp - hm) / (hm * hp), hm / (hp * (hm + hp))
}

// firstDerivForward returns the one-sided forward stencil, the upwind
// choice for positive convection.
func firstDerivForward(hp float64) (lo, ce, up float64) {
	return 0, -1 / hp, 1 / hp
}

// firstDerivBackward returns the one-sided backward stencil, the upwind
// choice for negative convection.
func firstDerivBackward(hm float64) (lo, ce, up float64) {
	return -1 / hm, 1 / hm, 0
}

// convectionDiffusion combines diffusion a·∂²/∂x² and convection b·∂/∂x
// into one interior stencil. Central differencing is used when it keeps
// both off-diagonal weights non-negative (so the implicit systems stay
// oscillation-free); otherwise the convection term switches to one-sided
// upwind in the direction of b.
func convectionDiffusion(a, b, hm, hp float64) (lo, ce, up float64) {
	dlo, dce, dup := secondDeriv(hm, hp)
	clo, cce, cup := firstDerivCentral(hm, hp)
	lo = a*dlo + b*clo
	ce = a*dce + b*cce
	up = a*dup + b*cup
	if lo >= 0 && up >= 0 {
		return lo, ce, up
	}

	// Convection dominates diffusion at this node.
	if b >= 0 {
		clo, cce, cup = firstDerivForward(hp)
	} else {
		clo, cce, cup = firstDerivBackward(hm)
	}

	return a*dlo + b*clo, a*dce + b*cce, a*dup + b*cup
}
