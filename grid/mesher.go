package grid

import (
	"errors"
	"fmt"
	"math"
)

// ErrConfiguration indicates an invalid mesher request: too few nodes,
// inverted bounds, or a non-positive concentration density.
var ErrConfiguration = errors.New("grid: invalid mesher configuration")

// MinNodes is the smallest node count per dimension; a three-point
// stencil needs at least one interior node.
const MinNodes = 3

// NewUniformMesher returns n equally spaced nodes on [min, max].
// Returns ErrConfiguration for n < MinNodes or min ≥ max.
func NewUniformMesher(min, max float64, n int) ([]float64, error) {
	if err := checkAxis(min, max, n); err != nil {
		return nil, err
	}
	nodes := make([]float64, n)
	h := (max - min) / float64(n-1)
	for i := range nodes {
		nodes[i] = min + float64(i)*h
	}
	nodes[n-1] = max

	return nodes, nil
}

// NewConcentratingMesher returns n nodes on [min, max] clustered around
// critical with the given density (in the units of the axis; smaller
// density means tighter clustering). The transform is
//
//	x(ξ) = critical + density·sinh(ξ)
//
// with ξ uniform between the preimages of min and max, so the node
// spacing grows roughly exponentially away from the critical point.
// Returns ErrConfiguration for n < MinNodes, min ≥ max, density ≤ 0, or
// critical outside [min, max].
func NewConcentratingMesher(min, max float64, n int, critical, density float64) ([]float64, error) {
	if err := checkAxis(min, max, n); err != nil {
		return nil, err
	}
	if density <= 0 {
		return nil, fmt.Errorf("%w: density=%v, want > 0", ErrConfiguration, density)
	}
	if critical < min || critical > max {
		return nil, fmt.Errorf("%w: critical point %v outside [%v, %v]",
			ErrConfiguration, critical, min, max)
	}

	lo := math.Asinh((min - critical) / density)
	hi := math.Asinh((max - critical) / density)
	nodes := make([]float64, n)
	dxi := (hi - lo) / float64(n-1)
	for i := range nodes {
		nodes[i] = critical + density*math.Sinh(lo+float64(i)*dxi)
	}
	// Pin the ends against sinh/asinh round-off.
	nodes[0], nodes[n-1] = min, max

	return nodes, nil
}

// checkAxis validates the shared axis preconditions.
func checkAxis(min, max float64, n int) error {
	if n < MinNodes {
		return fmt.Errorf("%w: %d nodes, want ≥ %d", ErrConfiguration, n, MinNodes)
	}
	if !(min < max) {
		return fmt.Errorf("%w: bounds [%v, %v] not increasing", ErrConfiguration, min, max)
	}

	return nil
}
