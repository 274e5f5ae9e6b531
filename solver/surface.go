package solver

import (
	"fmt"

	"gonum.org/v1/gonum/interp"
)

// surface interpolates a grid-sampled slice bicubically: one natural
// cubic spline per variance row over the price axis, fitted once, and a
// spline across rows fitted per query. Evaluation is read-only and safe
// for concurrent use.
type surface struct {
	sNodes, vNodes []float64
	rows           []*interp.NaturalCubic
}

// newSurface fits the per-row splines over vals (row-major, price
// fastest).
func newSurface(sNodes, vNodes, vals []float64) (*surface, error) {
	ns := len(sNodes)
	rows := make([]*interp.NaturalCubic, len(vNodes))
	for j := range rows {
		rows[j] = new(interp.NaturalCubic)
		if err := rows[j].Fit(sNodes, vals[j*ns:(j+1)*ns]); err != nil {
			return nil, fmt.Errorf("solver: fitting row %d: %w", j, err)
		}
	}

	return &surface{sNodes: sNodes, vNodes: vNodes, rows: rows}, nil
}

// at evaluates the surface at an in-hull point.
func (sf *surface) at(s, v float64) (float64, error) {
	col := make([]float64, len(sf.vNodes))
	for j, row := range sf.rows {
		col[j] = row.Predict(s)
	}
	var across interp.NaturalCubic
	if err := across.Fit(sf.vNodes, col); err != nil {
		return 0, fmt.Errorf("solver: fitting variance column: %w", err)
	}

	return across.Predict(v), nil
}
