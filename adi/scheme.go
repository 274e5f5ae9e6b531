package adi

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/happyinfrance10/QuantLib/pde"
)

// Scheme drives one backward ADI timestep. It owns scratch vectors
// sized to the operator, so one Scheme serves one march at a time.
type Scheme struct {
	params Params
	op     *pde.Operator
	bounds pde.BoundarySet
	conds  *pde.Composite
	snap   *pde.Snapshot // optional
	dt     float64

	// scratch, one grid-sized slice each
	lu, y, y1, y2, su, vu, rhs, tmp, ctmp []float64
}

// NewScheme validates params and builds a stepper for the given
// operator, boundary set, step-condition composite, and optional
// snapshot. dt is the (positive) size of one backward step.
func NewScheme(params Params, op *pde.Operator, bounds pde.BoundarySet,
	conds *pde.Composite, snap *pde.Snapshot, dt float64) (*Scheme, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if dt <= 0 {
		return nil, fmt.Errorf("%w: dt=%v, want > 0", ErrConfiguration, dt)
	}
	n := op.S.Size()
	sc := &Scheme{params: params, op: op, bounds: bounds, conds: conds, snap: snap, dt: dt}
	for _, buf := range []*[]float64{&sc.lu, &sc.y, &sc.y1, &sc.y2,
		&sc.su, &sc.vu, &sc.rhs, &sc.tmp, &sc.ctmp} {
		*buf = make([]float64, n)
	}

	return sc, nil
}

// Step advances u by one backward step, landing on calendar time tNew.
// Stage order (fixed): explicit predictor, implicit price solve,
// boundaries, implicit variance solve, boundaries, per-kind correction
// with boundaries after each of its implicit sub-stages, step
// conditions at tNew, boundary reapplication, snapshot.
func (sc *Scheme) Step(u []float64, tNew float64) error {
	dt, th := sc.dt, sc.params.Theta

	// Explicit predictor: y = u + dt·L·u.
	sc.op.Apply(sc.lu, u)
	floats.AddScaledTo(sc.y, u, dt, sc.lu)

	// Implicit price correction: (I - θ·dt·Ls)·y1 = y - θ·dt·Ls·u.
	sc.op.S.Apply(sc.su, u)
	floats.AddScaledTo(sc.rhs, sc.y, -th*dt, sc.su)
	if err := sc.op.S.SolveShifted(sc.y1, sc.rhs, -th*dt); err != nil {
		return fmt.Errorf("price-direction stage: %w", err)
	}
	sc.bounds.Apply(sc.y1)

	// Implicit variance correction: (I - θ·dt·Lv)·y2 = y1 - θ·dt·Lv·u.
	sc.op.V.Apply(sc.vu, u)
	floats.AddScaledTo(sc.rhs, sc.y1, -th*dt, sc.vu)
	if err := sc.op.V.SolveShifted(sc.y2, sc.rhs, -th*dt); err != nil {
		return fmt.Errorf("variance-direction stage: %w", err)
	}
	sc.bounds.Apply(sc.y2)

	var err error
	switch sc.params.Kind {
	case Douglas:
		copy(u, sc.y2)
	case CraigSneyd:
		err = sc.craigSneydCorrection(u)
	case HundsdorferVerwer:
		err = sc.hundsdorferCorrection(u)
	}
	if err != nil {
		return err
	}

	sc.conds.ApplyTo(u, tNew)
	sc.bounds.Apply(u)
	if sc.snap != nil {
		sc.snap.ApplyTo(u, tNew)
	}

	return nil
}

// craigSneydCorrection re-runs both implicit sweeps after adding an
// explicit Mu-weighted cross-term correction:
//
//	ŷ = y + μ·dt·Lcorr·(y2 - u)
//	(I - θ·dt·Ls)·z1 = ŷ - θ·dt·Ls·u   ; boundaries
//	(I - θ·dt·Lv)·z2 = z1 - θ·dt·Lv·u  ; boundaries
//
// and writes z2 into u. Ls·u and Lv·u are reused from the first pass.
func (sc *Scheme) craigSneydCorrection(u []float64) error {
	dt, th, mu := sc.dt, sc.params.Theta, sc.params.Mu

	floats.SubTo(sc.tmp, sc.y2, u)
	sc.op.Corr.Apply(sc.ctmp, sc.tmp)
	floats.AddScaledTo(sc.tmp, sc.y, mu*dt, sc.ctmp) // ŷ

	floats.AddScaledTo(sc.rhs, sc.tmp, -th*dt, sc.su)
	if err := sc.op.S.SolveShifted(sc.y1, sc.rhs, -th*dt); err != nil {
		return fmt.Errorf("cross-term price stage: %w", err)
	}
	sc.bounds.Apply(sc.y1)

	floats.AddScaledTo(sc.rhs, sc.y1, -th*dt, sc.vu)
	if err := sc.op.V.SolveShifted(sc.tmp, sc.rhs, -th*dt); err != nil {
		return fmt.Errorf("cross-term variance stage: %w", err)
	}
	sc.bounds.Apply(sc.tmp)
	copy(u, sc.tmp)

	return nil
}

// hundsdorferCorrection runs the predictor/corrector pass:
//
//	ŷ = y + ½·dt·L·(y2 - u)
//	(I - θ·dt·Ls)·z1 = ŷ - θ·dt·Ls·y2   ; boundaries
//	(I - θ·dt·Lv)·z2 = z1 - θ·dt·Lv·y2  ; boundaries
//
// and writes z2 into u. The corrector solves against y2, not u, which
// is what lifts the order compared to Douglas.
func (sc *Scheme) hundsdorferCorrection(u []float64) error {
	dt, th := sc.dt, sc.params.Theta

	floats.SubTo(sc.tmp, sc.y2, u)
	sc.op.Apply(sc.ctmp, sc.tmp)
	floats.AddScaledTo(sc.tmp, sc.y, 0.5*dt, sc.ctmp) // ŷ

	sc.op.S.Apply(sc.su, sc.y2)
	floats.AddScaledTo(sc.rhs, sc.tmp, -th*dt, sc.su)
	if err := sc.op.S.SolveShifted(sc.y1, sc.rhs, -th*dt); err != nil {
		return fmt.Errorf("corrector price stage: %w", err)
	}
	sc.bounds.Apply(sc.y1)

	sc.op.V.Apply(sc.vu, sc.y2)
	floats.AddScaledTo(sc.rhs, sc.y1, -th*dt, sc.vu)
	if err := sc.op.V.SolveShifted(sc.tmp, sc.rhs, -th*dt); err != nil {
		return fmt.Errorf("corrector variance stage: %w", err)
	}
	sc.bounds.Apply(sc.tmp)
	copy(u, sc.tmp)

	return nil
}
