package adi

import (
	"errors"
	"fmt"
)

// ErrConfiguration indicates scheme parameters outside their documented
// stability bounds.
var ErrConfiguration = errors.New("adi: invalid scheme configuration")

// Kind selects the ADI variant. The stepping control flow is shared;
// only the coefficient arrangement differs per kind.
type Kind int

const (
	// Douglas runs one implicit correction per dimension.
	Douglas Kind = iota
	// HundsdorferVerwer adds a predictor/corrector pass.
	HundsdorferVerwer
	// CraigSneyd adds an explicit cross-term correction.
	CraigSneyd
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case Douglas:
		return "Douglas"
	case HundsdorferVerwer:
		return "Hundsdorfer-Verwer"
	case CraigSneyd:
		return "Craig-Sneyd"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Params tunes one ADI integration.
//
// Stability bounds: Theta ∈ (0, 1] weights the implicit corrections.
// Values at or below 0 make the corrections vanish or anti-diffuse,
// values above 1 over-damp. Craig-Sneyd additionally needs Theta ≥ 0.5
// or its cross-term correction pass diverges. Mu ∈ [0, 1] weights that
// correction (ignored by the other kinds). TimeSteps is the number of
// backward steps from maturity to the valuation date.
type Params struct {
	Kind      Kind
	Theta     float64
	Mu        float64
	TimeSteps int
}

// DefaultParams returns the literature defaults for kind: Theta 0.3
// for Hundsdorfer-Verwer, 0.5 for Douglas and Craig-Sneyd (both need
// the stronger damping), Mu 0.5.
func DefaultParams(kind Kind) Params {
	theta := 0.3
	if kind == Douglas || kind == CraigSneyd {
		theta = 0.5
	}

	return Params{Kind: kind, Theta: theta, Mu: 0.5, TimeSteps: 100}
}

// Validate checks the stability bounds. It runs before any grid or
// operator work, so misconfiguration surfaces at construction.
func (p Params) Validate() error {
	switch {
	case p.Kind < Douglas || p.Kind > CraigSneyd:
		return fmt.Errorf("%w: unknown scheme kind %d", ErrConfiguration, int(p.Kind))
	case p.TimeSteps <= 0:
		return fmt.Errorf("%w: TimeSteps=%d, want > 0", ErrConfiguration, p.TimeSteps)
	case !(p.Theta > 0 && p.Theta <= 1):
		return fmt.Errorf("%w: Theta=%v, want 0 < Theta ≤ 1", ErrConfiguration, p.Theta)
	case p.Kind == CraigSneyd && p.Theta < 0.5:
		return fmt.Errorf("%w: Theta=%v, Craig-Sneyd needs Theta ≥ 0.5", ErrConfiguration, p.Theta)
	case p.Mu < 0 || p.Mu > 1:
		return fmt.Errorf("%w: Mu=%v, want 0 ≤ Mu ≤ 1", ErrConfiguration, p.Mu)
	}

	return nil
}
