package pde

import (
	"math"

	"github.com/happyinfrance10/QuantLib/grid"
	"github.com/happyinfrance10/QuantLib/payoff"
)

// timeTol is the absolute tolerance for matching a march time against a
// trigger timestamp.
const timeTol = 1e-8

// StepCondition is a path-dependent transform of the solution vector,
// fired when the march reaches one of its trigger times. Conditions run
// immediately after the scheme's implicit stages for a date, before the
// boundary conditions are reapplied.
type StepCondition interface {
	ApplyTo(u []float64, t float64)
}

// matches reports whether t hits one of the trigger times; a nil slice
// means every timestep triggers.
func matches(times []float64, t float64) bool {
	if times == nil {
		return true
	}
	for _, trig := range times {
		if math.Abs(trig-t) < timeTol {
			return true
		}
	}

	return false
}

// Composite applies an ordered list of step conditions. An empty
// Composite is a strict no-op, leaving European marches untouched.
type Composite struct {
	conditions []StepCondition
}

// NewComposite builds a Composite preserving the given order.
func NewComposite(conditions ...StepCondition) *Composite {
	return &Composite{conditions: conditions}
}

// ApplyTo runs every condition in order.
func (c *Composite) ApplyTo(u []float64, t float64) {
	for _, sc := range c.conditions {
		sc.ApplyTo(u, t)
	}
}

// AmericanExercise floors the solution at the intrinsic payoff,
// elementwise, at every timestep.
type AmericanExercise struct {
	intrinsic []float64
}

// NewAmericanExercise precomputes the intrinsic payoff at every node
// of g.
func NewAmericanExercise(g *grid.Grid, pay payoff.Payoff) *AmericanExercise {
	intrinsic := make([]float64, g.Size())
	for idx := range intrinsic {
		i, _ := g.Coord(idx)
		intrinsic[idx] = pay(g.SAt(i))
	}

	return &AmericanExercise{intrinsic: intrinsic}
}

// ApplyTo sets u = max(u, intrinsic) elementwise. The exercise right
// exists at every monitoring date, so t is ignored.
func (a *AmericanExercise) ApplyTo(u []float64, _ float64) {
	for idx, v := range a.intrinsic {
		if u[idx] < v {
			u[idx] = v
		}
	}
}

// BarrierKind selects which side of the barrier knocks out.
type BarrierKind int

const (
	// UpOut knocks out nodes with price at or above the barrier.
	UpOut BarrierKind = iota
	// DownOut knocks out nodes with price at or below the barrier.
	DownOut
)

// DiscreteBarrier zeroes the knocked-out region at its monitoring
// dates. A nil times slice monitors every timestep (the continuous
// limit).
type DiscreteBarrier struct {
	knocked []int
	times   []float64
}

// NewDiscreteBarrier precomputes the knocked-out node set of g for the
// given barrier level and kind.
func NewDiscreteBarrier(g *grid.Grid, barrier float64, kind BarrierKind, times []float64) *DiscreteBarrier {
	var knocked []int
	for idx := 0; idx < g.Size(); idx++ {
		i, _ := g.Coord(idx)
		s := g.SAt(i)
		if (kind == UpOut && s >= barrier) || (kind == DownOut && s <= barrier) {
			knocked = append(knocked, idx)
		}
	}

	return &DiscreteBarrier{knocked: knocked, times: times}
}

// ApplyTo zeroes the knocked-out nodes when t is a monitoring date.
func (b *DiscreteBarrier) ApplyTo(u []float64, t float64) {
	if !matches(b.times, t) {
		return
	}
	for _, idx := range b.knocked {
		u[idx] = 0
	}
}

// Snapshot records a copy of the solution when the march reaches its
// configured time. The extra slice feeds the theta estimate: the query
// layer divides the difference between the snapshot and final surfaces
// by the snapshot time.
type Snapshot struct {
	time   float64
	values []float64
}

// NewSnapshot configures a snapshot at time t (a year fraction before
// the valuation date; it must coincide with a march time to fire).
func NewSnapshot(t float64) *Snapshot {
	return &Snapshot{time: t}
}

// ApplyTo records u when t matches the configured time.
func (s *Snapshot) ApplyTo(u []float64, t float64) {
	if math.Abs(t-s.time) >= timeTol {
		return
	}
	if s.values == nil {
		s.values = make([]float64, len(u))
	}
	copy(s.values, u)
}

// Time returns the configured snapshot time.
func (s *Snapshot) Time() float64 { return s.time }

// Values returns the recorded slice, or nil if the march never reached
// the snapshot time.
func (s *Snapshot) Values() []float64 { return s.values }
