package pde_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/happyinfrance10/QuantLib/payoff"
	"github.com/happyinfrance10/QuantLib/pde"
)

// TestAmericanExercise_FloorsAtIntrinsic verifies the elementwise max
// against the intrinsic payoff, at any time.
func TestAmericanExercise_FloorsAtIntrinsic(t *testing.T) {
	g := testGrid(t)
	pay := payoff.Put(100)
	cond := pde.NewAmericanExercise(g, pay)

	u := make([]float64, g.Size())
	for idx := range u {
		u[idx] = 1 // below intrinsic deep in the money
	}
	cond.ApplyTo(u, 0.5)

	for idx := range u {
		i, _ := g.Coord(idx)
		intrinsic := pay(g.SAt(i))
		assert.GreaterOrEqual(t, u[idx], intrinsic, "node %d below intrinsic", idx)
		if intrinsic < 1 {
			assert.Equal(t, 1.0, u[idx], "continuation value above intrinsic must survive")
		}
	}
}

// TestDiscreteBarrier_FiresOnlyAtMonitoringDates verifies the
// knocked-out region is zeroed exactly at trigger times.
func TestDiscreteBarrier_FiresOnlyAtMonitoringDates(t *testing.T) {
	g := testGrid(t) // prices 50..150 step 25
	cond := pde.NewDiscreteBarrier(g, 125, pde.UpOut, []float64{0.5})

	fresh := func() []float64 {
		u := make([]float64, g.Size())
		for i := range u {
			u[i] = 3
		}

		return u
	}

	u := fresh()
	cond.ApplyTo(u, 0.25) // not a monitoring date
	for idx := range u {
		assert.Equal(t, 3.0, u[idx], "off-date application must be a no-op")
	}

	u = fresh()
	cond.ApplyTo(u, 0.5)
	for idx := range u {
		i, _ := g.Coord(idx)
		if g.SAt(i) >= 125 {
			assert.Equal(t, 0.0, u[idx], "knocked-out node must be zeroed")
		} else {
			assert.Equal(t, 3.0, u[idx], "surviving node must be untouched")
		}
	}
}

// TestDiscreteBarrier_DownOut covers the mirrored barrier kind with
// continuous (nil) monitoring.
func TestDiscreteBarrier_DownOut(t *testing.T) {
	g := testGrid(t)
	cond := pde.NewDiscreteBarrier(g, 75, pde.DownOut, nil)

	u := make([]float64, g.Size())
	for i := range u {
		u[i] = 2
	}
	cond.ApplyTo(u, 0.123) // nil times: every step monitors
	for idx := range u {
		i, _ := g.Coord(idx)
		if g.SAt(i) <= 75 {
			assert.Equal(t, 0.0, u[idx])
		} else {
			assert.Equal(t, 2.0, u[idx])
		}
	}
}

// TestComposite_EmptyIsNoOp verifies the European fast path: an empty
// composite must not alter the vector.
func TestComposite_EmptyIsNoOp(t *testing.T) {
	u := []float64{1, 2, 3, 4}
	want := append([]float64(nil), u...)
	pde.NewComposite().ApplyTo(u, 0.5)
	assert.Equal(t, want, u)
}

// TestComposite_PreservesOrder verifies conditions run in insertion
// order: flooring after zeroing differs from zeroing after flooring.
func TestComposite_PreservesOrder(t *testing.T) {
	g := testGrid(t)
	barrier := pde.NewDiscreteBarrier(g, 125, pde.UpOut, nil)
	amer := pde.NewAmericanExercise(g, payoff.Call(100))

	u1 := make([]float64, g.Size())
	pde.NewComposite(barrier, amer).ApplyTo(u1, 0.1)

	u2 := make([]float64, g.Size())
	pde.NewComposite(amer, barrier).ApplyTo(u2, 0.1)

	// barrier-then-exercise re-floors the knocked-out region; the
	// reverse leaves it at zero.
	idx := g.Index(g.NS()-1, 1) // S=150 ≥ barrier, intrinsic 50
	require.Equal(t, 50.0, u1[idx])
	require.Equal(t, 0.0, u2[idx])
}

// TestSnapshot_RecordsAtConfiguredTimeOnly verifies the extra slice is
// captured exactly once, at the configured offset.
func TestSnapshot_RecordsAtConfiguredTimeOnly(t *testing.T) {
	snap := pde.NewSnapshot(0.25)
	assert.Nil(t, snap.Values(), "nothing recorded before the march reaches the offset")

	u := []float64{1, 2, 3}
	snap.ApplyTo(u, 0.5)
	assert.Nil(t, snap.Values(), "non-matching time must not record")

	snap.ApplyTo(u, 0.25)
	require.Equal(t, []float64{1, 2, 3}, snap.Values())
	assert.Equal(t, 0.25, snap.Time())

	// The recorded slice is a copy, immune to later mutation.
	u[0] = -7
	assert.Equal(t, []float64{1, 2, 3}, snap.Values())
}
