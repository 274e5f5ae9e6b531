package heston

import (
	"math"
	"sync"
)

// Quote is a shared observable market value. It is safe for concurrent
// use; every SetValue bumps the version counter read by Version.
type Quote struct {
	mu      sync.RWMutex
	value   float64
	version uint64
}

// NewQuote returns a Quote initialized to value, at version 0.
func NewQuote(value float64) *Quote {
	return &Quote{value: value}
}

// Value returns the current quoted value.
func (q *Quote) Value() float64 {
	q.mu.RLock()
	defer q.mu.RUnlock()

	return q.value
}

// SetValue replaces the quoted value and bumps the version counter.
func (q *Quote) SetValue(value float64) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.value = value
	q.version++
}

// Version returns the mutation counter. Two equal reads bracket an
// unchanged value.
func (q *Quote) Version() uint64 {
	q.mu.RLock()
	defer q.mu.RUnlock()

	return q.version
}

// FlatForward is a flat continuously compounded term structure.
// Like Quote, it is shared, mutable, and version-counted.
type FlatForward struct {
	mu      sync.RWMutex
	rate    float64
	version uint64
}

// NewFlatForward returns a flat curve at the given continuously
// compounded rate.
func NewFlatForward(rate float64) *FlatForward {
	return &FlatForward{rate: rate}
}

// Rate returns the flat continuously compounded rate.
func (f *FlatForward) Rate() float64 {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.rate
}

// Discount returns the discount factor exp(-rate*t) for a year
// fraction t.
func (f *FlatForward) Discount(t float64) float64 {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return math.Exp(-f.rate * t)
}

// SetRate replaces the flat rate and bumps the version counter.
func (f *FlatForward) SetRate(rate float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rate = rate
	f.version++
}

// Version returns the mutation counter.
func (f *FlatForward) Version() uint64 {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.version
}
