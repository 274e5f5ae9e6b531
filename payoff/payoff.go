package payoff

import "math"

// Payoff maps an underlying price to the option's terminal value.
type Payoff func(s float64) float64

// Call returns the payoff max(s-strike, 0).
func Call(strike float64) Payoff {
	return func(s float64) float64 { return math.Max(s-strike, 0) }
}

// Put returns the payoff max(strike-s, 0).
func Put(strike float64) Payoff {
	return func(s float64) float64 { return math.Max(strike-s, 0) }
}
