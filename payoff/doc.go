// Package payoff defines terminal payoff functions of the underlying
// price, used to seed the backward march and to anchor the Dirichlet
// boundary values.
package payoff
