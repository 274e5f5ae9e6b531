package pde

// Exports for white-box stencil tests.
var (
	SecondDeriv         = secondDeriv
	FirstDerivCentral   = firstDerivCentral
	ConvectionDiffusion = convectionDiffusion
)
