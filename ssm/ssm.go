// Package ssm describes the scalar state space models used by the
// particle filter. A model has two parts:
//
// 1) A transition kernel x_{k+1} = f(x_k, v_k) with process noise v_k,
// together with the prior the initial particle population is drawn from.
//
// 2) The measurement and transition log-densities required for weighting
// particles and for backward smoothing.
package ssm

import (
	"golang.org/x/exp/rand"
)

// Model is the interface a state space model must satisfy to be usable
// by the forward particle filter and the backward smoother. All
// operations are pure given the model parameters; random draws consume
// the supplied generator only.
type Model interface {
	// InitialParticles returns n independent draws from the prior.
	InitialParticles(n int, rnd *rand.Rand) []float64
	// ProcessNoise returns n independent process noise draws, one per
	// particle per time step.
	ProcessNoise(n int, rnd *rand.Rand) []float64
	// Transition moves one particle a single step forward.
	Transition(x, noise float64) float64
	// LogMeasurementDensity evaluates log p(y | x).
	LogMeasurementDensity(x, y float64) float64
	// LogTransitionDensity evaluates log p(xNext | xPrev).
	LogTransitionDensity(xNext, xPrev float64) float64
}
