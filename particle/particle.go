// Package particle implements a bootstrap particle filter for scalar
// state space models. The filter propagates a weighted particle
// population one observation at a time and records the full forward
// history, which the backward smoother consumes afterwards.
package particle

import (
	"gonum.org/v1/gonum/stat"
)

// Set is one particle population: n particle values paired with n
// non-negative normalized weights. The weights always form a valid
// probability distribution.
type Set struct {
	Particles []float64
	Weights   []float64
}

// NewUniformSet wraps the given particles with uniform 1/n weights.
func NewUniformSet(particles []float64) Set {
	w := make([]float64, len(particles))
	for i := range w {
		w[i] = 1 / float64(len(particles))
	}
	return Set{Particles: particles, Weights: w}
}

// Mean returns the weighted mean of the population.
func (s Set) Mean() float64 {
	return stat.Mean(s.Particles, s.Weights)
}

// ESS returns the effective sample size 1 / sum(w_i^2), a measure of
// weight degeneracy between 1 (fully collapsed) and n (uniform).
func (s Set) ESS() float64 {
	var sum float64
	for _, w := range s.Weights {
		sum += w * w
	}
	return 1 / sum
}

// clone returns a deep copy of the set.
func (s Set) clone() Set {
	p := make([]float64, len(s.Particles))
	w := make([]float64, len(s.Weights))
	copy(p, s.Particles)
	copy(w, s.Weights)
	return Set{Particles: p, Weights: w}
}

// Step records both populations of one filter step: the measurement
// weighted population before resampling and the population after
// resampling. The smoother needs both.
type Step struct {
	Weighted  Set
	Resampled Set
}

// History is the complete forward pass of one filter run over T
// observations. It is immutable once Run returns, so the smoother's
// trajectories can read it concurrently.
type History struct {
	Steps []Step
	// FilteredMean holds the weighted particle mean of every step,
	// taken before resampling.
	FilteredMean []float64
	// DegenerateSteps counts the steps whose raw weights underflowed
	// and fell back to a uniform distribution.
	DegenerateSteps int
}

// Len returns the number of recorded steps.
func (h *History) Len() int {
	return len(h.Steps)
}
