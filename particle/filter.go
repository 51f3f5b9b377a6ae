package particle

import (
	"errors"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"

	"github.com/EdwinMarteZorrilla/flirt/ssm"
)

// Filter is a bootstrap particle filter: process noise is drawn
// directly from the model prior and particles are reweighted by the
// measurement likelihood. Time steps are strictly sequential since each
// population depends on the previous step's resampled population.
type Filter struct {
	model ssm.Model
	n     int
	// resampler selects the resampling scheme, Systematic by default.
	resampler Resampler
	// essThreshold gates resampling on the effective sample size
	// falling below essThreshold * n. Zero resamples every step, which
	// reproduces the original preprocessing stage.
	essThreshold float64
}

// Option configures a Filter beyond its required parameters.
type Option func(*Filter)

// WithResampler replaces the default systematic resampling scheme.
func WithResampler(r Resampler) Option {
	return func(f *Filter) { f.resampler = r }
}

// WithESSThreshold enables adaptive resampling: the population is only
// resampled when its effective sample size drops below fraction * n.
// The fraction must lie in [0, 1); zero keeps unconditional resampling.
func WithESSThreshold(fraction float64) Option {
	return func(f *Filter) { f.essThreshold = fraction }
}

// NewFilter creates a bootstrap filter with n particles over the given
// model. n must be strictly positive.
func NewFilter(model ssm.Model, n int, opts ...Option) (*Filter, error) {
	if model == nil {
		return nil, errors.New("particle: filter requires a model")
	}
	if n <= 0 {
		return nil, errors.New("particle: number of particles must be strictly positive")
	}
	f := Filter{model: model, n: n, resampler: Systematic{}}
	for _, opt := range opts {
		opt(&f)
	}
	if f.essThreshold < 0 || f.essThreshold >= 1 {
		return nil, errors.New("particle: ESS threshold must lie in [0, 1)")
	}
	return &f, nil
}

// Run executes the forward pass over the full observation batch and
// returns the recorded history. Both the weighted and the resampled
// population of every step are recorded since the backward smoother
// needs the pair. All randomness is consumed from rnd in a fixed order,
// so a fixed seed reproduces the run exactly.
func (f *Filter) Run(observations []float64, rnd *rand.Rand) (*History, error) {
	if rnd == nil {
		return nil, errors.New("particle: filter requires a random generator")
	}

	hist := History{
		Steps:        make([]Step, 0, len(observations)),
		FilteredMean: make([]float64, 0, len(observations)),
	}

	particles := f.model.InitialParticles(f.n, rnd)
	logWeights := make([]float64, f.n)
	weights := make([]float64, f.n)
	for i := range weights {
		weights[i] = 1 / float64(f.n)
	}

	for _, y := range observations {
		// Propagate. Particles are independent given the previous
		// step; the draws stay on the single ordered stream so the
		// run is reproducible.
		noise := f.model.ProcessNoise(f.n, rnd)
		for i := range particles {
			particles[i] = f.model.Transition(particles[i], noise[i])
		}

		// Weight in the log domain and normalize with a log-sum-exp
		// shift. When a previous step skipped resampling the carried
		// weights enter as a log prior term.
		for i, x := range particles {
			logWeights[i] = math.Log(weights[i]) + f.model.LogMeasurementDensity(x, y)
		}
		if !normalizeWeights(logWeights, weights) {
			// Every raw weight underflowed. Fall back to a uniform
			// distribution for this step instead of aborting the run.
			for i := range weights {
				weights[i] = 1 / float64(f.n)
			}
			hist.DegenerateSteps++
		}

		weighted := Set{Particles: particles, Weights: weights}.clone()
		hist.FilteredMean = append(hist.FilteredMean, weighted.Mean())

		// Resample, unless the adaptive gate is enabled and the
		// population is still healthy.
		var resampled Set
		if f.essThreshold > 0 && weighted.ESS() >= f.essThreshold*float64(f.n) {
			resampled = weighted
		} else {
			next := make([]float64, f.n)
			for i, idx := range f.resampler.Resample(weights, rnd) {
				next[i] = particles[idx]
			}
			resampled = NewUniformSet(next)
		}
		hist.Steps = append(hist.Steps, Step{Weighted: weighted, Resampled: resampled})

		copy(particles, resampled.Particles)
		copy(weights, resampled.Weights)
	}

	return &hist, nil
}

// normalizeWeights turns log weights into a normalized distribution
// using a log-sum-exp reduction. It reports false when the distribution
// degenerated, leaving weights unspecified.
func normalizeWeights(logWeights, weights []float64) bool {
	lse := floats.LogSumExp(logWeights)
	if math.IsInf(lse, 0) || math.IsNaN(lse) {
		return false
	}
	for i, lw := range logWeights {
		weights[i] = math.Exp(lw - lse)
	}
	return true
}
