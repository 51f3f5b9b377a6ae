// Package smooth implements forward-filtering backward-sampling
// (FFBSi): complete state trajectories are sampled backwards through a
// previously recorded forward particle filter history, and their
// pointwise average is the smoothed signal.
package smooth

import (
	"errors"
	"math"
	"sync"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/EdwinMarteZorrilla/flirt/particle"
	"github.com/EdwinMarteZorrilla/flirt/ssm"
)

// Smoother generates m backward trajectories through a forward filter
// history. The trajectories are mutually independent and carry equal
// weight 1/m in the smoothed estimate.
type Smoother struct {
	model ssm.Model
	m     int
}

// Result holds the m sampled trajectories, indexed [trajectory][step],
// and their unweighted pointwise mean, the smoothed signal.
type Result struct {
	Trajectories [][]float64
	Mean         []float64
}

// NewSmoother creates a smoother drawing m backward trajectories over
// the given model. m must be strictly positive.
func NewSmoother(model ssm.Model, m int) (*Smoother, error) {
	if model == nil {
		return nil, errors.New("smooth: smoother requires a model")
	}
	if m <= 0 {
		return nil, errors.New("smooth: number of trajectories must be strictly positive")
	}
	return &Smoother{model: model, m: m}, nil
}

// Run samples the backward trajectories and returns them together with
// the smoothed sequence. Each trajectory is sequential internally, last
// step first, but independent of the others, so they run on separate
// goroutines over the immutable history. Every trajectory consumes its
// own sub-stream derived from seed and the trajectory index, which
// keeps the result reproducible regardless of scheduling.
func (s *Smoother) Run(hist *particle.History, seed uint64) (*Result, error) {
	if hist == nil {
		return nil, errors.New("smooth: smoother requires a forward history")
	}
	n := hist.Len()

	res := Result{
		Trajectories: make([][]float64, s.m),
		Mean:         make([]float64, n),
	}
	for j := range res.Trajectories {
		res.Trajectories[j] = make([]float64, n)
	}
	if n == 0 {
		return &res, nil
	}

	var wg sync.WaitGroup
	wg.Add(s.m)
	for j := 0; j < s.m; j++ {
		go func(j int) {
			defer wg.Done()
			rnd := rand.New(rand.NewSource(trajectorySeed(seed, j)))
			s.sampleTrajectory(hist, res.Trajectories[j], rnd)
		}(j)
	}
	wg.Wait()

	for t := 0; t < n; t++ {
		var sum float64
		for j := 0; j < s.m; j++ {
			sum += res.Trajectories[j][t]
		}
		res.Mean[t] = sum / float64(s.m)
	}
	return &res, nil
}

// sampleTrajectory fills path with one backward pass through the
// history. The final state is drawn from the last step's weighted
// population; every earlier state is drawn from the forward weights
// reweighted by the transition density towards the state already chosen
// one step ahead.
func (s *Smoother) sampleTrajectory(hist *particle.History, path []float64, rnd *rand.Rand) {
	n := hist.Len()

	last := hist.Steps[n-1].Weighted
	dist := distuv.NewCategorical(last.Weights, rnd)
	path[n-1] = last.Particles[int(dist.Rand())]

	logBackward := make([]float64, len(last.Particles))
	backward := make([]float64, len(last.Particles))
	for t := n - 2; t >= 0; t-- {
		step := hist.Steps[t].Weighted
		for i, x := range step.Particles {
			logBackward[i] = math.Log(step.Weights[i]) + s.model.LogTransitionDensity(path[t+1], x)
		}
		lse := floats.LogSumExp(logBackward)
		if math.IsInf(lse, 0) || math.IsNaN(lse) {
			// No forward particle explains the chosen successor.
			// Fall back to the forward weights alone.
			copy(backward, step.Weights)
		} else {
			for i, lw := range logBackward {
				backward[i] = math.Exp(lw - lse)
			}
		}
		dist := distuv.NewCategorical(backward, rnd)
		path[t] = step.Particles[int(dist.Rand())]
	}
}

// trajectorySeed derives independent sub-stream seeds from the run seed
// using a splitmix-style multiplicative spread.
func trajectorySeed(seed uint64, j int) uint64 {
	return seed + 0x9e3779b97f4a7c15*uint64(j+1)
}
