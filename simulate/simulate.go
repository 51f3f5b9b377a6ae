// Package simulate forward-simulates a state space model: it generates
// a latent state path together with the noisy observations the model
// would produce for it. Used for exercising the filter on data whose
// ground truth is known.
package simulate

import (
	"errors"

	"golang.org/x/exp/rand"

	"github.com/EdwinMarteZorrilla/flirt/ssm"
)

// Trace is one simulated run: the hidden state path and the matching
// observation sequence, index aligned.
type Trace struct {
	States       []float64
	Observations []float64
}

// Run simulates n steps of the model. The initial state is drawn from
// the model prior; every observation adds measurement noise with the
// model's measurement variance around the current state.
func Run(model *ssm.RandomWalk, n int, rnd *rand.Rand) (Trace, error) {
	if model == nil {
		return Trace{}, errors.New("simulate: simulation requires a model")
	}
	if n < 0 {
		return Trace{}, errors.New("simulate: number of steps must be non-negative")
	}

	tr := Trace{
		States:       make([]float64, n),
		Observations: make([]float64, n),
	}
	if n == 0 {
		return tr, nil
	}

	x := model.InitialParticles(1, rnd)[0]
	for k := 0; k < n; k++ {
		if k > 0 {
			x = model.Transition(x, model.ProcessNoise(1, rnd)[0])
		}
		tr.States[k] = x
		tr.Observations[k] = x + model.MeasurementNoise(1, rnd)[0]
	}
	return tr, nil
}
