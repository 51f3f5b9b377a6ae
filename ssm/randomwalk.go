package ssm

import (
	"errors"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// RandomWalk struct represents the system
//
// x_{k+1} = x_k + v_k,   v_k ~ N(0, Q)
//
// y_k = x_k + e_k,       e_k ~ N(0, R)
//
// x_0 ~ N(0, P0)
//
// where P0, Q and R are variances.
type RandomWalk struct {
	// Initial state variance
	P0 float64
	// Process noise variance
	Q float64
	// Measurement noise variance
	R float64

	// Standard deviations, computed once at construction.
	sigma0 float64
	sigmaQ float64
	sigmaR float64

	// Log-density constants for the transition and measurement kernels.
	logNormQ float64
	logNormR float64
}

// NewRandomWalk creates a new random walk state space model from the
// three variances. All variances must be strictly positive.
func NewRandomWalk(p0, q, r float64) (*RandomWalk, error) {
	if p0 <= 0 || q <= 0 || r <= 0 {
		return nil, errors.New("ssm: variances must be strictly positive")
	}
	m := RandomWalk{
		P0:     p0,
		Q:      q,
		R:      r,
		sigma0: math.Sqrt(p0),
		sigmaQ: math.Sqrt(q),
		sigmaR: math.Sqrt(r),
	}
	m.logNormQ = -0.5 * math.Log(2*math.Pi*q)
	m.logNormR = -0.5 * math.Log(2*math.Pi*r)
	return &m, nil
}

// InitialParticles returns n independent draws from N(0, P0).
func (m *RandomWalk) InitialParticles(n int, rnd *rand.Rand) []float64 {
	return normalDraws(n, m.sigma0, rnd)
}

// ProcessNoise returns n independent draws from N(0, Q).
func (m *RandomWalk) ProcessNoise(n int, rnd *rand.Rand) []float64 {
	return normalDraws(n, m.sigmaQ, rnd)
}

// MeasurementNoise returns n independent draws from N(0, R). The
// filter never needs these; forward simulation of the model does.
func (m *RandomWalk) MeasurementNoise(n int, rnd *rand.Rand) []float64 {
	return normalDraws(n, m.sigmaR, rnd)
}

// Transition moves a particle one step along the random walk.
func (m *RandomWalk) Transition(x, noise float64) float64 {
	return x + noise
}

// LogMeasurementDensity evaluates log N(y; x, R). The quadratic term is
// computed directly in the log domain so large |x-y| never overflows.
func (m *RandomWalk) LogMeasurementDensity(x, y float64) float64 {
	d := y - x
	return m.logNormR - d*d/(2*m.R)
}

// LogTransitionDensity evaluates log N(xNext; xPrev, Q).
func (m *RandomWalk) LogTransitionDensity(xNext, xPrev float64) float64 {
	d := xNext - xPrev
	return m.logNormQ - d*d/(2*m.Q)
}

func normalDraws(n int, sigma float64, rnd *rand.Rand) []float64 {
	dist := distuv.Normal{Mu: 0, Sigma: sigma, Src: rnd}
	res := make([]float64, n)
	for i := range res {
		res[i] = dist.Rand()
	}
	return res
}
