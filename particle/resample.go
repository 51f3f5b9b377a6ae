package particle

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Resampler draws len(weights) particle indices according to the given
// normalized weights. The choice of scheme changes the variance of the
// filter's estimates, not their expectation.
type Resampler interface {
	Resample(weights []float64, rnd *rand.Rand) []int
}

// Systematic implements systematic resampling: a single uniform offset
// u ~ U[0, 1/n) defines the n equally spaced points u + i/n whose
// positions in the cumulative weight function select the indices. One
// random draw per step and lower estimator variance than multinomial
// sampling, which makes it the default scheme.
type Systematic struct{}

// Resample draws n ordered indices with one uniform variate.
func (Systematic) Resample(weights []float64, rnd *rand.Rand) []int {
	n := len(weights)
	indices := make([]int, n)
	u := rnd.Float64() / float64(n)
	var cumulative float64
	j := 0
	for i := 0; i < n; i++ {
		target := u + float64(i)/float64(n)
		for j < n-1 && cumulative+weights[j] <= target {
			cumulative += weights[j]
			j++
		}
		indices[i] = j
	}
	return indices
}

// Multinomial implements naive multinomial resampling: n independent
// draws from the categorical distribution over the weights.
type Multinomial struct{}

// Resample draws n independent indices.
func (Multinomial) Resample(weights []float64, rnd *rand.Rand) []int {
	dist := distuv.NewCategorical(weights, rnd)
	indices := make([]int, len(weights))
	for i := range indices {
		indices[i] = int(dist.Rand())
	}
	return indices
}
