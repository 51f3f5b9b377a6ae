package smooth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/EdwinMarteZorrilla/flirt/particle"
	"github.com/EdwinMarteZorrilla/flirt/ssm"
)

func forwardHistory(t *testing.T, model *ssm.RandomWalk, observations []float64, n int) *particle.History {
	t.Helper()
	filter, err := particle.NewFilter(model, n)
	require.NoError(t, err)
	hist, err := filter.Run(observations, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	return hist
}

func TestNewSmootherValidation(t *testing.T) {
	model, err := ssm.NewRandomWalk(0.02, 0.02, 0.06)
	require.NoError(t, err)

	_, err = NewSmoother(nil, 10)
	assert.Error(t, err)

	_, err = NewSmoother(model, 0)
	assert.Error(t, err)
}

func TestRunRequiresHistory(t *testing.T) {
	model, err := ssm.NewRandomWalk(0.02, 0.02, 0.06)
	require.NoError(t, err)
	smoother, err := NewSmoother(model, 10)
	require.NoError(t, err)

	_, err = smoother.Run(nil, 1)
	assert.Error(t, err)
}

func TestRunEmptyHistory(t *testing.T) {
	model, err := ssm.NewRandomWalk(0.02, 0.02, 0.06)
	require.NoError(t, err)
	smoother, err := NewSmoother(model, 10)
	require.NoError(t, err)

	res, err := smoother.Run(&particle.History{}, 1)
	require.NoError(t, err)
	assert.Empty(t, res.Mean)
}

func TestMeanIsUnweightedTrajectoryAverage(t *testing.T) {
	model, err := ssm.NewRandomWalk(0.02, 0.02, 0.06)
	require.NoError(t, err)
	hist := forwardHistory(t, model, []float64{0.1, 0.3, 0.2, 0.4, 0.35}, 60)

	const m = 24
	smoother, err := NewSmoother(model, m)
	require.NoError(t, err)
	res, err := smoother.Run(hist, 7)
	require.NoError(t, err)

	require.Len(t, res.Trajectories, m)
	require.Len(t, res.Mean, hist.Len())

	for tt := 0; tt < hist.Len(); tt++ {
		var sum float64
		for j := 0; j < m; j++ {
			sum += res.Trajectories[j][tt]
		}
		assert.InDelta(t, sum/m, res.Mean[tt], 1e-12, "step %d", tt)
	}
}

func TestTrajectoriesDrawFromForwardParticles(t *testing.T) {
	model, err := ssm.NewRandomWalk(0.02, 0.02, 0.06)
	require.NoError(t, err)
	hist := forwardHistory(t, model, []float64{0.1, 0.3, 0.2}, 30)

	smoother, err := NewSmoother(model, 8)
	require.NoError(t, err)
	res, err := smoother.Run(hist, 3)
	require.NoError(t, err)

	for j, traj := range res.Trajectories {
		for tt, v := range traj {
			found := false
			for _, p := range hist.Steps[tt].Weighted.Particles {
				if p == v {
					found = true
					break
				}
			}
			assert.True(t, found, "trajectory %d step %d value %v not a forward particle", j, tt, v)
		}
	}
}

func TestRunIsDeterministic(t *testing.T) {
	model, err := ssm.NewRandomWalk(0.02, 0.02, 0.06)
	require.NoError(t, err)
	hist := forwardHistory(t, model, []float64{0.1, -0.1, 0.2, 0.0}, 40)

	smoother, err := NewSmoother(model, 16)
	require.NoError(t, err)

	a, err := smoother.Run(hist, 11)
	require.NoError(t, err)
	b, err := smoother.Run(hist, 11)
	require.NoError(t, err)

	require.Equal(t, a.Trajectories, b.Trajectories)
	require.Equal(t, a.Mean, b.Mean)
}

func TestRunSingleStepHistory(t *testing.T) {
	model, err := ssm.NewRandomWalk(0.02, 0.02, 0.06)
	require.NoError(t, err)
	hist := forwardHistory(t, model, []float64{0.25}, 20)

	smoother, err := NewSmoother(model, 5)
	require.NoError(t, err)
	res, err := smoother.Run(hist, 2)
	require.NoError(t, err)
	require.Len(t, res.Mean, 1)
}
