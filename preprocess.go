// Package flirt denoises scalar physiological sensor series. The raw
// signal is modeled as a hidden slowly drifting state observed through
// additive Gaussian noise; the state is estimated with a bootstrap
// particle filter followed by backward smoothing and returned under the
// input's original timestamps.
package flirt

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/rand"

	"github.com/EdwinMarteZorrilla/flirt/particle"
	"github.com/EdwinMarteZorrilla/flirt/signal"
	"github.com/EdwinMarteZorrilla/flirt/smooth"
	"github.com/EdwinMarteZorrilla/flirt/ssm"
)

// Preprocessor is one stage of the preprocessing pipeline: a pure
// series to series transformation.
type Preprocessor interface {
	Process(signal.TimeSeries) (signal.TimeSeries, error)
}

// ParticleFilter filters a raw sensor series with the particle
// filtering algorithm, reducing measurement noise and motion artifacts.
type ParticleFilter struct {
	cfg Config
}

// NewParticleFilter validates the configuration and constructs the
// preprocessing stage.
func NewParticleFilter(cfg Config) (*ParticleFilter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &ParticleFilter{cfg: cfg}, nil
}

// Process runs one forward filter pass followed by one backward
// smoothing pass over the series and reattaches the input timestamps to
// the smoothed values. The whole input batch must be present; the
// smoother consumes the complete forward history. An empty series
// yields an empty series.
func (pf *ParticleFilter) Process(in signal.TimeSeries) (signal.TimeSeries, error) {
	if in.Len() == 0 {
		return in, nil
	}
	// Reject malformed series even when the caller bypassed signal.New.
	if _, err := signal.New(in.Timestamps, in.Values); err != nil {
		return signal.TimeSeries{}, err
	}

	model, err := ssm.NewRandomWalk(pf.cfg.P0Variance, pf.cfg.QVariance, pf.cfg.RVariance)
	if err != nil {
		return signal.TimeSeries{}, err
	}

	opts := []particle.Option{}
	if pf.cfg.ResampleThreshold > 0 {
		opts = append(opts, particle.WithESSThreshold(pf.cfg.ResampleThreshold))
	}
	filter, err := particle.NewFilter(model, pf.cfg.NumParticles, opts...)
	if err != nil {
		return signal.TimeSeries{}, err
	}
	smoother, err := smooth.NewSmoother(model, pf.cfg.NumSmoothers)
	if err != nil {
		return signal.TimeSeries{}, err
	}

	log.WithFields(log.Fields{
		"samples":   in.Len(),
		"particles": pf.cfg.NumParticles,
		"smoothers": pf.cfg.NumSmoothers,
	}).Debug("particle filtering started")

	rnd := rand.New(rand.NewSource(pf.cfg.Seed))
	hist, err := filter.Run(in.Values, rnd)
	if err != nil {
		return signal.TimeSeries{}, fmt.Errorf("flirt: forward pass failed: %w", err)
	}
	if hist.DegenerateSteps > 0 {
		log.WithField("steps", hist.DegenerateSteps).Warn("particle weights degenerated, fell back to uniform resampling")
	}

	res, err := smoother.Run(hist, pf.cfg.Seed)
	if err != nil {
		return signal.TimeSeries{}, fmt.Errorf("flirt: backward pass failed: %w", err)
	}

	return in.WithValues(res.Mean)
}
