package flirt

import (
	"errors"
	"fmt"
)

// Config contains all parameters of the particle filtering stage.
type Config struct {
	// Number of filtering particles. More particles give a more
	// accurate result at the expense of computing time.
	NumParticles int
	// Number of backward trajectories generated by the smoother.
	NumSmoothers int
	// Initial state variance
	P0Variance float64
	// Process noise variance
	QVariance float64
	// Measurement noise variance. Increasing the variances leads to
	// more degenerate particle populations, which might diverge.
	RVariance float64
	// Seed of the random stream. Runs with equal seed, configuration
	// and input produce identical output.
	Seed uint64
	// ResampleThreshold optionally gates resampling on the effective
	// sample size dropping below this fraction of NumParticles. Zero
	// resamples unconditionally at every step.
	ResampleThreshold float64
}

// DefaultConfig returns the stage defaults.
func DefaultConfig() Config {
	return Config{
		NumParticles: 80,
		NumSmoothers: 40,
		P0Variance:   0.02,
		QVariance:    0.02,
		RVariance:    0.06,
		Seed:         1,
	}
}

// Validate checks the configuration before any sampling begins.
func (c Config) Validate() error {
	if c.NumParticles <= 0 {
		return fmt.Errorf("flirt: number of particles must be strictly positive, got %d", c.NumParticles)
	}
	if c.NumSmoothers <= 0 {
		return fmt.Errorf("flirt: number of smoothing trajectories must be strictly positive, got %d", c.NumSmoothers)
	}
	if c.P0Variance <= 0 || c.QVariance <= 0 || c.RVariance <= 0 {
		return errors.New("flirt: variances must be strictly positive")
	}
	if c.ResampleThreshold < 0 || c.ResampleThreshold >= 1 {
		return errors.New("flirt: resample threshold must lie in [0, 1)")
	}
	return nil
}
