// Package signal holds the scalar time series abstraction shared by the
// preprocessing stages. A series is a value sequence paired index for
// index with a timestamp sequence, the Go shape of the raw sensor data
// the surrounding pipeline hands in.
package signal

import (
	"errors"
	"fmt"
	"math"
)

// TimeSeries is an ordered sequence of real valued samples together
// with their timestamps in seconds. Timestamps and Values always have
// equal length and timestamps increase strictly.
type TimeSeries struct {
	Timestamps []float64
	Values     []float64
}

// New validates the raw sequences and wraps them into a TimeSeries.
// The two slices must have equal length, every value must be finite and
// the timestamps must be strictly increasing. Empty sequences are
// allowed and produce an empty series.
func New(timestamps, values []float64) (TimeSeries, error) {
	if len(timestamps) != len(values) {
		return TimeSeries{}, fmt.Errorf("signal: %d timestamps for %d values", len(timestamps), len(values))
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return TimeSeries{}, fmt.Errorf("signal: non-finite value %v at index %d", v, i)
		}
	}
	for i, t := range timestamps {
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return TimeSeries{}, fmt.Errorf("signal: non-finite timestamp %v at index %d", t, i)
		}
		if i > 0 && t <= timestamps[i-1] {
			return TimeSeries{}, errors.New("signal: timestamps must be strictly increasing")
		}
	}
	return TimeSeries{Timestamps: timestamps, Values: values}, nil
}

// Uniform builds a series sampled at a fixed rate starting at t = 0.
// The sampling frequency must be strictly positive.
func Uniform(values []float64, frequency float64) (TimeSeries, error) {
	if frequency <= 0 {
		return TimeSeries{}, errors.New("signal: sampling frequency must be strictly positive")
	}
	ts := make([]float64, len(values))
	for i := range ts {
		ts[i] = float64(i) / frequency
	}
	return New(ts, values)
}

// Len returns the number of samples in the series.
func (s TimeSeries) Len() int {
	return len(s.Values)
}

// WithValues returns a new series carrying the given values under the
// receiver's timestamps. The replacement must preserve the length.
func (s TimeSeries) WithValues(values []float64) (TimeSeries, error) {
	if len(values) != len(s.Timestamps) {
		return TimeSeries{}, fmt.Errorf("signal: replacement length %d does not match series length %d", len(values), len(s.Timestamps))
	}
	return TimeSeries{Timestamps: s.Timestamps, Values: values}, nil
}
