package signal

import (
	"math"
	"testing"
)

func TestNewRejectsLengthMismatch(t *testing.T) {
	if _, err := New([]float64{0, 1}, []float64{1}); err == nil {
		t.Error("expected error for mismatched lengths")
	}
}

func TestNewRejectsNonFiniteValues(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, err := New([]float64{0, 1}, []float64{1, v}); err == nil {
			t.Errorf("expected error for value %v", v)
		}
	}
}

func TestNewRejectsNonIncreasingTimestamps(t *testing.T) {
	if _, err := New([]float64{0, 1, 1}, []float64{1, 2, 3}); err == nil {
		t.Error("expected error for repeated timestamp")
	}
	if _, err := New([]float64{0, 1, 0.5}, []float64{1, 2, 3}); err == nil {
		t.Error("expected error for decreasing timestamp")
	}
}

func TestNewAllowsEmptySeries(t *testing.T) {
	s, err := New(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 0 {
		t.Errorf("expected empty series, got length %d", s.Len())
	}
}

func TestUniform(t *testing.T) {
	s, err := Uniform([]float64{1, 2, 3, 4}, 4)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{0, 0.25, 0.5, 0.75}
	for i, ts := range s.Timestamps {
		if ts != want[i] {
			t.Errorf("timestamp %d: expected %v, got %v", i, want[i], ts)
		}
	}
	if _, err := Uniform([]float64{1}, 0); err == nil {
		t.Error("expected error for zero frequency")
	}
}

func TestWithValuesPreservesTimestamps(t *testing.T) {
	s, err := New([]float64{0, 1, 2}, []float64{1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	out, err := s.WithValues([]float64{4, 5, 6})
	if err != nil {
		t.Fatal(err)
	}
	for i := range out.Timestamps {
		if out.Timestamps[i] != s.Timestamps[i] {
			t.Fatal("timestamps changed")
		}
	}
	if _, err := s.WithValues([]float64{1}); err == nil {
		t.Error("expected error for length mismatch")
	}
}
