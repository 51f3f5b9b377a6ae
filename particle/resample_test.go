package particle

import (
	"testing"

	"golang.org/x/exp/rand"
)

func TestSystematicPointMass(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	indices := Systematic{}.Resample([]float64{0, 1, 0}, rnd)
	if len(indices) != 3 {
		t.Fatalf("expected 3 indices, got %d", len(indices))
	}
	for _, idx := range indices {
		if idx != 1 {
			t.Fatalf("expected every index to be 1, got %v", indices)
		}
	}
}

func TestSystematicUniformWeightsKeepPopulation(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	indices := Systematic{}.Resample([]float64{0.25, 0.25, 0.25, 0.25}, rnd)
	// With uniform weights the equally spaced points hit every stratum
	// exactly once.
	for i, idx := range indices {
		if idx != i {
			t.Fatalf("expected identity mapping, got %v", indices)
		}
	}
}

func TestSystematicProportionality(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	weights := []float64{0.5, 0.5}
	counts := make([]int, 2)
	for trial := 0; trial < 100; trial++ {
		for _, idx := range (Systematic{}).Resample(weights, rnd) {
			counts[idx]++
		}
	}
	// Each index must appear exactly once per draw of two.
	if counts[0] != 100 || counts[1] != 100 {
		t.Errorf("expected balanced counts, got %v", counts)
	}
}

func TestMultinomialPointMass(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	indices := Multinomial{}.Resample([]float64{0, 0, 1}, rnd)
	if len(indices) != 3 {
		t.Fatalf("expected 3 indices, got %d", len(indices))
	}
	for _, idx := range indices {
		if idx != 2 {
			t.Fatalf("expected every index to be 2, got %v", indices)
		}
	}
}

func TestResamplersAreReproducible(t *testing.T) {
	weights := []float64{0.1, 0.2, 0.3, 0.4}
	for _, r := range []Resampler{Systematic{}, Multinomial{}} {
		a := r.Resample(weights, rand.New(rand.NewSource(9)))
		b := r.Resample(weights, rand.New(rand.NewSource(9)))
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("%T: index %d differs between equally seeded draws", r, i)
			}
		}
	}
}
