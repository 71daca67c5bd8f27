package noise

import (
	"math/rand"
	"testing"

	"dilemma/internal/model"
)

func TestNewInjectorRejectsOutOfRangeProbability(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, p := range []float64{-0.01, 1.01, 2} {
		if _, err := NewInjector(p, rng); err == nil {
			t.Fatalf("expected error for probability %g", p)
		}
	}
}

func TestNewInjectorRequiresRandForPositiveProbability(t *testing.T) {
	if _, err := NewInjector(0.5, nil); err == nil {
		t.Fatalf("expected error for nil rng with positive probability")
	}
	if _, err := NewInjector(0, nil); err != nil {
		t.Fatalf("zero probability should not need an rng: %v", err)
	}
}

func TestApplyZeroProbabilityIsIdentity(t *testing.T) {
	inj, err := NewInjector(0, nil)
	if err != nil {
		t.Fatalf("new injector: %v", err)
	}
	for i := 0; i < 100; i++ {
		got, flipped := inj.Apply(model.Cooperate)
		if got != model.Cooperate || flipped {
			t.Fatalf("move %d: got %v flipped=%v, want COOPERATE unflipped", i, got, flipped)
		}
	}
}

func TestApplyCertainProbabilityAlwaysFlips(t *testing.T) {
	inj, err := NewInjector(1, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("new injector: %v", err)
	}
	for i := 0; i < 100; i++ {
		got, flipped := inj.Apply(model.Defect)
		if got != model.Cooperate || !flipped {
			t.Fatalf("move %d: got %v flipped=%v, want COOPERATE flipped", i, got, flipped)
		}
	}
}

func TestApplyIsDeterministicPerSeed(t *testing.T) {
	trial := func() []bool {
		inj, err := NewInjector(0.3, Stream(42, SaltNoiseA))
		if err != nil {
			t.Fatalf("new injector: %v", err)
		}
		flips := make([]bool, 50)
		for i := range flips {
			_, flips[i] = inj.Apply(model.Cooperate)
		}
		return flips
	}
	first, second := trial(), trial()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("trial diverged at move %d", i)
		}
	}
}

func TestStreamSaltsAreIndependent(t *testing.T) {
	a := Stream(42, SaltNoiseA)
	b := Stream(42, SaltNoiseB)
	same := 0
	for i := 0; i < 64; i++ {
		if a.Int63() == b.Int63() {
			same++
		}
	}
	if same == 64 {
		t.Fatalf("streams with different salts produced identical output")
	}
}

func TestMixAvalanche(t *testing.T) {
	if Mix(1, 2) == Mix(2, 1) {
		t.Fatalf("mix should not be symmetric in seed and salt")
	}
	if Mix(0, 0) == Mix(0, 1) {
		t.Fatalf("mix should separate adjacent salts")
	}
}
