package rngutil

import (
	"math/rand"
	"testing"
)

func TestBernoulliTrialsDimensions(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	table := NewBernoulliTrials(rng, 0.5, 4, 3)
	if table.Rows() != 4 || table.Cols() != 3 {
		t.Fatalf("expected 4x3 table, got %dx%d", table.Rows(), table.Cols())
	}
	for r := 0; r < 4; r++ {
		for c := 0; c < 3; c++ {
			_ = table.Bit(r, c) // must not panic for any in-range cell
		}
	}
}

func TestBernoulliTrialsConvergesToP(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	table := NewBernoulliTrials(rng, 0.5, 1, 20000)

	heads := 0
	for c := 0; c < 20000; c++ {
		if table.Bit(0, c) {
			heads++
		}
	}
	frac := float64(heads) / 20000
	if frac < 0.47 || frac > 0.53 {
		t.Fatalf("expected heads fraction near 0.5, got %v", frac)
	}
}
