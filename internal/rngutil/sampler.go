// Package rngutil is the mating core's single point of contact with
// randomness: a weighted sampler, a bulk Bernoulli-trial table for free
// recombination, and the discrete family-size distributions of
// spec.md §3. Every draw takes an explicit *rand.Rand so a fixed seed
// reproduces a run exactly (spec.md §4.4, §5).
//
// Grounded on other_examples/grexie-signals__selection.go's cumulative-
// weight roulette-wheel sampler for the WeightedSampler shape, and on
// that same file's use of gonum.org/v1/gonum/stat for aggregate
// statistics (see stats.go) as the pack's dependency of choice for
// this concern.
package rngutil

import "math/rand"

// WeightedSampler draws indices with probability proportional to a
// weight vector, via cumulative-weight binary search — the standard
// roulette-wheel technique. A sampler built from an empty or all-zero
// weight vector falls back to uniform selection over its length.
type WeightedSampler struct {
	cumulative []float64
	n          int
	uniform    bool
}

// NewWeightedSampler builds a sampler over weights. Negative weights
// are treated as zero. If every weight is zero (including an empty
// slice with non-zero n via NewUniformSampler), draws are uniform.
func NewWeightedSampler(weights []float64) *WeightedSampler {
	n := len(weights)
	cumulative := make([]float64, n)
	total := 0.0
	for i, w := range weights {
		if w > 0 {
			total += w
		}
		cumulative[i] = total
	}
	if total <= 0 {
		return &WeightedSampler{n: n, uniform: true}
	}
	return &WeightedSampler{cumulative: cumulative, n: n}
}

// NewUniformSampler builds a sampler that draws uniformly over
// [0, n) — used when individuals carry no fitness attribute.
func NewUniformSampler(n int) *WeightedSampler {
	return &WeightedSampler{n: n, uniform: true}
}

// Len reports how many indices this sampler can draw from.
func (s *WeightedSampler) Len() int { return s.n }

// Draw returns one index in [0, Len()), with replacement.
func (s *WeightedSampler) Draw(rng *rand.Rand) int {
	if s.n == 0 {
		return -1
	}
	if s.uniform {
		return rng.Intn(s.n)
	}
	total := s.cumulative[s.n-1]
	target := rng.Float64() * total
	lo, hi := 0, s.n-1
	for lo < hi {
		mid := (lo + hi) / 2
		if s.cumulative[mid] < target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}
