package rngutil

import (
	"math"
	"math/rand"
)

// Geometric, Poisson, Binomial and UniformInt back family-size modes
// 3-6 (spec.md §3, §4.2). They take a *math/rand.Rand directly rather
// than gonum.org/v1/gonum/stat/distuv: distuv's distributions key their
// Src field to golang.org/x/exp/rand.Source, a type this module has no
// other reason to depend on (see DESIGN.md), so these four are
// textbook inverse-CDF/direct-simulation implementations instead, on
// math/rand like the rest of this package. gonum.org/v1/gonum/stat
// still gets a real call site for
// aggregate statistics (stats.go), matching the pack's
// (other_examples/grexie-signals) use of that package.

// Geometric draws from a geometric distribution on {0, 1, 2, ...} with
// success probability p (the number of failures before the first
// success), via inverse-CDF. Requires p in (0, 1].
func Geometric(rng *rand.Rand, p float64) int {
	if p >= 1 {
		return 0
	}
	u := rng.Float64()
	for u == 0 {
		u = rng.Float64()
	}
	v := math.Log(u) / math.Log(1-p)
	return int(math.Floor(v))
}

// Poisson draws from a Poisson distribution with mean lambda, via
// Knuth's multiplication algorithm. Requires lambda >= 0.
func Poisson(rng *rand.Rand, lambda float64) int {
	if lambda <= 0 {
		return 0
	}
	l := math.Exp(-lambda)
	k := 0
	p := 1.0
	for {
		k++
		p *= rng.Float64()
		if p <= l {
			break
		}
	}
	return k - 1
}

// Binomial draws from a Binomial(n, p) distribution via direct
// simulation (sum of n independent Bernoulli(p) trials). Requires
// n >= 1 and p in [0, 1].
func Binomial(rng *rand.Rand, n int, p float64) int {
	if n <= 0 || p <= 0 {
		return 0
	}
	if p >= 1 {
		return n
	}
	count := 0
	for i := 0; i < n; i++ {
		if rng.Float64() < p {
			count++
		}
	}
	return count
}

// UniformInt draws a uniform integer in [lo, hi] inclusive.
func UniformInt(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}
