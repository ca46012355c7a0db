package rngutil

import "gonum.org/v1/gonum/stat"

// FamilySizeStats summarizes a generation's realized family sizes —
// backs the Poisson mean/variance check in spec.md §8 S5. Grounded on other_examples/grexie-signals'
// selection.go, the pack's example of gonum.org/v1/gonum/stat for
// plain aggregate statistics over a float64 slice.
type FamilySizeStats struct {
	Mean     float64
	Variance float64
}

// SummarizeFamilySizes computes the mean and the unbiased sample
// variance (divisor n-1) of a slice of realized family sizes.
func SummarizeFamilySizes(sizes []int) FamilySizeStats {
	if len(sizes) == 0 {
		return FamilySizeStats{}
	}
	floats := make([]float64, len(sizes))
	for i, s := range sizes {
		floats[i] = float64(s)
	}
	mean := stat.Mean(floats, nil)
	variance := stat.Variance(floats, nil)
	return FamilySizeStats{Mean: mean, Variance: variance}
}
