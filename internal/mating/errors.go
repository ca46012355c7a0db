package mating

import "errors"

// Sentinel errors wrapped with fmt.Errorf("%w: ...") throughout this
// package, matching the teacher's internal/evo/registry.go taxonomy.
var (
	// ErrConfiguration reports a MatingConfig that is internally
	// inconsistent (wrong mode, missing callback, conflicting size
	// sources) before any sampling is attempted.
	ErrConfiguration = errors.New("mating: configuration error")

	// ErrCompatibility names a population/scheme mismatch such as wrong
	// ploidy or missing sex information. No scheme in this package checks
	// compatibility or returns it; a scratch layout mismatch at commit
	// surfaces as population.ErrLayoutMismatch.
	ErrCompatibility = errors.New("mating: compatibility error")

	// ErrFeasibility reports that a requested outcome (a controlled
	// allele frequency, a subpop size) could not be reached given the
	// available parents within the attempt budget.
	ErrFeasibility = errors.New("mating: feasibility error")

	// ErrCallback reports that a user-supplied callback returned an
	// error or an invalid value.
	ErrCallback = errors.New("mating: callback error")
)
