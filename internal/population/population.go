// Package population is the module's reference implementation of the
// spec's "external" Population contract (spec.md §3, §6): subpopulation
// boundaries, ploidy, per-chromosome index ranges, and the variable
// environment mating schemes use to report back to the caller
// (`selection`, `famSizes`, named floats consumed by internal/sizeexpr).
//
// Grounded on simuPOP's population.h (prepareScratchPop, pushAndDiscard)
// and on the teacher's internal/storage.Store split: a small interface
// here, one concrete in-memory implementation in memory.go.
package population

import (
	"fmt"

	"matingcore/internal/genome"
)

// ChromosomeRange is the half-open locus index range [Begin, End)
// occupied by one chromosome within an Individual's flat genotype.
type ChromosomeRange struct {
	Begin int
	End   int
}

// Layout describes the structural properties shared by a population and
// its scratch generation: ploidy, chromosome ranges, and whether the
// final chromosome is a sex chromosome (spec.md §4.1's Mendelian sex
// determination applies only when this is true).
type Layout struct {
	Ploidy      int
	Chromosomes []ChromosomeRange
	HasSexChrom bool
}

// NumLoci is the total locus count implied by the chromosome layout.
func (l Layout) NumLoci() int {
	if len(l.Chromosomes) == 0 {
		return 0
	}
	return l.Chromosomes[len(l.Chromosomes)-1].End
}

// Population is the contract the mating core consumes. Population is
// implemented by *InMemoryPopulation; it is expressed as an interface
// so the core can be tested, and eventually embedded, without being
// bound to one concrete representation.
type Population interface {
	Layout() Layout
	NumSubPop() int
	SubPopSize(s int) int
	SubPopBegin(s int) int
	SubPopEnd(s int) int
	TotalSize() int

	Individual(i int) *genome.Individual

	// Vars exposes the population's variable environment for the
	// sizeexpr evaluator and for reporting.
	SetBoolVar(name string, value bool)
	BoolVar(name string) bool
	SetIntVectorVar(name string, value []int)
	IntVectorVar(name string) []int
	SetFloatVar(name string, value float64)
	FloatVar(name string) (float64, bool)
	Vars() map[string]float64

	// PushAndDiscard atomically replaces this population's contents
	// with scratch's, discarding the previous generation. scratch must
	// share this population's Layout.
	PushAndDiscard(scratch Population) error

	// Clone deep-copies the population, including its variable
	// environment. Used by ControlledBinomialSelection (C6) to trial
	// a whole generation without mutating the caller's population until
	// its realized allele counts are accepted.
	Clone() Population
}

// ErrLayoutMismatch is returned by PushAndDiscard when the scratch
// population's layout does not match the primary's.
var ErrLayoutMismatch = fmt.Errorf("population: scratch layout mismatch")
