package mating

import (
	"math/rand"

	"matingcore/internal/genome"
	"matingcore/internal/operator"
	"matingcore/internal/population"
	"matingcore/internal/rngutil"
)

// maxOffspringAttemptMultiplier bounds how many genotype-construction
// attempts one family makes before giving up early (operator rejection
// can in principle reject forever; spec.md §4.1 describes retrying
// "with the next attempt" but not a backstop — this one exists so a
// pathological operator can't hang a generation).
const maxOffspringAttemptMultiplier = 50

// offspringGenerator implements C1 (spec.md §4.1): given one parent
// (asexual) or two (sexual), produce offspring genotypes by free
// recombination over ploidy copies (unless a genotype-producing
// operator is present, in which case the operator owns the genotype),
// then run the during-mating operator list.
type offspringGenerator struct {
	layout          population.Layout
	ops             []operator.Operator
	formOffGenotype bool // decided once at construction, spec.md §4.1/§9
}

// newOffspringGenerator decides, once, whether this generator fills
// offspring genotype itself or defers entirely to the operator list.
func newOffspringGenerator(layout population.Layout, ops []operator.Operator) *offspringGenerator {
	formOffGenotype := true
	for _, op := range ops {
		if op.GeneratesGenotype() {
			formOffGenotype = false
			break
		}
	}
	return &offspringGenerator{layout: layout, ops: ops, formOffGenotype: formOffGenotype}
}

// offspringSlot is one offspring ploidy-copy to be filled from one
// parent. isSexLinked marks slots belonging to a two-parent (sexual)
// mating, where the final chromosome follows the Mendelian sex rule
// rather than ordinary free recombination.
type offspringSlot struct {
	parent      *genome.Individual
	dest        int
	isMother    bool
	isSexLinked bool
}

// buildOffspringSlots lists every ploidy-copy-to-parent assignment for
// one offspring: one slot per ploidy copy for asexual mating (all drawn
// independently from the single parent, a selfing-like meiosis), or one
// slot per parent for sexual diploid mating.
func buildOffspringSlots(dad, mom *genome.Individual, ploidy int) []offspringSlot {
	if mom == nil {
		slots := make([]offspringSlot, ploidy)
		for i := range slots {
			slots[i] = offspringSlot{parent: dad, dest: i}
		}
		return slots
	}
	return []offspringSlot{
		{parent: dad, dest: 0, isSexLinked: true},
		{parent: mom, dest: 1, isMother: true, isSexLinked: true},
	}
}

// generateFamily writes up to numOff offspring into scratch starting at
// cursor, never crossing end. dad is required; mom is nil for asexual
// mating. Returns the advanced cursor.
func (g *offspringGenerator) generateFamily(rng *rand.Rand, scratch population.Population, dad, mom *genome.Individual, numOff, cursor, end int) int {
	if numOff <= 0 || cursor >= end {
		return cursor
	}
	remaining := end - cursor
	if numOff > remaining {
		numOff = remaining
	}

	slots := buildOffspringSlots(dad, mom, g.layout.Ploidy)
	numChroms := len(g.layout.Chromosomes)
	numSlots := len(slots)

	// One independent Bernoulli trial per (offspring, slot, chromosome)
	// cell, drawn in bulk up front and reused across the family
	// (spec.md §4.1's performance contract).
	var bulk *rngutil.BernoulliTable
	if g.formOffGenotype && numChroms > 0 {
		bulk = rngutil.NewBernoulliTrials(rng, 0.5, numOff*numSlots, numChroms)
	}

	written := 0
	maxAttempts := numOff * maxOffspringAttemptMultiplier
	if maxAttempts <= 0 {
		maxAttempts = maxOffspringAttemptMultiplier
	}

	for attempt := 0; written < numOff && cursor < end && attempt < maxAttempts; attempt++ {
		offspring := scratch.Individual(cursor)
		*offspring = genome.New(g.layout.Ploidy, g.layout.NumLoci())

		if g.formOffGenotype {
			// Each attempt takes its own rows, so a retry after an operator
			// rejection is a fresh draw; attempts past the table draw from rng.
			table, base := bulk, attempt*numSlots
			if attempt >= numOff {
				table = nil
			}
			for si, slot := range slots {
				g.fillSlot(offspring, slot, rng, table, base+si)
			}
		}

		ok := true
		for _, op := range g.ops {
			if err := op.Apply(scratch, offspring, dad, mom); err != nil {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}

		written++
		cursor++
	}
	return cursor
}

// fillSlot fills one offspring ploidy copy from slot's parent, one
// chromosome at a time, using row's pre-drawn Bernoulli bits for the
// ordinary (non-sex-linked) chromosomes.
func (g *offspringGenerator) fillSlot(offspring *genome.Individual, slot offspringSlot, rng *rand.Rand, bulk *rngutil.BernoulliTable, row int) {
	numChroms := len(g.layout.Chromosomes)
	for ci, chrom := range g.layout.Chromosomes {
		isLastChrom := ci == numChroms-1
		if slot.isSexLinked && g.layout.HasSexChrom && isLastChrom {
			g.fillSexChromosome(offspring, slot, chrom, rng)
			continue
		}

		var heads bool
		if bulk != nil {
			heads = bulk.Bit(row, ci)
		} else {
			heads = rng.Float64() < 0.5
		}
		srcCopy := 0
		if heads && slot.parent.Ploidy() > 1 {
			srcCopy = 1
		}
		offspring.CopyChromosome(slot.dest, slot.parent, srcCopy, chrom.Begin, chrom.End)
	}
}

// fillSexChromosome implements spec.md §4.1's Mendelian sex
// determination: the mother always contributes her X (copy 0, by this
// module's convention); the father contributes X (copy 0) or Y (copy
// 1) with equal probability, and that coin sets the offspring's sex.
func (g *offspringGenerator) fillSexChromosome(offspring *genome.Individual, slot offspringSlot, chrom population.ChromosomeRange, rng *rand.Rand) {
	if slot.isMother {
		offspring.CopyChromosome(slot.dest, slot.parent, 0, chrom.Begin, chrom.End)
		return
	}
	fatherTransmitsY := rng.Float64() < 0.5
	srcCopy := 0
	if fatherTransmitsY {
		srcCopy = 1
	}
	offspring.CopyChromosome(slot.dest, slot.parent, srcCopy, chrom.Begin, chrom.End)
	if fatherTransmitsY {
		offspring.Sex = genome.SexMale
	} else {
		offspring.Sex = genome.SexFemale
	}
}
