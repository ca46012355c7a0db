// Package operator defines the during-mating Operator contract
// (spec.md §4.1, §6) and a small catalogue of concrete operators,
// mirroring the teacher's internal/evo Operator interface plus its
// catalogue-of-small-structs style for mutation operators
// (internal/evo/mutations.go).
package operator

import (
	"fmt"

	"matingcore/internal/genome"
	"matingcore/internal/population"
)

// Operator is invoked once per offspring after its genotype slot is
// established (or, for genotype-producing operators, before it is
// established — GeneratesGenotype signals which). Apply returns an
// error to reject the offspring; the family continues with the next
// attempt (spec.md §4.1). pop is the scratch population the offspring
// is being written into, giving an operator access to population-level
// state (variable environment, subpop boundaries) alongside the
// individuals it's being asked to judge.
type Operator interface {
	// GeneratesGenotype reports whether this operator is responsible
	// for filling the offspring's genotype itself. If any operator in
	// a family's list returns true, the offspring generator skips its
	// own free-recombination copy entirely (spec.md §4.1 "direct copy").
	GeneratesGenotype() bool
	Apply(pop population.Population, offspring, dad, mom *genome.Individual) error
}

// MendelianCopy is a no-op marker operator: it declares that it does
// not generate genotype and has no effect on the offspring. Useful as
// a documented placeholder in an operator list that otherwise relies
// entirely on the generator's free-recombination default.
type MendelianCopy struct{}

func (MendelianCopy) GeneratesGenotype() bool { return false }

func (MendelianCopy) Apply(population.Population, *genome.Individual, *genome.Individual, *genome.Individual) error {
	return nil
}

// RejectIf discards an offspring when Predicate returns true, e.g. to
// model a during-mating penetrance or viability filter.
type RejectIf struct {
	Name      string
	Predicate func(offspring *genome.Individual) bool
}

func (RejectIf) GeneratesGenotype() bool { return false }

func (r RejectIf) Apply(_ population.Population, offspring, _, _ *genome.Individual) error {
	if r.Predicate != nil && r.Predicate(offspring) {
		name := r.Name
		if name == "" {
			name = "RejectIf"
		}
		return fmt.Errorf("operator %s: offspring rejected", name)
	}
	return nil
}

// TagGeneration stamps the offspring's Tag map with the generation
// index it was produced in; used by tests asserting ordering (mirrors
// simuPOP's infoField "generation" idiom).
type TagGeneration struct {
	Generation int
}

func (TagGeneration) GeneratesGenotype() bool { return false }

func (t TagGeneration) Apply(_ population.Population, offspring, _, _ *genome.Individual) error {
	if offspring.Tag == nil {
		offspring.Tag = make(map[string]float64, 1)
	}
	offspring.Tag["generation"] = float64(t.Generation)
	return nil
}

// CloneDad is a genotype-producing operator: it copies dad's entire
// genotype into the offspring, bypassing free recombination altogether.
// Exercises the offspring generator's "direct copy" construction mode
// (spec.md §4.1) when present in an operator list.
type CloneDad struct{}

func (CloneDad) GeneratesGenotype() bool { return true }

func (CloneDad) Apply(_ population.Population, offspring, dad, _ *genome.Individual) error {
	if dad == nil {
		return fmt.Errorf("operator CloneDad: dad is required")
	}
	for copyIdx := range offspring.Genotype {
		srcCopy := copyIdx
		if srcCopy >= dad.Ploidy() {
			srcCopy = dad.Ploidy() - 1
		}
		copy(offspring.Genotype[copyIdx], dad.Genotype[srcCopy])
	}
	offspring.Sex = dad.Sex
	return nil
}
