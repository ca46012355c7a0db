package mating

import (
	"math/rand"
	"reflect"
	"testing"

	"matingcore/internal/diagnostics"
	"matingcore/internal/genome"
	"matingcore/internal/population"
)

func seedFixedSexedPop(numMales, numFemales int) *population.InMemoryPopulation {
	layout := sexedLayout()
	total := numMales + numFemales
	pop := population.New(layout, []int{total})
	for i := 0; i < numMales; i++ {
		pop.Individual(i).Sex = genome.SexMale
	}
	for i := numMales; i < total; i++ {
		pop.Individual(i).Sex = genome.SexFemale
	}
	return pop
}

// S1 (sizes): diploid population of 10 (5 male, 5 female), mode=fixed,
// numOffspring=1, no operators, seeded RNG; expect 10 offspring in ten
// families of one. Inheritance from father and mother is checked in
// TestGenerateFamilySexualInheritance.
func TestRandomMatingSchemeProducesExpectedFamilySizes(t *testing.T) {
	pop := seedFixedSexedPop(5, 5)
	layout := pop.Layout()

	obs := &diagnostics.RecordingObserver{}
	cfg := MatingConfig{Mode: ModeFixed, NumOffspring: 1, Observer: obs}
	scheme, err := NewRandomMatingScheme(layout, cfg)
	if err != nil {
		t.Fatalf("NewRandomMatingScheme: %v", err)
	}

	rng := rand.New(rand.NewSource(123))
	if err := scheme.Mate(rng, pop, 0); err != nil {
		t.Fatalf("Mate: %v", err)
	}
	if pop.TotalSize() != 10 {
		t.Fatalf("expected 10 offspring, got %d", pop.TotalSize())
	}
	if !obs.Committed {
		t.Fatal("expected observer.Commit to have been called")
	}
	if len(obs.FamSizes) != 10 {
		t.Fatalf("expected 10 families, got %d", len(obs.FamSizes))
	}
	for i, size := range obs.FamSizes {
		if size != 1 {
			t.Fatalf("family %d: expected size 1, got %d", i, size)
		}
	}
}

func TestBinomialSelectionSchemeAsexual(t *testing.T) {
	layout := population.Layout{Ploidy: 2, Chromosomes: []population.ChromosomeRange{{Begin: 0, End: 4}}}
	pop := population.New(layout, []int{6})
	for i := 0; i < 6; i++ {
		pop.Individual(i).HasFitness = true
		pop.Individual(i).Fitness = 1
	}

	scheme, err := NewBinomialSelectionScheme(layout, MatingConfig{Mode: ModeFixed, NumOffspring: 1})
	if err != nil {
		t.Fatalf("NewBinomialSelectionScheme: %v", err)
	}
	rng := rand.New(rand.NewSource(7))
	if err := scheme.Mate(rng, pop, 0); err != nil {
		t.Fatalf("Mate: %v", err)
	}
	if pop.TotalSize() != 6 {
		t.Fatalf("expected 6 offspring, got %d", pop.TotalSize())
	}
}

func TestNoMatingSchemeLeavesPopulationUnchanged(t *testing.T) {
	pop := seedFixedSexedPop(2, 2)
	before := pop.TotalSize()

	scheme := NoMatingScheme{}
	rng := rand.New(rand.NewSource(1))
	if err := scheme.Mate(rng, pop, 0); err != nil {
		t.Fatalf("Mate: %v", err)
	}
	if pop.TotalSize() != before {
		t.Fatalf("expected population size unchanged at %d, got %d", before, pop.TotalSize())
	}
}

// populationsEqual reports whether a and b hold identical individuals
// in identical subpop order — used to check property #8 (cloning a
// scheme and mating with the clone yields identical output to mating
// with the original).
func populationsEqual(a, b *population.InMemoryPopulation) bool {
	if a.TotalSize() != b.TotalSize() {
		return false
	}
	for i := 0; i < a.TotalSize(); i++ {
		if !reflect.DeepEqual(a.Individual(i), b.Individual(i)) {
			return false
		}
	}
	return true
}

// Property #8: cloning a scheme and mating with the clone yields
// identical output to mating with the original, given identical seeds.
func TestRandomMatingSchemeCloneYieldsIdenticalOutput(t *testing.T) {
	popA := seedFixedSexedPop(5, 5)
	popB := seedFixedSexedPop(5, 5)
	layout := popA.Layout()

	original, err := NewRandomMatingScheme(layout, MatingConfig{Mode: ModeFixed, NumOffspring: 1})
	if err != nil {
		t.Fatalf("NewRandomMatingScheme: %v", err)
	}
	clone := original.Clone()

	if err := original.Mate(rand.New(rand.NewSource(321)), popA, 0); err != nil {
		t.Fatalf("original Mate: %v", err)
	}
	if err := clone.Mate(rand.New(rand.NewSource(321)), popB, 0); err != nil {
		t.Fatalf("clone Mate: %v", err)
	}
	if !populationsEqual(popA, popB) {
		t.Fatal("expected the clone to produce output identical to the original")
	}
}

func TestBinomialSelectionSchemeCloneYieldsIdenticalOutput(t *testing.T) {
	layout := population.Layout{Ploidy: 2, Chromosomes: []population.ChromosomeRange{{Begin: 0, End: 4}}}
	popA := population.New(layout, []int{6})
	popB := population.New(layout, []int{6})
	for i := 0; i < 6; i++ {
		popA.Individual(i).HasFitness = true
		popA.Individual(i).Fitness = 1
		popB.Individual(i).HasFitness = true
		popB.Individual(i).Fitness = 1
	}

	original, err := NewBinomialSelectionScheme(layout, MatingConfig{Mode: ModeFixed, NumOffspring: 1})
	if err != nil {
		t.Fatalf("NewBinomialSelectionScheme: %v", err)
	}
	clone := original.Clone()

	if err := original.Mate(rand.New(rand.NewSource(55)), popA, 0); err != nil {
		t.Fatalf("original Mate: %v", err)
	}
	if err := clone.Mate(rand.New(rand.NewSource(55)), popB, 0); err != nil {
		t.Fatalf("clone Mate: %v", err)
	}
	if !populationsEqual(popA, popB) {
		t.Fatal("expected the clone to produce output identical to the original")
	}
}

func TestRandomMatingSchemeResizesSubPop(t *testing.T) {
	pop := seedFixedSexedPop(5, 5)
	scheme, err := NewRandomMatingScheme(pop.Layout(), MatingConfig{
		Mode:          ModeFixed,
		NumOffspring:  1,
		NewSubPopSize: []int{20},
	})
	if err != nil {
		t.Fatalf("NewRandomMatingScheme: %v", err)
	}
	rng := rand.New(rand.NewSource(5))
	if err := scheme.Mate(rng, pop, 0); err != nil {
		t.Fatalf("Mate: %v", err)
	}
	if pop.TotalSize() != 20 {
		t.Fatalf("expected resized population of 20, got %d", pop.TotalSize())
	}
}
