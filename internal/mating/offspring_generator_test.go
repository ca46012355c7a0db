package mating

import (
	"math/rand"
	"testing"

	"matingcore/internal/genome"
	"matingcore/internal/operator"
	"matingcore/internal/population"
)

func testLayout() population.Layout {
	return population.Layout{
		Ploidy:      2,
		Chromosomes: []population.ChromosomeRange{{Begin: 0, End: 3}, {Begin: 3, End: 5}},
		HasSexChrom: true,
	}
}

func fixedParent(sex genome.Sex, fill genome.Allele) *genome.Individual {
	ind := genome.New(2, 5)
	for c := range ind.Genotype {
		for l := range ind.Genotype[c] {
			ind.Genotype[c][l] = fill + genome.Allele(c)
		}
	}
	ind.Sex = sex
	return &ind
}

// S1: every offspring's sex chromosome copy matches one parental copy
// exactly, and sex is assigned consistently with which copy the father
// transmitted.
func TestGenerateFamilySexualInheritance(t *testing.T) {
	layout := testLayout()
	gen := newOffspringGenerator(layout, nil)
	scratch := population.New(layout, []int{10})
	rng := rand.New(rand.NewSource(1))

	dad := fixedParent(genome.SexMale, 10)
	mom := fixedParent(genome.SexFemale, 20)

	cursor := gen.generateFamily(rng, scratch, dad, mom, 10, 0, 10)
	if cursor != 10 {
		t.Fatalf("expected cursor to advance to 10, got %d", cursor)
	}

	females := 0
	for i := 0; i < 10; i++ {
		off := scratch.Individual(i)
		// sex-chromosome copy 1 (maternal) always mirrors mom's copy 0.
		for l := 3; l < 5; l++ {
			if off.Genotype[1][l] != mom.Genotype[0][l] {
				t.Fatalf("offspring %d: maternal sex-chrom locus %d = %d, want %d", i, l, off.Genotype[1][l], mom.Genotype[0][l])
			}
		}
		// paternal sex-chromosome copy must match one of dad's two copies.
		matchesCopy0, matchesCopy1 := true, true
		for l := 3; l < 5; l++ {
			if off.Genotype[0][l] != dad.Genotype[0][l] {
				matchesCopy0 = false
			}
			if off.Genotype[0][l] != dad.Genotype[1][l] {
				matchesCopy1 = false
			}
		}
		if !matchesCopy0 && !matchesCopy1 {
			t.Fatalf("offspring %d: paternal sex-chrom copy matches neither of dad's copies", i)
		}
		if matchesCopy1 && off.Sex != genome.SexMale {
			t.Fatalf("offspring %d: dad transmitted Y-like copy but sex=%v", i, off.Sex)
		}
		if matchesCopy0 && !matchesCopy1 && off.Sex != genome.SexFemale {
			t.Fatalf("offspring %d: dad transmitted X-like copy but sex=%v", i, off.Sex)
		}
		if off.Sex == genome.SexFemale {
			females++
		}
	}
	if females == 0 || females == 10 {
		t.Fatalf("expected a mix of sexes across 10 offspring, got %d female", females)
	}
}

func TestGenerateFamilyStopsAtSubPopBoundary(t *testing.T) {
	layout := testLayout()
	gen := newOffspringGenerator(layout, nil)
	scratch := population.New(layout, []int{3})
	rng := rand.New(rand.NewSource(2))

	dad := fixedParent(genome.SexMale, 1)
	mom := fixedParent(genome.SexFemale, 2)

	cursor := gen.generateFamily(rng, scratch, dad, mom, 10, 0, 3)
	if cursor != 3 {
		t.Fatalf("expected cursor clamped to subpop end 3, got %d", cursor)
	}
}

func TestGenerateFamilyAsexualSelfing(t *testing.T) {
	layout := testLayout()
	gen := newOffspringGenerator(layout, nil)
	scratch := population.New(layout, []int{5})
	rng := rand.New(rand.NewSource(3))

	parent := fixedParent(genome.SexUnspecified, 1)

	cursor := gen.generateFamily(rng, scratch, parent, nil, 5, 0, 5)
	if cursor != 5 {
		t.Fatalf("expected all 5 offspring produced, got cursor %d", cursor)
	}
	for i := 0; i < 5; i++ {
		off := scratch.Individual(i)
		for c := range off.Genotype {
			for l := range off.Genotype[c] {
				if off.Genotype[c][l] != parent.Genotype[0][l] && off.Genotype[c][l] != parent.Genotype[1][l] {
					t.Fatalf("offspring %d copy %d locus %d not inherited from either parental copy", i, c, l)
				}
			}
		}
	}
}

func TestGenerateFamilyRejectingOperatorRetries(t *testing.T) {
	layout := testLayout()
	reject := operator.RejectIf{
		Name: "paternalFirstLocusOne",
		Predicate: func(ind *genome.Individual) bool {
			return ind.Genotype[0][0] == 1
		},
	}
	gen := newOffspringGenerator(layout, []operator.Operator{reject})
	scratch := population.New(layout, []int{4})
	rng := rand.New(rand.NewSource(4))

	dad := fixedParent(genome.SexMale, 1)
	mom := fixedParent(genome.SexFemale, 2)

	cursor := gen.generateFamily(rng, scratch, dad, mom, 4, 0, 4)
	if cursor != 4 {
		t.Fatalf("expected 4 offspring despite rejections, got cursor %d", cursor)
	}
	for i := 0; i < 4; i++ {
		off := scratch.Individual(i)
		if off.Genotype[0][0] == 1 {
			t.Fatalf("offspring %d should have been rejected by the operator", i)
		}
	}
}

func TestGenerateFamilyGenotypeProducingOperatorSkipsRecombination(t *testing.T) {
	layout := testLayout()
	op := operator.CloneDad{}
	gen := newOffspringGenerator(layout, []operator.Operator{op})
	if gen.formOffGenotype {
		t.Fatal("expected formOffGenotype to be false when a genotype-producing operator is present")
	}

	scratch := population.New(layout, []int{2})
	rng := rand.New(rand.NewSource(5))
	dad := fixedParent(genome.SexMale, 3)

	cursor := gen.generateFamily(rng, scratch, dad, nil, 2, 0, 2)
	if cursor != 2 {
		t.Fatalf("expected 2 offspring, got cursor %d", cursor)
	}
	for i := 0; i < 2; i++ {
		off := scratch.Individual(i)
		for c := range dad.Genotype {
			for l := range dad.Genotype[c] {
				if off.Genotype[c][l] != dad.Genotype[c][l] {
					t.Fatalf("offspring %d: CloneDad should copy dad's genotype exactly", i)
				}
			}
		}
	}
}
