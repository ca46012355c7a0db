package mating

import (
	"fmt"
	"math/rand"

	"matingcore/internal/diagnostics"
	"matingcore/internal/genome"
	"matingcore/internal/population"
	"matingcore/internal/rngutil"
)

// parentChooser implements C4: draws parents for one subpopulation,
// with replacement, weighted by fitness when individuals carry one.
type parentChooser interface {
	// chooseParents draws one family's parent(s): dad only for
	// asexual choosers, dad and mom for sexual choosers.
	chooseParents(rng *rand.Rand) (dad, mom *genome.Individual)
}

// binomialChooser implements asexual selection (spec.md §4.4
// "BinomialChooser"): one parent per family, drawn with replacement
// from the whole subpop, weighted by fitness if present.
type binomialChooser struct {
	individuals []*genome.Individual
	sampler     *rngutil.WeightedSampler
}

func newBinomialChooser(pop population.Population, subPop int) *binomialChooser {
	begin, end := pop.SubPopBegin(subPop), pop.SubPopEnd(subPop)
	individuals := make([]*genome.Individual, 0, end-begin)
	weights := make([]float64, 0, end-begin)
	for i := begin; i < end; i++ {
		ind := pop.Individual(i)
		individuals = append(individuals, ind)
		if ind.HasFitness {
			weights = append(weights, ind.Fitness)
		} else {
			weights = append(weights, 1)
		}
	}
	return &binomialChooser{individuals: individuals, sampler: rngutil.NewWeightedSampler(weights)}
}

func (c *binomialChooser) chooseParents(rng *rand.Rand) (dad, mom *genome.Individual) {
	if c.sampler.Len() == 0 {
		return nil, nil
	}
	idx := c.sampler.Draw(rng)
	return c.individuals[idx], nil
}

// randomMatingChooser implements sexual selection (spec.md §4.4
// "RandomMatingChooser"): one father and one mother per family, drawn
// independently with replacement from the male and female partitions
// of the subpop, each weighted by fitness if present.
//
// contWhenUniSex controls behavior when a subpop has only one sex
// present: if true, the chooser falls back to ignoring sex (both
// parent roles drawn from the whole subpop) and emits a diagnostics
// warning; if false, construction fails with ErrFeasibility.
type randomMatingChooser struct {
	males   []*genome.Individual
	females []*genome.Individual
	maleSampler   *rngutil.WeightedSampler
	femaleSampler *rngutil.WeightedSampler
	uniSexFallback bool
}

func newRandomMatingChooser(pop population.Population, subPop int, contWhenUniSex bool, obs diagnostics.Observer) (*randomMatingChooser, error) {
	begin, end := pop.SubPopBegin(subPop), pop.SubPopEnd(subPop)

	var males, females []*genome.Individual
	var maleWeights, femaleWeights []float64
	for i := begin; i < end; i++ {
		ind := pop.Individual(i)
		weight := 1.0
		if ind.HasFitness {
			weight = ind.Fitness
		}
		switch ind.Sex {
		case genome.SexMale:
			males = append(males, ind)
			maleWeights = append(maleWeights, weight)
		case genome.SexFemale:
			females = append(females, ind)
			femaleWeights = append(femaleWeights, weight)
		}
	}

	if len(males) == 0 || len(females) == 0 {
		if !contWhenUniSex {
			return nil, fmt.Errorf("%w: subpop %d has no individuals of %s sex and contWhenUniSex is disabled",
				ErrFeasibility, subPop, missingSexLabel(len(males), len(females)))
		}
		if obs == nil {
			obs = diagnostics.NopObserver{}
		}
		obs.Warning(fmt.Sprintf("subpop %d is functionally uni-sex; falling back to unrestricted parent draws", subPop))

		all := make([]*genome.Individual, 0, end-begin)
		weights := make([]float64, 0, end-begin)
		for i := begin; i < end; i++ {
			ind := pop.Individual(i)
			all = append(all, ind)
			if ind.HasFitness {
				weights = append(weights, ind.Fitness)
			} else {
				weights = append(weights, 1)
			}
		}
		sampler := rngutil.NewWeightedSampler(weights)
		return &randomMatingChooser{
			males: all, females: all,
			maleSampler: sampler, femaleSampler: sampler,
			uniSexFallback: true,
		}, nil
	}

	return &randomMatingChooser{
		males: males, females: females,
		maleSampler:   rngutil.NewWeightedSampler(maleWeights),
		femaleSampler: rngutil.NewWeightedSampler(femaleWeights),
	}, nil
}

func missingSexLabel(numMales, numFemales int) string {
	if numMales == 0 && numFemales == 0 {
		return "either"
	}
	if numMales == 0 {
		return "male"
	}
	return "female"
}

func (c *randomMatingChooser) chooseParents(rng *rand.Rand) (dad, mom *genome.Individual) {
	dadIdx := c.maleSampler.Draw(rng)
	momIdx := c.femaleSampler.Draw(rng)
	return c.males[dadIdx], c.females[momIdx]
}
