package mating

import (
	"fmt"

	"matingcore/internal/population"
	"matingcore/internal/sizeexpr"
)

// SizeFunc computes a new per-subpop size vector for generation gen,
// given the current sizes.
type SizeFunc func(gen int, currentSizes []int) []int

// resizeSubPops implements C3 (spec.md §4.3): priority order is
// callback, then expression, then fixed vector, then "keep current
// sizes" when none are set.
func resizeSubPops(cfg MatingConfig, pop population.Population, gen int) ([]int, error) {
	current := currentSubPopSizes(pop)

	var sizes []int
	switch {
	case cfg.NewSubPopSizeFunc != nil:
		sizes = cfg.NewSubPopSizeFunc(gen, current)
	case cfg.NewSubPopSizeExpr != "":
		evaluated, err := sizeexpr.EvalPerSubPop(cfg.NewSubPopSizeExpr, current, pop.Vars())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
		}
		sizes = evaluated
	case len(cfg.NewSubPopSize) > 0:
		sizes = cfg.NewSubPopSize
	default:
		sizes = current
	}

	if len(sizes) != pop.NumSubPop() {
		return nil, fmt.Errorf("%w: resizer produced %d subpop sizes, want %d", ErrConfiguration, len(sizes), pop.NumSubPop())
	}
	out := make([]int, len(sizes))
	for i, s := range sizes {
		if s < 0 {
			return nil, fmt.Errorf("%w: negative subpop size %d at index %d", ErrConfiguration, s, i)
		}
		out[i] = s
	}
	return out, nil
}

func currentSubPopSizes(pop population.Population) []int {
	sizes := make([]int, pop.NumSubPop())
	for i := range sizes {
		sizes[i] = pop.SubPopSize(i)
	}
	return sizes
}
