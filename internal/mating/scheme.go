package mating

import (
	"fmt"
	"math/rand"

	"matingcore/internal/diagnostics"
	"matingcore/internal/operator"
	"matingcore/internal/population"
)

// maxZeroFamilyStreak bounds how many consecutive zero-size families a
// subpop can draw before Mate gives up on it as infeasible — guards
// against a degenerate distribution parameter (e.g. p=0) spinning
// forever without advancing the cursor.
const maxZeroFamilyStreak = 100000

// MatingConfig configures every concrete Scheme: family-size sampling
// (C2), subpop resizing (C3), the during-mating operator list (C1),
// and uni-sex fallback behavior (C4). Exactly one of NewSubPopSize,
// NewSubPopSizeExpr or NewSubPopSizeFunc should be set; if none are,
// subpop sizes are held at their current values.
type MatingConfig struct {
	Mode             FamilySizeMode
	NumOffspring     float64
	NumOffspringFunc NumOffspringFunc
	MaxNumOffspring  int

	NewSubPopSize     []int
	NewSubPopSizeExpr string
	NewSubPopSizeFunc SizeFunc

	ContWhenUniSex bool

	Ops      []operator.Operator
	Observer diagnostics.Observer
}

func (cfg MatingConfig) observer() diagnostics.Observer {
	if cfg.Observer == nil {
		return diagnostics.NopObserver{}
	}
	return cfg.Observer
}

// Scheme is the C5 driver contract: advance pop by one generation of
// mating, in place. Clone produces an independent scheme that mates
// identically to the original, including re-acquiring any owned
// callback reference — required because user code may hold a scheme
// and its clone concurrently across generations (spec property #8).
type Scheme interface {
	Mate(rng *rand.Rand, pop population.Population, gen int) error
	Clone() Scheme
}

// NoMatingScheme passes the population through unchanged, for drivers
// that want a uniform Scheme even on generations where mating is
// skipped.
type NoMatingScheme struct{}

// Mate implements Scheme by doing nothing.
func (NoMatingScheme) Mate(rng *rand.Rand, pop population.Population, gen int) error {
	return nil
}

// Clone implements Scheme. NoMatingScheme carries no state, so a clone
// is just another zero value.
func (NoMatingScheme) Clone() Scheme {
	return NoMatingScheme{}
}

// BinomialSelectionScheme implements asexual mating: one parent per
// family, drawn with replacement and weighted by fitness.
type BinomialSelectionScheme struct {
	cfg     MatingConfig
	layout  population.Layout
	famSize *familySizeSampler
	offGen  *offspringGenerator
}

// NewBinomialSelectionScheme validates cfg and builds a scheme bound
// to layout.
func NewBinomialSelectionScheme(layout population.Layout, cfg MatingConfig) (*BinomialSelectionScheme, error) {
	famSize, err := newFamilySizeSampler(cfg)
	if err != nil {
		return nil, err
	}
	return &BinomialSelectionScheme{
		cfg:     cfg,
		layout:  layout,
		famSize: famSize,
		offGen:  newOffspringGenerator(layout, cfg.Ops),
	}, nil
}

// Mate implements Scheme.
func (s *BinomialSelectionScheme) Mate(rng *rand.Rand, pop population.Population, gen int) error {
	return runScheme(rng, pop, gen, s.cfg, s.famSize, s.offGen, func(subPop int) (parentChooser, error) {
		return newBinomialChooser(pop, subPop), nil
	})
}

// Clone implements Scheme, returning an independent scheme over the
// same layout and config. offGen carries no per-generation state (its
// fields are decided once at construction), so it is safe to share.
func (s *BinomialSelectionScheme) Clone() Scheme {
	return &BinomialSelectionScheme{cfg: s.cfg, layout: s.layout, famSize: s.famSize.clone(), offGen: s.offGen}
}

// RandomMatingScheme implements sexual mating: one father and one
// mother per family, drawn independently from the male and female
// partitions of the subpop.
type RandomMatingScheme struct {
	cfg     MatingConfig
	layout  population.Layout
	famSize *familySizeSampler
	offGen  *offspringGenerator
}

// NewRandomMatingScheme validates cfg and builds a scheme bound to
// layout, which must declare a sex chromosome.
func NewRandomMatingScheme(layout population.Layout, cfg MatingConfig) (*RandomMatingScheme, error) {
	famSize, err := newFamilySizeSampler(cfg)
	if err != nil {
		return nil, err
	}
	return &RandomMatingScheme{
		cfg:     cfg,
		layout:  layout,
		famSize: famSize,
		offGen:  newOffspringGenerator(layout, cfg.Ops),
	}, nil
}

// Mate implements Scheme.
func (s *RandomMatingScheme) Mate(rng *rand.Rand, pop population.Population, gen int) error {
	return runScheme(rng, pop, gen, s.cfg, s.famSize, s.offGen, func(subPop int) (parentChooser, error) {
		return newRandomMatingChooser(pop, subPop, s.cfg.ContWhenUniSex, s.cfg.observer())
	})
}

// Clone implements Scheme, returning an independent scheme over the
// same layout and config.
func (s *RandomMatingScheme) Clone() Scheme {
	return &RandomMatingScheme{cfg: s.cfg, layout: s.layout, famSize: s.famSize.clone(), offGen: s.offGen}
}

// runScheme is the shared C5 driver loop: resize into a scratch
// population, fill every subpop family-by-family using the supplied
// chooser, then commit the scratch over pop atomically. Grounded on
// the original's submitScratch pattern: clear the "selection" flag,
// record realized family sizes, and swap populations only once the
// whole scratch is filled.
func runScheme(rng *rand.Rand, pop population.Population, gen int, cfg MatingConfig, famSize *familySizeSampler, offGen *offspringGenerator, newChooser func(subPop int) (parentChooser, error)) error {
	sizes, err := resizeSubPops(cfg, pop, gen)
	if err != nil {
		return err
	}
	scratch := population.New(pop.Layout(), sizes)

	famSize.resetNumOffspring()
	var famSizes []int
	obs := cfg.observer()

	for subPop := 0; subPop < scratch.NumSubPop(); subPop++ {
		chooser, err := newChooser(subPop)
		if err != nil {
			return err
		}
		cursor := scratch.SubPopBegin(subPop)
		end := scratch.SubPopEnd(subPop)
		zeroStreak := 0

		for cursor < end {
			dad, mom := chooser.chooseParents(rng)
			if dad == nil {
				return fmt.Errorf("%w: subpop %d has no eligible parents", ErrFeasibility, subPop)
			}

			numOff, err := famSize.numOffspring(rng, gen)
			if err != nil {
				return err
			}
			if numOff <= 0 {
				zeroStreak++
				if zeroStreak > maxZeroFamilyStreak {
					return fmt.Errorf("%w: subpop %d produced %d consecutive empty families", ErrFeasibility, subPop, zeroStreak)
				}
				continue
			}
			zeroStreak = 0

			before := cursor
			cursor = offGen.generateFamily(rng, scratch, dad, mom, numOff, cursor, end)
			produced := cursor - before
			famSizes = append(famSizes, produced)
			obs.FamilySize(subPop, produced)
		}
	}

	pop.SetBoolVar("selection", false)
	pop.SetIntVectorVar("famSizes", famSizes)
	if err := pop.PushAndDiscard(scratch); err != nil {
		return err
	}
	obs.Commit(famSizes)
	return nil
}
