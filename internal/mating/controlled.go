package mating

import (
	"fmt"
	"math/rand"

	"matingcore/internal/genome"
	"matingcore/internal/population"
)

// defaultControlAttempts bounds the controlled-asexual rejection loop
// when ControlSpec.MaxAttempts is left at zero.
const defaultControlAttempts = 50

// FreqFunc returns, for generation gen, either one lower bound per
// locus (paired with ControlSpec.Range to form `[v, v+Range]`) or
// explicit `[lo1, hi1, lo2, hi2, ...]` pairs — spec.md §3's frequency
// callback.
type FreqFunc func(gen int) []float64

// ControlSpec implements C6's per-locus target-interval contract: an
// ordered list of loci, a parallel list of target alleles, and a
// callback supplying the target frequency interval for each, evaluated
// once per generation. Range is added to each lower bound when FreqFunc
// returns one value per locus; it is ignored when FreqFunc returns
// [lo, hi] pairs.
type ControlSpec struct {
	Loci        []int
	Alleles     []int
	FreqFunc    FreqFunc
	Range       float64
	MaxAttempts int // controlled-asexual attempt budget; <= 0 uses defaultControlAttempts
}

func (spec ControlSpec) validate() error {
	if len(spec.Loci) == 0 || len(spec.Loci) != len(spec.Alleles) {
		return fmt.Errorf("%w: ControlSpec requires len(Loci) == len(Alleles) >= 1", ErrConfiguration)
	}
	if spec.FreqFunc == nil {
		return fmt.Errorf("%w: ControlSpec requires FreqFunc", ErrConfiguration)
	}
	return nil
}

// targetCounts converts the frequency callback's return value for
// generation gen into per-locus [lo, hi] allele-count intervals over a
// population of totalSize individuals.
func (spec ControlSpec) targetCounts(gen, totalSize int) (lo, hi []int, err error) {
	raw := spec.FreqFunc(gen)
	numLoci := len(spec.Loci)

	lo = make([]int, numLoci)
	hi = make([]int, numLoci)
	switch len(raw) {
	case numLoci:
		for i, v := range raw {
			lo[i] = int(v * float64(totalSize))
			hi[i] = int((v + spec.Range) * float64(totalSize))
		}
	case 2 * numLoci:
		for i := 0; i < numLoci; i++ {
			lo[i] = int(raw[2*i] * float64(totalSize))
			hi[i] = int(raw[2*i+1] * float64(totalSize))
		}
	default:
		return nil, nil, fmt.Errorf("%w: frequency callback returned %d values, want %d or %d",
			ErrCallback, len(raw), numLoci, 2*numLoci)
	}
	for i := range lo {
		if hi[i] < lo[i] {
			return nil, nil, fmt.Errorf("%w: locus %d has an empty target interval (lo=%d hi=%d)", ErrConfiguration, i, lo[i], hi[i])
		}
	}
	return lo, hi, nil
}

// satisfied reports whether pop's realized allele counts fall within
// [lo, hi] at every controlled locus.
func (spec ControlSpec) satisfied(pop population.Population, lo, hi []int) bool {
	for i, locus := range spec.Loci {
		count := 0
		for idx := 0; idx < pop.TotalSize(); idx++ {
			count += countAllele(pop.Individual(idx), locus, spec.Alleles[i])
		}
		if count < lo[i] || count > hi[i] {
			return false
		}
	}
	return true
}

func (spec ControlSpec) attemptBudget() int {
	if spec.MaxAttempts > 0 {
		return spec.MaxAttempts
	}
	return defaultControlAttempts
}

func countAllele(ind *genome.Individual, locus, allele int) int {
	count := 0
	for _, copyAlleles := range ind.Genotype {
		if int(copyAlleles[locus]) == allele {
			count++
		}
	}
	return count
}

// ControlledBinomialSelection implements the controlled-asexual C6
// variant (spec.md §4.6): repeatedly run an inner binomial-selection
// driver into a trial generation until its realized allele counts fall
// within target, then commit; exceeding the attempt budget is fatal.
// Mirrors the original's controlledMating, which takes a reference to
// an already-constructed mating scheme and stores matingScheme.clone()
// rather than building one itself: NewControlledBinomialSelection
// takes a caller-built inner scheme and clones it once, owning that
// clone for this scheme's entire lifetime (spec.md §9: "the controller
// owns a cloned inner scheme"), never rebuilding or recloning it per
// attempt or per generation.
type ControlledBinomialSelection struct {
	layout population.Layout
	spec   ControlSpec
	inner  *BinomialSelectionScheme
}

// NewControlledBinomialSelection validates spec and clones inner,
// binding the controlled scheme to inner's layout.
func NewControlledBinomialSelection(inner *BinomialSelectionScheme, spec ControlSpec) (*ControlledBinomialSelection, error) {
	if inner == nil {
		return nil, fmt.Errorf("%w: ControlledBinomialSelection requires a non-nil inner scheme", ErrConfiguration)
	}
	if err := spec.validate(); err != nil {
		return nil, err
	}
	return &ControlledBinomialSelection{
		layout: inner.layout,
		spec:   spec,
		inner:  inner.Clone().(*BinomialSelectionScheme),
	}, nil
}

// Mate implements Scheme.
func (s *ControlledBinomialSelection) Mate(rng *rand.Rand, pop population.Population, gen int) error {
	budget := s.spec.attemptBudget()
	for attempt := 0; attempt < budget; attempt++ {
		trial := pop.Clone()
		if err := s.inner.Mate(rng, trial, gen); err != nil {
			return err
		}
		lo, hi, err := s.spec.targetCounts(gen, trial.TotalSize())
		if err != nil {
			return err
		}
		if s.spec.satisfied(trial, lo, hi) {
			return pop.PushAndDiscard(trial)
		}
	}
	return fmt.Errorf("%w: controlled binomial selection missed its frequency target in %d attempts", ErrFeasibility, budget)
}

// Clone implements Scheme, re-cloning the owned inner scheme so the
// clone holds an independent instance rather than sharing the
// original's.
func (s *ControlledBinomialSelection) Clone() Scheme {
	return &ControlledBinomialSelection{
		layout: s.layout,
		spec:   s.spec,
		inner:  s.inner.Clone().(*BinomialSelectionScheme),
	}
}

// ControlledRandomMating implements the controlled-sexual C6 variant
// (spec.md §4.6): an online-steering random-mating driver that accepts
// or rejects each candidate offspring as it is produced, keeping a
// running per-locus allele count feasible against the remaining
// scratch slots rather than rejecting whole generations.
type ControlledRandomMating struct {
	layout  population.Layout
	cfg     MatingConfig
	famSize *familySizeSampler
	offGen  *offspringGenerator
	spec    ControlSpec
}

// NewControlledRandomMating validates spec and cfg and builds a
// controlled scheme bound to layout, which must declare a sex
// chromosome.
func NewControlledRandomMating(layout population.Layout, cfg MatingConfig, spec ControlSpec) (*ControlledRandomMating, error) {
	if err := spec.validate(); err != nil {
		return nil, err
	}
	famSize, err := newFamilySizeSampler(cfg)
	if err != nil {
		return nil, err
	}
	return &ControlledRandomMating{
		layout:  layout,
		cfg:     cfg,
		famSize: famSize,
		offGen:  newOffspringGenerator(layout, cfg.Ops),
		spec:    spec,
	}, nil
}

// Mate implements Scheme.
func (s *ControlledRandomMating) Mate(rng *rand.Rand, pop population.Population, gen int) error {
	sizes, err := resizeSubPops(s.cfg, pop, gen)
	if err != nil {
		return err
	}
	scratch := population.New(pop.Layout(), sizes)

	lo, hi, err := s.spec.targetCounts(gen, scratch.TotalSize())
	if err != nil {
		return err
	}

	s.famSize.resetNumOffspring()
	obs := s.cfg.observer()
	counts := make([]int, len(s.spec.Loci))
	var famSizes []int

	for subPop := 0; subPop < scratch.NumSubPop(); subPop++ {
		chooser, err := newRandomMatingChooser(pop, subPop, s.cfg.ContWhenUniSex, obs)
		if err != nil {
			return err
		}

		cursor := scratch.SubPopBegin(subPop)
		end := scratch.SubPopEnd(subPop)
		zeroStreak := 0
		stalledFamilies := 0
		maxStalledFamilies := (end-cursor+1) * maxOffspringAttemptMultiplier

		for cursor < end {
			if stalledFamilies > maxStalledFamilies {
				return fmt.Errorf("%w: subpop %d could not steer toward its frequency target", ErrFeasibility, subPop)
			}
			before := cursor
			dad, mom := chooser.chooseParents(rng)
			if dad == nil {
				return fmt.Errorf("%w: subpop %d has no eligible parents", ErrFeasibility, subPop)
			}
			numOff, err := s.famSize.numOffspring(rng, gen)
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
			if numOff > end-cursor {
				numOff = end - cursor
			}

			placed := 0
			slotAttempts := 0
			maxSlotAttempts := numOff * maxOffspringAttemptMultiplier
			for placed < numOff && cursor < end && slotAttempts < maxSlotAttempts {
				slotAttempts++
				next := s.offGen.generateFamily(rng, scratch, dad, mom, 1, cursor, cursor+1)
				if next == cursor {
					// operator rejected this candidate outright.
					break
				}

				candidate := scratch.Individual(cursor)
				deltas := make([]int, len(s.spec.Loci))
				for li, locus := range s.spec.Loci {
					deltas[li] = countAllele(candidate, locus, s.spec.Alleles[li])
				}

				// counts and bounds cover the whole scratch, and subpops are
				// filled in order, so every later slot is still open.
				remaining := scratch.TotalSize() - next
				feasible := true
				for li := range s.spec.Loci {
					c := counts[li] + deltas[li]
					if c > hi[li] || c+remaining*s.layout.Ploidy < lo[li] {
						feasible = false
						break
					}
				}

				if !feasible {
					*candidate = genome.New(s.layout.Ploidy, s.layout.NumLoci())
					continue
				}

				for li := range s.spec.Loci {
					counts[li] += deltas[li]
				}
				cursor = next
				placed++
			}

			famSizes = append(famSizes, placed)
			obs.FamilySize(subPop, placed)

			if cursor == before {
				stalledFamilies++
			} else {
				stalledFamilies = 0
			}
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

// Clone implements Scheme, returning an independent scheme over the
// same layout, config and control spec.
func (s *ControlledRandomMating) Clone() Scheme {
	return &ControlledRandomMating{
		layout:  s.layout,
		cfg:     s.cfg,
		famSize: s.famSize.clone(),
		offGen:  s.offGen,
		spec:    s.spec,
	}
}
