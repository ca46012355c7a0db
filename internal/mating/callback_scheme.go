package mating

import (
	"fmt"
	"math/rand"

	"matingcore/internal/operator"
	"matingcore/internal/population"
)

// FullMatingFunc fully owns offspring production for one generation:
// given the current population, a pre-sized scratch population, and
// the during-mating operator list, it must populate scratch and report
// whether it succeeded (spec.md §4.7). This path is explicitly slow
// and meant for prototyping, not production runs.
type FullMatingFunc func(pop, scratch population.Population, ops []operator.Operator) (bool, error)

// CallbackScheme implements C7: delegate all of C5 to an externally
// supplied function, applying the same resize-then-commit-or-abort
// discipline as the built-in schemes. It owns its callback through a
// CallbackHandle for its entire lifetime; Close releases that
// ownership once the scheme will no longer be used.
type CallbackScheme struct {
	cfg    MatingConfig
	handle *CallbackHandle[FullMatingFunc]
}

// NewCallbackScheme builds a scheme that calls fn once per generation.
func NewCallbackScheme(cfg MatingConfig, fn FullMatingFunc) (*CallbackScheme, error) {
	if fn == nil {
		return nil, fmt.Errorf("%w: CallbackScheme requires a non-nil FullMatingFunc", ErrConfiguration)
	}
	return &CallbackScheme{cfg: cfg, handle: NewCallbackHandle(fn)}, nil
}

// Close releases this scheme's ownership of its callback handle. A
// scheme must not be used after Close.
func (s *CallbackScheme) Close() {
	s.handle.Release()
}

// Clone implements Scheme. The clone re-acquires the shared callback
// (spec.md §9: "each clone re-acquires"), so the original and the
// clone can each be Closed independently without invalidating the
// other.
func (s *CallbackScheme) Clone() Scheme {
	return &CallbackScheme{cfg: s.cfg, handle: s.handle.Clone()}
}

// Mate implements Scheme. On callback failure the primary population
// is left untouched and an error wrapping ErrCallback is returned
// (spec.md §8 S6).
func (s *CallbackScheme) Mate(rng *rand.Rand, pop population.Population, gen int) error {
	if s.handle.Released() {
		return fmt.Errorf("%w: CallbackScheme used after Close", ErrConfiguration)
	}

	sizes, err := resizeSubPops(s.cfg, pop, gen)
	if err != nil {
		return err
	}
	scratch := population.New(pop.Layout(), sizes)

	fn := s.handle.Func()
	ok, err := fn(pop, scratch, s.cfg.Ops)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCallback, err)
	}
	if !ok {
		return fmt.Errorf("%w: full-mating callback reported failure", ErrCallback)
	}

	pop.SetBoolVar("selection", false)
	if err := pop.PushAndDiscard(scratch); err != nil {
		return err
	}
	s.cfg.observer().Commit(nil)
	return nil
}
