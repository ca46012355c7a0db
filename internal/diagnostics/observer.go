// Package diagnostics replaces simuPOP's debug-only famSizes reporting
// with an injected observer, so the mating core stays build-flag
// independent (see mating.h's DBG_DO(DBG_MATING, ...) guards).
package diagnostics

import (
	"fmt"
	"os"
)

// Observer receives progress and warning events from a mating cycle.
// The mating core never calls a nil Observer: MatingConfig substitutes
// NopObserver when none is set.
type Observer interface {
	// FamilySize is called once per family, after the family size
	// sampler decides how many offspring to attempt.
	FamilySize(subPop int, size int)
	// Warning is called for non-fatal conditions, e.g. the uni-sex
	// same-sex fallback in sexual random mating.
	Warning(msg string)
	// Commit is called after a scratch generation is swapped in, with
	// the realized family sizes (one entry per family, in subpopulation
	// order; CallbackScheme passes nil). ControlledBinomialSelection's
	// inner driver commits every trial generation, so its observer sees
	// one Commit, and that trial's FamilySize events, per trial.
	Commit(famSizes []int)
}

// NopObserver discards every event.
type NopObserver struct{}

func (NopObserver) FamilySize(int, int) {}
func (NopObserver) Warning(string)      {}
func (NopObserver) Commit([]int)        {}

// StderrObserver writes events to os.Stderr,
// matching the teacher's fmt.Fprintln(os.Stderr, ...) reporting style
// (cmd/protogonosctl/main.go) rather than a logging library, since the
// corpus never imports one.
type StderrObserver struct {
	Prefix string
}

func (o StderrObserver) FamilySize(subPop int, size int) {
	fmt.Fprintf(os.Stderr, "%sfamily size: subpop=%d size=%d\n", o.prefix(), subPop, size)
}

func (o StderrObserver) Warning(msg string) {
	fmt.Fprintf(os.Stderr, "%swarning: %s\n", o.prefix(), msg)
}

func (o StderrObserver) Commit(famSizes []int) {
	fmt.Fprintf(os.Stderr, "%scommit: famSizes=%v\n", o.prefix(), famSizes)
}

func (o StderrObserver) prefix() string {
	if o.Prefix == "" {
		return ""
	}
	return o.Prefix + ": "
}

// RecordingObserver accumulates events for test assertions and for the
// CLI's run-summary reporting; it never writes to stderr.
type RecordingObserver struct {
	FamilySizes []FamilySizeEvent
	Warnings    []string
	FamSizes    []int
	Committed   bool
}

type FamilySizeEvent struct {
	SubPop int
	Size   int
}

func (o *RecordingObserver) FamilySize(subPop int, size int) {
	o.FamilySizes = append(o.FamilySizes, FamilySizeEvent{SubPop: subPop, Size: size})
}

func (o *RecordingObserver) Warning(msg string) {
	o.Warnings = append(o.Warnings, msg)
}

func (o *RecordingObserver) Commit(famSizes []int) {
	o.FamSizes = append([]int(nil), famSizes...)
	o.Committed = true
}
