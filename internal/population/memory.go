package population

import (
	"matingcore/internal/genome"
)

// InMemoryPopulation is the module's concrete Population: a flat slice
// of Individuals partitioned into subpopulations by a boundary vector,
// plus the variable environment. Mirrors the teacher's MemoryStore in
// spirit (plain Go slices/maps behind a small interface) though it
// carries no storage.Store dependency of its own.
type InMemoryPopulation struct {
	layout       Layout
	individuals  []genome.Individual
	subPopBegins []int // length NumSubPop()+1

	boolVars  map[string]bool
	intVecVar map[string][]int
	floatVars map[string]float64
}

// New allocates a population with the given layout and per-subpopulation
// sizes, every individual zero-valued (ready to be filled by a mating
// scheme, or seeded by population.Seed for synthetic test/CLI inputs).
func New(layout Layout, subPopSizes []int) *InMemoryPopulation {
	begins := make([]int, len(subPopSizes)+1)
	total := 0
	for i, size := range subPopSizes {
		begins[i] = total
		total += size
	}
	begins[len(subPopSizes)] = total

	individuals := make([]genome.Individual, total)
	numLoci := layout.NumLoci()
	for i := range individuals {
		individuals[i] = genome.New(layout.Ploidy, numLoci)
	}

	return &InMemoryPopulation{
		layout:       layout,
		individuals:  individuals,
		subPopBegins: begins,
		boolVars:     make(map[string]bool),
		intVecVar:    make(map[string][]int),
		floatVars:    make(map[string]float64),
	}
}

func (p *InMemoryPopulation) Layout() Layout { return p.layout }

func (p *InMemoryPopulation) NumSubPop() int { return len(p.subPopBegins) - 1 }

func (p *InMemoryPopulation) SubPopSize(s int) int {
	return p.subPopBegins[s+1] - p.subPopBegins[s]
}

func (p *InMemoryPopulation) SubPopBegin(s int) int { return p.subPopBegins[s] }

func (p *InMemoryPopulation) SubPopEnd(s int) int { return p.subPopBegins[s+1] }

func (p *InMemoryPopulation) TotalSize() int { return len(p.individuals) }

func (p *InMemoryPopulation) Individual(i int) *genome.Individual {
	return &p.individuals[i]
}

func (p *InMemoryPopulation) SetBoolVar(name string, value bool) {
	p.boolVars[name] = value
}

func (p *InMemoryPopulation) BoolVar(name string) bool {
	return p.boolVars[name]
}

func (p *InMemoryPopulation) SetIntVectorVar(name string, value []int) {
	p.intVecVar[name] = append([]int(nil), value...)
}

func (p *InMemoryPopulation) IntVectorVar(name string) []int {
	return append([]int(nil), p.intVecVar[name]...)
}

func (p *InMemoryPopulation) SetFloatVar(name string, value float64) {
	p.floatVars[name] = value
}

func (p *InMemoryPopulation) FloatVar(name string) (float64, bool) {
	v, ok := p.floatVars[name]
	return v, ok
}

// Vars returns a copy of the float-valued variable environment, plus
// the builtin "popSize" (the population's current total size), for
// internal/sizeexpr to evaluate newSubPopSizeExpr against.
func (p *InMemoryPopulation) Vars() map[string]float64 {
	out := make(map[string]float64, len(p.floatVars)+1)
	for k, v := range p.floatVars {
		out[k] = v
	}
	out["popSize"] = float64(p.TotalSize())
	return out
}

// PushAndDiscard swaps scratch's individuals and subpop layout into p,
// discarding p's previous contents. The previous primary is not
// retained anywhere; this is the atomic commit point (spec.md §4.5, §5).
func (p *InMemoryPopulation) PushAndDiscard(scratch Population) error {
	src, ok := scratch.(*InMemoryPopulation)
	if !ok {
		return ErrLayoutMismatch
	}
	if !layoutsCompatible(p.layout, src.layout) {
		return ErrLayoutMismatch
	}

	p.individuals = src.individuals
	p.subPopBegins = src.subPopBegins
	// float/bool/int-vector vars persist across commit (they belong to
	// the lineage, not the generation); scratch's own vars are discarded.
	return nil
}

// Clone deep-copies p: a fresh individuals slice, a fresh subpop
// boundary vector, and copies of every variable map.
func (p *InMemoryPopulation) Clone() Population {
	individuals := make([]genome.Individual, len(p.individuals))
	for i, ind := range p.individuals {
		individuals[i] = ind.Clone()
	}
	out := &InMemoryPopulation{
		layout:       p.layout,
		individuals:  individuals,
		subPopBegins: append([]int(nil), p.subPopBegins...),
		boolVars:     make(map[string]bool, len(p.boolVars)),
		intVecVar:    make(map[string][]int, len(p.intVecVar)),
		floatVars:    make(map[string]float64, len(p.floatVars)),
	}
	for k, v := range p.boolVars {
		out.boolVars[k] = v
	}
	for k, v := range p.intVecVar {
		out.intVecVar[k] = append([]int(nil), v...)
	}
	for k, v := range p.floatVars {
		out.floatVars[k] = v
	}
	return out
}

func layoutsCompatible(a, b Layout) bool {
	if a.Ploidy != b.Ploidy || a.HasSexChrom != b.HasSexChrom {
		return false
	}
	if len(a.Chromosomes) != len(b.Chromosomes) {
		return false
	}
	for i := range a.Chromosomes {
		if a.Chromosomes[i] != b.Chromosomes[i] {
			return false
		}
	}
	return true
}
