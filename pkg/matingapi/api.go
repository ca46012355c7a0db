// Package matingapi is the public surface for driving a mating run:
// request/response DTOs plus a Client that wires internal/mating's
// schemes to a seeded synthetic population and a diagnostics store.
// Mirrors the teacher's pkg/protogonos: a thin Client over the real
// orchestration package (internal/platform there, internal/mating
// here), translating between primitive request fields and the
// package's own config/option types.
package matingapi

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"matingcore/internal/diagnostics"
	"matingcore/internal/mating"
	"matingcore/internal/population"
	"matingcore/internal/storage"
)

const defaultDBPath = "matingcore.db"

// Options configures a Client's persistence backend.
type Options struct {
	StoreKind string
	DBPath    string
}

// Client owns a diagnostics store across one or more runs.
type Client struct {
	store       storage.Store
	initialized bool
}

// New builds a Client against the requested store backend ("" and
// "memory" select storage.NewMemoryStore; "sqlite" requires a build
// tagged `sqlite`).
func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}
	return &Client{store: store}, nil
}

// Close releases the client's store, if the backend holds a resource.
func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) ensureInit(ctx context.Context) error {
	if c.initialized {
		return nil
	}
	if err := c.store.Init(ctx); err != nil {
		return err
	}
	c.initialized = true
	return nil
}

// RunRequest describes one mating run: the population to seed, the
// scheme to drive it with, and how many generations to run.
type RunRequest struct {
	RunID string

	// Population layout.
	SubPopSizes    []int
	Ploidy         int
	ChromosomeLoci []int // locus count per chromosome, in order
	HasSexChrom    bool
	SeedNumAlleles int

	// Scheme selects the C5 driver: "binomial" (asexual),
	// "random_mating" (sexual), "controlled_binomial",
	// "controlled_random_mating".
	Scheme string

	// Family size (C2).
	Mode            string // "fixed" | "geometric" | "poisson" | "binomial" | "uniform"; "per_family_callback" is rejected
	NumOffspring    float64
	MaxNumOffspring int

	// Subpopulation resizing (C3); at most one of these should be set.
	NewSubPopSize     []int
	NewSubPopSizeExpr string

	ContWhenUniSex bool

	// Frequency control (C6), only consulted when Scheme starts with
	// "controlled_".
	ControlLoci        []int
	ControlAlleles     []int
	ControlFreqLo      float64
	ControlFreqHi      float64
	ControlMaxAttempts int

	Generations int
	Seed        int64
}

// GenerationSummary reports one generation's realized family sizes and
// any warnings raised while producing it.
type GenerationSummary struct {
	Generation  int
	SubPopSizes []int
	FamSizes    []int
	Warnings    []string
}

// RunSummary is returned by Run; the configured store receives the
// matching diagnostics.RunSummary.
type RunSummary struct {
	RunID       string
	Scheme      string
	Generations []GenerationSummary
	FinalSizes  []int
}

// Run seeds a synthetic population from req, builds the requested
// scheme, advances it req.Generations times, and persists a
// diagnostics.RunSummary to the client's store.
func (c *Client) Run(ctx context.Context, req RunRequest) (RunSummary, error) {
	if err := c.ensureInit(ctx); err != nil {
		return RunSummary{}, err
	}
	if req.Generations <= 0 {
		req.Generations = 1
	}
	if req.RunID == "" {
		req.RunID = fmt.Sprintf("%s-%d", orDefault(req.Scheme, "run"), time.Now().UTC().UnixNano())
	}

	layout, err := buildLayout(req)
	if err != nil {
		return RunSummary{}, err
	}
	cfg, err := buildMatingConfig(req)
	if err != nil {
		return RunSummary{}, err
	}

	rng := rand.New(rand.NewSource(req.Seed))
	pop := population.Seed(rng, population.SeedConfig{
		Layout:      layout,
		SubPopSizes: req.SubPopSizes,
		Sexed:       layout.HasSexChrom,
		NumAlleles:  req.SeedNumAlleles,
	})

	obs := &diagnostics.RecordingObserver{}
	cfg.Observer = obs
	scheme, err := buildScheme(req, layout, cfg)
	if err != nil {
		return RunSummary{}, err
	}

	run := diagnostics.RunSummary{
		RunID:      req.RunID,
		SchemeName: req.Scheme,
		StartedAt:  time.Now().UTC(),
	}
	if err := c.store.SaveRun(ctx, run); err != nil {
		return RunSummary{}, err
	}
	summary := RunSummary{RunID: req.RunID, Scheme: req.Scheme}

	for gen := 0; gen < req.Generations; gen++ {
		*obs = diagnostics.RecordingObserver{}
		if err := scheme.Mate(rng, pop, gen); err != nil {
			return RunSummary{}, fmt.Errorf("generation %d: %w", gen, err)
		}

		record := diagnostics.GenerationRecord{
			Generation:  gen,
			SubPopSizes: currentSizes(pop),
			TotalSize:   pop.TotalSize(),
			FamSizes:    obs.FamSizes,
			Warnings:    obs.Warnings,
			Committed:   obs.Committed,
			RecordedAt:  time.Now().UTC(),
		}
		run.Generations = append(run.Generations, record)
		summary.Generations = append(summary.Generations, GenerationSummary{
			Generation:  gen,
			SubPopSizes: record.SubPopSizes,
			FamSizes:    record.FamSizes,
			Warnings:    record.Warnings,
		})

		if err := c.store.AppendGeneration(ctx, req.RunID, record); err != nil {
			return RunSummary{}, err
		}
	}

	run.FinishedAt = time.Now().UTC()
	if err := c.store.SaveRun(ctx, run); err != nil {
		return RunSummary{}, err
	}

	summary.FinalSizes = currentSizes(pop)
	return summary, nil
}

// RunsRequest parameterizes Runs.
type RunsRequest struct {
	Limit int
}

// Runs lists previously persisted run IDs, oldest first (insertion
// order in the memory store, start time in sqlite), truncated to Limit
// when positive.
func (c *Client) Runs(ctx context.Context, req RunsRequest) ([]string, error) {
	if err := c.ensureInit(ctx); err != nil {
		return nil, err
	}
	ids, err := c.store.ListRuns(ctx)
	if err != nil {
		return nil, err
	}
	if req.Limit > 0 && len(ids) > req.Limit {
		ids = ids[:req.Limit]
	}
	return ids, nil
}

// Diagnostics fetches the full persisted diagnostics.RunSummary for
// runID.
func (c *Client) Diagnostics(ctx context.Context, runID string) (diagnostics.RunSummary, error) {
	if err := c.ensureInit(ctx); err != nil {
		return diagnostics.RunSummary{}, err
	}
	run, ok, err := c.store.GetRun(ctx, runID)
	if err != nil {
		return diagnostics.RunSummary{}, err
	}
	if !ok {
		return diagnostics.RunSummary{}, fmt.Errorf("run not found: %s", runID)
	}
	return run, nil
}

func currentSizes(pop population.Population) []int {
	sizes := make([]int, pop.NumSubPop())
	for i := range sizes {
		sizes[i] = pop.SubPopSize(i)
	}
	return sizes
}

func buildLayout(req RunRequest) (population.Layout, error) {
	if req.Ploidy <= 0 {
		return population.Layout{}, fmt.Errorf("%w: ploidy must be >= 1", mating.ErrConfiguration)
	}
	if len(req.ChromosomeLoci) == 0 {
		return population.Layout{}, fmt.Errorf("%w: at least one chromosome is required", mating.ErrConfiguration)
	}
	chroms := make([]population.ChromosomeRange, len(req.ChromosomeLoci))
	cursor := 0
	for i, n := range req.ChromosomeLoci {
		if n <= 0 {
			return population.Layout{}, fmt.Errorf("%w: chromosome %d must have at least one locus", mating.ErrConfiguration, i)
		}
		chroms[i] = population.ChromosomeRange{Begin: cursor, End: cursor + n}
		cursor += n
	}
	return population.Layout{Ploidy: req.Ploidy, Chromosomes: chroms, HasSexChrom: req.HasSexChrom}, nil
}

func familySizeModeFromName(name string) (mating.FamilySizeMode, error) {
	switch name {
	case "", "fixed":
		return mating.ModeFixed, nil
	case "per_family_callback":
		return mating.ModePerFamilyCallback, nil
	case "geometric":
		return mating.ModeGeometric, nil
	case "poisson":
		return mating.ModePoisson, nil
	case "binomial":
		return mating.ModeBinomial, nil
	case "uniform":
		return mating.ModeUniform, nil
	default:
		return 0, fmt.Errorf("%w: unknown family size mode %q", mating.ErrConfiguration, name)
	}
}

func buildMatingConfig(req RunRequest) (mating.MatingConfig, error) {
	mode, err := familySizeModeFromName(req.Mode)
	if err != nil {
		return mating.MatingConfig{}, err
	}
	if mode == mating.ModePerFamilyCallback {
		return mating.MatingConfig{}, fmt.Errorf("%w: per_family_callback mode requires a Go callback, not available from RunRequest", mating.ErrConfiguration)
	}
	return mating.MatingConfig{
		Mode:              mode,
		NumOffspring:      req.NumOffspring,
		MaxNumOffspring:   req.MaxNumOffspring,
		NewSubPopSize:     req.NewSubPopSize,
		NewSubPopSizeExpr: req.NewSubPopSizeExpr,
		ContWhenUniSex:    req.ContWhenUniSex,
	}, nil
}

func buildScheme(req RunRequest, layout population.Layout, cfg mating.MatingConfig) (mating.Scheme, error) {
	switch req.Scheme {
	case "", "binomial":
		return mating.NewBinomialSelectionScheme(layout, cfg)
	case "random_mating":
		return mating.NewRandomMatingScheme(layout, cfg)
	case "controlled_binomial":
		spec, err := controlSpecFromRequest(req)
		if err != nil {
			return nil, err
		}
		inner, err := mating.NewBinomialSelectionScheme(layout, cfg)
		if err != nil {
			return nil, err
		}
		return mating.NewControlledBinomialSelection(inner, spec)
	case "controlled_random_mating":
		spec, err := controlSpecFromRequest(req)
		if err != nil {
			return nil, err
		}
		return mating.NewControlledRandomMating(layout, cfg, spec)
	default:
		return nil, fmt.Errorf("%w: unknown scheme %q", mating.ErrConfiguration, req.Scheme)
	}
}

func controlSpecFromRequest(req RunRequest) (mating.ControlSpec, error) {
	if len(req.ControlLoci) == 0 {
		return mating.ControlSpec{}, errors.New("controlled schemes require ControlLoci/ControlAlleles")
	}
	lo, hi := req.ControlFreqLo, req.ControlFreqHi
	return mating.ControlSpec{
		Loci:    req.ControlLoci,
		Alleles: req.ControlAlleles,
		FreqFunc: func(int) []float64 {
			out := make([]float64, 0, 2*len(req.ControlLoci))
			for range req.ControlLoci {
				out = append(out, lo, hi)
			}
			return out
		},
		MaxAttempts: req.ControlMaxAttempts,
	}, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
