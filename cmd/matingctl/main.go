package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/ncruces/go-strftime"

	"matingcore/internal/storage"
	"matingcore/pkg/matingapi"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "run":
		return runRun(ctx, args[1:])
	case "scheme-info":
		return runSchemeInfo(args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	case "diagnostics":
		return runDiagnostics(ctx, args[1:])
	case "bench":
		return runBench(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: matingctl <run|scheme-info|runs|diagnostics|bench> [flags]", msg)
}

func runRun(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	configPath := fs.String("config", "", "optional run config JSON path")
	scheme := fs.String("scheme", "binomial", "mating scheme: binomial|random_mating|controlled_binomial|controlled_random_mating")
	mode := fs.String("mode", "fixed", "family size mode: fixed|geometric|poisson|binomial|uniform")
	numOffspring := fs.Float64("num-offspring", 1, "family size parameter")
	maxNumOffspring := fs.Int("max-num-offspring", 0, "family size upper bound (binomial/uniform modes)")
	ploidy := fs.Int("ploidy", 2, "ploidy")
	population := fs.Int("pop", 50, "subpopulation size (single subpop)")
	loci := fs.Int("loci", 10, "locus count on the single chromosome")
	sexed := fs.Bool("sexed", false, "declare a sex chromosome and seed alternating sexes")
	contWhenUniSex := fs.Bool("cont-when-uni-sex", false, "fall back to unrestricted parent draws on a uni-sex subpop")
	generations := fs.Int("gens", 10, "generation count")
	seed := fs.Int64("seed", 1, "rng seed")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "matingcore.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	req, err := loadOrDefaultRunRequest(*configPath)
	if err != nil {
		return err
	}
	if *configPath == "" {
		req = matingapi.RunRequest{
			Scheme:          *scheme,
			Mode:            *mode,
			NumOffspring:    *numOffspring,
			MaxNumOffspring: *maxNumOffspring,
			Ploidy:          *ploidy,
			SubPopSizes:     []int{*population},
			ChromosomeLoci:  []int{*loci},
			HasSexChrom:     *sexed,
			ContWhenUniSex:  *contWhenUniSex,
			Generations:     *generations,
			Seed:            *seed,
		}
	}

	client, err := matingapi.New(matingapi.Options{StoreKind: *storeKind, DBPath: *dbPath})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	start := time.Now()
	summary, err := client.Run(ctx, req)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("run %s: scheme=%s generations=%s final_sizes=%v elapsed=%s\n",
		summary.RunID, summary.Scheme, humanize.Comma(int64(len(summary.Generations))), summary.FinalSizes, elapsed)
	return nil
}

func runSchemeInfo(args []string) error {
	fs := flag.NewFlagSet("scheme-info", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	fmt.Println("schemes:")
	fmt.Println("  binomial                  asexual, one parent per family")
	fmt.Println("  random_mating             sexual, one father and one mother per family")
	fmt.Println("  controlled_binomial       binomial selection steered to a target allele frequency")
	fmt.Println("  controlled_random_mating  random mating steered to a target allele frequency")
	fmt.Println("family size modes:")
	fmt.Println("  fixed | geometric | poisson | binomial | uniform")
	return nil
}

func runRuns(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "maximum runs to list")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "matingcore.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := matingapi.New(matingapi.Options{StoreKind: *storeKind, DBPath: *dbPath})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	ids, err := client.Runs(ctx, matingapi.RunsRequest{Limit: *limit})
	if err != nil {
		return err
	}
	fmt.Printf("%s run(s):\n", humanize.Comma(int64(len(ids))))
	for _, id := range ids {
		fmt.Printf("  %s\n", id)
	}
	return nil
}

func runDiagnostics(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("diagnostics", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "matingcore.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID == "" {
		return usageError("diagnostics requires -run-id")
	}

	client, err := matingapi.New(matingapi.Options{StoreKind: *storeKind, DBPath: *dbPath})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Diagnostics(ctx, *runID)
	if err != nil {
		return err
	}

	started := strftime.Format("%Y-%m-%d %H:%M:%S UTC", summary.StartedAt)
	fmt.Printf("run %s (%s), scheme=%s, started=%s\n", summary.RunID, humanize.Comma(int64(len(summary.Generations))), summary.SchemeName, started)
	for _, gen := range summary.Generations {
		fmt.Printf("  gen=%d sizes=%v fam_sizes=%v warnings=%v\n", gen.Generation, gen.SubPopSizes, gen.FamSizes, gen.Warnings)
	}
	return nil
}

func runBench(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("bench", flag.ContinueOnError)
	scheme := fs.String("scheme", "random_mating", "mating scheme to benchmark")
	population := fs.Int("pop", 1000, "subpopulation size")
	loci := fs.Int("loci", 20, "locus count on the single chromosome")
	generations := fs.Int("gens", 50, "generation count")
	seed := fs.Int64("seed", 1, "rng seed")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := matingapi.New(matingapi.Options{StoreKind: "memory"})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	req := matingapi.RunRequest{
		Scheme:         *scheme,
		Mode:           "fixed",
		NumOffspring:   1,
		Ploidy:         2,
		SubPopSizes:    []int{*population},
		ChromosomeLoci: []int{*loci},
		HasSexChrom:    *scheme == "random_mating" || *scheme == "controlled_random_mating",
		Generations:    *generations,
		Seed:           *seed,
	}

	start := time.Now()
	summary, err := client.Run(ctx, req)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	totalOffspring := *population * *generations
	rate := float64(totalOffspring) / elapsed.Seconds()
	fmt.Printf("bench %s: %s offspring in %s (%s offspring/s)\n",
		summary.RunID, humanize.Comma(int64(totalOffspring)), elapsed, humanize.Comma(int64(rate)))
	return nil
}
