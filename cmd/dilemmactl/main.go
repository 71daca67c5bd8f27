package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dilemma/internal/evo"
	"dilemma/internal/model"
	"dilemma/internal/stats"
	"dilemma/internal/storage"
	"dilemma/internal/strategy"
	dilemmaapi "dilemma/pkg/dilemma"
)

const exportsDir = "exports"

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
	case "init":
		return runInit(ctx, args[1:])
	case "strategies":
		return runStrategies(ctx, args[1:])
	case "tournament":
		return runTournament(ctx, args[1:])
	case "evolve":
		return runEvolve(ctx, args[1:])
	case "sweep":
		return runSweep(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	case "scores":
		return runScores(ctx, args[1:])
	case "population":
		return runPopulation(ctx, args[1:])
	case "transcript":
		return runTranscript(ctx, args[1:])
	case "export":
		return runExport(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func runInit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "dilemma.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := storage.NewStore(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = storage.CloseIfSupported(store)
	}()

	if err := store.Init(ctx); err != nil {
		return err
	}

	fmt.Printf("initialized store=%s\n", *storeKind)
	return nil
}

func runStrategies(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("strategies", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	for _, name := range strategy.Names() {
		fmt.Println(name)
	}
	return nil
}

func runTournament(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tournament", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "dilemma.db", "sqlite database path")
	runID := fs.String("run-id", "", "run id (generated when empty)")
	roster := fs.String("roster", "", "comma-separated strategy kinds (all registered when empty)")
	payoffs := fs.String("payoffs", "classical-rewards", "payoff preset: classical-rewards|classical-sentences|extended-sentences")
	moves := fs.Int("moves", 10, "moves per match")
	mistake := fs.Float64("mistake", 0, "per-move mistake probability in [0,1]")
	seed := fs.Int64("seed", 42, "random seed")
	workers := fs.Int("workers", 1, "parallel match workers")
	transcripts := fs.Bool("transcripts", false, "retain match transcripts")
	if err := fs.Parse(args); err != nil {
		return err
	}

	table, ok := model.PresetPayoffTable(*payoffs)
	if !ok {
		return fmt.Errorf("unknown payoff preset: %s", *payoffs)
	}

	client, err := dilemmaapi.NewClient(ctx, dilemmaapi.Options{StoreKind: *storeKind, DBPath: *dbPath})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Tournament(ctx, dilemmaapi.TournamentRequest{
		RunID:           *runID,
		Roster:          splitRoster(*roster),
		Payoffs:         table,
		Moves:           *moves,
		MistakeProb:     *mistake,
		Seed:            *seed,
		Workers:         *workers,
		KeepTranscripts: *transcripts,
	})
	if err != nil {
		return err
	}

	fmt.Printf("tournament completed run_id=%s matches=%d moves=%d mistake=%g seed=%d\n",
		summary.RunID, summary.MatchCount, *moves, *mistake, *seed)
	fmt.Print(stats.ScoreReport("Round-robin totals", summary.Ranked))
	return nil
}

func runEvolve(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("evolve", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "dilemma.db", "sqlite database path")
	runID := fs.String("run-id", "", "run id (generated when empty)")
	roster := fs.String("roster", "", "comma-separated strategy kinds (all registered when empty)")
	payoffs := fs.String("payoffs", "classical-rewards", "payoff preset")
	moves := fs.Int("moves", 10, "moves per pairing")
	mistake := fs.Float64("mistake", 0, "per-move mistake probability in [0,1]")
	startMultiple := fs.Int("start-multiple", 3, "initial instances per strategy kind")
	replaceCount := fs.Int("replace", 1, "instances replaced per iteration")
	iterations := fs.Int("iterations", 10, "evolution iterations")
	seed := fs.Int64("seed", 42, "random seed")
	workers := fs.Int("workers", 1, "parallel match workers")
	if err := fs.Parse(args); err != nil {
		return err
	}

	table, ok := model.PresetPayoffTable(*payoffs)
	if !ok {
		return fmt.Errorf("unknown payoff preset: %s", *payoffs)
	}

	client, err := dilemmaapi.NewClient(ctx, dilemmaapi.Options{StoreKind: *storeKind, DBPath: *dbPath})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Evolve(ctx, dilemmaapi.EvolveRequest{
		RunID:         *runID,
		Roster:        splitRoster(*roster),
		StartMultiple: *startMultiple,
		ReplaceCount:  *replaceCount,
		Iterations:    *iterations,
		Moves:         *moves,
		Payoffs:       table,
		MistakeProb:   *mistake,
		Seed:          *seed,
		Workers:       *workers,
	})
	if err != nil {
		return err
	}

	fmt.Printf("evolution completed run_id=%s population=%d iterations=%d seed=%d\n",
		summary.RunID, summary.PopulationSize, *iterations, *seed)
	fmt.Print(stats.PopulationReport(summary.Snapshots))
	fmt.Println("final composition:")
	for _, kind := range evo.SortedKinds(summary.FinalCounts) {
		fmt.Printf("%s\t%d\n", kind, summary.FinalCounts[kind])
	}
	return nil
}

func runSweep(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("sweep", flag.ContinueOnError)
	configPath := fs.String("config", "", "sweep config YAML path (required)")
	jsonOut := fs.Bool("json", false, "emit per-kind summaries as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *configPath == "" {
		return errors.New("config path is required")
	}

	sweepCfg, err := loadSweepConfig(*configPath)
	if err != nil {
		return err
	}

	client := dilemmaapi.NewClientWithStore(storage.NewMemoryStore())
	summary, err := client.Sweep(ctx, dilemmaapi.SweepRequest{Config: sweepCfg})
	if err != nil {
		return err
	}

	fmt.Printf("sweep completed points=%d\n", len(summary.Points))
	if *jsonOut {
		payload := struct {
			Summaries       []stats.KindSummary           `json:"summaries"`
			TotalsByMistake map[string]map[string]float64 `json:"totals_by_mistake"`
			TotalsByPayoffs map[string]map[string]float64 `json:"totals_by_payoffs"`
		}{summary.Summaries, summary.TotalsByMistake, summary.TotalsByPayoffs}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}
	fmt.Println("Strategy\tTotal\tMean\tStd")
	for _, item := range summary.Summaries {
		fmt.Printf("%s\t%g\t%g\t%g\n", item.Kind, item.Total, item.Mean, item.Std)
	}
	fmt.Print(stats.GroupedScoreReport("Totals by mistake rate", summary.TotalsByMistake))
	fmt.Print(stats.GroupedScoreReport("Totals by payoff table", summary.TotalsByPayoffs))
	return nil
}

func runRuns(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "dilemma.db", "sqlite database path")
	limit := fs.Int("limit", 20, "max runs to list")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *limit <= 0 {
		return errors.New("limit must be > 0")
	}

	client, err := dilemmaapi.NewClient(ctx, dilemmaapi.Options{StoreKind: *storeKind, DBPath: *dbPath})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	runs, err := client.Runs(ctx)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}
	if len(runs) > *limit {
		runs = runs[len(runs)-*limit:]
	}

	for _, run := range runs {
		fmt.Printf("run_id=%s mode=%s created=%s moves=%d mistake=%g seed=%d\n",
			run.ID, run.Mode, run.CreatedAtUTC, run.Moves, run.MistakeProb, run.Seed)
	}
	return nil
}

func runScores(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("scores", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "dilemma.db", "sqlite database path")
	runID := fs.String("run", "", "run id (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID == "" {
		return errors.New("run id is required")
	}

	client, err := dilemmaapi.NewClient(ctx, dilemmaapi.Options{StoreKind: *storeKind, DBPath: *dbPath})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	scores, err := client.Scores(ctx, *runID)
	if err != nil {
		return err
	}
	fmt.Print(stats.ScoreReport(fmt.Sprintf("Scores for run %s", *runID), scores))
	return nil
}

func runPopulation(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("population", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "dilemma.db", "sqlite database path")
	runID := fs.String("run", "", "run id (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID == "" {
		return errors.New("run id is required")
	}

	client, err := dilemmaapi.NewClient(ctx, dilemmaapi.Options{StoreKind: *storeKind, DBPath: *dbPath})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	snapshots, err := client.Snapshots(ctx, *runID)
	if err != nil {
		return err
	}
	fmt.Print(stats.PopulationReport(snapshots))
	return nil
}

func runTranscript(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("transcript", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "dilemma.db", "sqlite database path")
	runID := fs.String("run", "", "run id (required)")
	index := fs.Int("index", -1, "transcript index (all when negative)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID == "" {
		return errors.New("run id is required")
	}

	client, err := dilemmaapi.NewClient(ctx, dilemmaapi.Options{StoreKind: *storeKind, DBPath: *dbPath})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	transcripts, err := client.Transcripts(ctx, *runID)
	if err != nil {
		return err
	}
	if *index >= 0 {
		if *index >= len(transcripts) {
			return fmt.Errorf("transcript index %d out of range (run has %d)", *index, len(transcripts))
		}
		fmt.Print(stats.TranscriptReport(transcripts[*index]))
		return nil
	}
	for _, transcript := range transcripts {
		fmt.Print(stats.TranscriptReport(transcript))
		fmt.Println()
	}
	return nil
}

func runExport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "dilemma.db", "sqlite database path")
	runID := fs.String("run", "", "run id (required)")
	outDir := fs.String("out", exportsDir, "output directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID == "" {
		return errors.New("run id is required")
	}

	client, err := dilemmaapi.NewClient(ctx, dilemmaapi.Options{StoreKind: *storeKind, DBPath: *dbPath})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	dir, err := exportRun(ctx, client, *runID, *outDir)
	if err != nil {
		return err
	}
	fmt.Printf("exported run_id=%s dir=%s\n", *runID, filepath.Clean(dir))
	return nil
}

func splitRoster(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	roster := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			roster = append(roster, trimmed)
		}
	}
	return roster
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: dilemmactl <init|strategies|tournament|evolve|sweep|runs|scores|population|transcript|export> [flags]", msg)
}
