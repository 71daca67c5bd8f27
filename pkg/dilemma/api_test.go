package dilemma

import (
	"context"
	"reflect"
	"testing"

	"dilemma/internal/model"
	"dilemma/internal/storage"
	"dilemma/internal/strategy"
	"dilemma/internal/sweep"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := NewClient(context.Background(), Options{StoreKind: "memory"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	t.Cleanup(func() {
		if err := client.Close(); err != nil {
			t.Errorf("close: %v", err)
		}
	})
	return client
}

func TestStrategiesMatchesCatalog(t *testing.T) {
	client := newTestClient(t)
	if !reflect.DeepEqual(client.Strategies(), strategy.Names()) {
		t.Fatalf("facade catalog diverged from registry")
	}
}

func TestTournamentPersistsRunAndScores(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	summary, err := client.Tournament(ctx, TournamentRequest{
		Roster:          []string{"always_cooperate", "always_defect", "tit_for_tat"},
		Payoffs:         model.ClassicalRewards,
		Moves:           10,
		Seed:            42,
		Workers:         2,
		KeepTranscripts: true,
	})
	if err != nil {
		t.Fatalf("tournament: %v", err)
	}
	if summary.RunID == "" {
		t.Fatalf("run id not generated")
	}
	if summary.MatchCount != 6 {
		t.Fatalf("match count = %d, want 6", summary.MatchCount)
	}
	if len(summary.Ranked) != 3 {
		t.Fatalf("ranked %d entries, want 3", len(summary.Ranked))
	}
	for i := 1; i < len(summary.Ranked); i++ {
		if summary.Ranked[i].Score < summary.Ranked[i-1].Score {
			t.Fatalf("ranking not ascending: %+v", summary.Ranked)
		}
	}

	run, err := client.Run(ctx, summary.RunID)
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if run.Mode != sweep.ModeTournament || run.Moves != 10 || run.Seed != 42 {
		t.Fatalf("persisted run mismatch: %+v", run)
	}
	if run.SchemaVersion != storage.CurrentSchemaVersion {
		t.Fatalf("run not version stamped: %+v", run.VersionedRecord)
	}

	scores, err := client.Scores(ctx, summary.RunID)
	if err != nil {
		t.Fatalf("get scores: %v", err)
	}
	if !reflect.DeepEqual(scores, summary.Ranked) {
		t.Fatalf("persisted scores diverge from summary")
	}

	transcripts, err := client.Transcripts(ctx, summary.RunID)
	if err != nil {
		t.Fatalf("get transcripts: %v", err)
	}
	if len(transcripts) != summary.MatchCount {
		t.Fatalf("got %d transcripts, want %d", len(transcripts), summary.MatchCount)
	}
}

func TestTournamentExplicitRunID(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	summary, err := client.Tournament(ctx, TournamentRequest{
		RunID:   "fixed-id",
		Roster:  []string{"tit_for_tat"},
		Payoffs: model.ClassicalRewards,
		Moves:   5,
		Seed:    1,
	})
	if err != nil {
		t.Fatalf("tournament: %v", err)
	}
	if summary.RunID != "fixed-id" {
		t.Fatalf("run id = %q, want fixed-id", summary.RunID)
	}
	if _, err := client.Transcripts(ctx, "fixed-id"); err == nil {
		t.Fatalf("expected error: transcripts were not requested")
	}
}

func TestEvolvePersistsSnapshots(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	summary, err := client.Evolve(ctx, EvolveRequest{
		Roster:        []string{"always_cooperate", "always_defect"},
		StartMultiple: 2,
		ReplaceCount:  1,
		Iterations:    3,
		Moves:         10,
		Payoffs:       model.ClassicalRewards,
		Seed:          42,
	})
	if err != nil {
		t.Fatalf("evolve: %v", err)
	}
	if summary.PopulationSize != 4 {
		t.Fatalf("population size = %d, want 4", summary.PopulationSize)
	}
	if len(summary.Snapshots) != 3 || len(summary.Lineage) != 3 {
		t.Fatalf("got %d snapshots and %d lineage entries, want 3 each",
			len(summary.Snapshots), len(summary.Lineage))
	}

	run, err := client.Run(ctx, summary.RunID)
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if run.Mode != sweep.ModeEvolve || run.StartMultiple != 2 || run.Iterations != 3 {
		t.Fatalf("persisted run mismatch: %+v", run)
	}

	snapshots, err := client.Snapshots(ctx, summary.RunID)
	if err != nil {
		t.Fatalf("get snapshots: %v", err)
	}
	if !reflect.DeepEqual(snapshots, summary.Snapshots) {
		t.Fatalf("persisted snapshots diverge from summary")
	}
}

func TestSweepReturnsAggregates(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	summary, err := client.Sweep(ctx, SweepRequest{Config: sweep.Config{
		Roster: []string{"always_cooperate", "always_defect"},
		Mode:   sweep.ModeTournament,
		Axes: sweep.Axes{
			PayoffTables: []model.PayoffTable{model.ClassicalRewards},
			NumMoves:     []int{5, 10},
			MistakeProbs: []float64{0},
		},
		Seed: 42,
	}})
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if len(summary.Points) != 2 {
		t.Fatalf("got %d points, want 2", len(summary.Points))
	}
	if len(summary.Totals) != 2 || len(summary.Summaries) != 2 {
		t.Fatalf("aggregates incomplete: totals=%v summaries=%v", summary.Totals, summary.Summaries)
	}
	if len(summary.TotalsByMistake) != 1 || len(summary.TotalsByPayoffs) != 1 {
		t.Fatalf("grouped totals incomplete: mistake=%v payoffs=%v",
			summary.TotalsByMistake, summary.TotalsByPayoffs)
	}
	for _, bucket := range summary.TotalsByMistake {
		if !reflect.DeepEqual(bucket, summary.Totals) {
			t.Fatalf("single mistake group %v diverges from totals %v", bucket, summary.Totals)
		}
	}

	runs, err := client.Runs(ctx)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("sweep should not persist runs, found %d", len(runs))
	}
}

func TestGettersReportMissingRuns(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	if _, err := client.Run(ctx, "ghost"); err == nil {
		t.Fatalf("expected error for missing run")
	}
	if _, err := client.Scores(ctx, "ghost"); err == nil {
		t.Fatalf("expected error for missing scores")
	}
	if _, err := client.Snapshots(ctx, "ghost"); err == nil {
		t.Fatalf("expected error for missing snapshots")
	}
	if _, err := client.Transcripts(ctx, "ghost"); err == nil {
		t.Fatalf("expected error for missing transcripts")
	}
}
