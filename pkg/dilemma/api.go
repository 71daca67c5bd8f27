// Package dilemma is the public entry point for running prisoner's
// dilemma tournaments, evolution runs, and configuration sweeps against
// a persistence backend.
package dilemma

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"dilemma/internal/evo"
	"dilemma/internal/match"
	"dilemma/internal/model"
	"dilemma/internal/stats"
	"dilemma/internal/storage"
	"dilemma/internal/strategy"
	"dilemma/internal/sweep"
	"dilemma/internal/tournament"
)

const defaultDBPath = "dilemma.db"

type Options struct {
	StoreKind string
	DBPath    string
}

type Client struct {
	store storage.Store
}

// NewClient opens the configured store and initializes it.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	store, err := storage.NewStore(opts.StoreKind, dbPath)
	if err != nil {
		return nil, err
	}
	if err := store.Init(ctx); err != nil {
		return nil, err
	}
	return &Client{store: store}, nil
}

// NewClientWithStore wraps an already-initialized store.
func NewClientWithStore(store storage.Store) *Client {
	return &Client{store: store}
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

// Strategies lists the registered strategy kinds.
func (c *Client) Strategies() []string {
	return strategy.Names()
}

type TournamentRequest struct {
	RunID           string
	Roster          []string
	Payoffs         model.PayoffTable
	Moves           int
	MistakeProb     float64
	Seed            int64
	Workers         int
	KeepTranscripts bool
}

type TournamentSummary struct {
	RunID      string
	Ranked     []model.EntryScore
	MatchCount int
}

// Tournament runs one round-robin pass over the roster kinds and
// persists the run plus its ranked scores.
func (c *Client) Tournament(ctx context.Context, req TournamentRequest) (TournamentSummary, error) {
	roster := req.Roster
	if len(roster) == 0 {
		roster = strategy.Names()
	}

	scorer, err := tournament.NewScorer(tournament.KindRoster(roster), tournament.Config{
		Match:           match.NewConfig(req.Payoffs, req.Moves, req.MistakeProb),
		Seed:            req.Seed,
		Workers:         req.Workers,
		KeepTranscripts: req.KeepTranscripts,
	})
	if err != nil {
		return TournamentSummary{}, err
	}

	scores, transcripts, err := scorer.Run(ctx)
	if err != nil {
		return TournamentSummary{}, err
	}
	ranked := scores.Ranked()
	for i := range ranked {
		ranked[i].Kind = ranked[i].ID
	}

	runID := req.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	run := model.RunRecord{
		ID:           runID,
		Mode:         sweep.ModeTournament,
		CreatedAtUTC: time.Now().UTC().Format(time.RFC3339),
		Roster:       roster,
		Payoffs:      req.Payoffs,
		Moves:        req.Moves,
		MistakeProb:  req.MistakeProb,
		Seed:         req.Seed,
	}
	storage.StampVersion(&run.VersionedRecord)

	if err := c.store.SaveRun(ctx, run); err != nil {
		return TournamentSummary{}, fmt.Errorf("save run %s: %w", runID, err)
	}
	if err := c.store.SaveScores(ctx, runID, ranked); err != nil {
		return TournamentSummary{}, fmt.Errorf("save scores %s: %w", runID, err)
	}
	if req.KeepTranscripts {
		if err := c.store.SaveTranscripts(ctx, runID, transcripts); err != nil {
			return TournamentSummary{}, fmt.Errorf("save transcripts %s: %w", runID, err)
		}
	}

	return TournamentSummary{
		RunID:      runID,
		Ranked:     ranked,
		MatchCount: scorer.MatchCount(),
	}, nil
}

type EvolveRequest struct {
	RunID         string
	Roster        []string
	StartMultiple int
	ReplaceCount  int
	Iterations    int
	Moves         int
	Payoffs       model.PayoffTable
	MistakeProb   float64
	Seed          int64
	Workers       int
}

type EvolveSummary struct {
	RunID          string
	PopulationSize int
	FinalCounts    map[string]int
	FinalRanked    []model.EntryScore
	Snapshots      []model.IterationSnapshot
	Lineage        []evo.Replacement
}

// Evolve runs the configured number of score/rank/replace iterations
// and persists the run, final scores, and iteration snapshots.
func (c *Client) Evolve(ctx context.Context, req EvolveRequest) (EvolveSummary, error) {
	roster := req.Roster
	if len(roster) == 0 {
		roster = strategy.Names()
	}

	engine, err := evo.NewEngine(evo.Config{
		Roster:        roster,
		StartMultiple: req.StartMultiple,
		ReplaceCount:  req.ReplaceCount,
		Iterations:    req.Iterations,
		Moves:         req.Moves,
		Payoffs:       req.Payoffs,
		MistakeProb:   req.MistakeProb,
		Seed:          req.Seed,
		Workers:       req.Workers,
	})
	if err != nil {
		return EvolveSummary{}, err
	}

	result, err := engine.Run(ctx)
	if err != nil {
		return EvolveSummary{}, err
	}

	runID := req.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	run := model.RunRecord{
		ID:            runID,
		Mode:          sweep.ModeEvolve,
		CreatedAtUTC:  time.Now().UTC().Format(time.RFC3339),
		Roster:        roster,
		Payoffs:       req.Payoffs,
		Moves:         req.Moves,
		MistakeProb:   req.MistakeProb,
		Seed:          req.Seed,
		StartMultiple: req.StartMultiple,
		ReplaceCount:  req.ReplaceCount,
		Iterations:    req.Iterations,
	}
	storage.StampVersion(&run.VersionedRecord)

	if err := c.store.SaveRun(ctx, run); err != nil {
		return EvolveSummary{}, fmt.Errorf("save run %s: %w", runID, err)
	}
	if err := c.store.SaveScores(ctx, runID, result.FinalRanked); err != nil {
		return EvolveSummary{}, fmt.Errorf("save scores %s: %w", runID, err)
	}
	if err := c.store.SaveSnapshots(ctx, runID, result.Snapshots); err != nil {
		return EvolveSummary{}, fmt.Errorf("save snapshots %s: %w", runID, err)
	}

	return EvolveSummary{
		RunID:          runID,
		PopulationSize: engine.PopulationSize(),
		FinalCounts:    result.FinalCounts,
		FinalRanked:    result.FinalRanked,
		Snapshots:      result.Snapshots,
		Lineage:        result.Lineage,
	}, nil
}

type SweepRequest struct {
	Config sweep.Config
}

type SweepSummary struct {
	Points          []sweep.PointResult
	Totals          map[string]float64
	TotalsByMistake map[string]map[string]float64
	TotalsByPayoffs map[string]map[string]float64
	Summaries       []stats.KindSummary
}

// Sweep expands the configured axes and runs every point. Sweep results
// are aggregates over many runs and are returned rather than persisted.
func (c *Client) Sweep(ctx context.Context, req SweepRequest) (SweepSummary, error) {
	runner, err := sweep.NewRunner(req.Config)
	if err != nil {
		return SweepSummary{}, err
	}
	points, err := runner.Run(ctx)
	if err != nil {
		return SweepSummary{}, err
	}

	perPoint := make([]map[string]float64, 0, len(points))
	for _, point := range points {
		perPoint = append(perPoint, point.Scores)
	}

	return SweepSummary{
		Points:          points,
		Totals:          sweep.AggregateScores(points),
		TotalsByMistake: sweep.GroupScores(points, sweep.MistakeKey),
		TotalsByPayoffs: sweep.GroupScores(points, sweep.PayoffKey),
		Summaries:       stats.SummarizeByKind(perPoint),
	}, nil
}

// Runs lists persisted runs, newest last.
func (c *Client) Runs(ctx context.Context) ([]model.RunRecord, error) {
	return c.store.ListRuns(ctx)
}

// Run fetches a single persisted run record.
func (c *Client) Run(ctx context.Context, runID string) (model.RunRecord, error) {
	run, ok, err := c.store.GetRun(ctx, runID)
	if err != nil {
		return model.RunRecord{}, err
	}
	if !ok {
		return model.RunRecord{}, fmt.Errorf("run %s not found", runID)
	}
	return run, nil
}

// Scores fetches the ranked scores of a persisted run.
func (c *Client) Scores(ctx context.Context, runID string) ([]model.EntryScore, error) {
	scores, ok, err := c.store.GetScores(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("no scores recorded for run %s", runID)
	}
	return scores, nil
}

// Snapshots fetches the iteration snapshots of a persisted evolution run.
func (c *Client) Snapshots(ctx context.Context, runID string) ([]model.IterationSnapshot, error) {
	snapshots, ok, err := c.store.GetSnapshots(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("no snapshots recorded for run %s", runID)
	}
	return snapshots, nil
}

// Transcripts fetches the retained transcripts of a persisted run.
func (c *Client) Transcripts(ctx context.Context, runID string) ([]model.MatchTranscript, error) {
	transcripts, ok, err := c.store.GetTranscripts(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("no transcripts recorded for run %s", runID)
	}
	return transcripts, nil
}
