// Package evo runs fitness-based selection over a population of strategy
// instances: score the whole population round-robin, rank by total
// payoff, replace the weakest with clones of the strongest, repeat.
package evo

import (
	"context"
	"fmt"
	"sort"

	"dilemma/internal/match"
	"dilemma/internal/model"
	"dilemma/internal/noise"
	"dilemma/internal/strategy"
	"dilemma/internal/tournament"
)

type Config struct {
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

// Replacement records one clone substitution, the evolution analogue of
// a lineage entry: which slot died and which survivor it now copies.
type Replacement struct {
	Iteration    int    `json:"iteration"`
	ReplacedID   string `json:"replaced_id"`
	ReplacedKind string `json:"replaced_kind"`
	ParentID     string `json:"parent_id"`
	CloneID      string `json:"clone_id"`
	CloneKind    string `json:"clone_kind"`
}

type RunResult struct {
	Snapshots   []model.IterationSnapshot
	FinalCounts map[string]int
	FinalRanked []model.EntryScore
	Lineage     []Replacement
}

type Engine struct {
	cfg        Config
	population []tournament.Entry
}

// NewEngine validates the configuration and seeds the population with
// StartMultiple independent instances of every roster kind. All
// configuration errors surface here, before any match runs.
func NewEngine(cfg Config) (*Engine, error) {
	if len(cfg.Roster) == 0 {
		return nil, fmt.Errorf("roster must not be empty")
	}
	for _, kind := range cfg.Roster {
		if _, err := strategy.Resolve(kind); err != nil {
			return nil, err
		}
	}
	if cfg.StartMultiple <= 0 {
		return nil, fmt.Errorf("start multiple must be > 0, got %d", cfg.StartMultiple)
	}
	if cfg.ReplaceCount < 0 {
		return nil, fmt.Errorf("replace count must be >= 0, got %d", cfg.ReplaceCount)
	}
	if cfg.Iterations <= 0 {
		return nil, fmt.Errorf("iteration count must be > 0, got %d", cfg.Iterations)
	}
	if err := match.NewConfig(cfg.Payoffs, cfg.Moves, cfg.MistakeProb).Validate(); err != nil {
		return nil, err
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}

	population := make([]tournament.Entry, 0, len(cfg.Roster)*cfg.StartMultiple)
	for _, kind := range cfg.Roster {
		for i := 0; i < cfg.StartMultiple; i++ {
			population = append(population, tournament.Entry{
				ID:   fmt.Sprintf("%s-s%d", kind, i),
				Kind: kind,
			})
		}
	}

	return &Engine{cfg: cfg, population: population}, nil
}

// PopulationSize is fixed for the lifetime of a run.
func (e *Engine) PopulationSize() int {
	return len(e.population)
}

// Run executes the configured number of iterations. Each iteration
// scores every instance as a distinct roster entry, ranks ascending by
// total score with ties broken by entry ID, and replaces the bottom
// ReplaceCount slots with clones distributed round-robin over the top
// surviving entries (highest-ranked first). With no survivors the whole
// population collapses to clones of the iteration's single best entry.
func (e *Engine) Run(ctx context.Context) (RunResult, error) {
	result := RunResult{
		Snapshots: make([]model.IterationSnapshot, 0, e.cfg.Iterations),
		Lineage:   make([]Replacement, 0, e.cfg.Iterations*e.cfg.ReplaceCount),
	}

	var ranked []model.EntryScore
	for iter := 0; iter < e.cfg.Iterations; iter++ {
		if err := ctx.Err(); err != nil {
			return RunResult{}, err
		}

		scores, err := e.scorePopulation(ctx, iter)
		if err != nil {
			return RunResult{}, err
		}
		ranked = e.attachKinds(scores.Ranked())

		replaced, err := e.replaceBottom(ranked, iter)
		if err != nil {
			return RunResult{}, err
		}
		result.Lineage = append(result.Lineage, replaced...)
		result.Snapshots = append(result.Snapshots, e.snapshot(ranked, iter+1, len(replaced)))
	}

	result.FinalCounts = countsByKind(e.population)
	result.FinalRanked = ranked
	return result, nil
}

func (e *Engine) scorePopulation(ctx context.Context, iteration int) (tournament.Scores, error) {
	scorer, err := tournament.NewScorer(e.population, tournament.Config{
		Match:   match.NewConfig(e.cfg.Payoffs, e.cfg.Moves, e.cfg.MistakeProb),
		Seed:    int64(noise.Mix(uint64(e.cfg.Seed), uint64(iteration))),
		Workers: e.cfg.Workers,
	})
	if err != nil {
		return nil, err
	}
	scores, _, err := scorer.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("iteration %d: %w", iteration+1, err)
	}
	return scores, nil
}

// replaceBottom rewrites the population in ranked order: survivors keep
// their identity, replaced slots become fresh clones. Clone parents
// cycle through the top K survivors, K = min(replaceCount, survivors),
// so replacement mass spreads over the leaders instead of funneling to
// a single winner.
func (e *Engine) replaceBottom(ranked []model.EntryScore, iteration int) ([]Replacement, error) {
	replaceCount := e.cfg.ReplaceCount
	if replaceCount == 0 {
		return nil, nil
	}
	if replaceCount > len(ranked) {
		replaceCount = len(ranked)
	}

	kindByID := make(map[string]string, len(e.population))
	for _, entry := range e.population {
		kindByID[entry.ID] = entry.Kind
	}

	survivors := ranked[replaceCount:]
	parents := make([]model.EntryScore, 0, replaceCount)
	if len(survivors) == 0 {
		// Degenerate collapse: everything clones the top scorer.
		parents = append(parents, ranked[len(ranked)-1])
	} else {
		topK := replaceCount
		if topK > len(survivors) {
			topK = len(survivors)
		}
		for k := 0; k < topK; k++ {
			parents = append(parents, survivors[len(survivors)-1-k])
		}
	}

	next := make([]tournament.Entry, 0, len(ranked))
	replacements := make([]Replacement, 0, replaceCount)
	for slot := 0; slot < replaceCount; slot++ {
		parent := parents[slot%len(parents)]
		clone := tournament.Entry{
			ID:   fmt.Sprintf("%s-i%d-r%d", parent.ID, iteration+1, slot),
			Kind: kindByID[parent.ID],
		}
		next = append(next, clone)
		replacements = append(replacements, Replacement{
			Iteration:    iteration + 1,
			ReplacedID:   ranked[slot].ID,
			ReplacedKind: kindByID[ranked[slot].ID],
			ParentID:     parent.ID,
			CloneID:      clone.ID,
			CloneKind:    clone.Kind,
		})
	}
	for _, item := range ranked[replaceCount:] {
		next = append(next, tournament.Entry{ID: item.ID, Kind: kindByID[item.ID]})
	}

	e.population = next
	return replacements, nil
}

func (e *Engine) attachKinds(ranked []model.EntryScore) []model.EntryScore {
	kindByID := make(map[string]string, len(e.population))
	for _, entry := range e.population {
		kindByID[entry.ID] = entry.Kind
	}
	for i := range ranked {
		ranked[i].Kind = kindByID[ranked[i].ID]
	}
	return ranked
}

func (e *Engine) snapshot(ranked []model.EntryScore, iteration, replaced int) model.IterationSnapshot {
	snap := model.IterationSnapshot{
		Iteration:    iteration,
		CountsByKind: countsByKind(e.population),
		Replaced:     replaced,
	}
	if len(ranked) == 0 {
		return snap
	}

	total := 0.0
	for _, item := range ranked {
		total += item.Score
	}
	best := ranked[len(ranked)-1]
	snap.BestKind = best.Kind
	snap.BestScore = best.Score
	snap.MinScore = ranked[0].Score
	snap.MeanScore = total / float64(len(ranked))
	return snap
}

func countsByKind(population []tournament.Entry) map[string]int {
	counts := make(map[string]int)
	for _, entry := range population {
		counts[entry.Kind]++
	}
	return counts
}

// SortedKinds lists the kinds present in a counts map in sorted order,
// for stable reporting.
func SortedKinds(counts map[string]int) []string {
	kinds := make([]string, 0, len(counts))
	for kind := range counts {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}
