// Package sweep expands configuration axes into independent simulation
// points and runs them, aggregating per-kind totals across the sweep.
package sweep

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"dilemma/internal/evo"
	"dilemma/internal/match"
	"dilemma/internal/model"
	"dilemma/internal/noise"
	"dilemma/internal/tournament"
)

const (
	ModeTournament = "tournament"
	ModeEvolve     = "evolve"
)

// Axes are the independently sweepable configuration dimensions. Empty
// evolution axes are allowed in tournament mode. Defaults mirror the
// original tournament driver's ranges.
type Axes struct {
	PayoffTables   []model.PayoffTable
	NumMoves       []int
	MistakeProbs   []float64
	StartMultiples []int
	ReplaceCounts  []int
	Iterations     []int
}

// DefaultAxes returns the classic sweep: both preset tables, match
// lengths from 3 to 100 and mistake rates from 0 to 25 percent.
func DefaultAxes() Axes {
	return Axes{
		PayoffTables: []model.PayoffTable{model.ClassicalSentences, model.ExtendedSentences},
		NumMoves:     []int{3, 5, 10, 20, 50, 100},
		MistakeProbs: []float64{0.0, 0.05, 0.10, 0.15, 0.20, 0.25},
	}
}

// Point is one immutable sweep configuration. The seed is derived from
// the run seed and the point's index in expansion order.
type Point struct {
	Index         int
	Payoffs       model.PayoffTable
	Moves         int
	MistakeProb   float64
	StartMultiple int
	ReplaceCount  int
	Iterations    int
	Seed          int64
}

// PointResult pairs a point with its per-kind totals. For evolution
// points FinalCounts carries the surviving population composition.
type PointResult struct {
	Point       Point
	Scores      map[string]float64
	FinalCounts map[string]int
}

type Config struct {
	Roster  []string
	Mode    string
	Axes    Axes
	Seed    int64
	Workers int
	// PointWorkers bounds how many points run concurrently; match-level
	// workers within a point are controlled by Workers.
	PointWorkers int
}

// Expand produces the cartesian product of the configured axes in a
// fixed order. Evolution axes fall back to a single zero value in
// tournament mode so the product stays well-defined.
func Expand(axes Axes, seed int64) []Point {
	payoffs := axes.PayoffTables
	if len(payoffs) == 0 {
		payoffs = []model.PayoffTable{model.ClassicalRewards}
	}
	moves := orOne(axes.NumMoves, 10)
	mistakes := axes.MistakeProbs
	if len(mistakes) == 0 {
		mistakes = []float64{0}
	}
	startMultiples := orOne(axes.StartMultiples, 1)
	replaceCounts := orOne(axes.ReplaceCounts, 0)
	iterations := orOne(axes.Iterations, 1)

	var points []Point
	for _, mistake := range mistakes {
		for _, table := range payoffs {
			for _, numMoves := range moves {
				for _, startMultiple := range startMultiples {
					for _, replaceCount := range replaceCounts {
						for _, iters := range iterations {
							idx := len(points)
							points = append(points, Point{
								Index:         idx,
								Payoffs:       table,
								Moves:         numMoves,
								MistakeProb:   mistake,
								StartMultiple: startMultiple,
								ReplaceCount:  replaceCount,
								Iterations:    iters,
								Seed:          int64(noise.Mix(uint64(seed), uint64(idx))),
							})
						}
					}
				}
			}
		}
	}
	return points
}

func orOne(values []int, fallback int) []int {
	if len(values) == 0 {
		return []int{fallback}
	}
	return values
}

type Runner struct {
	cfg Config
}

func NewRunner(cfg Config) (*Runner, error) {
	if len(cfg.Roster) == 0 {
		return nil, fmt.Errorf("roster must not be empty")
	}
	switch cfg.Mode {
	case ModeTournament, ModeEvolve:
	default:
		return nil, fmt.Errorf("unsupported sweep mode: %s", cfg.Mode)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.PointWorkers <= 0 {
		cfg.PointWorkers = 1
	}
	return &Runner{cfg: cfg}, nil
}

// Run executes every expanded point. Points share nothing but the
// read-only configuration, so they run concurrently under an errgroup
// bounded by PointWorkers; results stay in expansion order.
func (r *Runner) Run(ctx context.Context) ([]PointResult, error) {
	points := Expand(r.cfg.Axes, r.cfg.Seed)
	results := make([]PointResult, len(points))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.PointWorkers)
	for _, point := range points {
		point := point
		g.Go(func() error {
			res, err := r.runPoint(ctx, point)
			if err != nil {
				return fmt.Errorf("sweep point %d: %w", point.Index, err)
			}
			results[point.Index] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *Runner) runPoint(ctx context.Context, point Point) (PointResult, error) {
	switch r.cfg.Mode {
	case ModeEvolve:
		return r.runEvolvePoint(ctx, point)
	default:
		return r.runTournamentPoint(ctx, point)
	}
}

func (r *Runner) runTournamentPoint(ctx context.Context, point Point) (PointResult, error) {
	scorer, err := tournament.NewScorer(tournament.KindRoster(r.cfg.Roster), tournament.Config{
		Match:   match.NewConfig(point.Payoffs, point.Moves, point.MistakeProb),
		Seed:    point.Seed,
		Workers: r.cfg.Workers,
	})
	if err != nil {
		return PointResult{}, err
	}
	scores, _, err := scorer.Run(ctx)
	if err != nil {
		return PointResult{}, err
	}
	return PointResult{Point: point, Scores: scores}, nil
}

func (r *Runner) runEvolvePoint(ctx context.Context, point Point) (PointResult, error) {
	engine, err := evo.NewEngine(evo.Config{
		Roster:        r.cfg.Roster,
		StartMultiple: point.StartMultiple,
		ReplaceCount:  point.ReplaceCount,
		Iterations:    point.Iterations,
		Moves:         point.Moves,
		Payoffs:       point.Payoffs,
		MistakeProb:   point.MistakeProb,
		Seed:          point.Seed,
		Workers:       r.cfg.Workers,
	})
	if err != nil {
		return PointResult{}, err
	}
	res, err := engine.Run(ctx)
	if err != nil {
		return PointResult{}, err
	}

	scores := make(map[string]float64, len(r.cfg.Roster))
	for _, item := range res.FinalRanked {
		scores[item.Kind] += item.Score
	}
	return PointResult{Point: point, Scores: scores, FinalCounts: res.FinalCounts}, nil
}

// AggregateScores sums per-kind totals across point results, the
// original driver's overall accumulator.
func AggregateScores(results []PointResult) map[string]float64 {
	totals := make(map[string]float64)
	for _, res := range results {
		for kind, score := range res.Scores {
			totals[kind] += score
		}
	}
	return totals
}

// GroupScores buckets per-kind totals by a point-derived key, the
// grouped accumulators that run alongside the overall one (per mistake
// rate, per payoff table). Groups over all results sum to
// AggregateScores.
func GroupScores(results []PointResult, keyFn func(Point) string) map[string]map[string]float64 {
	groups := make(map[string]map[string]float64)
	for _, res := range results {
		key := keyFn(res.Point)
		bucket := groups[key]
		if bucket == nil {
			bucket = make(map[string]float64)
			groups[key] = bucket
		}
		for kind, score := range res.Scores {
			bucket[kind] += score
		}
	}
	return groups
}

// MistakeKey groups sweep points by mistake probability.
func MistakeKey(point Point) string {
	return fmt.Sprintf("mistake=%g", point.MistakeProb)
}

// PayoffKey groups sweep points by payoff table.
func PayoffKey(point Point) string {
	p := point.Payoffs
	return fmt.Sprintf("payoffs=%g/%g/%g/%g", p.CC, p.CD, p.DC, p.DD)
}
