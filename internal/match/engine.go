// Package match runs a single fixed-length contest between two strategy
// instances, injecting execution noise and accumulating payoffs.
package match

import (
	"context"
	"fmt"

	"dilemma/internal/model"
	"dilemma/internal/noise"
	"dilemma/internal/strategy"
)

// Config is the read-only contest shape shared by both sides. MistakeA
// and MistakeB are per-move flip probabilities; NewConfig sets both from
// a single rate, which is the common case.
type Config struct {
	Payoffs  model.PayoffTable
	Moves    int
	MistakeA float64
	MistakeB float64
}

func NewConfig(payoffs model.PayoffTable, moves int, mistakeProb float64) Config {
	return Config{Payoffs: payoffs, Moves: moves, MistakeA: mistakeProb, MistakeB: mistakeProb}
}

func (c Config) Validate() error {
	if c.Moves <= 0 {
		return fmt.Errorf("move count must be > 0, got %d", c.Moves)
	}
	if c.MistakeA < 0 || c.MistakeA > 1 {
		return fmt.Errorf("mistake probability for side A must be in [0,1], got %g", c.MistakeA)
	}
	if c.MistakeB < 0 || c.MistakeB > 1 {
		return fmt.Errorf("mistake probability for side B must be in [0,1], got %g", c.MistakeB)
	}
	return nil
}

// Result is the outcome of one match: both running totals and the
// executed-move transcript with mistake markers.
type Result struct {
	ScoreA     float64
	ScoreB     float64
	Transcript []model.MoveRecord
}

// ViolationError reports a strategy breaking its contract mid-match,
// either by failing to decide or by returning a non-move. The engine
// never substitutes a default move; the match is abandoned.
type ViolationError struct {
	Strategy  string
	MoveIndex int
	Err       error
}

func (e *ViolationError) Error() string {
	return fmt.Sprintf("strategy %s violated contract at move %d: %v", e.Strategy, e.MoveIndex, e.Err)
}

func (e *ViolationError) Unwrap() error { return e.Err }

// Run plays exactly cfg.Moves moves between a and b. Both strategies see
// only the executed history; intended moves pass through independent
// noise streams derived from the match seed before scoring and before
// being appended to either history. There is no early termination.
func Run(ctx context.Context, a, b strategy.Strategy, cfg Config, seed int64) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	if a == nil || b == nil {
		return Result{}, fmt.Errorf("both strategies are required")
	}

	noiseA, err := noise.NewInjector(cfg.MistakeA, noise.Stream(seed, noise.SaltNoiseA))
	if err != nil {
		return Result{}, err
	}
	noiseB, err := noise.NewInjector(cfg.MistakeB, noise.Stream(seed, noise.SaltNoiseB))
	if err != nil {
		return Result{}, err
	}

	histA := make([]model.Move, 0, cfg.Moves)
	histB := make([]model.Move, 0, cfg.Moves)
	result := Result{Transcript: make([]model.MoveRecord, 0, cfg.Moves)}

	for move := 1; move <= cfg.Moves; move++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		intendedA, err := nextMove(a, histA, histB, move)
		if err != nil {
			return Result{}, err
		}
		intendedB, err := nextMove(b, histB, histA, move)
		if err != nil {
			return Result{}, err
		}

		executedA, mistakeA := noiseA.Apply(intendedA)
		executedB, mistakeB := noiseB.Apply(intendedB)

		result.ScoreA += cfg.Payoffs.Payoff(executedA, executedB)
		result.ScoreB += cfg.Payoffs.Payoff(executedB, executedA)

		histA = append(histA, executedA)
		histB = append(histB, executedB)
		result.Transcript = append(result.Transcript, model.MoveRecord{
			Index:    move,
			A:        executedA,
			B:        executedB,
			MistakeA: mistakeA,
			MistakeB: mistakeB,
		})
	}

	return result, nil
}

// NewInstances builds two fresh instances for a pairing, each with its
// own randomness stream. Self-play therefore never shares memory.
func NewInstances(kindA, kindB string, seed int64) (strategy.Strategy, strategy.Strategy, error) {
	factoryA, err := strategy.Resolve(kindA)
	if err != nil {
		return nil, nil, err
	}
	factoryB, err := strategy.Resolve(kindB)
	if err != nil {
		return nil, nil, err
	}
	a := factoryA(noise.Stream(seed, noise.SaltStrategyA))
	b := factoryB(noise.Stream(seed, noise.SaltStrategyB))
	return a, b, nil
}

func nextMove(s strategy.Strategy, self, opp []model.Move, moveIndex int) (model.Move, error) {
	intended, err := s.NextMove(self, opp)
	if err != nil {
		return 0, &ViolationError{Strategy: s.Name(), MoveIndex: moveIndex, Err: err}
	}
	if !intended.Valid() {
		return 0, &ViolationError{
			Strategy:  s.Name(),
			MoveIndex: moveIndex,
			Err:       fmt.Errorf("returned invalid move %d", int(intended)),
		}
	}
	return intended, nil
}
