// Package strategy holds the catalog of prisoner's dilemma decision
// policies. A Strategy instance lives for exactly one match and may keep
// private memory between its own calls; it never observes anything but
// the executed move history of both sides.
package strategy

import (
	"math/rand"

	"dilemma/internal/model"
)

// Strategy decides the next intended move from the executed history so
// far. Both slices are chronological and always the same length.
type Strategy interface {
	Name() string
	NextMove(self, opp []model.Move) (model.Move, error)
}

// Factory builds a fresh instance with no shared memory. Strategies that
// randomize draw exclusively from the supplied source; deterministic
// strategies ignore it.
type Factory func(rng *rand.Rand) Strategy

func last(moves []model.Move) model.Move {
	return moves[len(moves)-1]
}
