package strategy

import (
	"fmt"
	"math/rand"

	"dilemma/internal/model"
)

// MemoryOneParams gives the cooperation probability after each outcome
// of the previous round, keyed self-move-first.
type MemoryOneParams struct {
	PCC float64
	PCD float64
	PDC float64
	PDD float64
}

// memoryOne cooperates on the first move, then cooperates with the
// probability matching the previous round's outcome. Equalizer and
// extortion strategies are parameterizations of this core.
type memoryOne struct {
	name   string
	params MemoryOneParams
	rng    *rand.Rand
}

// NewMemoryOne builds a factory for a named memory-one strategy.
func NewMemoryOne(name string, params MemoryOneParams) Factory {
	return func(rng *rand.Rand) Strategy {
		return &memoryOne{name: name, params: params, rng: rng}
	}
}

func (m *memoryOne) Name() string { return m.name }

func (m *memoryOne) NextMove(self, opp []model.Move) (model.Move, error) {
	if len(self) == 0 {
		return model.Cooperate, nil
	}
	if m.rng == nil {
		return 0, fmt.Errorf("strategy %s requires a random source", m.name)
	}

	var prob float64
	switch {
	case last(self) == model.Cooperate && last(opp) == model.Cooperate:
		prob = m.params.PCC
	case last(self) == model.Cooperate && last(opp) == model.Defect:
		prob = m.params.PCD
	case last(self) == model.Defect && last(opp) == model.Cooperate:
		prob = m.params.PDC
	default:
		prob = m.params.PDD
	}
	if m.rng.Float64() < prob {
		return model.Cooperate, nil
	}
	return model.Defect, nil
}
