package strategy

import (
	"math/rand"

	"dilemma/internal/model"
)

type mem2Behavior int

const (
	mem2TitForTat mem2Behavior = iota
	mem2TitForTwoTats
	mem2AllDefect
)

// mem2 re-evaluates its stance every two moves from the previous
// two-round window: mutual cooperation throughout keeps tit-for-tat,
// two rounds of opposite moves switch to tit-for-2-tat, anything else
// switches to all-defect. Choosing all-defect twice makes it permanent.
type mem2 struct {
	behavior    mem2Behavior
	behaveCount int
	allDCount   int
}

func newMem2(_ *rand.Rand) Strategy {
	return &mem2{behavior: mem2TitForTat, behaveCount: 2}
}

func (*mem2) Name() string { return "mem2" }

func (m *mem2) NextMove(self, opp []model.Move) (model.Move, error) {
	n := len(self)
	if n >= 2 && m.allDCount < 2 && m.behaveCount <= 0 {
		s1, s2 := self[n-2], self[n-1]
		o1, o2 := opp[n-2], opp[n-1]
		switch {
		case s1 == model.Cooperate && s2 == model.Cooperate &&
			o1 == model.Cooperate && o2 == model.Cooperate:
			m.behavior = mem2TitForTat
		case s1 != o1 && s2 != o2:
			m.behavior = mem2TitForTwoTats
		default:
			m.behavior = mem2AllDefect
			m.allDCount++
		}
		m.behaveCount = 2
	}
	if m.behaveCount > 0 {
		m.behaveCount--
	}

	if m.allDCount >= 2 || m.behavior == mem2AllDefect {
		return model.Defect, nil
	}
	if m.behavior == mem2TitForTwoTats {
		if n >= 2 && (opp[n-1] == model.Defect || opp[n-2] == model.Defect) {
			return model.Defect, nil
		}
		return model.Cooperate, nil
	}
	// tit-for-tat stance
	if n == 0 {
		return model.Cooperate, nil
	}
	return last(opp), nil
}
