package strategy

import (
	"math/rand"

	"dilemma/internal/model"
)

// The stateless catalog entries: policies fully determined by the
// visible history.

type alwaysCooperate struct{}

func (alwaysCooperate) Name() string { return "always_cooperate" }

func (alwaysCooperate) NextMove(_, _ []model.Move) (model.Move, error) {
	return model.Cooperate, nil
}

type alwaysDefect struct{}

func (alwaysDefect) Name() string { return "always_defect" }

func (alwaysDefect) NextMove(_, _ []model.Move) (model.Move, error) {
	return model.Defect, nil
}

// titForTat cooperates first, then mirrors the opponent's previous move.
type titForTat struct{}

func (titForTat) Name() string { return "tit_for_tat" }

func (titForTat) NextMove(_, opp []model.Move) (model.Move, error) {
	if len(opp) == 0 {
		return model.Cooperate, nil
	}
	return last(opp), nil
}

// titForTwoTats cooperates for two moves, then defects only when the
// opponent defected in either of the previous two moves.
type titForTwoTats struct{}

func (titForTwoTats) Name() string { return "tit_for_2_tat" }

func (titForTwoTats) NextMove(_, opp []model.Move) (model.Move, error) {
	if len(opp) <= 1 {
		return model.Cooperate, nil
	}
	if opp[len(opp)-1] == model.Defect || opp[len(opp)-2] == model.Defect {
		return model.Defect, nil
	}
	return model.Cooperate, nil
}

// periodicDDC plays the fixed cycle defect, defect, cooperate.
type periodicDDC struct{}

func (periodicDDC) Name() string { return "per_ddc" }

func (periodicDDC) NextMove(_, opp []model.Move) (model.Move, error) {
	if len(opp)%3 == 2 {
		return model.Cooperate, nil
	}
	return model.Defect, nil
}

// slowTitForTat starts cooperating and only changes stance after the
// opponent plays the same move twice in a row.
type slowTitForTat struct {
	state model.Move
}

func newSlowTitForTat(_ *rand.Rand) Strategy {
	return &slowTitForTat{state: model.Cooperate}
}

func (*slowTitForTat) Name() string { return "slow_tit_for_tat" }

func (s *slowTitForTat) NextMove(_, opp []model.Move) (model.Move, error) {
	if len(opp) >= 2 && opp[len(opp)-1] == opp[len(opp)-2] {
		s.state = last(opp)
	}
	return s.state, nil
}
