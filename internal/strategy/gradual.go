package strategy

import (
	"math/rand"

	"dilemma/internal/model"
)

// gradual mirrors tit-for-tat but escalates: after the opponent's nth
// defection it answers with n consecutive defections, then calms the
// opponent with two cooperations. Memory spans the whole match.
type gradual struct {
	state       model.Move
	moreCoop    int
	moreDefects int
	oppDefects  int
}

func newGradual(_ *rand.Rand) Strategy {
	return &gradual{state: model.Cooperate}
}

func (*gradual) Name() string { return "gradual" }

func (g *gradual) NextMove(_, opp []model.Move) (model.Move, error) {
	if len(opp) == 0 {
		return g.state, nil
	}
	if last(opp) == model.Defect {
		g.oppDefects++
	}

	if g.state == model.Cooperate {
		switch {
		case g.moreCoop > 0:
			g.moreCoop--
		case last(opp) == model.Defect:
			g.state = model.Defect
			g.moreDefects = g.oppDefects - 1
		}
	} else {
		if g.moreDefects > 0 {
			g.moreDefects--
		} else {
			g.state = model.Cooperate
			g.moreCoop = 1
		}
	}
	return g.state, nil
}
