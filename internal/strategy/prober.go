package strategy

import (
	"math/rand"

	"dilemma/internal/model"
)

// prober opens with defect, cooperate, cooperate. If the opponent
// cooperated in either of moves two and three it exploits with permanent
// defection; otherwise it falls back to tit-for-tat.
type prober struct {
	exploit bool
	decided bool
}

func newProber(_ *rand.Rand) Strategy {
	return &prober{}
}

func (*prober) Name() string { return "prober" }

func (p *prober) NextMove(self, opp []model.Move) (model.Move, error) {
	switch len(self) {
	case 0:
		return model.Defect, nil
	case 1, 2:
		return model.Cooperate, nil
	}

	if !p.decided {
		p.decided = true
		p.exploit = opp[1] == model.Cooperate || opp[2] == model.Cooperate
	}
	if p.exploit {
		return model.Defect, nil
	}
	return last(opp), nil
}
