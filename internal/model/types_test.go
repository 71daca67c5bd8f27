package model

import "testing"

func TestMoveValidity(t *testing.T) {
	if !Defect.Valid() || !Cooperate.Valid() {
		t.Fatalf("canonical moves must be valid")
	}
	if Move(2).Valid() || Move(-1).Valid() {
		t.Fatalf("out-of-range moves must be invalid")
	}
}

func TestMoveOppositeIsInvolution(t *testing.T) {
	if Defect.Opposite() != Cooperate || Cooperate.Opposite() != Defect {
		t.Fatalf("opposite pairs broken")
	}
	for _, m := range []Move{Defect, Cooperate} {
		if m.Opposite().Opposite() != m {
			t.Fatalf("double opposite of %v is not identity", m)
		}
	}
}

func TestMoveString(t *testing.T) {
	if Defect.String() != "DEFECT" || Cooperate.String() != "COOPERATE" {
		t.Fatalf("unexpected labels: %v %v", Defect, Cooperate)
	}
}

func TestPayoffLookup(t *testing.T) {
	table := PayoffTable{CC: 3, CD: 0, DC: 5, DD: 1}
	cases := []struct {
		self, opp Move
		want      float64
	}{
		{Cooperate, Cooperate, 3},
		{Cooperate, Defect, 0},
		{Defect, Cooperate, 5},
		{Defect, Defect, 1},
	}
	for _, tc := range cases {
		if got := table.Payoff(tc.self, tc.opp); got != tc.want {
			t.Fatalf("payoff(%v, %v) = %g, want %g", tc.self, tc.opp, got, tc.want)
		}
	}
}

func TestPresetPayoffTable(t *testing.T) {
	if table, ok := PresetPayoffTable("classical-sentences"); !ok || table != ClassicalSentences {
		t.Fatalf("classical-sentences preset missing")
	}
	if table, ok := PresetPayoffTable(""); !ok || table != ClassicalRewards {
		t.Fatalf("empty preset should default to classical rewards")
	}
	if _, ok := PresetPayoffTable("mystery"); ok {
		t.Fatalf("unknown preset resolved")
	}
}
