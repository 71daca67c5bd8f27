package model

import "fmt"

// Move is one binary choice in a prisoner's dilemma round. The numeric
// encoding (defect zero, cooperate one) is part of the persisted format.
type Move int

const (
	Defect    Move = 0
	Cooperate Move = 1
)

func (m Move) Valid() bool {
	return m == Defect || m == Cooperate
}

// Opposite returns the complementary move, the result of a noise flip.
func (m Move) Opposite() Move {
	if m == Defect {
		return Cooperate
	}
	return Defect
}

func (m Move) String() string {
	switch m {
	case Defect:
		return "DEFECT"
	case Cooperate:
		return "COOPERATE"
	default:
		return fmt.Sprintf("MOVE(%d)", int(m))
	}
}

// PayoffTable maps (self move, opponent move) to the payoff credited to
// self. Field names read self-first: CD is "I cooperate, opponent
// defects". Values are used as-given; the engine does not enforce any
// ordering relation among them.
type PayoffTable struct {
	CC float64 `json:"c_c" yaml:"c_c"`
	CD float64 `json:"c_d" yaml:"c_d"`
	DC float64 `json:"d_c" yaml:"d_c"`
	DD float64 `json:"d_d" yaml:"d_d"`
}

func (t PayoffTable) Payoff(self, opp Move) float64 {
	if self == Cooperate {
		if opp == Cooperate {
			return t.CC
		}
		return t.CD
	}
	if opp == Cooperate {
		return t.DC
	}
	return t.DD
}

// Preset payoff tables. ClassicalSentences is the original tournament's
// sentence-length formulation (lower totals are better); ClassicalRewards
// is the same classical range oriented as rewards (higher totals are
// better), which is what the evolution engine's ranking assumes.
var (
	ClassicalSentences = PayoffTable{CC: 1, CD: 5, DC: 0, DD: 3}
	ExtendedSentences  = PayoffTable{CC: 1, CD: 10, DC: 0, DD: 5}
	ClassicalRewards   = PayoffTable{CC: 3, CD: 0, DC: 5, DD: 1}
)

// PresetPayoffTable resolves a named preset. The empty name maps to the
// classical reward orientation.
func PresetPayoffTable(name string) (PayoffTable, bool) {
	switch name {
	case "classical-sentences":
		return ClassicalSentences, true
	case "extended-sentences":
		return ExtendedSentences, true
	case "", "classical-rewards":
		return ClassicalRewards, true
	default:
		return PayoffTable{}, false
	}
}

// MoveRecord is one transcript entry: the executed moves of both sides
// plus markers for moves that were noise flips of the intended move.
type MoveRecord struct {
	Index    int  `json:"index"`
	A        Move `json:"a"`
	B        Move `json:"b"`
	MistakeA bool `json:"mistake_a,omitempty"`
	MistakeB bool `json:"mistake_b,omitempty"`
}

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// RunRecord is the persisted summary of one tournament or evolution run.
type RunRecord struct {
	VersionedRecord
	ID           string      `json:"id"`
	Mode         string      `json:"mode"`
	CreatedAtUTC string      `json:"created_at_utc"`
	Roster       []string    `json:"roster"`
	Payoffs      PayoffTable `json:"payoffs"`
	Moves        int         `json:"moves"`
	MistakeProb  float64     `json:"mistake_prob"`
	Seed         int64       `json:"seed"`

	StartMultiple int `json:"start_multiple,omitempty"`
	ReplaceCount  int `json:"replace_count,omitempty"`
	Iterations    int `json:"iterations,omitempty"`
}

// EntryScore is one persisted roster-entry total from a round-robin pass.
type EntryScore struct {
	ID    string  `json:"id"`
	Kind  string  `json:"kind"`
	Score float64 `json:"score"`
}

// IterationSnapshot records the state of an evolving population after one
// score/rank/replace iteration.
type IterationSnapshot struct {
	Iteration    int            `json:"iteration"`
	CountsByKind map[string]int `json:"counts_by_kind"`
	BestKind     string         `json:"best_kind"`
	BestScore    float64        `json:"best_score"`
	MeanScore    float64        `json:"mean_score"`
	MinScore     float64        `json:"min_score"`
	Replaced     int            `json:"replaced"`
}

// MatchTranscript is a persisted transcript for one pairing, addressed by
// the entry IDs of its two sides.
type MatchTranscript struct {
	EntryA  string       `json:"entry_a"`
	EntryB  string       `json:"entry_b"`
	ScoreA  float64      `json:"score_a"`
	ScoreB  float64      `json:"score_b"`
	Records []MoveRecord `json:"records"`
}
