package stats

import (
	"math"
	"strings"
	"testing"

	"dilemma/internal/model"
)

func TestAvgAndStd(t *testing.T) {
	avg, err := Avg([]float64{1, 2, 3, 4})
	if err != nil || avg != 2.5 {
		t.Fatalf("avg = %g err=%v, want 2.5", avg, err)
	}
	std, err := Std([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if err != nil || math.Abs(std-2) > 1e-12 {
		t.Fatalf("std = %g err=%v, want 2", std, err)
	}
	if _, err := Avg(nil); err == nil {
		t.Fatalf("expected error for empty series")
	}
	if _, err := Std(nil); err == nil {
		t.Fatalf("expected error for empty series")
	}
}

func TestSummarizeByKind(t *testing.T) {
	perPoint := []map[string]float64{
		{"tit_for_tat": 10, "always_defect": 6},
		{"tit_for_tat": 14, "always_defect": 6},
	}
	summaries := SummarizeByKind(perPoint)
	if len(summaries) != 2 {
		t.Fatalf("got %d summaries, want 2", len(summaries))
	}
	if summaries[0].Kind != "always_defect" || summaries[1].Kind != "tit_for_tat" {
		t.Fatalf("summaries not sorted by kind: %+v", summaries)
	}
	tft := summaries[1]
	if tft.Total != 24 || tft.Mean != 12 || tft.Std != 2 {
		t.Fatalf("tit_for_tat summary = %+v", tft)
	}
	ad := summaries[0]
	if ad.Total != 12 || ad.Mean != 6 || ad.Std != 0 {
		t.Fatalf("always_defect summary = %+v", ad)
	}
}

func TestScoreReport(t *testing.T) {
	report := ScoreReport("Totals", []model.EntryScore{
		{ID: "always_defect", Kind: "always_defect", Score: 6},
		{ID: "tft-s0", Kind: "tit_for_tat", Score: 10},
	})
	lines := strings.Split(strings.TrimRight(report, "\n"), "\n")
	want := []string{
		"Totals",
		"Strategy\tTotalScore",
		"always_defect\t6",
		"tft-s0 (tit_for_tat)\t10",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), report)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestGroupedScoreReport(t *testing.T) {
	report := GroupedScoreReport("Totals by mistake rate", map[string]map[string]float64{
		"mistake=0.1": {"tit_for_tat": 4, "always_defect": 2},
		"mistake=0":   {"tit_for_tat": 1},
	})
	lines := strings.Split(strings.TrimRight(report, "\n"), "\n")
	want := []string{
		"Totals by mistake rate",
		"mistake=0",
		"tit_for_tat\t1",
		"mistake=0.1",
		"always_defect\t2",
		"tit_for_tat\t4",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), report)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestTranscriptReportMarksMistakes(t *testing.T) {
	report := TranscriptReport(model.MatchTranscript{
		EntryA: "a", EntryB: "b", ScoreA: 5, ScoreB: 3,
		Records: []model.MoveRecord{
			{Index: 1, A: model.Cooperate, B: model.Cooperate},
			{Index: 2, A: model.Defect, B: model.Cooperate, MistakeA: true},
		},
	})
	if !strings.Contains(report, "a vs b: 5 to 3") {
		t.Fatalf("missing header:\n%s", report)
	}
	if !strings.Contains(report, "2\tDEFECT*\tCOOPERATE") {
		t.Fatalf("mistake not marked:\n%s", report)
	}
	if strings.Contains(report, "COOPERATE*") {
		t.Fatalf("clean move marked as mistake:\n%s", report)
	}
}

func TestPopulationReport(t *testing.T) {
	report := PopulationReport([]model.IterationSnapshot{
		{Iteration: 1, CountsByKind: map[string]int{"tit_for_tat": 2, "always_defect": 1}, BestKind: "always_defect", BestScore: 9},
		{Iteration: 2, CountsByKind: map[string]int{"always_defect": 3}, BestKind: "always_defect", BestScore: 11},
	})
	lines := strings.Split(strings.TrimRight(report, "\n"), "\n")
	want := []string{
		"Iteration\talways_defect\ttit_for_tat\tBest",
		"1\t1\t2\talways_defect (9)",
		"2\t3\t0\talways_defect (11)",
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestPopulationReportEmpty(t *testing.T) {
	if got := PopulationReport(nil); got != "no iterations recorded\n" {
		t.Fatalf("empty report = %q", got)
	}
}
