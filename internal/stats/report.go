// Package stats renders simulation results into the tab-separated report
// formats used by the ctl commands.
package stats

import (
	"fmt"
	"sort"
	"strings"

	"dilemma/internal/model"
)

// ScoreReport renders ranked totals as a "Strategy\tTotalScore" table,
// highest score last to match ranked order.
func ScoreReport(title string, scores []model.EntryScore) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", title)
	b.WriteString("Strategy\tTotalScore\n")
	for _, item := range scores {
		name := item.ID
		if item.Kind != "" && item.Kind != item.ID {
			name = fmt.Sprintf("%s (%s)", item.ID, item.Kind)
		}
		fmt.Fprintf(&b, "%s\t%g\n", name, item.Score)
	}
	return b.String()
}

// GroupedScoreReport renders per-group kind totals, one block per
// group key in sorted key order.
func GroupedScoreReport(title string, groups map[string]map[string]float64) string {
	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", title)
	for _, key := range keys {
		scores := groups[key]
		kinds := make([]string, 0, len(scores))
		for kind := range scores {
			kinds = append(kinds, kind)
		}
		sort.Strings(kinds)

		fmt.Fprintf(&b, "%s\n", key)
		for _, kind := range kinds {
			fmt.Fprintf(&b, "%s\t%g\n", kind, scores[kind])
		}
	}
	return b.String()
}

// TranscriptReport renders one match move-by-move, marking executed
// moves that were noise flips with an asterisk.
func TranscriptReport(transcript model.MatchTranscript) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s vs %s: %g to %g\n", transcript.EntryA, transcript.EntryB, transcript.ScoreA, transcript.ScoreB)
	b.WriteString("Move\tA\tB\n")
	for _, record := range transcript.Records {
		fmt.Fprintf(&b, "%d\t%s%s\t%s%s\n",
			record.Index,
			record.A, mistakeMark(record.MistakeA),
			record.B, mistakeMark(record.MistakeB),
		)
	}
	return b.String()
}

func mistakeMark(mistake bool) string {
	if mistake {
		return "*"
	}
	return ""
}

// PopulationReport renders per-iteration population composition, one
// row per iteration with kind counts in sorted kind order.
func PopulationReport(snapshots []model.IterationSnapshot) string {
	if len(snapshots) == 0 {
		return "no iterations recorded\n"
	}

	kindSet := make(map[string]struct{})
	for _, snap := range snapshots {
		for kind := range snap.CountsByKind {
			kindSet[kind] = struct{}{}
		}
	}
	kinds := make([]string, 0, len(kindSet))
	for kind := range kindSet {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)

	var b strings.Builder
	b.WriteString("Iteration")
	for _, kind := range kinds {
		fmt.Fprintf(&b, "\t%s", kind)
	}
	b.WriteString("\tBest\n")
	for _, snap := range snapshots {
		fmt.Fprintf(&b, "%d", snap.Iteration)
		for _, kind := range kinds {
			fmt.Fprintf(&b, "\t%d", snap.CountsByKind[kind])
		}
		fmt.Fprintf(&b, "\t%s (%g)\n", snap.BestKind, snap.BestScore)
	}
	return b.String()
}
