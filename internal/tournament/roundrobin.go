// Package tournament scores a roster through one round-robin pass: every
// unordered pair, each entry against itself included, exactly once.
package tournament

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"dilemma/internal/match"
	"dilemma/internal/model"
	"dilemma/internal/noise"
	"dilemma/internal/strategy"
)

// Entry is one roster slot. Entries of the same strategy kind are still
// scored independently; the ID is the identity scores accumulate under.
type Entry struct {
	ID   string
	Kind string
}

// Config shapes a scoring pass. All matches in the pass share the match
// configuration; per-match seeds are derived from Seed and the pairing
// coordinates, so results do not depend on Workers or execution order.
type Config struct {
	Match           match.Config
	Seed            int64
	Workers         int
	KeepTranscripts bool
}

// Scores maps roster-entry IDs to accumulated payoff over one pass.
// Rebuilt fresh each pass, never carried over.
type Scores map[string]float64

// Ranked returns entries ordered by ascending score, ties broken by ID.
func (s Scores) Ranked() []model.EntryScore {
	out := make([]model.EntryScore, 0, len(s))
	for id, score := range s {
		out = append(out, model.EntryScore{ID: id, Score: score})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score == out[j].Score {
			return out[i].ID < out[j].ID
		}
		return out[i].Score < out[j].Score
	})
	return out
}

type Scorer struct {
	cfg     Config
	entries []Entry
}

func NewScorer(entries []Entry, cfg Config) (*Scorer, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("roster must not be empty")
	}
	if err := cfg.Match.Validate(); err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(entries))
	for i, entry := range entries {
		if entry.ID == "" {
			return nil, fmt.Errorf("roster entry %d has no id", i)
		}
		if _, dup := seen[entry.ID]; dup {
			return nil, fmt.Errorf("duplicate roster entry id: %s", entry.ID)
		}
		seen[entry.ID] = struct{}{}
		if _, err := strategy.Resolve(entry.Kind); err != nil {
			return nil, fmt.Errorf("roster entry %s: %w", entry.ID, err)
		}
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &Scorer{cfg: cfg, entries: entries}, nil
}

// MatchCount is the number of matches one pass runs: n(n+1)/2.
func (s *Scorer) MatchCount() int {
	n := len(s.entries)
	return n * (n + 1) / 2
}

// Run scores every unordered pair {i, j} with i <= j. A self-pair plays
// one match between two fresh instances of the entry's kind and credits
// both the as-A and as-B payoff to that entry, keeping self totals
// comparable to unlike-pair totals. Transcripts are retained only when
// configured, in deterministic pairing order.
func (s *Scorer) Run(ctx context.Context) (Scores, []model.MatchTranscript, error) {
	type job struct {
		idx  int
		i, j int
	}
	type result struct {
		idx        int
		i, j       int
		res        match.Result
		transcript []model.MoveRecord
		err        error
	}

	pairs := make([]job, 0, s.MatchCount())
	for i := 0; i < len(s.entries); i++ {
		for j := i; j < len(s.entries); j++ {
			pairs = append(pairs, job{idx: len(pairs), i: i, j: j})
		}
	}

	jobs := make(chan job)
	results := make(chan result, len(pairs))

	workerCount := s.cfg.Workers
	if workerCount > len(pairs) {
		workerCount = len(pairs)
	}

	var wg sync.WaitGroup
	wg.Add(workerCount)
	for w := 0; w < workerCount; w++ {
		go func() {
			defer wg.Done()
			for item := range jobs {
				if err := ctx.Err(); err != nil {
					results <- result{idx: item.idx, i: item.i, j: item.j, err: err}
					continue
				}

				seed := s.matchSeed(item.i, item.j)
				a, b, err := match.NewInstances(s.entries[item.i].Kind, s.entries[item.j].Kind, seed)
				if err != nil {
					results <- result{idx: item.idx, i: item.i, j: item.j, err: err}
					continue
				}
				res, err := match.Run(ctx, a, b, s.cfg.Match, seed)
				if err != nil {
					results <- result{idx: item.idx, i: item.i, j: item.j, err: err}
					continue
				}
				results <- result{idx: item.idx, i: item.i, j: item.j, res: res, transcript: res.Transcript}
			}
		}()
	}

	for _, item := range pairs {
		jobs <- item
	}
	close(jobs)

	wg.Wait()
	close(results)

	ordered := make([]result, len(pairs))
	for res := range results {
		ordered[res.idx] = res
	}

	scores := make(Scores, len(s.entries))
	for _, entry := range s.entries {
		scores[entry.ID] = 0
	}
	var transcripts []model.MatchTranscript
	if s.cfg.KeepTranscripts {
		transcripts = make([]model.MatchTranscript, 0, len(pairs))
	}

	for _, res := range ordered {
		if res.err != nil {
			return nil, nil, fmt.Errorf("pairing %s vs %s: %w", s.entries[res.i].ID, s.entries[res.j].ID, res.err)
		}
		scores[s.entries[res.i].ID] += res.res.ScoreA
		scores[s.entries[res.j].ID] += res.res.ScoreB
		if s.cfg.KeepTranscripts {
			transcripts = append(transcripts, model.MatchTranscript{
				EntryA:  s.entries[res.i].ID,
				EntryB:  s.entries[res.j].ID,
				ScoreA:  res.res.ScoreA,
				ScoreB:  res.res.ScoreB,
				Records: res.transcript,
			})
		}
	}

	return scores, transcripts, nil
}

func (s *Scorer) matchSeed(i, j int) int64 {
	mixed := noise.Mix(uint64(s.cfg.Seed), uint64(i)<<32|uint64(j))
	return int64(mixed)
}

// KindRoster builds a one-entry-per-kind roster, the shape used by the
// flat tournament command.
func KindRoster(kinds []string) []Entry {
	entries := make([]Entry, 0, len(kinds))
	for _, kind := range kinds {
		entries = append(entries, Entry{ID: kind, Kind: kind})
	}
	return entries
}
