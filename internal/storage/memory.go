package storage

import (
	"context"
	"sort"
	"sync"

	"dilemma/internal/model"
)

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	runs        map[string]model.RunRecord
	scores      map[string][]model.EntryScore
	snapshots   map[string][]model.IterationSnapshot
	transcripts map[string][]model.MatchTranscript
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.runs = make(map[string]model.RunRecord)
	s.scores = make(map[string][]model.EntryScore)
	s.snapshots = make(map[string][]model.IterationSnapshot)
	s.transcripts = make(map[string][]model.MatchTranscript)
	return nil
}

func (s *MemoryStore) SaveRun(_ context.Context, run model.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs[run.ID] = run
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id string) (model.RunRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	return run, ok, nil
}

func (s *MemoryStore) ListRuns(_ context.Context) ([]model.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]model.RunRecord, 0, len(s.runs))
	for _, run := range s.runs {
		runs = append(runs, run)
	}
	sort.Slice(runs, func(i, j int) bool {
		if runs[i].CreatedAtUTC == runs[j].CreatedAtUTC {
			return runs[i].ID < runs[j].ID
		}
		return runs[i].CreatedAtUTC < runs[j].CreatedAtUTC
	})
	return runs, nil
}

func (s *MemoryStore) SaveScores(_ context.Context, runID string, scores []model.EntryScore) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.scores[runID] = append([]model.EntryScore(nil), scores...)
	return nil
}

func (s *MemoryStore) GetScores(_ context.Context, runID string) ([]model.EntryScore, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	scores, ok := s.scores[runID]
	return scores, ok, nil
}

func (s *MemoryStore) SaveSnapshots(_ context.Context, runID string, snapshots []model.IterationSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshots[runID] = append([]model.IterationSnapshot(nil), snapshots...)
	return nil
}

func (s *MemoryStore) GetSnapshots(_ context.Context, runID string) ([]model.IterationSnapshot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshots, ok := s.snapshots[runID]
	return snapshots, ok, nil
}

func (s *MemoryStore) SaveTranscripts(_ context.Context, runID string, transcripts []model.MatchTranscript) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.transcripts[runID] = append([]model.MatchTranscript(nil), transcripts...)
	return nil
}

func (s *MemoryStore) GetTranscripts(_ context.Context, runID string) ([]model.MatchTranscript, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	transcripts, ok := s.transcripts[runID]
	return transcripts, ok, nil
}
