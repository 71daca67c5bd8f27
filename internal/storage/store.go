package storage

import (
	"context"

	"dilemma/internal/model"
)

// Store persists simulation runs and their artifacts: final score
// records, per-iteration population snapshots, and match transcripts.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run model.RunRecord) error
	GetRun(ctx context.Context, id string) (model.RunRecord, bool, error)
	ListRuns(ctx context.Context) ([]model.RunRecord, error)
	SaveScores(ctx context.Context, runID string, scores []model.EntryScore) error
	GetScores(ctx context.Context, runID string) ([]model.EntryScore, bool, error)
	SaveSnapshots(ctx context.Context, runID string, snapshots []model.IterationSnapshot) error
	GetSnapshots(ctx context.Context, runID string) ([]model.IterationSnapshot, bool, error)
	SaveTranscripts(ctx context.Context, runID string, transcripts []model.MatchTranscript) error
	GetTranscripts(ctx context.Context, runID string) ([]model.MatchTranscript, bool, error)
}
