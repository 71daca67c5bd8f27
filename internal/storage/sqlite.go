//go:build sqlite

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"dilemma/internal/model"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) SaveRun(ctx context.Context, run model.RunRecord) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	payload, err := EncodeRun(run)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO runs (id, created_at_utc, schema_version, codec_version, payload)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			created_at_utc = excluded.created_at_utc,
			schema_version = excluded.schema_version,
			codec_version = excluded.codec_version,
			payload = excluded.payload
	`, run.ID, run.CreatedAtUTC, run.SchemaVersion, run.CodecVersion, payload)
	return err
}

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (model.RunRecord, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return model.RunRecord{}, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM runs WHERE id = ?`, id).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.RunRecord{}, false, nil
		}
		return model.RunRecord{}, false, err
	}

	run, err := DecodeRun(payload)
	if err != nil {
		return model.RunRecord{}, false, fmt.Errorf("decode run %s: %w", id, err)
	}
	return run, true, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context) ([]model.RunRecord, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT payload FROM runs ORDER BY created_at_utc, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []model.RunRecord
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		run, err := DecodeRun(payload)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (s *SQLiteStore) SaveScores(ctx context.Context, runID string, scores []model.EntryScore) error {
	payload, err := EncodeScores(scores)
	if err != nil {
		return err
	}
	return s.saveArtifact(ctx, "scores", runID, payload)
}

func (s *SQLiteStore) GetScores(ctx context.Context, runID string) ([]model.EntryScore, bool, error) {
	payload, ok, err := s.getArtifact(ctx, "scores", runID)
	if err != nil || !ok {
		return nil, ok, err
	}
	scores, err := DecodeScores(payload)
	if err != nil {
		return nil, false, fmt.Errorf("decode scores %s: %w", runID, err)
	}
	return scores, true, nil
}

func (s *SQLiteStore) SaveSnapshots(ctx context.Context, runID string, snapshots []model.IterationSnapshot) error {
	payload, err := EncodeSnapshots(snapshots)
	if err != nil {
		return err
	}
	return s.saveArtifact(ctx, "snapshots", runID, payload)
}

func (s *SQLiteStore) GetSnapshots(ctx context.Context, runID string) ([]model.IterationSnapshot, bool, error) {
	payload, ok, err := s.getArtifact(ctx, "snapshots", runID)
	if err != nil || !ok {
		return nil, ok, err
	}
	snapshots, err := DecodeSnapshots(payload)
	if err != nil {
		return nil, false, fmt.Errorf("decode snapshots %s: %w", runID, err)
	}
	return snapshots, true, nil
}

func (s *SQLiteStore) SaveTranscripts(ctx context.Context, runID string, transcripts []model.MatchTranscript) error {
	payload, err := EncodeTranscripts(transcripts)
	if err != nil {
		return err
	}
	return s.saveArtifact(ctx, "transcripts", runID, payload)
}

func (s *SQLiteStore) GetTranscripts(ctx context.Context, runID string) ([]model.MatchTranscript, bool, error) {
	payload, ok, err := s.getArtifact(ctx, "transcripts", runID)
	if err != nil || !ok {
		return nil, ok, err
	}
	transcripts, err := DecodeTranscripts(payload)
	if err != nil {
		return nil, false, fmt.Errorf("decode transcripts %s: %w", runID, err)
	}
	return transcripts, true, nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) saveArtifact(ctx context.Context, kind, runID string, payload []byte) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO artifacts (run_id, kind, payload)
		VALUES (?, ?, ?)
		ON CONFLICT(run_id, kind) DO UPDATE SET
			payload = excluded.payload
	`, runID, kind, payload)
	return err
}

func (s *SQLiteStore) getArtifact(ctx context.Context, kind, runID string) ([]byte, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM artifacts WHERE run_id = ? AND kind = ?`, runID, kind).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return payload, true, nil
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created_at_utc TEXT NOT NULL,
			schema_version INTEGER NOT NULL,
			codec_version INTEGER NOT NULL,
			payload BLOB NOT NULL
		);
		CREATE TABLE IF NOT EXISTS artifacts (
			run_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			payload BLOB NOT NULL,
			PRIMARY KEY (run_id, kind)
		);
	`)
	return err
}
