package storage

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"dilemma/internal/model"
)

func testRun(id, createdAt string) model.RunRecord {
	run := model.RunRecord{
		ID:           id,
		Mode:         "tournament",
		CreatedAtUTC: createdAt,
		Roster:       []string{"tit_for_tat", "always_defect"},
		Payoffs:      model.ClassicalRewards,
		Moves:        10,
		Seed:         42,
	}
	StampVersion(&run.VersionedRecord)
	return run
}

func newTestStore(t *testing.T) *MemoryStore {
	t.Helper()
	store := NewMemoryStore()
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	return store
}

func TestMemoryStoreRunRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	want := testRun("r1", "2026-08-26T10:00:00Z")
	if err := store.SaveRun(ctx, want); err != nil {
		t.Fatalf("save run: %v", err)
	}
	got, ok, err := store.GetRun(ctx, "r1")
	if err != nil || !ok {
		t.Fatalf("get run: ok=%v err=%v", ok, err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip changed the record:\n got %+v\nwant %+v", got, want)
	}

	if _, ok, err := store.GetRun(ctx, "missing"); err != nil || ok {
		t.Fatalf("missing run: ok=%v err=%v", ok, err)
	}
}

func TestMemoryStoreListRunsOrdered(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	for _, run := range []model.RunRecord{
		testRun("b", "2026-08-26T11:00:00Z"),
		testRun("c", "2026-08-26T10:00:00Z"),
		testRun("a", "2026-08-26T11:00:00Z"),
	} {
		if err := store.SaveRun(ctx, run); err != nil {
			t.Fatalf("save run %s: %v", run.ID, err)
		}
	}
	runs, err := store.ListRuns(ctx)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	wantOrder := []string{"c", "a", "b"}
	for i, want := range wantOrder {
		if runs[i].ID != want {
			t.Fatalf("position %d is %s, want %s", i, runs[i].ID, want)
		}
	}
}

func TestMemoryStoreArtifactsRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	scores := []model.EntryScore{{ID: "tit_for_tat", Kind: "tit_for_tat", Score: 30}}
	if err := store.SaveScores(ctx, "r1", scores); err != nil {
		t.Fatalf("save scores: %v", err)
	}
	gotScores, ok, err := store.GetScores(ctx, "r1")
	if err != nil || !ok || !reflect.DeepEqual(gotScores, scores) {
		t.Fatalf("scores round trip: ok=%v err=%v got=%v", ok, err, gotScores)
	}

	snapshots := []model.IterationSnapshot{{Iteration: 1, CountsByKind: map[string]int{"tit_for_tat": 3}, Replaced: 1}}
	if err := store.SaveSnapshots(ctx, "r1", snapshots); err != nil {
		t.Fatalf("save snapshots: %v", err)
	}
	gotSnapshots, ok, err := store.GetSnapshots(ctx, "r1")
	if err != nil || !ok || !reflect.DeepEqual(gotSnapshots, snapshots) {
		t.Fatalf("snapshots round trip: ok=%v err=%v got=%v", ok, err, gotSnapshots)
	}

	transcripts := []model.MatchTranscript{{
		EntryA: "a", EntryB: "b", ScoreA: 5, ScoreB: 0,
		Records: []model.MoveRecord{{Index: 1, A: model.Defect, B: model.Cooperate}},
	}}
	if err := store.SaveTranscripts(ctx, "r1", transcripts); err != nil {
		t.Fatalf("save transcripts: %v", err)
	}
	gotTranscripts, ok, err := store.GetTranscripts(ctx, "r1")
	if err != nil || !ok || !reflect.DeepEqual(gotTranscripts, transcripts) {
		t.Fatalf("transcripts round trip: ok=%v err=%v got=%v", ok, err, gotTranscripts)
	}

	if _, ok, err := store.GetScores(ctx, "other"); err != nil || ok {
		t.Fatalf("scores for unknown run: ok=%v err=%v", ok, err)
	}
}

func TestMemoryStoreCopiesSavedSlices(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	scores := []model.EntryScore{{ID: "a", Score: 1}}
	if err := store.SaveScores(ctx, "r1", scores); err != nil {
		t.Fatalf("save scores: %v", err)
	}
	scores[0].Score = 99
	got, _, err := store.GetScores(ctx, "r1")
	if err != nil {
		t.Fatalf("get scores: %v", err)
	}
	if got[0].Score != 1 {
		t.Fatalf("caller mutation leaked into the store")
	}
}

func TestRunCodecRejectsVersionDrift(t *testing.T) {
	run := testRun("r1", "2026-08-26T10:00:00Z")
	data, err := EncodeRun(run)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeRun(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(decoded, run) {
		t.Fatalf("codec changed the record")
	}

	run.CodecVersion = 2
	stale, err := EncodeRun(run)
	if err != nil {
		t.Fatalf("encode stale: %v", err)
	}
	if _, err := DecodeRun(stale); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("got %v, want ErrVersionMismatch", err)
	}
	if _, err := DecodeRun([]byte("{")); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
}

func TestNewStoreFactory(t *testing.T) {
	for _, kind := range []string{"", "memory"} {
		store, err := NewStore(kind, "")
		if err != nil {
			t.Fatalf("kind %q: %v", kind, err)
		}
		if _, ok := store.(*MemoryStore); !ok {
			t.Fatalf("kind %q produced %T", kind, store)
		}
		if err := CloseIfSupported(store); err != nil {
			t.Fatalf("close memory store: %v", err)
		}
	}
	if _, err := NewStore("cassette", ""); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}
