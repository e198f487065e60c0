package history_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"autosub/internal/history"
)

func openStore(t *testing.T) *history.Store {
	t.Helper()
	store, err := history.Open(context.Background(), filepath.Join(t.TempDir(), "state", "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndList(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	first, err := store.Record(ctx, history.Run{
		RunID:           "run-1",
		SourcePath:      "/videos/a.mp4",
		SRTPath:         "/out/a.srt",
		VideoPath:       "/out/a.mp4",
		Model:           "small",
		Task:            "transcribe",
		Segments:        12,
		DurationSeconds: 61.5,
		CreatedAt:       base,
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if first.ID == 0 || first.Status != history.StatusSucceeded {
		t.Fatalf("unexpected recorded run: %+v", first)
	}

	if _, err := store.Record(ctx, history.Run{
		RunID:        "run-2",
		SourcePath:   "/videos/b.mp4",
		Model:        "base.en",
		Task:         "transcribe",
		Language:     "en",
		Status:       history.StatusFailed,
		ErrorMessage: "whisperx: exit status 1",
		CreatedAt:    base.Add(time.Minute),
	}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	runs, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].RunID != "run-2" || runs[0].Status != history.StatusFailed || runs[0].ErrorMessage == "" {
		t.Fatalf("expected newest failed run first, got %+v", runs[0])
	}
	got := runs[1]
	if got.SRTPath != "/out/a.srt" || got.Segments != 12 || got.DurationSeconds != 61.5 {
		t.Fatalf("round-tripped run mismatch: %+v", got)
	}
	if !got.CreatedAt.Equal(base) {
		t.Fatalf("created_at = %v, want %v", got.CreatedAt, base)
	}

	limited, err := store.List(ctx, 1)
	if err != nil {
		t.Fatalf("List(1): %v", err)
	}
	if len(limited) != 1 || limited[0].RunID != "run-2" {
		t.Fatalf("unexpected limited list: %+v", limited)
	}
}

func TestRecordRequiresSource(t *testing.T) {
	store := openStore(t)
	if _, err := store.Record(context.Background(), history.Run{Model: "small"}); err == nil {
		t.Fatal("expected error for missing source path")
	}
}

func TestPrune(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	old := history.Run{SourcePath: "/v/old.mp4", Model: "small", Task: "transcribe", CreatedAt: time.Now().Add(-48 * time.Hour)}
	recent := history.Run{SourcePath: "/v/new.mp4", Model: "small", Task: "transcribe"}
	for _, run := range []history.Run{old, recent} {
		if _, err := store.Record(ctx, run); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	removed, err := store.Prune(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	runs, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 1 || runs[0].SourcePath != "/v/new.mp4" {
		t.Fatalf("unexpected remaining runs: %+v", runs)
	}

	if removed, err := store.Prune(ctx, 0); err != nil || removed != 0 {
		t.Fatalf("Prune(0) = %d, %v", removed, err)
	}
}

func TestReopenKeepsRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	store, err := history.Open(ctx, path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := store.Record(ctx, history.Run{SourcePath: "/v/a.mp4", Model: "small", Task: "transcribe"}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := history.Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	runs, err := reopened.List(ctx, 0)
	if err != nil || len(runs) != 1 {
		t.Fatalf("List after reopen = %d runs, %v", len(runs), err)
	}
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	if _, err := history.Open(context.Background(), " "); err == nil {
		t.Fatal("expected error")
	}
}
