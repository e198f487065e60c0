package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"autosub/internal/config"
)

func TestPrettyHandlerFormatsComponentAndFields(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newPrettyHandler(&buf, lvl, false))

	NewComponentLogger(logger, "pipeline").Info("audio extracted",
		String(FieldInput, "my clip.mp4"),
		Int("segments", 3),
	)

	line := buf.String()
	if !strings.Contains(line, " INFO pipeline: audio extracted") {
		t.Fatalf("unexpected line: %q", line)
	}
	if !strings.Contains(line, `input="my clip.mp4"`) {
		t.Fatalf("expected quoted value, got %q", line)
	}
	if !strings.Contains(line, "segments=3") {
		t.Fatalf("expected int field, got %q", line)
	}
	if strings.Contains(line, "component=") {
		t.Fatalf("component should be rendered as prefix only, got %q", line)
	}
}

func TestPrettyHandlerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	lvl.Set(slog.LevelWarn)
	logger := slog.New(newPrettyHandler(&buf, lvl, false))

	logger.Info("hidden")
	logger.Warn("shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Fatalf("info record should be filtered: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "WARN shown") {
		t.Fatalf("expected warn record: %q", buf.String())
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	WarnWithContext(logger, "model forced english", "language_forced", String(FieldImpact, "language flag ignored"))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if record[FieldEventType] != "language_forced" {
		t.Fatalf("event_type = %v", record[FieldEventType])
	}
	if record[FieldImpact] != "language flag ignored" {
		t.Fatalf("caller impact should win, got %v", record[FieldImpact])
	}
	if record[FieldErrorHint] == nil {
		t.Fatal("expected default error_hint")
	}
}

func TestWithContextAddsRunFields(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	ctx := WithPhase(WithRunID(context.Background(), "run-1"), "extract")
	WithContext(ctx, logger).Info("step")

	out := buf.String()
	if !strings.Contains(out, `"run_id":"run-1"`) || !strings.Contains(out, `"phase":"extract"`) {
		t.Fatalf("missing context fields: %s", out)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewFromConfigWritesJSONLogFile(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LogDir = dir
	cfg.Logging.Level = "error"

	logger, err := NewFromConfig(&cfg, "")
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	logger.Debug("file only", String("k", "v"))

	data, err := os.ReadFile(cfg.LogPath())
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"file only"`) {
		t.Fatalf("expected debug record in log file, got %s", data)
	}
}

func TestCleanupOldLogsRemovesExpiredFiles(t *testing.T) {
	dir := t.TempDir()
	oldPath := filepath.Join(dir, "autosub-20240101.log")
	newPath := filepath.Join(dir, "autosub-20990101.log")
	otherPath := filepath.Join(dir, "notes.txt")
	for _, p := range []string{oldPath, newPath, otherPath} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	past := time.Now().AddDate(0, 0, -10)
	for _, p := range []string{oldPath, otherPath} {
		if err := os.Chtimes(p, past, past); err != nil {
			t.Fatal(err)
		}
	}

	CleanupOldLogs(NewNop(), dir, "autosub-*.log", 5)

	if _, err := os.Stat(oldPath); !os.IsNotExist(err) {
		t.Fatalf("expected old log removed, stat err=%v", err)
	}
	for _, p := range []string{newPath, otherPath} {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("expected %s kept: %v", filepath.Base(p), err)
		}
	}
}

func TestCleanupOldLogsDisabled(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "autosub-20240101.log")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	past := time.Now().AddDate(0, 0, -30)
	if err := os.Chtimes(path, past, past); err != nil {
		t.Fatal(err)
	}

	CleanupOldLogs(NewNop(), dir, "autosub-*.log", 0)
	CleanupOldLogs(NewNop(), "", "autosub-*.log", 5)

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected log kept when retention disabled: %v", err)
	}
}
