package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Status is the outcome recorded for one input.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// timeLayout is fixed width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000Z"

// Run is one history row.
type Run struct {
	ID              int64     `json:"id" yaml:"id"`
	RunID           string    `json:"run_id" yaml:"run_id"`
	SourcePath      string    `json:"source_path" yaml:"source_path"`
	SRTPath         string    `json:"srt_path,omitempty" yaml:"srt_path,omitempty"`
	VideoPath       string    `json:"video_path,omitempty" yaml:"video_path,omitempty"`
	Model           string    `json:"model" yaml:"model"`
	Task            string    `json:"task" yaml:"task"`
	Language        string    `json:"language,omitempty" yaml:"language,omitempty"`
	Segments        int       `json:"segments" yaml:"segments"`
	DurationSeconds float64   `json:"duration_seconds" yaml:"duration_seconds"`
	Status          Status    `json:"status" yaml:"status"`
	ErrorMessage    string    `json:"error_message,omitempty" yaml:"error_message,omitempty"`
	CreatedAt       time.Time `json:"created_at" yaml:"created_at"`
}

// Record inserts run and returns it with ID and CreatedAt populated.
func (s *Store) Record(ctx context.Context, run Run) (Run, error) {
	if strings.TrimSpace(run.SourcePath) == "" {
		return Run{}, errors.New("record history: source path required")
	}
	if run.Status == "" {
		run.Status = StatusSucceeded
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	run.CreatedAt = run.CreatedAt.UTC()

	res, err := s.execWithRetry(ctx, `INSERT INTO runs (
		run_id, source_path, srt_path, video_path, model, task, language,
		segments, duration_seconds, status, error_message, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.SourcePath, run.SRTPath, run.VideoPath, run.Model, run.Task, run.Language,
		run.Segments, run.DurationSeconds, string(run.Status), run.ErrorMessage,
		run.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return Run{}, fmt.Errorf("record history: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Run{}, fmt.Errorf("record history: last insert id: %w", err)
	}
	run.ID = id
	return run, nil
}

// List returns the most recent runs, newest first. A limit of zero or less
// returns every row.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, run_id, source_path, srt_path, video_path, model, task, language,
		segments, duration_seconds, status, error_message, created_at
		FROM runs ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var runs []Run
	err := retryOnBusy(ctx, func() error {
		rows, err := s.db.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		runs = runs[:0]
		for rows.Next() {
			run, err := scanRun(rows)
			if err != nil {
				return err
			}
			runs = append(runs, run)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return runs, nil
}

// Prune deletes runs recorded before now minus olderThan and reports how
// many rows were removed.
func (s *Store) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, nil
	}
	cutoff := time.Now().Add(-olderThan).UTC().Format(timeLayout)
	res, err := s.execWithRetry(ctx, "DELETE FROM runs WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune history: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune history: rows affected: %w", err)
	}
	return removed, nil
}

func scanRun(rows *sql.Rows) (Run, error) {
	var (
		run       Run
		status    string
		createdAt string
	)
	if err := rows.Scan(
		&run.ID, &run.RunID, &run.SourcePath, &run.SRTPath, &run.VideoPath, &run.Model, &run.Task,
		&run.Language, &run.Segments, &run.DurationSeconds, &status, &run.ErrorMessage, &createdAt,
	); err != nil {
		return Run{}, err
	}
	run.Status = Status(status)
	parsed, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return Run{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	run.CreatedAt = parsed
	return run, nil
}
