package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"autosub/internal/history"
	"autosub/internal/language"
	"autosub/internal/logging"
	"autosub/internal/services"
	"autosub/internal/srt"
)

// LockFileName is created inside the output directory while a run is active.
const LockFileName = ".autosub.lock"

// Run processes every input in req and returns one Result per input in
// input order. Any error aborts the run; artifacts already written are left
// in place.
func (r *Runner) Run(ctx context.Context, req Request) ([]Result, error) {
	outputDir := strings.TrimSpace(req.OutputDir)
	if outputDir == "" {
		outputDir = "."
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	plan, err := planInputs(req, outputDir)
	if err != nil {
		return nil, err
	}

	lock := flock.New(filepath.Join(outputDir, LockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire output lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrLocked, outputDir)
	}
	defer func() { _ = lock.Unlock() }()

	runID := r.newRunID()
	ctx = logging.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, r.logger)

	workDir, err := r.createWorkDir(req.WorkDir, runID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			logging.WarnWithContext(logger, "work directory cleanup failed", "cleanup_failed",
				logging.String("path", workDir),
				logging.Error(err),
				logging.String(logging.FieldImpact, "temporary audio remains on disk"),
			)
		}
	}()

	logger.Info("run started",
		logging.Int("inputs", len(plan)),
		logging.String("output_dir", outputDir),
		logging.String("model", req.Transcribe.Model),
		logging.String("task", string(req.Transcribe.Task)),
	)

	runErr := r.execute(ctx, req, plan, workDir)
	r.recordHistory(ctx, runID, req, plan)
	if runErr != nil {
		for _, in := range plan {
			if in.err == nil {
				continue
			}
			attrs := []logging.Attr{
				logging.String(logging.FieldInput, in.source),
				logging.Error(in.err),
			}
			if hint := services.Hint(in.err); hint != "" {
				attrs = append(attrs, logging.String(logging.FieldErrorHint, hint))
			}
			logging.ErrorWithContext(logger, "input failed", "input_failed", attrs...)
		}
		return nil, runErr
	}

	results := make([]Result, 0, len(plan))
	for _, in := range plan {
		res := Result{
			Source:          in.source,
			Name:            in.name,
			Segments:        in.segments,
			DurationSeconds: in.duration,
			Warnings:        in.warnings,
		}
		if req.WriteSRT || req.SRTOnly {
			res.SRTPath = in.srtPath
		}
		if !req.SRTOnly {
			res.VideoPath = in.video
		}
		results = append(results, res)
	}
	logger.Info("run finished", logging.Int("inputs", len(results)))
	return results, nil
}

func (r *Runner) createWorkDir(parent, runID string) (string, error) {
	if strings.TrimSpace(parent) == "" {
		parent = os.TempDir()
	}
	dir := filepath.Join(parent, "autosub-"+runID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create work directory: %w", err)
	}
	return dir, nil
}

func (r *Runner) execute(ctx context.Context, req Request, plan []*input, workDir string) error {
	if err := r.inspect(logging.WithPhase(ctx, "inspect"), req, plan); err != nil {
		return err
	}
	if err := r.extract(logging.WithPhase(ctx, "extract"), plan, workDir); err != nil {
		return err
	}
	if err := r.transcribe(logging.WithPhase(ctx, "transcribe"), req, plan, workDir); err != nil {
		return err
	}
	if req.SRTOnly {
		for _, in := range plan {
			in.done = true
		}
		return nil
	}
	return r.render(logging.WithPhase(ctx, "render"), req, plan)
}

func (r *Runner) inspect(ctx context.Context, req Request, plan []*input) error {
	logger := logging.WithContext(ctx, r.logger)
	for _, in := range plan {
		if err := ctx.Err(); err != nil {
			return err
		}
		probe, err := r.probe(ctx, in.source)
		if err != nil {
			return in.fail(fmt.Errorf("inspect %s: %w", in.source, err))
		}
		if err := probe.RequireAudio(); err != nil {
			return in.fail(services.Wrap(services.ErrValidation, "inspect", in.source, "", err))
		}
		if !req.SRTOnly {
			if err := probe.RequireVideo(); err != nil {
				return in.fail(services.Wrap(services.ErrValidation, "inspect", in.source, "use --srt-only for audio files", err))
			}
		}
		in.duration = probe.DurationSeconds()
		audio, _ := probe.FirstAudio()
		logger.Debug("input inspected",
			logging.String(logging.FieldInput, in.source),
			logging.Float64("duration_seconds", in.duration),
			logging.Int("audio_streams", probe.AudioStreamCount()),
			logging.Int("video_streams", probe.VideoStreamCount()),
			logging.String("audio_codec", audio.CodecName),
		)
		if req.Transcribe.Language == "" {
			if tagged := language.FromStreamTags(audio.Tags); tagged != "" {
				logger.Info("audio stream carries a language tag",
					logging.String(logging.FieldInput, in.source),
					logging.String("language", tagged),
					logging.String(logging.FieldErrorHint, "pass --language "+tagged+" to skip detection"),
				)
			}
		}
	}
	return nil
}

func (r *Runner) extract(ctx context.Context, plan []*input, workDir string) error {
	logger := logging.WithContext(ctx, r.logger)
	for _, in := range plan {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.printf("Extracting audio from %s...\n", in.name)
		in.audio = filepath.Join(workDir, in.name+".wav")
		started := time.Now()
		if err := r.media.ExtractAudio(ctx, in.source, in.audio); err != nil {
			return in.fail(fmt.Errorf("extract audio from %s: %w", in.source, err))
		}
		logger.Debug("audio extracted",
			logging.String(logging.FieldInput, in.source),
			logging.String("audio", in.audio),
			logging.Duration("elapsed", time.Since(started)),
		)
	}
	return nil
}

func (r *Runner) transcribe(ctx context.Context, req Request, plan []*input, workDir string) error {
	logger := logging.WithContext(ctx, r.logger)
	for _, in := range plan {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.printf("Generating subtitles for %s... This might take a while.\n", in.name)
		started := time.Now()
		segments, err := r.transcriber.Transcribe(ctx, in.audio, workDir, req.Transcribe)
		if err != nil {
			return in.fail(fmt.Errorf("transcribe %s: %w", in.source, err))
		}
		if err := srt.WriteFile(in.srtPath, segments); err != nil {
			return in.fail(fmt.Errorf("write subtitles for %s: %w", in.source, err))
		}
		in.segments = len(segments)
		r.printf("Saved subtitles to %s\n", in.srtPath)

		in.warnings = srt.Validate(in.srtPath, in.duration)
		for _, issue := range in.warnings {
			logging.WarnWithContext(logger, "subtitle validation issue", "subtitle_validation",
				logging.String(logging.FieldInput, in.source),
				logging.String("issue", issue),
				logging.String(logging.FieldErrorHint, "inspect the generated .srt file"),
				logging.String(logging.FieldImpact, "subtitles may be empty or mistimed"),
			)
		}
		logger.Info("subtitles written",
			logging.String(logging.FieldInput, in.source),
			logging.String("srt", in.srtPath),
			logging.Int("segments", in.segments),
			logging.Duration("elapsed", time.Since(started)),
		)
		if err := os.Remove(in.audio); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Debug("temporary audio removal failed", logging.String("audio", in.audio), logging.Error(err))
		}
	}
	return nil
}

func (r *Runner) render(ctx context.Context, req Request, plan []*input) error {
	logger := logging.WithContext(ctx, r.logger)
	for _, in := range plan {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.printf("Adding subtitles to %s...\n", in.name)
		started := time.Now()
		if err := r.media.BurnSubtitles(ctx, in.source, in.srtPath, in.video, r.style); err != nil {
			return in.fail(fmt.Errorf("add subtitles to %s: %w", in.source, err))
		}
		display := in.video
		if abs, err := filepath.Abs(in.video); err == nil {
			display = abs
		}
		r.printf("Saved subtitled video to %s.\n", display)
		logger.Info("subtitled video written",
			logging.String(logging.FieldInput, in.source),
			logging.String("video", display),
			logging.Duration("elapsed", time.Since(started)),
		)

		if !req.WriteSRT {
			if err := os.Remove(in.srtPath); err != nil && !errors.Is(err, os.ErrNotExist) {
				logging.WarnWithContext(logger, "subtitle cleanup failed", "cleanup_failed",
					logging.String("srt", in.srtPath),
					logging.Error(err),
					logging.String(logging.FieldImpact, "unrequested .srt file remains in the output directory"),
				)
			}
		}
		in.done = true
	}
	return nil
}

func (r *Runner) recordHistory(ctx context.Context, runID string, req Request, plan []*input) {
	if r.history == nil {
		return
	}
	logger := logging.WithContext(ctx, r.logger)
	// Recording must survive a cancelled run context.
	recordCtx := context.WithoutCancel(ctx)

	for _, in := range plan {
		row := history.Run{
			RunID:           runID,
			SourcePath:      absOrSelf(in.source),
			Model:           req.Transcribe.Model,
			Task:            string(req.Transcribe.Task),
			Language:        req.Transcribe.Language,
			Segments:        in.segments,
			DurationSeconds: in.duration,
			Status:          history.StatusSucceeded,
		}
		if in.done {
			if req.WriteSRT || req.SRTOnly {
				row.SRTPath = absOrSelf(in.srtPath)
			}
			if !req.SRTOnly {
				row.VideoPath = absOrSelf(in.video)
			}
		} else {
			row.Status = history.StatusFailed
			row.ErrorMessage = "run aborted before this input completed"
			if in.err != nil {
				row.ErrorMessage = in.err.Error()
			}
		}
		if _, err := r.history.Record(recordCtx, row); err != nil {
			logging.WarnWithContext(logger, "history record failed", "history_write_failed",
				logging.String(logging.FieldInput, in.source),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check state_dir permissions"),
				logging.String(logging.FieldImpact, "run missing from autosub history"),
			)
		}
	}
}

func absOrSelf(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

func (r *Runner) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.progress, format, args...)
}
