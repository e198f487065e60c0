package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"autosub/internal/config"
	"autosub/internal/deps"
	"autosub/internal/history"
	"autosub/internal/logging"
	"autosub/internal/media/ffmpeg"
	"autosub/internal/media/ffprobe"
	"autosub/internal/pipeline"
	"autosub/internal/preflight"
	"autosub/internal/transcribe"
)

type generateFlags struct {
	model     string
	outputDir string
	outputSRT bool
	srtOnly   bool
	verbose   bool
	task      string
	language  string
}

func (f *generateFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.model, "model", transcribe.DefaultModel,
		"Whisper model to use ("+strings.Join(transcribe.AvailableModels(), ", ")+")")
	fs.StringVarP(&f.outputDir, "output-dir", "o", ".", "Directory to save the outputs")
	fs.BoolVar(&f.outputSRT, "output-srt", true, "Keep the .srt file alongside the subtitled video (disable with --output-srt=false)")
	fs.BoolVar(&f.srtOnly, "srt-only", false, "Only generate the .srt file; do not render a subtitled video")
	fs.BoolVar(&f.verbose, "verbose", false, "Print debug logging")
	fs.StringVar(&f.task, "task", string(transcribe.TaskTranscribe), "transcribe, or translate to English")
	fs.StringVar(&f.language, "language", "auto", "Spoken language of the video; auto detects it")
}

// apply copies explicitly set flags over the loaded configuration.
func (f *generateFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	fs := cmd.Flags()
	if fs.Changed("model") {
		cfg.Transcription.Model = f.model
	}
	if fs.Changed("task") {
		cfg.Transcription.Task = f.task
	}
	if fs.Changed("language") {
		cfg.Transcription.Language = f.language
	}
	if fs.Changed("output-dir") {
		cfg.Output.Dir = f.outputDir
	}
	if fs.Changed("output-srt") {
		cfg.Output.WriteSRT = f.outputSRT
	}
	if fs.Changed("srt-only") {
		cfg.Output.SRTOnly = f.srtOnly
	}
}

var checkSystemDeps = preflight.CheckSystemDeps

// newPipelineRunner builds the production pipeline. Tests replace it to
// inject fake media and transcription collaborators.
var newPipelineRunner = func(cfg *config.Config, logger *slog.Logger, recorder pipeline.Recorder, progress io.Writer) (*pipeline.Runner, error) {
	whisper := transcribe.NewService(transcribe.Config{
		UVXBinary:   cfg.Tools.UVX,
		CUDAEnabled: cfg.Transcription.CUDAEnabled,
		VADMethod:   cfg.Transcription.VADMethod,
		HFToken:     cfg.Transcription.HuggingFaceToken,
	}, logger)
	probeBinary := cfg.Tools.FFprobe
	return pipeline.New(pipeline.Dependencies{
		Media:       ffmpeg.New(cfg.Tools.FFmpeg),
		Transcriber: whisper,
		Probe: func(ctx context.Context, path string) (ffprobe.Result, error) {
			return ffprobe.Inspect(ctx, probeBinary, path)
		},
		History:       recorder,
		Logger:        logger,
		Progress:      progress,
		SubtitleStyle: cfg.Output.SubtitleStyle,
	})
}

func runGenerate(cmd *cobra.Command, ctx *commandContext, flags *generateFlags, inputs []string) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	flags.apply(cmd, cfg)

	levelOverride := ""
	if flags.verbose {
		levelOverride = "debug"
	}
	logger, err := logging.NewFromConfig(cfg, levelOverride)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logging.CleanupOldLogs(logger, cfg.Paths.LogDir, config.LogFilePattern, cfg.Logging.RetentionDays)

	opts, err := transcribe.ResolveOptions(logger, cfg.Transcription.Model, cfg.Transcription.Language, cfg.Transcription.Task)
	if err != nil {
		return err
	}
	opts.SuppressWarnings = cfg.Transcription.SuppressWarnings

	if err := deps.MissingRequired(checkSystemDeps(cfg)); err != nil {
		return err
	}

	var recorder pipeline.Recorder
	if cfg.History.Enabled {
		store, err := openHistory(cmd, cfg, logger)
		if err != nil {
			logging.WarnWithContext(logger, "run history unavailable", "history_open_failed",
				logging.Error(err),
				logging.String("path", cfg.HistoryPath()),
				logging.String(logging.FieldErrorHint, "check state_dir permissions or set history.enabled = false"),
				logging.String(logging.FieldImpact, "this run will not appear in autosub history"),
			)
		} else {
			defer store.Close()
			recorder = store
		}
	}

	runner, err := newPipelineRunner(cfg, logger, recorder, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	_, err = runner.Run(cmd.Context(), pipeline.Request{
		Inputs:     inputs,
		OutputDir:  cfg.Output.Dir,
		WriteSRT:   cfg.Output.WriteSRT,
		SRTOnly:    cfg.Output.SRTOnly,
		Transcribe: opts,
		WorkDir:    cfg.Paths.WorkDir,
	})
	return err
}

func openHistory(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) (*history.Store, error) {
	store, err := history.Open(cmd.Context(), cfg.HistoryPath())
	if err != nil {
		return nil, err
	}
	if cfg.History.RetentionDays > 0 {
		retention := time.Duration(cfg.History.RetentionDays) * 24 * time.Hour
		if removed, err := store.Prune(cmd.Context(), retention); err != nil {
			logger.Debug("history prune failed", logging.Error(err))
		} else if removed > 0 {
			logger.Debug("history pruned", logging.Int64("removed", removed))
		}
	}
	return store, nil
}
