package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"autosub/internal/config"
	"autosub/internal/deps"
	"autosub/internal/media/ffprobe"
	"autosub/internal/pipeline"
	"autosub/internal/srt"
	"autosub/internal/transcribe"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	outputDir  string
	stateDir   string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	home := filepath.Join(base, "home")
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", home)
	t.Setenv("AUTOSUB_MODEL", "")
	t.Setenv("HF_TOKEN", "")
	t.Setenv("HUGGING_FACE_HUB_TOKEN", "")

	env := &cliTestEnv{
		baseDir:    base,
		configPath: filepath.Join(base, "autosub.toml"),
		outputDir:  filepath.Join(base, "out"),
		stateDir:   filepath.Join(base, "state"),
	}
	content := fmt.Sprintf("[paths]\nstate_dir = %q\nlog_dir = %q\nwork_dir = %q\n\n[output]\ndir = %q\n",
		env.stateDir,
		filepath.Join(base, "logs"),
		filepath.Join(base, "work"),
		env.outputDir,
	)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return env
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

type stubMedia struct{}

func (stubMedia) ExtractAudio(_ context.Context, _, dest string) error {
	return os.WriteFile(dest, []byte("RIFF"), 0o644)
}

func (stubMedia) BurnSubtitles(_ context.Context, _, _, dest, _ string) error {
	return os.WriteFile(dest, []byte("video"), 0o644)
}

type stubTranscriber struct {
	opts *transcribe.Options
}

func (s stubTranscriber) Transcribe(_ context.Context, _, _ string, opts transcribe.Options) ([]srt.Segment, error) {
	*s.opts = opts
	return []srt.Segment{{Start: 0, End: 1.5, Text: "hi, there"}}, nil
}

// stubPipeline replaces external tools with in-process fakes and reports the
// options the transcriber received.
func stubPipeline(t *testing.T) *transcribe.Options {
	t.Helper()
	var got transcribe.Options

	origRunner := newPipelineRunner
	origDeps := checkSystemDeps
	newPipelineRunner = func(cfg *config.Config, logger *slog.Logger, recorder pipeline.Recorder, progress io.Writer) (*pipeline.Runner, error) {
		return pipeline.New(pipeline.Dependencies{
			Media:       stubMedia{},
			Transcriber: stubTranscriber{opts: &got},
			Probe: func(context.Context, string) (ffprobe.Result, error) {
				return ffprobe.Result{Streams: []ffprobe.Stream{{CodecType: "video"}, {CodecType: "audio"}}, Format: ffprobe.Format{Duration: "10"}}, nil
			},
			History:       recorder,
			Logger:        logger,
			Progress:      progress,
			SubtitleStyle: cfg.Output.SubtitleStyle,
		})
	}
	checkSystemDeps = func(*config.Config) []deps.Status {
		return []deps.Status{{Name: "FFmpeg", Available: true}}
	}
	t.Cleanup(func() {
		newPipelineRunner = origRunner
		checkSystemDeps = origDeps
	})
	return &got
}

func writeInput(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("media"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return path
}
