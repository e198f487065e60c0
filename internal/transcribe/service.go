package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"autosub/internal/logging"
	"autosub/internal/services"
	"autosub/internal/srt"
)

// CommandRunner executes name with args. env holds variables added to the
// inherited environment of the child process only.
type CommandRunner func(ctx context.Context, env []string, name string, args ...string) error

// Service provides WhisperX transcription capabilities.
type Service struct {
	cfg           Config
	logger        *slog.Logger
	commandRunner CommandRunner
}

// NewService creates a WhisperX service with the given configuration.
func NewService(cfg Config, logger *slog.Logger) *Service {
	if strings.TrimSpace(cfg.UVXBinary) == "" {
		cfg.UVXBinary = UVXCommand
	}
	return &Service{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "whisperx"),
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner CommandRunner) {
	s.commandRunner = runner
}

// Transcribe runs WhisperX on audioPath, writing its JSON output under
// workDir, and returns the recognized segments in emitted order.
func (s *Service) Transcribe(ctx context.Context, audioPath, workDir string, opts Options) ([]srt.Segment, error) {
	if strings.TrimSpace(audioPath) == "" {
		return nil, fmt.Errorf("transcribe: audio path required")
	}
	if workDir == "" {
		workDir = filepath.Dir(audioPath)
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("transcribe: ensure work dir: %w", err)
	}

	args := s.buildArgs(audioPath, workDir, opts)
	s.logger.Debug("launching whisperx",
		logging.String("audio", audioPath),
		logging.String("model", opts.Model),
		logging.String("task", string(opts.Task)),
		logging.String("language", opts.Language),
	)
	if err := s.run(ctx, childEnv(opts), s.cfg.UVXBinary, args...); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "transcribe", "whisperx", "", err)
	}

	baseName := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	segments, err := LoadSegments(filepath.Join(workDir, baseName+".json"))
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "transcribe", "whisperx", "read output", err)
	}
	return segments, nil
}

func childEnv(opts Options) []string {
	// Torch 2.6 changed torch.load default to weights_only=true, breaking WhisperX/pyannote.
	env := []string{"TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD=1"}
	if opts.SuppressWarnings {
		env = append(env, "PYTHONWARNINGS=ignore")
	}
	return env
}

func (s *Service) run(ctx context.Context, env []string, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, env, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	cmd.Env = append(os.Environ(), env...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// buildArgs constructs the uvx command arguments for WhisperX.
func (s *Service) buildArgs(source, outputDir string, opts Options) []string {
	args := make([]string, 0, 32)

	if s.cfg.CUDAEnabled {
		args = append(args,
			"--index-url", CUDAIndexURL,
			"--extra-index-url", PypiIndexURL,
		)
	} else {
		args = append(args, "--index-url", PypiIndexURL)
	}

	model := opts.Model
	if model == "" {
		model = DefaultModel
	}
	task := opts.Task
	if task == "" {
		task = TaskTranscribe
	}

	args = append(args,
		"whisperx",
		source,
		"--model", model,
		"--task", string(task),
		"--batch_size", BatchSize,
		"--output_dir", outputDir,
		"--output_format", OutputFormat,
	)

	vadMethod := s.cfg.VADMethod
	if vadMethod == "" {
		vadMethod = VADMethodSilero
	}
	args = append(args, "--vad_method", vadMethod)
	if vadMethod == VADMethodPyannote && s.cfg.HFToken != "" {
		args = append(args, "--hf_token", s.cfg.HFToken)
	}

	if opts.Language != "" {
		args = append(args, "--language", opts.Language)
	}

	if s.cfg.CUDAEnabled {
		args = append(args, "--device", CUDADevice)
	} else {
		args = append(args, "--device", CPUDevice, "--compute_type", CPUComputeType)
	}

	return args
}

type whisperXPayload struct {
	Segments []srt.Segment `json:"segments"`
}

// LoadSegments loads segments from a WhisperX JSON file.
func LoadSegments(jsonPath string) ([]srt.Segment, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, err
	}
	var payload whisperXPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse whisperx json: %w", err)
	}
	return payload.Segments, nil
}
