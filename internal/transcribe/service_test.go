package transcribe

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"autosub/internal/logging"
	"autosub/internal/srt"
)

type recordedCall struct {
	env  []string
	name string
	args []string
}

func stubRunner(t *testing.T, payload string, calls *[]recordedCall) CommandRunner {
	t.Helper()
	return func(_ context.Context, env []string, name string, args ...string) error {
		*calls = append(*calls, recordedCall{env: env, name: name, args: args})
		outDir := argValue(args, "--output_dir")
		if outDir == "" {
			t.Fatalf("missing --output_dir in %v", args)
		}
		source := args[slices.Index(args, "whisperx")+1]
		base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
		return os.WriteFile(filepath.Join(outDir, base+".json"), []byte(payload), 0o644)
	}
}

func argValue(args []string, flag string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}

func TestTranscribeReturnsSegmentsInEmittedOrder(t *testing.T) {
	workDir := t.TempDir()
	payload := `{"segments":[
		{"start":5.0,"end":6.5,"text":" second "},
		{"start":1.0,"end":4.5,"text":"Hello, world","words":[{"word":"Hello","start":1.0,"end":1.4}]}
	],"language":"en"}`

	var calls []recordedCall
	svc := NewService(Config{UVXBinary: "uvx-test"}, logging.NewNop())
	svc.WithCommandRunner(stubRunner(t, payload, &calls))

	segments, err := svc.Transcribe(context.Background(), filepath.Join(workDir, "clip.wav"), workDir, Options{
		Model: "small",
		Task:  TaskTranslate,
	})
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}

	want := []srt.Segment{
		{Start: 5.0, End: 6.5, Text: " second "},
		{Start: 1.0, End: 4.5, Text: "Hello, world"},
	}
	if !slices.Equal(segments, want) {
		t.Fatalf("segments = %+v, want %+v", segments, want)
	}

	if len(calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(calls))
	}
	call := calls[0]
	if call.name != "uvx-test" {
		t.Fatalf("binary = %q", call.name)
	}
	if got := argValue(call.args, "--task"); got != "translate" {
		t.Fatalf("--task = %q", got)
	}
	if got := argValue(call.args, "--output_format"); got != "json" {
		t.Fatalf("--output_format = %q", got)
	}
	if slices.Contains(call.args, "--language") {
		t.Fatalf("auto-detect should omit --language: %v", call.args)
	}
}

func TestTranscribeScopesWarningSuppressionToChild(t *testing.T) {
	t.Setenv("PYTHONWARNINGS", "default")
	workDir := t.TempDir()

	var calls []recordedCall
	svc := NewService(Config{}, nil)
	svc.WithCommandRunner(stubRunner(t, `{"segments":[]}`, &calls))

	opts := Options{Model: "base", Language: "de", Task: TaskTranscribe, SuppressWarnings: true}
	if _, err := svc.Transcribe(context.Background(), filepath.Join(workDir, "a.wav"), workDir, opts); err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if !slices.Contains(calls[0].env, "PYTHONWARNINGS=ignore") {
		t.Fatalf("child env missing suppression: %v", calls[0].env)
	}
	if got := os.Getenv("PYTHONWARNINGS"); got != "default" {
		t.Fatalf("process env modified: PYTHONWARNINGS=%q", got)
	}
	if got := argValue(calls[0].args, "--language"); got != "de" {
		t.Fatalf("--language = %q", got)
	}
	if calls[0].name != UVXCommand {
		t.Fatalf("default binary = %q", calls[0].name)
	}

	opts.SuppressWarnings = false
	if _, err := svc.Transcribe(context.Background(), filepath.Join(workDir, "a.wav"), workDir, opts); err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if slices.Contains(calls[1].env, "PYTHONWARNINGS=ignore") {
		t.Fatalf("suppression applied when disabled: %v", calls[1].env)
	}
}

func TestTranscribeWrapsRunnerError(t *testing.T) {
	boom := errors.New("model load failed")
	svc := NewService(Config{}, nil)
	svc.WithCommandRunner(func(context.Context, []string, string, ...string) error { return boom })

	_, err := svc.Transcribe(context.Background(), filepath.Join(t.TempDir(), "a.wav"), "", Options{})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped runner error, got %v", err)
	}
}

func TestTranscribeMissingOutput(t *testing.T) {
	svc := NewService(Config{}, nil)
	svc.WithCommandRunner(func(context.Context, []string, string, ...string) error { return nil })

	if _, err := svc.Transcribe(context.Background(), filepath.Join(t.TempDir(), "a.wav"), "", Options{}); err == nil {
		t.Fatal("expected error when whisperx writes no json")
	}
}

func TestBuildArgsDeviceAndVAD(t *testing.T) {
	cpu := NewService(Config{}, nil).buildArgs("/a.wav", "/out", Options{Model: "tiny"})
	if argValue(cpu, "--device") != CPUDevice || argValue(cpu, "--compute_type") != CPUComputeType {
		t.Fatalf("cpu args = %v", cpu)
	}
	if argValue(cpu, "--vad_method") != VADMethodSilero {
		t.Fatalf("default vad = %v", cpu)
	}
	if argValue(cpu, "--task") != string(TaskTranscribe) {
		t.Fatalf("default task = %v", cpu)
	}

	gpu := NewService(Config{CUDAEnabled: true, VADMethod: VADMethodPyannote, HFToken: "tok"}, nil).
		buildArgs("/a.wav", "/out", Options{Model: "tiny"})
	if argValue(gpu, "--device") != CUDADevice {
		t.Fatalf("gpu args = %v", gpu)
	}
	if argValue(gpu, "--index-url") != CUDAIndexURL {
		t.Fatalf("gpu index = %v", gpu)
	}
	if argValue(gpu, "--hf_token") != "tok" {
		t.Fatalf("pyannote token missing: %v", gpu)
	}
}
