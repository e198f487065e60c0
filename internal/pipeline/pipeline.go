package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"autosub/internal/history"
	"autosub/internal/logging"
	"autosub/internal/media/ffprobe"
	"autosub/internal/srt"
	"autosub/internal/transcribe"
)

// ErrLocked reports that another run holds the output directory lock.
var ErrLocked = errors.New("output directory is locked by another autosub run")

// ErrDuplicateName reports two inputs that would write the same artifacts.
var ErrDuplicateName = errors.New("inputs share an output name")

// Media extracts audio from and burns subtitles into video files.
type Media interface {
	ExtractAudio(ctx context.Context, source, dest string) error
	BurnSubtitles(ctx context.Context, source, srtPath, dest, style string) error
}

// Transcriber turns a WAV file into timed segments.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, workDir string, opts transcribe.Options) ([]srt.Segment, error)
}

// Prober inspects an input before extraction.
type Prober func(ctx context.Context, path string) (ffprobe.Result, error)

// Recorder persists per-input outcomes.
type Recorder interface {
	Record(ctx context.Context, run history.Run) (history.Run, error)
}

// Request describes one invocation.
type Request struct {
	Inputs    []string
	OutputDir string
	// WriteSRT keeps <name>.srt next to the rendered video. The file is
	// always kept when SRTOnly is set.
	WriteSRT   bool
	SRTOnly    bool
	Transcribe transcribe.Options
	// WorkDir is the parent of the per-run scratch directory. Empty selects
	// the system temporary directory.
	WorkDir string
}

// Result reports the artifacts produced for one input.
type Result struct {
	Source          string
	Name            string
	SRTPath         string
	VideoPath       string
	Segments        int
	DurationSeconds float64
	Warnings        []string
}

// Dependencies wires the runner's collaborators. Media, Transcriber, and
// Probe are required; History may be nil to disable run history.
type Dependencies struct {
	Media         Media
	Transcriber   Transcriber
	Probe         Prober
	History       Recorder
	Logger        *slog.Logger
	Progress      io.Writer
	SubtitleStyle string
}

// Runner executes pipeline requests.
type Runner struct {
	media       Media
	transcriber Transcriber
	probe       Prober
	history     Recorder
	logger      *slog.Logger
	progress    io.Writer
	style       string
	newRunID    func() string
}

// New validates deps and returns a Runner.
func New(deps Dependencies) (*Runner, error) {
	if deps.Media == nil || deps.Transcriber == nil || deps.Probe == nil {
		return nil, errors.New("pipeline requires media, transcriber, and probe")
	}
	progress := deps.Progress
	if progress == nil {
		progress = os.Stdout
	}
	return &Runner{
		media:       deps.Media,
		transcriber: deps.Transcriber,
		probe:       deps.Probe,
		history:     deps.History,
		logger:      logging.NewComponentLogger(deps.Logger, "pipeline"),
		progress:    progress,
		style:       deps.SubtitleStyle,
		newRunID:    uuid.NewString,
	}, nil
}
