package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"autosub/internal/services"
)

// DefaultSubtitleStyle renders subtitles on a translucent dark box.
const DefaultSubtitleStyle = "OutlineColour=&H40000000,BorderStyle=3"

// CommandRunner executes an ffmpeg invocation.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// Tool invokes a specific ffmpeg binary.
type Tool struct {
	binary        string
	commandRunner CommandRunner
}

// New returns a Tool for binary, defaulting to "ffmpeg" on PATH.
func New(binary string) *Tool {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	return &Tool{binary: binary}
}

// WithCommandRunner sets a custom command runner (for testing).
func (t *Tool) WithCommandRunner(runner CommandRunner) {
	t.commandRunner = runner
}

// Binary returns the configured executable.
func (t *Tool) Binary() string {
	return t.binary
}

// ExtractAudio writes the first audio stream of source to dest as a mono
// 16 kHz signed 16-bit PCM WAV file, overwriting dest.
func (t *Tool) ExtractAudio(ctx context.Context, source, dest string) error {
	if strings.TrimSpace(source) == "" || strings.TrimSpace(dest) == "" {
		return errors.New("extract audio: source and destination required")
	}
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-map", "0:a:0",
		"-vn",
		"-sn",
		"-dn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		dest,
	}
	if err := t.run(ctx, args...); err != nil {
		return services.Wrap(services.ErrExternalTool, "extract", "ffmpeg", "", err)
	}
	return nil
}

// BurnSubtitles renders srtPath onto the first video stream of source and
// writes the result, with the first audio stream carried over, to dest.
// An empty style selects DefaultSubtitleStyle.
func (t *Tool) BurnSubtitles(ctx context.Context, source, srtPath, dest, style string) error {
	if strings.TrimSpace(source) == "" || strings.TrimSpace(srtPath) == "" || strings.TrimSpace(dest) == "" {
		return errors.New("burn subtitles: source, subtitle, and destination required")
	}
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-map", "0:v:0",
		"-map", "0:a:0?",
		"-vf", SubtitlesFilter(srtPath, style),
		dest,
	}
	if err := t.run(ctx, args...); err != nil {
		return services.Wrap(services.ErrExternalTool, "render", "ffmpeg", "burn subtitles", err)
	}
	return nil
}

func (t *Tool) run(ctx context.Context, args ...string) error {
	if t.commandRunner != nil {
		return t.commandRunner(ctx, t.binary, args...)
	}
	cmd := exec.CommandContext(ctx, t.binary, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

// SubtitlesFilter builds the -vf argument that draws srtPath with style.
func SubtitlesFilter(srtPath, style string) string {
	style = strings.TrimSpace(style)
	if style == "" {
		style = DefaultSubtitleStyle
	}
	return fmt.Sprintf("subtitles=filename=%s:force_style='%s'", EscapeFilterPath(srtPath), style)
}

var (
	optionEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`, `:`, `\:`)
	graphEscaper  = strings.NewReplacer(`\`, `\\`, `'`, `\'`, `[`, `\[`, `]`, `\]`, `,`, `\,`, `;`, `\;`)
)

// EscapeFilterPath escapes path for use as an unquoted filter option value
// inside a filtergraph. Both the option level and the graph level are
// escaped, so Windows drive letters and commas in file names survive.
func EscapeFilterPath(path string) string {
	return graphEscaper.Replace(optionEscaper.Replace(path))
}
