package srt

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

const (
	msPerHour   = 3_600_000
	msPerMinute = 60_000
	msPerSecond = 1_000

	// FullWidthComma replaces ASCII commas in cue text.
	FullWidthComma = "，"
)

// commaPattern matches an ASCII comma together with the spaces that follow
// it on the same line.
var commaPattern = regexp.MustCompile(`, *`)

// Segment is one contiguous span of recognized speech.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Block is a rendered subtitle cue.
type Block struct {
	Index int
	Start string
	End   string
	Text  string
}

// FormatTimestamp renders seconds as HH:MM:SS,mmm. Hours are zero padded to
// two digits and grow as needed. Negative and non-finite inputs render as
// 00:00:00,000.
func FormatTimestamp(seconds float64) string {
	ms := toMilliseconds(seconds)
	hours := ms / msPerHour
	ms -= hours * msPerHour
	minutes := ms / msPerMinute
	ms -= minutes * msPerMinute
	secs := ms / msPerSecond
	ms -= secs * msPerSecond
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, ms)
}

// toMilliseconds rounds half to even, matching the rounding the transcript
// timestamps were historically produced with.
func toMilliseconds(seconds float64) int64 {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds <= 0 {
		return 0
	}
	return int64(math.RoundToEven(seconds * 1000))
}

// NormalizeText trims surrounding whitespace and swaps each ASCII comma, and
// any spaces directly after it, for a single full-width comma. Interior
// newlines are kept.
func NormalizeText(text string) string {
	return commaPattern.ReplaceAllLiteralString(strings.TrimSpace(text), FullWidthComma)
}

// Blocks maps segments 1:1 to numbered cues in input order.
func Blocks(segments []Segment) []Block {
	blocks := make([]Block, 0, len(segments))
	for i, seg := range segments {
		blocks = append(blocks, Block{
			Index: i + 1,
			Start: FormatTimestamp(seg.Start),
			End:   FormatTimestamp(seg.End),
			Text:  NormalizeText(seg.Text),
		})
	}
	return blocks
}

// Write renders segments to w. Nothing is written for an empty slice. The
// output is flushed before Write returns.
func Write(w io.Writer, segments []Segment) error {
	bw := bufio.NewWriter(w)
	for _, block := range Blocks(segments) {
		bw.WriteString(strconv.Itoa(block.Index))
		bw.WriteByte('\n')
		bw.WriteString(block.Start)
		bw.WriteString(" --> ")
		bw.WriteString(block.End)
		bw.WriteByte('\n')
		bw.WriteString(block.Text)
		bw.WriteString("\n\n")
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write srt: %w", err)
	}
	return nil
}

// WriteFile renders segments into path. The file is staged next to the
// destination and renamed into place once complete.
func WriteFile(path string, segments []Segment) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure srt directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create srt: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if err := Write(tmp, segments); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close srt: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		cleanup()
		return fmt.Errorf("chmod srt: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return fmt.Errorf("rename srt: %w", err)
	}
	return nil
}
