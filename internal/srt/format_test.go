package srt

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
)

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00,000"},
		{0.001, "00:00:00,001"},
		{1.0, "00:00:01,000"},
		{4.5, "00:00:04,500"},
		{7.2, "00:00:07,200"},
		{59.999, "00:00:59,999"},
		{60.0, "00:01:00,000"},
		{61.123, "00:01:01,123"},
		{3599.9996, "01:00:00,000"},
		{3600, "01:00:00,000"},
		{3661.999, "01:01:01,999"},
		{90000, "25:00:00,000"},
		{360000.5, "100:00:00,500"},
		{0.0625, "00:00:00,062"},
		{0.1875, "00:00:00,188"},
	}

	for _, tt := range tests {
		if got := FormatTimestamp(tt.seconds); got != tt.want {
			t.Errorf("FormatTimestamp(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFormatTimestampClampsInvalidInput(t *testing.T) {
	for _, value := range []float64{-1, -0.0004, math.NaN(), math.Inf(1), math.Inf(-1)} {
		if got := FormatTimestamp(value); got != "00:00:00,000" {
			t.Errorf("FormatTimestamp(%v) = %q, want zero timestamp", value, got)
		}
	}
}

func TestFormatTimestampShape(t *testing.T) {
	pattern := regexp.MustCompile(`^\d{2,}:[0-5]\d:[0-5]\d,\d{3}$`)
	for ms := 0; ms < 7_300_000; ms += 997 {
		seconds := float64(ms) / 1000
		got := FormatTimestamp(seconds)
		if !pattern.MatchString(got) {
			t.Fatalf("FormatTimestamp(%v) = %q does not match HH:MM:SS,mmm", seconds, got)
		}
		back, err := ParseTimestamp(got)
		if err != nil {
			t.Fatalf("ParseTimestamp(%q): %v", got, err)
		}
		if math.Abs(back-seconds) > 0.0005 {
			t.Fatalf("round trip drift for %v: got %v", seconds, back)
		}
	}
}

func TestWriteEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, nil); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected empty output, got %q", buf.String())
	}
}

func TestWriteSingleSegment(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, []Segment{{Start: 1.0, End: 4.5, Text: "Hello, world"}})
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	want := "1\n00:00:01,000 --> 00:00:04,500\nHello，world\n\n"
	if buf.String() != want {
		t.Fatalf("unexpected output:\n got %q\nwant %q", buf.String(), want)
	}
}

func TestWriteIsDeterministicAcrossConcurrentSinks(t *testing.T) {
	segments := []Segment{
		{Start: 0, End: 1.25, Text: "one, two"},
		{Start: 1.25, End: 3600.5, Text: "three\nfour"},
		{Start: -1, End: 0.0005, Text: "  edge  "},
	}
	var want bytes.Buffer
	if err := Write(&want, segments); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	const workers = 8
	outputs := make([]bytes.Buffer, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = Write(&outputs[i], segments)
		}()
	}
	wg.Wait()

	for i := range workers {
		if errs[i] != nil {
			t.Fatalf("worker %d: %v", i, errs[i])
		}
		if !bytes.Equal(outputs[i].Bytes(), want.Bytes()) {
			t.Fatalf("worker %d output differs:\n got %q\nwant %q", i, outputs[i].String(), want.String())
		}
	}
}

func TestWriteNumbersInInputOrder(t *testing.T) {
	segments := []Segment{
		{Start: 10, End: 12, Text: "third in time"},
		{Start: 0, End: 2, Text: "first in time"},
		{Start: 1, End: 11, Text: "overlapping"},
		{Start: 5, End: 3, Text: "ends before it starts"},
	}
	var buf bytes.Buffer
	if err := Write(&buf, segments); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	want := strings.Join([]string{
		"1", "00:00:10,000 --> 00:00:12,000", "third in time", "",
		"2", "00:00:00,000 --> 00:00:02,000", "first in time", "",
		"3", "00:00:01,000 --> 00:00:11,000", "overlapping", "",
		"4", "00:00:05,000 --> 00:00:03,000", "ends before it starts", "",
		"",
	}, "\n")
	if buf.String() != want {
		t.Fatalf("unexpected output:\n got %q\nwant %q", buf.String(), want)
	}
}

func TestWriteIsDeterministic(t *testing.T) {
	segments := []Segment{
		{Start: 0.5, End: 1.25, Text: " one, two "},
		{Start: 1.25, End: 3600.75, Text: "three"},
	}
	var first, second bytes.Buffer
	if err := Write(&first, segments); err != nil {
		t.Fatalf("first Write: %v", err)
	}
	if err := Write(&second, segments); err != nil {
		t.Fatalf("second Write: %v", err)
	}
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Fatalf("outputs differ:\n%q\n%q", first.String(), second.String())
	}
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  padded  ", "padded"},
		{"a,b,,c", "a，b，，c"},
		{"line one\nline, two", "line one\nline，two"},
		{"Hello, world", "Hello，world"},
		{"wait,   what", "wait，what"},
		{"end,\nnext", "end，\nnext"},
		{"tab,\tkept", "tab，\tkept"},
		{"\t\n", ""},
		{"already，full width", "already，full width"},
	}
	for _, tt := range tests {
		if got := NormalizeText(tt.in); got != tt.want {
			t.Errorf("NormalizeText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBlocks(t *testing.T) {
	blocks := Blocks([]Segment{{Start: 0, End: 0.001, Text: "tick"}})
	if len(blocks) != 1 {
		t.Fatalf("expected one block, got %d", len(blocks))
	}
	got := blocks[0]
	if got.Index != 1 || got.Start != "00:00:00,000" || got.End != "00:00:00,001" || got.Text != "tick" {
		t.Fatalf("unexpected block: %+v", got)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteSurfacesSinkErrors(t *testing.T) {
	err := Write(failingWriter{}, []Segment{{Start: 0, End: 1, Text: "x"}})
	if err == nil {
		t.Fatal("expected sink error")
	}
	if !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "clip.srt")
	segments := []Segment{
		{Start: 0, End: 1, Text: "a"},
		{Start: 1, End: 2, Text: "b"},
	}
	if err := WriteFile(path, segments); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}
	cues, err := CountCues(path)
	if err != nil {
		t.Fatalf("CountCues: %v", err)
	}
	if cues != 2 {
		t.Fatalf("expected 2 cues, got %d", cues)
	}
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the srt file, found %d entries", len(entries))
	}
}
