package srt

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// overrunToleranceSeconds is how far the last cue may run past the end of
// the media before it is reported.
const overrunToleranceSeconds = 2.0

// CountCues returns the number of non-empty blocks in an SRT file.
func CountCues(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read srt: %w", err)
	}
	content := strings.TrimSpace(strings.ReplaceAll(string(data), "\r\n", "\n"))
	if content == "" {
		return 0, nil
	}
	count := 0
	for _, block := range strings.Split(content, "\n\n") {
		if strings.TrimSpace(block) != "" {
			count++
		}
	}
	return count, nil
}

// Bounds returns the earliest start and latest end timestamp, in seconds,
// found in an SRT file. Both are zero when no timing line parses.
func Bounds(path string) (float64, float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, fmt.Errorf("read srt: %w", err)
	}
	first := math.Inf(1)
	var last float64
	found := false
	for _, line := range strings.Split(string(data), "\n") {
		if !strings.Contains(line, "-->") {
			continue
		}
		parts := strings.Split(line, "-->")
		if len(parts) != 2 {
			continue
		}
		if start, err := ParseTimestamp(parts[0]); err == nil {
			if start < first {
				first = start
			}
			found = true
		}
		if end, err := ParseTimestamp(parts[1]); err == nil && end > last {
			last = end
		}
	}
	if !found {
		return 0, last, nil
	}
	return first, last, nil
}

// ParseTimestamp parses HH:MM:SS,mmm (a period is accepted in place of the
// comma) into seconds.
func ParseTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	value = strings.ReplaceAll(value, ".", ",")
	timeParts := strings.Split(value, ",")
	if len(timeParts) != 2 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(timeParts[0], ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(timeParts[1])
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000, nil
}

// Validate inspects a rendered SRT file and returns a list of issues; an
// empty slice means nothing looked wrong. mediaSeconds enables the overrun
// check when positive.
func Validate(path string, mediaSeconds float64) []string {
	var issues []string

	cues, err := CountCues(path)
	if err != nil {
		return append(issues, fmt.Sprintf("read_error: %v", err))
	}
	if cues == 0 {
		return append(issues, "empty_subtitle_file")
	}

	first, last, err := Bounds(path)
	if err != nil {
		return append(issues, fmt.Sprintf("timestamp_parse_error: %v", err))
	}
	if first == 0 && last == 0 {
		issues = append(issues, "no_valid_timestamps")
	}
	if mediaSeconds > 0 && last-mediaSeconds > overrunToleranceSeconds {
		issues = append(issues, fmt.Sprintf("cue_past_media_end: overrun=%.1fs", last-mediaSeconds))
	}
	return issues
}
