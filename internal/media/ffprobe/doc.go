// Package ffprobe inspects input media before any extraction work starts.
//
// autosub uses it to reject inputs without an audio stream, to record the
// media duration in run history, and to check generated subtitles against
// that duration.
package ffprobe
