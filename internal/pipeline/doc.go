// Package pipeline orchestrates one autosub run over a list of input videos.
//
// A run moves every input through three phases in input order: extract a
// mono 16 kHz WAV track, transcribe it and write <name>.srt, then (unless
// SRTOnly is set) burn the subtitles into <name>.mp4. Each phase completes
// for all inputs before the next begins. The first error aborts the run.
//
// Runs hold an exclusive flock on <output-dir>/.autosub.lock so two
// invocations cannot write the same artifacts, and use a per-run scratch
// directory named by the run ID that is removed when the run ends.
package pipeline
