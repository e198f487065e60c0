// Package services classifies failures raised by the external programs
// autosub drives (ffmpeg, ffprobe, WhisperX) and by input validation.
//
// Errors are tagged with one of the exported markers through Wrap so the
// command layer can pick a remediation hint with errors.Is, regardless of how
// many layers of context were added on the way up.
package services
