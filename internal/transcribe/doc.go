// Package transcribe wraps WhisperX, launched through uvx, as the speech
// recognition collaborator.
//
// A transcription takes a mono 16 kHz WAV file and an Options value
// (model, language, task) and returns the recognized segments in the order
// WhisperX emitted them. Options are validated up front by ResolveOptions so
// a bad --model or --language fails before any media work starts.
package transcribe
