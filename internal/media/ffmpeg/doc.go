// Package ffmpeg runs the two ffmpeg passes autosub needs: extracting a
// speech-recognition friendly WAV track and burning an SRT file into a copy
// of the source video.
package ffmpeg
