// Package srt renders timed transcript segments as SubRip (.srt) subtitle
// text and reads back the handful of facts other packages need from an
// existing subtitle file (cue count, time bounds).
//
// Rendering is a pure transform: identical segment slices always produce
// byte-identical output, blocks are numbered 1..N in the order given, and
// segments are never re-sorted or rejected. Commas in cue text are rewritten
// to the full-width comma (U+FF0C).
package srt
