// Package main hosts the autosub CLI entrypoint and command graph.
//
// The root command takes one or more video paths, generates subtitles for
// each with WhisperX, and burns them into subtitled copies. Subcommands cover
// configuration scaffolding, dependency status, the model list, and run
// history.
//
// Keep this package lean: behaviour lives in internal packages and is
// surfaced here through flags and output formatting.
package main
