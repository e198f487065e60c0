// Package logging assembles structured slog loggers and formatting helpers used
// across autosub.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so pipeline code can tag log
// lines with the run ID, phase, and input file. Console output goes to stderr
// so stdout stays reserved for user-facing progress lines; when a log
// directory is configured the same records are mirrored to a JSON log file.
//
// Prefer these constructors over hand-rolled slog setup to ensure new
// components emit data with the same shape as the rest of the tool.
package logging
