// Package history persists one row per processed input in a SQLite database
// under the state directory.
//
// Rows record where the subtitle and video artifacts were written, the
// recognition settings used, and whether the input succeeded. The
// "autosub history" command reads them back; Prune enforces the configured
// retention window.
package history
