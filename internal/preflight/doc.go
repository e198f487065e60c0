// Package preflight provides readiness checks for the external tools and
// filesystem paths autosub depends on.
//
// These checks run in two contexts:
//   - The root command calls CheckSystemDeps before extracting anything, so a
//     missing ffmpeg or uvx fails the run before any work is done.
//   - The "autosub status" command renders every check for the operator.
package preflight
