package preflight

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"

	"autosub/internal/config"
	"autosub/internal/deps"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckOutputDirectory accepts an existing writable directory, or a missing
// one whose nearest existing ancestor is writable so the run can create it.
func CheckOutputDirectory(name, path string) Result {
	if strings.TrimSpace(path) == "" {
		path = "."
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	if _, err := os.Stat(abs); err == nil {
		return CheckDirectoryAccess(name, abs)
	}

	parent := filepath.Dir(abs)
	for {
		if _, err := os.Stat(parent); err == nil {
			break
		}
		next := filepath.Dir(parent)
		if next == parent {
			break
		}
		parent = next
	}
	if err := unix.Access(parent, unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: cannot create under %s: %v)", abs, parent, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be created)", abs)}
}

// CheckVAD reports whether the configured voice activity detector can run.
func CheckVAD(cfg *config.Config) Result {
	const name = "Voice activity detection"

	method := strings.TrimSpace(cfg.Transcription.VADMethod)
	switch method {
	case "", "silero":
		return Result{Name: name, Passed: true, Detail: "silero"}
	case "pyannote":
		if strings.TrimSpace(cfg.Transcription.HuggingFaceToken) == "" {
			return Result{Name: name, Detail: "pyannote (error: hf_token missing)"}
		}
		return Result{Name: name, Passed: true, Detail: "pyannote (token configured)"}
	default:
		return Result{Name: name, Detail: fmt.Sprintf("unknown method %q", method)}
	}
}

// CheckSystemDeps evaluates the executables the pipeline invokes. Both the
// root command and the status command use this list.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	requirements := []deps.Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.Tools.FFmpeg,
			Description: "Required for audio extraction and subtitle burn-in",
		},
		{
			Name:        "FFprobe",
			Command:     cfg.Tools.FFprobe,
			Description: "Required for media inspection",
		},
		{
			Name:        "uvx",
			Command:     cfg.Tools.UVX,
			Description: "Required for WhisperX-driven transcription",
		},
	}
	return deps.CheckBinaries(requirements)
}
