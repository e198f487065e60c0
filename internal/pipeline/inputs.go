package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"autosub/internal/services"
)

// OutputName returns the artifact base name for an input: the file name
// without its final extension.
func OutputName(path string) string {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" {
		return base
	}
	return name
}

type input struct {
	source   string
	name     string
	audio    string
	srtPath  string
	video    string
	duration float64
	segments int
	warnings []string
	done     bool
	err      error
}

func (in *input) fail(err error) error {
	in.err = err
	return err
}

func planInputs(req Request, outputDir string) ([]*input, error) {
	if len(req.Inputs) == 0 {
		return nil, services.Wrap(services.ErrValidation, "plan", "inputs", "no input files", nil)
	}
	seen := make(map[string]string, len(req.Inputs))
	plan := make([]*input, 0, len(req.Inputs))
	for _, source := range req.Inputs {
		info, err := os.Stat(source)
		if err != nil {
			marker := services.ErrValidation
			if errors.Is(err, os.ErrNotExist) {
				marker = services.ErrNotFound
			}
			return nil, services.Wrap(marker, "plan", "input "+source, "", err)
		}
		if info.IsDir() {
			return nil, services.Wrap(services.ErrValidation, "plan", "input "+source, "is a directory", nil)
		}

		name := OutputName(source)
		if prev, ok := seen[name]; ok {
			return nil, services.Wrap(services.ErrValidation, "plan", "", "",
				fmt.Errorf("%w: %s and %s both produce %q", ErrDuplicateName, prev, source, name))
		}
		seen[name] = source

		in := &input{
			source:  source,
			name:    name,
			srtPath: filepath.Join(outputDir, name+".srt"),
			video:   filepath.Join(outputDir, name+".mp4"),
		}
		if !req.SRTOnly && samePath(in.source, in.video) {
			return nil, services.Wrap(services.ErrValidation, "plan", "input "+source, "would be overwritten by its subtitled copy; choose another --output-dir", nil)
		}
		plan = append(plan, in)
	}
	return plan, nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
