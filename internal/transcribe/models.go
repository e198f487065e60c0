package transcribe

import (
	"fmt"
	"log/slog"
	"strings"

	"autosub/internal/language"
	"autosub/internal/logging"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "small"

// ModelInfo describes one selectable model.
type ModelInfo struct {
	Name        string `json:"name" yaml:"name"`
	Parameters  string `json:"parameters" yaml:"parameters"`
	EnglishOnly bool   `json:"english_only" yaml:"english_only"`
}

var models = []ModelInfo{
	{Name: "tiny.en", Parameters: "39M", EnglishOnly: true},
	{Name: "tiny", Parameters: "39M"},
	{Name: "base.en", Parameters: "74M", EnglishOnly: true},
	{Name: "base", Parameters: "74M"},
	{Name: "small.en", Parameters: "244M", EnglishOnly: true},
	{Name: "small", Parameters: "244M"},
	{Name: "medium.en", Parameters: "769M", EnglishOnly: true},
	{Name: "medium", Parameters: "769M"},
	{Name: "large-v1", Parameters: "1550M"},
	{Name: "large-v2", Parameters: "1550M"},
	{Name: "large-v3", Parameters: "1550M"},
	{Name: "large", Parameters: "1550M"},
	{Name: "large-v3-turbo", Parameters: "809M"},
	{Name: "turbo", Parameters: "809M"},
}

// AvailableModels returns the model identifiers accepted by --model.
func AvailableModels() []string {
	names := make([]string, 0, len(models))
	for _, m := range models {
		names = append(names, m.Name)
	}
	return names
}

// Models returns descriptive entries for every available model.
func Models() []ModelInfo {
	return append([]ModelInfo(nil), models...)
}

// IsEnglishOnly reports whether model only recognizes English speech.
func IsEnglishOnly(model string) bool {
	return strings.HasSuffix(strings.TrimSpace(model), ".en")
}

func knownModel(model string) bool {
	for _, m := range models {
		if m.Name == model {
			return true
		}
	}
	return false
}

// ResolveOptions validates command-line recognition settings and turns them
// into Options. English-only models force English regardless of the
// requested language.
func ResolveOptions(logger *slog.Logger, model, lang, task string) (Options, error) {
	model = strings.TrimSpace(model)
	if model == "" {
		model = DefaultModel
	}
	if !knownModel(model) {
		return Options{}, fmt.Errorf("invalid model %q (choose from %s)", model, strings.Join(AvailableModels(), ", "))
	}

	t := Task(strings.ToLower(strings.TrimSpace(task)))
	if t == "" {
		t = TaskTranscribe
	}
	if !t.Valid() {
		return Options{}, fmt.Errorf("invalid task %q (choose from transcribe, translate)", task)
	}

	opts := Options{Model: model, Task: t}
	if IsEnglishOnly(model) {
		logging.WarnWithContext(logger, "English-only model, forcing English detection", "language_forced",
			logging.String("model", model),
			logging.String("requested_language", lang),
			logging.String(logging.FieldErrorHint, "choose a multilingual model to transcribe other languages"),
			logging.String(logging.FieldImpact, "language flag ignored"),
		)
		opts.Language = "en"
		return opts, nil
	}

	resolved, err := language.Normalize(lang)
	if err != nil {
		return Options{}, err
	}
	opts.Language = resolved
	return opts, nil
}
