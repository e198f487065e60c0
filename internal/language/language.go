package language

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	xlanguage "golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Auto requests model-side language detection.
const Auto = "auto"

// supported lists the languages the Whisper family of models recognizes,
// keyed by the code passed on the command line.
var supported = map[string]string{
	"en": "english", "zh": "chinese", "de": "german", "es": "spanish",
	"ru": "russian", "ko": "korean", "fr": "french", "ja": "japanese",
	"pt": "portuguese", "tr": "turkish", "pl": "polish", "ca": "catalan",
	"nl": "dutch", "ar": "arabic", "sv": "swedish", "it": "italian",
	"id": "indonesian", "hi": "hindi", "fi": "finnish", "vi": "vietnamese",
	"he": "hebrew", "uk": "ukrainian", "el": "greek", "ms": "malay",
	"cs": "czech", "ro": "romanian", "da": "danish", "hu": "hungarian",
	"ta": "tamil", "no": "norwegian", "th": "thai", "ur": "urdu",
	"hr": "croatian", "bg": "bulgarian", "lt": "lithuanian", "la": "latin",
	"mi": "maori", "ml": "malayalam", "cy": "welsh", "sk": "slovak",
	"te": "telugu", "fa": "persian", "lv": "latvian", "bn": "bengali",
	"sr": "serbian", "az": "azerbaijani", "sl": "slovenian", "kn": "kannada",
	"et": "estonian", "mk": "macedonian", "br": "breton", "eu": "basque",
	"is": "icelandic", "hy": "armenian", "ne": "nepali", "mn": "mongolian",
	"bs": "bosnian", "kk": "kazakh", "sq": "albanian", "sw": "swahili",
	"gl": "galician", "mr": "marathi", "pa": "punjabi", "si": "sinhala",
	"km": "khmer", "sn": "shona", "yo": "yoruba", "so": "somali",
	"af": "afrikaans", "oc": "occitan", "ka": "georgian", "be": "belarusian",
	"tg": "tajik", "sd": "sindhi", "gu": "gujarati", "am": "amharic",
	"yi": "yiddish", "lo": "lao", "uz": "uzbek", "fo": "faroese",
	"ht": "haitian creole", "ps": "pashto", "tk": "turkmen", "nn": "nynorsk",
	"mt": "maltese", "sa": "sanskrit", "lb": "luxembourgish", "my": "myanmar",
	"bo": "tibetan", "tl": "tagalog", "mg": "malagasy", "as": "assamese",
	"tt": "tatar", "haw": "hawaiian", "ln": "lingala", "ha": "hausa",
	"ba": "bashkir", "jw": "javanese", "su": "sundanese", "yue": "cantonese",
}

// aliases maps alternate spellings and codes onto supported keys.
var aliases = map[string]string{
	// ISO 639-2/B codes
	"fre": "fr", "ger": "de", "chi": "zh", "dut": "nl", "per": "fa",
	"gre": "el", "cze": "cs", "rum": "ro", "slo": "sk", "ice": "is",
	"arm": "hy", "geo": "ka", "mac": "mk", "may": "ms", "baq": "eu",
	"wel": "cy", "alb": "sq", "bur": "my", "tib": "bo", "mao": "mi",
	// codes that differ from what the model expects
	"jv": "jw", "nb": "no",
	// alternate English names
	"burmese": "my", "valencian": "ca", "flemish": "nl", "haitian": "ht",
	"letzeburgesch": "lb", "pushto": "ps", "panjabi": "pa", "moldavian": "ro",
	"moldovan": "ro", "sinhalese": "si", "castilian": "es", "mandarin": "zh",
}

var byName map[string]string

func init() {
	byName = make(map[string]string, len(supported))
	for code, name := range supported {
		byName[name] = code
	}
}

// ToISO2 converts a language code, tag, or English name to the code used by
// the model. Two-letter codes are preferred; a handful of languages without
// an ISO 639-1 code keep their three-letter form. Returns an empty string for
// unrecognized input.
func ToISO2(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return ""
	}
	if _, ok := supported[code]; ok {
		return code
	}
	if mapped, ok := aliases[code]; ok {
		return mapped
	}
	if mapped, ok := byName[code]; ok {
		return mapped
	}

	tag, err := xlanguage.Parse(code)
	if err != nil {
		return ""
	}
	base, conf := tag.Base()
	if conf == xlanguage.No {
		return ""
	}
	resolved := base.String()
	if mapped, ok := aliases[resolved]; ok {
		return mapped
	}
	return resolved
}

// Normalize resolves a --language value. It returns an empty string when the
// model should detect the language itself.
func Normalize(code string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(code))
	if trimmed == "" || trimmed == Auto {
		return "", nil
	}
	resolved := ToISO2(trimmed)
	if !IsSupported(resolved) {
		return "", fmt.Errorf("unsupported language %q", code)
	}
	return resolved, nil
}

// IsSupported reports whether code is a language the model can be told to use.
func IsSupported(code string) bool {
	_, ok := supported[strings.ToLower(strings.TrimSpace(code))]
	return ok
}

// Supported returns every accepted language code in sorted order.
func Supported() []string {
	codes := make([]string, 0, len(supported))
	for code := range supported {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// DisplayName returns a human-readable language name for any recognized code.
// Returns "Auto-detect" for auto or empty input, or the uppercased code for
// unrecognized input.
func DisplayName(code string) string {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" || strings.EqualFold(trimmed, Auto) {
		return "Auto-detect"
	}
	resolved := ToISO2(trimmed)
	if name, ok := supported[resolved]; ok {
		return cases.Title(xlanguage.English).String(name)
	}
	if tag, err := xlanguage.Parse(trimmed); err == nil {
		if name := display.English.Languages().Name(tag); name != "" {
			return name
		}
	}
	return strings.ToUpper(trimmed)
}

// tagKeys are the stream metadata keys containers use for the spoken
// language, compared case-insensitively.
var tagKeys = []string{"language", "language_ietf", "lang"}

// FromStreamTags returns the recognizer language code named by a media
// stream's metadata tags, or "" when the tags are missing, undetermined, or
// name a language the model does not support.
func FromStreamTags(tags map[string]string) string {
	for _, want := range tagKeys {
		for key, value := range tags {
			if !strings.EqualFold(key, want) {
				continue
			}
			value = strings.TrimSpace(strings.ReplaceAll(value, "\u0000", ""))
			if value == "" || strings.EqualFold(value, "und") {
				continue
			}
			if code := ToISO2(value); IsSupported(code) {
				return code
			}
		}
	}
	return ""
}
