// Package language normalizes user-supplied language identifiers into the
// codes WhisperX accepts for its --language flag.
//
// Inputs may be ISO 639-1 codes, ISO 639-2 codes (terminology or
// bibliographic), BCP 47 tags such as "pt-BR", or English language names.
// The value "auto" (or an empty string) requests model-side detection.
package language
