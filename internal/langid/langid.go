// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package langid detects the language of document text. It backs the
// parse command when the caller does not name the language explicitly.
package langid

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// candidates restricts detection to languages the token estimator
// treats distinctly plus the common Latin-script documentation
// languages. A small candidate set keeps detection sharp on short text.
var candidates = []lingua.Language{
	lingua.English,
	lingua.Japanese,
	lingua.Chinese,
	lingua.Korean,
	lingua.Spanish,
	lingua.French,
	lingua.German,
	lingua.Portuguese,
}

// Detector identifies document languages. Build one and reuse it; the
// underlying models are expensive to load.
type Detector struct {
	inner lingua.LanguageDetector
}

// New builds a detector over the supported candidate languages.
func New() *Detector {
	return &Detector{
		inner: lingua.NewLanguageDetectorBuilder().
			FromLanguages(candidates...).
			Build(),
	}
}

// Detect returns the lowercase ISO 639-1 code of text's most likely
// language. ok is false when the text carries no usable signal, such
// as pure markup or an empty string.
func (d *Detector) Detect(text string) (string, bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	lang, ok := d.inner.DetectLanguageOf(text)
	if !ok {
		return "", false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}
