// Package langdetect guesses the source language of dialogue segments when a
// request does not name one.
package langdetect

import (
	"strings"
	"sync"
	"unicode"

	lingua "github.com/pemistahl/lingua-go"

	"horse.fit/fukidashi/internal/language"
)

var (
	detectorOnce sync.Once
	detector     lingua.LanguageDetector
)

// DetectAdapterCode detects the language of a text sample and returns the
// adapter code ("JPN", "ENG", ...), or an empty string when detection fails
// or the detected language is unsupported.
func DetectAdapterCode(text string) string {
	iso := detectISO6391(text)
	if iso == "" {
		return ""
	}
	return language.AdapterCode(iso)
}

func detectISO6391(text string) string {
	sample := strings.TrimSpace(text)
	if sample == "" {
		return ""
	}

	letterCount := 0
	for _, r := range sample {
		if unicode.IsLetter(r) {
			letterCount++
		}
	}
	if letterCount < 2 {
		return ""
	}

	detected, exists := getDetector().DetectLanguageOf(sample)
	if !exists {
		return ""
	}

	code := strings.ToLower(detected.IsoCode639_1().String())
	if len(code) != 2 {
		return ""
	}
	return code
}

func getDetector() lingua.LanguageDetector {
	detectorOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromAllLanguages().
			WithPreloadedLanguageModels().
			Build()
	})
	return detector
}
