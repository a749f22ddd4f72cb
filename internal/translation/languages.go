package translation

import (
	"fmt"
	"sort"
	"strings"
)

// LanguageOption is one supported target language for API listings.
type LanguageOption struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// languageNames maps adapter language codes to the display names embedded in
// model prompts.
var languageNames = map[string]string{
	"CHS": "Simplified Chinese",
	"CHT": "Traditional Chinese",
	"CSY": "Czech",
	"NLD": "Dutch",
	"ENG": "English",
	"FRA": "French",
	"DEU": "German",
	"HUN": "Hungarian",
	"ITA": "Italian",
	"JPN": "Japanese",
	"KOR": "Korean",
	"PLK": "Polish",
	"PTB": "Portuguese",
	"ROM": "Romanian",
	"RUS": "Russian",
	"ESP": "Spanish",
	"TRK": "Turkish",
	"UKR": "Ukrainian",
	"VIN": "Vietnamese",
	"CNR": "Montenegrin",
	"SRP": "Serbian",
	"HRV": "Croatian",
	"ARA": "Arabic",
	"THA": "Thai",
	"IND": "Indonesian",
}

// LanguageName resolves an adapter code to its prompt display name.
func LanguageName(code string) (string, error) {
	normalized := NormalizeLanguageCode(code)
	if normalized == "" {
		return "", fmt.Errorf("language code is required")
	}
	name, ok := languageNames[normalized]
	if !ok {
		return "", fmt.Errorf("unsupported language code: %s", normalized)
	}
	return name, nil
}

// NormalizeLanguageCode uppercases and trims an adapter language code.
func NormalizeLanguageCode(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// SupportedLanguageCodes lists every adapter language code in sorted order.
func SupportedLanguageCodes() []string {
	codes := make([]string, 0, len(languageNames))
	for code := range languageNames {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// LanguageOptions lists supported languages for API output, including any
// extra codes contributed by registered providers.
func LanguageOptions(registry *Registry) []LanguageOption {
	supported := map[string]struct{}{}
	for code := range languageNames {
		supported[code] = struct{}{}
	}

	if registry != nil {
		for _, provider := range registry.providers {
			for _, code := range provider.SupportedLanguages() {
				normalized := NormalizeLanguageCode(code)
				if normalized == "" {
					continue
				}
				supported[normalized] = struct{}{}
			}
		}
	}

	codes := make([]string, 0, len(supported))
	for code := range supported {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	options := make([]LanguageOption, 0, len(codes))
	for _, code := range codes {
		label, ok := languageNames[code]
		if !ok {
			label = code
		}
		options = append(options, LanguageOption{Code: code, Label: label})
	}
	return options
}
