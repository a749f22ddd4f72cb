package translation

import "context"

// Provider translates batches of dialogue segments between languages.
type Provider interface {
	Translate(ctx context.Context, req TranslateRequest) (*TranslateResponse, error)
	Name() string
	SupportedLanguages() []string
}

// TranslateRequest describes one batch translation request. Language codes
// use the adapter alphabet (for example: "JPN", "ENG", "CHS").
type TranslateRequest struct {
	Segments   []string
	SourceLang string
	TargetLang string
}

// TranslateResponse contains translated segments, in input order, plus
// provider metadata.
type TranslateResponse struct {
	Segments     []string
	SourceLang   string
	TargetLang   string
	ProviderName string
	ModelName    string
	LatencyMs    int64
	TokensUsed   int
}
