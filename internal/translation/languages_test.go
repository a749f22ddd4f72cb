package translation

import (
	"context"
	"testing"
)

func TestLanguageName(t *testing.T) {
	t.Parallel()

	name, err := LanguageName("eng")
	if err != nil {
		t.Fatalf("resolve eng: %v", err)
	}
	if name != "English" {
		t.Fatalf("unexpected name: %q", name)
	}

	if _, err := LanguageName("XYZ"); err == nil {
		t.Fatalf("expected error for unknown code")
	}
	if _, err := LanguageName("  "); err == nil {
		t.Fatalf("expected error for blank code")
	}
}

func TestSupportedLanguageCodes(t *testing.T) {
	t.Parallel()

	codes := SupportedLanguageCodes()
	if len(codes) != 25 {
		t.Fatalf("unexpected code count: got %d want 25", len(codes))
	}
	for i := 1; i < len(codes); i++ {
		if codes[i-1] >= codes[i] {
			t.Fatalf("codes are not sorted: %q >= %q", codes[i-1], codes[i])
		}
	}
}

func TestLanguageOptions_IncludesProviderExtras(t *testing.T) {
	t.Parallel()

	registry := NewRegistry("")
	if err := registry.Register(&extraLangProvider{}); err != nil {
		t.Fatalf("register: %v", err)
	}

	options := LanguageOptions(registry)
	found := false
	for _, option := range options {
		if option.Code == "EPO" {
			found = true
			if option.Label != "EPO" {
				t.Fatalf("expected code-as-label for unknown language, got %q", option.Label)
			}
		}
	}
	if !found {
		t.Fatalf("expected provider-contributed language in options")
	}
	if len(options) != 26 {
		t.Fatalf("unexpected option count: got %d want 26", len(options))
	}
}

type extraLangProvider struct{}

func (p *extraLangProvider) Translate(_ context.Context, _ TranslateRequest) (*TranslateResponse, error) {
	return nil, nil
}

func (p *extraLangProvider) Name() string { return "extra" }

func (p *extraLangProvider) SupportedLanguages() []string { return []string{"ENG", "epo"} }
