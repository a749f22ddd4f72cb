package translation

import (
	"context"
	"testing"
)

type namedProvider struct {
	name string
}

func (p *namedProvider) Translate(_ context.Context, req TranslateRequest) (*TranslateResponse, error) {
	return &TranslateResponse{Segments: req.Segments, ProviderName: p.name}, nil
}

func (p *namedProvider) Name() string {
	return p.name
}

func (p *namedProvider) SupportedLanguages() []string {
	return nil
}

func TestRegistry_ResolvesByName(t *testing.T) {
	t.Parallel()

	registry := NewRegistry("alpha")
	if err := registry.Register(&namedProvider{name: "Alpha"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.Register(&namedProvider{name: "beta"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	provider, err := registry.Provider("BETA")
	if err != nil {
		t.Fatalf("resolve beta: %v", err)
	}
	if provider.Name() != "beta" {
		t.Fatalf("unexpected provider: %q", provider.Name())
	}

	provider, err = registry.Provider("")
	if err != nil {
		t.Fatalf("resolve default: %v", err)
	}
	if provider.Name() != "Alpha" {
		t.Fatalf("unexpected default provider: %q", provider.Name())
	}
}

func TestRegistry_UnknownProvider(t *testing.T) {
	t.Parallel()

	registry := NewRegistry("")
	if err := registry.Register(&namedProvider{name: "chat"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := registry.Provider("nope"); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
}

func TestRegistry_ResolveDefaultFallsBack(t *testing.T) {
	t.Parallel()

	registry := NewRegistry("missing")
	if err := registry.Register(&namedProvider{name: "only"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	registry.ResolveDefault()

	if got := registry.DefaultProvider(); got != "only" {
		t.Fatalf("unexpected default: %q", got)
	}
}

func TestRegistry_RejectsNilAndUnnamed(t *testing.T) {
	t.Parallel()

	registry := NewRegistry("")
	if err := registry.Register(nil); err == nil {
		t.Fatalf("expected error registering nil provider")
	}
	if err := registry.Register(&namedProvider{name: "  "}); err == nil {
		t.Fatalf("expected error registering unnamed provider")
	}
}
