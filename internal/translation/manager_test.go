package translation

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"testing"

	"horse.fit/fukidashi/internal/db"
)

type savedTranslation struct {
	source db.TranslationSourceParams
	result db.TranslationResultParams
}

type stubStore struct {
	saved       []savedTranslation
	saveErr     error
	cached      map[string]*db.CachedTranslationRow
	lookupCalls int
}

func (s *stubStore) SaveTranslation(_ context.Context, source db.TranslationSourceParams, result db.TranslationResultParams) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, savedTranslation{source: source, result: result})
	return nil
}

func (s *stubStore) LookupCachedTranslation(_ context.Context, contentHash []byte, _, targetLang string) (*db.CachedTranslationRow, error) {
	s.lookupCalls++
	if s.cached == nil {
		return nil, nil
	}
	return s.cached[string(contentHash)+"|"+targetLang], nil
}

type echoProvider struct {
	name  string
	calls []TranslateRequest
}

func (p *echoProvider) Translate(_ context.Context, req TranslateRequest) (*TranslateResponse, error) {
	p.calls = append(p.calls, req)
	segments := make([]string, len(req.Segments))
	for i, segment := range req.Segments {
		segments[i] = "[" + req.TargetLang + "] " + segment
	}
	return &TranslateResponse{
		Segments:     segments,
		SourceLang:   req.SourceLang,
		TargetLang:   req.TargetLang,
		ProviderName: p.name,
		ModelName:    "test-model",
		TokensUsed:   7,
	}, nil
}

func (p *echoProvider) Name() string { return p.name }

func (p *echoProvider) SupportedLanguages() []string { return SupportedLanguageCodes() }

func newTestManager(t *testing.T, store Store, provider Provider) *Manager {
	t.Helper()
	registry := NewRegistry(provider.Name())
	if err := registry.Register(provider); err != nil {
		t.Fatalf("register provider: %v", err)
	}
	return NewManager(store, registry)
}

func TestManager_TranslatesAndCaches(t *testing.T) {
	t.Parallel()

	store := &stubStore{}
	provider := &echoProvider{name: "stub"}
	manager := newTestManager(t, store, provider)

	result, err := manager.TranslateSegments(context.Background(), []string{"こんにちは"}, RunOptions{
		SourceLang: "JPN",
		TargetLang: "ENG",
	})
	if err != nil {
		t.Fatalf("translate segments: %v", err)
	}

	if result.Stats.Total != 1 || result.Stats.Translated != 1 || result.Stats.Cached != 0 {
		t.Fatalf("unexpected stats: %+v", result.Stats)
	}
	if result.Segments[0] != "[ENG] こんにちは" {
		t.Fatalf("unexpected segment: %q", result.Segments[0])
	}
	if result.TokensUsed != 7 || result.ModelName != "test-model" {
		t.Fatalf("unexpected provider metadata: %+v", result)
	}

	// One atomic save per translated segment, carrying both sides.
	if len(store.saved) != 1 {
		t.Fatalf("unexpected save count: got %d want 1", len(store.saved))
	}
	saved := store.saved[0]
	wantHash := sha256.Sum256([]byte("こんにちは"))
	if !bytes.Equal(saved.source.ContentHash, wantHash[:]) {
		t.Fatalf("unexpected content hash")
	}
	if saved.source.SourceLang != "JPN" || saved.source.OriginalText != "こんにちは" {
		t.Fatalf("unexpected saved source: %+v", saved.source)
	}
	if saved.result.TargetLang != "ENG" || saved.result.TranslatedText != "[ENG] こんにちは" {
		t.Fatalf("unexpected saved result: %+v", saved.result)
	}
	if saved.result.ModelName == nil || *saved.result.ModelName != "test-model" {
		t.Fatalf("expected model name on saved result")
	}
}

func TestManager_SaveFailureAbortsRun(t *testing.T) {
	t.Parallel()

	store := &stubStore{saveErr: errors.New("cache unavailable")}
	provider := &echoProvider{name: "stub"}
	manager := newTestManager(t, store, provider)

	_, err := manager.TranslateSegments(context.Background(), []string{"こんにちは"}, RunOptions{
		SourceLang: "JPN",
		TargetLang: "ENG",
	})
	if !errors.Is(err, store.saveErr) {
		t.Fatalf("expected save error to propagate, got %v", err)
	}
}

func TestManager_ServesCacheHits(t *testing.T) {
	t.Parallel()

	hash := sha256.Sum256([]byte("既訳"))
	store := &stubStore{cached: map[string]*db.CachedTranslationRow{
		string(hash[:]) + "|ENG": {TranslatedText: "already translated"},
	}}
	provider := &echoProvider{name: "stub"}
	manager := newTestManager(t, store, provider)

	result, err := manager.TranslateSegments(context.Background(), []string{"既訳", "新規"}, RunOptions{
		SourceLang: "JPN",
		TargetLang: "ENG",
	})
	if err != nil {
		t.Fatalf("translate segments: %v", err)
	}

	if result.Stats.Cached != 1 || result.Stats.Translated != 1 {
		t.Fatalf("unexpected stats: %+v", result.Stats)
	}
	if result.Segments[0] != "already translated" {
		t.Fatalf("expected cached text first, got %q", result.Segments[0])
	}
	if result.Segments[1] != "[ENG] 新規" {
		t.Fatalf("expected fresh translation second, got %q", result.Segments[1])
	}
	if len(provider.calls) != 1 || len(provider.calls[0].Segments) != 1 {
		t.Fatalf("expected one provider call covering only the miss, got %+v", provider.calls)
	}
}

func TestManager_ForceBypassesCache(t *testing.T) {
	t.Parallel()

	hash := sha256.Sum256([]byte("既訳"))
	store := &stubStore{cached: map[string]*db.CachedTranslationRow{
		string(hash[:]) + "|ENG": {TranslatedText: "stale"},
	}}
	provider := &echoProvider{name: "stub"}
	manager := newTestManager(t, store, provider)

	result, err := manager.TranslateSegments(context.Background(), []string{"既訳"}, RunOptions{
		SourceLang: "JPN",
		TargetLang: "ENG",
		Force:      true,
	})
	if err != nil {
		t.Fatalf("translate segments: %v", err)
	}

	if store.lookupCalls != 0 {
		t.Fatalf("did not expect cache lookups with force, got %d", store.lookupCalls)
	}
	if result.Segments[0] != "[ENG] 既訳" {
		t.Fatalf("expected fresh translation, got %q", result.Segments[0])
	}
}

func TestManager_DryRunSkipsProvider(t *testing.T) {
	t.Parallel()

	provider := &echoProvider{name: "stub"}
	manager := newTestManager(t, nil, provider)

	result, err := manager.TranslateSegments(context.Background(), []string{"一", "二"}, RunOptions{
		SourceLang: "JPN",
		TargetLang: "ENG",
		DryRun:     true,
	})
	if err != nil {
		t.Fatalf("translate segments: %v", err)
	}

	if len(provider.calls) != 0 {
		t.Fatalf("did not expect provider calls, got %d", len(provider.calls))
	}
	if result.Stats.Skipped != 2 || result.Stats.Translated != 0 {
		t.Fatalf("unexpected stats: %+v", result.Stats)
	}
	if result.Segments[0] != "一" {
		t.Fatalf("expected original text in dry run, got %q", result.Segments[0])
	}
}

func TestManager_SkipsWhenSourceEqualsTarget(t *testing.T) {
	t.Parallel()

	provider := &echoProvider{name: "stub"}
	manager := newTestManager(t, nil, provider)

	result, err := manager.TranslateSegments(context.Background(), []string{"hello"}, RunOptions{
		SourceLang: "ENG",
		TargetLang: "ENG",
	})
	if err != nil {
		t.Fatalf("translate segments: %v", err)
	}

	if len(provider.calls) != 0 {
		t.Fatalf("did not expect provider calls, got %d", len(provider.calls))
	}
	if result.Stats.Skipped != 1 || result.Segments[0] != "hello" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestManager_UnsupportedTargetLanguage(t *testing.T) {
	t.Parallel()

	provider := &echoProvider{name: "stub"}
	manager := newTestManager(t, nil, provider)

	if _, err := manager.TranslateSegments(context.Background(), []string{"text"}, RunOptions{
		TargetLang: "ZZZ",
	}); err == nil {
		t.Fatalf("expected error for unsupported target language")
	}
}

func TestManager_DefaultsSourceToJapanese(t *testing.T) {
	t.Parallel()

	provider := &echoProvider{name: "stub"}
	manager := newTestManager(t, nil, provider)

	result, err := manager.TranslateSegments(context.Background(), []string{"こんにちは"}, RunOptions{
		TargetLang: "ENG",
	})
	if err != nil {
		t.Fatalf("translate segments: %v", err)
	}
	if result.SourceLang != DefaultSourceLang {
		t.Fatalf("unexpected source lang: %q", result.SourceLang)
	}
}
