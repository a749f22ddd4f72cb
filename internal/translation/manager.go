package translation

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sync"

	"horse.fit/fukidashi/internal/db"
)

// DefaultSourceLang is assumed when a request does not name the source
// language; the service is aimed at manga dialogue.
const DefaultSourceLang = "JPN"

// RunOptions controls one batch translation run.
type RunOptions struct {
	SourceLang string
	TargetLang string
	Provider   string
	// Force retranslates even when a cached translation exists.
	Force bool
	// DryRun previews work without calling the translation provider.
	DryRun bool
}

// RunStats reports batch execution counters.
type RunStats struct {
	Total      int `json:"total"`
	Translated int `json:"translated"`
	Cached     int `json:"cached"`
	Skipped    int `json:"skipped"`
}

// BatchResult is the outcome of one batch translation run.
type BatchResult struct {
	Segments     []string `json:"segments"`
	SourceLang   string   `json:"source_lang"`
	TargetLang   string   `json:"target_lang"`
	ProviderName string   `json:"provider_name"`
	ModelName    string   `json:"model_name,omitempty"`
	TokensUsed   int      `json:"tokens_used"`
	LatencyMs    int64    `json:"latency_ms"`
	Stats        RunStats `json:"stats"`
}

// Store persists translated segments for cache reuse. SaveTranslation writes
// the source row and its result atomically.
type Store interface {
	SaveTranslation(ctx context.Context, source db.TranslationSourceParams, result db.TranslationResultParams) error
	LookupCachedTranslation(ctx context.Context, contentHash []byte, sourceLang, targetLang string) (*db.CachedTranslationRow, error)
}

// Manager coordinates provider calls and persistent translation caching. It
// serializes provider access: chat providers mutate conversation state, so
// one run at a time per manager.
type Manager struct {
	store    Store
	registry *Registry
	mu       sync.Mutex
}

func NewManager(store Store, registry *Registry) *Manager {
	return &Manager{store: store, registry: registry}
}

func (m *Manager) DefaultProvider() string {
	if m == nil || m.registry == nil {
		return ""
	}
	return m.registry.DefaultProvider()
}

// TranslateSegments translates one batch of dialogue segments, serving
// repeats from the cache unless forced.
func (m *Manager) TranslateSegments(ctx context.Context, segments []string, opts RunOptions) (*BatchResult, error) {
	if m == nil || m.registry == nil {
		return nil, fmt.Errorf("translation manager is not initialized")
	}

	sourceLang := NormalizeLanguageCode(opts.SourceLang)
	if sourceLang == "" {
		sourceLang = DefaultSourceLang
	}
	targetLang := NormalizeLanguageCode(opts.TargetLang)
	if _, err := LanguageName(targetLang); err != nil {
		return nil, err
	}

	provider, err := m.registry.Provider(opts.Provider)
	if err != nil {
		return nil, err
	}

	result := &BatchResult{
		Segments:     make([]string, len(segments)),
		SourceLang:   sourceLang,
		TargetLang:   targetLang,
		ProviderName: provider.Name(),
		Stats:        RunStats{Total: len(segments)},
	}

	if sourceLang == targetLang {
		copy(result.Segments, segments)
		result.Stats.Skipped = len(segments)
		return result, nil
	}

	// Resolve cache hits first so one provider batch covers the misses.
	missIndexes := make([]int, 0, len(segments))
	hashes := make([][]byte, len(segments))
	for i, segment := range segments {
		hash := sha256.Sum256([]byte(segment))
		hashes[i] = hash[:]

		if m.store != nil && !opts.Force {
			cached, lookupErr := m.store.LookupCachedTranslation(ctx, hashes[i], sourceLang, targetLang)
			if lookupErr != nil {
				return nil, lookupErr
			}
			if cached != nil {
				result.Segments[i] = cached.TranslatedText
				result.Stats.Cached++
				continue
			}
		}
		missIndexes = append(missIndexes, i)
	}

	if len(missIndexes) == 0 {
		return result, nil
	}

	if opts.DryRun {
		for _, i := range missIndexes {
			result.Segments[i] = segments[i]
		}
		result.Stats.Skipped += len(missIndexes)
		return result, nil
	}

	missSegments := make([]string, len(missIndexes))
	for n, i := range missIndexes {
		missSegments[n] = segments[i]
	}

	m.mu.Lock()
	resp, err := provider.Translate(ctx, TranslateRequest{
		Segments:   missSegments,
		SourceLang: sourceLang,
		TargetLang: targetLang,
	})
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if resp == nil || len(resp.Segments) != len(missSegments) {
		return nil, fmt.Errorf("provider %s returned %d segments, want %d", provider.Name(), respSegmentCount(resp), len(missSegments))
	}

	result.ModelName = resp.ModelName
	result.TokensUsed = resp.TokensUsed
	result.LatencyMs = resp.LatencyMs
	result.Stats.Translated = len(missIndexes)

	for n, i := range missIndexes {
		result.Segments[i] = resp.Segments[n]
		if m.store == nil {
			continue
		}
		if storeErr := m.cacheResult(ctx, hashes[i], segments[i], resp.Segments[n], sourceLang, targetLang, resp); storeErr != nil {
			return nil, storeErr
		}
	}

	return result, nil
}

func (m *Manager) cacheResult(ctx context.Context, hash []byte, original, translated, sourceLang, targetLang string, resp *TranslateResponse) error {
	source := db.TranslationSourceParams{
		ContentHash:  hash,
		SourceLang:   sourceLang,
		OriginalText: original,
	}

	result := db.TranslationResultParams{
		TargetLang:     targetLang,
		TranslatedText: translated,
		ProviderName:   resp.ProviderName,
	}
	if resp.ModelName != "" {
		model := resp.ModelName
		result.ModelName = &model
	}
	if resp.TokensUsed > 0 {
		tokens := resp.TokensUsed
		result.TokensUsed = &tokens
	}
	if resp.LatencyMs > 0 {
		latency := int(resp.LatencyMs)
		result.LatencyMS = &latency
	}
	return m.store.SaveTranslation(ctx, source, result)
}

func respSegmentCount(resp *TranslateResponse) int {
	if resp == nil {
		return 0
	}
	return len(resp.Segments)
}
