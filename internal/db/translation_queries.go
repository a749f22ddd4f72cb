package db

import (
	"context"
	"fmt"
	"time"
)

// CachedTranslationRow is one cached translation for a segment+target pair.
type CachedTranslationRow struct {
	SourceID       int64
	SourceLang     string
	TargetLang     string
	OriginalText   string
	TranslatedText string
	ProviderName   string
	ModelName      *string
	TokensUsed     *int
	LatencyMS      *int
	CreatedAt      time.Time
}

// TranslationSourceParams describes the source side of a cached translation.
type TranslationSourceParams struct {
	ContentHash  []byte
	SourceLang   string
	OriginalText string
}

// TranslationResultParams describes the translated side of a cached
// translation. The source linkage is established by SaveTranslation.
type TranslationResultParams struct {
	TargetLang     string
	TranslatedText string
	ProviderName   string
	ModelName      *string
	TokensUsed     *int
	LatencyMS      *int
}

// SaveTranslation upserts a segment source row and its translation result in
// one transaction, so a failed result write never strands an orphan source.
func (p *Pool) SaveTranslation(ctx context.Context, source TranslationSourceParams, result TranslationResultParams) error {
	if p == nil || p.gdb == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	tx, err := p.BeginTx(ctx, TxOptions{})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	const sourceQuery = `
INSERT INTO fukidashi.translation_sources (content_hash, source_lang, original_text, created_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (content_hash, source_lang)
DO UPDATE SET original_text = EXCLUDED.original_text
RETURNING source_id
`

	var sourceID int64
	err = tx.QueryRow(ctx, sourceQuery, source.ContentHash, source.SourceLang, source.OriginalText).Scan(&sourceID)
	if err != nil {
		return fmt.Errorf("upsert translation source: %w", err)
	}

	const resultQuery = `
INSERT INTO fukidashi.translation_results (
	translation_source_id, target_lang, translated_text,
	provider_name, model_name, tokens_used, latency_ms,
	created_at, updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
ON CONFLICT (translation_source_id, target_lang)
DO UPDATE SET
	translated_text = EXCLUDED.translated_text,
	provider_name = EXCLUDED.provider_name,
	model_name = EXCLUDED.model_name,
	tokens_used = EXCLUDED.tokens_used,
	latency_ms = EXCLUDED.latency_ms,
	updated_at = now()
`

	_, err = tx.Exec(ctx, resultQuery,
		sourceID,
		result.TargetLang,
		result.TranslatedText,
		result.ProviderName,
		result.ModelName,
		result.TokensUsed,
		result.LatencyMS,
	)
	if err != nil {
		return fmt.Errorf("upsert translation result: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// LookupCachedTranslation fetches the cached translation for a content
// hash + source language + target language, or nil when absent.
func (p *Pool) LookupCachedTranslation(ctx context.Context, contentHash []byte, sourceLang, targetLang string) (*CachedTranslationRow, error) {
	const q = `
SELECT
	s.source_id,
	s.source_lang,
	r.target_lang,
	s.original_text,
	r.translated_text,
	r.provider_name,
	r.model_name,
	r.tokens_used,
	r.latency_ms,
	r.created_at
FROM fukidashi.translation_sources s
JOIN fukidashi.translation_results r
	ON r.translation_source_id = s.source_id
WHERE s.content_hash = $1
  AND s.source_lang = $2
  AND r.target_lang = $3
LIMIT 1
`

	var row CachedTranslationRow
	err := p.QueryRow(ctx, q, contentHash, sourceLang, targetLang).Scan(
		&row.SourceID,
		&row.SourceLang,
		&row.TargetLang,
		&row.OriginalText,
		&row.TranslatedText,
		&row.ProviderName,
		&row.ModelName,
		&row.TokensUsed,
		&row.LatencyMS,
		&row.CreatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("lookup cached translation: %w", err)
	}
	return &row, nil
}
