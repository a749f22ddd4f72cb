package db

import "time"

// TranslationSource is one unique dialogue segment, keyed by content hash and
// source language.
type TranslationSource struct {
	SourceID     int64     `gorm:"column:source_id;primaryKey;autoIncrement"`
	ContentHash  []byte    `gorm:"column:content_hash;type:bytea;not null;uniqueIndex:ux_translation_sources_hash_lang"`
	SourceLang   string    `gorm:"column:source_lang;size:8;not null;uniqueIndex:ux_translation_sources_hash_lang"`
	OriginalText string    `gorm:"column:original_text;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;not null;default:now()"`
}

func (TranslationSource) TableName() string { return "fukidashi.translation_sources" }

// TranslationResult is one cached translation of a source segment into a
// target language.
type TranslationResult struct {
	ResultID            int64     `gorm:"column:result_id;primaryKey;autoIncrement"`
	TranslationSourceID int64     `gorm:"column:translation_source_id;not null;uniqueIndex:ux_translation_results_source_target"`
	TargetLang          string    `gorm:"column:target_lang;size:8;not null;uniqueIndex:ux_translation_results_source_target"`
	TranslatedText      string    `gorm:"column:translated_text;not null"`
	ProviderName        string    `gorm:"column:provider_name;size:64;not null"`
	ModelName           *string   `gorm:"column:model_name;size:128"`
	TokensUsed          *int      `gorm:"column:tokens_used"`
	LatencyMS           *int      `gorm:"column:latency_ms"`
	CreatedAt           time.Time `gorm:"column:created_at;not null;default:now()"`
	UpdatedAt           time.Time `gorm:"column:updated_at;not null;default:now()"`
}

func (TranslationResult) TableName() string { return "fukidashi.translation_results" }

func autoMigrateModels() []any {
	return []any{
		&TranslationSource{},
		&TranslationResult{},
	}
}
