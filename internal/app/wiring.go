package app

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"horse.fit/fukidashi/internal/chatapi"
	"horse.fit/fukidashi/internal/config"
	"horse.fit/fukidashi/internal/db"
	"horse.fit/fukidashi/internal/overrides"
	"horse.fit/fukidashi/internal/translation"
)

// translator bundles the wired translation stack for one command run.
type translator struct {
	manager  *translation.Manager
	registry *translation.Registry
	chat     *translation.ChatProvider
	pool     *db.Pool
}

func (t *translator) Close() {
	if t != nil && t.pool != nil {
		_ = t.pool.Close()
	}
}

// buildTranslator wires overrides, the chat client, the provider registry,
// and the optional cache pool from configuration.
func buildTranslator(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*translator, error) {
	fileOverrides, err := overrides.Load(cfg.OverridesFile)
	if err != nil {
		return nil, fmt.Errorf("load translator overrides: %w", err)
	}

	client := chatapi.NewClient(cfg.ChatEndpoint, cfg.ChatAPIKey)
	chatProvider, err := translation.NewChatProvider(client, translation.ChatOptions{
		APIKey:        cfg.ChatAPIKey,
		RequireKey:    true,
		Model:         cfg.ChatModel,
		Overrides:     overridesOrNil(fileOverrides),
		RetainContext: cfg.ContextRetention,
		MaxContext:    cfg.ContextLength,
		UseGlossary:   cfg.ChatGlossary,
		Logger:        logger,
	})
	if err != nil {
		return nil, err
	}

	registry := translation.NewRegistry(os.Getenv(translation.ProviderEnvVar))
	if err := registry.Register(chatProvider); err != nil {
		return nil, fmt.Errorf("register chat provider: %w", err)
	}
	registry.ResolveDefault()

	t := &translator{
		registry: registry,
		chat:     chatProvider,
	}

	var store translation.Store
	if cfg.CacheEnabled() {
		pool, poolErr := db.NewPool(ctx, cfg)
		if poolErr != nil {
			return nil, fmt.Errorf("connect translation cache: %w", poolErr)
		}
		t.pool = pool
		store = pool
	}

	t.manager = translation.NewManager(store, registry)
	return t, nil
}

// overridesOrNil keeps a nil *FileOverrides from becoming a non-nil
// interface value.
func overridesOrNil(fileOverrides *overrides.FileOverrides) translation.Overrides {
	if fileOverrides == nil {
		return nil
	}
	return fileOverrides
}
