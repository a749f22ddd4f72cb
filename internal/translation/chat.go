package translation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"horse.fit/fukidashi/internal/chatapi"
)

// ErrMissingAPIKey is returned by NewChatProvider when key enforcement is on
// and no credential is configured.
var ErrMissingAPIKey = errors.New("chat API key is not configured (set CHAT_API_KEY)")

const (
	// ChatProviderName registers the chat provider.
	ChatProviderName = "chat"

	// maxModelTokens is the model output ceiling; each completion call is
	// budgeted half of it.
	maxModelTokens = 8192

	defaultMaxContext  = 20
	defaultTemperature = 0.3
	defaultTopP        = 0.92
)

// Override keys resolved through the layered lookup chain.
const (
	overrideKeySystemTemplate  = "chat_system_template"
	overrideKeySampleUser      = "chat_sample_user"
	overrideKeySampleAssistant = "chat_sample_assistant"
	overrideKeyTemperature     = "temperature"
	overrideKeyTopP            = "top_p"
)

// ChatClient is the outbound chat-completion collaborator. Transport, auth,
// and any retry handling belong to the implementation.
type ChatClient interface {
	CreateCompletion(ctx context.Context, req chatapi.CompletionRequest) (*chatapi.CompletionResponse, error)
}

// ChatOptions configures a ChatProvider.
type ChatOptions struct {
	// APIKey is the credential handed to the chat client. Construction
	// fails with ErrMissingAPIKey when it is blank and RequireKey is set.
	APIKey     string
	RequireKey bool

	Model string

	// ConfigKey namespaces override lookups (default "chat").
	ConfigKey string
	Overrides Overrides

	// RetainContext keeps model replies in the conversation sent on
	// subsequent calls. When off, each segment's user turn is discarded
	// after its reply is consumed.
	RetainContext bool
	// MaxContext bounds the conversation window (default 20 messages).
	MaxContext int

	// UseGlossary appends the fixed term glossary to the system prompt.
	UseGlossary bool

	Logger zerolog.Logger
}

// ChatProvider translates dialogue segments through a hosted chat-completion
// API, one completion call per segment. It keeps a sliding-window
// conversation so the model sees recent panels as connected narrative.
//
// A ChatProvider is not safe for concurrent use: segments mutate shared
// conversation state and token counters, so callers own serialization (one
// mutex per provider instance, or one instance per caller).
type ChatProvider struct {
	client    ChatClient
	model     string
	configKey string
	overrides Overrides
	retain    bool
	glossary  bool
	conv      *conversation
	logger    zerolog.Logger

	tokenCount     int
	tokenCountLast int
}

// NewChatProvider builds the chat translation provider and seeds its
// conversation with the example exchange.
func NewChatProvider(client ChatClient, opts ChatOptions) (*ChatProvider, error) {
	if client == nil {
		return nil, fmt.Errorf("chat client is required")
	}
	if opts.RequireKey && strings.TrimSpace(opts.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}

	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = chatapi.DefaultModel
	}
	configKey := strings.TrimSpace(opts.ConfigKey)
	if configKey == "" {
		configKey = ChatProviderName
	}
	maxContext := opts.MaxContext
	if maxContext <= 0 {
		maxContext = defaultMaxContext
	}

	sampleUser := resolveOverride(opts.Overrides, configKey, overrideKeySampleUser, defaultSampleUser)
	sampleAssistant := resolveOverride(opts.Overrides, configKey, overrideKeySampleAssistant, defaultSampleAssistant)

	return &ChatProvider{
		client:    client,
		model:     model,
		configKey: configKey,
		overrides: opts.Overrides,
		retain:    opts.RetainContext,
		glossary:  opts.UseGlossary,
		conv: newConversation(maxContext,
			chatapi.Message{Role: chatapi.RoleUser, Content: sampleUser},
			chatapi.Message{Role: chatapi.RoleAssistant, Content: sampleAssistant},
		),
		logger: opts.Logger,
	}, nil
}

func (p *ChatProvider) Name() string {
	return ChatProviderName
}

// ModelName returns the configured model identifier.
func (p *ChatProvider) ModelName() string {
	if p == nil {
		return ""
	}
	return p.model
}

func (p *ChatProvider) SupportedLanguages() []string {
	return SupportedLanguageCodes()
}

// TokenCount reports cumulative tokens consumed over the provider's lifetime
// and the tokens consumed by the most recent completion call.
func (p *ChatProvider) TokenCount() (total, last int) {
	if p == nil {
		return 0, 0
	}
	return p.tokenCount, p.tokenCountLast
}

// ConversationLen reports the current conversation window size.
func (p *ChatProvider) ConversationLen() int {
	if p == nil || p.conv == nil {
		return 0
	}
	return p.conv.len()
}

// Translate processes segments strictly in order, each through one completion
// call. Transport errors from the chat client abort the batch and propagate
// unchanged; malformed model output never does.
func (p *ChatProvider) Translate(ctx context.Context, req TranslateRequest) (*TranslateResponse, error) {
	if p == nil || p.client == nil {
		return nil, fmt.Errorf("chat provider is not initialized")
	}

	targetLang := NormalizeLanguageCode(req.TargetLang)
	languageName, err := LanguageName(targetLang)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	batchTokens := 0
	segments := make([]string, 0, len(req.Segments))
	for _, segment := range req.Segments {
		translated, err := p.requestTranslation(ctx, languageName, segment)
		if err != nil {
			return nil, err
		}
		batchTokens += p.tokenCountLast
		segments = append(segments, translated)
	}

	p.logger.Info().
		Int("tokens_last", p.tokenCountLast).
		Int("tokens_total", p.tokenCount).
		Int("segments", len(segments)).
		Msg("chat translation batch complete")

	return &TranslateResponse{
		Segments:     segments,
		SourceLang:   NormalizeLanguageCode(req.SourceLang),
		TargetLang:   targetLang,
		ProviderName: p.Name(),
		ModelName:    p.model,
		LatencyMs:    time.Since(started).Milliseconds(),
		TokensUsed:   batchTokens,
	}, nil
}

func (p *ChatProvider) requestTranslation(ctx context.Context, languageName, segment string) (string, error) {
	encoded, err := json.Marshal(segment)
	if err != nil {
		return "", fmt.Errorf("encode segment: %w", err)
	}
	instruction := fmt.Sprintf(
		"Translate the following text into %s. Return the result in JSON format.\n\n{\"untranslated\": %s}\n",
		languageName, encoded,
	)
	p.conv.append(chatapi.RoleUser, instruction)

	system := chatapi.Message{
		Role:    chatapi.RoleSystem,
		Content: renderSystemPrompt(p.systemTemplate(), languageName, p.glossary),
	}

	resp, err := p.client.CreateCompletion(ctx, chatapi.CompletionRequest{
		Model:       p.model,
		Messages:    p.conv.snapshot(system),
		MaxTokens:   maxModelTokens / 2,
		Temperature: p.temperature(),
		TopP:        p.topP(),
	})
	if err != nil {
		return "", err
	}

	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion reply has no choices")
	}

	p.tokenCount += resp.Usage.TotalTokens
	p.tokenCountLast = resp.Usage.TotalTokens

	raw := strings.TrimSpace(resp.Choices[0].Message.Content)
	candidate := extractCandidate(raw)
	translated := decodeTranslation(candidate)

	if p.retain {
		p.conv.append(chatapi.RoleAssistant, candidate)
	} else {
		p.conv.dropLastIf(chatapi.RoleUser, instruction)
	}

	return translated, nil
}

func (p *ChatProvider) systemTemplate() string {
	return resolveOverride(p.overrides, p.configKey, overrideKeySystemTemplate, defaultSystemTemplate)
}

func (p *ChatProvider) temperature() float64 {
	return resolveFloatOverride(p.overrides, p.configKey, overrideKeyTemperature, defaultTemperature)
}

func (p *ChatProvider) topP() float64 {
	return resolveFloatOverride(p.overrides, p.configKey, overrideKeyTopP, defaultTopP)
}
