// Package chatapi is a minimal client for OpenAI-compatible chat completion
// endpoints. It owns transport, auth, and the wire format; retry policy is
// left to callers.
package chatapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultEndpoint points to the hosted Groq OpenAI-compatible API.
	DefaultEndpoint = "https://api.groq.com/openai/v1"
	// DefaultModel is used when CHAT_MODEL is unset.
	DefaultModel = "llama-3.3-70b-versatile"

	// RequestTimeout bounds one completion call.
	RequestTimeout = 40 * time.Second
	// RetryAttempts is the retry budget callers may spend on transient
	// failures. The client itself never retries.
	RetryAttempts = 5
	// MaxRequestsPerMinute is the provider-side rate limit callers should
	// stay under when batching.
	MaxRequestsPerMinute = 200
)

// Chat message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role-tagged chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest describes one chat completion call.
type CompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
	TopP        float64   `json:"top_p,omitempty"`
}

// CompletionResponse is the subset of the completion reply this service reads.
type CompletionResponse struct {
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

type Choice struct {
	Message Message `json:"message"`
}

type Usage struct {
	TotalTokens int `json:"total_tokens"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Client calls a chat completions endpoint over HTTP.
type Client struct {
	endpointURL string
	apiKey      string
	client      *http.Client
}

// NewClient builds a client for the given endpoint. Empty endpoints use the
// default hosted API.
func NewClient(endpoint, apiKey string) *Client {
	return &Client{
		endpointURL: chatCompletionsURL(normalizeEndpoint(endpoint)),
		apiKey:      strings.TrimSpace(apiKey),
		client: &http.Client{
			Timeout: RequestTimeout,
		},
	}
}

// EndpointURL returns the resolved completions URL.
func (c *Client) EndpointURL() string {
	if c == nil {
		return ""
	}
	return c.endpointURL
}

// CreateCompletion issues one chat completion call. Transport and API errors
// are returned unchanged in meaning; no retries are attempted.
func (c *Client) CreateCompletion(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if c == nil {
		return nil, fmt.Errorf("chat client is nil")
	}
	if len(req.Messages) == 0 {
		return nil, fmt.Errorf("completion request has no messages")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal completion request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpointURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build completion request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send completion request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read completion response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errPayload errorResponse
		if unmarshalErr := json.Unmarshal(respBody, &errPayload); unmarshalErr == nil {
			if msg := strings.TrimSpace(errPayload.Error.Message); msg != "" {
				return nil, fmt.Errorf("completion endpoint status %d: %s", resp.StatusCode, msg)
			}
		}
		return nil, fmt.Errorf("completion endpoint status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var parsed CompletionResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("decode completion response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("completion response missing choices")
	}
	return &parsed, nil
}

func normalizeEndpoint(raw string) string {
	endpoint := strings.TrimSpace(raw)
	if endpoint == "" {
		return DefaultEndpoint
	}
	if !strings.Contains(endpoint, "://") {
		endpoint = "https://" + endpoint
	}

	parsed, err := url.Parse(endpoint)
	if err != nil || strings.TrimSpace(parsed.Host) == "" {
		return DefaultEndpoint
	}
	parsed.Path = strings.TrimRight(parsed.Path, "/")
	if parsed.Path == "" {
		parsed.Path = "/v1"
	}
	return parsed.String()
}

func chatCompletionsURL(endpoint string) string {
	parsed, err := url.Parse(endpoint)
	if err != nil || strings.TrimSpace(parsed.Host) == "" {
		return DefaultEndpoint + "/chat/completions"
	}

	path := strings.TrimRight(parsed.Path, "/")
	switch {
	case strings.HasSuffix(path, "/chat/completions"):
		parsed.Path = path
	case strings.HasSuffix(path, "/v1"):
		parsed.Path = path + "/chat/completions"
	case path == "":
		parsed.Path = "/v1/chat/completions"
	default:
		parsed.Path = path + "/v1/chat/completions"
	}

	return parsed.String()
}
