package chatapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCreateCompletion(t *testing.T) {
	t.Parallel()

	var captured CompletionRequest
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		if got := r.URL.Path; got != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(CompletionResponse{
			Choices: []Choice{{Message: Message{Role: RoleAssistant, Content: `{"translated": "hello"}`}}},
			Usage:   Usage{TotalTokens: 42},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret-key")
	resp, err := client.CreateCompletion(context.Background(), CompletionRequest{
		Model: "test-model",
		Messages: []Message{
			{Role: RoleSystem, Content: "translate"},
			{Role: RoleUser, Content: "こんにちは"},
		},
		MaxTokens:   4096,
		Temperature: 0.3,
		TopP:        0.92,
	})
	if err != nil {
		t.Fatalf("create completion: %v", err)
	}

	if gotAuth != "Bearer secret-key" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
	if captured.Model != "test-model" || len(captured.Messages) != 2 {
		t.Fatalf("unexpected request body: %+v", captured)
	}
	if captured.MaxTokens != 4096 || captured.Temperature != 0.3 || captured.TopP != 0.92 {
		t.Fatalf("unexpected sampling params: %+v", captured)
	}
	if resp.Choices[0].Message.Content != `{"translated": "hello"}` {
		t.Fatalf("unexpected reply content %q", resp.Choices[0].Message.Content)
	}
	if resp.Usage.TotalTokens != 42 {
		t.Fatalf("unexpected token usage %d", resp.Usage.TotalTokens)
	}
}

func TestCreateCompletion_NoAuthHeaderWithoutKey(t *testing.T) {
	t.Parallel()

	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(CompletionResponse{
			Choices: []Choice{{Message: Message{Content: "ok"}}},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "  ")
	if _, err := client.CreateCompletion(context.Background(), CompletionRequest{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	}); err != nil {
		t.Fatalf("create completion: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("expected no auth header, got %q", gotAuth)
	}
}

func TestCreateCompletion_ErrorPayload(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "rate limit exceeded"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "key")
	_, err := client.CreateCompletion(context.Background(), CompletionRequest{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	if err == nil {
		t.Fatalf("expected error for 429 response")
	}
	want := "completion endpoint status 429: rate limit exceeded"
	if err.Error() != want {
		t.Fatalf("unexpected error %q, want %q", err.Error(), want)
	}
}

func TestCreateCompletion_NonJSONErrorBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream unavailable"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "key")
	_, err := client.CreateCompletion(context.Background(), CompletionRequest{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	if err == nil {
		t.Fatalf("expected error for 502 response")
	}
	want := "completion endpoint status 502: upstream unavailable"
	if err.Error() != want {
		t.Fatalf("unexpected error %q, want %q", err.Error(), want)
	}
}

func TestCreateCompletion_MissingChoices(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices": [], "usage": {"total_tokens": 1}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "key")
	if _, err := client.CreateCompletion(context.Background(), CompletionRequest{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	}); err == nil {
		t.Fatalf("expected error for empty choices")
	}
}

func TestCreateCompletion_RejectsEmptyMessages(t *testing.T) {
	t.Parallel()

	client := NewClient("", "key")
	if _, err := client.CreateCompletion(context.Background(), CompletionRequest{}); err == nil {
		t.Fatalf("expected error for empty messages")
	}
}

func TestChatCompletionsURL(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		endpoint string
		want     string
	}{
		{"empty uses default", "", DefaultEndpoint + "/chat/completions"},
		{"bare host", "api.example.com", "https://api.example.com/v1/chat/completions"},
		{"trailing slash", "https://api.example.com/v1/", "https://api.example.com/v1/chat/completions"},
		{"versioned path", "https://api.example.com/openai/v1", "https://api.example.com/openai/v1/chat/completions"},
		{"full completions url", "https://api.example.com/v1/chat/completions", "https://api.example.com/v1/chat/completions"},
		{"custom path", "https://api.example.com/proxy", "https://api.example.com/proxy/v1/chat/completions"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			client := NewClient(tc.endpoint, "")
			if got := client.EndpointURL(); got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}
