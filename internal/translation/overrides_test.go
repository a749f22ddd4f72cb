package translation

import "testing"

func TestResolveOverride_ChainOrder(t *testing.T) {
	t.Parallel()

	source := mapOverrides{
		"chat.temperature": "0.1",
		"temperature":      "0.2",
	}

	if got := resolveOverride(source, "chat", "temperature", "fallback"); got != "0.1" {
		t.Fatalf("expected namespaced key to win, got %q", got)
	}

	delete(source, "chat.temperature")
	if got := resolveOverride(source, "chat", "temperature", "fallback"); got != "0.2" {
		t.Fatalf("expected bare key, got %q", got)
	}

	delete(source, "temperature")
	if got := resolveOverride(source, "chat", "temperature", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}

	if got := resolveOverride(nil, "chat", "temperature", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback with nil source, got %q", got)
	}
}

func TestResolveFloatOverride(t *testing.T) {
	t.Parallel()

	source := mapOverrides{
		"chat.top_p": "0.85",
		"bad":        "not-a-number",
	}

	if got := resolveFloatOverride(source, "chat", "top_p", 0.92); got != 0.85 {
		t.Fatalf("unexpected value: %v", got)
	}
	if got := resolveFloatOverride(source, "chat", "bad", 0.92); got != 0.92 {
		t.Fatalf("expected fallback on parse failure, got %v", got)
	}
	if got := resolveFloatOverride(source, "chat", "missing", 0.3); got != 0.3 {
		t.Fatalf("expected fallback on missing key, got %v", got)
	}
}
