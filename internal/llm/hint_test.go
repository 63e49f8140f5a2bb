package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestParseComponentHint_PlainJSON(t *testing.T) {
	name, kind, err := ParseComponentHint(`{"name": "OrderService", "kind": "service"}`)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if name != "OrderService" {
		t.Errorf("Expected OrderService, got %q", name)
	}
	if kind != "service" {
		t.Errorf("Expected service, got %q", kind)
	}
}

func TestParseComponentHint_WrappedInProse(t *testing.T) {
	text := "Sure! Here is the component:\n```json\n{\"name\": \"LedgerStore\", \"kind\": \"DATASTORE\"}\n```\nHope that helps."

	name, kind, err := ParseComponentHint(text)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if name != "LedgerStore" {
		t.Errorf("Expected LedgerStore, got %q", name)
	}
	if kind != "datastore" {
		t.Errorf("Expected lowercased kind, got %q", kind)
	}
}

func TestParseComponentHint_Malformed(t *testing.T) {
	cases := []string{
		"no json here at all",
		"{broken json",
		`{"name": "", "kind": "service"}`,
		`{"name": "OrderService"}`,
		`{"kind": "service"}`,
	}
	for _, text := range cases {
		if _, _, err := ParseComponentHint(text); err == nil {
			t.Errorf("Expected error for %q", text)
		}
	}
}

func TestBuildHintPrompt(t *testing.T) {
	prompt := BuildHintPrompt("Process legacy ledger exports")

	if !strings.Contains(prompt, "Process legacy ledger exports") {
		t.Error("Expected requirement text in prompt")
	}
	if !strings.Contains(prompt, `"kind"`) {
		t.Error("Expected JSON shape in prompt")
	}
	if !strings.Contains(prompt, "external_integration") {
		t.Error("Expected kind enumeration in prompt")
	}
}

// stubProvider returns canned completions for hint client tests
type stubProvider struct {
	text string
	err  error

	lastPrompt string
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	s.lastPrompt = req.Prompt
	if s.err != nil {
		return nil, s.err
	}
	return &CompletionResponse{Text: s.text, Model: "stub"}, nil
}

func (s *stubProvider) IsAvailable(ctx context.Context) bool { return true }

func TestHintClient_ComponentHint(t *testing.T) {
	provider := &stubProvider{text: `{"name": "ExportService", "kind": "service"}`}
	client := NewHintClient(provider, DefaultConfig())

	name, kind, err := client.ComponentHint(context.Background(), "Process legacy ledger exports")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if name != "ExportService" || kind != "service" {
		t.Errorf("Expected (ExportService, service), got (%q, %q)", name, kind)
	}
	if !strings.Contains(provider.lastPrompt, "Process legacy ledger exports") {
		t.Error("Expected requirement forwarded to the provider")
	}
}

func TestHintClient_ProviderError(t *testing.T) {
	provider := &stubProvider{err: errors.New("connection refused")}
	client := NewHintClient(provider, DefaultConfig())

	if _, _, err := client.ComponentHint(context.Background(), "anything"); err == nil {
		t.Fatal("Expected provider error to propagate")
	}
}

func TestHintClient_RespectsCancellation(t *testing.T) {
	provider := &stubProvider{text: `{"name": "A", "kind": "service"}`}
	client := NewHintClient(provider, Config{RequestsPerSecond: 0.001, Burst: 1})

	ctx, cancel := context.WithCancel(context.Background())

	// First call consumes the burst token
	if _, _, err := client.ComponentHint(ctx, "first"); err != nil {
		t.Fatalf("Expected first call to pass, got %v", err)
	}

	cancel()
	if _, _, err := client.ComponentHint(ctx, "second"); err == nil {
		t.Fatal("Expected cancelled context to abort the rate-limited call")
	}
}

func TestNewProvider_Factory(t *testing.T) {
	if p, err := NewProvider(Config{}); err != nil || p != nil {
		t.Errorf("Expected disabled provider for empty name, got (%v, %v)", p, err)
	}

	if _, err := NewProvider(Config{Provider: "openai"}); err == nil {
		t.Error("Expected error for openai without API key")
	}
	if _, err := NewProvider(Config{Provider: "anthropic"}); err == nil {
		t.Error("Expected error for anthropic without API key")
	}
	if _, err := NewProvider(Config{Provider: "carrier-pigeon"}); err == nil {
		t.Error("Expected error for unknown provider")
	}

	p, err := NewProvider(Config{Provider: "ollama"})
	if err != nil {
		t.Fatalf("Expected ollama to configure without a key, got %v", err)
	}
	if p.Name() != "ollama" {
		t.Errorf("Expected ollama provider, got %q", p.Name())
	}
}
