package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// HintClient asks a provider to suggest a component name and kind for a
// requirement that no local pattern covered. Calls are rate-limited;
// callers fall back to heuristic naming on any error.
type HintClient struct {
	provider Provider
	limiter  *rate.Limiter
	timeout  time.Duration
	model    string
	maxToks  int
}

// NewHintClient wraps a provider with rate limiting and timeouts
func NewHintClient(provider Provider, config Config) *HintClient {
	rps := config.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	burst := config.Burst
	if burst <= 0 {
		burst = 1
	}
	timeout := time.Duration(config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &HintClient{
		provider: provider,
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
		timeout:  timeout,
		model:    config.Model,
		maxToks:  config.MaxTokens,
	}
}

// componentHint is the JSON shape we ask the model for
type componentHint struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// ComponentHint implements infer.HintProvider
func (c *HintClient) ComponentHint(ctx context.Context, requirement string) (string, string, error) {
	if c.provider == nil {
		return "", "", fmt.Errorf("no provider configured")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", "", fmt.Errorf("rate limiter: %w", err)
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.provider.Complete(ctxWithTimeout, CompletionRequest{
		Prompt:    BuildHintPrompt(requirement),
		Model:     c.model,
		MaxTokens: c.maxToks,
	})
	if err != nil {
		return "", "", err
	}

	return ParseComponentHint(resp.Text)
}

// BuildHintPrompt constructs the naming prompt for one requirement
func BuildHintPrompt(requirement string) string {
	var b strings.Builder
	b.WriteString("Suggest a software component that satisfies this requirement.\n\n")
	b.WriteString("Requirement: ")
	b.WriteString(requirement)
	b.WriteString("\n\n")
	b.WriteString("Respond with a single JSON object and nothing else:\n")
	b.WriteString(`{"name": "<CamelCase component name>", "kind": "<one of: service, datastore, gateway, queue, ui, cache, external_integration>"}`)
	return b.String()
}

// ParseComponentHint extracts the hint JSON from model output. Models
// wrap answers in prose or code fences often enough that we scan for
// the outermost braces instead of unmarshalling the raw text.
func ParseComponentHint(text string) (string, string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end <= start {
		return "", "", fmt.Errorf("no JSON object in response")
	}

	var hint componentHint
	if err := json.Unmarshal([]byte(text[start:end+1]), &hint); err != nil {
		return "", "", fmt.Errorf("unmarshal hint: %w", err)
	}

	hint.Name = strings.TrimSpace(hint.Name)
	hint.Kind = strings.ToLower(strings.TrimSpace(hint.Kind))
	if hint.Name == "" || hint.Kind == "" {
		return "", "", fmt.Errorf("hint missing name or kind")
	}

	return hint.Name, hint.Kind, nil
}
