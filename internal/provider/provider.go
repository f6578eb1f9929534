// Package provider implements LLM vendor adapters behind a uniform
// generation interface.
package provider

import (
	"context"
	"fmt"
	"time"
)

// Provider identifiers.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
)

// defaultTimeout bounds one generation call. A hung vendor surfaces as a
// generation failure instead of stalling the invocation.
const defaultTimeout = 60 * time.Second

// maxResponseTokens caps completion length for all vendors. Agent
// actions are short social posts, not long-form output.
const maxResponseTokens = 300

// Client is the uniform interface over LLM backends. Adapters normalize
// each vendor's response shape and never retry or substitute models;
// fallback policy belongs to the caller.
type Client interface {
	// Generate sends the prompt and returns the normalized response.
	Generate(ctx context.Context, prompt string) (*Response, error)
	// DefaultModel returns the model used when the request names none.
	DefaultModel() string
}

// Response is a normalized generation result. TokensUsed is 0 for
// vendors that do not report usage; callers must tolerate that.
type Response struct {
	Text       string
	TokensUsed int
}

// Config selects and authenticates a vendor adapter.
type Config struct {
	Provider string
	APIKey   string
	Model    string
}

// New builds the adapter for the configured provider.
func New(cfg Config) (Client, error) {
	switch cfg.Provider {
	case ProviderAnthropic:
		return NewAnthropicClient(cfg.APIKey, "", cfg.Model), nil
	case ProviderOpenAI:
		return NewOpenAIClient(cfg.APIKey, "", cfg.Model), nil
	case ProviderGemini:
		return NewGeminiClient(cfg.APIKey, "", cfg.Model), nil
	case ProviderOpenRouter:
		return NewOpenRouterClient(cfg.APIKey, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
}

// FallbackModel returns the provider's known-stable cheap model for the
// orchestrator's one-shot fallback, or "" when the provider has none.
// Only Gemini defines one; its preview models fail often enough (quota,
// model-not-found) that a deterministic downgrade is worth it.
func FallbackModel(providerID string) string {
	if providerID == ProviderGemini {
		return "gemini-2.0-flash"
	}
	return ""
}
