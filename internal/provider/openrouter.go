package provider

import "context"

const openRouterBase = "https://openrouter.ai/api/v1"

// OpenRouterClient wraps OpenAIClient with the OpenRouter base URL.
type OpenRouterClient struct {
	inner *OpenAIClient
}

// NewOpenRouterClient creates an adapter targeting the OpenRouter API.
func NewOpenRouterClient(apiKey, defaultModel string) *OpenRouterClient {
	if defaultModel == "" {
		defaultModel = "meta-llama/llama-3.1-70b-instruct"
	}
	return &OpenRouterClient{
		inner: NewOpenAIClient(apiKey, openRouterBase, defaultModel),
	}
}

func (c *OpenRouterClient) Generate(ctx context.Context, prompt string) (*Response, error) {
	return c.inner.Generate(ctx, prompt)
}

func (c *OpenRouterClient) DefaultModel() string {
	return c.inner.DefaultModel()
}
