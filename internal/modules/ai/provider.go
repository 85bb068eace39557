package ai

import "context"

// Provider turns prompts into completion text against one LLM backend.
// Implementations must return *Error for every failure so callers can
// match on Kind.
type Provider interface {
	// ChatCompletion sends a single user turn.
	ChatCompletion(ctx context.Context, apiKey, model, prompt string, temperature float64, maxTokens int) (string, error)
	// ChatWithSystem sends a system turn followed by a user turn.
	ChatWithSystem(ctx context.Context, apiKey, model, systemPrompt, userPrompt string, temperature float64, maxTokens int) (string, error)
	// Models lists the provider's model catalog, optionally filtered to
	// image-capable entries.
	Models(ctx context.Context, apiKey string, imageOnly bool) ([]ModelInfo, error)
}
