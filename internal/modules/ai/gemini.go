package ai

import (
	"context"
	"strings"
	"time"
)

const geminiDefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"

// geminiCatalog is fixed: the endpoint has no model-listing call.
var geminiCatalog = []ModelInfo{
	{ID: "gemini-flash-latest", Name: "Gemini Flash (fast, cheap)"},
	{ID: "gemini-pro-latest", Name: "Gemini Pro (most capable)"},
}

// GeminiClient talks to Google's OpenAI-compatible Gemini endpoint. It
// shares the chat path with POE but has a static catalog and no points
// accounting.
type GeminiClient struct {
	chat chatClient
	log  *UsageLog
}

var _ Provider = (*GeminiClient)(nil)

// NewGeminiClient creates a Gemini client. An empty baseURL selects the
// production endpoint; tests point it at a local server.
func NewGeminiClient(baseURL string, log *UsageLog) *GeminiClient {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = geminiDefaultBaseURL
	}
	return &GeminiClient{
		chat: newChatClient(base + "/chat/completions"),
		log:  log,
	}
}

func (g *GeminiClient) ChatCompletion(ctx context.Context, apiKey, model, prompt string, temperature float64, maxTokens int) (string, error) {
	return g.complete(ctx, ActionChatCompletion, apiKey, model, buildMessages("", prompt), temperature, maxTokens)
}

func (g *GeminiClient) ChatWithSystem(ctx context.Context, apiKey, model, systemPrompt, userPrompt string, temperature float64, maxTokens int) (string, error) {
	return g.complete(ctx, ActionChatWithSystem, apiKey, model, buildMessages(systemPrompt, userPrompt), temperature, maxTokens)
}

func (g *GeminiClient) complete(ctx context.Context, action, apiKey, model string, messages []chatMessage, temperature float64, maxTokens int) (string, error) {
	content, usage, err := g.chat.complete(ctx, apiKey, model, messages, temperature, maxTokens)
	if err != nil {
		return "", err
	}

	if g.log != nil {
		entry := UsageLogEntry{
			Timestamp:  time.Now(),
			ActionType: action,
			Model:      model,
			// Gemini has no points accounting.
		}
		if usage != nil {
			entry.PromptTokens = intPtr(usage.PromptTokens)
			entry.CompletionTokens = intPtr(usage.CompletionTokens)
			entry.TotalTokens = intPtr(usage.TotalTokens)
		}
		_ = g.log.Record(entry)
	}

	return content, nil
}

// Models returns the fixed catalog. The image-only filter never matches:
// neither entry advertises image input.
func (g *GeminiClient) Models(_ context.Context, apiKey string, imageOnly bool) ([]ModelInfo, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, missingAPIKeyError()
	}
	if imageOnly {
		return []ModelInfo{}, nil
	}
	out := make([]ModelInfo, len(geminiCatalog))
	copy(out, geminiCatalog)
	return out, nil
}
