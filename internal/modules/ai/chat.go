package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	chatTimeout    = 60 * time.Second
	catalogTimeout = 30 * time.Second
	pointsTimeout  = 5 * time.Second
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

// Usage is the token accounting block of a chat-completions response.
// Providers that do not report usage leave it nil.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage *Usage `json:"usage"`
}

// chatClient performs the single chat-completions POST both providers
// share; only the endpoint URL differs between them.
type chatClient struct {
	completionsURL string
	httpClient     *http.Client
}

func newChatClient(completionsURL string) chatClient {
	return chatClient{
		completionsURL: completionsURL,
		httpClient:     &http.Client{Timeout: chatTimeout},
	}
}

// complete sends one chat-completions request and returns the completion
// text plus the usage block when the provider reports one.
func (c chatClient) complete(ctx context.Context, apiKey, model string, messages []chatMessage, temperature float64, maxTokens int) (string, *Usage, error) {
	if strings.TrimSpace(apiKey) == "" {
		return "", nil, missingAPIKeyError()
	}

	body, err := json.Marshal(chatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", nil, transportError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.completionsURL, bytes.NewReader(body))
	if err != nil {
		return "", nil, transportError(err)
	}
	req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(apiKey))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", nil, transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", nil, apiError(resp.StatusCode)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, transportError(err)
	}

	var result chatResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", nil, invalidResponseError()
	}
	if len(result.Choices) == 0 {
		return "", nil, invalidResponseError()
	}
	return result.Choices[0].Message.Content, result.Usage, nil
}

func buildMessages(systemPrompt, userPrompt string) []chatMessage {
	messages := make([]chatMessage, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, chatMessage{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, chatMessage{Role: "user", Content: userPrompt})
	return messages
}
