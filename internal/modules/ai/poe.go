package ai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"
)

const poeDefaultBaseURL = "https://api.poe.com"

// POEClient talks to the POE OpenAI-compatible API. Besides chat it
// supports live catalog listing (cached) and a best-effort lookup of the
// per-request cost in POE points.
type POEClient struct {
	baseURL       string
	chat          chatClient
	catalogClient *http.Client
	pointsClient  *http.Client
	catalog       *CatalogCache
	log           *UsageLog
}

var _ Provider = (*POEClient)(nil)

// NewPOEClient creates a POE client. An empty baseURL selects the
// production endpoint; tests point it at a local server.
func NewPOEClient(baseURL string, catalog *CatalogCache, log *UsageLog) *POEClient {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = poeDefaultBaseURL
	}
	return &POEClient{
		baseURL:       base,
		chat:          newChatClient(base + "/v1/chat/completions"),
		catalogClient: &http.Client{Timeout: catalogTimeout},
		pointsClient:  &http.Client{Timeout: pointsTimeout},
		catalog:       catalog,
		log:           log,
	}
}

func (p *POEClient) ChatCompletion(ctx context.Context, apiKey, model, prompt string, temperature float64, maxTokens int) (string, error) {
	return p.complete(ctx, ActionChatCompletion, apiKey, model, buildMessages("", prompt), temperature, maxTokens)
}

func (p *POEClient) ChatWithSystem(ctx context.Context, apiKey, model, systemPrompt, userPrompt string, temperature float64, maxTokens int) (string, error) {
	return p.complete(ctx, ActionChatWithSystem, apiKey, model, buildMessages(systemPrompt, userPrompt), temperature, maxTokens)
}

func (p *POEClient) complete(ctx context.Context, action, apiKey, model string, messages []chatMessage, temperature float64, maxTokens int) (string, error) {
	content, usage, err := p.chat.complete(ctx, apiKey, model, messages, temperature, maxTokens)
	if err != nil {
		return "", err
	}

	if p.log != nil {
		entry := UsageLogEntry{
			Timestamp:  time.Now(),
			ActionType: action,
			Model:      model,
			// Most-recent history entry, not correlated to this exact
			// request; nil when the lookup fails.
			CostPoints: p.lookupCostPoints(ctx, apiKey),
		}
		if usage != nil {
			entry.PromptTokens = intPtr(usage.PromptTokens)
			entry.CompletionTokens = intPtr(usage.CompletionTokens)
			entry.TotalTokens = intPtr(usage.TotalTokens)
		}
		_ = p.log.Record(entry)
	}

	return content, nil
}

// lookupCostPoints fetches the latest usage-history entry. Failures are
// swallowed: the cost is operator trivia, never worth failing the chat
// call that already succeeded.
func (p *POEClient) lookupCostPoints(ctx context.Context, apiKey string) *int {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/usage/points_history?limit=1", nil)
	if err != nil {
		return nil
	}
	req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(apiKey))

	resp, err := p.pointsClient.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil
	}

	var payload struct {
		Data []struct {
			CostPoints int `json:"cost_points"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || len(payload.Data) == 0 {
		return nil
	}
	return intPtr(payload.Data[0].CostPoints)
}

func (p *POEClient) Models(ctx context.Context, apiKey string, imageOnly bool) ([]ModelInfo, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, missingAPIKeyError()
	}

	if cached, ok := p.catalog.Get(ctx, apiKey, imageOnly); ok {
		return cached, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/v1/models", nil)
	if err != nil {
		return nil, transportError(err)
	}
	req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(apiKey))

	resp, err := p.catalogClient.Do(req)
	if err != nil {
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(err)
	}

	var payload struct {
		Data []struct {
			ID           string `json:"id"`
			Architecture struct {
				InputModalities []string `json:"input_modalities"`
			} `json:"architecture"`
			Metadata struct {
				DisplayName string `json:"display_name"`
			} `json:"metadata"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, jsonError(err)
	}

	models := make([]ModelInfo, 0, len(payload.Data))
	for _, item := range payload.Data {
		supportsImages := containsString(item.Architecture.InputModalities, "image")
		if imageOnly && !supportsImages {
			continue
		}
		name := strings.TrimSpace(item.Metadata.DisplayName)
		if name == "" {
			name = item.ID
		}
		models = append(models, ModelInfo{
			ID:             item.ID,
			Name:           name,
			SupportsImages: supportsImages,
		})
	}

	sort.SliceStable(models, func(i, j int) bool {
		return strings.ToLower(models[i].Name) < strings.ToLower(models[j].Name)
	})

	p.catalog.Store(ctx, apiKey, imageOnly, models)
	return models, nil
}

func containsString(items []string, want string) bool {
	for _, item := range items {
		if item == want {
			return true
		}
	}
	return false
}

func intPtr(v int) *int { return &v }
