package settings

import "strings"

// Provider identifiers. POE talks to the POE OpenAI-compatible API,
// Gemini to Google's OpenAI-compatible endpoint.
const (
	ProviderPOE    = "poe"
	ProviderGemini = "gemini"
)

// Settings is the persisted plugin configuration. It is stored as a
// single JSON blob in the options table and mutated only through Patch.
type Settings struct {
	Provider           string `json:"provider"`
	POEAPIKey          string `json:"poe_api_key"`
	GeminiAPIKey       string `json:"gemini_api_key"`
	POEModel           string `json:"poe_model"`
	GeminiModel        string `json:"gemini_model"`
	DefaultNumPoints   int    `json:"default_num_points"`
	DefaultReduction   int    `json:"default_reduction_percent"`
	DefaultMaxCats     int    `json:"default_max_categories"`
	DefaultCategoryID  string `json:"default_category_id"`
	EnableSummary      bool   `json:"enable_summary"`
	EnableTeaser       bool   `json:"enable_teaser"`
	CustomInstructions string `json:"custom_instructions"`
}

// Defaults returns the settings written on first install.
func Defaults() Settings {
	return Settings{
		Provider:         ProviderPOE,
		POEModel:         "gpt-4o-mini",
		GeminiModel:      "gemini-flash-latest",
		DefaultNumPoints: 3,
		DefaultReduction: 0,
		DefaultMaxCats:   3,
		EnableSummary:    true,
		EnableTeaser:     true,
	}
}

// APIKey returns the key for the active provider.
func (s Settings) APIKey() string {
	if s.Provider == ProviderGemini {
		return strings.TrimSpace(s.GeminiAPIKey)
	}
	return strings.TrimSpace(s.POEAPIKey)
}

// Model returns the model ID for the active provider.
func (s Settings) Model() string {
	if s.Provider == ProviderGemini {
		return strings.TrimSpace(s.GeminiModel)
	}
	return strings.TrimSpace(s.POEModel)
}

// PatchDTO carries a partial settings update; nil fields are left alone.
type PatchDTO struct {
	Provider           *string `json:"provider"`
	POEAPIKey          *string `json:"poe_api_key"`
	GeminiAPIKey       *string `json:"gemini_api_key"`
	POEModel           *string `json:"poe_model"`
	GeminiModel        *string `json:"gemini_model"`
	DefaultNumPoints   *int    `json:"default_num_points"`
	DefaultReduction   *int    `json:"default_reduction_percent"`
	DefaultMaxCats     *int    `json:"default_max_categories"`
	DefaultCategoryID  *string `json:"default_category_id"`
	EnableSummary      *bool   `json:"enable_summary"`
	EnableTeaser       *bool   `json:"enable_teaser"`
	CustomInstructions *string `json:"custom_instructions"`
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
