package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/guilamu/distillpress/internal/models"
	"github.com/guilamu/distillpress/internal/modules/settings"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GenerateRequest is one summary/teaser generation call. Nil knobs fall
// back to the stored defaults.
type GenerateRequest struct {
	Content          string
	PostID           string
	NumPoints        *int
	ReductionPercent *int
}

// GenerateResult carries the two optional outputs. A field is empty when
// its feature is disabled or the model omitted it.
type GenerateResult struct {
	Summary string `json:"summary"`
	Teaser  string `json:"teaser"`
}

// CategorizeRequest is one auto-categorization call.
type CategorizeRequest struct {
	Content       string
	PostID        string
	MaxCategories *int
}

// CategorizeResult holds the selected categories in relevance order,
// IDs and names parallel.
type CategorizeResult struct {
	CategoryIDs   []string `json:"category_ids"`
	CategoryNames []string `json:"category_names"`
}

// Service orchestrates prompt building, the provider call, response
// parsing, and best-effort persistence.
type Service struct {
	db        *gorm.DB
	settings  *settings.Service
	providers map[string]Provider
	usageLog  *UsageLog
	logger    *zap.Logger
}

func NewService(db *gorm.DB, settingsSvc *settings.Service, providers map[string]Provider, usageLog *UsageLog, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		db:        db,
		settings:  settingsSvc,
		providers: providers,
		usageLog:  usageLog,
		logger:    logger,
	}
}

func (s *Service) provider(cfg settings.Settings) (Provider, error) {
	p, ok := s.providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("no client registered for provider %q", cfg.Provider)
	}
	return p, nil
}

// GenerateSummary runs the summary/teaser pipeline. Validation happens
// before any network I/O; persistence is a best-effort final step whose
// failure never masks a successful generation.
func (s *Service) GenerateSummary(ctx context.Context, req GenerateRequest) (GenerateResult, error) {
	cfg, err := s.settings.Get()
	if err != nil {
		return GenerateResult{}, err
	}

	if !cfg.EnableSummary && !cfg.EnableTeaser {
		return GenerateResult{}, newError(KindFeaturesDisabled, "both summary and teaser are disabled in settings")
	}

	plain := stripTags(req.Content)
	if plain == "" {
		return GenerateResult{}, newError(KindEmptyContent, "no content provided")
	}

	if cfg.APIKey() == "" {
		return GenerateResult{}, missingAPIKeyError()
	}

	numPoints := cfg.DefaultNumPoints
	if req.NumPoints != nil {
		numPoints = *req.NumPoints
	}
	numPoints = clampInt(numPoints, 1, 20)

	reduction := cfg.DefaultReduction
	if req.ReductionPercent != nil {
		reduction = *req.ReductionPercent
	}
	reduction = clampInt(reduction, 0, 100)

	provider, err := s.provider(cfg)
	if err != nil {
		return GenerateResult{}, err
	}

	systemPrompt, userPrompt := buildSummaryPrompts(summaryPromptOptions{
		EnableSummary:      cfg.EnableSummary,
		EnableTeaser:       cfg.EnableTeaser,
		NumPoints:          numPoints,
		ReductionPercent:   reduction,
		CustomInstructions: cfg.CustomInstructions,
		PlainContent:       plain,
	})

	raw, err := provider.ChatWithSystem(ctx, cfg.APIKey(), cfg.Model(), systemPrompt, userPrompt, summaryTemperature, summaryMaxTokens)
	if err != nil {
		return GenerateResult{}, err
	}

	var result GenerateResult
	if parsed, ok := ExtractJSON(raw).(map[string]interface{}); ok {
		result.Summary = trimmedField(parsed, "summary")
		result.Teaser = trimmedField(parsed, "teaser")
	} else if cfg.EnableSummary {
		// Degraded mode: the model ignored the JSON directive, so the
		// whole completion becomes the summary.
		result.Summary = strings.TrimSpace(raw)
	}

	if req.PostID != "" {
		s.persistGeneration(req.PostID, cfg, result)
	}

	return result, nil
}

func (s *Service) persistGeneration(postID string, cfg settings.Settings, result GenerateResult) {
	updates := map[string]interface{}{}
	if cfg.EnableSummary && result.Summary != "" {
		updates["summary"] = result.Summary
	}
	if cfg.EnableTeaser && result.Teaser != "" {
		updates["teaser"] = result.Teaser
	}
	if len(updates) == 0 {
		return
	}
	if err := s.db.Model(&models.PostModel{}).Where("id = ?", postID).Updates(updates).Error; err != nil {
		s.logger.Warn("failed to persist generated fields",
			zap.String("post_id", postID), zap.Error(err))
	}
}

// AutoCategorize selects categories for the content from the stored
// vocabulary.
func (s *Service) AutoCategorize(ctx context.Context, req CategorizeRequest) (CategorizeResult, error) {
	cfg, err := s.settings.Get()
	if err != nil {
		return CategorizeResult{}, err
	}

	plain := stripTags(req.Content)
	if plain == "" {
		return CategorizeResult{}, newError(KindEmptyContent, "no content provided")
	}

	if cfg.APIKey() == "" {
		return CategorizeResult{}, missingAPIKeyError()
	}

	maxCategories := cfg.DefaultMaxCats
	if req.MaxCategories != nil {
		maxCategories = *req.MaxCategories
	}
	maxCategories = clampInt(maxCategories, 1, 20)

	var vocabulary []models.CategoryModel
	if err := s.db.Order("created_at ASC").Find(&vocabulary).Error; err != nil {
		return CategorizeResult{}, err
	}
	if len(vocabulary) == 0 {
		return CategorizeResult{}, newError(KindNoCategoriesAvailable, "no categories available")
	}

	// A configured default category is honored only while it still
	// exists in the vocabulary.
	defaultID, defaultName := "", ""
	if cfg.DefaultCategoryID != "" {
		for _, cat := range vocabulary {
			if cat.ID == cfg.DefaultCategoryID {
				defaultID, defaultName = cat.ID, cat.Name
				break
			}
		}
	}

	names := make([]string, 0, len(vocabulary))
	for _, cat := range vocabulary {
		names = append(names, cat.Name)
	}

	provider, err := s.provider(cfg)
	if err != nil {
		return CategorizeResult{}, err
	}

	systemPrompt, userPrompt := buildCategorizePrompts(maxCategories, names, plain)
	raw, err := provider.ChatWithSystem(ctx, cfg.APIKey(), cfg.Model(), systemPrompt, userPrompt, categorizeTemperature, categorizeMaxTokens)
	if err != nil {
		return CategorizeResult{}, err
	}

	selected, ok := ExtractJSON(raw).([]interface{})
	if !ok {
		return CategorizeResult{}, newError(KindCategoryParse, "failed to parse category response")
	}

	result := matchCategories(selected, vocabulary, maxCategories)

	// The default category is unshifted after the cap, so the final list
	// may hold maxCategories+1 entries. Preserved behavior.
	if defaultID != "" && !containsString(result.CategoryIDs, defaultID) {
		result.CategoryIDs = append([]string{defaultID}, result.CategoryIDs...)
		result.CategoryNames = append([]string{defaultName}, result.CategoryNames...)
	}

	if len(result.CategoryIDs) == 0 {
		return CategorizeResult{}, newError(KindNoCategoriesFound, "no matching categories found")
	}

	if req.PostID != "" {
		s.persistCategories(req.PostID, result.CategoryIDs)
	}

	return result, nil
}

// matchCategories maps model-returned names onto the vocabulary:
// case-insensitive, stored casing wins, model order preserved,
// non-matches and duplicates dropped silently, then capped.
func matchCategories(selected []interface{}, vocabulary []models.CategoryModel, maxCategories int) CategorizeResult {
	result := CategorizeResult{
		CategoryIDs:   []string{},
		CategoryNames: []string{},
	}
	for _, item := range selected {
		name, ok := item.(string)
		if !ok {
			continue
		}
		for _, cat := range vocabulary {
			if !strings.EqualFold(name, cat.Name) {
				continue
			}
			if !containsString(result.CategoryIDs, cat.ID) {
				result.CategoryIDs = append(result.CategoryIDs, cat.ID)
				result.CategoryNames = append(result.CategoryNames, cat.Name)
			}
			break
		}
	}
	if len(result.CategoryIDs) > maxCategories {
		result.CategoryIDs = result.CategoryIDs[:maxCategories]
		result.CategoryNames = result.CategoryNames[:maxCategories]
	}
	return result
}

func (s *Service) persistCategories(postID string, categoryIDs []string) {
	var post models.PostModel
	if err := s.db.First(&post, "id = ?", postID).Error; err != nil {
		s.logger.Warn("failed to load post for category assignment",
			zap.String("post_id", postID), zap.Error(err))
		return
	}
	cats := make([]models.CategoryModel, 0, len(categoryIDs))
	for _, id := range categoryIDs {
		cats = append(cats, models.CategoryModel{Base: models.Base{ID: id}})
	}
	if err := s.db.Model(&post).Association("Categories").Replace(cats); err != nil {
		s.logger.Warn("failed to assign categories",
			zap.String("post_id", postID), zap.Error(err))
	}
}

// Models lists the active provider's catalog.
func (s *Service) Models(ctx context.Context, imageOnly bool) ([]ModelInfo, error) {
	cfg, err := s.settings.Get()
	if err != nil {
		return nil, err
	}
	provider, err := s.provider(cfg)
	if err != nil {
		return nil, err
	}
	return provider.Models(ctx, cfg.APIKey(), imageOnly)
}

// UsageEntries returns the bounded request log, newest first.
func (s *Service) UsageEntries() ([]UsageLogEntry, error) {
	return s.usageLog.List()
}

func trimmedField(m map[string]interface{}, key string) string {
	v, _ := m[key].(string)
	return strings.TrimSpace(v)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
