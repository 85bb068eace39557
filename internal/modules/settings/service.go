package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/guilamu/distillpress/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const optionKey = "distillpress_settings"

var errUnknownProvider = errors.New("provider must be \"poe\" or \"gemini\"")

// ModelCacheInvalidator drops cached model catalogs for an API key.
// Implemented by the ai module's catalog cache; nil disables invalidation.
type ModelCacheInvalidator interface {
	InvalidateModels(ctx context.Context, apiKey string) error
}

// Service manages the persisted plugin Settings.
type Service struct {
	db         *gorm.DB
	modelCache ModelCacheInvalidator

	mu  sync.RWMutex
	cur *Settings
}

func NewService(db *gorm.DB, modelCache ModelCacheInvalidator) *Service {
	return &Service{db: db, modelCache: modelCache}
}

// Get returns the current settings, loading from DB (and seeding
// defaults) if not cached.
func (s *Service) Get() (Settings, error) {
	s.mu.RLock()
	if s.cur != nil {
		defer s.mu.RUnlock()
		return *s.cur, nil
	}
	s.mu.RUnlock()

	return s.load()
}

func (s *Service) load() (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cur != nil {
		return *s.cur, nil
	}

	var opt models.OptionModel
	err := s.db.Where("name = ?", optionKey).First(&opt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		defaults := Defaults()
		s.cur = &defaults
		if err := s.persist(defaults); err != nil {
			return Settings{}, err
		}
		return defaults, nil
	}
	if err != nil {
		return Settings{}, err
	}

	cfg := Defaults()
	if err := json.Unmarshal([]byte(opt.Value), &cfg); err != nil {
		return Settings{}, fmt.Errorf("decode stored settings: %w", err)
	}
	s.cur = &cfg
	return cfg, nil
}

// Patch applies a partial update, clamps numeric knobs to their valid
// ranges, persists the result, and invalidates the model catalog cache
// for any API key that changed.
func (s *Service) Patch(ctx context.Context, dto PatchDTO) (Settings, error) {
	cur, err := s.Get()
	if err != nil {
		return Settings{}, err
	}

	next := cur
	if dto.Provider != nil {
		p := strings.ToLower(strings.TrimSpace(*dto.Provider))
		if p != ProviderPOE && p != ProviderGemini {
			return Settings{}, errUnknownProvider
		}
		next.Provider = p
	}
	if dto.POEAPIKey != nil {
		next.POEAPIKey = strings.TrimSpace(*dto.POEAPIKey)
	}
	if dto.GeminiAPIKey != nil {
		next.GeminiAPIKey = strings.TrimSpace(*dto.GeminiAPIKey)
	}
	if dto.POEModel != nil {
		next.POEModel = strings.TrimSpace(*dto.POEModel)
	}
	if dto.GeminiModel != nil {
		next.GeminiModel = strings.TrimSpace(*dto.GeminiModel)
	}
	if dto.DefaultNumPoints != nil {
		next.DefaultNumPoints = clamp(*dto.DefaultNumPoints, 1, 20)
	}
	if dto.DefaultReduction != nil {
		next.DefaultReduction = clamp(*dto.DefaultReduction, 0, 100)
	}
	if dto.DefaultMaxCats != nil {
		next.DefaultMaxCats = clamp(*dto.DefaultMaxCats, 1, 20)
	}
	if dto.DefaultCategoryID != nil {
		next.DefaultCategoryID = strings.TrimSpace(*dto.DefaultCategoryID)
	}
	if dto.EnableSummary != nil {
		next.EnableSummary = *dto.EnableSummary
	}
	if dto.EnableTeaser != nil {
		next.EnableTeaser = *dto.EnableTeaser
	}
	if dto.CustomInstructions != nil {
		next.CustomInstructions = strings.TrimSpace(*dto.CustomInstructions)
	}

	if err := s.persistLocked(next); err != nil {
		return Settings{}, err
	}

	// Stale catalogs must not survive a key rotation.
	if s.modelCache != nil {
		if next.POEAPIKey != cur.POEAPIKey && cur.POEAPIKey != "" {
			_ = s.modelCache.InvalidateModels(ctx, cur.POEAPIKey)
		}
		if next.GeminiAPIKey != cur.GeminiAPIKey && cur.GeminiAPIKey != "" {
			_ = s.modelCache.InvalidateModels(ctx, cur.GeminiAPIKey)
		}
	}

	return next, nil
}

func (s *Service) persistLocked(cfg Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persist(cfg); err != nil {
		return err
	}
	s.cur = &cfg
	return nil
}

func (s *Service) persist(cfg Settings) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	opt := models.OptionModel{Name: optionKey, Value: string(data)}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&opt).Error
}

// Invalidate clears the in-memory settings cache, forcing a DB reload on
// next Get.
func (s *Service) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur = nil
}
