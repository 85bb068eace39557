package settings

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/guilamu/distillpress/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.OptionModel{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type recordingInvalidator struct {
	keys []string
}

func (r *recordingInvalidator) InvalidateModels(_ context.Context, apiKey string) error {
	r.keys = append(r.keys, apiKey)
	return nil
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestGetSeedsDefaultsOnFirstRead(t *testing.T) {
	svc := NewService(testDB(t), nil)

	cfg, err := svc.Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if cfg.Provider != ProviderPOE || cfg.DefaultNumPoints != 3 || !cfg.EnableSummary || !cfg.EnableTeaser {
		t.Errorf("unexpected defaults: %+v", cfg)
	}

	// The seed must be persisted, not just cached.
	svc.Invalidate()
	again, err := svc.Get()
	if err != nil {
		t.Fatalf("Get after invalidate: %v", err)
	}
	if again != cfg {
		t.Errorf("reloaded settings differ: %+v vs %+v", again, cfg)
	}
}

func TestPatchClampsRangesAndPersists(t *testing.T) {
	svc := NewService(testDB(t), nil)

	cfg, err := svc.Patch(context.Background(), PatchDTO{
		DefaultNumPoints: intPtr(99),
		DefaultReduction: intPtr(-5),
		DefaultMaxCats:   intPtr(0),
	})
	if err != nil {
		t.Fatalf("Patch: %v", err)
	}
	if cfg.DefaultNumPoints != 20 {
		t.Errorf("num points = %d, want 20", cfg.DefaultNumPoints)
	}
	if cfg.DefaultReduction != 0 {
		t.Errorf("reduction = %d, want 0", cfg.DefaultReduction)
	}
	if cfg.DefaultMaxCats != 1 {
		t.Errorf("max categories = %d, want 1", cfg.DefaultMaxCats)
	}

	svc.Invalidate()
	reloaded, err := svc.Get()
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.DefaultNumPoints != 20 {
		t.Errorf("patch not persisted, num points = %d", reloaded.DefaultNumPoints)
	}
}

func TestPatchRejectsUnknownProvider(t *testing.T) {
	svc := NewService(testDB(t), nil)
	if _, err := svc.Patch(context.Background(), PatchDTO{Provider: strPtr("openai")}); err == nil {
		t.Fatal("expected an error for unknown provider")
	}
}

func TestPatchInvalidatesModelCacheOnKeyChange(t *testing.T) {
	inv := &recordingInvalidator{}
	svc := NewService(testDB(t), inv)

	ctx := context.Background()
	if _, err := svc.Patch(ctx, PatchDTO{POEAPIKey: strPtr("key-one")}); err != nil {
		t.Fatal(err)
	}
	// Empty → key-one should not invalidate (nothing was cached).
	if len(inv.keys) != 0 {
		t.Fatalf("unexpected invalidations: %v", inv.keys)
	}

	if _, err := svc.Patch(ctx, PatchDTO{POEAPIKey: strPtr("key-two")}); err != nil {
		t.Fatal(err)
	}
	if len(inv.keys) != 1 || inv.keys[0] != "key-one" {
		t.Errorf("invalidations = %v, want [key-one]", inv.keys)
	}

	// Re-patching the same key is a no-op for the cache.
	if _, err := svc.Patch(ctx, PatchDTO{POEAPIKey: strPtr("key-two")}); err != nil {
		t.Fatal(err)
	}
	if len(inv.keys) != 1 {
		t.Errorf("same-key patch should not invalidate, got %v", inv.keys)
	}
}

func TestActiveProviderAccessors(t *testing.T) {
	s := Defaults()
	s.POEAPIKey = "poe-key"
	s.GeminiAPIKey = "gem-key"

	if s.APIKey() != "poe-key" || s.Model() != "gpt-4o-mini" {
		t.Errorf("poe accessors: key=%q model=%q", s.APIKey(), s.Model())
	}
	s.Provider = ProviderGemini
	if s.APIKey() != "gem-key" || s.Model() != "gemini-flash-latest" {
		t.Errorf("gemini accessors: key=%q model=%q", s.APIKey(), s.Model())
	}
}
