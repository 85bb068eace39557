package ai

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"time"

	pkgredis "github.com/guilamu/distillpress/internal/pkg/redis"
)

const catalogTTL = time.Hour

// ModelInfo is one entry of a provider's model catalog.
type ModelInfo struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	SupportsImages bool   `json:"supports_images"`
}

// CatalogCache is the time-boxed model catalog cache, keyed by a hash of
// the API key so the key itself never reaches the cache backend.
type CatalogCache struct {
	cache pkgredis.Cache
}

func NewCatalogCache(cache pkgredis.Cache) *CatalogCache {
	return &CatalogCache{cache: cache}
}

func catalogCacheKey(apiKey string, imageOnly bool) string {
	sum := md5.Sum([]byte(apiKey))
	key := "distillpress:models:" + hex.EncodeToString(sum[:])
	if imageOnly {
		key += ":img"
	}
	return key
}

// Get returns the cached catalog for the key, or (nil, false) on miss.
func (c *CatalogCache) Get(ctx context.Context, apiKey string, imageOnly bool) ([]ModelInfo, bool) {
	if c == nil || c.cache == nil {
		return nil, false
	}
	raw, err := c.cache.Get(ctx, catalogCacheKey(apiKey, imageOnly))
	if err != nil || raw == "" {
		return nil, false
	}
	var models []ModelInfo
	if err := json.Unmarshal([]byte(raw), &models); err != nil {
		return nil, false
	}
	return models, true
}

// Store caches a non-empty catalog for the fixed TTL. Empty catalogs are
// never cached so a transient empty response is retried on the next call.
func (c *CatalogCache) Store(ctx context.Context, apiKey string, imageOnly bool, models []ModelInfo) {
	if c == nil || c.cache == nil || len(models) == 0 {
		return
	}
	data, err := json.Marshal(models)
	if err != nil {
		return
	}
	_ = c.cache.Set(ctx, catalogCacheKey(apiKey, imageOnly), string(data), catalogTTL)
}

// InvalidateModels drops both catalog variants for an API key. Called
// when the key changes in settings.
func (c *CatalogCache) InvalidateModels(ctx context.Context, apiKey string) error {
	if c == nil || c.cache == nil {
		return nil
	}
	return c.cache.Del(ctx,
		catalogCacheKey(apiKey, false),
		catalogCacheKey(apiKey, true),
	)
}
