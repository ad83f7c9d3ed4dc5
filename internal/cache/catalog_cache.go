package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yashvavaliya/DBC-new-section/internal/models"
)

// CatalogCache caches a card's fully assembled product catalog so public card
// views do not hit Postgres on every request. Entries are invalidated on every
// catalog write.
type CatalogCache struct {
	redis *RedisClient
	ttl   time.Duration
}

// NewCatalogCache creates a new CatalogCache with the given entry TTL.
func NewCatalogCache(redis *RedisClient, ttl time.Duration) *CatalogCache {
	return &CatalogCache{redis: redis, ttl: ttl}
}

func (c *CatalogCache) key(cardID string) string {
	return fmt.Sprintf("catalog:card:%s", cardID)
}

// Get returns the cached catalog for a card, or (nil, nil) on a cache miss.
func (c *CatalogCache) Get(ctx context.Context, cardID string) ([]models.Product, error) {
	raw, err := c.redis.Get(ctx, c.key(cardID))
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var catalog []models.Product
	if err := json.Unmarshal([]byte(raw), &catalog); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached catalog: %w", err)
	}
	return catalog, nil
}

// Set stores the assembled catalog for a card.
func (c *CatalogCache) Set(ctx context.Context, cardID string, catalog []models.Product) error {
	data, err := json.Marshal(catalog)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}
	return c.redis.Set(ctx, c.key(cardID), string(data), c.ttl)
}

// Invalidate drops the cached catalog for a card.
func (c *CatalogCache) Invalidate(ctx context.Context, cardID string) error {
	return c.redis.Delete(ctx, c.key(cardID))
}
