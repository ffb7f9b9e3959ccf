package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/guestview/guestview/internal/content"
)

// Snapshots expire quickly: the cache only exists to absorb repeated
// scoring calls between mutations, never to serve stale catalogs for long.
const defaultTTL = time.Minute

// Cache wraps a Redis client and provides typed get/set/invalidate for
// per-property catalog snapshots. Ranked results are never cached; scores
// are recomputed on every request.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache constructs a Cache with the default snapshot TTL.
func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client, ttl: defaultTTL}
}

// key returns the Redis key for one property's catalog of the given kind.
func key(propertyID string, kind content.Kind) string {
	return "catalog:" + strings.ToLower(strings.TrimSpace(propertyID)) + ":" + string(kind)
}

// snapshot wraps the item list so an empty catalog is distinguishable from
// a cache miss after round-tripping through JSON.
type snapshot struct {
	Items []content.Item `json:"items"`
}

// GetCatalog retrieves a cached catalog snapshot.
// Returns nil, nil on a cache miss (not an error).
func (c *Cache) GetCatalog(ctx context.Context, propertyID string, kind content.Kind) ([]content.Item, error) {
	val, err := c.client.Get(ctx, key(propertyID, kind)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("cache get for property %s: %w", propertyID, err)
	}

	var snap snapshot
	if err := json.Unmarshal([]byte(val), &snap); err != nil {
		return nil, fmt.Errorf("unmarshaling cached catalog for property %s: %w", propertyID, err)
	}
	if snap.Items == nil {
		snap.Items = []content.Item{}
	}
	return snap.Items, nil
}

// SetCatalog stores a catalog snapshot with the configured TTL. A nil item
// slice is stored as an empty catalog.
func (c *Cache) SetCatalog(ctx context.Context, propertyID string, kind content.Kind, items []content.Item) error {
	if items == nil {
		items = []content.Item{}
	}

	b, err := json.Marshal(snapshot{Items: items})
	if err != nil {
		return fmt.Errorf("marshaling catalog for property %s: %w", propertyID, err)
	}

	if err := c.client.Set(ctx, key(propertyID, kind), b, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set for property %s: %w", propertyID, err)
	}

	return nil
}

// Invalidate removes both catalog snapshots for the given property. Called
// after every curation mutation.
func (c *Cache) Invalidate(ctx context.Context, propertyID string) error {
	keys := []string{
		key(propertyID, content.KindActivity),
		key(propertyID, content.KindDining),
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache invalidate for property %s: %w", propertyID, err)
	}
	return nil
}
