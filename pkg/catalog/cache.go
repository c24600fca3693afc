package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedStore layers Redis read-through caching over another Store. Line
// items additionally get an in-process LRU (L1) since every composition
// resolves several of them. The base catalog is read-mostly, so entries use
// plain TTL expiry; override writes invalidate their own keys.
type CachedStore struct {
	store Store
	redis *redis.Client
	l1    *lru.Cache[string, *LineItem]
	ttl   map[string]time.Duration
}

// NewCachedStore creates a caching layer in front of the given store.
func NewCachedStore(store Store, client *redis.Client, l1Size int) (*CachedStore, error) {
	if l1Size <= 0 {
		l1Size = 1024
	}
	l1, err := lru.New[string, *LineItem](l1Size)
	if err != nil {
		return nil, fmt.Errorf("failed to create L1 cache: %w", err)
	}

	return &CachedStore{
		store: store,
		redis: client,
		l1:    l1,
		ttl: map[string]time.Duration{
			"line_item": 1 * time.Hour,
			"option":    15 * time.Minute,
			"package":   15 * time.Minute,
			"override":  5 * time.Minute,
		},
	}, nil
}

func lineItemKey(id string) string { return "catalog:line_item:" + id }
func optionKey(id string) string   { return "catalog:option:" + id }
func packageKey(id string) string  { return "catalog:package:" + id }

func cacheOverrideKey(optionID string, orgID int64) string {
	return fmt.Sprintf("catalog:override:%s:%d", optionID, orgID)
}

// FetchLineItems is not cached; list results depend on the filter and are
// cheap relative to the per-item lookups the engine performs.
func (c *CachedStore) FetchLineItems(ctx context.Context, filter LineItemFilter) ([]*LineItem, error) {
	return c.store.FetchLineItems(ctx, filter)
}

// FetchLineItem gets a line item through L1, then Redis, then the store.
func (c *CachedStore) FetchLineItem(ctx context.Context, id string) (*LineItem, error) {
	if item, ok := c.l1.Get(id); ok {
		return cloneLineItem(item), nil
	}

	cacheKey := lineItemKey(id)
	cached, err := c.redis.Get(ctx, cacheKey).Result()
	if err == nil {
		var item LineItem
		if err := json.Unmarshal([]byte(cached), &item); err == nil {
			c.l1.Add(id, &item)
			return cloneLineItem(&item), nil
		}
	}

	item, err := c.store.FetchLineItem(ctx, id)
	if err != nil {
		return nil, err
	}

	c.l1.Add(id, cloneLineItem(item))
	if data, err := json.Marshal(item); err == nil {
		c.redis.Set(ctx, cacheKey, data, c.ttl["line_item"])
	}
	return item, nil
}

// FetchBaseOption gets a service option with Redis caching.
func (c *CachedStore) FetchBaseOption(ctx context.Context, id string) (*ServiceOption, error) {
	cacheKey := optionKey(id)
	cached, err := c.redis.Get(ctx, cacheKey).Result()
	if err == nil {
		var option ServiceOption
		if err := json.Unmarshal([]byte(cached), &option); err == nil {
			return &option, nil
		}
	}

	option, err := c.store.FetchBaseOption(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(option); err == nil {
		c.redis.Set(ctx, cacheKey, data, c.ttl["option"])
	}
	return option, nil
}

// FetchPackage gets a service package with Redis caching.
func (c *CachedStore) FetchPackage(ctx context.Context, id string) (*ServicePackage, error) {
	cacheKey := packageKey(id)
	cached, err := c.redis.Get(ctx, cacheKey).Result()
	if err == nil {
		var pkg ServicePackage
		if err := json.Unmarshal([]byte(cached), &pkg); err == nil {
			return &pkg, nil
		}
	}

	pkg, err := c.store.FetchPackage(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(pkg); err == nil {
		c.redis.Set(ctx, cacheKey, data, c.ttl["package"])
	}
	return pkg, nil
}

// FetchOverride gets an override with Redis caching. Absent overrides are
// not negatively cached; the miss path is a single indexed lookup.
func (c *CachedStore) FetchOverride(ctx context.Context, optionID string, orgID int64) (*CustomizationOverride, error) {
	cacheKey := cacheOverrideKey(optionID, orgID)
	cached, err := c.redis.Get(ctx, cacheKey).Result()
	if err == nil {
		var override CustomizationOverride
		if err := json.Unmarshal([]byte(cached), &override); err == nil {
			return &override, nil
		}
	}

	override, err := c.store.FetchOverride(ctx, optionID, orgID)
	if err != nil || override == nil {
		return override, err
	}

	if data, err := json.Marshal(override); err == nil {
		c.redis.Set(ctx, cacheKey, data, c.ttl["override"])
	}
	return override, nil
}

// InsertOverride writes through and invalidates the override key.
func (c *CachedStore) InsertOverride(ctx context.Context, override *CustomizationOverride) error {
	if err := c.store.InsertOverride(ctx, override); err != nil {
		return err
	}
	c.redis.Del(ctx, cacheOverrideKey(override.BaseOptionID, override.OrgID))
	return nil
}

// UpdateOverride writes through and invalidates the override key.
func (c *CachedStore) UpdateOverride(ctx context.Context, override *CustomizationOverride) error {
	if err := c.store.UpdateOverride(ctx, override); err != nil {
		return err
	}
	c.redis.Del(ctx, cacheOverrideKey(override.BaseOptionID, override.OrgID))
	return nil
}

// InvalidateLineItem drops a line item from both cache tiers. Catalog
// administration calls this after editing base records.
func (c *CachedStore) InvalidateLineItem(ctx context.Context, id string) error {
	c.l1.Remove(id)
	return c.redis.Del(ctx, lineItemKey(id)).Err()
}

// InvalidateOption drops a service option from the Redis cache.
func (c *CachedStore) InvalidateOption(ctx context.Context, id string) error {
	return c.redis.Del(ctx, optionKey(id)).Err()
}

// SetTTL overrides the TTL for a cache class ("line_item", "option",
// "package", "override").
func (c *CachedStore) SetTTL(class string, ttl time.Duration) {
	c.ttl[class] = ttl
}
