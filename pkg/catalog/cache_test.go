package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingStore wraps MemoryStore and counts pass-through reads so tests can
// assert cache hits.
type countingStore struct {
	*MemoryStore
	lineItemFetches int
	optionFetches   int
	overrideFetches int
}

func (s *countingStore) FetchLineItem(ctx context.Context, id string) (*LineItem, error) {
	s.lineItemFetches++
	return s.MemoryStore.FetchLineItem(ctx, id)
}

func (s *countingStore) FetchBaseOption(ctx context.Context, id string) (*ServiceOption, error) {
	s.optionFetches++
	return s.MemoryStore.FetchBaseOption(ctx, id)
}

func (s *countingStore) FetchOverride(ctx context.Context, optionID string, orgID int64) (*CustomizationOverride, error) {
	s.overrideFetches++
	return s.MemoryStore.FetchOverride(ctx, optionID, orgID)
}

func newCachedFixture(t *testing.T) (*CachedStore, *countingStore, *miniredis.Miniredis) {
	t.Helper()
	ctx := context.Background()

	backing := &countingStore{MemoryStore: NewMemoryStore()}
	require.NoError(t, backing.CreateLineItem(ctx, &LineItem{ID: "paint", Name: "Paint", Price: 35}))
	require.NoError(t, backing.CreateServiceOption(ctx, &ServiceOption{
		ID: "opt", Name: "Option", Unit: "sqft",
		BaseComponents: []ServiceOptionComponent{
			{ID: "c1", LineItemID: "paint", Quantity: 1, Strategy: StrategyFixed},
		},
	}))

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cached, err := NewCachedStore(backing, client, 16)
	require.NoError(t, err)
	return cached, backing, mr
}

func TestCachedStoreLineItemReadThrough(t *testing.T) {
	ctx := context.Background()
	cached, backing, mr := newCachedFixture(t)

	item, err := cached.FetchLineItem(ctx, "paint")
	require.NoError(t, err)
	assert.Equal(t, "Paint", item.Name)
	assert.Equal(t, 1, backing.lineItemFetches)
	assert.True(t, mr.Exists("catalog:line_item:paint"))

	// Second read is served from cache.
	_, err = cached.FetchLineItem(ctx, "paint")
	require.NoError(t, err)
	assert.Equal(t, 1, backing.lineItemFetches)
}

func TestCachedStoreLineItemL1SurvivesRedisFlush(t *testing.T) {
	ctx := context.Background()
	cached, backing, mr := newCachedFixture(t)

	_, err := cached.FetchLineItem(ctx, "paint")
	require.NoError(t, err)
	mr.FlushAll()

	_, err = cached.FetchLineItem(ctx, "paint")
	require.NoError(t, err)
	assert.Equal(t, 1, backing.lineItemFetches)
}

func TestCachedStoreOptionReadThrough(t *testing.T) {
	ctx := context.Background()
	cached, backing, mr := newCachedFixture(t)

	option, err := cached.FetchBaseOption(ctx, "opt")
	require.NoError(t, err)
	assert.Len(t, option.BaseComponents, 1)
	assert.True(t, mr.Exists("catalog:option:opt"))

	_, err = cached.FetchBaseOption(ctx, "opt")
	require.NoError(t, err)
	assert.Equal(t, 1, backing.optionFetches)
}

func TestCachedStoreMissIsNotCached(t *testing.T) {
	ctx := context.Background()
	cached, backing, _ := newCachedFixture(t)

	_, err := cached.FetchLineItem(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = cached.FetchLineItem(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 2, backing.lineItemFetches)
}

func TestCachedStoreOverrideWriteInvalidates(t *testing.T) {
	ctx := context.Background()
	cached, backing, mr := newCachedFixture(t)

	require.NoError(t, cached.InsertOverride(ctx, &CustomizationOverride{
		BaseOptionID:        "opt",
		OrgID:               1,
		RemovedComponentIDs: []string{"c1"},
	}))

	// Prime the cache.
	override, err := cached.FetchOverride(ctx, "opt", 1)
	require.NoError(t, err)
	require.NotNil(t, override)
	assert.True(t, mr.Exists("catalog:override:opt:1"))
	assert.Equal(t, 1, backing.overrideFetches)

	// Update drops the cached entry so the next read sees the new patch.
	require.NoError(t, cached.UpdateOverride(ctx, &CustomizationOverride{
		BaseOptionID:      "opt",
		OrgID:             1,
		SwappedComponents: map[string]string{"c1": "other"},
	}))
	assert.False(t, mr.Exists("catalog:override:opt:1"))

	fresh, err := cached.FetchOverride(ctx, "opt", 1)
	require.NoError(t, err)
	require.NotNil(t, fresh)
	assert.Equal(t, "other", fresh.SwappedComponents["c1"])
	assert.Equal(t, 2, backing.overrideFetches)
}

func TestCachedStoreAbsentOverrideNotNegativelyCached(t *testing.T) {
	ctx := context.Background()
	cached, backing, mr := newCachedFixture(t)

	override, err := cached.FetchOverride(ctx, "opt", 42)
	require.NoError(t, err)
	assert.Nil(t, override)
	assert.False(t, mr.Exists("catalog:override:opt:42"))
	assert.Equal(t, 1, backing.overrideFetches)
}

func TestCachedStoreInvalidateLineItem(t *testing.T) {
	ctx := context.Background()
	cached, backing, mr := newCachedFixture(t)

	_, err := cached.FetchLineItem(ctx, "paint")
	require.NoError(t, err)

	require.NoError(t, cached.InvalidateLineItem(ctx, "paint"))
	assert.False(t, mr.Exists("catalog:line_item:paint"))

	_, err = cached.FetchLineItem(ctx, "paint")
	require.NoError(t, err)
	assert.Equal(t, 2, backing.lineItemFetches)
}

func TestCachedStoreTTL(t *testing.T) {
	ctx := context.Background()
	cached, _, mr := newCachedFixture(t)
	cached.SetTTL("line_item", 30*time.Second)

	_, err := cached.FetchLineItem(ctx, "paint")
	require.NoError(t, err)

	ttl := mr.TTL("catalog:line_item:paint")
	assert.Equal(t, 30*time.Second, ttl)
}
