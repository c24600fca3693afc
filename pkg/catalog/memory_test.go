package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreLineItems(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.CreateLineItem(ctx, &LineItem{
		ID: "paint", Name: "Wall Paint", Price: 35, Unit: "gallon",
		CategoryTag: "materials", Industry: "painting",
	}))
	require.NoError(t, store.CreateLineItem(ctx, &LineItem{
		ID: "wire", Name: "Copper Wire", Price: 2, Unit: "ft",
		CategoryTag: "materials", Industry: "electrical",
	}))

	t.Run("fetch by id", func(t *testing.T) {
		item, err := store.FetchLineItem(ctx, "paint")
		require.NoError(t, err)
		assert.Equal(t, "Wall Paint", item.Name)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := store.FetchLineItem(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("duplicate id rejected", func(t *testing.T) {
		err := store.CreateLineItem(ctx, &LineItem{ID: "paint", Name: "Other"})
		assert.Error(t, err)
	})

	t.Run("filter by industry", func(t *testing.T) {
		items, err := store.FetchLineItems(ctx, LineItemFilter{Industry: "painting"})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "paint", items[0].ID)
	})

	t.Run("search is case-insensitive", func(t *testing.T) {
		items, err := store.FetchLineItems(ctx, LineItemFilter{Search: "COPPER"})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "wire", items[0].ID)
	})

	t.Run("limit and offset", func(t *testing.T) {
		items, err := store.FetchLineItems(ctx, LineItemFilter{Limit: 1})
		require.NoError(t, err)
		assert.Len(t, items, 1)

		items, err = store.FetchLineItems(ctx, LineItemFilter{Offset: 5})
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("reads return copies", func(t *testing.T) {
		item, err := store.FetchLineItem(ctx, "paint")
		require.NoError(t, err)
		item.Price = 999

		again, err := store.FetchLineItem(ctx, "paint")
		require.NoError(t, err)
		assert.Equal(t, 35.0, again.Price)
	})
}

func TestMemoryStoreOptions(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	option := &ServiceOption{
		ID: "opt", Name: "Option", Unit: "sqft",
		BaseComponents: []ServiceOptionComponent{
			{ID: "c1", LineItemID: "paint", Quantity: 1, Strategy: StrategyFixed},
		},
	}
	require.NoError(t, store.CreateServiceOption(ctx, option))

	got, err := store.FetchBaseOption(ctx, "opt")
	require.NoError(t, err)
	require.Len(t, got.BaseComponents, 1)

	// Mutating the fetched copy must not leak into the store.
	got.BaseComponents[0].Quantity = 99
	again, err := store.FetchBaseOption(ctx, "opt")
	require.NoError(t, err)
	assert.Equal(t, 1.0, again.BaseComponents[0].Quantity)

	_, err = store.FetchBaseOption(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreOverrides(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	t.Run("absent override is nil nil", func(t *testing.T) {
		override, err := store.FetchOverride(ctx, "opt", 1)
		require.NoError(t, err)
		assert.Nil(t, override)
	})

	override := &CustomizationOverride{
		BaseOptionID:        "opt",
		OrgID:               1,
		RemovedComponentIDs: []string{"c1"},
	}
	require.NoError(t, store.InsertOverride(ctx, override))

	t.Run("insert sets timestamps", func(t *testing.T) {
		assert.False(t, override.CreatedAt.IsZero())
		assert.False(t, override.UpdatedAt.IsZero())
	})

	t.Run("duplicate insert fails", func(t *testing.T) {
		err := store.InsertOverride(ctx, &CustomizationOverride{BaseOptionID: "opt", OrgID: 1})
		assert.ErrorIs(t, err, ErrDuplicateOverride)
	})

	t.Run("same option different org is distinct", func(t *testing.T) {
		err := store.InsertOverride(ctx, &CustomizationOverride{BaseOptionID: "opt", OrgID: 2})
		assert.NoError(t, err)
	})

	t.Run("update replaces patch", func(t *testing.T) {
		replacement := &CustomizationOverride{
			BaseOptionID:      "opt",
			OrgID:             1,
			SwappedComponents: map[string]string{"c1": "other"},
		}
		require.NoError(t, store.UpdateOverride(ctx, replacement))

		got, err := store.FetchOverride(ctx, "opt", 1)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Empty(t, got.RemovedComponentIDs)
		assert.Equal(t, "other", got.SwappedComponents["c1"])
		assert.Equal(t, override.CreatedAt, got.CreatedAt)
	})

	t.Run("update of absent override fails", func(t *testing.T) {
		err := store.UpdateOverride(ctx, &CustomizationOverride{BaseOptionID: "other-opt", OrgID: 1})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestMemoryStorePackages(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	pkg := &ServicePackage{
		ID: "pkg", Name: "Package",
		Items: []ServicePackageItem{
			{ServiceOptionID: "opt", Quantity: 2, IsOptional: true},
		},
	}
	require.NoError(t, store.CreatePackage(ctx, pkg))

	got, err := store.FetchPackage(ctx, "pkg")
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.True(t, got.Items[0].IsOptional)

	_, err = store.FetchPackage(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
