package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validSeed = `
line_items:
  - id: paint
    name: Wall Paint
    price: 35
    unit: gallon
    category_tag: materials
    industry: painting
  - id: labor
    name: Painter Labor
    price: 60
    unit: hour
    category_tag: labor
    industry: painting

service_options:
  - id: opt-interior
    name: Interior Painting
    unit: sqft
    industry: painting
    components:
      - id: c-paint
        line_item_id: paint
        strategy: coverage
        coverage_amount: 350
        coverage_unit: sqft
      - id: c-labor
        line_item_id: labor
        quantity: 0.05
        strategy: per_unit

service_packages:
  - id: pkg-basic
    name: Basic Refresh
    industry: painting
    items:
      - service_option_id: opt-interior
        quantity: 1
      - service_option_id: opt-interior
        quantity: 1
        optional: true
        upgrade: true
`

func TestParseSeed(t *testing.T) {
	seed, err := ParseSeed([]byte(validSeed))
	require.NoError(t, err)

	assert.Len(t, seed.LineItems, 2)
	assert.Len(t, seed.ServiceOptions, 1)
	assert.Len(t, seed.Packages, 1)
	assert.Equal(t, 350.0, seed.ServiceOptions[0].Components[0].CoverageAmount)
	assert.True(t, seed.Packages[0].Items[1].Optional)
	assert.True(t, seed.Packages[0].Items[1].Upgrade)
}

func TestParseSeedInvalidYAML(t *testing.T) {
	_, err := ParseSeed([]byte("line_items: [unterminated"))
	assert.Error(t, err)
}

func TestSeedValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Seed)
		wantErr string
	}{
		{
			name:    "valid seed",
			mutate:  func(s *Seed) {},
			wantErr: "",
		},
		{
			name: "duplicate line item id",
			mutate: func(s *Seed) {
				s.LineItems = append(s.LineItems, SeedLineItem{ID: "paint", Name: "Again"})
			},
			wantErr: "duplicate seed line item id",
		},
		{
			name: "line item without id",
			mutate: func(s *Seed) {
				s.LineItems = append(s.LineItems, SeedLineItem{Name: "Anonymous"})
			},
			wantErr: "has no id",
		},
		{
			name: "unknown strategy",
			mutate: func(s *Seed) {
				s.ServiceOptions[0].Components[0].Strategy = "percentage"
			},
			wantErr: "unknown strategy",
		},
		{
			name: "component references unknown line item",
			mutate: func(s *Seed) {
				s.ServiceOptions[0].Components[0].LineItemID = "missing"
			},
			wantErr: "unknown line item",
		},
		{
			name: "duplicate component id",
			mutate: func(s *Seed) {
				s.ServiceOptions[0].Components[1].ID = s.ServiceOptions[0].Components[0].ID
			},
			wantErr: "duplicate component id",
		},
		{
			name: "package references unknown option",
			mutate: func(s *Seed) {
				s.Packages[0].Items[0].ServiceOptionID = "missing"
			},
			wantErr: "unknown service option",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seed, err := ParseSeed([]byte(validSeed))
			require.NoError(t, err)

			tt.mutate(seed)
			err = seed.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestSeedApply(t *testing.T) {
	ctx := context.Background()
	seed, err := ParseSeed([]byte(validSeed))
	require.NoError(t, err)

	store := NewMemoryStore()
	require.NoError(t, seed.Apply(ctx, store))

	item, err := store.FetchLineItem(ctx, "paint")
	require.NoError(t, err)
	assert.Equal(t, 35.0, item.Price)

	option, err := store.FetchBaseOption(ctx, "opt-interior")
	require.NoError(t, err)
	require.Len(t, option.BaseComponents, 2)
	assert.Equal(t, StrategyCoverage, option.BaseComponents[0].Strategy)

	pkg, err := store.FetchPackage(ctx, "pkg-basic")
	require.NoError(t, err)
	require.Len(t, pkg.Items, 2)
	assert.True(t, pkg.Items[1].IsOptional)
	assert.True(t, pkg.Items[1].IsUpgrade)
}

func TestSeedApplyIsNotIdempotent(t *testing.T) {
	ctx := context.Background()
	seed, err := ParseSeed([]byte(validSeed))
	require.NoError(t, err)

	store := NewMemoryStore()
	require.NoError(t, seed.Apply(ctx, store))
	assert.Error(t, seed.Apply(ctx, store))
}
