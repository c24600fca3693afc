package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hardhatlabs/fieldquote/pkg/catalog"
)

func TestRoundCents(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"exact", 12.34, 12.34},
		{"rounds up", 64.285714, 64.29},
		{"rounds down", 64.284, 64.28},
		{"half rounds away from zero", 0.005, 0.01},
		{"zero", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, roundCents(tt.in), 1e-9)
		})
	}
}

func TestResolveComponentMultiply(t *testing.T) {
	item := &catalog.LineItem{ID: "paint", Name: "Paint", Price: 35, Unit: "gallon", CategoryTag: "materials"}
	c := catalog.ServiceOptionComponent{ID: "c1", LineItemID: "paint", Quantity: 2, Strategy: catalog.StrategyMultiply}

	got := resolveComponent(c, item, 3)

	assert.False(t, got.Indeterminate)
	assert.Equal(t, 6.0, got.Quantity)
	assert.Equal(t, 35.0, got.UnitPrice)
	assert.Equal(t, 210.0, got.Total)
	assert.Equal(t, "materials", got.CategoryTag)
	assert.Equal(t, "gallon", got.Unit)
}

func TestResolveComponentPerUnit(t *testing.T) {
	item := &catalog.LineItem{ID: "labor", Name: "Painter Labor", Price: 500, Unit: "hour"}

	t.Run("scales like multiply", func(t *testing.T) {
		c := catalog.ServiceOptionComponent{ID: "c1", LineItemID: "labor", Quantity: 0.05, Strategy: catalog.StrategyPerUnit}
		got := resolveComponent(c, item, 60)
		assert.False(t, got.Indeterminate)
		assert.Equal(t, 3.0, got.Quantity)
		assert.Equal(t, 1500.0, got.Total)
	})

	t.Run("zero ratio is indeterminate", func(t *testing.T) {
		c := catalog.ServiceOptionComponent{ID: "c1", LineItemID: "labor", Quantity: 0, Strategy: catalog.StrategyPerUnit}
		got := resolveComponent(c, item, 60)
		assert.True(t, got.Indeterminate)
		assert.Equal(t, 0.0, got.Total)
	})
}

func TestResolveComponentFixed(t *testing.T) {
	item := &catalog.LineItem{ID: "permit", Name: "Permit Fee", Price: 150}
	c := catalog.ServiceOptionComponent{ID: "c1", LineItemID: "permit", Quantity: 1, Strategy: catalog.StrategyFixed}

	// Fixed components are invariant to the service quantity.
	for _, qty := range []float64{0, 1, 10, 500} {
		got := resolveComponent(c, item, qty)
		assert.Equal(t, 150.0, got.Total, "quantity %v", qty)
		assert.Equal(t, 1.0, got.Quantity)
	}
}

func TestResolveComponentCoverage(t *testing.T) {
	item := &catalog.LineItem{ID: "primer", Name: "Primer", Price: 45, Unit: "gallon"}

	t.Run("prices per covered unit", func(t *testing.T) {
		c := catalog.ServiceOptionComponent{
			ID: "c1", LineItemID: "primer", Strategy: catalog.StrategyCoverage,
			CoverageAmount: 350, CoverageUnit: "sqft",
		}
		got := resolveComponent(c, item, 500)
		assert.False(t, got.Indeterminate)
		// Unit price is the exact ratio, only the total rounds.
		assert.InDelta(t, 45.0/350.0, got.UnitPrice, 1e-12)
		assert.Equal(t, 64.29, got.Total)
		assert.Equal(t, 500.0, got.Quantity)
		assert.Equal(t, "sqft", got.Unit)
	})

	t.Run("zero coverage is indeterminate", func(t *testing.T) {
		c := catalog.ServiceOptionComponent{ID: "c1", LineItemID: "primer", Strategy: catalog.StrategyCoverage}
		got := resolveComponent(c, item, 500)
		assert.True(t, got.Indeterminate)
		assert.Equal(t, 0.0, got.Total)
	})

	t.Run("negative coverage is indeterminate", func(t *testing.T) {
		c := catalog.ServiceOptionComponent{ID: "c1", LineItemID: "primer", Strategy: catalog.StrategyCoverage, CoverageAmount: -10}
		got := resolveComponent(c, item, 500)
		assert.True(t, got.Indeterminate)
	})
}

func TestResolveComponentUnknownStrategy(t *testing.T) {
	item := &catalog.LineItem{ID: "x", Name: "X", Price: 10}
	c := catalog.ServiceOptionComponent{ID: "c1", LineItemID: "x", Quantity: 2, Strategy: "percentage"}

	got := resolveComponent(c, item, 5)
	assert.True(t, got.Indeterminate)
	assert.Equal(t, 0.0, got.Total)
}

func TestResolveComponentLinearity(t *testing.T) {
	item := &catalog.LineItem{ID: "paint", Name: "Paint", Price: 35}
	c := catalog.ServiceOptionComponent{ID: "c1", LineItemID: "paint", Quantity: 0.25, Strategy: catalog.StrategyMultiply}

	at100 := resolveComponent(c, item, 100)
	at200 := resolveComponent(c, item, 200)
	assert.InDelta(t, at100.Total*2, at200.Total, 0.01)
}
