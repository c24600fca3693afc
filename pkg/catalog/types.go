package catalog

import (
	"time"
)

// CalculationStrategy determines how a component's quantity and price scale
// with the requested service quantity.
type CalculationStrategy string

const (
	// StrategyMultiply scales the component quantity with the order size.
	StrategyMultiply CalculationStrategy = "multiply"
	// StrategyPerUnit expresses a ratio required per base unit of the service.
	// Same arithmetic as multiply, different display intent.
	StrategyPerUnit CalculationStrategy = "per_unit"
	// StrategyFixed is a one-time inclusion, never scaled by service quantity.
	StrategyFixed CalculationStrategy = "fixed"
	// StrategyCoverage prices the line item per unit of area/volume covered.
	StrategyCoverage CalculationStrategy = "coverage"
)

// Valid reports whether the strategy is one of the known values.
func (s CalculationStrategy) Valid() bool {
	switch s {
	case StrategyMultiply, StrategyPerUnit, StrategyFixed, StrategyCoverage:
		return true
	}
	return false
}

// LineItem is an atomic priced catalog entry (material, labor-hour, equipment
// or sub-service). Shared across organizations and never mutated by the
// pricing engine.
type LineItem struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Unit        string    `json:"unit"`
	CategoryTag string    `json:"category_tag,omitempty"`
	Industry    string    `json:"industry,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ServiceOptionComponent is one priced ingredient inside a service option.
type ServiceOptionComponent struct {
	ID             string              `json:"id"`
	LineItemID     string              `json:"line_item_id"`
	Quantity       float64             `json:"quantity"`
	Strategy       CalculationStrategy `json:"strategy"`
	CoverageAmount float64             `json:"coverage_amount,omitempty"`
	CoverageUnit   string              `json:"coverage_unit,omitempty"`
}

// ServiceOption is a shared base bundle of catalog components.
type ServiceOption struct {
	ID             string                   `json:"id"`
	Name           string                   `json:"name"`
	Unit           string                   `json:"unit"`
	Industry       string                   `json:"industry,omitempty"`
	BaseComponents []ServiceOptionComponent `json:"base_components"`
	CreatedAt      time.Time                `json:"created_at"`
	UpdatedAt      time.Time                `json:"updated_at"`
}

// CustomizationOverride is an organization's non-destructive patch over a base
// service option. At most one exists per (base option, organization) pair;
// re-saving replaces the previous record.
type CustomizationOverride struct {
	BaseOptionID        string                   `json:"base_option_id"`
	OrgID               int64                    `json:"org_id"`
	SwappedComponents   map[string]string        `json:"swapped_components,omitempty"`
	RemovedComponentIDs []string                 `json:"removed_component_ids,omitempty"`
	AddedComponents     []ServiceOptionComponent `json:"added_components,omitempty"`
	PriceOverride       *float64                 `json:"price_override,omitempty"`
	CreatedAt           time.Time                `json:"created_at"`
	UpdatedAt           time.Time                `json:"updated_at"`
}

// Removed reports whether the component id is in the removed set.
func (o *CustomizationOverride) Removed(componentID string) bool {
	for _, id := range o.RemovedComponentIDs {
		if id == componentID {
			return true
		}
	}
	return false
}

// ServicePackageItem references one service option inside a package.
type ServicePackageItem struct {
	ServiceOptionID string  `json:"service_option_id"`
	Quantity        float64 `json:"quantity"`
	IsOptional      bool    `json:"is_optional"`
	IsUpgrade       bool    `json:"is_upgrade"`
}

// ServicePackage bundles service options into one purchasable unit with
// required, optional and upgrade tiers.
type ServicePackage struct {
	ID        string               `json:"id"`
	Name      string               `json:"name"`
	Industry  string               `json:"industry,omitempty"`
	Items     []ServicePackageItem `json:"items"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// LineItemFilter narrows FetchLineItems results.
type LineItemFilter struct {
	Industry    string `json:"industry,omitempty"`
	CategoryTag string `json:"category_tag,omitempty"`
	Search      string `json:"search,omitempty"`
	Limit       int    `json:"limit,omitempty"`
	Offset      int    `json:"offset,omitempty"`
}
