package pricing

import (
	"github.com/hardhatlabs/fieldquote/pkg/catalog"
)

// UncategorizedTag is the subtotal bucket for line items without a
// recognized category tag. Uncategorized contributions are always included,
// never dropped.
const UncategorizedTag = "uncategorized"

// Contribution is one priced line of a breakdown.
type Contribution struct {
	ComponentID  string                      `json:"component_id"`
	LineItemID   string                      `json:"line_item_id"`
	LineItemName string                      `json:"line_item_name"`
	CategoryTag  string                      `json:"category_tag"`
	Strategy     catalog.CalculationStrategy `json:"strategy"`
	Quantity     float64                     `json:"quantity"`
	Unit         string                      `json:"unit,omitempty"`
	UnitPrice    float64                     `json:"unit_price"`
	Total        float64                     `json:"total"`

	// Indeterminate marks a line whose quantity data is missing (zero
	// coverage amount, or a per-unit ratio of zero). The line is priced at 0
	// and flagged so the UI can show "data missing" instead of a silent $0.
	Indeterminate bool `json:"indeterminate,omitempty"`
}

// PricedBreakdown is the full itemized composition of a service option at a
// given quantity for one organization.
type PricedBreakdown struct {
	OptionID        string  `json:"option_id"`
	OptionName      string  `json:"option_name"`
	OrgID           int64   `json:"org_id"`
	ServiceQuantity float64 `json:"service_quantity"`

	Lines             []Contribution     `json:"lines"`
	CategorySubtotals map[string]float64 `json:"category_subtotals"`
	Total             float64            `json:"total"`

	// Customized is set when an organization override shaped the component
	// list. PriceOverridden is set when the total was replaced by the
	// override's explicit price; category subtotals stay item-derived in that
	// case and may not sum to Total.
	Customized      bool `json:"customized,omitempty"`
	PriceOverridden bool `json:"price_overridden,omitempty"`
}

// PackageTotals is the aggregated price of a service package split into
// required, optional (upsell) and upgrade value.
type PackageTotals struct {
	PackageID   string `json:"package_id"`
	PackageName string `json:"package_name"`
	OrgID       int64  `json:"org_id"`

	RequiredTotal float64 `json:"required_total"`
	OptionalValue float64 `json:"optional_value"`
	UpgradeValue  float64 `json:"upgrade_value"`

	RequiredItemCount int `json:"required_item_count"`
	OptionalItemCount int `json:"optional_item_count"`
	UpgradeItemCount  int `json:"upgrade_item_count"`
}

// OverrideDelta is the customization payload submitted by an organization's
// workflow. The price override is computed-and-accepted or hand-entered by
// the caller; the engine stores whichever value it receives.
type OverrideDelta struct {
	SwappedComponents   map[string]string                `json:"swapped_components,omitempty"`
	RemovedComponentIDs []string                         `json:"removed_component_ids,omitempty"`
	AddedComponents     []catalog.ServiceOptionComponent `json:"added_components,omitempty"`
	PriceOverride       *float64                         `json:"price_override,omitempty"`
}
