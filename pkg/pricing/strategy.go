package pricing

import (
	"math"

	"github.com/hardhatlabs/fieldquote/pkg/catalog"
)

// roundCents rounds a dollar amount to whole cents, half away from zero.
func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// resolveComponent turns one component plus the requested service quantity
// into a priced contribution.
//
// Multiply and PerUnit share arithmetic and differ only in display intent:
// PerUnit is "ratio required per base unit", Multiply is "included amount
// scaling with order size". Fixed is a one-time inclusion invariant to the
// service quantity. Coverage prices the line item per unit of area/volume
// covered.
//
// Missing quantity data never fails the composition: the contribution comes
// back Indeterminate with Total 0 and the caller keeps going.
func resolveComponent(c catalog.ServiceOptionComponent, item *catalog.LineItem, serviceQuantity float64) Contribution {
	contribution := Contribution{
		ComponentID:  c.ID,
		LineItemID:   item.ID,
		LineItemName: item.Name,
		CategoryTag:  item.CategoryTag,
		Strategy:     c.Strategy,
		Unit:         item.Unit,
	}

	switch c.Strategy {
	case catalog.StrategyMultiply:
		contribution.Quantity = c.Quantity * serviceQuantity
		contribution.UnitPrice = item.Price
		contribution.Total = roundCents(contribution.Quantity * item.Price)

	case catalog.StrategyPerUnit:
		if c.Quantity == 0 {
			contribution.Indeterminate = true
			return contribution
		}
		contribution.Quantity = c.Quantity * serviceQuantity
		contribution.UnitPrice = item.Price
		contribution.Total = roundCents(contribution.Quantity * item.Price)

	case catalog.StrategyFixed:
		contribution.Quantity = c.Quantity
		contribution.UnitPrice = item.Price
		contribution.Total = roundCents(c.Quantity * item.Price)

	case catalog.StrategyCoverage:
		if c.CoverageAmount <= 0 {
			contribution.Indeterminate = true
			return contribution
		}
		contribution.Quantity = serviceQuantity
		contribution.Unit = c.CoverageUnit
		contribution.UnitPrice = item.Price / c.CoverageAmount
		contribution.Total = roundCents(contribution.UnitPrice * serviceQuantity)

	default:
		// Unknown strategy on a stored component is missing data, not a
		// reason to abort pricing the remaining components.
		contribution.Indeterminate = true
	}

	return contribution
}
