// Package pricing implements the service pricing and customization engine:
// priced breakdowns of configurable service options, organization-specific
// customization overrides, and multi-tier package aggregation.
//
// # Overview
//
// A service option bundles catalog components, each with a quantity and a
// calculation strategy. Compose resolves every component into a priced
// contribution, groups contributions into category subtotals, and reports a
// grand total. Organizations customize shared options through non-destructive
// overrides (swap, remove, add components, optionally pin an explicit price)
// that layer over the base without mutating it.
//
// # Calculation strategies
//
// Multiply: included amount scaling with order size; qty * serviceQuantity.
// PerUnit:  ratio required per base unit; same arithmetic, different intent.
// Fixed:    one-time inclusion, invariant to service quantity.
// Coverage: price per unit covered; unitPrice = price / coverageAmount.
//
// # Error handling
//
// A component missing quantity data (zero coverage amount, zero per-unit
// ratio) is flagged indeterminate and priced at 0; the rest of the option
// still prices. A dangling line item reference aborts the composition with
// InvalidReferenceError. Override saves are all-or-nothing: reference
// validation happens before any write, and a lost insert race is retried as
// an update exactly once before surfacing ConflictError.
//
// # Usage Example
//
// Price an option for an organization:
//
//	breakdown, err := engine.Compose(ctx, "opt-standard-paint", 500, orgID)
//	fmt.Printf("total: $%.2f\n", breakdown.Total)
//
// Customize it:
//
//	override, err := engine.SaveOverride(ctx, "opt-standard-paint", orgID, &pricing.OverrideDelta{
//		RemovedComponentIDs: []string{"comp-labor"},
//		AddedComponents: []catalog.ServiceOptionComponent{
//			{LineItemID: "li-premium-primer", Quantity: 1, Strategy: catalog.StrategyFixed},
//		},
//	})
//
// # Related Packages
//
//   - pkg/catalog: the store the engine composes from
//   - pkg/orgs: organizations that own customization overrides
package pricing
