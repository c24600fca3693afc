package pricing

import (
	"context"
	"fmt"
)

// Aggregate sums a package's service option contributions into required,
// optional (upsell) and upgrade value. Each item is priced at an internal
// service quantity of 1 and scaled only by the package item's own quantity.
//
// Optional items never count toward the required total. An item flagged both
// optional and upgrade contributes to both the optional and upgrade values;
// that is a reporting split, not a double charge.
func (e *Engine) Aggregate(ctx context.Context, packageID string, orgID int64) (*PackageTotals, error) {
	totals, err := e.aggregate(ctx, packageID, orgID)
	if e.metrics != nil {
		if err != nil {
			e.metrics.AggregationsTotal.WithLabelValues("error").Inc()
		} else {
			e.metrics.AggregationsTotal.WithLabelValues("ok").Inc()
		}
	}
	return totals, err
}

func (e *Engine) aggregate(ctx context.Context, packageID string, orgID int64) (*PackageTotals, error) {
	pkg, err := e.store.FetchPackage(ctx, packageID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch package %s: %w", packageID, err)
	}

	totals := &PackageTotals{
		PackageID:   pkg.ID,
		PackageName: pkg.Name,
		OrgID:       orgID,
	}

	for _, item := range pkg.Items {
		breakdown, err := e.Compose(ctx, item.ServiceOptionID, 1, orgID)
		if err != nil {
			return nil, fmt.Errorf("failed to price package item %s: %w", item.ServiceOptionID, err)
		}
		itemValue := roundCents(breakdown.Total * item.Quantity)

		if item.IsOptional {
			totals.OptionalValue = roundCents(totals.OptionalValue + itemValue)
			totals.OptionalItemCount++
		} else {
			totals.RequiredTotal = roundCents(totals.RequiredTotal + itemValue)
			totals.RequiredItemCount++
		}
		if item.IsUpgrade {
			totals.UpgradeValue = roundCents(totals.UpgradeValue + itemValue)
			totals.UpgradeItemCount++
		}
	}

	return totals, nil
}
