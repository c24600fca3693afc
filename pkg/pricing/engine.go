package pricing

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/hardhatlabs/fieldquote/pkg/catalog"
)

// Engine composes priced breakdowns of service options, aggregates packages,
// and saves organization customization overrides. All read paths are pure
// with respect to shared state and safe to call concurrently; the only
// shared-state write is SaveOverride, whose atomicity rests on the store's
// uniqueness constraint.
type Engine struct {
	store   catalog.Store
	logger  *logrus.Logger
	metrics *Metrics
}

// NewEngine creates a pricing engine. Logger and metrics may be nil.
func NewEngine(store catalog.Store, logger *logrus.Logger, metrics *Metrics) *Engine {
	if logger == nil {
		logger = logrus.New()
	}
	return &Engine{
		store:   store,
		logger:  logger,
		metrics: metrics,
	}
}

// Compose assembles the full priced breakdown of a service option at the
// given quantity for one organization. When the organization has a
// customization override for the option, the effective component list is the
// override resolution; otherwise the base components price as-is.
//
// A component whose quantity data is missing is flagged indeterminate and
// priced at 0 without aborting the rest. A component whose line item
// reference cannot be resolved at all fails the composition with
// InvalidReferenceError.
func (e *Engine) Compose(ctx context.Context, optionID string, serviceQuantity float64, orgID int64) (*PricedBreakdown, error) {
	start := time.Now()
	breakdown, err := e.compose(ctx, optionID, serviceQuantity, orgID)
	if e.metrics != nil {
		e.metrics.CompositionDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			e.metrics.CompositionsTotal.WithLabelValues("error").Inc()
		} else {
			e.metrics.CompositionsTotal.WithLabelValues("ok").Inc()
		}
	}
	return breakdown, err
}

func (e *Engine) compose(ctx context.Context, optionID string, serviceQuantity float64, orgID int64) (*PricedBreakdown, error) {
	option, err := e.store.FetchBaseOption(ctx, optionID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch option %s: %w", optionID, err)
	}

	override, err := e.store.FetchOverride(ctx, optionID, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch override for option %s, org %d: %w", optionID, orgID, err)
	}

	effective := ResolveOverride(option, override)

	breakdown := &PricedBreakdown{
		OptionID:          option.ID,
		OptionName:        option.Name,
		OrgID:             orgID,
		ServiceQuantity:   serviceQuantity,
		CategorySubtotals: make(map[string]float64),
		Customized:        override != nil,
	}

	for _, component := range effective {
		item, err := e.store.FetchLineItem(ctx, component.LineItemID)
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, &InvalidReferenceError{LineItemID: component.LineItemID, ComponentID: component.ID}
		}
		if err != nil {
			return nil, fmt.Errorf("failed to fetch line item %s: %w", component.LineItemID, err)
		}

		contribution := resolveComponent(component, item, serviceQuantity)
		if contribution.Indeterminate {
			if e.metrics != nil {
				e.metrics.IndeterminateLinesTotal.Inc()
			}
			e.logger.WithFields(logrus.Fields{
				"option_id":    optionID,
				"component_id": component.ID,
				"strategy":     component.Strategy,
			}).Warn("component has missing quantity data, priced at 0")
		}

		tag := contribution.CategoryTag
		if tag == "" {
			tag = UncategorizedTag
		}
		breakdown.CategorySubtotals[tag] = roundCents(breakdown.CategorySubtotals[tag] + contribution.Total)
		breakdown.Total = roundCents(breakdown.Total + contribution.Total)
		breakdown.Lines = append(breakdown.Lines, contribution)
	}

	// An explicit override price replaces the computed total. The category
	// subtotals stay item-derived for display; the mismatch with Total is
	// intentional and must not be reconciled here.
	if override != nil && override.PriceOverride != nil {
		breakdown.Total = *override.PriceOverride
		breakdown.PriceOverridden = true
	}

	return breakdown, nil
}

// SaveOverride validates and persists an organization's customization of a
// base option as an upsert keyed by (option, organization). Every swap
// target and added component must reference an existing line item, or the
// whole save is rejected with InvalidReferenceError and nothing persists.
//
// The insert losing the uniqueness race is retried as an update exactly
// once; a second failure surfaces as ConflictError. The supplied price
// override is stored verbatim.
func (e *Engine) SaveOverride(ctx context.Context, optionID string, orgID int64, delta *OverrideDelta) (*catalog.CustomizationOverride, error) {
	override, err := e.buildOverride(ctx, optionID, orgID, delta)
	if err != nil {
		if e.metrics != nil && IsInvalidReference(err) {
			e.metrics.OverrideSavesTotal.WithLabelValues("invalid_reference").Inc()
		}
		return nil, err
	}

	err = e.store.InsertOverride(ctx, override)
	if errors.Is(err, catalog.ErrDuplicateOverride) {
		// Lost the insert race or the override predates this save; replace
		// the existing record once.
		err = e.store.UpdateOverride(ctx, override)
		if err != nil {
			if e.metrics != nil {
				e.metrics.OverrideSavesTotal.WithLabelValues("conflict").Inc()
			}
			e.logger.WithFields(logrus.Fields{
				"option_id": optionID,
				"org_id":    orgID,
			}).WithError(err).Error("override save conflicted twice")
			return nil, &ConflictError{OptionID: optionID, OrgID: orgID}
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to save override: %w", err)
	}

	if e.metrics != nil {
		e.metrics.OverrideSavesTotal.WithLabelValues("saved").Inc()
	}
	return override, nil
}

// buildOverride validates the delta against the catalog and assembles the
// record to persist. Added components without ids get fresh uuids here so
// the persisted record resolves identically on every later read.
func (e *Engine) buildOverride(ctx context.Context, optionID string, orgID int64, delta *OverrideDelta) (*catalog.CustomizationOverride, error) {
	option, err := e.store.FetchBaseOption(ctx, optionID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch option %s: %w", optionID, err)
	}

	baseIDs := make(map[string]bool, len(option.BaseComponents))
	for _, c := range option.BaseComponents {
		baseIDs[c.ID] = true
	}

	// Validate swap targets in a stable order so the first error is
	// deterministic.
	swappedIDs := make([]string, 0, len(delta.SwappedComponents))
	for componentID := range delta.SwappedComponents {
		swappedIDs = append(swappedIDs, componentID)
	}
	sort.Strings(swappedIDs)
	for _, componentID := range swappedIDs {
		if !baseIDs[componentID] {
			return nil, fmt.Errorf("swap references unknown component %s on option %s", componentID, optionID)
		}
		newLineItemID := delta.SwappedComponents[componentID]
		if _, err := e.store.FetchLineItem(ctx, newLineItemID); err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				return nil, &InvalidReferenceError{LineItemID: newLineItemID, ComponentID: componentID}
			}
			return nil, fmt.Errorf("failed to validate swap target %s: %w", newLineItemID, err)
		}
	}

	for _, removedID := range delta.RemovedComponentIDs {
		if !baseIDs[removedID] {
			return nil, fmt.Errorf("removal references unknown component %s on option %s", removedID, optionID)
		}
	}

	added := make([]catalog.ServiceOptionComponent, len(delta.AddedComponents))
	for i, c := range delta.AddedComponents {
		if !c.Strategy.Valid() {
			return nil, fmt.Errorf("added component has unknown strategy %q", c.Strategy)
		}
		if _, err := e.store.FetchLineItem(ctx, c.LineItemID); err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				return nil, &InvalidReferenceError{LineItemID: c.LineItemID, ComponentID: c.ID}
			}
			return nil, fmt.Errorf("failed to validate added component %s: %w", c.LineItemID, err)
		}
		if c.ID == "" || baseIDs[c.ID] {
			c.ID = uuid.NewString()
		}
		added[i] = c
	}

	return &catalog.CustomizationOverride{
		BaseOptionID:        optionID,
		OrgID:               orgID,
		SwappedComponents:   delta.SwappedComponents,
		RemovedComponentIDs: delta.RemovedComponentIDs,
		AddedComponents:     added,
		PriceOverride:       delta.PriceOverride,
	}, nil
}
