package pricing

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/hardhatlabs/fieldquote/pkg/catalog"
)

// ResolveOverride merges an organization's customization onto a base option's
// component list without touching the base. Steps apply in strict order:
//
//  1. start from the base components
//  2. drop every removed id
//  3. apply swaps to ids still present (removal takes precedence over swap);
//     a swap replaces only the line item reference, never quantity or strategy
//  4. append added components, each with an id disjoint from existing ones
//
// A nil override returns a copy of the base components. The result never
// contains duplicate ids and never resurrects a removed id. Given unchanged
// inputs the output is identical call to call.
func ResolveOverride(base *catalog.ServiceOption, override *catalog.CustomizationOverride) []catalog.ServiceOptionComponent {
	if override == nil {
		return append([]catalog.ServiceOptionComponent(nil), base.BaseComponents...)
	}

	effective := make([]catalog.ServiceOptionComponent, 0, len(base.BaseComponents)+len(override.AddedComponents))
	present := make(map[string]bool, len(base.BaseComponents))

	for _, c := range base.BaseComponents {
		if override.Removed(c.ID) {
			continue
		}
		if newLineItemID, swapped := override.SwappedComponents[c.ID]; swapped {
			c.LineItemID = newLineItemID
		}
		effective = append(effective, c)
		present[c.ID] = true
	}

	for i, added := range override.AddedComponents {
		added.ID = freshComponentID(added, base.ID, override.OrgID, i, present)
		present[added.ID] = true
		effective = append(effective, added)
	}

	return effective
}

// freshComponentID returns the added component's own id when it does not
// collide with the effective set, and otherwise derives a stable replacement
// from the override key and position. Stability matters: resolving the same
// base and override twice must yield the same component ids.
func freshComponentID(c catalog.ServiceOptionComponent, baseOptionID string, orgID int64, position int, present map[string]bool) string {
	if c.ID != "" && !present[c.ID] {
		return c.ID
	}
	seed := fmt.Sprintf("%s/%d/%d/%s", baseOptionID, orgID, position, c.LineItemID)
	id := uuid.NewSHA1(uuid.NameSpaceOID, []byte(seed)).String()
	for present[id] {
		seed += "'"
		id = uuid.NewSHA1(uuid.NameSpaceOID, []byte(seed)).String()
	}
	return id
}
