package pricing

import (
	"errors"
	"fmt"

	"github.com/hardhatlabs/fieldquote/pkg/catalog"
)

// InvalidReferenceError reports a component pointing at a line item that does
// not exist in the catalog. For reads it aborts the composition; for override
// saves it rejects the whole save.
type InvalidReferenceError struct {
	LineItemID  string
	ComponentID string
}

func (e *InvalidReferenceError) Error() string {
	if e.ComponentID != "" {
		return fmt.Sprintf("invalid reference: component %s points at unknown line item %s", e.ComponentID, e.LineItemID)
	}
	return fmt.Sprintf("invalid reference: unknown line item %s", e.LineItemID)
}

// IsInvalidReference reports whether err is an InvalidReferenceError.
func IsInvalidReference(err error) bool {
	var target *InvalidReferenceError
	return errors.As(err, &target)
}

// ConflictError reports an override save that lost a persisted-state race
// twice (the initial insert and the single update retry).
type ConflictError struct {
	OptionID string
	OrgID    int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicting save for override on option %s, org %d", e.OptionID, e.OrgID)
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

// IsNotFound reports whether err stems from a missing catalog record.
func IsNotFound(err error) bool {
	return errors.Is(err, catalog.ErrNotFound)
}
