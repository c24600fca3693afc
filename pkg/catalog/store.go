package catalog

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a catalog record does not exist.
var ErrNotFound = errors.New("catalog record not found")

// ErrDuplicateOverride is returned by InsertOverride when an override already
// exists for the (base option, organization) pair. Callers implementing
// upsert semantics retry the write as an update.
var ErrDuplicateOverride = errors.New("customization override already exists")

// Store is the read interface the pricing engine consumes. Base catalog
// records are read-only through it; the only writes are override upserts.
type Store interface {
	FetchLineItems(ctx context.Context, filter LineItemFilter) ([]*LineItem, error)
	FetchLineItem(ctx context.Context, id string) (*LineItem, error)
	FetchBaseOption(ctx context.Context, id string) (*ServiceOption, error)
	FetchPackage(ctx context.Context, id string) (*ServicePackage, error)

	// FetchOverride returns (nil, nil) when no override exists for the pair.
	FetchOverride(ctx context.Context, optionID string, orgID int64) (*CustomizationOverride, error)

	// InsertOverride persists a new override, returning ErrDuplicateOverride
	// when the (base option, organization) key is already taken.
	InsertOverride(ctx context.Context, override *CustomizationOverride) error

	// UpdateOverride replaces an existing override, returning ErrNotFound
	// when no record exists for the key.
	UpdateOverride(ctx context.Context, override *CustomizationOverride) error
}

// AdminStore extends Store with catalog administration writes. The pricing
// engine never uses these; they exist for seeding and back-office tooling.
type AdminStore interface {
	Store

	CreateLineItem(ctx context.Context, item *LineItem) error
	CreateServiceOption(ctx context.Context, option *ServiceOption) error
	CreatePackage(ctx context.Context, pkg *ServicePackage) error
}
