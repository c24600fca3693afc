// Package catalog provides the shared service catalog for fieldquote: line
// items, base service options, multi-tier service packages, and per-organization
// customization overrides.
//
// # Overview
//
// The catalog is read-mostly and shared across organizations. Base records
// (line items, service options, packages) are created by catalog
// administration and are immutable from the pricing engine's point of view.
// The only tenant-scoped writes are CustomizationOverride upserts, keyed by
// (base option, organization) with a uniqueness constraint.
//
// # Stores
//
// Three Store implementations are provided:
//
//   - PostgresStore: production storage with schema auto-creation
//   - MemoryStore: development servers and tests
//   - CachedStore: Redis read-through plus an in-process LRU for line items,
//     layered over either of the above
//
// # Override write protocol
//
// InsertOverride surfaces a unique-constraint violation as
// ErrDuplicateOverride instead of a generic error. The pricing engine relies
// on that to implement its insert-then-update-once upsert. FetchOverride
// returns (nil, nil) when no override exists; absence is not an error.
//
// # Seeding
//
// YAML seed files bootstrap an industry's catalog (see Seed). Seeds validate
// that every component reference resolves before any write happens.
//
// # Related Packages
//
//   - pkg/pricing: consumes Store to compose priced breakdowns
//   - pkg/orgs: organizations whose industry selects catalog subsets
package catalog
