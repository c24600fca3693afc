// Package orgs provides multi-tenant organization management for fieldquote.
//
// # Overview
//
// An organization is one construction business using the dashboard. Its
// industry selects which slice of the shared service catalog it sees, and
// its id keys every tenant-scoped record: clients, projects, invoices, and
// catalog customization overrides.
//
// # Usage Example
//
// Create an organization:
//
//	org := &orgs.Organization{
//		Name:     "Summit Painting Co",
//		Industry: orgs.IndustryPainting,
//	}
//	err := service.CreateOrganization(org)
//
// # Related Packages
//
//   - pkg/catalog: industry-scoped line items and service options
//   - pkg/crm: clients, projects and invoices owned by an organization
package orgs
