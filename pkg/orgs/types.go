package orgs

import (
	"time"
)

// Industry scopes an organization's service catalog. Catalog line items and
// options are tagged with the industry they belong to.
type Industry string

const (
	IndustryPainting    Industry = "painting"
	IndustryRoofing     Industry = "roofing"
	IndustryLandscaping Industry = "landscaping"
	IndustryElectrical  Industry = "electrical"
	IndustryPlumbing    Industry = "plumbing"
	IndustryGeneral     Industry = "general_contracting"
)

// Valid reports whether the industry is a known value.
func (i Industry) Valid() bool {
	switch i {
	case IndustryPainting, IndustryRoofing, IndustryLandscaping,
		IndustryElectrical, IndustryPlumbing, IndustryGeneral:
		return true
	}
	return false
}

// PlanTier represents subscription plan tiers.
type PlanTier string

const (
	PlanFree       PlanTier = "free"
	PlanPro        PlanTier = "pro"
	PlanEnterprise PlanTier = "enterprise"
)

// OrgStatus represents organization status.
type OrgStatus string

const (
	OrgStatusActive    OrgStatus = "active"
	OrgStatusSuspended OrgStatus = "suspended"
	OrgStatusDeleted   OrgStatus = "deleted"
)

// Organization is one tenant of the dashboard: a construction business with
// an industry-scoped catalog, clients, projects and invoices.
type Organization struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	Slug      string         `json:"slug"`
	Industry  Industry       `json:"industry"`
	PlanTier  PlanTier       `json:"plan_tier"`
	Status    OrgStatus      `json:"status"`
	Settings  map[string]any `json:"settings,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// CreateOrgRequest represents a request to create an organization.
type CreateOrgRequest struct {
	Name     string         `json:"name"`
	Industry Industry       `json:"industry"`
	PlanTier PlanTier       `json:"plan_tier,omitempty"`
	Settings map[string]any `json:"settings,omitempty"`
}

// UpdateOrgRequest represents a request to update an organization.
type UpdateOrgRequest struct {
	Name     *string        `json:"name,omitempty"`
	Industry *Industry      `json:"industry,omitempty"`
	Settings map[string]any `json:"settings,omitempty"`
}

// Service defines the interface for organization operations.
type Service interface {
	CreateOrganization(org *Organization) error
	GetOrganization(id int64) (*Organization, error)
	GetOrganizationBySlug(slug string) (*Organization, error)
	ListOrganizations() ([]*Organization, error)
	UpdateOrganization(id int64, req *UpdateOrgRequest) error
	DeleteOrganization(id int64) error
}
