package orgs

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
)

// PostgresService implements the Service interface using PostgreSQL.
type PostgresService struct {
	db *sql.DB
}

// NewPostgresService creates a PostgresService and ensures the organizations
// schema exists.
func NewPostgresService(db *sql.DB) (*PostgresService, error) {
	s := &PostgresService{db: db}
	query := `
		CREATE TABLE IF NOT EXISTS organizations (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			industry TEXT NOT NULL,
			plan_tier TEXT NOT NULL DEFAULT 'free',
			status TEXT NOT NULL DEFAULT 'active',
			settings JSONB NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	if _, err := db.Exec(query); err != nil {
		return nil, fmt.Errorf("failed to initialize organizations schema: %w", err)
	}
	return s, nil
}

// CreateOrganization creates a new organization.
func (s *PostgresService) CreateOrganization(org *Organization) error {
	if !org.Industry.Valid() {
		return fmt.Errorf("invalid industry: %s", org.Industry)
	}
	if org.Slug == "" {
		org.Slug = generateSlug(org.Name)
	}
	if org.PlanTier == "" {
		org.PlanTier = PlanFree
	}
	if org.Status == "" {
		org.Status = OrgStatusActive
	}

	settingsJSON, err := json.Marshal(org.Settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	query := `
		INSERT INTO organizations (name, slug, industry, plan_tier, status, settings)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err = s.db.QueryRow(query, org.Name, org.Slug, org.Industry, org.PlanTier, org.Status, settingsJSON).
		Scan(&org.ID, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create organization: %w", err)
	}
	return nil
}

// GetOrganization retrieves an organization by ID.
func (s *PostgresService) GetOrganization(id int64) (*Organization, error) {
	query := `
		SELECT id, name, slug, industry, plan_tier, status, settings, created_at, updated_at
		FROM organizations
		WHERE id = $1 AND status != 'deleted'
	`
	return s.scanOrganization(s.db.QueryRow(query, id))
}

// GetOrganizationBySlug retrieves an organization by slug.
func (s *PostgresService) GetOrganizationBySlug(slug string) (*Organization, error) {
	query := `
		SELECT id, name, slug, industry, plan_tier, status, settings, created_at, updated_at
		FROM organizations
		WHERE slug = $1 AND status != 'deleted'
	`
	return s.scanOrganization(s.db.QueryRow(query, slug))
}

func (s *PostgresService) scanOrganization(row *sql.Row) (*Organization, error) {
	org := &Organization{}
	var settingsJSON []byte
	err := row.Scan(&org.ID, &org.Name, &org.Slug, &org.Industry, &org.PlanTier,
		&org.Status, &settingsJSON, &org.CreatedAt, &org.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("organization not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}
	if err := json.Unmarshal(settingsJSON, &org.Settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	return org, nil
}

// ListOrganizations lists active organizations.
func (s *PostgresService) ListOrganizations() ([]*Organization, error) {
	query := `
		SELECT id, name, slug, industry, plan_tier, status, settings, created_at, updated_at
		FROM organizations
		WHERE status != 'deleted'
		ORDER BY created_at DESC
	`
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	defer rows.Close()

	var orgs []*Organization
	for rows.Next() {
		org := &Organization{}
		var settingsJSON []byte
		if err := rows.Scan(&org.ID, &org.Name, &org.Slug, &org.Industry, &org.PlanTier,
			&org.Status, &settingsJSON, &org.CreatedAt, &org.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan organization: %w", err)
		}
		if err := json.Unmarshal(settingsJSON, &org.Settings); err != nil {
			return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
		}
		orgs = append(orgs, org)
	}
	return orgs, rows.Err()
}

// UpdateOrganization updates an organization.
func (s *PostgresService) UpdateOrganization(id int64, req *UpdateOrgRequest) error {
	if req.Name != nil {
		if _, err := s.db.Exec(`UPDATE organizations SET name = $1, updated_at = NOW() WHERE id = $2`, *req.Name, id); err != nil {
			return fmt.Errorf("failed to update organization name: %w", err)
		}
	}
	if req.Industry != nil {
		if !req.Industry.Valid() {
			return fmt.Errorf("invalid industry: %s", *req.Industry)
		}
		if _, err := s.db.Exec(`UPDATE organizations SET industry = $1, updated_at = NOW() WHERE id = $2`, *req.Industry, id); err != nil {
			return fmt.Errorf("failed to update organization industry: %w", err)
		}
	}
	if req.Settings != nil {
		settingsJSON, err := json.Marshal(req.Settings)
		if err != nil {
			return fmt.Errorf("failed to marshal settings: %w", err)
		}
		if _, err := s.db.Exec(`UPDATE organizations SET settings = $1, updated_at = NOW() WHERE id = $2`, settingsJSON, id); err != nil {
			return fmt.Errorf("failed to update organization settings: %w", err)
		}
	}
	return nil
}

// DeleteOrganization soft-deletes an organization.
func (s *PostgresService) DeleteOrganization(id int64) error {
	query := `UPDATE organizations SET status = 'deleted', updated_at = NOW() WHERE id = $1`
	if _, err := s.db.Exec(query, id); err != nil {
		return fmt.Errorf("failed to delete organization: %w", err)
	}
	return nil
}

// generateSlug derives a URL-safe slug from an organization name.
func generateSlug(name string) string {
	slug := strings.ToLower(name)
	slug = strings.ReplaceAll(slug, " ", "-")

	var result strings.Builder
	for _, r := range slug {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			result.WriteRune(r)
		}
	}
	return strings.Trim(result.String(), "-")
}
