package crm

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// PostgresService implements the Service interface using PostgreSQL.
type PostgresService struct {
	db *sql.DB
}

// NewPostgresService creates a PostgresService and ensures the CRM schema
// exists.
func NewPostgresService(db *sql.DB) (*PostgresService, error) {
	s := &PostgresService{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize crm schema: %w", err)
	}
	return s, nil
}

func (s *PostgresService) initSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS clients (
			id BIGSERIAL PRIMARY KEY,
			org_id BIGINT NOT NULL,
			name TEXT NOT NULL,
			email TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS projects (
			id BIGSERIAL PRIMARY KEY,
			org_id BIGINT NOT NULL,
			client_id BIGINT NOT NULL REFERENCES clients(id),
			name TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'draft',
			address TEXT NOT NULL DEFAULT '',
			start_date TIMESTAMPTZ,
			end_date TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS invoices (
			id BIGSERIAL PRIMARY KEY,
			org_id BIGINT NOT NULL,
			project_id BIGINT NOT NULL REFERENCES projects(id),
			invoice_number TEXT NOT NULL UNIQUE,
			amount_cents BIGINT NOT NULL,
			currency TEXT NOT NULL DEFAULT 'usd',
			status TEXT NOT NULL DEFAULT 'draft',
			issued_at TIMESTAMPTZ,
			due_date TIMESTAMPTZ,
			paid_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// CreateClient creates a new client for an organization.
func (s *PostgresService) CreateClient(client *Client) error {
	query := `
		INSERT INTO clients (org_id, name, email, phone, address, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := s.db.QueryRow(query, client.OrgID, client.Name, client.Email,
		client.Phone, client.Address, client.Notes).
		Scan(&client.ID, &client.CreatedAt, &client.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

// GetClient retrieves a client scoped to an organization.
func (s *PostgresService) GetClient(orgID, id int64) (*Client, error) {
	query := `
		SELECT id, org_id, name, email, phone, address, notes, created_at, updated_at
		FROM clients
		WHERE id = $1 AND org_id = $2
	`
	client := &Client{}
	err := s.db.QueryRow(query, id, orgID).Scan(
		&client.ID, &client.OrgID, &client.Name, &client.Email, &client.Phone,
		&client.Address, &client.Notes, &client.CreatedAt, &client.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("client not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return client, nil
}

// ListClients lists an organization's clients.
func (s *PostgresService) ListClients(orgID int64) ([]*Client, error) {
	query := `
		SELECT id, org_id, name, email, phone, address, notes, created_at, updated_at
		FROM clients
		WHERE org_id = $1
		ORDER BY name ASC
	`
	rows, err := s.db.Query(query, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	var clients []*Client
	for rows.Next() {
		client := &Client{}
		if err := rows.Scan(&client.ID, &client.OrgID, &client.Name, &client.Email,
			&client.Phone, &client.Address, &client.Notes, &client.CreatedAt, &client.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, client)
	}
	return clients, rows.Err()
}

// UpdateClient updates a client's contact fields.
func (s *PostgresService) UpdateClient(client *Client) error {
	query := `
		UPDATE clients
		SET name = $1, email = $2, phone = $3, address = $4, notes = $5, updated_at = NOW()
		WHERE id = $6 AND org_id = $7
	`
	result, err := s.db.Exec(query, client.Name, client.Email, client.Phone,
		client.Address, client.Notes, client.ID, client.OrgID)
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("client not found")
	}
	return nil
}

// DeleteClient removes a client.
func (s *PostgresService) DeleteClient(orgID, id int64) error {
	if _, err := s.db.Exec(`DELETE FROM clients WHERE id = $1 AND org_id = $2`, id, orgID); err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	return nil
}

// CreateProject creates a new project.
func (s *PostgresService) CreateProject(project *Project) error {
	if project.Status == "" {
		project.Status = ProjectStatusDraft
	}
	query := `
		INSERT INTO projects (org_id, client_id, name, status, address, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	err := s.db.QueryRow(query, project.OrgID, project.ClientID, project.Name,
		project.Status, project.Address, project.StartDate, project.EndDate).
		Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

// GetProject retrieves a project scoped to an organization.
func (s *PostgresService) GetProject(orgID, id int64) (*Project, error) {
	query := `
		SELECT id, org_id, client_id, name, status, address, start_date, end_date, created_at, updated_at
		FROM projects
		WHERE id = $1 AND org_id = $2
	`
	project := &Project{}
	err := s.db.QueryRow(query, id, orgID).Scan(
		&project.ID, &project.OrgID, &project.ClientID, &project.Name, &project.Status,
		&project.Address, &project.StartDate, &project.EndDate, &project.CreatedAt, &project.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("project not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return project, nil
}

// ListProjects lists an organization's projects.
func (s *PostgresService) ListProjects(orgID int64) ([]*Project, error) {
	query := `
		SELECT id, org_id, client_id, name, status, address, start_date, end_date, created_at, updated_at
		FROM projects
		WHERE org_id = $1
		ORDER BY created_at DESC
	`
	rows, err := s.db.Query(query, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []*Project
	for rows.Next() {
		project := &Project{}
		if err := rows.Scan(&project.ID, &project.OrgID, &project.ClientID, &project.Name,
			&project.Status, &project.Address, &project.StartDate, &project.EndDate,
			&project.CreatedAt, &project.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}

// UpdateProjectStatus transitions a project's status.
func (s *PostgresService) UpdateProjectStatus(orgID, id int64, status ProjectStatus) error {
	query := `UPDATE projects SET status = $1, updated_at = NOW() WHERE id = $2 AND org_id = $3`
	result, err := s.db.Exec(query, status, id, orgID)
	if err != nil {
		return fmt.Errorf("failed to update project status: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("project not found")
	}
	return nil
}

// CreateInvoice creates an invoice, generating an invoice number when the
// caller did not supply one.
func (s *PostgresService) CreateInvoice(invoice *Invoice) error {
	if invoice.InvoiceNumber == "" {
		invoice.InvoiceNumber = generateInvoiceNumber()
	}
	if invoice.Currency == "" {
		invoice.Currency = "usd"
	}
	if invoice.Status == "" {
		invoice.Status = InvoiceStatusDraft
	}
	query := `
		INSERT INTO invoices (org_id, project_id, invoice_number, amount_cents, currency, status, issued_at, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	err := s.db.QueryRow(query, invoice.OrgID, invoice.ProjectID, invoice.InvoiceNumber,
		invoice.AmountCents, invoice.Currency, invoice.Status, invoice.IssuedAt, invoice.DueDate).
		Scan(&invoice.ID, &invoice.CreatedAt, &invoice.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create invoice: %w", err)
	}
	return nil
}

// GetInvoice retrieves an invoice scoped to an organization.
func (s *PostgresService) GetInvoice(orgID, id int64) (*Invoice, error) {
	query := `
		SELECT id, org_id, project_id, invoice_number, amount_cents, currency, status,
		       issued_at, due_date, paid_at, created_at, updated_at
		FROM invoices
		WHERE id = $1 AND org_id = $2
	`
	invoice := &Invoice{}
	err := s.db.QueryRow(query, id, orgID).Scan(
		&invoice.ID, &invoice.OrgID, &invoice.ProjectID, &invoice.InvoiceNumber,
		&invoice.AmountCents, &invoice.Currency, &invoice.Status,
		&invoice.IssuedAt, &invoice.DueDate, &invoice.PaidAt,
		&invoice.CreatedAt, &invoice.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("invoice not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	return invoice, nil
}

// ListInvoices lists an organization's invoices, newest first.
func (s *PostgresService) ListInvoices(orgID int64, limit int) ([]*Invoice, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, org_id, project_id, invoice_number, amount_cents, currency, status,
		       issued_at, due_date, paid_at, created_at, updated_at
		FROM invoices
		WHERE org_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := s.db.Query(query, orgID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*Invoice
	for rows.Next() {
		invoice := &Invoice{}
		if err := rows.Scan(&invoice.ID, &invoice.OrgID, &invoice.ProjectID, &invoice.InvoiceNumber,
			&invoice.AmountCents, &invoice.Currency, &invoice.Status,
			&invoice.IssuedAt, &invoice.DueDate, &invoice.PaidAt,
			&invoice.CreatedAt, &invoice.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, invoice)
	}
	return invoices, rows.Err()
}

// MarkInvoicePaid records payment of an invoice.
func (s *PostgresService) MarkInvoicePaid(orgID, id int64) error {
	query := `
		UPDATE invoices
		SET status = $1, paid_at = NOW(), updated_at = NOW()
		WHERE id = $2 AND org_id = $3 AND status != $1
	`
	result, err := s.db.Exec(query, InvoiceStatusPaid, id, orgID)
	if err != nil {
		return fmt.Errorf("failed to mark invoice paid: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("invoice not found or already paid")
	}
	return nil
}

// MarkOverdueInvoices flips sent invoices past their due date to overdue and
// returns the number affected. Run periodically by the server's cron.
func (s *PostgresService) MarkOverdueInvoices() (int64, error) {
	query := `
		UPDATE invoices
		SET status = $1, updated_at = NOW()
		WHERE status = $2 AND due_date IS NOT NULL AND due_date < NOW()
	`
	result, err := s.db.Exec(query, InvoiceStatusOverdue, InvoiceStatusSent)
	if err != nil {
		return 0, fmt.Errorf("failed to mark overdue invoices: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count overdue invoices: %w", err)
	}
	return n, nil
}

// generateInvoiceNumber produces a short unique human-readable number.
func generateInvoiceNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:10]
	return "INV-" + suffix
}
