package crm

import (
	"time"
)

// ProjectStatus represents the lifecycle of a project.
type ProjectStatus string

const (
	ProjectStatusDraft     ProjectStatus = "draft"
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusArchived  ProjectStatus = "archived"
)

// InvoiceStatus represents the lifecycle of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusDraft   InvoiceStatus = "draft"
	InvoiceStatusSent    InvoiceStatus = "sent"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
	InvoiceStatusVoid    InvoiceStatus = "void"
)

// Client is a customer of an organization.
type Client struct {
	ID        int64     `json:"id"`
	OrgID     int64     `json:"org_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Project is a job an organization performs for a client.
type Project struct {
	ID        int64         `json:"id"`
	OrgID     int64         `json:"org_id"`
	ClientID  int64         `json:"client_id"`
	Name      string        `json:"name"`
	Status    ProjectStatus `json:"status"`
	Address   string        `json:"address,omitempty"`
	StartDate *time.Time    `json:"start_date,omitempty"`
	EndDate   *time.Time    `json:"end_date,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Invoice bills a client for a project. Amounts are integer cents.
type Invoice struct {
	ID            int64         `json:"id"`
	OrgID         int64         `json:"org_id"`
	ProjectID     int64         `json:"project_id"`
	InvoiceNumber string        `json:"invoice_number"`
	AmountCents   int64         `json:"amount_cents"`
	Currency      string        `json:"currency"`
	Status        InvoiceStatus `json:"status"`
	IssuedAt      *time.Time    `json:"issued_at,omitempty"`
	DueDate       *time.Time    `json:"due_date,omitempty"`
	PaidAt        *time.Time    `json:"paid_at,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// Service defines the CRM operations: thin CRUD over clients, projects and
// invoices, plus the overdue invoice sweep.
type Service interface {
	CreateClient(client *Client) error
	GetClient(orgID, id int64) (*Client, error)
	ListClients(orgID int64) ([]*Client, error)
	UpdateClient(client *Client) error
	DeleteClient(orgID, id int64) error

	CreateProject(project *Project) error
	GetProject(orgID, id int64) (*Project, error)
	ListProjects(orgID int64) ([]*Project, error)
	UpdateProjectStatus(orgID, id int64, status ProjectStatus) error

	CreateInvoice(invoice *Invoice) error
	GetInvoice(orgID, id int64) (*Invoice, error)
	ListInvoices(orgID int64, limit int) ([]*Invoice, error)
	MarkInvoicePaid(orgID, id int64) error
	MarkOverdueInvoices() (int64, error)
}
