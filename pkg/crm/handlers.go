package crm

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hardhatlabs/fieldquote/pkg/httputil"
)

// Handlers provides HTTP handlers for clients, projects and invoices.
type Handlers struct {
	service Service
}

// NewHandlers creates CRM handlers.
func NewHandlers(service Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes registers all CRM routes. Every route is scoped under an
// organization.
func (h *Handlers) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/v1/orgs/{org_id}/clients", h.ListClients).Methods("GET")
	r.HandleFunc("/api/v1/orgs/{org_id}/clients", h.CreateClient).Methods("POST")
	r.HandleFunc("/api/v1/orgs/{org_id}/clients/{client_id}", h.GetClient).Methods("GET")
	r.HandleFunc("/api/v1/orgs/{org_id}/clients/{client_id}", h.UpdateClient).Methods("PUT")
	r.HandleFunc("/api/v1/orgs/{org_id}/clients/{client_id}", h.DeleteClient).Methods("DELETE")

	r.HandleFunc("/api/v1/orgs/{org_id}/projects", h.ListProjects).Methods("GET")
	r.HandleFunc("/api/v1/orgs/{org_id}/projects", h.CreateProject).Methods("POST")
	r.HandleFunc("/api/v1/orgs/{org_id}/projects/{project_id}", h.GetProject).Methods("GET")
	r.HandleFunc("/api/v1/orgs/{org_id}/projects/{project_id}/status", h.UpdateProjectStatus).Methods("PUT")

	r.HandleFunc("/api/v1/orgs/{org_id}/invoices", h.ListInvoices).Methods("GET")
	r.HandleFunc("/api/v1/orgs/{org_id}/invoices", h.CreateInvoice).Methods("POST")
	r.HandleFunc("/api/v1/orgs/{org_id}/invoices/{invoice_id}", h.GetInvoice).Methods("GET")
	r.HandleFunc("/api/v1/orgs/{org_id}/invoices/{invoice_id}/pay", h.MarkInvoicePaid).Methods("POST")
}

// ListClients handles GET /api/v1/orgs/{org_id}/clients
func (h *Handlers) ListClients(w http.ResponseWriter, r *http.Request) {
	orgID, ok := httputil.ParsePathInt64OrError(w, r, "org_id")
	if !ok {
		return
	}
	clients, err := h.service.ListClients(orgID)
	if err != nil {
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteSuccess(w, map[string]interface{}{"clients": clients})
}

// CreateClient handles POST /api/v1/orgs/{org_id}/clients
func (h *Handlers) CreateClient(w http.ResponseWriter, r *http.Request) {
	orgID, ok := httputil.ParsePathInt64OrError(w, r, "org_id")
	if !ok {
		return
	}
	var client Client
	if !httputil.ParseJSONOrError(w, r, &client) {
		return
	}
	if client.Name == "" {
		httputil.WriteValidationError(w, "name is required")
		return
	}
	client.OrgID = orgID
	if err := h.service.CreateClient(&client); err != nil {
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteCreated(w, &client)
}

// GetClient handles GET /api/v1/orgs/{org_id}/clients/{client_id}
func (h *Handlers) GetClient(w http.ResponseWriter, r *http.Request) {
	orgID, ok := httputil.ParsePathInt64OrError(w, r, "org_id")
	if !ok {
		return
	}
	clientID, ok := httputil.ParsePathInt64OrError(w, r, "client_id")
	if !ok {
		return
	}
	client, err := h.service.GetClient(orgID, clientID)
	if err != nil {
		httputil.WriteNotFoundError(w, err.Error())
		return
	}
	httputil.WriteSuccess(w, client)
}

// UpdateClient handles PUT /api/v1/orgs/{org_id}/clients/{client_id}
func (h *Handlers) UpdateClient(w http.ResponseWriter, r *http.Request) {
	orgID, ok := httputil.ParsePathInt64OrError(w, r, "org_id")
	if !ok {
		return
	}
	clientID, ok := httputil.ParsePathInt64OrError(w, r, "client_id")
	if !ok {
		return
	}
	var client Client
	if !httputil.ParseJSONOrError(w, r, &client) {
		return
	}
	client.ID = clientID
	client.OrgID = orgID
	if err := h.service.UpdateClient(&client); err != nil {
		httputil.WriteNotFoundError(w, err.Error())
		return
	}
	httputil.WriteSuccess(w, &client)
}

// DeleteClient handles DELETE /api/v1/orgs/{org_id}/clients/{client_id}
func (h *Handlers) DeleteClient(w http.ResponseWriter, r *http.Request) {
	orgID, ok := httputil.ParsePathInt64OrError(w, r, "org_id")
	if !ok {
		return
	}
	clientID, ok := httputil.ParsePathInt64OrError(w, r, "client_id")
	if !ok {
		return
	}
	if err := h.service.DeleteClient(orgID, clientID); err != nil {
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteNoContent(w)
}

// ListProjects handles GET /api/v1/orgs/{org_id}/projects
func (h *Handlers) ListProjects(w http.ResponseWriter, r *http.Request) {
	orgID, ok := httputil.ParsePathInt64OrError(w, r, "org_id")
	if !ok {
		return
	}
	projects, err := h.service.ListProjects(orgID)
	if err != nil {
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteSuccess(w, map[string]interface{}{"projects": projects})
}

// CreateProject handles POST /api/v1/orgs/{org_id}/projects
func (h *Handlers) CreateProject(w http.ResponseWriter, r *http.Request) {
	orgID, ok := httputil.ParsePathInt64OrError(w, r, "org_id")
	if !ok {
		return
	}
	var project Project
	if !httputil.ParseJSONOrError(w, r, &project) {
		return
	}
	if project.Name == "" {
		httputil.WriteValidationError(w, "name is required")
		return
	}
	if project.ClientID == 0 {
		httputil.WriteValidationError(w, "client_id is required")
		return
	}
	project.OrgID = orgID
	if err := h.service.CreateProject(&project); err != nil {
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteCreated(w, &project)
}

// GetProject handles GET /api/v1/orgs/{org_id}/projects/{project_id}
func (h *Handlers) GetProject(w http.ResponseWriter, r *http.Request) {
	orgID, ok := httputil.ParsePathInt64OrError(w, r, "org_id")
	if !ok {
		return
	}
	projectID, ok := httputil.ParsePathInt64OrError(w, r, "project_id")
	if !ok {
		return
	}
	project, err := h.service.GetProject(orgID, projectID)
	if err != nil {
		httputil.WriteNotFoundError(w, err.Error())
		return
	}
	httputil.WriteSuccess(w, project)
}

// UpdateProjectStatus handles PUT /api/v1/orgs/{org_id}/projects/{project_id}/status
func (h *Handlers) UpdateProjectStatus(w http.ResponseWriter, r *http.Request) {
	orgID, ok := httputil.ParsePathInt64OrError(w, r, "org_id")
	if !ok {
		return
	}
	projectID, ok := httputil.ParsePathInt64OrError(w, r, "project_id")
	if !ok {
		return
	}
	var req struct {
		Status ProjectStatus `json:"status"`
	}
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	switch req.Status {
	case ProjectStatusDraft, ProjectStatusActive, ProjectStatusCompleted, ProjectStatusArchived:
	default:
		httputil.WriteValidationError(w, "unknown project status")
		return
	}
	if err := h.service.UpdateProjectStatus(orgID, projectID, req.Status); err != nil {
		httputil.WriteNotFoundError(w, err.Error())
		return
	}
	httputil.WriteSuccess(w, map[string]interface{}{"status": req.Status})
}

// ListInvoices handles GET /api/v1/orgs/{org_id}/invoices
func (h *Handlers) ListInvoices(w http.ResponseWriter, r *http.Request) {
	orgID, ok := httputil.ParsePathInt64OrError(w, r, "org_id")
	if !ok {
		return
	}
	limit, err := httputil.ParseQueryInt(r, "limit", 50)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}
	invoices, err := h.service.ListInvoices(orgID, limit)
	if err != nil {
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteSuccess(w, map[string]interface{}{"invoices": invoices})
}

// CreateInvoice handles POST /api/v1/orgs/{org_id}/invoices
func (h *Handlers) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	orgID, ok := httputil.ParsePathInt64OrError(w, r, "org_id")
	if !ok {
		return
	}
	var invoice Invoice
	if !httputil.ParseJSONOrError(w, r, &invoice) {
		return
	}
	if invoice.ProjectID == 0 {
		httputil.WriteValidationError(w, "project_id is required")
		return
	}
	if invoice.AmountCents < 0 {
		httputil.WriteValidationError(w, "amount_cents must not be negative")
		return
	}
	invoice.OrgID = orgID
	if err := h.service.CreateInvoice(&invoice); err != nil {
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteCreated(w, &invoice)
}

// GetInvoice handles GET /api/v1/orgs/{org_id}/invoices/{invoice_id}
func (h *Handlers) GetInvoice(w http.ResponseWriter, r *http.Request) {
	orgID, ok := httputil.ParsePathInt64OrError(w, r, "org_id")
	if !ok {
		return
	}
	invoiceID, ok := httputil.ParsePathInt64OrError(w, r, "invoice_id")
	if !ok {
		return
	}
	invoice, err := h.service.GetInvoice(orgID, invoiceID)
	if err != nil {
		httputil.WriteNotFoundError(w, err.Error())
		return
	}
	httputil.WriteSuccess(w, invoice)
}

// MarkInvoicePaid handles POST /api/v1/orgs/{org_id}/invoices/{invoice_id}/pay
func (h *Handlers) MarkInvoicePaid(w http.ResponseWriter, r *http.Request) {
	orgID, ok := httputil.ParsePathInt64OrError(w, r, "org_id")
	if !ok {
		return
	}
	invoiceID, ok := httputil.ParsePathInt64OrError(w, r, "invoice_id")
	if !ok {
		return
	}
	if err := h.service.MarkInvoicePaid(orgID, invoiceID); err != nil {
		httputil.WriteNotFoundError(w, err.Error())
		return
	}
	invoice, err := h.service.GetInvoice(orgID, invoiceID)
	if err != nil {
		httputil.WriteNotFoundError(w, err.Error())
		return
	}
	httputil.WriteSuccess(w, invoice)
}
