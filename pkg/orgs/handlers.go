package orgs

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hardhatlabs/fieldquote/pkg/httputil"
)

// Handlers provides HTTP handlers for organization management.
type Handlers struct {
	service Service
}

// NewHandlers creates organization handlers.
func NewHandlers(service Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes registers all organization routes.
func (h *Handlers) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/v1/orgs", h.ListOrganizations).Methods("GET")
	r.HandleFunc("/api/v1/orgs", h.CreateOrganization).Methods("POST")
	r.HandleFunc("/api/v1/orgs/{org_id}", h.GetOrganization).Methods("GET")
	r.HandleFunc("/api/v1/orgs/{org_id}", h.UpdateOrganization).Methods("PATCH")
	r.HandleFunc("/api/v1/orgs/{org_id}", h.DeleteOrganization).Methods("DELETE")
}

// ListOrganizations handles GET /api/v1/orgs
func (h *Handlers) ListOrganizations(w http.ResponseWriter, r *http.Request) {
	orgs, err := h.service.ListOrganizations()
	if err != nil {
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteSuccess(w, map[string]interface{}{"organizations": orgs})
}

// CreateOrganization handles POST /api/v1/orgs
func (h *Handlers) CreateOrganization(w http.ResponseWriter, r *http.Request) {
	var req CreateOrgRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if req.Name == "" {
		httputil.WriteValidationError(w, "name is required")
		return
	}
	if !req.Industry.Valid() {
		httputil.WriteValidationError(w, "unknown industry")
		return
	}

	org := &Organization{
		Name:     req.Name,
		Industry: req.Industry,
		PlanTier: req.PlanTier,
		Settings: req.Settings,
	}
	if err := h.service.CreateOrganization(org); err != nil {
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteCreated(w, org)
}

// GetOrganization handles GET /api/v1/orgs/{org_id}
func (h *Handlers) GetOrganization(w http.ResponseWriter, r *http.Request) {
	orgID, ok := httputil.ParsePathInt64OrError(w, r, "org_id")
	if !ok {
		return
	}
	org, err := h.service.GetOrganization(orgID)
	if err != nil {
		httputil.WriteNotFoundError(w, err.Error())
		return
	}
	httputil.WriteSuccess(w, org)
}

// UpdateOrganization handles PATCH /api/v1/orgs/{org_id}
func (h *Handlers) UpdateOrganization(w http.ResponseWriter, r *http.Request) {
	orgID, ok := httputil.ParsePathInt64OrError(w, r, "org_id")
	if !ok {
		return
	}
	var req UpdateOrgRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if err := h.service.UpdateOrganization(orgID, &req); err != nil {
		httputil.WriteInternalError(w, err)
		return
	}
	org, err := h.service.GetOrganization(orgID)
	if err != nil {
		httputil.WriteNotFoundError(w, err.Error())
		return
	}
	httputil.WriteSuccess(w, org)
}

// DeleteOrganization handles DELETE /api/v1/orgs/{org_id}
func (h *Handlers) DeleteOrganization(w http.ResponseWriter, r *http.Request) {
	orgID, ok := httputil.ParsePathInt64OrError(w, r, "org_id")
	if !ok {
		return
	}
	if err := h.service.DeleteOrganization(orgID); err != nil {
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteNoContent(w)
}
