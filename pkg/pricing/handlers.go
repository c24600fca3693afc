package pricing

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/hardhatlabs/fieldquote/pkg/catalog"
	"github.com/hardhatlabs/fieldquote/pkg/httputil"
)

// Handlers provides the HTTP surface for the pricing engine.
type Handlers struct {
	engine *Engine
	store  catalog.Store
}

// NewHandlers creates pricing handlers.
func NewHandlers(engine *Engine, store catalog.Store) *Handlers {
	return &Handlers{
		engine: engine,
		store:  store,
	}
}

// RegisterRoutes registers all pricing routes.
func (h *Handlers) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/v1/line-items", h.ListLineItems).Methods("GET")
	r.HandleFunc("/api/v1/orgs/{org_id}/options/{option_id}/price", h.ComposeOption).Methods("GET")
	r.HandleFunc("/api/v1/orgs/{org_id}/options/{option_id}/override", h.GetOverride).Methods("GET")
	r.HandleFunc("/api/v1/orgs/{org_id}/options/{option_id}/override", h.SaveOverride).Methods("PUT")
	r.HandleFunc("/api/v1/orgs/{org_id}/packages/{package_id}/totals", h.AggregatePackage).Methods("GET")
}

// writeEngineError maps engine error taxonomy onto HTTP statuses.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case IsNotFound(err):
		httputil.WriteNotFoundError(w, err.Error())
	case IsInvalidReference(err):
		httputil.WriteBadRequest(w, err.Error())
	case IsConflict(err):
		httputil.WriteConflict(w, err.Error())
	default:
		httputil.WriteInternalError(w, err)
	}
}

// ListLineItems handles GET /api/v1/line-items
func (h *Handlers) ListLineItems(w http.ResponseWriter, r *http.Request) {
	filter := catalog.LineItemFilter{
		Industry:    r.URL.Query().Get("industry"),
		CategoryTag: r.URL.Query().Get("category"),
		Search:      r.URL.Query().Get("q"),
	}
	var err error
	if filter.Limit, err = httputil.ParseQueryInt(r, "limit", 100); err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}
	if filter.Offset, err = httputil.ParseQueryInt(r, "offset", 0); err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	items, err := h.store.FetchLineItems(r.Context(), filter)
	if err != nil {
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteSuccess(w, map[string]interface{}{"line_items": items})
}

// ComposeOption handles GET /api/v1/orgs/{org_id}/options/{option_id}/price
func (h *Handlers) ComposeOption(w http.ResponseWriter, r *http.Request) {
	orgID, ok := httputil.ParsePathInt64OrError(w, r, "org_id")
	if !ok {
		return
	}
	optionID := mux.Vars(r)["option_id"]

	quantityStr := r.URL.Query().Get("quantity")
	if quantityStr == "" {
		httputil.WriteValidationError(w, "quantity is required")
		return
	}
	quantity, err := strconv.ParseFloat(quantityStr, 64)
	if err != nil || quantity < 0 {
		httputil.WriteValidationError(w, "quantity must be a non-negative number")
		return
	}

	breakdown, err := h.engine.Compose(r.Context(), optionID, quantity, orgID)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	httputil.WriteSuccess(w, breakdown)
}

// GetOverride handles GET /api/v1/orgs/{org_id}/options/{option_id}/override
func (h *Handlers) GetOverride(w http.ResponseWriter, r *http.Request) {
	orgID, ok := httputil.ParsePathInt64OrError(w, r, "org_id")
	if !ok {
		return
	}
	optionID := mux.Vars(r)["option_id"]

	override, err := h.store.FetchOverride(r.Context(), optionID, orgID)
	if err != nil {
		httputil.WriteInternalError(w, err)
		return
	}
	if override == nil {
		httputil.WriteNotFoundError(w, "no customization override for this option")
		return
	}
	httputil.WriteSuccess(w, override)
}

// SaveOverride handles PUT /api/v1/orgs/{org_id}/options/{option_id}/override
func (h *Handlers) SaveOverride(w http.ResponseWriter, r *http.Request) {
	orgID, ok := httputil.ParsePathInt64OrError(w, r, "org_id")
	if !ok {
		return
	}
	optionID := mux.Vars(r)["option_id"]

	var delta OverrideDelta
	if !httputil.ParseJSONOrError(w, r, &delta) {
		return
	}

	override, err := h.engine.SaveOverride(r.Context(), optionID, orgID, &delta)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	httputil.WriteSuccess(w, override)
}

// AggregatePackage handles GET /api/v1/orgs/{org_id}/packages/{package_id}/totals
func (h *Handlers) AggregatePackage(w http.ResponseWriter, r *http.Request) {
	orgID, ok := httputil.ParsePathInt64OrError(w, r, "org_id")
	if !ok {
		return
	}
	packageID := mux.Vars(r)["package_id"]

	totals, err := h.engine.Aggregate(r.Context(), packageID, orgID)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	httputil.WriteSuccess(w, totals)
}
