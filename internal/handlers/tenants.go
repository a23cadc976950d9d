package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/campushq/campus-records/internal/middleware"
	"github.com/campushq/campus-records/internal/models"
)

// TenantService is the slice of the tenant service the handler needs.
type TenantService interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	List(ctx context.Context, limit int) ([]*models.Tenant, bool, error)
	Create(ctx context.Context, sess models.Session, req models.CreateTenantRequest) (*models.Tenant, error)
	Update(ctx context.Context, sess models.Session, id uuid.UUID, req models.UpdateTenantRequest) (*models.Tenant, error)
}

type TenantHandler struct {
	tenants TenantService
}

func NewTenantHandler(tenants TenantService) *TenantHandler {
	return &TenantHandler{tenants: tenants}
}

// List returns the tenant registry.
func (h *TenantHandler) List(w http.ResponseWriter, r *http.Request) {
	tenants, hasMore, err := h.tenants.List(r.Context(), 0)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items":    tenants,
		"has_more": hasMore,
	})
}

// Get returns one tenant.
func (h *TenantHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid tenant ID", http.StatusBadRequest)
		return
	}

	tenant, err := h.tenants.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tenant)
}

// Create registers a new tenant.
func (h *TenantHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSession(r.Context())

	var req models.CreateTenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	tenant, err := h.tenants.Create(r.Context(), sess, req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tenant)
}

// Update patches a tenant; the domain cannot change.
func (h *TenantHandler) Update(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSession(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid tenant ID", http.StatusBadRequest)
		return
	}

	var req models.UpdateTenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	tenant, err := h.tenants.Update(r.Context(), sess, id, req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tenant)
}
