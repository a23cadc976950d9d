package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/campushq/campus-records/internal/models"
	"github.com/campushq/campus-records/internal/repository"
	"github.com/campushq/campus-records/internal/services"
)

type fakeTenantRegistry struct {
	tenants map[uuid.UUID]*models.Tenant
}

func (f *fakeTenantRegistry) Get(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	t, ok := f.tenants[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return t, nil
}

func (f *fakeTenantRegistry) List(ctx context.Context, limit int) ([]*models.Tenant, bool, error) {
	out := make([]*models.Tenant, 0, len(f.tenants))
	for _, t := range f.tenants {
		out = append(out, t)
	}
	return out, false, nil
}

func (f *fakeTenantRegistry) Create(ctx context.Context, sess models.Session, tenant *models.Tenant) error {
	tenant.ID = uuid.New()
	f.tenants[tenant.ID] = tenant
	return nil
}

func (f *fakeTenantRegistry) Update(ctx context.Context, sess models.Session, id uuid.UUID, apply func(*models.Tenant) error) (*models.Tenant, error) {
	t, ok := f.tenants[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if err := apply(t); err != nil {
		return nil, err
	}
	return t, nil
}

func tenantRouter(registry *fakeTenantRegistry) chi.Router {
	h := NewTenantHandler(services.NewTenantService(registry))
	r := chi.NewRouter()
	r.Get("/tenants", h.List)
	r.Post("/tenants", h.Create)
	r.Get("/tenants/{id}", h.Get)
	r.Patch("/tenants/{id}", h.Update)
	return r
}

func TestTenantHandlerCreate(t *testing.T) {
	registry := &fakeTenantRegistry{tenants: map[uuid.UUID]*models.Tenant{}}
	router := tenantRouter(registry)

	rec := doRequest(t, router, adminSession(uuid.New()), http.MethodPost, "/tenants", map[string]any{
		"name":   "Westfield District",
		"domain": "westfield.example.org",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status=%d, want 201; body=%s", rec.Code, rec.Body.String())
	}

	var created models.Tenant
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.Status != models.TenantStatusActive {
		t.Fatalf("new tenant status=%v, want active", created.Status)
	}
}

func TestTenantHandlerCreateValidationFailure(t *testing.T) {
	registry := &fakeTenantRegistry{tenants: map[uuid.UUID]*models.Tenant{}}
	router := tenantRouter(registry)

	rec := doRequest(t, router, adminSession(uuid.New()), http.MethodPost, "/tenants", map[string]any{
		"name":   "",
		"domain": "not a domain",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status=%d, want 422; body=%s", rec.Code, rec.Body.String())
	}

	var body struct {
		Fields []repository.FieldError `json:"fields"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Fields) != 2 {
		t.Fatalf("want field errors for name and domain, got %+v", body.Fields)
	}
	if len(registry.tenants) != 0 {
		t.Fatal("invalid request must not reach the store")
	}
}

func TestTenantHandlerUpdateValidationFailure(t *testing.T) {
	existing := &models.Tenant{ID: uuid.New(), Name: "Westfield", Domain: "westfield.example.org", Status: models.TenantStatusActive}
	registry := &fakeTenantRegistry{tenants: map[uuid.UUID]*models.Tenant{existing.ID: existing}}
	router := tenantRouter(registry)

	rec := doRequest(t, router, adminSession(uuid.New()), http.MethodPatch, "/tenants/"+existing.ID.String(), map[string]any{
		"status": "deleted",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status=%d, want 422; body=%s", rec.Code, rec.Body.String())
	}
	if existing.Status != models.TenantStatusActive {
		t.Fatal("invalid patch must not change the tenant")
	}
}
