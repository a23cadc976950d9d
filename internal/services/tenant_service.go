package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/campushq/campus-records/internal/models"
)

// TenantRegistry is the slice of the tenant repository the service needs.
type TenantRegistry interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	List(ctx context.Context, limit int) ([]*models.Tenant, bool, error)
	Create(ctx context.Context, sess models.Session, tenant *models.Tenant) error
	Update(ctx context.Context, sess models.Session, id uuid.UUID, apply func(*models.Tenant) error) (*models.Tenant, error)
}

// TenantService validates tenant registry requests before they reach the
// store. Domain immutability is enforced one layer down, in the
// repository.
type TenantService struct {
	tenants TenantRegistry
}

// NewTenantService creates a tenant service.
func NewTenantService(tenants TenantRegistry) *TenantService {
	return &TenantService{tenants: tenants}
}

// Get fetches one tenant.
func (s *TenantService) Get(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	return s.tenants.Get(ctx, id)
}

// List returns the tenant registry.
func (s *TenantService) List(ctx context.Context, limit int) ([]*models.Tenant, bool, error) {
	return s.tenants.List(ctx, limit)
}

// Create validates and registers a tenant.
func (s *TenantService) Create(ctx context.Context, sess models.Session, req models.CreateTenantRequest) (*models.Tenant, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	tenant := &models.Tenant{
		Name:     req.Name,
		Domain:   req.Domain,
		Status:   models.TenantStatusActive,
		Settings: req.Settings,
	}
	if err := s.tenants.Create(ctx, sess, tenant); err != nil {
		return nil, err
	}
	return tenant, nil
}

// Update validates and patches a tenant. The domain cannot change.
func (s *TenantService) Update(ctx context.Context, sess models.Session, id uuid.UUID, req models.UpdateTenantRequest) (*models.Tenant, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	return s.tenants.Update(ctx, sess, id, func(t *models.Tenant) error {
		if req.Name != nil {
			t.Name = *req.Name
		}
		if req.Status != nil {
			t.Status = *req.Status
		}
		if req.Settings != nil {
			t.Settings = *req.Settings
		}
		return nil
	})
}
