package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campushq/campus-records/internal/models"
)

// TenantRepository manages the tenant registry itself. Tenants are the
// isolation boundary, so these operations are not tenant-scoped in the way
// other collections are; routes using them are admin-gated.
type TenantRepository struct {
	db *gorm.DB
}

// NewTenantRepository creates a tenant repository.
func NewTenantRepository(db *gorm.DB) *TenantRepository {
	return &TenantRepository{db: db}
}

// Get fetches a tenant by id.
func (r *TenantRepository) Get(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := r.db.WithContext(ctx).First(&tenant, "id = ?", id).Error; err != nil {
		return nil, translateStoreError(err)
	}
	return &tenant, nil
}

// GetByDomain fetches a tenant by its registered domain.
func (r *TenantRepository) GetByDomain(ctx context.Context, domain string) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := r.db.WithContext(ctx).First(&tenant, "domain = ?", domain).Error; err != nil {
		return nil, translateStoreError(err)
	}
	return &tenant, nil
}

// List returns all tenants, newest first.
func (r *TenantRepository) List(ctx context.Context, limit int) ([]*models.Tenant, bool, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	var rows []models.Tenant
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, false, translateStoreError(err)
	}
	tenants := make([]*models.Tenant, len(rows))
	for i := range rows {
		tenants[i] = &rows[i]
	}
	return tenants, ApproximateHasMore(len(rows), limit), nil
}

// Create registers a tenant and records tenant_created under the acting
// admin's session.
func (r *TenantRepository) Create(ctx context.Context, sess models.Session, tenant *models.Tenant) error {
	if !sess.Authenticated() {
		return ErrPermission
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(tenant).Error; err != nil {
			return err
		}
		return recordAuditTx(tx, sess, models.ActionTenantCreated, "tenant", tenant.ID.String(), map[string]any{
			"domain": tenant.Domain,
		})
	})
	return translateStoreError(err)
}

// Update patches a tenant. The domain is immutable after creation; a patch
// attempting to change it fails validation.
func (r *TenantRepository) Update(ctx context.Context, sess models.Session, id uuid.UUID, apply func(*models.Tenant) error) (*models.Tenant, error) {
	if !sess.Authenticated() {
		return nil, ErrPermission
	}
	var tenant models.Tenant
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&tenant, "id = ?", id).Error; err != nil {
			return err
		}
		domain := tenant.Domain
		if err := apply(&tenant); err != nil {
			return err
		}
		if tenant.Domain != domain {
			return NewValidationError(FieldError{Field: "domain", Message: "immutable after creation"})
		}
		if err := tx.Save(&tenant).Error; err != nil {
			return err
		}
		return recordAuditTx(tx, sess, models.ActionTenantUpdated, "tenant", id.String(), nil)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, translateStoreError(err)
	}
	return &tenant, nil
}
