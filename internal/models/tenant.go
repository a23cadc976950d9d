package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TenantStatus represents the lifecycle state of a tenant.
type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusInactive  TenantStatus = "inactive"
	TenantStatusSuspended TenantStatus = "suspended"
)

// TenantSettings holds per-tenant configuration.
type TenantSettings struct {
	AllowSelfRegistration    bool `json:"allow_self_registration"`
	RequireEmailVerification bool `json:"require_email_verification"`
	SessionTimeoutMinutes    int  `json:"session_timeout_minutes"`
	MaxUsers                 int  `json:"max_users"`
}

// Tenant represents one organization (school/district). Every other entity
// carries a tenant_id that must equal the acting session's tenant.
// Domain is immutable after creation.
type Tenant struct {
	ID       uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name     string         `gorm:"type:varchar(255);not null" json:"name"`
	Domain   string         `gorm:"type:varchar(255);not null;uniqueIndex" json:"domain"`
	Status   TenantStatus   `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	Settings TenantSettings `gorm:"serializer:json;type:jsonb" json:"settings"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (Tenant) TableName() string {
	return "tenants"
}

// BeforeCreate hook
func (t *Tenant) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// CreateTenantRequest represents a request to create a tenant.
type CreateTenantRequest struct {
	Name     string         `json:"name" validate:"required"`
	Domain   string         `json:"domain" validate:"required,fqdn"`
	Settings TenantSettings `json:"settings"`
}

// UpdateTenantRequest represents a request to update a tenant. The domain
// field is deliberately absent: it cannot change after creation.
type UpdateTenantRequest struct {
	Name     *string         `json:"name,omitempty"`
	Status   *TenantStatus   `json:"status,omitempty" validate:"omitempty,oneof=active inactive suspended"`
	Settings *TenantSettings `json:"settings,omitempty"`
}
