package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role identifies one of the five principal roles.
type Role string

const (
	RoleStudent    Role = "student"
	RoleTeacher    Role = "teacher"
	RoleCounselor  Role = "counselor"
	RoleSpecialist Role = "specialist"
	RoleAdmin      Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleCounselor, RoleSpecialist, RoleAdmin:
		return true
	}
	return false
}

// UserStatus represents the lifecycle state of a user account.
// Users are never hard-deleted; they transition between statuses.
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusInactive  UserStatus = "inactive"
	UserStatusSuspended UserStatus = "suspended"
)

// Valid reports whether s is a known user status.
func (s UserStatus) Valid() bool {
	switch s {
	case UserStatusActive, UserStatusInactive, UserStatusSuspended:
		return true
	}
	return false
}

// User represents an account within a tenant.
type User struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TenantID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"tenant_id"`
	PrincipalID string     `gorm:"type:varchar(255);not null;uniqueIndex" json:"principal_id"`
	Email       string     `gorm:"type:varchar(255);not null;index" json:"email"`
	DisplayName string     `gorm:"type:varchar(255)" json:"display_name"`
	Role        Role       `gorm:"type:varchar(20);not null;index" json:"role"`
	Status      UserStatus `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (User) TableName() string {
	return "users"
}

// BeforeCreate hook
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// GetID implements repository.Entity.
func (u *User) GetID() uuid.UUID { return u.ID }

// GetTenantID implements repository.Entity.
func (u *User) GetTenantID() uuid.UUID { return u.TenantID }

// GetCreatedAt implements repository.Entity.
func (u *User) GetCreatedAt() time.Time { return u.CreatedAt }

// SearchFields returns the fields matched by free-text filtering.
func (u *User) SearchFields() []string {
	return []string{u.Email, u.DisplayName}
}

// CreateUserRequest represents a request to create a user account.
type CreateUserRequest struct {
	Email           string `json:"email" validate:"required,email"`
	DisplayName     string `json:"display_name" validate:"required"`
	Role            Role   `json:"role" validate:"required"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

// UpdateUserRequest represents a request to update a user account.
type UpdateUserRequest struct {
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	DisplayName *string `json:"display_name,omitempty"`
	Role        *Role   `json:"role,omitempty"`
}
