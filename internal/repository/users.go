package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campushq/campus-records/internal/models"
)

// UserRepository handles user account storage. Accounts are never
// hard-deleted; they only move between statuses.
type UserRepository struct {
	store *Store[models.User, *models.User]
	db    *gorm.DB
}

// NewUserRepository creates a user repository.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{
		store: NewStore[models.User, *models.User](db, "user"),
		db:    db,
	}
}

// List returns one page of users in the session's tenant.
func (r *UserRepository) List(ctx context.Context, sess models.Session, opts ListOptions) (Page[*models.User], error) {
	return r.store.List(ctx, sess, opts)
}

// Get fetches a user by id with tenant checking.
func (r *UserRepository) Get(ctx context.Context, sess models.Session, id uuid.UUID) (*models.User, error) {
	return r.store.Get(ctx, sess, id)
}

// GetByPrincipal looks up the user record backing an auth-provider
// subject. Used by identity resolution before any session exists, so it is
// not tenant-scoped. A missing record is ErrNotFound; a store fault is
// surfaced as the recoverable ErrProfileLookup.
func (r *UserRepository) GetByPrincipal(ctx context.Context, principalID string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "principal_id = ?", principalID).Error
	switch {
	case err == nil:
		return &user, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("%w: %v", ErrProfileLookup, err)
	}
}

// Create inserts a user and its user_created audit entry atomically.
func (r *UserRepository) Create(ctx context.Context, sess models.Session, user *models.User) error {
	return r.store.Create(ctx, sess, user, models.ActionUserCreated, map[string]any{
		"email": user.Email,
		"role":  string(user.Role),
	})
}

// Update applies a patch under user_updated.
func (r *UserRepository) Update(ctx context.Context, sess models.Session, id uuid.UUID, apply func(*models.User) error) (*models.User, error) {
	return r.store.Update(ctx, sess, id, models.ActionUserUpdated, apply)
}

// SetStatus transitions an account's status. This is the only removal
// mechanism for users.
func (r *UserRepository) SetStatus(ctx context.Context, sess models.Session, id uuid.UUID, status models.UserStatus) (*models.User, error) {
	if !status.Valid() {
		return nil, NewValidationError(FieldError{Field: "status", Message: "unknown status"})
	}
	return r.store.Update(ctx, sess, id, models.ActionUserStatusChanged, func(u *models.User) error {
		u.Status = status
		return nil
	})
}
