package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/campushq/campus-records/internal/models"
	"github.com/campushq/campus-records/internal/repository"
)

// ProfileInvalidator drops cached profile lookups when the backing user
// record changes.
type ProfileInvalidator interface {
	Invalidate(ctx context.Context, principalID string)
}

// UserService handles admin user management. Credentials live with the
// external auth provider; this service owns the profile record only.
type UserService struct {
	users    *repository.UserRepository
	profiles ProfileInvalidator
}

// NewUserService creates a user service.
func NewUserService(users *repository.UserRepository, profiles ProfileInvalidator) *UserService {
	return &UserService{users: users, profiles: profiles}
}

// Create validates and inserts a user account in the acting tenant. The
// password/confirmation pair is validated here and handed to the auth
// provider by the caller; it is never stored.
func (s *UserService) Create(ctx context.Context, sess models.Session, principalID string, req models.CreateUserRequest) (*models.User, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if !req.Role.Valid() {
		return nil, repository.NewValidationError(repository.FieldError{
			Field: "role", Message: "unknown role",
		})
	}

	user := &models.User{
		TenantID:    sess.TenantID,
		PrincipalID: principalID,
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Role:        req.Role,
		Status:      models.UserStatusActive,
	}
	if err := s.users.Create(ctx, sess, user); err != nil {
		return nil, err
	}
	return user, nil
}

// List returns one page of users.
func (s *UserService) List(ctx context.Context, sess models.Session, opts repository.ListOptions) (repository.Page[*models.User], error) {
	return s.users.List(ctx, sess, opts)
}

// Get fetches one user with tenant checking.
func (s *UserService) Get(ctx context.Context, sess models.Session, id uuid.UUID) (*models.User, error) {
	return s.users.Get(ctx, sess, id)
}

// Update patches a user and invalidates its cached profile so the next
// session resolution sees the change.
func (s *UserService) Update(ctx context.Context, sess models.Session, id uuid.UUID, req models.UpdateUserRequest) (*models.User, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if req.Role != nil && !req.Role.Valid() {
		return nil, repository.NewValidationError(repository.FieldError{
			Field: "role", Message: "unknown role",
		})
	}

	user, err := s.users.Update(ctx, sess, id, func(u *models.User) error {
		if req.Email != nil {
			u.Email = *req.Email
		}
		if req.DisplayName != nil {
			u.DisplayName = *req.DisplayName
		}
		if req.Role != nil {
			u.Role = *req.Role
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.profiles.Invalidate(ctx, user.PrincipalID)
	return user, nil
}

// SetStatus transitions an account status and invalidates the cached
// profile. Accounts are never deleted.
func (s *UserService) SetStatus(ctx context.Context, sess models.Session, id uuid.UUID, status models.UserStatus) (*models.User, error) {
	user, err := s.users.SetStatus(ctx, sess, id, status)
	if err != nil {
		return nil, err
	}
	s.profiles.Invalidate(ctx, user.PrincipalID)
	return user, nil
}
